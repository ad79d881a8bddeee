package errno

import (
	"errors"
)

var (
	ErrUnknownModel     = errors.New("model is not in the catalog")
	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderDisabled = errors.New("provider is disabled")
	ErrNotChatModel     = errors.New("provider cannot build chat models")
)
