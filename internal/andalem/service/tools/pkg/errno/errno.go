package errno

import (
	"errors"
)

var (
	ErrUnknownTool           = errors.New("tool is not in the catalog")
	ErrMissingAPIKey         = errors.New("tool API key is not configured")
	ErrNoInputProvider       = errors.New("no user input provider is attached")
	ErrTranscriptUnavailable = errors.New("no transcript available")
)
