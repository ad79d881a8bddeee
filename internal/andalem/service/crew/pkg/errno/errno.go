package errno

import (
	"errors"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrAgentNotFound    = errors.New("agent not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrCrewNotFound     = errors.New("crew not found")
	ErrFirstTaskLocked  = errors.New("the first task of an agent cannot be removed")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrUnknownModel     = errors.New("unknown model")
	ErrEmptyName        = errors.New("no file name entered")
	ErrDuplicateName    = errors.New("a crew file with the same name already exists")
	ErrCrewFileNotFound = errors.New("crew file not found")
)
