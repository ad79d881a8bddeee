package errno

import (
	"errors"
)

var (
	ErrRunNotFound       = errors.New("run not found")
	ErrInvalidTransition = errors.New("invalid run state transition")
	ErrCrewNotReady      = errors.New("crew configuration is incomplete")
	ErrEmptyCrew         = errors.New("crew has no agents")

	ErrModelNotToolCapable = errors.New("model does not support tool calling")
	ErrManagerRequired     = errors.New("hierarchical process requires a manager model")
	ErrUnknownAgent        = errors.New("task references an unknown agent")
)
