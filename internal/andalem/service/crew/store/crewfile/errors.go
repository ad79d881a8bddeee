package crewfile

import (
	"errors"
	"fmt"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
)

// IOError reports a failed file system operation on a crew file or directory.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("crewfile %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a crew file whose content is not a valid crew.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("crewfile parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const (
	opSave   = "save"
	opLoad   = "load"
	opList   = "list"
	opRemove = "remove"
)

// UserMessage returns the short message shown to the user for a persistence failure.
func UserMessage(err error) string {
	var (
		ioErr    *IOError
		parseErr *ParseError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errno.ErrEmptyName):
		return "No file name entered!"
	case errors.Is(err, errno.ErrDuplicateName):
		return "A crew file with the same name already exists! Enter a different file name or check the 'Overwrite Existing' option"
	case errors.Is(err, errno.ErrCrewFileNotFound):
		return "No crew selected!"
	case errors.As(err, &parseErr):
		return "There was an error loading the crew! Check the log for details"
	case errors.As(err, &ioErr):
		switch ioErr.Op {
		case opSave:
			return "There was an error saving the crew! Check the log for details"
		case opLoad:
			return "There was an error loading the crew! Check the log for details"
		case opRemove:
			return "There was an error removing the crew! Check the log for details"
		}
		return "There was an error listing the saved crews! Check the log for details"
	}
	return "There was an error accessing the saved crews! Check the log for details"
}
