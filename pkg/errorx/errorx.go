package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Coder describes a registered error code.
type Coder interface {
	// Code returns the numeric business code.
	Code() int
	// HTTPStatus returns the status written to HTTP clients.
	HTTPStatus() int
	// String returns the external (user facing) message.
	String() string
	// Reference returns a documentation link, may be empty.
	Reference() string
}

type defaultCoder struct{}

func (defaultCoder) Code() int         { return 1 }
func (defaultCoder) HTTPStatus() int   { return http.StatusInternalServerError }
func (defaultCoder) String() string    { return "An internal server error occurred" }
func (defaultCoder) Reference() string { return "" }

var (
	mu     sync.RWMutex
	codes  = map[int]Coder{}
	noCode Coder = defaultCoder{}
)

// Register adds a coder. It fails when the code is already taken.
func Register(c Coder) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := codes[c.Code()]; ok {
		return fmt.Errorf("code %d already registered", c.Code())
	}
	codes[c.Code()] = c
	return nil
}

// MustRegister is Register that panics on duplicates.
func MustRegister(c Coder) {
	if err := Register(c); err != nil {
		panic(err)
	}
}

type withCode struct {
	code  int
	msg   string
	cause error
}

func (w *withCode) Error() string {
	if w.cause == nil {
		return w.msg
	}
	return fmt.Sprintf("%s: %v", w.msg, w.cause)
}

func (w *withCode) Unwrap() error { return w.cause }

// WithCode returns a new coded error.
func WithCode(code int, format string, args ...interface{}) error {
	return &withCode{code: code, msg: fmt.Sprintf(format, args...)}
}

// WrapC annotates err with a code and a message. A nil err yields nil.
func WrapC(err error, code int, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &withCode{code: code, msg: fmt.Sprintf(format, args...), cause: err}
}

// ParseCoder returns the coder of the outermost coded error in the chain.
func ParseCoder(err error) Coder {
	var w *withCode
	if !errors.As(err, &w) {
		return noCode
	}
	mu.RLock()
	defer mu.RUnlock()
	if c, ok := codes[w.code]; ok {
		return c
	}
	return noCode
}

// Message returns the annotation attached by WithCode/WrapC, without the cause.
func Message(err error) string {
	var w *withCode
	if errors.As(err, &w) {
		return w.msg
	}
	return ""
}

// IsCode reports whether any coded error in the chain carries code.
func IsCode(err error, code int) bool {
	for err != nil {
		var w *withCode
		if !errors.As(err, &w) {
			return false
		}
		if w.code == code {
			return true
		}
		err = w.cause
	}
	return false
}
