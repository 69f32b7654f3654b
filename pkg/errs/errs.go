package errs

import (
	"errors"
	"fmt"
)

// Err represents structure of a custom error
type Err struct {
	Code    string
	Message string
	cause   error
}

func (e Err) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s : %s : %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s : %s ", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e Err) Unwrap() error {
	return e.cause
}

// Is reports whether target carries the same error code, so that wrapped
// errors can be classified with errors.Is against the package level values.
func (e Err) Is(target error) bool {
	var t Err
	switch v := target.(type) {
	case Err:
		t = v
	case *Err:
		if v == nil {
			return false
		}
		t = *v
	default:
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e with cause attached.
func (e Err) Wrap(cause error) Err {
	e.cause = cause
	return e
}

// Wrapf returns a copy of e with a formatted cause attached.
func (e Err) Wrapf(format string, args ...interface{}) Err {
	e.cause = fmt.Errorf(format, args...)
	return e
}

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}

// Code returns the code of the first Err found in the chain of err,
// or an empty string.
func Code(err error) string {
	var e Err
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var (
	// ErrApiStatus is returned when the api status is not 2xx.
	ErrApiStatus = New("non OK status")
	// ErrInvalidLoggerInstance is returned when logger instance is not supported.
	ErrInvalidLoggerInstance = New("Invalid logger instance")
	// GenericErrRemark returns a generic error message for user facing errors.
	GenericErrRemark = New("Unexpected error")
)
