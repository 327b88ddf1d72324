// Package errors defines the error conditions raised while assembling
// numexpr bytecode.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrInternal matches every *InternalError via errors.Is.
var ErrInternal = stderrors.New("internal error")

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// InternalError indicates that a producer violated a precondition of the
// assembler, for example by popping more stack slots than were pushed. These
// errors are fatal for the current compilation.
type InternalError struct {
	Code ErrorCode
	Err  error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("internal error %s: %s", e.Code, e.Code.Description())
	}
	return fmt.Sprintf("internal error %s: %s: %s", e.Code, e.Code.Description(), e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) IsFatal() bool {
	return true
}

// Is reports whether target is ErrInternal or an InternalError with the
// same code.
func (e *InternalError) Is(target error) bool {
	if target == ErrInternal {
		return true
	}
	if t, ok := target.(*InternalError); ok {
		return t.Code == e.Code
	}
	return false
}

func NewInternalError(code ErrorCode, err error) *InternalError {
	return &InternalError{Code: code, Err: err}
}

func InternalErrorf(code ErrorCode, format string, args ...any) *InternalError {
	return NewInternalError(code, fmt.Errorf(format, args...))
}

// IsInternal returns true if err is or wraps an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return stderrors.As(err, &ie)
}

// CodeOf returns the code of the first InternalError in err's chain, or an
// empty code if there is none.
func CodeOf(err error) ErrorCode {
	var ie *InternalError
	if stderrors.As(err, &ie) {
		return ie.Code
	}
	return ""
}
