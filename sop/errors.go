package sop

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is the closed error taxonomy of spec.md §7.
type ErrorKind int

const (
	InputMissing ErrorKind = iota
	InputInvalid
	ParameterInvalid
	AlgorithmFailure
	ResourceFailure
	CircularDependency
	UnknownNodeType
)

func (k ErrorKind) String() string {
	switch k {
	case InputMissing:
		return "input-missing"
	case InputInvalid:
		return "input-invalid"
	case ParameterInvalid:
		return "parameter-invalid"
	case AlgorithmFailure:
		return "algorithm-failure"
	case ResourceFailure:
		return "resource-failure"
	case CircularDependency:
		return "circular-dependency"
	case UnknownNodeType:
		return "unknown-node-type"
	default:
		return "error-kind?"
	}
}

// kindError pairs a message with its taxonomy kind so that KindOf can
// recover it after the error has been wrapped by pkg/errors.
type kindError struct {
	kind  ErrorKind
	msg   string
	cause error
}

func (e *kindError) Error() string { return e.msg }

// Unwrap returns the error given to WrapError, or nil for NewError.
func (e *kindError) Unwrap() error { return e.cause }

// NewError builds a classified error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) error {
	return errors.WithStack(&kindError{kind: kind, msg: fmt.Sprintf(format, args...)})
}

// WrapError attaches kind to an existing error (e.g. one returned by a
// delegated algorithm), keeping the original as its cause chain.
func WrapError(kind ErrorKind, cause error, msg string) error {
	return errors.WithStack(&kindError{kind: kind, msg: msg + ": " + cause.Error(), cause: cause})
}

// KindOf recovers the ErrorKind attached to err via NewError, walking
// any pkg/errors wrapping. It returns AlgorithmFailure (the closest
// generic taxonomy bucket) if err was not built with NewError.
func KindOf(err error) ErrorKind {
	type causer interface{ Cause() error }
	for err != nil {
		if ke, ok := err.(*kindError); ok {
			return ke.kind
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return AlgorithmFailure
}
