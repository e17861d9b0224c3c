// Package srverr attaches HTTP-relevant kinds to service errors.
package srverr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Other Kind = iota
	Conflict
	Invalid
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Conflict:
		return "conflict with existing item"
	case Invalid:
		return "invalid operation"
	case NotFound:
		return "item does not exist"
	}
	return "unknown error kind"
}

type Error struct {
	Kind Kind
	Err  error
	// Suggestions are alternatives to a missing item.
	Suggestions []string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Message() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func newError(kind Kind, args ...any) *Error {
	e := &Error{Kind: kind}
	if len(args) == 0 {
		return e
	}
	switch arg := args[0].(type) {
	case error:
		e.Err = arg
	case string:
		e.Err = fmt.Errorf(arg, args[1:]...)
	default:
		e.Err = fmt.Errorf("%v", arg)
	}
	return e
}

func ErrConflict(args ...any) error {
	return newError(Conflict, args...)
}

func ErrInvalid(args ...any) error {
	return newError(Invalid, args...)
}

func ErrNotFound(args ...any) error {
	return newError(NotFound, args...)
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == NotFound
}
