// Package apperror defines the error taxonomy shared by the coordination
// services and the HTTP layer. Every failure a service returns is an *Error
// with one of the kinds below, so callers can render a specific message per kind.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindPermission Kind = "permission"
	KindStorage    Kind = "storage"
)

// Kind sentinels for errors.Is checks.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrPermission = errors.New("permission denied")
	ErrStorage    = errors.New("storage error")
)

var kindSentinels = map[Kind]error{
	KindValidation: ErrValidation,
	KindNotFound:   ErrNotFound,
	KindConflict:   ErrConflict,
	KindPermission: ErrPermission,
	KindStorage:    ErrStorage,
}

type Error struct {
	Kind    Kind
	Op      string // e.g. "membership.Join"
	Message string // safe to show to the user
	Err     error  // underlying cause, optional
}

func (e *Error) Error() string {
	if e.Op == "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel and, for sentinel *Error values declared by
// services, any *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	if sentinel, ok := kindSentinels[e.Kind]; ok && target == sentinel {
		return true
	}
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind && other.Message == e.Message
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// At returns a copy of e annotated with the failing operation.
func (e *Error) At(op string) *Error {
	c := *e
	c.Op = op
	return &c
}

func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func NotFound(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

func Permission(op, message string) *Error {
	return &Error{Kind: KindPermission, Op: op, Message: message}
}

// Storage wraps a persistent store failure. The core never retries these.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Message: "storage unavailable", Err: err}
}

// KindOf returns the kind of err, or KindStorage for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
