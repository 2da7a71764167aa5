package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrCapacity   = errors.New("capacity reached")
)

// ErrorKind coarse category of a DomainError
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	// KindCapacity is a conflict on the occupancy limit
	KindCapacity ErrorKind = "capacity"
)

// DomainError carries the kind, the failing operation and a caller-facing message.
type DomainError struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel for the error's kind. Capacity also matches ErrConflict.
func (e *DomainError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict || e.Kind == KindCapacity
	case ErrCapacity:
		return e.Kind == KindCapacity
	}
	return false
}

func Validation(op, msg string) error { return &DomainError{Kind: KindValidation, Op: op, Msg: msg} }
func NotFound(op, msg string) error   { return &DomainError{Kind: KindNotFound, Op: op, Msg: msg} }
func Conflict(op, msg string) error   { return &DomainError{Kind: KindConflict, Op: op, Msg: msg} }
func Capacity(op, msg string) error   { return &DomainError{Kind: KindCapacity, Op: op, Msg: msg} }

// KindOf returns the kind of the first DomainError in err's chain, or "" for
// anything else (storage failures included).
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Message returns the caller-facing message of a DomainError without the op prefix.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Msg != "" {
		return de.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
