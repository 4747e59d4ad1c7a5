package ecode

import (
	"errors"
	"fmt"
)

const (
	emptyMsg       = "empty"
	requiredMsg    = "required"
	invalidMsg     = "invalid"
	unsupportedMsg = "unsupported"
	failedMsg      = "failed"
	notConfigured  = "not configured"
)

// Kind classifies an error by who is expected to fix it.
type Kind string

const (
	// InvalidArgument marks a malformed clause, operator/value pair or sub-query.
	InvalidArgument Kind = "invalid_argument"
	// NotConfigured marks a missing engine, transport or cache setting.
	NotConfigured Kind = "not_configured"
	// Transport marks a failure reported by the search engine or its client.
	Transport Kind = "transport"
)

// Sentinels usable with errors.Is.
var (
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrNotConfigured   = &Error{Kind: NotConfigured}
	ErrTransport       = &Error{Kind: Transport}
)

// Error is the error type returned by query construction and execution.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Field == "" && t.Message == "" && t.Err == nil
}

// Invalid returns an InvalidArgument error for field.
func Invalid(field, message string) error {
	if message == "" {
		message = invalidMsg
	}
	return &Error{Kind: InvalidArgument, Field: field, Message: message}
}

// Invalidf returns an InvalidArgument error with a formatted message.
func Invalidf(field, format string, args ...any) error {
	return &Error{Kind: InvalidArgument, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Missing returns a NotConfigured error for key.
func Missing(key string) error {
	return &Error{Kind: NotConfigured, Field: key, Message: notConfigured}
}

// Wrap wraps err as a Transport error raised by op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Transport, Field: op, Message: failedMsg, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], requiredMsg)
	}
	return emptyMsg
}

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], emptyMsg)
	}
	return emptyMsg
}

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], invalidMsg)
	}
	return invalidMsg
}

// Unsupported returns unsupported message
func Unsupported(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], unsupportedMsg)
	}
	return unsupportedMsg
}

// Failed returns failed message
func Failed(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], failedMsg)
	}
	return failedMsg
}
