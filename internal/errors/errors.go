// Package errors provides the error kinds shared by the store, the command
// surface and the broadcast dispatcher.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error for logging and for what the end user is told.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindValidation Kind = "VALIDATION"
	KindStore      Kind = "STORE"
	KindSend       Kind = "SEND"
)

// Error is a classified error. Message is safe to show to end users for
// NotFound and Validation kinds; Store and Send messages stay internal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GenericMessage is what users see when a Store or Send error reaches a reply.
const GenericMessage = "An error occurred while processing your request."

// NotFound reports a missing id or field.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input that must never reach the store.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Store wraps an underlying query failure.
func Store(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// Send wraps a failed message delivery.
func Send(target string, err error) *Error {
	return &Error{Kind: KindSend, Message: "send to " + target, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain. Unclassified
// errors are treated as store errors so their details are not leaked.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text a chat user may see for err.
func UserMessage(err error) string {
	var e *Error
	if stderrors.As(err, &e) && (e.Kind == KindValidation || e.Kind == KindNotFound) {
		return e.Message
	}
	return GenericMessage
}
