// Package apperr classifies request failures for the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindClientInput Kind = "client_input"
	KindProcessing  Kind = "processing"
)

// GenericDetail is the only detail a processing failure exposes to callers.
const GenericDetail = "Internal Server Error"

// Error carries a kind and a caller-facing message alongside the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ClientInput(message string) *Error {
	return &Error{Kind: KindClientInput, Message: message}
}

func Processing(message string, err error) *Error {
	return &Error{Kind: KindProcessing, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Anything
// unclassified is a processing failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProcessing
}

func StatusCode(err error) int {
	if KindOf(err) == KindClientInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Detail returns the message safe to put on the wire.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindClientInput {
		return e.Message
	}
	return GenericDetail
}
