// Package errors defines typed errors with categories for user-friendly reporting.
// Each error carries a machine-readable Kind so callers can tell a transport
// failure from a rejected credential or a broken local store without parsing
// message text, while still unwrapping to the underlying cause.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// NetworkFailed indicates the auth API could not be reached or the request was aborted.
	NetworkFailed Kind = "network_failed"
	// InvalidResponse indicates the auth API answered with a body we could not use.
	InvalidResponse Kind = "invalid_response"
	// StoreFailed indicates the local credential store could not be read or written.
	StoreFailed Kind = "store_failed"
	// NotAuthenticated indicates no usable session exists.
	NotAuthenticated Kind = "not_authenticated"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is and errors.As.
func (e *E) Unwrap() error { return e.Err }

// Is matches another *E by Kind, so sentinel values built with New compare equal
// to wrapped errors of the same category.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
