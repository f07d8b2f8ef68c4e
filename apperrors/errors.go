package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error into one of the user-facing
// message categories. Every failure surfaced by the client maps to
// exactly one Kind.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers client-side field checks and 4xx responses
	// carrying field errors. No retry will help until input changes.
	KindValidation
	// KindCapacity is raised when a quantity change would push total
	// stock over the fixed inventory capacity.
	KindCapacity
	// KindAuthorization covers 401/403 responses. The session is cleared
	// and the user is routed back to login.
	KindAuthorization
	// KindNotFound covers 404 on a product lookup.
	KindNotFound
	// KindServer covers 5xx responses. Retryable.
	KindServer
	// KindNetwork covers requests that got no response at all. Retryable.
	KindNetwork
	// KindTimeout covers requests that exceeded the configured deadline.
	KindTimeout
)

// String returns a short label for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCapacity:
		return "capacity_exceeded"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error represents an application error with a user-facing message and
// optional per-field detail (for validation failures reported by the API).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// FieldMessages flattens the per-field errors into display lines like
// "email: This field is required." ordered is not guaranteed.
func (e *Error) FieldMessages() []string {
	var out []string
	for field, msgs := range e.Fields {
		out = append(out, fmt.Sprintf("%s: %s", field, strings.Join(msgs, " ")))
	}
	return out
}

// New creates a new Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error carrying per-field messages.
func Validation(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Capacity creates a capacity-exceeded error.
func Capacity(message string) *Error {
	return &Error{Kind: KindCapacity, Message: message}
}

// Authorization creates an authorization error.
func Authorization(message string, err error) *Error {
	return &Error{Kind: KindAuthorization, Message: message, Err: err}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Server creates a server-failure error.
func Server(message string, err error) *Error {
	return &Error{Kind: KindServer, Message: message, Err: err}
}

// Network creates a no-response error.
func Network(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

// Timeout creates a request-deadline error.
func Timeout(message string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// KindOf extracts the Kind from any error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
