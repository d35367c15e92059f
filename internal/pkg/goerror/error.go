package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"

	"github.com/shandysiswandi/goship/internal/pkg/stacktrace"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Kind is the closed set of error variants the HTTP layer knows how to render.
type Kind int

const (
	// KindInternal represents unexpected failures. Details are hidden in production.
	KindInternal Kind = iota
	// KindOperational represents expected, user-facing conditions (not found, conflict, ...).
	KindOperational
	// KindValidation represents malformed user input carrying field errors.
	KindValidation
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ERROR_KIND_VALIDATION"
	case KindOperational:
		return "ERROR_KIND_OPERATIONAL"
	case KindInternal:
		return "ERROR_KIND_INTERNAL"
	default:
		return "ERROR_KIND_UNKNOWN"
	}
}

// FieldError is a single validation complaint tied to one input field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a kind, an HTTP status code and, for validation failures, the field errors.
type Error struct {
	err    error
	msg    string
	kind   Kind
	status int
	fields []FieldError
	stack  []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.kind {
	case KindValidation:
		return "Validation failed"
	case KindOperational:
		return http.StatusText(e.StatusCode())
	default:
		return "Internal error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Kind: %s, Status: %d, Message: %s, Underlying Error: %v",
		e.kind.String(),
		e.StatusCode(),
		e.msg,
		e.err,
	)
}

// Msg returns the user-facing error message.
func (e *Error) Msg() string {
	return e.msg
}

// Kind returns the error variant.
func (e *Error) Kind() Kind {
	return e.kind
}

// IsOperational reports whether the error is an expected, user-facing condition.
func (e *Error) IsOperational() bool {
	return e.kind != KindInternal
}

// Fields returns a copy of the validation field errors, if any.
func (e *Error) Fields() []FieldError {
	return slices.Clone(e.fields)
}

// Stack returns the internal stack frames captured when the error was created.
// Only internal errors capture a stack.
func (e *Error) Stack() []string {
	return slices.Clone(e.stack)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode returns the HTTP status code carried by the error.
func (e *Error) StatusCode() int {
	if e.kind == KindValidation {
		return http.StatusBadRequest
	}
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

// NewValidation creates a validation failure carrying every offending field.
//
// A validation failure never exists without field errors; with none given the
// result is an operational 400 instead.
func NewValidation(fields ...FieldError) error {
	if len(fields) == 0 {
		return NewInvalidFormat("Validation failed")
	}

	return &Error{
		msg:    "Validation failed",
		kind:   KindValidation,
		status: http.StatusBadRequest,
		fields: slices.Clone(fields),
	}
}

// NewBusiness creates an operational error with the specified message and status code.
func NewBusiness(msg string, status int) error {
	return &Error{msg: msg, kind: KindOperational, status: status}
}

// NewNotFound creates an operational 404 error.
func NewNotFound(msg string) error {
	return NewBusiness(msg, http.StatusNotFound)
}

// NewInvalidFormat creates an operational 400 error for requests that cannot be parsed at all.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return NewBusiness("Invalid request body", http.StatusBadRequest)
	}
	return NewBusiness(msgs[0], http.StatusBadRequest)
}

// NewServer creates an internal error wrapping err. The wrapped message is shown
// to clients only outside production.
func NewServer(err error) error {
	msg := "Internal Server Error"
	if err != nil {
		msg = err.Error()
	}

	return &Error{
		err:    err,
		msg:    msg,
		kind:   KindInternal,
		status: http.StatusInternalServerError,
		stack:  stacktrace.InternalPaths(debug.Stack()),
	}
}

// From returns err as *Error, treating anything outside the taxonomy as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}

	//nolint:forcetypeassert,errorlint // NewServer always returns *Error
	return NewServer(err).(*Error)
}
