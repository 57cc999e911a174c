package errors

import (
	"fmt"
	"log/slog"
)

// Category represents the type of error.
type Category string

const (
	CategoryTemplate   Category = "template"
	CategoryComponent  Category = "component"
	CategoryConfig     Category = "config"
	CategorySnapshot   Category = "snapshot"
	CategoryPlayground Category = "playground"
	CategoryCLI        Category = "cli"
)

// Error is a structured error with a stable code, a suggestion and an
// optional wrapped cause.
type Error struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, instance-specific explanation.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Attrs are structured fields added to log records.
	Attrs []slog.Attr

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches another *Error with the same non-empty code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code != "" && t.Code == e.Code
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.Code),
		slog.String("category", string(e.Category)),
		slog.String("message", e.Message),
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	if e.Wrapped != nil {
		attrs = append(attrs, slog.String("cause", e.Wrapped.Error()))
	}
	attrs = append(attrs, e.Attrs...)
	return slog.GroupValue(attrs...)
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// With adds structured log fields.
func (e *Error) With(attrs ...slog.Attr) *Error {
	e.Attrs = append(e.Attrs, attrs...)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}

// Code returns the code of err if it is (or wraps) an *Error.
func Code(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
