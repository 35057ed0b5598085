package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the different kinds of failure an export can hit
type ErrorType string

const (
	ErrorTypeUsage     ErrorType = "usage"
	ErrorTypeStructure ErrorType = "structure"
	ErrorTypeFormat    ErrorType = "format"
	ErrorTypeHTTP      ErrorType = "http"
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeForbidden ErrorType = "forbidden"
)

// Error is a typed export error. Every type is fatal to the run.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Usage reports a missing or malformed command-line argument
func Usage(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeUsage, Message: fmt.Sprintf(format, args...)}
}

// Structure reports a page whose layout no longer matches what the parser expects
func Structure(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeStructure, Message: fmt.Sprintf(format, args...)}
}

// Format reports a rating image whose filename does not follow the <N>m.png encoding
func Format(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeFormat, Message: fmt.Sprintf(format, args...)}
}

// HTTP reports a fetch that came back with a failure status
func HTTP(code int, url string) *Error {
	return &Error{Type: ErrorTypeHTTP, Message: fmt.Sprintf("GET %s failed", url), Code: code}
}

// Network reports a fetch that never produced a response
func Network(url string, err error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("GET %s", url), Err: err}
}

// Forbidden reports a page disallowed by the site's robots.txt
func Forbidden(url string) *Error {
	return &Error{Type: ErrorTypeForbidden, Message: fmt.Sprintf("%s is disallowed by robots.txt", url)}
}

// IsType reports whether err, or anything it wraps, is an *Error of type t
func IsType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
