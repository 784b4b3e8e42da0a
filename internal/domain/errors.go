package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport signals that the request could not be completed.
	ErrTransport = errors.New("transport error")
	// ErrParse signals a malformed or unexpected response body.
	ErrParse = errors.New("parse error")
	// ErrServer signals a non-success status from the search server.
	ErrServer = errors.New("server error")
	// ErrNoReplicas signals a transport configured without any base URL.
	ErrNoReplicas = errors.New("no server URLs configured")
)

// TransportError is a failed request. Status is 0 when no response arrived.
type TransportError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	method := e.Method
	if method == "" {
		method = "GET"
	}
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s %s: status %d: %v", ErrTransport, method, e.Path, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s %s: status %d", ErrTransport, method, e.Path, e.Status)
	default:
		return fmt.Sprintf("%s: %s %s: %v", ErrTransport, method, e.Path, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is matches ErrTransport, and ErrServer when a status was received.
func (e *TransportError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	return target == ErrServer && e.Status != 0
}

// NewServerError creates a TransportError for a non-success HTTP status.
func NewServerError(method, path string, status int, body string) error {
	return &TransportError{Method: method, Path: path, Status: status, Body: body, Err: ErrServer}
}

// ParseError is a response body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
