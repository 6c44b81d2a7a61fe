package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadResponse  = errors.New("malformed response")
)

// StatusError is a non-2xx response. Message is taken from the JSON body's
// "message" field when the server provides one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Message)
}

// Is makes a 401 match ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// ErrTimeout is the timeout flavour of ErrUnavailable.
var ErrTimeout = fmt.Errorf("request timeout: %w", ErrUnavailable)
