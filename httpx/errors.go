package httpx

import (
	"errors"
	"fmt"

	"dqx0.com/go/plainhttp/httpx/internal/http1"
)

var (
	ErrBadURL           = errors.New("httpx: malformed URL")
	ErrResolve          = errors.New("httpx: cannot resolve host")
	ErrConnect          = errors.New("httpx: connect failed")
	ErrTooManyRedirects = errors.New("httpx: too many redirects")

	ErrTransport      = http1.ErrTransport
	ErrMalformedReply = http1.ErrMalformedReply
	ErrCanceled       = http1.ErrCanceled
	ErrBodyTooLarge   = http1.ErrBodyTooLarge
)

// StatusError reports a reply the engine does not fetch a body for: a
// status of 400 or above, or a 3xx that is not followed.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("httpx: status %d", e.Code)
	}
	return fmt.Sprintf("httpx: status %d %s", e.Code, e.Reason)
}

// StatusCode collapses an operation error to a single status number: the
// literal HTTP status for a *StatusError and 0 for everything else.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
