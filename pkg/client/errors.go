package client

import (
	"errors"
	"net/http"
)

var (
	// ErrTransport marks failures to reach the backend or read its reply.
	ErrTransport = errors.New("client: transport failure")
	// ErrDecode marks a successful status whose body is not a JSON object.
	ErrDecode = errors.New("client: decode response")
)

type HTTPError interface {
	error
	StatusCode() int
}

// StatusError reports a non-2xx backend reply.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.Code)
	if text == "" {
		text = "unexpected status"
	}
	return "client: backend responded " + text
}

func (e *StatusError) StatusCode() int {
	if e == nil || e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// IsStatus reports whether err carries a backend status failure.
func IsStatus(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
