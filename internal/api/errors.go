package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError indicates the API answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	// Detail is the API's "detail" message, when it sent one.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("API returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// InvalidResponseError indicates a 2xx body that is not the expected JSON.
type InvalidResponseError struct {
	Body []byte
	Err  error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid API response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// TransportError indicates the API could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("API unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage returns the message to show for a failed call: the API's
// detail when there is one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return fallback
}
