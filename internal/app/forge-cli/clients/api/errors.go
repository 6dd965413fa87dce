package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rotisserie/eris"
)

var (
	ErrNoProject      = eris.New("project name is required")
	ErrNoDeploymentID = eris.New("deployment ID is required")
	ErrInvalidTail    = eris.New("tail must be a positive number of lines")
)

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message == "" {
		return status
	}
	return fmt.Sprintf("%s: %s", status, e.Message)
}

// Retryable reports whether the request may succeed if sent again.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// UserMessage returns the text to show a user for err: the HTTP status and server message
// when the API rejected the request, otherwise the full error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Error()
	}
	return err.Error()
}
