package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StatusError is a non-2xx response from the API. Detail carries the
// server's machine-readable error string verbatim when one was sent.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// statusError drains the error body and builds a StatusError from the
// {"detail": "..."} envelope the API uses for every failure.
func statusError(resp *http.Response) error {
	var raw struct {
		Detail string `json:"detail"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(body, &raw)
	return &StatusError{StatusCode: resp.StatusCode, Detail: raw.Detail}
}
