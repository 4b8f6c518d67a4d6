package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"resty.dev/v3"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err carries an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

func newAPIError(response *resty.Response) *APIError {
	var message string
	if body, ok := response.Error().(*errorResponse); ok && body != nil {
		message = detailMessage(body.Detail)
	}
	if message == "" {
		message = fmt.Sprintf("HTTP error! status: %d", response.StatusCode())
	}
	return &APIError{
		StatusCode: response.StatusCode(),
		Message:    message,
	}
}

// detailMessage turns a detail that is either a string or structured JSON into one line.
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
