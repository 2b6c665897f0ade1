package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is returned for any non-2xx response from the server.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %d", e.Operation, e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	apiErr := &APIError{}
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

func newAPIError(operation string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{Operation: operation, StatusCode: statusCode}

	// Servers answer errors either as {"message": "..."} or as plain text.
	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.Error != "":
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" && len(body) > 0 {
		apiErr.Message = string(body)
	}
	return apiErr
}
