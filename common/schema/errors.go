/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package schema

import (
	"encoding/json"
	"fmt"
)

// Error codes carried in APIError.Error
//
//goland:noinspection ALL
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeTokenExpired = "token_expired"
	ErrCodeUserNotFound = "user_not_found"
	ErrCodeBadPassword  = "invalid_credentials"
	ErrCodeUserExists   = "user_exists"
	ErrCodeVerified     = "already_verified"
	ErrCodeNotFound     = "not_found"
	ErrCodeNotAllowed   = "method_not_allowed"
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeInternal     = "internal_error"
	ErrCodeUnavailable  = "unavailable"
	UnknownErrorMessage = "unknown error"
)

// APIError is the body of every non-2xx response from the backend
type APIError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Code)
	}
	return e.Message
}

// NewAPIError returns an APIError for the given status
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// ParseAPIError decodes a backend error body. Bodies that are not an
// APIError produce the generic "unknown error" message.
func ParseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if err := json.Unmarshal(body, e); err != nil || (e.Code == "" && e.Message == "") {
		return &APIError{Status: status, Message: UnknownErrorMessage}
	}
	return e
}
