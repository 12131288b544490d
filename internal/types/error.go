package types

import (
	"fmt"
	"net/http"
)

// Error kinds carried in CustomError.Type, used by the HTTP layer to pick
// response envelopes and by tests to assert failure classes.
const (
	KindPermission    = "permission"
	KindMalformedData = "malformed-data"
	KindNotFound      = "not-found"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewPermissionDenied reports an edit attempt by a non-owner, non-superuser.
// The message is user-facing and names the required permission.
func NewPermissionDenied(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusForbidden,
		Message: message,
		Type:    KindPermission,
	}
}

// NewMalformedData reports a stored script payload that failed to decode.
func NewMalformedData(err error) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("Script data is malformed: %v", err),
		Type:    KindMalformedData,
	}
}

// NewNotFound reports a missing record or job output.
func NewNotFound(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: message,
		Type:    KindNotFound,
	}
}
