// Package apperrors defines the service error taxonomy. Every error that
// reaches an HTTP response is one of these, rendered as a tagged object
// {code, description} with a status code derived from the tag.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Code tags an error class. The wire value is stable; clients match on it.
type Code string

const (
	CodeUnauthenticated      Code = "UNAUTHENTICATED"
	CodeNotFound             Code = "NOT_FOUND"
	CodeValidationFailure    Code = "VALIDATION_FAILURE"
	CodeCredentialParse      Code = "CREDENTIAL_PARSE_FAILURE"
	CodeStoreFailure         Code = "STORE_FAILURE"
	CodeNotifyFailure        Code = "NOTIFY_FAILURE"
	CodeConfigurationFailure Code = "CONFIGURATION_FAILURE"
)

// Error is a taxonomy-tagged error. Description is safe to return to the
// caller; Err keeps the underlying cause for logging and errors.Is/As.
type Error struct {
	Code        Code   `json:"code"`
	Description string `json:"description"`
	Err         error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error class to an HTTP status code.
func (e *Error) Status() int {
	switch e.Code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationFailure:
		return http.StatusBadRequest
	case CodeCredentialParse:
		return http.StatusUnprocessableEntity
	case CodeStoreFailure, CodeNotifyFailure, CodeConfigurationFailure:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Unauthenticated means the request carried no resolvable credential.
func Unauthenticated() *Error {
	return &Error{Code: CodeUnauthenticated, Description: "bad credential"}
}

// NotFound means no matching Repo or Job row exists.
func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Description: what + " not found"}
}

// Validation means a malformed enum, query, or body field.
func Validation(reason string) *Error {
	return &Error{Code: CodeValidationFailure, Description: reason}
}

// CredentialParse means the bearer header was present but unparseable.
func CredentialParse(reason string) *Error {
	return &Error{Code: CodeCredentialParse, Description: reason}
}

// Store wraps an underlying store error. A gorm "record not found" is
// classified as NotFound instead; everything else is a STORE_FAILURE.
func Store(err error) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Code: CodeNotFound, Description: "record not found", Err: err}
	}
	return &Error{Code: CodeStoreFailure, Description: "store operation failed", Err: err}
}

// Notify wraps a chat-send failure.
func Notify(err error) *Error {
	return &Error{Code: CodeNotifyFailure, Description: "chat notification failed", Err: err}
}

// Configuration means a required shared resource was never attached.
// Always a wiring defect, never a per-request condition.
func Configuration(what string) *Error {
	return &Error{Code: CodeConfigurationFailure, Description: what + " not configured"}
}

// IsCode reports whether err is a taxonomy error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// From coerces any error into a taxonomy error, defaulting to a store
// failure classification for untagged errors.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Store(err)
}
