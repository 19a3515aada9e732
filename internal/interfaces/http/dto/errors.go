package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeConcurrencyTimeout is used when a row lock wait times out
	ErrCodeConcurrencyTimeout = "ERR_CONCURRENCY_TIMEOUT"
	// ErrCodeDuplicateRequest is used when an idempotency key is replayed
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvalidTransition is used when a status transition is not allowed
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeAlreadyCompleted is used when completing a completed order
	ErrCodeAlreadyCompleted = "ERR_ALREADY_COMPLETED"
	// ErrCodeAlreadyCanceled is used when canceling a canceled order
	ErrCodeAlreadyCanceled = "ERR_ALREADY_CANCELED"
	// ErrCodeOrderClosed is used when mutating a completed or canceled order
	ErrCodeOrderClosed = "ERR_ORDER_CLOSED"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeItemNotFound is used when an order has no line for a product
	ErrCodeItemNotFound = "ERR_ITEM_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeConcurrencyTimeout:  http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeAlreadyCompleted:  http.StatusUnprocessableEntity,
	ErrCodeAlreadyCanceled:   http.StatusUnprocessableEntity,
	ErrCodeOrderClosed:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeItemNotFound:      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire-format codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_TRANSITION":   ErrCodeInvalidTransition,
	"ALREADY_COMPLETED":    ErrCodeAlreadyCompleted,
	"ALREADY_CANCELED":     ErrCodeAlreadyCanceled,
	"ORDER_CLOSED":         ErrCodeOrderClosed,
	"ITEM_NOT_FOUND":       ErrCodeItemNotFound,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"CONCURRENCY_TIMEOUT":  ErrCodeConcurrencyTimeout,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Validation-style domain codes (INVALID_QUANTITY, INVALID_CUSTOMER_NAME,
// etc.) have no dedicated wire code and map to ERR_VALIDATION.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeValidation
	}
	return code
}
