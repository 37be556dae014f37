package dto

import (
	"net/http"
	"strings"
)

// Standardized error codes returned over the wire.
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientFunds = "ERR_INSUFFICIENT_FUNDS"
	ErrCodeAllocationExceeds = "ERR_ALLOCATION_EXCEEDS_PAYMENT"
	ErrCodeSettlementExceeds = "ERR_EXCEEDS_REMAINING"

	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// errorCodeHTTPStatus maps wire error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientFunds: http.StatusUnprocessableEntity,
	ErrCodeAllocationExceeds: http.StatusUnprocessableEntity,
	ErrCodeSettlementExceeds: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a wire error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to wire codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"UNIT_NOT_FOUND":    ErrCodeNotFound,
	"INVOICE_NOT_FOUND": ErrCodeNotFound,
	"PAYMENT_NOT_FOUND": ErrCodeNotFound,
	"FUND_NOT_FOUND":    ErrCodeNotFound,

	"ALREADY_EXISTS": ErrCodeAlreadyExists,

	"VALIDATION":               ErrCodeValidation,
	"INVALID_WORKBOOK":         ErrCodeValidation,
	"UNSUPPORTED_CONTENT_TYPE": ErrCodeValidation,

	"FORBIDDEN": ErrCodeForbidden,

	"INVALID_STATE":         ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"OPTIMISTIC_LOCK_ERROR": ErrCodeConcurrencyConflict,

	"INSUFFICIENT_FUNDS":         ErrCodeInsufficientFunds,
	"NO_UNITS":                   ErrCodeBusinessRule,
	"ALLOCATION_EXCEEDS_PAYMENT": ErrCodeAllocationExceeds,
	"EXCEEDS_REMAINING":          ErrCodeSettlementExceeds,

	"STORAGE_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Input-shaped domain codes (INVALID_*) collapse to validation.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := domainErrorCodeMapping[code]; ok {
		return wireCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeValidation
	}
	return code
}
