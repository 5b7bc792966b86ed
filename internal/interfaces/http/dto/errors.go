package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain codes come from
// the services and are mapped below.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeStatus maps every error code the services emit to an HTTP
// status. Write conflicts and state-machine rejections land on 409;
// business-rule rejections, including dependent-record delete blocks and
// capacity/stock shortfalls, are 400 with a descriptive message.
var errorCodeStatus = map[string]int{
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,
	"INVALID_INPUT":      http.StatusBadRequest,
	"INVALID_TIME":       http.StatusBadRequest,
	"INVALID_REFERENCE":  http.StatusBadRequest,
	"GRADE_MISMATCH":     http.StatusBadRequest,
	"WEAK_PASSWORD":      http.StatusBadRequest,
	"HAS_DEPENDENTS":     http.StatusBadRequest,
	"INSUFFICIENT_STOCK": http.StatusBadRequest,
	"CLASS_FULL":         http.StatusBadRequest,
	"EMPTY_REPORT":       http.StatusBadRequest,
	"AMOUNT_MISMATCH":    http.StatusBadRequest,
	"CURRENCY_MISMATCH":  http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,

	ErrCodeForbidden: http.StatusForbidden,
	ErrCodeNotFound:  http.StatusNotFound,

	"ALREADY_EXISTS":    http.StatusConflict,
	"SCHEDULE_CONFLICT": http.StatusConflict,
	"INVALID_STATE":     http.StatusConflict,

	"GATEWAY_ERROR": http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodeInternal:    http.StatusInternalServerError,
}

// StatusForCode returns the HTTP status for an error code. Codes outside
// the map fall back by family: INVALID_*/MISSING_* are input validation
// (400), ALREADY_* are duplicate state transitions (409), anything else
// is 500.
func StatusForCode(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"), strings.HasPrefix(code, "MISSING_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ALREADY_"):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
