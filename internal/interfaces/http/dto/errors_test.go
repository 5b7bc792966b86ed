package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForCode(t *testing.T) {
	cases := map[string]int{
		"NOT_FOUND":           http.StatusNotFound,
		"ALREADY_EXISTS":      http.StatusConflict,
		"SCHEDULE_CONFLICT":   http.StatusConflict,
		"INVALID_STATE":       http.StatusConflict,
		"INVALID_INPUT":       http.StatusBadRequest,
		"INVALID_TIME":        http.StatusBadRequest,
		"GRADE_MISMATCH":      http.StatusBadRequest,
		"HAS_DEPENDENTS":      http.StatusBadRequest,
		"INSUFFICIENT_STOCK":  http.StatusBadRequest,
		"CLASS_FULL":          http.StatusBadRequest,
		"UNAUTHORIZED":        http.StatusUnauthorized,
		"INVALID_CREDENTIALS": http.StatusUnauthorized,
		"FORBIDDEN":           http.StatusForbidden,
		"GATEWAY_ERROR":       http.StatusBadGateway,
		"RATE_LIMITED":        http.StatusTooManyRequests,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusForCode(code), code)
	}
}

func TestStatusForCodeDependentDeleteBlockIs400(t *testing.T) {
	// a delete refused because of child records is a descriptive bad
	// request, not a conflict
	assert.Equal(t, http.StatusBadRequest, StatusForCode("HAS_DEPENDENTS"))
	assert.Equal(t, http.StatusBadRequest, StatusForCode("CLASS_FULL"))
}

func TestStatusForCodeFamilies(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForCode("INVALID_DOB"))
	assert.Equal(t, http.StatusBadRequest, StatusForCode("MISSING_REASON"))
	assert.Equal(t, http.StatusConflict, StatusForCode("ALREADY_VERIFIED"))
}

func TestStatusForCodeUnknownDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusForCode("SOMETHING_NEW"))
}
