package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/shared"
)

func TestHandleErrorMapsDomainCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	cases := []struct {
		err  error
		want int
	}{
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrScheduleConflict, http.StatusConflict},
		{shared.ErrClassFull, http.StatusUnprocessableEntity},
		{shared.NewDomainError("GATEWAY_ERROR", "upstream down"), http.StatusBadGateway},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.HandleError(c, tc.err)

		require.Equal(t, tc.want, rec.Code)
	}
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestPathIDRejectsMalformedUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := h.pathID(c, "id")

	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
