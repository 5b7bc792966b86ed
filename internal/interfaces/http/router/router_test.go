package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/config"
)

func newRouterRig(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "schoolhub-test",
	})

	cfg := &config.Config{}
	cfg.HTTP.MaxBodySize = 1 << 20

	// role gates abort before any handler runs, so the zero Handlers
	// value is enough to exercise the route guards
	engine := New(Options{
		Config:     cfg,
		Logger:     zap.NewNop(),
		JWTService: jwtService,
		Blacklist:  auth.NewInMemoryTokenBlacklist(),
	}, Handlers{})
	return engine, jwtService
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, role identity.Role, schoolID *uuid.UUID) string {
	t.Helper()
	user, err := identity.NewUser("staff@example.test", "password123", "Test Staff", role, schoolID)
	require.NoError(t, err)
	pair, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)
	return pair.AccessToken
}

func TestReportCardSignOffExcludesPlatformAdmin(t *testing.T) {
	engine, jwtService := newRouterRig(t)
	token := tokenFor(t, jwtService, identity.RoleSuperAdmin, nil)
	reportID := uuid.New()

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, fmt.Sprintf("/api/v1/report-cards/%s/approve", reportID)},
		{http.MethodPost, fmt.Sprintf("/api/v1/report-cards/%s/publish", reportID)},
		{http.MethodDelete, fmt.Sprintf("/api/v1/report-cards/%s", reportID)},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code, "%s %s", route.method, route.path)
	}
}
