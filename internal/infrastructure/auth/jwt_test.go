package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "schoolhub-test",
	})
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	schoolID := uuid.New()
	u, err := identity.NewUser("teacher@hillcrest.edu", "password123", "Ada Obi", identity.RoleTeacher, &schoolID)
	require.NoError(t, err)
	return u
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testJWTService()
	user := testUser(t)

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, string(identity.RoleTeacher), claims.Role)
	assert.Equal(t, user.SchoolID.String(), claims.SchoolID)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, *user.SchoolID, actor.SchoolID)
}

func TestTokenTypeMismatch(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GenerateTokenPair(testUser(t))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := testJWTService()
	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough!",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "schoolhub-test",
	})
	pair, err := svc.GenerateTokenPair(testUser(t))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestInMemoryBlacklist(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestInMemoryBlacklistUserSweep(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	userID := uuid.New().String()

	before := time.Now()
	require.NoError(t, bl.RevokeUser(ctx, userID, time.Hour))

	swept, err := bl.IsUserRevoked(ctx, userID, before)
	require.NoError(t, err)
	assert.True(t, swept, "tokens issued before the sweep are revoked")

	swept, err = bl.IsUserRevoked(ctx, userID, time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, swept, "tokens issued after the sweep survive")
}
