package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/config"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, schoolID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestAuthService(repo *mockUserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "schoolhub-test",
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func activeUser(t *testing.T) *identity.User {
	t.Helper()
	schoolID := uuid.New()
	user, err := identity.NewUser("admin@school.test", "password123", "Ada Obi", identity.RoleSchoolAdmin, &schoolID)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues tokens for valid credentials", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)
		user := activeUser(t)

		repo.On("FindByEmail", mock.Anything, "admin@school.test").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		result, err := service.Login(context.Background(), LoginInput{
			Email:    "admin@school.test",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)
		user := activeUser(t)

		repo.On("FindByEmail", mock.Anything, "admin@school.test").Return(user, nil)

		result, err := service.Login(context.Background(), LoginInput{
			Email:    "admin@school.test",
			Password: "wrong-password",
		})

		assert.Nil(t, result)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})

	t.Run("does not reveal whether the email exists", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)

		repo.On("FindByEmail", mock.Anything, "nobody@school.test").Return(nil, shared.ErrNotFound)

		_, err := service.Login(context.Background(), LoginInput{
			Email:    "nobody@school.test",
			Password: "password123",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})

	t.Run("rejects a deactivated account", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)
		user := activeUser(t)
		require.NoError(t, user.Deactivate())

		repo.On("FindByEmail", mock.Anything, "admin@school.test").Return(user, nil)

		_, err := service.Login(context.Background(), LoginInput{
			Email:    "admin@school.test",
			Password: "password123",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", derr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("rotates the refresh token", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)
		user := activeUser(t)

		repo.On("FindByEmail", mock.Anything, "admin@school.test").Return(user, nil)
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		login, err := service.Login(context.Background(), LoginInput{
			Email:    "admin@school.test",
			Password: "password123",
		})
		require.NoError(t, err)

		refreshed, err := service.Refresh(context.Background(), RefreshInput{
			RefreshToken: login.RefreshToken,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)

		// the used refresh token is revoked and cannot be replayed
		_, err = service.Refresh(context.Background(), RefreshInput{
			RefreshToken: login.RefreshToken,
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_TOKEN", derr.Code)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)

		_, err := service.Refresh(context.Background(), RefreshInput{RefreshToken: "not-a-token"})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_TOKEN", derr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes the access token", func(t *testing.T) {
		repo := new(mockUserRepository)
		service := newTestAuthService(repo)
		user := activeUser(t)

		repo.On("FindByEmail", mock.Anything, "admin@school.test").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		login, err := service.Login(context.Background(), LoginInput{
			Email:    "admin@school.test",
			Password: "password123",
		})
		require.NoError(t, err)

		err = service.Logout(context.Background(), login.AccessToken, login.RefreshToken)
		assert.NoError(t, err)

		// the revoked refresh token is no longer accepted
		_, err = service.Refresh(context.Background(), RefreshInput{RefreshToken: login.RefreshToken})
		assert.Error(t, err)
	})
}
