package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
)

// UserService handles account administration
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Create registers a new account. School-scoped actors can only create
// accounts within their own school.
func (s *UserService) Create(ctx context.Context, actor identity.Actor, input CreateUserInput) (*UserResponse, error) {
	role := identity.Role(input.Role)
	if !identity.ValidRole(role) {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role == identity.RoleSuperAdmin && actor.Role != identity.RoleSuperAdmin {
		return nil, shared.ErrForbidden
	}

	schoolID := input.SchoolID
	if actor.Role != identity.RoleSuperAdmin {
		// school staff always create accounts in their own school
		own := actor.SchoolID
		if own == uuid.Nil {
			return nil, shared.ErrForbidden
		}
		schoolID = &own
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, role, schoolID)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.UserID.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Get returns one account
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListBySchool lists a school's accounts
func (s *UserService) ListBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	page, err := s.userRepo.FindBySchool(ctx, schoolID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToUserResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Deactivate disables an account and revokes its outstanding tokens
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != identity.RoleSuperAdmin && user.SchoolID != nil && !actor.SameSchool(*user.SchoolID) {
		return shared.ErrNotFound
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	// invalidate every token issued before this moment
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), 30*24*time.Hour); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.Error(err))
	}

	s.logger.Info("User deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("by", actor.UserID.String()))
	return nil
}

// Activate re-enables an account
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != identity.RoleSuperAdmin && user.SchoolID != nil && !actor.SameSchool(*user.SchoolID) {
		return shared.ErrNotFound
	}
	if err := user.Activate(); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}
