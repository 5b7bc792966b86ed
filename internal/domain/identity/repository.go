package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// UserRepository is the persistence port for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) (*shared.Paginated[User], error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
