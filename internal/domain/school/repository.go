package school

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Repository is the persistence port for schools
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*School, error)
	FindByCode(ctx context.Context, code string) (*School, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[School], error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, school *School) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status VerificationStatus) (int64, error)

	// CountClasses and CountStudents report how many dependent rows still
	// reference the school, gating hard deletion.
	CountClasses(ctx context.Context, schoolID uuid.UUID) (int64, error)
	CountStudents(ctx context.Context, schoolID uuid.UUID) (int64, error)
}
