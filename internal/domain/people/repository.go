package people

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// StudentRepository persists students
type StudentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	FindByRegistrationNumber(ctx context.Context, schoolID uuid.UUID, regNumber string) (*Student, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Student], error)
	FindByClass(ctx context.Context, classID uuid.UUID, filter shared.Filter) (*shared.Paginated[Student], error)
	ExistsByRegistrationNumber(ctx context.Context, schoolID uuid.UUID, regNumber string) (bool, error)
	CountActiveByClass(ctx context.Context, classID uuid.UUID) (int64, error)
	Save(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeacherRepository persists teacher profiles
type TeacherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Teacher, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Teacher, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Teacher], error)
	ExistsByStaffNumber(ctx context.Context, schoolID uuid.UUID, staffNumber string) (bool, error)
	Save(ctx context.Context, teacher *Teacher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GuardianRepository persists guardian profiles and their student links
type GuardianRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Guardian, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Guardian, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Guardian], error)
	Save(ctx context.Context, guardian *Guardian) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindLinksByGuardian(ctx context.Context, guardianID uuid.UUID) ([]GuardianLink, error)
	FindLinksByStudent(ctx context.Context, studentID uuid.UUID) ([]GuardianLink, error)
	LinkExists(ctx context.Context, guardianID, studentID uuid.UUID) (bool, error)
	SaveLink(ctx context.Context, link *GuardianLink) error
	DeleteLink(ctx context.Context, guardianID, studentID uuid.UUID) error

	// GuardsStudent reports whether the PARENT user behind userID is
	// linked to the student. The scope filter uses it for reads.
	GuardsStudent(ctx context.Context, userID, studentID uuid.UUID) (bool, error)
}
