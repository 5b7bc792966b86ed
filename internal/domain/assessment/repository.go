package assessment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// AttendanceRepository persists attendance records
type AttendanceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AttendanceRecord, error)
	FindByKey(ctx context.Context, studentID, lessonID uuid.UUID, date time.Time) (*AttendanceRecord, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error)
	FindByLessonAndDate(ctx context.Context, lessonID uuid.UUID, date time.Time) ([]AttendanceRecord, error)
	Save(ctx context.Context, record *AttendanceRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportCardRepository persists report cards with their subject entries
type ReportCardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReportCard, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]ReportCard, error)
	FindByClassAndTerm(ctx context.Context, classID uuid.UUID, term, academicYear string, filter shared.Filter) (*shared.Paginated[ReportCard], error)
	ExistsForTerm(ctx context.Context, studentID uuid.UUID, term, academicYear string) (bool, error)
	Save(ctx context.Context, card *ReportCard) error
	Delete(ctx context.Context, id uuid.UUID) error
}
