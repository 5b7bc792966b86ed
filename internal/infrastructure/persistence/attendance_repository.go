package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/assessment"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormAttendanceRepository implements assessment.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindByID finds an attendance record by id
func (r *GormAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.AttendanceRecord, error) {
	var record assessment.AttendanceRecord
	if err := tenantScoped(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByKey finds the record for one student, lesson and day. Dates are
// stored normalized to midnight UTC, so the lookup normalizes too.
func (r *GormAttendanceRepository) FindByKey(ctx context.Context, studentID, lessonID uuid.UUID, date time.Time) (*assessment.AttendanceRecord, error) {
	var record assessment.AttendanceRecord
	if err := dbFromContext(ctx, r.db).
		First(&record, "student_id = ? AND lesson_id = ? AND date = ?",
			studentID, lessonID, assessment.NormalizeDate(date)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByStudent lists a student's records within a date range
func (r *GormAttendanceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]assessment.AttendanceRecord, error) {
	var records []assessment.AttendanceRecord
	if err := dbFromContext(ctx, r.db).
		Where("student_id = ? AND date >= ? AND date <= ?",
			studentID, assessment.NormalizeDate(from), assessment.NormalizeDate(to)).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByLessonAndDate lists a lesson's records for one day
func (r *GormAttendanceRepository) FindByLessonAndDate(ctx context.Context, lessonID uuid.UUID, date time.Time) ([]assessment.AttendanceRecord, error) {
	var records []assessment.AttendanceRecord
	if err := dbFromContext(ctx, r.db).
		Where("lesson_id = ? AND date = ?", lessonID, assessment.NormalizeDate(date)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates an attendance record
func (r *GormAttendanceRepository) Save(ctx context.Context, record *assessment.AttendanceRecord) error {
	return dbFromContext(ctx, r.db).Save(record).Error
}

// Delete removes an attendance record
func (r *GormAttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&assessment.AttendanceRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ assessment.AttendanceRepository = (*GormAttendanceRepository)(nil)
