package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormLessonRepository implements academics.LessonRepository using GORM
type GormLessonRepository struct {
	db *gorm.DB
}

// NewGormLessonRepository creates a new GormLessonRepository
func NewGormLessonRepository(db *gorm.DB) *GormLessonRepository {
	return &GormLessonRepository{db: db}
}

// FindByID finds a lesson by id
func (r *GormLessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*academics.Lesson, error) {
	var lesson academics.Lesson
	if err := tenantScoped(ctx, r.db).First(&lesson, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// FindByClass lists a class's lessons
func (r *GormLessonRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academics.Lesson, error) {
	var lessons []academics.Lesson
	if err := dbFromContext(ctx, r.db).
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// FindByTeacher lists the lessons a teacher is assigned to
func (r *GormLessonRepository) FindByTeacher(ctx context.Context, teacherUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[academics.Lesson], error) {
	filter = filter.Normalize()
	query := dbFromContext(ctx, r.db).Model(&academics.Lesson{}).
		Where("teacher_user_id = ?", teacherUserID)

	if classID, ok := filter.Filters["class_id"]; ok {
		query = query.Where("class_id = ?", classID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	var lessons []academics.Lesson
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(lessons, total, filter.Page, filter.PageSize)
	return &page, nil
}

// CountByTeacher counts the lessons assigned to a teacher
func (r *GormLessonRepository) CountByTeacher(ctx context.Context, teacherUserID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.Lesson{}).
		Where("teacher_user_id = ?", teacherUserID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySubject counts the lessons teaching a subject
func (r *GormLessonRepository) CountBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.Lesson{}).
		Where("subject_id = ?", subjectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a lesson
func (r *GormLessonRepository) Save(ctx context.Context, lesson *academics.Lesson) error {
	return dbFromContext(ctx, r.db).Save(lesson).Error
}

// Delete removes a lesson
func (r *GormLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&academics.Lesson{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ academics.LessonRepository = (*GormLessonRepository)(nil)
