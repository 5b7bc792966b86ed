package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormCurriculumRepository implements academics.CurriculumRepository using GORM
type GormCurriculumRepository struct {
	db *gorm.DB
}

// NewGormCurriculumRepository creates a new GormCurriculumRepository
func NewGormCurriculumRepository(db *gorm.DB) *GormCurriculumRepository {
	return &GormCurriculumRepository{db: db}
}

// FindByID finds a curriculum by id
func (r *GormCurriculumRepository) FindByID(ctx context.Context, id uuid.UUID) (*academics.Curriculum, error) {
	var curriculum academics.Curriculum
	if err := tenantScoped(ctx, r.db).First(&curriculum, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &curriculum, nil
}

// FindAll lists curricula visible to the caller
func (r *GormCurriculumRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[academics.Curriculum], error) {
	filter = filter.Normalize()
	query := tenantScoped(ctx, r.db).Model(&academics.Curriculum{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if grade, ok := filter.Filters["grade_level"]; ok {
		query = query.Where("grade_level = ?", grade)
	}
	if year, ok := filter.Filters["academic_year"]; ok {
		query = query.Where("academic_year = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	var curricula []academics.Curriculum
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&curricula).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(curricula, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a curriculum
func (r *GormCurriculumRepository) Save(ctx context.Context, curriculum *academics.Curriculum) error {
	return dbFromContext(ctx, r.db).Save(curriculum).Error
}

// Delete removes a curriculum and its subjects
func (r *GormCurriculumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&academics.Subject{}, "curriculum_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&academics.Curriculum{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindSubjectByID finds a subject by id
func (r *GormCurriculumRepository) FindSubjectByID(ctx context.Context, id uuid.UUID) (*academics.Subject, error) {
	var subject academics.Subject
	if err := tenantScoped(ctx, r.db).First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// FindSubjects lists a curriculum's subjects ordered by code
func (r *GormCurriculumRepository) FindSubjects(ctx context.Context, curriculumID uuid.UUID) ([]academics.Subject, error) {
	var subjects []academics.Subject
	if err := dbFromContext(ctx, r.db).
		Where("curriculum_id = ?", curriculumID).
		Order("code ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// SubjectExistsByCode reports whether the curriculum already has a subject
// with the code
func (r *GormCurriculumRepository) SubjectExistsByCode(ctx context.Context, curriculumID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.Subject{}).
		Where("curriculum_id = ? AND code = ?", curriculumID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveSubject creates or updates a subject
func (r *GormCurriculumRepository) SaveSubject(ctx context.Context, subject *academics.Subject) error {
	return dbFromContext(ctx, r.db).Save(subject).Error
}

// DeleteSubject removes a subject
func (r *GormCurriculumRepository) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&academics.Subject{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ academics.CurriculumRepository = (*GormCurriculumRepository)(nil)
