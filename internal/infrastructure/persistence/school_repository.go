package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/school"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormSchoolRepository implements school.Repository using GORM
type GormSchoolRepository struct {
	db *gorm.DB
}

// NewGormSchoolRepository creates a new GormSchoolRepository
func NewGormSchoolRepository(db *gorm.DB) *GormSchoolRepository {
	return &GormSchoolRepository{db: db}
}

// FindByID finds a school by id
func (r *GormSchoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.School, error) {
	var s school.School
	if err := dbFromContext(ctx, r.db).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCode finds a school by its registration code
func (r *GormSchoolRepository) FindByCode(ctx context.Context, code string) (*school.School, error) {
	var s school.School
	if err := dbFromContext(ctx, r.db).
		First(&s, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists schools matching the filter
func (r *GormSchoolRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[school.School], error) {
	filter = filter.Normalize()
	query := dbFromContext(ctx, r.db).Model(&school.School{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, SchoolSortFields, "created_at")
	var schools []school.School
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&schools).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(schools, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByCode reports whether a school with the code exists
func (r *GormSchoolRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&school.School{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a school
func (r *GormSchoolRepository) Save(ctx context.Context, s *school.School) error {
	return dbFromContext(ctx, r.db).Save(s).Error
}

// Delete removes a school
func (r *GormSchoolRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&school.School{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus counts schools in a verification state
func (r *GormSchoolRepository) CountByStatus(ctx context.Context, status school.VerificationStatus) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&school.School{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountClasses counts the classes still referencing the school
func (r *GormSchoolRepository) CountClasses(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.Class{}).
		Where("school_id = ?", schoolID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountStudents counts the students still referencing the school
func (r *GormSchoolRepository) CountStudents(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&people.Student{}).
		Where("school_id = ?", schoolID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ school.Repository = (*GormSchoolRepository)(nil)
