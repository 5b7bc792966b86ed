package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormClassRepository implements academics.ClassRepository using GORM
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByID finds a class by id
func (r *GormClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*academics.Class, error) {
	var class academics.Class
	if err := classScoped(ctx, r.db).First(&class, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &class, nil
}

// FindAll lists classes visible to the caller
func (r *GormClassRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[academics.Class], error) {
	filter = filter.Normalize()
	query := classScoped(ctx, r.db).Model(&academics.Class{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if grade, ok := filter.Filters["grade_level"]; ok {
		query = query.Where("grade_level = ?", grade)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ClassSortFields, "name")
	var classes []academics.Class
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&classes).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(classes, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByNameAndGrade reports whether the school already has a class with
// the name at the grade level
func (r *GormClassRepository) ExistsByNameAndGrade(ctx context.Context, schoolID uuid.UUID, name string, gradeLevel int) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.Class{}).
		Where("school_id = ? AND name = ? AND grade_level = ?", schoolID, name, gradeLevel).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a class
func (r *GormClassRepository) Save(ctx context.Context, class *academics.Class) error {
	return dbFromContext(ctx, r.db).Save(class).Error
}

// Delete removes a class
func (r *GormClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&academics.Class{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ academics.ClassRepository = (*GormClassRepository)(nil)
