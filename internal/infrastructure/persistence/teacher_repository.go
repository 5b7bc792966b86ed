package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormTeacherRepository implements people.TeacherRepository using GORM
type GormTeacherRepository struct {
	db *gorm.DB
}

// NewGormTeacherRepository creates a new GormTeacherRepository
func NewGormTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{db: db}
}

// FindByID finds a teacher profile by id
func (r *GormTeacherRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Teacher, error) {
	var teacher people.Teacher
	if err := tenantScoped(ctx, r.db).First(&teacher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &teacher, nil
}

// FindByUserID finds the teacher profile behind a user account
func (r *GormTeacherRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*people.Teacher, error) {
	var teacher people.Teacher
	if err := dbFromContext(ctx, r.db).First(&teacher, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &teacher, nil
}

// FindAll lists teacher profiles visible to the caller
func (r *GormTeacherRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[people.Teacher], error) {
	filter = filter.Normalize()
	query := tenantScoped(ctx, r.db).Model(&people.Teacher{})

	if filter.Search != "" {
		query = query.Where("staff_number ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, TeacherSortFields, "created_at")
	var teachers []people.Teacher
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&teachers).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(teachers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByStaffNumber reports whether the school already has a teacher with
// the staff number
func (r *GormTeacherRepository) ExistsByStaffNumber(ctx context.Context, schoolID uuid.UUID, staffNumber string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&people.Teacher{}).
		Where("school_id = ? AND staff_number = ?", schoolID, strings.ToUpper(staffNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a teacher profile
func (r *GormTeacherRepository) Save(ctx context.Context, teacher *people.Teacher) error {
	return dbFromContext(ctx, r.db).Save(teacher).Error
}

// Delete removes a teacher profile
func (r *GormTeacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&people.Teacher{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ people.TeacherRepository = (*GormTeacherRepository)(nil)
