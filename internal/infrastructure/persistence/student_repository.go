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

// GormStudentRepository implements people.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by id
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Student, error) {
	var student people.Student
	if err := studentScoped(ctx, r.db).First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindByRegistrationNumber finds a student by registration number within a school
func (r *GormStudentRepository) FindByRegistrationNumber(ctx context.Context, schoolID uuid.UUID, regNumber string) (*people.Student, error) {
	var student people.Student
	if err := dbFromContext(ctx, r.db).
		First(&student, "school_id = ? AND registration_number = ?", schoolID, strings.ToUpper(regNumber)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindAll lists students visible to the caller
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[people.Student], error) {
	return r.list(ctx, studentScoped(ctx, r.db).Model(&people.Student{}), filter)
}

// FindByClass lists a class's students
func (r *GormStudentRepository) FindByClass(ctx context.Context, classID uuid.UUID, filter shared.Filter) (*shared.Paginated[people.Student], error) {
	query := studentScoped(ctx, r.db).Model(&people.Student{}).Where("class_id = ?", classID)
	return r.list(ctx, query, filter)
}

func (r *GormStudentRepository) list(ctx context.Context, query *gorm.DB, filter shared.Filter) (*shared.Paginated[people.Student], error) {
	filter = filter.Normalize()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR registration_number ILIKE ?", pattern, pattern, pattern)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, StudentSortFields, "last_name")
	var students []people.Student
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&students).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(students, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByRegistrationNumber reports whether the school already has a
// student with the registration number
func (r *GormStudentRepository) ExistsByRegistrationNumber(ctx context.Context, schoolID uuid.UUID, regNumber string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&people.Student{}).
		Where("school_id = ? AND registration_number = ?", schoolID, strings.ToUpper(regNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActiveByClass counts the active students enrolled in a class
func (r *GormStudentRepository) CountActiveByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&people.Student{}).
		Where("class_id = ? AND is_active = ?", classID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, student *people.Student) error {
	return dbFromContext(ctx, r.db).Save(student).Error
}

// Delete removes a student
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&people.Student{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ people.StudentRepository = (*GormStudentRepository)(nil)
