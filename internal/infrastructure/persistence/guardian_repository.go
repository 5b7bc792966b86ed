package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormGuardianRepository implements people.GuardianRepository using GORM
type GormGuardianRepository struct {
	db *gorm.DB
}

// NewGormGuardianRepository creates a new GormGuardianRepository
func NewGormGuardianRepository(db *gorm.DB) *GormGuardianRepository {
	return &GormGuardianRepository{db: db}
}

// FindByID finds a guardian profile by id
func (r *GormGuardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Guardian, error) {
	var guardian people.Guardian
	if err := tenantScoped(ctx, r.db).First(&guardian, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &guardian, nil
}

// FindByUserID finds the guardian profile behind a user account
func (r *GormGuardianRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*people.Guardian, error) {
	var guardian people.Guardian
	if err := dbFromContext(ctx, r.db).First(&guardian, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &guardian, nil
}

// FindAll lists guardian profiles visible to the caller
func (r *GormGuardianRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[people.Guardian], error) {
	filter = filter.Normalize()
	query := tenantScoped(ctx, r.db).Model(&people.Guardian{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	var guardians []people.Guardian
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&guardians).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(guardians, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a guardian profile
func (r *GormGuardianRepository) Save(ctx context.Context, guardian *people.Guardian) error {
	return dbFromContext(ctx, r.db).Save(guardian).Error
}

// Delete removes a guardian profile and its links
func (r *GormGuardianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&people.GuardianLink{}, "guardian_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&people.Guardian{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindLinksByGuardian lists a guardian's student links
func (r *GormGuardianRepository) FindLinksByGuardian(ctx context.Context, guardianID uuid.UUID) ([]people.GuardianLink, error) {
	var links []people.GuardianLink
	if err := dbFromContext(ctx, r.db).
		Where("guardian_id = ?", guardianID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindLinksByStudent lists the guardians linked to a student
func (r *GormGuardianRepository) FindLinksByStudent(ctx context.Context, studentID uuid.UUID) ([]people.GuardianLink, error) {
	var links []people.GuardianLink
	if err := dbFromContext(ctx, r.db).
		Where("student_id = ?", studentID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// LinkExists reports whether a guardian-student link already exists
func (r *GormGuardianRepository) LinkExists(ctx context.Context, guardianID, studentID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&people.GuardianLink{}).
		Where("guardian_id = ? AND student_id = ?", guardianID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveLink creates or updates a guardian-student link
func (r *GormGuardianRepository) SaveLink(ctx context.Context, link *people.GuardianLink) error {
	return dbFromContext(ctx, r.db).Save(link).Error
}

// DeleteLink removes a guardian-student link
func (r *GormGuardianRepository) DeleteLink(ctx context.Context, guardianID, studentID uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Delete(&people.GuardianLink{}, "guardian_id = ? AND student_id = ?", guardianID, studentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GuardsStudent reports whether the user's guardian profile is linked to
// the student. Reads on behalf of PARENT accounts are narrowed with it.
func (r *GormGuardianRepository) GuardsStudent(ctx context.Context, userID, studentID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&people.GuardianLink{}).
		Joins("JOIN guardian_profiles ON guardian_profiles.id = guardian_links.guardian_id").
		Where("guardian_profiles.user_id = ? AND guardian_links.student_id = ?", userID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ people.GuardianRepository = (*GormGuardianRepository)(nil)
