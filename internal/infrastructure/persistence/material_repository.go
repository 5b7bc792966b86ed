package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormMaterialRepository implements commerce.MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by id
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Material, error) {
	var material commerce.Material
	if err := tenantScoped(ctx, r.db).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAll lists materials visible to the caller
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[commerce.Material], error) {
	filter = filter.Normalize()
	query := tenantScoped(ctx, r.db).Model(&commerce.Material{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if listed, ok := filter.Filters["is_listed"]; ok {
		query = query.Where("is_listed = ?", listed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, MaterialSortFields, "name")
	var materials []commerce.Material
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&materials).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(materials, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *commerce.Material) error {
	return dbFromContext(ctx, r.db).Save(material).Error
}

// Delete removes a material
func (r *GormMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&commerce.Material{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementStock subtracts quantity only when enough stock remains. The
// conditional update is the oversell guard under concurrent payments.
func (r *GormMaterialRepository) DecrementStock(ctx context.Context, materialID uuid.UUID, quantity int) error {
	result := dbFromContext(ctx, r.db).Model(&commerce.Material{}).
		Where("id = ? AND stock_quantity >= ?", materialID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

var _ commerce.MaterialRepository = (*GormMaterialRepository)(nil)
