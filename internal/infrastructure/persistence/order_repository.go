package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormOrderRepository implements commerce.OrderRepository using GORM. Order
// lines are written explicitly; they never change after checkout, so saves
// after the first only touch the order row.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	var order commerce.Order
	if err := tenantScoped(ctx, r.db).Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByReference finds an order by its gateway reference
func (r *GormOrderRepository) FindByReference(ctx context.Context, reference string) (*commerce.Order, error) {
	var order commerce.Order
	if err := dbFromContext(ctx, r.db).Preload("Items").
		First(&order, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByBuyer lists a buyer's orders
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[commerce.Order], error) {
	query := dbFromContext(ctx, r.db).Model(&commerce.Order{}).
		Where("buyer_user_id = ?", buyerUserID)
	return r.list(query, filter)
}

// FindAll lists orders visible to the caller
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[commerce.Order], error) {
	return r.list(tenantScoped(ctx, r.db).Model(&commerce.Order{}), filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter shared.Filter) (*shared.Paginated[commerce.Order], error) {
	filter = filter.Normalize()

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	var orders []commerce.Order
	if err := query.Preload("Items").
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save writes the order row and inserts any lines not yet persisted
func (r *GormOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Omit("Items").Save(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	var existing int64
	if err := db.Model(&commerce.OrderItem{}).
		Where("order_id = ?", order.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return db.Create(&order.Items).Error
}

var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
