package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormPaymentRepository implements commerce.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by id
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Payment, error) {
	var payment commerce.Payment
	if err := dbFromContext(ctx, r.db).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByReference finds the most recent payment attempt for a reference
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*commerce.Payment, error) {
	var payment commerce.Payment
	if err := dbFromContext(ctx, r.db).
		Where("reference = ?", reference).
		Order("created_at DESC").
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByOrder lists an order's payment attempts, newest first
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]commerce.Payment, error) {
	var payments []commerce.Payment
	if err := dbFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *commerce.Payment) error {
	return dbFromContext(ctx, r.db).Save(payment).Error
}

var _ commerce.PaymentRepository = (*GormPaymentRepository)(nil)
