package commerce

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// MaterialRepository persists store materials
type MaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Material], error)
	Save(ctx context.Context, material *Material) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically subtracts quantity where enough stock
	// remains. Returns shared.ErrInsufficientStock when the conditional
	// update matches no row.
	DecrementStock(ctx context.Context, materialID uuid.UUID, quantity int) error
}

// OrderRepository persists orders with their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindByBuyer(ctx context.Context, buyerUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)
	Save(ctx context.Context, order *Order) error
}

// PaymentRepository persists payment attempts
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByReference(ctx context.Context, reference string) (*Payment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}
