package commerce

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// OrderStatus tracks the order lifecycle:
// PENDING_PAYMENT -> PAID -> FULFILLED, with CANCELLED reachable from
// PENDING_PAYMENT only.
type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderPaid           OrderStatus = "PAID"
	OrderFulfilled      OrderStatus = "FULFILLED"
	OrderCancelled      OrderStatus = "CANCELLED"
)

// Order is a guardian's purchase of materials for a student
type Order struct {
	shared.SchoolAggregateRoot
	Reference   string // unique, used as the gateway transaction reference
	BuyerUserID uuid.UUID
	StudentID   *uuid.UUID
	Status      OrderStatus
	Total       decimal.Decimal
	Currency    string
	Items       []OrderItem
	PaidAt      *time.Time
	FulfilledAt *time.Time
	CancelledAt *time.Time
}

// TableName maps the aggregate to its table
func (Order) TableName() string { return "orders" }

// OrderItem is one material line in an order. UnitPrice is captured at
// checkout so later price edits do not change past orders.
type OrderItem struct {
	shared.BaseEntity
	OrderID    uuid.UUID
	MaterialID uuid.UUID
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// TableName maps the entity to its table
func (OrderItem) TableName() string { return "order_items" }

// Subtotal returns UnitPrice * Quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// newOrderReference builds "ORD-" + 12 hex chars
func newOrderReference() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}
	return "ORD-" + hex.EncodeToString(b)
}

// NewOrder opens a pending order for the given lines
func NewOrder(schoolID, buyerUserID uuid.UUID, studentID *uuid.UUID, currency string) (*Order, error) {
	if buyerUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Order requires a buyer")
	}
	if currency == "" {
		currency = "NGN"
	}
	return &Order{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Reference:           newOrderReference(),
		BuyerUserID:         buyerUserID,
		StudentID:           studentID,
		Status:              OrderPendingPayment,
		Total:               decimal.Zero,
		Currency:            currency,
	}, nil
}

// AddItem appends a line and folds it into the total. Only pending orders
// accept lines.
func (o *Order) AddItem(material *Material, quantity int) error {
	if o.Status != OrderPendingPayment {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Order is no longer editable")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if material.Currency != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "All order items must share the order currency")
	}
	item := OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		MaterialID: material.ID,
		Name:       material.Name,
		UnitPrice:  material.Price,
		Quantity:   quantity,
	}
	o.Items = append(o.Items, item)
	o.Total = o.Total.Add(item.Subtotal())
	o.Touch()
	return nil
}

// MarkPaid moves a pending order to PAID
func (o *Order) MarkPaid() error {
	if o.Status != OrderPendingPayment {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot mark a %s order as paid", o.Status))
	}
	now := time.Now()
	o.Status = OrderPaid
	o.PaidAt = &now
	o.Touch()
	o.IncrementVersion()
	return nil
}

// MarkFulfilled moves a paid order to FULFILLED
func (o *Order) MarkFulfilled() error {
	if o.Status != OrderPaid {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot fulfil a %s order", o.Status))
	}
	now := time.Now()
	o.Status = OrderFulfilled
	o.FulfilledAt = &now
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Cancel abandons a pending order. Paid orders cannot be cancelled.
func (o *Order) Cancel() error {
	if o.Status != OrderPendingPayment {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot cancel a %s order", o.Status))
	}
	now := time.Now()
	o.Status = OrderCancelled
	o.CancelledAt = &now
	o.Touch()
	o.IncrementVersion()
	return nil
}
