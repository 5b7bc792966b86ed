package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/commerce"
)

// CreateMaterialInput lists a new material for sale
type CreateMaterialInput struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Stock       int             `json:"stock" binding:"min=0"`
}

// UpdateMaterialInput carries listing changes
type UpdateMaterialInput struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// RestockInput adds stock to a material
type RestockInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// MaterialResponse is a material in API responses
type MaterialResponse struct {
	ID            uuid.UUID       `json:"id"`
	SchoolID      uuid.UUID       `json:"school_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsListed      bool            `json:"is_listed"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToMaterialResponse maps a domain material to its API shape
func ToMaterialResponse(m *commerce.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		SchoolID:      m.SchoolID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		Currency:      m.Currency,
		StockQuantity: m.StockQuantity,
		ImageURL:      m.ImageURL,
		IsListed:      m.IsListed,
		CreatedAt:     m.CreatedAt,
	}
}

// CheckoutLineInput is one material line in a checkout
type CheckoutLineInput struct {
	MaterialID uuid.UUID `json:"material_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutInput opens an order for the given lines
type CheckoutInput struct {
	StudentID *uuid.UUID          `json:"student_id"`
	Items     []CheckoutLineInput `json:"items" binding:"required,min=1,dive"`
}

// OrderItemResponse is one line of an order
type OrderItemResponse struct {
	MaterialID uuid.UUID       `json:"material_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	SchoolID    uuid.UUID           `json:"school_id"`
	Reference   string              `json:"reference"`
	BuyerUserID uuid.UUID           `json:"buyer_user_id"`
	StudentID   *uuid.UUID          `json:"student_id,omitempty"`
	Status      string              `json:"status"`
	Total       decimal.Decimal     `json:"total"`
	Currency    string              `json:"currency"`
	Items       []OrderItemResponse `json:"items"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	FulfilledAt *time.Time          `json:"fulfilled_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToOrderResponse maps a domain order to its API shape
func ToOrderResponse(o *commerce.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		SchoolID:    o.SchoolID,
		Reference:   o.Reference,
		BuyerUserID: o.BuyerUserID,
		StudentID:   o.StudentID,
		Status:      string(o.Status),
		Total:       o.Total,
		Currency:    o.Currency,
		PaidAt:      o.PaidAt,
		FulfilledAt: o.FulfilledAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
	}
	resp.Items = make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			MaterialID: o.Items[i].MaterialID,
			Name:       o.Items[i].Name,
			UnitPrice:  o.Items[i].UnitPrice,
			Quantity:   o.Items[i].Quantity,
			Subtotal:   o.Items[i].Subtotal(),
		})
	}
	return resp
}

// PaymentResponse is a payment attempt in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
	FailReason  string          `json:"fail_reason,omitempty"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPaymentResponse maps a domain payment to its API shape
func ToPaymentResponse(p *commerce.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      string(p.Status),
		CheckoutURL: p.CheckoutURL,
		FailReason:  p.FailReason,
		SettledAt:   p.SettledAt,
		CreatedAt:   p.CreatedAt,
	}
}
