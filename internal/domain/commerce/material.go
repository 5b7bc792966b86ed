// Package commerce covers the school store: materials, orders and payments.
package commerce

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Material is a purchasable item listed by a school
type Material struct {
	shared.SchoolAggregateRoot
	Name          string
	Description   string
	Price         decimal.Decimal
	Currency      string
	StockQuantity int
	ImageURL      string
	IsListed      bool
}

// TableName maps the aggregate to its table
func (Material) TableName() string { return "materials" }

// NewMaterial lists a material for sale
func NewMaterial(schoolID uuid.UUID, name, description string, price decimal.Decimal, currency string, stock int) (*Material, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Material price cannot be negative")
	}
	if currency == "" {
		currency = "NGN"
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	return &Material{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		Description:         description,
		Price:               price,
		Currency:            currency,
		StockQuantity:       stock,
		IsListed:            true,
	}, nil
}

// Update applies listing changes
func (m *Material) Update(name, description string, price decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Material price cannot be negative")
	}
	m.Name = name
	m.Description = description
	m.Price = price
	m.Touch()
	m.IncrementVersion()
	return nil
}

// Restock adds quantity to stock
func (m *Material) Restock(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	m.StockQuantity += quantity
	m.Touch()
	m.IncrementVersion()
	return nil
}

// Unlist hides the material from the store without deleting it
func (m *Material) Unlist() {
	m.IsListed = false
	m.Touch()
	m.IncrementVersion()
}

// SetImageURL records the stored image location
func (m *Material) SetImageURL(url string) {
	m.ImageURL = url
	m.Touch()
}

// InStock reports whether the requested quantity is available. The
// persistence layer re-checks this with a conditional update at payment
// time, so a stale read here never oversells.
func (m *Material) InStock(quantity int) bool {
	return quantity > 0 && m.StockQuantity >= quantity
}
