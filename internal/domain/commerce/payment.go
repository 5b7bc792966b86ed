package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// PaymentStatus tracks a payment attempt at the gateway
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment records one gateway attempt against an order. An order can have
// several failed attempts but at most one succeeded payment.
type Payment struct {
	shared.BaseEntity
	OrderID     uuid.UUID
	Reference   string // the order reference sent to the gateway
	Amount      decimal.Decimal
	Currency    string
	Status      PaymentStatus
	GatewayRef  string // the gateway's own transaction id
	CheckoutURL string
	FailReason  string
	SettledAt   *time.Time
}

// TableName maps the entity to its table
func (Payment) TableName() string { return "payments" }

// NewPayment opens an initiated payment for an order
func NewPayment(order *Order) (*Payment, error) {
	if order.Status != OrderPendingPayment {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Only pending orders can be paid")
	}
	if order.Total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    order.ID,
		Reference:  order.Reference,
		Amount:     order.Total,
		Currency:   order.Currency,
		Status:     PaymentInitiated,
	}, nil
}

// AttachCheckout stores the gateway handoff details
func (p *Payment) AttachCheckout(gatewayRef, checkoutURL string) {
	p.GatewayRef = gatewayRef
	p.CheckoutURL = checkoutURL
	p.Touch()
}

// Succeed marks the attempt settled. The amount confirmed by the gateway
// must match what was charged.
func (p *Payment) Succeed(confirmedAmount decimal.Decimal, settledAt time.Time) error {
	if p.Status != PaymentInitiated {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Payment attempt already resolved")
	}
	if !confirmedAmount.Equal(p.Amount) {
		return shared.NewDomainError("AMOUNT_MISMATCH", "Gateway amount does not match the order total")
	}
	p.Status = PaymentSucceeded
	p.SettledAt = &settledAt
	p.Touch()
	return nil
}

// Fail marks the attempt failed with the gateway's reason
func (p *Payment) Fail(reason string) error {
	if p.Status != PaymentInitiated {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Payment attempt already resolved")
	}
	p.Status = PaymentFailed
	p.FailReason = reason
	p.Touch()
	return nil
}

// CheckoutSession is what the gateway returns when a payment is initiated
type CheckoutSession struct {
	GatewayRef  string
	CheckoutURL string
}

// VerificationResult is the gateway's answer when a reference is verified
type VerificationResult struct {
	Settled   bool
	Amount    decimal.Decimal
	Currency  string
	SettledAt time.Time
	Reason    string // populated when not settled
}

// BankAccount is a resolved payout destination.
type BankAccount struct {
	BankCode      string
	AccountNumber string
	AccountName   string
}

// SubaccountRequest asks the gateway to split settlements to a bank
// account.
type SubaccountRequest struct {
	BusinessName  string
	BankCode      string
	AccountNumber string
	// PercentageCharge is the platform's cut of each settlement.
	PercentageCharge decimal.Decimal
}

// Gateway is the payment provider port. Implementations live in
// infrastructure/payment.
type Gateway interface {
	// Initialize opens a checkout session for the reference and amount,
	// returning the URL the buyer is redirected to.
	Initialize(ctx context.Context, reference, email string, amount decimal.Decimal, currency string) (*CheckoutSession, error)

	// Verify asks the gateway whether the reference has settled.
	Verify(ctx context.Context, reference string) (*VerificationResult, error)

	// ResolveBankAccount confirms a bank account exists and returns the
	// registered account name.
	ResolveBankAccount(ctx context.Context, bankCode, accountNumber string) (*BankAccount, error)

	// CreateSubaccount registers a settlement destination with the
	// gateway and returns its subaccount code.
	CreateSubaccount(ctx context.Context, req SubaccountRequest) (string, error)
}
