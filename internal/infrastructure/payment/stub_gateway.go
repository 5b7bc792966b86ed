package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolhub/backend/internal/domain/commerce"
)

// StubGateway is an in-process gateway for development and tests. Every
// initialized reference verifies as settled for the initialized amount.
type StubGateway struct {
	mu      sync.Mutex
	amounts map[string]decimal.Decimal
}

// NewStubGateway creates a new StubGateway
func NewStubGateway() *StubGateway {
	return &StubGateway{amounts: make(map[string]decimal.Decimal)}
}

// Initialize records the reference and returns a fake checkout session
func (g *StubGateway) Initialize(ctx context.Context, reference, email string, amount decimal.Decimal, currency string) (*commerce.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.amounts[reference] = amount
	return &commerce.CheckoutSession{
		GatewayRef:  "stub_" + reference,
		CheckoutURL: fmt.Sprintf("https://checkout.invalid/%s", reference),
	}, nil
}

// Verify reports any initialized reference as settled
func (g *StubGateway) Verify(ctx context.Context, reference string) (*commerce.VerificationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amount, ok := g.amounts[reference]
	if !ok {
		return &commerce.VerificationResult{Settled: false, Reason: "unknown reference"}, nil
	}
	return &commerce.VerificationResult{
		Settled:   true,
		Amount:    amount,
		Currency:  "NGN",
		SettledAt: time.Now(),
	}, nil
}

// ResolveBankAccount accepts any account and synthesizes a holder name
func (g *StubGateway) ResolveBankAccount(ctx context.Context, bankCode, accountNumber string) (*commerce.BankAccount, error) {
	return &commerce.BankAccount{
		BankCode:      bankCode,
		AccountNumber: accountNumber,
		AccountName:   "STUB ACCOUNT " + accountNumber,
	}, nil
}

// CreateSubaccount returns a deterministic code for the account
func (g *StubGateway) CreateSubaccount(ctx context.Context, req commerce.SubaccountRequest) (string, error) {
	return "SUB_stub_" + req.AccountNumber, nil
}

var _ commerce.Gateway = (*StubGateway)(nil)
