// Package payment provides the Paystack implementation of the commerce
// payment gateway port.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/infrastructure/config"
)

const (
	initializePath = "/transaction/initialize"
	verifyPath     = "/transaction/verify/%s"
	resolvePath    = "/bank/resolve?account_number=%s&bank_code=%s"
	subaccountPath = "/subaccount"
)

var minorUnitsPerNaira = decimal.NewFromInt(100)

// PaystackAdapter implements commerce.Gateway against the Paystack REST API
type PaystackAdapter struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(cfg *config.PaymentConfig, logger *zap.Logger) (*PaystackAdapter, error) {
	if cfg == nil {
		return nil, errors.New("payment configuration is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("payment secret key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &PaystackAdapter{
		baseURL:     cfg.BaseURL,
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}, nil
}

// Initialize opens a checkout session for the reference and amount
func (a *PaystackAdapter) Initialize(ctx context.Context, reference, email string, amount decimal.Decimal, currency string) (*commerce.CheckoutSession, error) {
	a.logger.Debug("Initializing gateway transaction",
		zap.String("reference", reference),
		zap.String("amount", amount.String()))

	body, err := json.Marshal(initializeRequest{
		Reference:   reference,
		Email:       email,
		Amount:      amount.Mul(minorUnitsPerNaira).IntPart(),
		Currency:    currency,
		CallbackURL: a.callbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, initializePath, body)
	if err != nil {
		return nil, err
	}

	var resp initializeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: initialize rejected: %s", resp.Message)
	}

	a.logger.Info("Gateway transaction initialized",
		zap.String("reference", reference),
		zap.String("access_code", resp.Data.AccessCode))

	return &commerce.CheckoutSession{
		GatewayRef:  resp.Data.AccessCode,
		CheckoutURL: resp.Data.AuthorizationURL,
	}, nil
}

// Verify asks the gateway whether the reference has settled
func (a *PaystackAdapter) Verify(ctx context.Context, reference string) (*commerce.VerificationResult, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf(verifyPath, reference), nil)
	if err != nil {
		return nil, err
	}

	var resp verifyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: verify rejected: %s", resp.Message)
	}

	result := &commerce.VerificationResult{
		Settled:  resp.Data.Status == "success",
		Amount:   decimal.NewFromInt(resp.Data.Amount).Div(minorUnitsPerNaira),
		Currency: resp.Data.Currency,
	}
	if result.Settled {
		if resp.Data.PaidAt != nil {
			result.SettledAt = *resp.Data.PaidAt
		} else {
			result.SettledAt = time.Now()
		}
	} else {
		result.Reason = resp.Data.GatewayMessage
		if result.Reason == "" {
			result.Reason = resp.Data.Status
		}
	}
	return result, nil
}

// ResolveBankAccount confirms the account with the gateway and returns
// its registered name
func (a *PaystackAdapter) ResolveBankAccount(ctx context.Context, bankCode, accountNumber string) (*commerce.BankAccount, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet,
		fmt.Sprintf(resolvePath, accountNumber, bankCode), nil)
	if err != nil {
		return nil, err
	}

	var resp resolveResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: account resolution rejected: %s", resp.Message)
	}

	return &commerce.BankAccount{
		BankCode:      bankCode,
		AccountNumber: resp.Data.AccountNumber,
		AccountName:   resp.Data.AccountName,
	}, nil
}

// CreateSubaccount registers a settlement destination and returns its code
func (a *PaystackAdapter) CreateSubaccount(ctx context.Context, req commerce.SubaccountRequest) (string, error) {
	body, err := json.Marshal(subaccountRequest{
		BusinessName:     req.BusinessName,
		BankCode:         req.BankCode,
		AccountNumber:    req.AccountNumber,
		PercentageCharge: req.PercentageCharge.String(),
	})
	if err != nil {
		return "", fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, subaccountPath, body)
	if err != nil {
		return "", err
	}

	var resp subaccountResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return "", fmt.Errorf("paystack: subaccount creation rejected: %s", resp.Message)
	}

	a.logger.Info("Gateway subaccount created",
		zap.String("business", req.BusinessName),
		zap.String("subaccount_code", resp.Data.SubaccountCode))
	return resp.Data.SubaccountCode, nil
}

// doRequest performs an authenticated API call and returns the raw body
func (a *PaystackAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("Gateway returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return nil, fmt.Errorf("paystack: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

var _ commerce.Gateway = (*PaystackAdapter)(nil)
