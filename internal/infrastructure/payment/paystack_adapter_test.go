package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/infrastructure/config"
)

func newTestAdapter(t *testing.T, handler http.Handler) (*PaystackAdapter, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewPaystackAdapter(&config.PaymentConfig{
		BaseURL:     server.URL,
		SecretKey:   "sk_test_abc",
		CallbackURL: "https://app.example.com/payments/callback",
		Timeout:     5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter, server
}

func TestPaystackAdapter_Initialize(t *testing.T) {
	t.Run("sends minor units and returns the checkout session", func(t *testing.T) {
		var got initializeRequest
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Authorization URL created",
				"data": map[string]string{
					"authorization_url": "https://checkout.paystack.com/abc123",
					"access_code":       "abc123",
					"reference":         got.Reference,
				},
			})
		}))

		session, err := adapter.Initialize(context.Background(),
			"ORD-deadbeef0001", "parent@example.com", decimal.NewFromFloat(3601.50), "NGN")

		require.NoError(t, err)
		assert.Equal(t, int64(360150), got.Amount)
		assert.Equal(t, "parent@example.com", got.Email)
		assert.Equal(t, "abc123", session.GatewayRef)
		assert.Equal(t, "https://checkout.paystack.com/abc123", session.CheckoutURL)
	})

	t.Run("surfaces a rejected initialize", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  false,
				"message": "Invalid key",
			})
		}))

		session, err := adapter.Initialize(context.Background(),
			"ORD-deadbeef0002", "parent@example.com", decimal.NewFromInt(100), "NGN")

		assert.Nil(t, session)
		assert.ErrorContains(t, err, "Invalid key")
	})

	t.Run("surfaces a non-2xx status", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := adapter.Initialize(context.Background(),
			"ORD-deadbeef0003", "parent@example.com", decimal.NewFromInt(100), "NGN")

		assert.ErrorContains(t, err, "unexpected status 401")
	})
}

func TestPaystackAdapter_Verify(t *testing.T) {
	t.Run("reports a settled transaction with the major-unit amount", func(t *testing.T) {
		paidAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/ORD-deadbeef0004", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Verification successful",
				"data": map[string]interface{}{
					"status":    "success",
					"reference": "ORD-deadbeef0004",
					"amount":    360150,
					"currency":  "NGN",
					"paid_at":   paidAt.Format(time.RFC3339),
				},
			})
		}))

		result, err := adapter.Verify(context.Background(), "ORD-deadbeef0004")

		require.NoError(t, err)
		assert.True(t, result.Settled)
		assert.True(t, result.Amount.Equal(decimal.NewFromFloat(3601.50)))
		assert.Equal(t, paidAt, result.SettledAt.UTC())
	})

	t.Run("reports an unsettled transaction with the gateway reason", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Verification successful",
				"data": map[string]interface{}{
					"status":           "abandoned",
					"reference":        "ORD-deadbeef0005",
					"amount":           360150,
					"currency":         "NGN",
					"gateway_response": "Transaction abandoned",
				},
			})
		}))

		result, err := adapter.Verify(context.Background(), "ORD-deadbeef0005")

		require.NoError(t, err)
		assert.False(t, result.Settled)
		assert.Equal(t, "Transaction abandoned", result.Reason)
	})
}

func TestPaystackAdapter_ResolveBankAccount(t *testing.T) {
	t.Run("returns the registered holder name", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bank/resolve", r.URL.Path)
			assert.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
			assert.Equal(t, "058", r.URL.Query().Get("bank_code"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Account number resolved",
				"data": map[string]string{
					"account_number": "0123456789",
					"account_name":   "SUNRISE ACADEMY LTD",
				},
			})
		}))

		account, err := adapter.ResolveBankAccount(context.Background(), "058", "0123456789")

		require.NoError(t, err)
		assert.Equal(t, "058", account.BankCode)
		assert.Equal(t, "SUNRISE ACADEMY LTD", account.AccountName)
	})

	t.Run("surfaces an unresolvable account", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  false,
				"message": "Could not resolve account name",
			})
		}))

		_, err := adapter.ResolveBankAccount(context.Background(), "058", "0000000000")

		assert.ErrorContains(t, err, "Could not resolve account name")
	})
}

func TestPaystackAdapter_CreateSubaccount(t *testing.T) {
	t.Run("registers the settlement split and returns the code", func(t *testing.T) {
		var got subaccountRequest
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/subaccount", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Subaccount created",
				"data": map[string]string{
					"subaccount_code": "ACCT_8f4s1eq7ml6rlzj",
				},
			})
		}))

		code, err := adapter.CreateSubaccount(context.Background(), commerce.SubaccountRequest{
			BusinessName:     "Sunrise Academy",
			BankCode:         "058",
			AccountNumber:    "0123456789",
			PercentageCharge: decimal.NewFromFloat(2.5),
		})

		require.NoError(t, err)
		assert.Equal(t, "ACCT_8f4s1eq7ml6rlzj", code)
		assert.Equal(t, "Sunrise Academy", got.BusinessName)
		assert.Equal(t, "058", got.BankCode)
		assert.Equal(t, "2.5", got.PercentageCharge)
	})
}

func TestStubGateway(t *testing.T) {
	t.Run("settles initialized references at the initialized amount", func(t *testing.T) {
		gateway := NewStubGateway()

		session, err := gateway.Initialize(context.Background(),
			"ORD-cafe00000001", "parent@example.com", decimal.NewFromInt(500), "NGN")
		require.NoError(t, err)
		assert.NotEmpty(t, session.CheckoutURL)

		result, err := gateway.Verify(context.Background(), "ORD-cafe00000001")
		require.NoError(t, err)
		assert.True(t, result.Settled)
		assert.True(t, result.Amount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("reports unknown references as unsettled", func(t *testing.T) {
		gateway := NewStubGateway()

		result, err := gateway.Verify(context.Background(), "ORD-missing")
		require.NoError(t, err)
		assert.False(t, result.Settled)
	})
}
