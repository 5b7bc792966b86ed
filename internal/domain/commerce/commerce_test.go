package commerce

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listedMaterial(t *testing.T, schoolID uuid.UUID, price string, stock int) *Material {
	t.Helper()
	m, err := NewMaterial(schoolID, "Notebook", "", decimal.RequireFromString(price), "NGN", stock)
	require.NoError(t, err)
	return m
}

func TestNewMaterial(t *testing.T) {
	m := listedMaterial(t, uuid.New(), "1500.00", 10)
	assert.True(t, m.IsListed)
	assert.Equal(t, "NGN", m.Currency)

	_, err := NewMaterial(uuid.New(), "", "", decimal.Zero, "NGN", 0)
	assert.Error(t, err, "name required")

	_, err = NewMaterial(uuid.New(), "X", "", decimal.NewFromInt(-1), "NGN", 0)
	assert.Error(t, err, "negative price")

	_, err = NewMaterial(uuid.New(), "X", "", decimal.Zero, "NGN", -1)
	assert.Error(t, err, "negative stock")
}

func TestMaterialStock(t *testing.T) {
	m := listedMaterial(t, uuid.New(), "1500.00", 2)
	assert.True(t, m.InStock(2))
	assert.False(t, m.InStock(3))
	assert.False(t, m.InStock(0))

	require.NoError(t, m.Restock(5))
	assert.Equal(t, 7, m.StockQuantity)
	assert.Error(t, m.Restock(0))
}

func TestOrderTotals(t *testing.T) {
	schoolID := uuid.New()
	o, err := NewOrder(schoolID, uuid.New(), nil, "NGN")
	require.NoError(t, err)
	assert.Equal(t, OrderPendingPayment, o.Status)
	assert.NotEmpty(t, o.Reference)

	notebook := listedMaterial(t, schoolID, "1500.00", 10)
	pencil := listedMaterial(t, schoolID, "200.50", 10)

	require.NoError(t, o.AddItem(notebook, 2))
	require.NoError(t, o.AddItem(pencil, 3))
	assert.True(t, o.Total.Equal(decimal.RequireFromString("3601.50")), "got %s", o.Total)
	assert.Len(t, o.Items, 2)

	assert.Error(t, o.AddItem(notebook, 0), "quantity must be positive")

	usd, _ := NewMaterial(schoolID, "Import", "", decimal.NewFromInt(5), "USD", 1)
	assert.Error(t, o.AddItem(usd, 1), "currency mismatch")
}

func TestOrderItemPriceCapture(t *testing.T) {
	schoolID := uuid.New()
	o, _ := NewOrder(schoolID, uuid.New(), nil, "NGN")
	m := listedMaterial(t, schoolID, "1000.00", 10)
	require.NoError(t, o.AddItem(m, 1))

	require.NoError(t, m.Update(m.Name, "", decimal.RequireFromString("2000.00")))
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.RequireFromString("1000.00")),
		"price edits do not change captured lines")
}

func TestOrderLifecycle(t *testing.T) {
	schoolID := uuid.New()
	o, _ := NewOrder(schoolID, uuid.New(), nil, "NGN")
	require.NoError(t, o.AddItem(listedMaterial(t, schoolID, "1000.00", 5), 1))

	assert.Error(t, o.MarkFulfilled(), "cannot fulfil before payment")

	require.NoError(t, o.MarkPaid())
	require.NotNil(t, o.PaidAt)
	assert.Error(t, o.MarkPaid(), "double payment")
	assert.Error(t, o.Cancel(), "paid orders cannot be cancelled")
	assert.Error(t, o.AddItem(listedMaterial(t, schoolID, "1.00", 1), 1), "paid orders are sealed")

	require.NoError(t, o.MarkFulfilled())
	assert.Equal(t, OrderFulfilled, o.Status)
}

func TestOrderCancel(t *testing.T) {
	o, _ := NewOrder(uuid.New(), uuid.New(), nil, "NGN")
	require.NoError(t, o.Cancel())
	assert.Equal(t, OrderCancelled, o.Status)
	assert.Error(t, o.Cancel())
}

func TestPaymentLifecycle(t *testing.T) {
	schoolID := uuid.New()
	o, _ := NewOrder(schoolID, uuid.New(), nil, "NGN")
	require.NoError(t, o.AddItem(listedMaterial(t, schoolID, "1000.00", 5), 2))

	p, err := NewPayment(o)
	require.NoError(t, err)
	assert.Equal(t, o.Reference, p.Reference)
	assert.True(t, p.Amount.Equal(o.Total))

	assert.Error(t, p.Succeed(decimal.NewFromInt(999), time.Now()), "amount mismatch")

	require.NoError(t, p.Succeed(o.Total, time.Now()))
	assert.Equal(t, PaymentSucceeded, p.Status)
	assert.Error(t, p.Succeed(o.Total, time.Now()), "already resolved")
	assert.Error(t, p.Fail("late failure"), "already resolved")
}

func TestNewPaymentGuards(t *testing.T) {
	o, _ := NewOrder(uuid.New(), uuid.New(), nil, "NGN")
	_, err := NewPayment(o)
	assert.Error(t, err, "empty order has zero total")

	require.NoError(t, o.Cancel())
	_, err = NewPayment(o)
	assert.Error(t, err, "cancelled orders cannot be paid")
}
