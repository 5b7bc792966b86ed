package commerce

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/payment"
)

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Payment), args.Error(1)
}

func (m *mockPaymentRepository) FindByReference(ctx context.Context, reference string) (*commerce.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Payment), args.Error(1)
}

func (m *mockPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]commerce.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Payment), args.Error(1)
}

func (m *mockPaymentRepository) Save(ctx context.Context, p *commerce.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByReference(ctx context.Context, reference string) (*commerce.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByBuyer(ctx context.Context, buyerUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[commerce.Order], error) {
	args := m.Called(ctx, buyerUserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commerce.Order]), args.Error(1)
}

func (m *mockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[commerce.Order], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commerce.Order]), args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type mockMaterialRepository struct {
	mock.Mock
}

func (m *mockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Material), args.Error(1)
}

func (m *mockMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[commerce.Material], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commerce.Material]), args.Error(1)
}

func (m *mockMaterialRepository) Save(ctx context.Context, material *commerce.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *mockMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMaterialRepository) DecrementStock(ctx context.Context, materialID uuid.UUID, quantity int) error {
	args := m.Called(ctx, materialID, quantity)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, address string) (*identity.User, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, schoolID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Notification), args.Error(1)
}

func (m *mockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[engagement.Notification], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[engagement.Notification]), args.Error(1)
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) Save(ctx context.Context, notification *engagement.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepository) SaveBatch(ctx context.Context, notifications []*engagement.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// passthroughTx runs the unit of work directly, without a store
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type paymentFixture struct {
	schoolID      uuid.UUID
	buyer         *identity.User
	material      *commerce.Material
	order         *commerce.Order
	payments      *mockPaymentRepository
	orders        *mockOrderRepository
	materials     *mockMaterialRepository
	users         *mockUserRepository
	notifications *mockNotificationRepository
	gateway       *payment.StubGateway
	service       *PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	schoolID := uuid.New()

	buyer, err := identity.NewUser("buyer@example.test", "password123", "Ada Obi", identity.RoleParent, nil)
	require.NoError(t, err)

	material, err := commerce.NewMaterial(schoolID, "Exercise Book", "", decimal.NewFromInt(500), "NGN", 10)
	require.NoError(t, err)

	order, err := commerce.NewOrder(schoolID, buyer.ID, nil, "NGN")
	require.NoError(t, err)
	require.NoError(t, order.AddItem(material, 3))

	f := &paymentFixture{
		schoolID:      schoolID,
		buyer:         buyer,
		material:      material,
		order:         order,
		payments:      new(mockPaymentRepository),
		orders:        new(mockOrderRepository),
		materials:     new(mockMaterialRepository),
		users:         new(mockUserRepository),
		notifications: new(mockNotificationRepository),
		gateway:       payment.NewStubGateway(),
	}
	f.service = NewPaymentService(f.payments, f.orders, f.materials, f.users,
		f.notifications, f.gateway, passthroughTx{}, zap.NewNop())
	return f
}

func TestPaymentService_Initialize(t *testing.T) {
	t.Run("opens a checkout session for the buyer", func(t *testing.T) {
		f := newPaymentFixture(t)
		actor := identity.Actor{UserID: f.buyer.ID, Role: identity.RoleParent}

		f.orders.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
		f.users.On("FindByID", mock.Anything, f.buyer.ID).Return(f.buyer, nil)
		f.payments.On("Save", mock.Anything, mock.AnythingOfType("*commerce.Payment")).Return(nil)

		resp, err := f.service.Initialize(context.Background(), actor, f.order.ID)

		require.NoError(t, err)
		assert.Equal(t, f.order.Reference, resp.Reference)
		assert.Equal(t, "INITIATED", resp.Status)
		assert.NotEmpty(t, resp.CheckoutURL)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("only the buyer can initiate payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}

		f.orders.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)

		_, err := f.service.Initialize(context.Background(), actor, f.order.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPaymentService_Verify(t *testing.T) {
	t.Run("settles the payment, marks the order paid and decrements stock", func(t *testing.T) {
		f := newPaymentFixture(t)
		actor := identity.Actor{UserID: f.buyer.ID, Role: identity.RoleParent}

		f.orders.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
		f.users.On("FindByID", mock.Anything, f.buyer.ID).Return(f.buyer, nil)
		f.payments.On("Save", mock.Anything, mock.AnythingOfType("*commerce.Payment")).Return(nil)

		initiated, err := f.service.Initialize(context.Background(), actor, f.order.ID)
		require.NoError(t, err)

		settled, err := commerce.NewPayment(f.order)
		require.NoError(t, err)

		f.payments.On("FindByReference", mock.Anything, initiated.Reference).Return(settled, nil)
		f.materials.On("DecrementStock", mock.Anything, f.material.ID, 3).Return(nil)
		f.orders.On("Save", mock.Anything, f.order).Return(nil)
		f.notifications.On("Save", mock.Anything, mock.AnythingOfType("*engagement.Notification")).Return(nil)

		resp, err := f.service.Verify(context.Background(), initiated.Reference)

		require.NoError(t, err)
		assert.Equal(t, "SUCCEEDED", resp.Status)
		assert.Equal(t, commerce.OrderPaid, f.order.Status)
		f.materials.AssertExpectations(t)
		f.notifications.AssertExpectations(t)
	})

	t.Run("marks the payment failed for an unknown reference", func(t *testing.T) {
		f := newPaymentFixture(t)

		unresolved, err := commerce.NewPayment(f.order)
		require.NoError(t, err)

		f.payments.On("FindByReference", mock.Anything, f.order.Reference).Return(unresolved, nil)
		f.payments.On("Save", mock.Anything, unresolved).Return(nil)

		resp, err := f.service.Verify(context.Background(), f.order.Reference)

		require.NoError(t, err)
		assert.Equal(t, "FAILED", resp.Status)
		assert.Equal(t, "unknown reference", resp.FailReason)
		assert.Equal(t, commerce.OrderPendingPayment, f.order.Status)
		f.materials.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replaying a resolved reference returns the stored outcome", func(t *testing.T) {
		f := newPaymentFixture(t)

		resolved, err := commerce.NewPayment(f.order)
		require.NoError(t, err)
		require.NoError(t, resolved.Fail("declined"))

		f.payments.On("FindByReference", mock.Anything, f.order.Reference).Return(resolved, nil)

		resp, err := f.service.Verify(context.Background(), f.order.Reference)

		require.NoError(t, err)
		assert.Equal(t, "FAILED", resp.Status)
		f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
