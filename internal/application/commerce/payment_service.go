package commerce

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// PaymentService drives gateway checkout and settlement. Verification is
// the only path that marks an order paid and decrements stock, and it does
// both inside one transaction.
type PaymentService struct {
	paymentRepo      commerce.PaymentRepository
	orderRepo        commerce.OrderRepository
	materialRepo     commerce.MaterialRepository
	userRepo         identity.UserRepository
	notificationRepo engagement.NotificationRepository
	gateway          commerce.Gateway
	tx               shared.TxManager
	logger           *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo commerce.PaymentRepository,
	orderRepo commerce.OrderRepository,
	materialRepo commerce.MaterialRepository,
	userRepo identity.UserRepository,
	notificationRepo engagement.NotificationRepository,
	gateway commerce.Gateway,
	tx shared.TxManager,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:      paymentRepo,
		orderRepo:        orderRepo,
		materialRepo:     materialRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		tx:               tx,
		logger:           logger,
	}
}

// Initialize opens a gateway checkout session for a pending order and
// returns the URL the buyer is redirected to.
func (s *PaymentService) Initialize(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*PaymentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerUserID != actor.UserID {
		return nil, shared.ErrNotFound
	}

	payment, err := commerce.NewPayment(order)
	if err != nil {
		return nil, err
	}

	buyer, err := s.userRepo.FindByID(ctx, order.BuyerUserID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.Initialize(ctx, payment.Reference, buyer.Email, payment.Amount, payment.Currency)
	if err != nil {
		s.logger.Error("Gateway initialize failed",
			zap.String("reference", payment.Reference), zap.Error(err))
		return nil, shared.NewDomainError("GATEWAY_ERROR", "Payment could not be initiated")
	}
	payment.AttachCheckout(session.GatewayRef, session.CheckoutURL)

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("Payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reference", payment.Reference),
		zap.String("amount", payment.Amount.String()))

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// Verify asks the gateway whether the reference has settled and resolves
// the payment. On settlement the order is marked paid and every line's
// stock is decremented; a conditional update rejects overselling, rolling
// the whole settlement back.
func (s *PaymentService) Verify(ctx context.Context, reference string) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status != commerce.PaymentInitiated {
		// verification is idempotent; replaying a resolved reference
		// returns the stored outcome
		resp := ToPaymentResponse(payment)
		return &resp, nil
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.logger.Error("Gateway verify failed",
			zap.String("reference", reference), zap.Error(err))
		return nil, shared.NewDomainError("GATEWAY_ERROR", "Payment could not be verified")
	}

	if !result.Settled {
		if err := payment.Fail(result.Reason); err != nil {
			return nil, err
		}
		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return nil, err
		}
		s.logger.Warn("Payment failed",
			zap.String("reference", reference),
			zap.String("reason", result.Reason))
		resp := ToPaymentResponse(payment)
		return &resp, nil
	}

	order, err := s.orderRepo.FindByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := payment.Succeed(result.Amount, result.SettledAt); err != nil {
			return err
		}
		if err := order.MarkPaid(); err != nil {
			return err
		}
		for i := range order.Items {
			if err := s.materialRepo.DecrementStock(ctx, order.Items[i].MaterialID, order.Items[i].Quantity); err != nil {
				return err
			}
		}
		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment settled",
		zap.String("reference", reference),
		zap.String("order_id", order.ID.String()),
		zap.String("amount", payment.Amount.String()))

	s.notifyBuyer(ctx, order)

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// ListByOrder returns an order's payment attempts. Buyers only see their
// own orders.
func (s *PaymentService) ListByOrder(ctx context.Context, actor identity.Actor, orderID uuid.UUID) ([]PaymentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleParent && order.BuyerUserID != actor.UserID {
		return nil, shared.ErrNotFound
	}

	payments, err := s.paymentRepo.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, ToPaymentResponse(&payments[i]))
	}
	return items, nil
}

// notifyBuyer records a best-effort in-app receipt
func (s *PaymentService) notifyBuyer(ctx context.Context, order *commerce.Order) {
	refID := order.ID
	notification, err := engagement.NewNotification(order.BuyerUserID, order.SchoolID,
		engagement.NotificationOrder, "Payment received",
		"Your payment for order "+order.Reference+" has been confirmed.", &refID)
	if err != nil {
		return
	}
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		s.logger.Error("Failed to save order notification",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}
