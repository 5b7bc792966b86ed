package commerce

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// OrderService handles checkout and the order lifecycle. Stock is only
// pre-checked here; the definitive decrement happens when the payment
// settles.
type OrderService struct {
	orderRepo    commerce.OrderRepository
	materialRepo commerce.MaterialRepository
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo commerce.OrderRepository,
	materialRepo commerce.MaterialRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// Checkout opens a pending order for the given lines. All lines must be
// listed materials of one school in one currency, with enough stock at
// checkout time.
func (s *OrderService) Checkout(ctx context.Context, actor identity.Actor, input CheckoutInput) (*OrderResponse, error) {
	materials := make([]*commerce.Material, 0, len(input.Items))
	for _, line := range input.Items {
		material, err := s.materialRepo.FindByID(ctx, line.MaterialID)
		if err != nil {
			return nil, err
		}
		if !material.IsListed {
			return nil, shared.NewDomainError(shared.ErrInvalidState.Code,
				"Material "+material.Name+" is no longer available")
		}
		if !material.InStock(line.Quantity) {
			return nil, shared.NewDomainError(shared.ErrInsufficientStock.Code,
				"Not enough stock of "+material.Name)
		}
		materials = append(materials, material)
	}

	schoolID := materials[0].SchoolID
	for _, material := range materials {
		if material.SchoolID != schoolID {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
				"All order items must come from the same school")
		}
	}

	order, err := commerce.NewOrder(schoolID, actor.UserID, input.StudentID, materials[0].Currency)
	if err != nil {
		return nil, err
	}
	for i, material := range materials {
		if err := order.AddItem(material, input.Items[i].Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order opened",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
		zap.String("total", order.Total.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Get returns one order. Buyers only see their own orders.
func (s *OrderService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleParent && order.BuyerUserID != actor.UserID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListMine returns the actor's own orders
func (s *OrderService) ListMine(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindByBuyer(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}
	return mapOrderPage(page), nil
}

// List returns orders matching the filter. School staff only.
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapOrderPage(page), nil
}

// Cancel abandons a pending order. Only the buyer can cancel.
func (s *OrderService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.BuyerUserID != actor.UserID {
		return nil, shared.ErrNotFound
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Fulfil marks a paid order handed over. School staff only.
func (s *OrderService) Fulfil(ctx context.Context, actor identity.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.MarkFulfilled(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order fulfilled",
		zap.String("order_id", order.ID.String()),
		zap.String("by", actor.UserID.String()))

	resp := ToOrderResponse(order)
	return &resp, nil
}

func mapOrderPage(page *shared.Paginated[commerce.Order]) *shared.Paginated[OrderResponse] {
	items := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToOrderResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result
}
