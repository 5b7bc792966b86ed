package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcommerce "github.com/schoolhub/backend/internal/application/commerce"
)

// OrderHandler exposes checkout and the order lifecycle
type OrderHandler struct {
	BaseHandler
	orderService *appcommerce.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *appcommerce.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{BaseHandler: NewBaseHandler(logger), orderService: orderService}
}

// Checkout handles POST /orders
func (h *OrderHandler) Checkout(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appcommerce.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	order, err := h.orderService.Checkout(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListMine handles GET /orders/mine
func (h *OrderHandler) ListMine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.orderService.ListMine(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// List handles GET /orders, the school staff view
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Fulfil handles POST /orders/:id/fulfil
func (h *OrderHandler) Fulfil(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Fulfil(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
