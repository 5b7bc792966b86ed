package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcommerce "github.com/schoolhub/backend/internal/application/commerce"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
)

// PaymentHandler exposes gateway checkout and the settlement callback
type PaymentHandler struct {
	BaseHandler
	paymentService *appcommerce.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appcommerce.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{BaseHandler: NewBaseHandler(logger), paymentService: paymentService}
}

// Initialize handles POST /orders/:id/payments, opening a gateway
// checkout session for the order.
func (h *PaymentHandler) Initialize(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Initialize(c.Request.Context(), actor, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Verify handles GET /payments/verify?reference=..., the gateway's
// redirect and webhook target. Unauthenticated: the reference is the
// credential.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing reference parameter", middleware.GetRequestID(c)))
		return
	}
	payment, err := h.paymentService.Verify(c.Request.Context(), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// Webhook handles POST /payments/webhook, the gateway's server-to-server
// notification. The reference is re-verified against the gateway rather
// than trusting the payload.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var event webhookEvent
	if err := c.ShouldBindJSON(&event); err != nil || event.Data.Reference == "" {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing payment reference", middleware.GetRequestID(c)))
		return
	}
	payment, err := h.paymentService.Verify(c.Request.Context(), event.Data.Reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// ListByOrder handles GET /orders/:id/payments
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.paymentService.ListByOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}
