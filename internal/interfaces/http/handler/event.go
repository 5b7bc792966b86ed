package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appengagement "github.com/schoolhub/backend/internal/application/engagement"
)

// EventHandler exposes school events and RSVPs
type EventHandler struct {
	BaseHandler
	eventService *appengagement.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *appengagement.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{BaseHandler: NewBaseHandler(logger), eventService: eventService}
}

// Create handles POST /events
func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appengagement.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// Get handles GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// List handles GET /events
func (h *EventHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.eventService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appengagement.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// UploadImage handles POST /events/:id/image
func (h *EventHandler) UploadImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	body, contentType, ok := h.uploadedFile(c)
	if !ok {
		return
	}
	defer body.Close()
	event, err := h.eventService.UploadImage(c.Request.Context(), id, contentType, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Delete handles DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RSVP handles PUT /events/:id/rsvp, recording or changing the actor's
// reply.
func (h *EventHandler) RSVP(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appengagement.RSVPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	rsvp, err := h.eventService.RSVP(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rsvp)
}

// ListRSVPs handles GET /events/:id/rsvps
func (h *EventHandler) ListRSVPs(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rsvps, err := h.eventService.ListRSVPs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rsvps)
}
