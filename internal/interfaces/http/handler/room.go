package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appacademics "github.com/schoolhub/backend/internal/application/academics"
)

// RoomHandler exposes room administration
type RoomHandler struct {
	BaseHandler
	roomService *appacademics.RoomService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomService *appacademics.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{BaseHandler: NewBaseHandler(logger), roomService: roomService}
}

// Create handles POST /rooms
func (h *RoomHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appacademics.CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	room, err := h.roomService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// Get handles GET /rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// List handles GET /rooms
func (h *RoomHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.roomService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.UpdateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	room, err := h.roomService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// Delete handles DELETE /rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
