package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appacademics "github.com/schoolhub/backend/internal/application/academics"
)

// TimetableHandler exposes timetable and slot administration
type TimetableHandler struct {
	BaseHandler
	timetableService *appacademics.TimetableService
}

// NewTimetableHandler creates a new TimetableHandler
func NewTimetableHandler(timetableService *appacademics.TimetableService, logger *zap.Logger) *TimetableHandler {
	return &TimetableHandler{BaseHandler: NewBaseHandler(logger), timetableService: timetableService}
}

// Create handles POST /timetables
func (h *TimetableHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appacademics.CreateTimetableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	timetable, err := h.timetableService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, timetable)
}

// Get handles GET /timetables/:id
func (h *TimetableHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	timetable, err := h.timetableService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, timetable)
}

// ListByClass handles GET /classes/:id/timetables
func (h *TimetableHandler) ListByClass(c *gin.Context) {
	classID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	timetables, err := h.timetableService.ListByClass(c.Request.Context(), classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, timetables)
}

// GetActiveByClass handles GET /classes/:id/timetable, returning the
// class's active timetable with its slots.
func (h *TimetableHandler) GetActiveByClass(c *gin.Context) {
	classID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	timetable, err := h.timetableService.GetActiveByClass(c.Request.Context(), classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, timetable)
}

// Activate handles POST /timetables/:id/activate
func (h *TimetableHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	timetable, err := h.timetableService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, timetable)
}

// Delete handles DELETE /timetables/:id
func (h *TimetableHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.timetableService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddSlot handles POST /timetables/:id/slots
func (h *TimetableHandler) AddSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.CreateSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	slot, err := h.timetableService.AddSlot(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, slot)
}

// RescheduleSlot handles PUT /timetables/:id/slots/:slotId
func (h *TimetableHandler) RescheduleSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	slotID, ok := h.pathID(c, "slotId")
	if !ok {
		return
	}
	var input appacademics.RescheduleSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	slot, err := h.timetableService.RescheduleSlot(c.Request.Context(), id, slotID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slot)
}

// DisableSlot handles POST /timetables/:id/slots/:slotId/disable
func (h *TimetableHandler) DisableSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	slotID, ok := h.pathID(c, "slotId")
	if !ok {
		return
	}
	slot, err := h.timetableService.DisableSlot(c.Request.Context(), id, slotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slot)
}

// EnableSlot handles POST /timetables/:id/slots/:slotId/enable
func (h *TimetableHandler) EnableSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	slotID, ok := h.pathID(c, "slotId")
	if !ok {
		return
	}
	slot, err := h.timetableService.EnableSlot(c.Request.Context(), id, slotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slot)
}

// RemoveSlot handles DELETE /timetables/:id/slots/:slotId
func (h *TimetableHandler) RemoveSlot(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	slotID, ok := h.pathID(c, "slotId")
	if !ok {
		return
	}
	if err := h.timetableService.RemoveSlot(c.Request.Context(), id, slotID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
