package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appacademics "github.com/schoolhub/backend/internal/application/academics"
)

// ClassHandler exposes class administration
type ClassHandler struct {
	BaseHandler
	classService *appacademics.ClassService
}

// NewClassHandler creates a new ClassHandler
func NewClassHandler(classService *appacademics.ClassService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{BaseHandler: NewBaseHandler(logger), classService: classService}
}

// Create handles POST /classes
func (h *ClassHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appacademics.CreateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	class, err := h.classService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, class)
}

// Get handles GET /classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	class, err := h.classService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// List handles GET /classes
func (h *ClassHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.classService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.UpdateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	class, err := h.classService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// AssignSupervisor handles PUT /classes/:id/supervisor
func (h *ClassHandler) AssignSupervisor(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.AssignSupervisorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	class, err := h.classService.AssignSupervisor(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// Delete handles DELETE /classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
