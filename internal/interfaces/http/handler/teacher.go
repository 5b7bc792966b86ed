package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apppeople "github.com/schoolhub/backend/internal/application/people"
)

// TeacherHandler exposes teacher onboarding and profile management
type TeacherHandler struct {
	BaseHandler
	teacherService *apppeople.TeacherService
}

// NewTeacherHandler creates a new TeacherHandler
func NewTeacherHandler(teacherService *apppeople.TeacherService, logger *zap.Logger) *TeacherHandler {
	return &TeacherHandler{BaseHandler: NewBaseHandler(logger), teacherService: teacherService}
}

// Onboard handles POST /teachers, creating the account and profile in
// one step.
func (h *TeacherHandler) Onboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input apppeople.CreateTeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	teacher, err := h.teacherService.Onboard(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, teacher)
}

// Get handles GET /teachers/:id
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.teacherService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// GetMine handles GET /teachers/me, the authenticated teacher's own
// profile.
func (h *TeacherHandler) GetMine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	teacher, err := h.teacherService.GetByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// List handles GET /teachers
func (h *TeacherHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.teacherService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /teachers/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input apppeople.UpdateTeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	teacher, err := h.teacherService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// Verify handles POST /teachers/:id/verify
func (h *TeacherHandler) Verify(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.teacherService.Verify(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// Offboard handles DELETE /teachers/:id
func (h *TeacherHandler) Offboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.teacherService.Offboard(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
