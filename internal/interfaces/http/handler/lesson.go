package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appacademics "github.com/schoolhub/backend/internal/application/academics"
)

// LessonHandler exposes lesson administration
type LessonHandler struct {
	BaseHandler
	lessonService *appacademics.LessonService
}

// NewLessonHandler creates a new LessonHandler
func NewLessonHandler(lessonService *appacademics.LessonService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{BaseHandler: NewBaseHandler(logger), lessonService: lessonService}
}

// Create handles POST /lessons
func (h *LessonHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appacademics.CreateLessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	lesson, err := h.lessonService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lesson)
}

// Get handles GET /lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lesson, err := h.lessonService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lesson)
}

// ListByClass handles GET /classes/:id/lessons
func (h *LessonHandler) ListByClass(c *gin.Context) {
	classID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lessons, err := h.lessonService.ListByClass(c.Request.Context(), classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lessons)
}

// ListMine handles GET /lessons/mine, listing the teaching load of the
// authenticated teacher.
func (h *LessonHandler) ListMine(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.lessonService.ListByTeacher(c.Request.Context(), actor.UserID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Reassign handles PUT /lessons/:id/teacher
func (h *LessonHandler) Reassign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.ReassignLessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	lesson, err := h.lessonService.Reassign(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lesson)
}

// Delete handles DELETE /lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lessonService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
