package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appacademics "github.com/schoolhub/backend/internal/application/academics"
)

// CurriculumHandler exposes curriculum and subject administration
type CurriculumHandler struct {
	BaseHandler
	curriculumService *appacademics.CurriculumService
}

// NewCurriculumHandler creates a new CurriculumHandler
func NewCurriculumHandler(curriculumService *appacademics.CurriculumService, logger *zap.Logger) *CurriculumHandler {
	return &CurriculumHandler{BaseHandler: NewBaseHandler(logger), curriculumService: curriculumService}
}

// Create handles POST /curricula
func (h *CurriculumHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appacademics.CreateCurriculumInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	curriculum, err := h.curriculumService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, curriculum)
}

// Get handles GET /curricula/:id
func (h *CurriculumHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	curriculum, err := h.curriculumService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, curriculum)
}

// List handles GET /curricula
func (h *CurriculumHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.curriculumService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /curricula/:id
func (h *CurriculumHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.UpdateCurriculumInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	curriculum, err := h.curriculumService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, curriculum)
}

// Delete handles DELETE /curricula/:id
func (h *CurriculumHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.curriculumService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddSubject handles POST /curricula/:id/subjects
func (h *CurriculumHandler) AddSubject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appacademics.AddSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	subject, err := h.curriculumService.AddSubject(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, subject)
}

// RemoveSubject handles DELETE /curricula/:id/subjects/:subjectId
func (h *CurriculumHandler) RemoveSubject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	subjectID, ok := h.pathID(c, "subjectId")
	if !ok {
		return
	}
	if err := h.curriculumService.RemoveSubject(c.Request.Context(), id, subjectID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
