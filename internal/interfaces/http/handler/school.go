package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appschool "github.com/schoolhub/backend/internal/application/school"
)

// SchoolHandler exposes school registration, verification and profile
// management
type SchoolHandler struct {
	BaseHandler
	schoolService *appschool.SchoolService
}

// NewSchoolHandler creates a new SchoolHandler
func NewSchoolHandler(schoolService *appschool.SchoolService, logger *zap.Logger) *SchoolHandler {
	return &SchoolHandler{BaseHandler: NewBaseHandler(logger), schoolService: schoolService}
}

// Register handles POST /schools. Public: a school signs up with its
// first admin account and waits for platform approval.
func (h *SchoolHandler) Register(c *gin.Context) {
	var input appschool.RegisterSchoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	school, err := h.schoolService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, school)
}

// Get handles GET /schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	school, err := h.schoolService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, school)
}

// List handles GET /schools
func (h *SchoolHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.schoolService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Approve handles POST /schools/:id/approve
func (h *SchoolHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	school, err := h.schoolService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, school)
}

// Reject handles POST /schools/:id/reject
func (h *SchoolHandler) Reject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appschool.RejectSchoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	school, err := h.schoolService.Reject(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, school)
}

// Update handles PUT /schools/:id
func (h *SchoolHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appschool.UpdateSchoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	school, err := h.schoolService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, school)
}

// SetSettlement handles PUT /schools/:id/settlement
func (h *SchoolHandler) SetSettlement(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appschool.SettlementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	if err := h.schoolService.SetSettlement(c.Request.Context(), id, input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadLogo handles POST /schools/:id/logo
func (h *SchoolHandler) UploadLogo(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	body, contentType, ok := h.uploadedFile(c)
	if !ok {
		return
	}
	defer body.Close()
	school, err := h.schoolService.UploadLogo(c.Request.Context(), id, contentType, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, school)
}

// Delete handles DELETE /schools/:id
func (h *SchoolHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.schoolService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
