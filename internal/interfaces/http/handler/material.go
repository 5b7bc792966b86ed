package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcommerce "github.com/schoolhub/backend/internal/application/commerce"
)

// MaterialHandler exposes store listing administration and browsing
type MaterialHandler struct {
	BaseHandler
	materialService *appcommerce.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService *appcommerce.MaterialService, logger *zap.Logger) *MaterialHandler {
	return &MaterialHandler{BaseHandler: NewBaseHandler(logger), materialService: materialService}
}

// Create handles POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appcommerce.CreateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	material, err := h.materialService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, material)
}

// Get handles GET /materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	material, err := h.materialService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// List handles GET /materials
func (h *MaterialHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.materialService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appcommerce.UpdateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	material, err := h.materialService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// Restock handles POST /materials/:id/restock
func (h *MaterialHandler) Restock(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appcommerce.RestockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	material, err := h.materialService.Restock(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// Unlist handles POST /materials/:id/unlist
func (h *MaterialHandler) Unlist(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	material, err := h.materialService.Unlist(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// UploadImage handles POST /materials/:id/image
func (h *MaterialHandler) UploadImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	body, contentType, ok := h.uploadedFile(c)
	if !ok {
		return
	}
	defer body.Close()
	material, err := h.materialService.UploadImage(c.Request.Context(), id, contentType, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}
