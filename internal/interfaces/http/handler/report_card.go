package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appassessment "github.com/schoolhub/backend/internal/application/assessment"
)

// ReportCardHandler exposes the report card workflow: draft, score,
// approve, publish.
type ReportCardHandler struct {
	BaseHandler
	reportCardService *appassessment.ReportCardService
}

// NewReportCardHandler creates a new ReportCardHandler
func NewReportCardHandler(reportCardService *appassessment.ReportCardService, logger *zap.Logger) *ReportCardHandler {
	return &ReportCardHandler{BaseHandler: NewBaseHandler(logger), reportCardService: reportCardService}
}

// CreateDraft handles POST /report-cards
func (h *ReportCardHandler) CreateDraft(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appassessment.CreateReportCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	card, err := h.reportCardService.CreateDraft(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, card)
}

// Get handles GET /report-cards/:id. Parents only see published cards
// of their own wards.
func (h *ReportCardHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.reportCardService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// ListByStudent handles GET /students/:id/report-cards
func (h *ReportCardHandler) ListByStudent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	studentID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	cards, err := h.reportCardService.ListByStudent(c.Request.Context(), actor, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cards)
}

// ListByClass handles GET /classes/:id/report-cards?term=...&academic_year=...
func (h *ReportCardHandler) ListByClass(c *gin.Context) {
	classID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.reportCardService.ListByClassAndTerm(c.Request.Context(), classID,
		c.Query("term"), c.Query("academic_year"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// SetScore handles PUT /report-cards/:id/scores
func (h *ReportCardHandler) SetScore(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appassessment.SetScoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	card, err := h.reportCardService.SetScore(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// SetRemarks handles PUT /report-cards/:id/remarks
func (h *ReportCardHandler) SetRemarks(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input appassessment.SetRemarksInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	card, err := h.reportCardService.SetRemarks(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// Approve handles POST /report-cards/:id/approve
func (h *ReportCardHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.reportCardService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// Delete handles DELETE /report-cards/:id
func (h *ReportCardHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reportCardService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish handles POST /report-cards/:id/publish
func (h *ReportCardHandler) Publish(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	card, err := h.reportCardService.Publish(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}
