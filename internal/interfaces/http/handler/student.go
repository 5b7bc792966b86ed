package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apppeople "github.com/schoolhub/backend/internal/application/people"
)

// StudentHandler exposes enrollment, transfers and guardian links
type StudentHandler struct {
	BaseHandler
	studentService  *apppeople.StudentService
	guardianService *apppeople.GuardianService
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(studentService *apppeople.StudentService, guardianService *apppeople.GuardianService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:     NewBaseHandler(logger),
		studentService:  studentService,
		guardianService: guardianService,
	}
}

// Enroll handles POST /students
func (h *StudentHandler) Enroll(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input apppeople.CreateStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	student, err := h.studentService.Enroll(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, student)
}

// Get handles GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// List handles GET /students
func (h *StudentHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.studentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ListByClass handles GET /classes/:id/students
func (h *StudentHandler) ListByClass(c *gin.Context) {
	classID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.studentService.ListByClass(c.Request.Context(), classID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input apppeople.UpdateStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	student, err := h.studentService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// Transfer handles POST /students/:id/transfer
func (h *StudentHandler) Transfer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input apppeople.TransferStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	student, err := h.studentService.Transfer(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// UploadPhoto handles POST /students/:id/photo
func (h *StudentHandler) UploadPhoto(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	body, contentType, ok := h.uploadedFile(c)
	if !ok {
		return
	}
	defer body.Close()
	student, err := h.studentService.UploadPhoto(c.Request.Context(), id, contentType, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// Withdraw handles POST /students/:id/withdraw
func (h *StudentHandler) Withdraw(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.Withdraw(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LinkGuardian handles POST /students/:id/guardians
func (h *StudentHandler) LinkGuardian(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input apppeople.LinkGuardianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	link, err := h.guardianService.Link(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, link)
}

// UnlinkGuardian handles DELETE /students/:id/guardians/:guardianId
func (h *StudentHandler) UnlinkGuardian(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	guardianID, ok := h.pathID(c, "guardianId")
	if !ok {
		return
	}
	if err := h.guardianService.Unlink(c.Request.Context(), id, guardianID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListGuardians handles GET /students/:id/guardians
func (h *StudentHandler) ListGuardians(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	links, err := h.guardianService.ListByStudent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, links)
}

// ListWards handles GET /guardians/me/wards, listing the authenticated
// parent's linked students.
func (h *StudentHandler) ListWards(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	wards, err := h.guardianService.ListWards(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wards)
}
