package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appassessment "github.com/schoolhub/backend/internal/application/assessment"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
)

const dateLayout = "2006-01-02"

// AttendanceHandler exposes per-lesson attendance marking and queries
type AttendanceHandler struct {
	BaseHandler
	attendanceService *appassessment.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(attendanceService *appassessment.AttendanceService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{BaseHandler: NewBaseHandler(logger), attendanceService: attendanceService}
}

// Mark handles POST /attendance
func (h *AttendanceHandler) Mark(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input appassessment.MarkAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err)
		return
	}
	record, err := h.attendanceService.Mark(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// ListByLesson handles GET /lessons/:id/attendance?date=YYYY-MM-DD
func (h *AttendanceHandler) ListByLesson(c *gin.Context) {
	lessonID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	date, ok := h.dateQuery(c, "date", time.Now())
	if !ok {
		return
	}
	records, err := h.attendanceService.ListByLesson(c.Request.Context(), lessonID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// ListByStudent handles GET /students/:id/attendance?from=...&to=...
func (h *AttendanceHandler) ListByStudent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	studentID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	now := time.Now()
	from, ok := h.dateQuery(c, "from", now.AddDate(0, -1, 0))
	if !ok {
		return
	}
	to, ok := h.dateQuery(c, "to", now)
	if !ok {
		return
	}
	records, err := h.attendanceService.ListByStudent(c.Request.Context(), actor, studentID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// dateQuery parses an optional YYYY-MM-DD query parameter
func (h *AttendanceHandler) dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid "+name+" date, expected YYYY-MM-DD", middleware.GetRequestID(c)))
		return time.Time{}, false
	}
	return date, true
}
