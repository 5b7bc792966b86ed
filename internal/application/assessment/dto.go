package assessment

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/assessment"
)

// MarkAttendanceInput marks one student for one lesson on one date.
// Re-marking the same triple overwrites the earlier status.
type MarkAttendanceInput struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	LessonID  uuid.UUID `json:"lesson_id" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	Status    string    `json:"status" binding:"required,oneof=PRESENT ABSENT LATE"`
	Note      string    `json:"note" binding:"max=500"`
}

// AttendanceResponse is an attendance record in API responses
type AttendanceResponse struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	LessonID   uuid.UUID `json:"lesson_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	MarkedByID uuid.UUID `json:"marked_by_id"`
	Note       string    `json:"note,omitempty"`
}

// ToAttendanceResponse maps a domain record to its API shape
func ToAttendanceResponse(a *assessment.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		StudentID:  a.StudentID,
		LessonID:   a.LessonID,
		Date:       a.Date.Format("2006-01-02"),
		Status:     string(a.Status),
		MarkedByID: a.MarkedByID,
		Note:       a.Note,
	}
}

// CreateReportCardInput opens a draft report card for a student's term
type CreateReportCardInput struct {
	StudentID    uuid.UUID `json:"student_id" binding:"required"`
	Term         string    `json:"term" binding:"required,oneof=FIRST SECOND THIRD"`
	AcademicYear string    `json:"academic_year" binding:"required,min=4,max=20"`
}

// SetScoreInput records one subject's score on a draft
type SetScoreInput struct {
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
	Score     float64   `json:"score" binding:"min=0,max=100"`
	Comment   string    `json:"comment" binding:"max=500"`
}

// SetRemarksInput carries the overall remarks
type SetRemarksInput struct {
	Remarks string `json:"remarks" binding:"required,max=1000"`
}

// SubjectReportResponse is one subject entry on a report card
type SubjectReportResponse struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Score     float64   `json:"score"`
	Grade     string    `json:"grade"`
	Comment   string    `json:"comment,omitempty"`
}

// ReportCardResponse is a report card in API responses
type ReportCardResponse struct {
	ID           uuid.UUID               `json:"id"`
	SchoolID     uuid.UUID               `json:"school_id"`
	StudentID    uuid.UUID               `json:"student_id"`
	ClassID      uuid.UUID               `json:"class_id"`
	Term         string                  `json:"term"`
	AcademicYear string                  `json:"academic_year"`
	Status       string                  `json:"status"`
	Remarks      string                  `json:"remarks,omitempty"`
	Average      float64                 `json:"average"`
	Subjects     []SubjectReportResponse `json:"subjects"`
	ApprovedByID *uuid.UUID              `json:"approved_by_id,omitempty"`
	PublishedAt  *time.Time              `json:"published_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// ToReportCardResponse maps a domain card to its API shape
func ToReportCardResponse(r *assessment.ReportCard) ReportCardResponse {
	resp := ReportCardResponse{
		ID:           r.ID,
		SchoolID:     r.SchoolID,
		StudentID:    r.StudentID,
		ClassID:      r.ClassID,
		Term:         r.Term,
		AcademicYear: r.AcademicYear,
		Status:       string(r.Status),
		Remarks:      r.Remarks,
		Average:      r.Average(),
		ApprovedByID: r.ApprovedByID,
		PublishedAt:  r.PublishedAt,
		CreatedAt:    r.CreatedAt,
	}
	resp.Subjects = make([]SubjectReportResponse, 0, len(r.Subjects))
	for i := range r.Subjects {
		resp.Subjects = append(resp.Subjects, SubjectReportResponse{
			SubjectID: r.Subjects[i].SubjectID,
			Score:     r.Subjects[i].Score,
			Grade:     r.Subjects[i].Grade,
			Comment:   r.Subjects[i].Comment,
		})
	}
	return resp
}
