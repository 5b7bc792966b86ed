// Package assessment covers the academic record: attendance and report cards.
package assessment

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// AttendanceStatus marks a student's presence for one lesson
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

// ValidAttendanceStatus reports whether s is a known status
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AttendanceRecord marks one student for one lesson on one date. The
// (student, lesson, date) triple is unique; re-marking overwrites.
type AttendanceRecord struct {
	shared.SchoolAggregateRoot
	StudentID  uuid.UUID
	LessonID   uuid.UUID
	Date       time.Time // date only, normalized to midnight UTC
	Status     AttendanceStatus
	MarkedByID uuid.UUID
	Note       string
}

// TableName maps the aggregate to its table
func (AttendanceRecord) TableName() string { return "attendance_records" }

// NormalizeDate strips the time-of-day component so the uniqueness key
// compares calendar dates only.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewAttendanceRecord marks a student's attendance for a lesson
func NewAttendanceRecord(schoolID, studentID, lessonID, markedByID uuid.UUID, date time.Time, status AttendanceStatus, note string) (*AttendanceRecord, error) {
	if studentID == uuid.Nil || lessonID == uuid.Nil || markedByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Attendance requires a student, lesson and marker")
	}
	if !ValidAttendanceStatus(status) {
		return nil, shared.NewDomainError("INVALID_STATUS", "Attendance status must be PRESENT, ABSENT or LATE")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Attendance date is required")
	}
	return &AttendanceRecord{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		StudentID:           studentID,
		LessonID:            lessonID,
		Date:                NormalizeDate(date),
		Status:              status,
		MarkedByID:          markedByID,
		Note:                note,
	}, nil
}

// Remark replaces the status for an already-marked record
func (a *AttendanceRecord) Remark(status AttendanceStatus, markedByID uuid.UUID, note string) error {
	if !ValidAttendanceStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", "Attendance status must be PRESENT, ABSENT or LATE")
	}
	a.Status = status
	a.MarkedByID = markedByID
	a.Note = note
	a.Touch()
	a.IncrementVersion()
	return nil
}
