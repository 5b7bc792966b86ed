package academics

import (
	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Lesson binds a subject to a class and its teacher. Timetable slots
// schedule lessons, not subjects, so the teacher is resolved through here.
type Lesson struct {
	shared.SchoolAggregateRoot
	ClassID       uuid.UUID
	SubjectID     uuid.UUID
	TeacherUserID uuid.UUID
}

// TableName maps the aggregate to its table
func (Lesson) TableName() string { return "lessons" }

// NewLesson creates a lesson
func NewLesson(schoolID, classID, subjectID, teacherUserID uuid.UUID) (*Lesson, error) {
	if classID == uuid.Nil || subjectID == uuid.Nil || teacherUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Lesson requires a class, subject and teacher")
	}
	return &Lesson{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		ClassID:             classID,
		SubjectID:           subjectID,
		TeacherUserID:       teacherUserID,
	}, nil
}

// Reassign changes the teacher for the lesson
func (l *Lesson) Reassign(teacherUserID uuid.UUID) error {
	if teacherUserID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Lesson requires a teacher")
	}
	l.TeacherUserID = teacherUserID
	l.Touch()
	l.IncrementVersion()
	return nil
}
