package people

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// TeacherStatus tracks a teacher's verification state
type TeacherStatus string

const (
	TeacherPending  TeacherStatus = "PENDING"
	TeacherVerified TeacherStatus = "VERIFIED"
)

// Teacher is the professional profile behind a TEACHER user account
type Teacher struct {
	shared.SchoolAggregateRoot
	UserID        uuid.UUID
	StaffNumber   string
	Qualification string
	Specialty     string
	Status        TeacherStatus
	VerifiedAt    *time.Time
}

// TableName maps the aggregate to its table
func (Teacher) TableName() string { return "teacher_profiles" }

// NewTeacher creates an unverified teacher profile tied to a user account
func NewTeacher(schoolID, userID uuid.UUID, staffNumber, qualification, specialty string) (*Teacher, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Teacher profile requires a user account")
	}
	if staffNumber == "" {
		return nil, shared.NewDomainError("INVALID_STAFF_NUMBER", "Staff number cannot be empty")
	}
	return &Teacher{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		UserID:              userID,
		StaffNumber:         staffNumber,
		Qualification:       qualification,
		Specialty:           specialty,
		Status:              TeacherPending,
	}, nil
}

// Verify marks the teacher's credentials as checked
func (t *Teacher) Verify() error {
	if t.Status == TeacherVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Teacher is already verified")
	}
	now := time.Now()
	t.Status = TeacherVerified
	t.VerifiedAt = &now
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsVerified reports whether the profile has passed verification
func (t *Teacher) IsVerified() bool {
	return t.Status == TeacherVerified
}

// Update applies profile changes
func (t *Teacher) Update(qualification, specialty string) {
	t.Qualification = qualification
	t.Specialty = specialty
	t.Touch()
	t.IncrementVersion()
}
