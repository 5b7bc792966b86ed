package people

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/people"
)

// CreateStudentInput enrolls a student into a class
type CreateStudentInput struct {
	RegistrationNumber string    `json:"registration_number" binding:"required,min=1,max=50"`
	FirstName          string    `json:"first_name" binding:"required,min=1,max=100"`
	LastName           string    `json:"last_name" binding:"required,min=1,max=100"`
	Gender             string    `json:"gender" binding:"required,oneof=MALE FEMALE"`
	DateOfBirth        time.Time `json:"date_of_birth"`
	ClassID            uuid.UUID `json:"class_id" binding:"required"`
}

// UpdateStudentInput carries profile changes
type UpdateStudentInput struct {
	FirstName   string    `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string    `json:"last_name" binding:"required,min=1,max=100"`
	Gender      string    `json:"gender" binding:"required,oneof=MALE FEMALE"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

// TransferStudentInput names the destination class
type TransferStudentInput struct {
	ClassID uuid.UUID `json:"class_id" binding:"required"`
}

// StudentResponse is a student in API responses
type StudentResponse struct {
	ID                 uuid.UUID `json:"id"`
	SchoolID           uuid.UUID `json:"school_id"`
	RegistrationNumber string    `json:"registration_number"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Gender             string    `json:"gender"`
	DateOfBirth        time.Time `json:"date_of_birth,omitempty"`
	ClassID            uuid.UUID `json:"class_id"`
	PhotoURL           string    `json:"photo_url,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToStudentResponse maps a domain student to its API shape
func ToStudentResponse(s *people.Student) StudentResponse {
	return StudentResponse{
		ID:                 s.ID,
		SchoolID:           s.SchoolID,
		RegistrationNumber: s.RegistrationNumber,
		FirstName:          s.FirstName,
		LastName:           s.LastName,
		Gender:             string(s.Gender),
		DateOfBirth:        s.DateOfBirth,
		ClassID:            s.ClassID,
		PhotoURL:           s.PhotoURL,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt,
	}
}

// CreateTeacherInput creates the TEACHER account and its profile together
type CreateTeacherInput struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	FullName      string `json:"full_name" binding:"required,min=1,max=200"`
	Phone         string `json:"phone" binding:"max=50"`
	StaffNumber   string `json:"staff_number" binding:"required,min=1,max=50"`
	Qualification string `json:"qualification" binding:"max=200"`
	Specialty     string `json:"specialty" binding:"max=200"`
}

// UpdateTeacherInput carries profile changes
type UpdateTeacherInput struct {
	Qualification string `json:"qualification" binding:"max=200"`
	Specialty     string `json:"specialty" binding:"max=200"`
}

// TeacherResponse is a teacher profile in API responses
type TeacherResponse struct {
	ID            uuid.UUID  `json:"id"`
	SchoolID      uuid.UUID  `json:"school_id"`
	UserID        uuid.UUID  `json:"user_id"`
	StaffNumber   string     `json:"staff_number"`
	Qualification string     `json:"qualification,omitempty"`
	Specialty     string     `json:"specialty,omitempty"`
	Status        string     `json:"status"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToTeacherResponse maps a domain teacher to its API shape
func ToTeacherResponse(t *people.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:            t.ID,
		SchoolID:      t.SchoolID,
		UserID:        t.UserID,
		StaffNumber:   t.StaffNumber,
		Qualification: t.Qualification,
		Specialty:     t.Specialty,
		Status:        string(t.Status),
		VerifiedAt:    t.VerifiedAt,
		CreatedAt:     t.CreatedAt,
	}
}

// LinkGuardianInput attaches a guardian to a student. Either an existing
// PARENT user is named, or a new account is created from the contact
// fields; the two modes are mutually exclusive.
type LinkGuardianInput struct {
	UserID       *uuid.UUID `json:"user_id"`
	Email        string     `json:"email" binding:"omitempty,email"`
	Password     string     `json:"password" binding:"omitempty,min=8"`
	FullName     string     `json:"full_name" binding:"max=200"`
	Phone        string     `json:"phone" binding:"max=50"`
	Occupation   string     `json:"occupation" binding:"max=200"`
	Address      string     `json:"address" binding:"max=500"`
	Relationship string     `json:"relationship" binding:"required,oneof=FATHER MOTHER GUARDIAN"`
	IsPrimary    bool       `json:"is_primary"`
}

// GuardianResponse is a guardian profile in API responses
type GuardianResponse struct {
	ID         uuid.UUID `json:"id"`
	SchoolID   uuid.UUID `json:"school_id"`
	UserID     uuid.UUID `json:"user_id"`
	Occupation string    `json:"occupation,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToGuardianResponse maps a domain guardian to its API shape
func ToGuardianResponse(g *people.Guardian) GuardianResponse {
	return GuardianResponse{
		ID:         g.ID,
		SchoolID:   g.SchoolID,
		UserID:     g.UserID,
		Occupation: g.Occupation,
		Address:    g.Address,
		CreatedAt:  g.CreatedAt,
	}
}

// GuardianLinkResponse is one guardian-student link
type GuardianLinkResponse struct {
	GuardianID   uuid.UUID `json:"guardian_id"`
	StudentID    uuid.UUID `json:"student_id"`
	Relationship string    `json:"relationship"`
	IsPrimary    bool      `json:"is_primary"`
}

// ToGuardianLinkResponse maps a domain link to its API shape
func ToGuardianLinkResponse(l *people.GuardianLink) GuardianLinkResponse {
	return GuardianLinkResponse{
		GuardianID:   l.GuardianID,
		StudentID:    l.StudentID,
		Relationship: string(l.Relationship),
		IsPrimary:    l.IsPrimary,
	}
}
