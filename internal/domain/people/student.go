// Package people covers the humans a school manages: students, teacher
// profiles, and the guardians linked to students.
package people

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Gender values accepted on student records
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ValidGender reports whether g is a known gender value
func ValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale
}

// Student is an enrolled pupil. RegistrationNumber is unique per school.
type Student struct {
	shared.SchoolAggregateRoot
	RegistrationNumber string
	FirstName          string
	LastName           string
	Gender             Gender
	DateOfBirth        time.Time
	ClassID            uuid.UUID
	PhotoURL           string
	IsActive           bool
}

// TableName maps the aggregate to its table
func (Student) TableName() string { return "students" }

// NewStudent enrolls a student into a class
func NewStudent(schoolID, classID uuid.UUID, regNumber, firstName, lastName string, gender Gender, dob time.Time) (*Student, error) {
	regNumber = strings.ToUpper(strings.TrimSpace(regNumber))
	if regNumber == "" {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration number cannot be empty")
	}
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Student first and last name are required")
	}
	if !ValidGender(gender) {
		return nil, shared.NewDomainError("INVALID_GENDER", "Gender must be MALE or FEMALE")
	}
	if classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Student requires a class")
	}
	if !dob.IsZero() && dob.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_DOB", "Date of birth cannot be in the future")
	}
	return &Student{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		RegistrationNumber:  regNumber,
		FirstName:           firstName,
		LastName:            lastName,
		Gender:              gender,
		DateOfBirth:         dob,
		ClassID:             classID,
		IsActive:            true,
	}, nil
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Update applies profile changes
func (s *Student) Update(firstName, lastName string, gender Gender, dob time.Time) error {
	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "Student first and last name are required")
	}
	if !ValidGender(gender) {
		return shared.NewDomainError("INVALID_GENDER", "Gender must be MALE or FEMALE")
	}
	s.FirstName = firstName
	s.LastName = lastName
	s.Gender = gender
	if !dob.IsZero() {
		s.DateOfBirth = dob
	}
	s.Touch()
	s.IncrementVersion()
	return nil
}

// TransferTo moves the student to another class. The caller verifies the
// destination has a free seat first.
func (s *Student) TransferTo(classID uuid.UUID) error {
	if classID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Student requires a class")
	}
	s.ClassID = classID
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetPhotoURL records the stored photo location
func (s *Student) SetPhotoURL(url string) {
	s.PhotoURL = url
	s.Touch()
}

// Deactivate withdraws the student without deleting the record
func (s *Student) Deactivate() {
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
}
