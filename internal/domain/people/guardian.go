package people

import (
	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Relationship describes how a guardian relates to a student
type Relationship string

const (
	RelationshipFather   Relationship = "FATHER"
	RelationshipMother   Relationship = "MOTHER"
	RelationshipGuardian Relationship = "GUARDIAN"
)

// ValidRelationship reports whether r is a known relationship
func ValidRelationship(r Relationship) bool {
	switch r {
	case RelationshipFather, RelationshipMother, RelationshipGuardian:
		return true
	}
	return false
}

// Guardian is the school-side profile behind a PARENT user account. One
// guardian can be linked to students across several schools, so the profile
// is keyed by user, not embedded in a student.
type Guardian struct {
	shared.SchoolAggregateRoot
	UserID     uuid.UUID
	Occupation string
	Address    string
}

// TableName maps the aggregate to its table
func (Guardian) TableName() string { return "guardian_profiles" }

// NewGuardian creates a guardian profile tied to a user account
func NewGuardian(schoolID, userID uuid.UUID, occupation, address string) (*Guardian, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Guardian profile requires a user account")
	}
	return &Guardian{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		UserID:              userID,
		Occupation:          occupation,
		Address:             address,
	}, nil
}

// GuardianLink ties a guardian to one student with a stated relationship.
// A student has at most one link per guardian.
type GuardianLink struct {
	shared.BaseEntity
	GuardianID   uuid.UUID
	StudentID    uuid.UUID
	Relationship Relationship
	IsPrimary    bool
}

// TableName maps the entity to its table
func (GuardianLink) TableName() string { return "guardian_links" }

// NewGuardianLink links a guardian to a student
func NewGuardianLink(guardianID, studentID uuid.UUID, relationship Relationship, primary bool) (*GuardianLink, error) {
	if guardianID == uuid.Nil || studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Link requires a guardian and student")
	}
	if !ValidRelationship(relationship) {
		return nil, shared.NewDomainError("INVALID_RELATIONSHIP", "Relationship must be FATHER, MOTHER or GUARDIAN")
	}
	return &GuardianLink{
		BaseEntity:   shared.NewBaseEntity(),
		GuardianID:   guardianID,
		StudentID:    studentID,
		Relationship: relationship,
		IsPrimary:    primary,
	}, nil
}
