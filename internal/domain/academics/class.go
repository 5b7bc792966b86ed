// Package academics holds the school-scoped teaching structure: classes,
// rooms, curricula with subjects, lessons, and timetables with their slots.
package academics

import (
	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Class is a named student group with a seat capacity
type Class struct {
	shared.SchoolAggregateRoot
	Name         string
	GradeLevel   int
	Capacity     int
	SupervisorID *uuid.UUID // supervising teacher's user id
}

// TableName maps the aggregate to its table
func (Class) TableName() string { return "classes" }

// NewClass creates a class for a school
func NewClass(schoolID uuid.UUID, name string, gradeLevel, capacity int) (*Class, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Class name cannot be empty")
	}
	if gradeLevel < 1 || gradeLevel > 12 {
		return nil, shared.NewDomainError("INVALID_GRADE", "Grade level must be between 1 and 12")
	}
	if capacity < 1 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Class capacity must be positive")
	}
	return &Class{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		GradeLevel:          gradeLevel,
		Capacity:            capacity,
	}, nil
}

// Update applies changes to the class definition
func (c *Class) Update(name string, gradeLevel, capacity int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Class name cannot be empty")
	}
	if gradeLevel < 1 || gradeLevel > 12 {
		return shared.NewDomainError("INVALID_GRADE", "Grade level must be between 1 and 12")
	}
	if capacity < 1 {
		return shared.NewDomainError("INVALID_CAPACITY", "Class capacity must be positive")
	}
	c.Name = name
	c.GradeLevel = gradeLevel
	c.Capacity = capacity
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AssignSupervisor sets the supervising teacher
func (c *Class) AssignSupervisor(teacherUserID uuid.UUID) {
	c.SupervisorID = &teacherUserID
	c.Touch()
	c.IncrementVersion()
}

// HasSeatFor reports whether one more student fits
func (c *Class) HasSeatFor(enrolled int64) bool {
	return enrolled < int64(c.Capacity)
}
