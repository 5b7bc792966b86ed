package academics

import (
	"strings"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Curriculum groups the subjects taught to a grade level in an academic year
type Curriculum struct {
	shared.SchoolAggregateRoot
	Name         string
	GradeLevel   int
	AcademicYear string // "2025/2026"
}

// TableName maps the aggregate to its table
func (Curriculum) TableName() string { return "curricula" }

// NewCurriculum creates a curriculum for a school
func NewCurriculum(schoolID uuid.UUID, name string, gradeLevel int, academicYear string) (*Curriculum, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Curriculum name cannot be empty")
	}
	if gradeLevel < 1 || gradeLevel > 12 {
		return nil, shared.NewDomainError("INVALID_GRADE", "Grade level must be between 1 and 12")
	}
	if academicYear == "" {
		return nil, shared.NewDomainError("INVALID_YEAR", "Academic year cannot be empty")
	}
	return &Curriculum{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		GradeLevel:          gradeLevel,
		AcademicYear:        academicYear,
	}, nil
}

// Update applies changes to the curriculum definition
func (c *Curriculum) Update(name, academicYear string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Curriculum name cannot be empty")
	}
	c.Name = name
	if academicYear != "" {
		c.AcademicYear = academicYear
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Subject is a taught discipline within a curriculum. Code is unique within
// its curriculum.
type Subject struct {
	shared.SchoolAggregateRoot
	CurriculumID uuid.UUID
	Code         string
	Name         string
}

// TableName maps the entity to its table
func (Subject) TableName() string { return "subjects" }

// NewSubject creates a subject under a curriculum
func NewSubject(schoolID, curriculumID uuid.UUID, code, name string) (*Subject, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Subject code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Subject name cannot be empty")
	}
	return &Subject{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		CurriculumID:        curriculumID,
		Code:                code,
		Name:                name,
	}, nil
}
