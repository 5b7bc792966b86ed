package assessment

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// ReportCardStatus tracks the publication lifecycle: DRAFT -> APPROVED ->
// PUBLISHED. Only published cards are visible to guardians.
type ReportCardStatus string

const (
	ReportDraft     ReportCardStatus = "DRAFT"
	ReportApproved  ReportCardStatus = "APPROVED"
	ReportPublished ReportCardStatus = "PUBLISHED"
)

// ReportCard is one student's term result sheet
type ReportCard struct {
	shared.SchoolAggregateRoot
	StudentID    uuid.UUID
	ClassID      uuid.UUID
	Term         string // "FIRST", "SECOND", "THIRD"
	AcademicYear string
	Status       ReportCardStatus
	Remarks      string
	Subjects     []SubjectReport
	ApprovedByID *uuid.UUID
	PublishedAt  *time.Time
}

// TableName maps the aggregate to its table
func (ReportCard) TableName() string { return "report_cards" }

// SubjectReport is one subject's scores within a report card
type SubjectReport struct {
	shared.BaseEntity
	ReportCardID uuid.UUID
	SubjectID    uuid.UUID
	Score        float64
	Grade        string
	Comment      string
}

// TableName maps the entity to its table
func (SubjectReport) TableName() string { return "subject_reports" }

var validTerms = map[string]bool{"FIRST": true, "SECOND": true, "THIRD": true}

// NewReportCard creates a draft report card
func NewReportCard(schoolID, studentID, classID uuid.UUID, term, academicYear string) (*ReportCard, error) {
	if studentID == uuid.Nil || classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Report card requires a student and class")
	}
	if !validTerms[term] {
		return nil, shared.NewDomainError("INVALID_TERM", "Term must be FIRST, SECOND or THIRD")
	}
	if academicYear == "" {
		return nil, shared.NewDomainError("INVALID_YEAR", "Academic year cannot be empty")
	}
	return &ReportCard{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		StudentID:           studentID,
		ClassID:             classID,
		Term:                term,
		AcademicYear:        academicYear,
		Status:              ReportDraft,
	}, nil
}

// gradeFor maps a score to the letter band
func gradeFor(score float64) string {
	switch {
	case score >= 70:
		return "A"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	case score >= 45:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

// SetSubjectScore adds or replaces a subject's entry. Only drafts are
// editable.
func (r *ReportCard) SetSubjectScore(subjectID uuid.UUID, score float64, comment string) error {
	if r.Status != ReportDraft {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft report cards can be edited")
	}
	if subjectID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Subject is required")
	}
	if score < 0 || score > 100 {
		return shared.NewDomainError("INVALID_SCORE", "Score must be between 0 and 100")
	}
	for i := range r.Subjects {
		if r.Subjects[i].SubjectID == subjectID {
			r.Subjects[i].Score = score
			r.Subjects[i].Grade = gradeFor(score)
			r.Subjects[i].Comment = comment
			r.Subjects[i].Touch()
			r.Touch()
			return nil
		}
	}
	r.Subjects = append(r.Subjects, SubjectReport{
		BaseEntity:   shared.NewBaseEntity(),
		ReportCardID: r.ID,
		SubjectID:    subjectID,
		Score:        score,
		Grade:        gradeFor(score),
		Comment:      comment,
	})
	r.Touch()
	return nil
}

// SetRemarks updates the overall remarks on a draft
func (r *ReportCard) SetRemarks(remarks string) error {
	if r.Status != ReportDraft {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft report cards can be edited")
	}
	r.Remarks = remarks
	r.Touch()
	return nil
}

// Average returns the mean score across subjects, or 0 when empty
func (r *ReportCard) Average() float64 {
	if len(r.Subjects) == 0 {
		return 0
	}
	var sum float64
	for i := range r.Subjects {
		sum += r.Subjects[i].Score
	}
	return sum / float64(len(r.Subjects))
}

// Approve moves a draft with at least one subject to APPROVED
func (r *ReportCard) Approve(approverID uuid.UUID) error {
	if r.Status != ReportDraft {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft report cards can be approved")
	}
	if len(r.Subjects) == 0 {
		return shared.NewDomainError("EMPTY_REPORT", "Report card has no subject scores")
	}
	r.Status = ReportApproved
	r.ApprovedByID = &approverID
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Publish makes an approved card visible to guardians
func (r *ReportCard) Publish() error {
	if r.Status != ReportApproved {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only approved report cards can be published")
	}
	now := time.Now()
	r.Status = ReportPublished
	r.PublishedAt = &now
	r.Touch()
	r.IncrementVersion()
	return nil
}

// IsPublished reports whether guardians may see the card
func (r *ReportCard) IsPublished() bool {
	return r.Status == ReportPublished
}
