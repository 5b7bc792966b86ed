package assessment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/assessment"
	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/email"
)

// ReportCardService drives the DRAFT -> APPROVED -> PUBLISHED lifecycle.
// Publishing fans a notification out to every linked guardian.
type ReportCardService struct {
	reportRepo       assessment.ReportCardRepository
	studentRepo      people.StudentRepository
	classRepo        academics.ClassRepository
	curriculumRepo   academics.CurriculumRepository
	guardianRepo     people.GuardianRepository
	userRepo         identity.UserRepository
	notificationRepo engagement.NotificationRepository
	mailer           email.Sender
	logger           *zap.Logger
}

// NewReportCardService creates a new ReportCardService
func NewReportCardService(
	reportRepo assessment.ReportCardRepository,
	studentRepo people.StudentRepository,
	classRepo academics.ClassRepository,
	curriculumRepo academics.CurriculumRepository,
	guardianRepo people.GuardianRepository,
	userRepo identity.UserRepository,
	notificationRepo engagement.NotificationRepository,
	mailer email.Sender,
	logger *zap.Logger,
) *ReportCardService {
	return &ReportCardService{
		reportRepo:       reportRepo,
		studentRepo:      studentRepo,
		classRepo:        classRepo,
		curriculumRepo:   curriculumRepo,
		guardianRepo:     guardianRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		logger:           logger,
	}
}

// CreateDraft opens a draft card for a student's term. One card per
// (student, term, year).
func (s *ReportCardService) CreateDraft(ctx context.Context, actor identity.Actor, input CreateReportCardInput) (*ReportCardResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reportRepo.ExistsForTerm(ctx, student.ID, input.Term, input.AcademicYear)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"A report card for this term already exists")
	}

	card, err := assessment.NewReportCard(student.SchoolID, student.ID, student.ClassID,
		input.Term, input.AcademicYear)
	if err != nil {
		return nil, err
	}
	card.CreatedBy = &actor.UserID

	if err := s.reportRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("Report card drafted",
		zap.String("report_card_id", card.ID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("term", card.Term))

	resp := ToReportCardResponse(card)
	return &resp, nil
}

// Get returns one report card. PARENT actors only see published cards of
// their own wards.
func (s *ReportCardService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReportCardResponse, error) {
	card, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleParent {
		guards, err := s.guardianRepo.GuardsStudent(ctx, actor.UserID, card.StudentID)
		if err != nil {
			return nil, err
		}
		if !guards || !card.IsPublished() {
			return nil, shared.ErrNotFound
		}
	}
	resp := ToReportCardResponse(card)
	return &resp, nil
}

// ListByStudent returns a student's cards. PARENT actors only see
// published cards of their own wards.
func (s *ReportCardService) ListByStudent(ctx context.Context, actor identity.Actor, studentID uuid.UUID) ([]ReportCardResponse, error) {
	if actor.Role == identity.RoleParent {
		guards, err := s.guardianRepo.GuardsStudent(ctx, actor.UserID, studentID)
		if err != nil {
			return nil, err
		}
		if !guards {
			return nil, shared.ErrNotFound
		}
	}

	cards, err := s.reportRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	items := make([]ReportCardResponse, 0, len(cards))
	for i := range cards {
		if actor.Role == identity.RoleParent && !cards[i].IsPublished() {
			continue
		}
		items = append(items, ToReportCardResponse(&cards[i]))
	}
	return items, nil
}

// ListByClassAndTerm returns a class's cards for one term
func (s *ReportCardService) ListByClassAndTerm(ctx context.Context, classID uuid.UUID, term, academicYear string, filter shared.Filter) (*shared.Paginated[ReportCardResponse], error) {
	page, err := s.reportRepo.FindByClassAndTerm(ctx, classID, term, academicYear, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReportCardResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToReportCardResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// SetScore records one subject's score on a draft. The subject must come
// from a curriculum at the card's class grade level.
func (s *ReportCardService) SetScore(ctx context.Context, id uuid.UUID, input SetScoreInput) (*ReportCardResponse, error) {
	card, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subject, err := s.curriculumRepo.FindSubjectByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	curriculum, err := s.curriculumRepo.FindByID(ctx, subject.CurriculumID)
	if err != nil {
		return nil, err
	}
	class, err := s.classRepo.FindByID(ctx, card.ClassID)
	if err != nil {
		return nil, err
	}
	if curriculum.GradeLevel != class.GradeLevel {
		return nil, shared.NewDomainError("GRADE_MISMATCH",
			"Subject belongs to a curriculum at a different grade level")
	}

	if err := card.SetSubjectScore(subject.ID, input.Score, input.Comment); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	resp := ToReportCardResponse(card)
	return &resp, nil
}

// SetRemarks updates the overall remarks on a draft
func (s *ReportCardService) SetRemarks(ctx context.Context, id uuid.UUID, input SetRemarksInput) (*ReportCardResponse, error) {
	card, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := card.SetRemarks(input.Remarks); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	resp := ToReportCardResponse(card)
	return &resp, nil
}

// Approve moves a draft to APPROVED
func (s *ReportCardService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReportCardResponse, error) {
	card, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := card.Approve(actor.UserID); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("Report card approved",
		zap.String("report_card_id", card.ID.String()),
		zap.String("by", actor.UserID.String()))

	resp := ToReportCardResponse(card)
	return &resp, nil
}

// Publish makes an approved card visible to guardians and notifies them
func (s *ReportCardService) Publish(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReportCardResponse, error) {
	card, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := card.Publish(); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("Report card published",
		zap.String("report_card_id", card.ID.String()),
		zap.String("by", actor.UserID.String()))

	s.notifyGuardians(ctx, card)

	resp := ToReportCardResponse(card)
	return &resp, nil
}

// Delete removes a card that has not reached guardians. Published cards
// are immutable history and cannot be deleted.
func (s *ReportCardService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	card, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if card.IsPublished() {
		return shared.NewDomainError("INVALID_STATE", "published report cards cannot be deleted")
	}
	if err := s.reportRepo.Delete(ctx, card.ID); err != nil {
		return err
	}

	s.logger.Info("Report card deleted",
		zap.String("report_card_id", card.ID.String()),
		zap.String("by", actor.UserID.String()))
	return nil
}

// notifyGuardians fans the publication out to linked guardians. Delivery
// is best effort and never rolls the publication back.
func (s *ReportCardService) notifyGuardians(ctx context.Context, card *assessment.ReportCard) {
	student, err := s.studentRepo.FindByID(ctx, card.StudentID)
	if err != nil {
		s.logger.Error("Failed to load student for report notification", zap.Error(err))
		return
	}
	links, err := s.guardianRepo.FindLinksByStudent(ctx, card.StudentID)
	if err != nil {
		s.logger.Error("Failed to load guardian links for report notification", zap.Error(err))
		return
	}

	title := fmt.Sprintf("%s term report card published", card.Term)
	body := fmt.Sprintf("The %s term report card for %s (%s) is now available.",
		card.Term, student.FullName(), card.AcademicYear)

	notifications := make([]*engagement.Notification, 0, len(links))
	recipients := make([]uuid.UUID, 0, len(links))
	for i := range links {
		guardian, err := s.guardianRepo.FindByID(ctx, links[i].GuardianID)
		if err != nil {
			s.logger.Error("Failed to load guardian for report notification", zap.Error(err))
			continue
		}
		refID := card.ID
		n, err := engagement.NewNotification(guardian.UserID, card.SchoolID,
			engagement.NotificationReportCard, title, body, &refID)
		if err != nil {
			continue
		}
		notifications = append(notifications, n)
		recipients = append(recipients, guardian.UserID)
	}
	if len(notifications) == 0 {
		return
	}

	if err := s.notificationRepo.SaveBatch(ctx, notifications); err != nil {
		s.logger.Error("Failed to save report notifications", zap.Error(err))
	}

	for _, userID := range recipients {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			continue
		}
		err = s.mailer.Send(ctx, email.Message{
			ToAddress: user.Email,
			ToName:    user.FullName,
			Subject:   title,
			PlainText: body,
		})
		if err != nil {
			s.logger.Error("Failed to email report notification",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
}
