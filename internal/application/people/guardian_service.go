package people

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GuardianService links guardians to students. A guardian is always backed
// by a PARENT user account; linking either reuses an existing account or
// creates one in the same unit of work.
type GuardianService struct {
	guardianRepo     people.GuardianRepository
	studentRepo      people.StudentRepository
	userRepo         identity.UserRepository
	notificationRepo engagement.NotificationRepository
	tx               shared.TxManager
	logger           *zap.Logger
}

// NewGuardianService creates a new GuardianService
func NewGuardianService(
	guardianRepo people.GuardianRepository,
	studentRepo people.StudentRepository,
	userRepo identity.UserRepository,
	notificationRepo engagement.NotificationRepository,
	tx shared.TxManager,
	logger *zap.Logger,
) *GuardianService {
	return &GuardianService{
		guardianRepo:     guardianRepo,
		studentRepo:      studentRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		logger:           logger,
	}
}

// Link attaches a guardian to a student. When input names an existing
// PARENT user, their profile for the student's school is reused or
// created; otherwise a new PARENT account is opened from the contact
// fields.
func (s *GuardianService) Link(ctx context.Context, studentID uuid.UUID, input LinkGuardianInput) (*GuardianLinkResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var link *people.GuardianLink
	var guardian *people.Guardian
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		guardian, err = s.resolveGuardian(ctx, student, input)
		if err != nil {
			return err
		}

		exists, err := s.guardianRepo.LinkExists(ctx, guardian.ID, student.ID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code,
				"This guardian is already linked to the student")
		}

		link, err = people.NewGuardianLink(guardian.ID, student.ID,
			people.Relationship(input.Relationship), input.IsPrimary)
		if err != nil {
			return err
		}
		return s.guardianRepo.SaveLink(ctx, link)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Guardian linked",
		zap.String("guardian_id", link.GuardianID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("relationship", string(link.Relationship)))

	s.notifyGuardian(ctx, guardian, student)

	resp := ToGuardianLinkResponse(link)
	return &resp, nil
}

// notifyGuardian tells the parent they were registered for the student.
// Best effort; the link is already committed.
func (s *GuardianService) notifyGuardian(ctx context.Context, guardian *people.Guardian, student *people.Student) {
	refID := student.ID
	n, err := engagement.NewNotification(guardian.UserID, student.SchoolID,
		engagement.NotificationGeneral, "Student registered",
		student.FullName()+" has been registered under your guardianship", &refID)
	if err != nil {
		return
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		s.logger.Warn("Failed to save guardian notification",
			zap.String("student_id", student.ID.String()), zap.Error(err))
	}
}

// resolveGuardian finds or creates the guardian profile behind the link
func (s *GuardianService) resolveGuardian(ctx context.Context, student *people.Student, input LinkGuardianInput) (*people.Guardian, error) {
	if input.UserID != nil {
		return s.guardianForUser(ctx, student, *input.UserID, input)
	}

	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			"Provide either an existing parent user id, or email, password and full name for a new account")
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"An account with this email already exists; link it by user id instead")
	}

	// parent accounts are platform-wide, not bound to one school
	user, err := identity.NewUser(input.Email, input.Password, input.FullName, identity.RoleParent, nil)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	guardian, err := people.NewGuardian(student.SchoolID, user.ID, input.Occupation, input.Address)
	if err != nil {
		return nil, err
	}
	if err := s.guardianRepo.Save(ctx, guardian); err != nil {
		return nil, err
	}
	return guardian, nil
}

// guardianForUser reuses the user's profile for the student's school,
// creating it on first link.
func (s *GuardianService) guardianForUser(ctx context.Context, student *people.Student, userID uuid.UUID, input LinkGuardianInput) (*people.Guardian, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != identity.RoleParent {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			"Only PARENT accounts can be linked as guardians")
	}

	guardian, err := s.guardianRepo.FindByUserID(ctx, user.ID)
	if err == nil && guardian.SchoolID == student.SchoolID {
		return guardian, nil
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	guardian, err = people.NewGuardian(student.SchoolID, user.ID, input.Occupation, input.Address)
	if err != nil {
		return nil, err
	}
	if err := s.guardianRepo.Save(ctx, guardian); err != nil {
		return nil, err
	}
	return guardian, nil
}

// Unlink removes a guardian-student link
func (s *GuardianService) Unlink(ctx context.Context, studentID, guardianID uuid.UUID) error {
	exists, err := s.guardianRepo.LinkExists(ctx, guardianID, studentID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	if err := s.guardianRepo.DeleteLink(ctx, guardianID, studentID); err != nil {
		return err
	}
	s.logger.Info("Guardian unlinked",
		zap.String("guardian_id", guardianID.String()),
		zap.String("student_id", studentID.String()))
	return nil
}

// Get returns one guardian profile
func (s *GuardianService) Get(ctx context.Context, id uuid.UUID) (*GuardianResponse, error) {
	guardian, err := s.guardianRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGuardianResponse(guardian)
	return &resp, nil
}

// ListByStudent returns the guardians linked to a student
func (s *GuardianService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]GuardianLinkResponse, error) {
	links, err := s.guardianRepo.FindLinksByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	items := make([]GuardianLinkResponse, 0, len(links))
	for i := range links {
		items = append(items, ToGuardianLinkResponse(&links[i]))
	}
	return items, nil
}

// ListWards returns the students linked to the PARENT user's profile
func (s *GuardianService) ListWards(ctx context.Context, userID uuid.UUID) ([]StudentResponse, error) {
	guardian, err := s.guardianRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	links, err := s.guardianRepo.FindLinksByGuardian(ctx, guardian.ID)
	if err != nil {
		return nil, err
	}
	items := make([]StudentResponse, 0, len(links))
	for i := range links {
		student, err := s.studentRepo.FindByID(ctx, links[i].StudentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, ToStudentResponse(student))
	}
	return items, nil
}

// Guards reports whether the PARENT user is linked to the student
func (s *GuardianService) Guards(ctx context.Context, userID, studentID uuid.UUID) (bool, error) {
	return s.guardianRepo.GuardsStudent(ctx, userID, studentID)
}
