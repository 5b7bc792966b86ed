package people

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/email"
)

// TeacherService handles teacher onboarding and verification
type TeacherService struct {
	teacherRepo people.TeacherRepository
	userRepo    identity.UserRepository
	lessonRepo  academics.LessonRepository
	tx          shared.TxManager
	mailer      email.Sender
	logger      *zap.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(
	teacherRepo people.TeacherRepository,
	userRepo identity.UserRepository,
	lessonRepo academics.LessonRepository,
	tx shared.TxManager,
	mailer email.Sender,
	logger *zap.Logger,
) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		userRepo:    userRepo,
		lessonRepo:  lessonRepo,
		tx:          tx,
		mailer:      mailer,
		logger:      logger,
	}
}

// Onboard creates the TEACHER account and its pending profile together.
// Both rows commit or neither does.
func (s *TeacherService) Onboard(ctx context.Context, actor identity.Actor, input CreateTeacherInput) (*TeacherResponse, error) {
	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"An account with this email already exists")
	}

	staffTaken, err := s.teacherRepo.ExistsByStaffNumber(ctx, actor.SchoolID, input.StaffNumber)
	if err != nil {
		return nil, err
	}
	if staffTaken {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"A teacher with this staff number already exists")
	}

	schoolID := actor.SchoolID
	user, err := identity.NewUser(input.Email, input.Password, input.FullName,
		identity.RoleTeacher, &schoolID)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone

	teacher, err := people.NewTeacher(schoolID, user.ID, input.StaffNumber,
		input.Qualification, input.Specialty)
	if err != nil {
		return nil, err
	}
	teacher.CreatedBy = &actor.UserID

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		return s.teacherRepo.Save(ctx, teacher)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Teacher onboarded",
		zap.String("teacher_id", teacher.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("staff_number", teacher.StaffNumber))

	// credential delivery is best effort; the account exists either way
	if err := s.mailer.Send(ctx, email.Message{
		ToAddress: user.Email,
		ToName:    user.FullName,
		Subject:   "Your SchoolHub teacher account",
		PlainText: fmt.Sprintf("An account has been created for you. Sign in with %s and the password you were given, then change it.", user.Email),
	}); err != nil {
		s.logger.Warn("Failed to send teacher credentials email",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// Get returns one teacher profile
func (s *TeacherService) Get(ctx context.Context, id uuid.UUID) (*TeacherResponse, error) {
	teacher, err := s.teacherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// GetByUser returns the profile behind a TEACHER account
func (s *TeacherService) GetByUser(ctx context.Context, userID uuid.UUID) (*TeacherResponse, error) {
	teacher, err := s.teacherRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// List returns teacher profiles matching the filter
func (s *TeacherService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[TeacherResponse], error) {
	page, err := s.teacherRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]TeacherResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToTeacherResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies profile changes
func (s *TeacherService) Update(ctx context.Context, id uuid.UUID, input UpdateTeacherInput) (*TeacherResponse, error) {
	teacher, err := s.teacherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.Update(input.Qualification, input.Specialty)
	if err := s.teacherRepo.Save(ctx, teacher); err != nil {
		return nil, err
	}
	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// Offboard removes the teacher profile and deactivates the account.
// Blocked while lessons are still assigned; reassign them first.
func (s *TeacherService) Offboard(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	teacher, err := s.teacherRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	assigned, err := s.lessonRepo.CountByTeacher(ctx, teacher.UserID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Teacher still has assigned lessons; reassign them first")
	}

	user, err := s.userRepo.FindByID(ctx, teacher.UserID)
	if err != nil {
		return err
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if user.IsActive {
			if err := user.Deactivate(); err != nil {
				return err
			}
			if err := s.userRepo.Save(ctx, user); err != nil {
				return err
			}
		}
		return s.teacherRepo.Delete(ctx, teacher.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Teacher offboarded",
		zap.String("teacher_id", teacher.ID.String()),
		zap.String("by", actor.UserID.String()))
	return nil
}

// Verify marks the teacher's credentials as checked
func (s *TeacherService) Verify(ctx context.Context, actor identity.Actor, id uuid.UUID) (*TeacherResponse, error) {
	teacher, err := s.teacherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := teacher.Verify(); err != nil {
		return nil, err
	}
	if err := s.teacherRepo.Save(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("Teacher verified",
		zap.String("teacher_id", teacher.ID.String()),
		zap.String("by", actor.UserID.String()))

	resp := ToTeacherResponse(teacher)
	return &resp, nil
}
