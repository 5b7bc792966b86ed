// Package academics implements class, room, curriculum, lesson and
// timetable management.
package academics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// ClassService handles class administration
type ClassService struct {
	classRepo   academics.ClassRepository
	lessonRepo  academics.LessonRepository
	studentRepo people.StudentRepository
	teacherRepo people.TeacherRepository
	logger      *zap.Logger
}

// NewClassService creates a new ClassService
func NewClassService(
	classRepo academics.ClassRepository,
	lessonRepo academics.LessonRepository,
	studentRepo people.StudentRepository,
	teacherRepo people.TeacherRepository,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classRepo:   classRepo,
		lessonRepo:  lessonRepo,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		logger:      logger,
	}
}

// Create adds a class to the actor's school
func (s *ClassService) Create(ctx context.Context, actor identity.Actor, input CreateClassInput) (*ClassResponse, error) {
	exists, err := s.classRepo.ExistsByNameAndGrade(ctx, actor.SchoolID, input.Name, input.GradeLevel)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"A class with this name already exists at this grade level")
	}

	class, err := academics.NewClass(actor.SchoolID, input.Name, input.GradeLevel, input.Capacity)
	if err != nil {
		return nil, err
	}
	class.CreatedBy = &actor.UserID

	if err := s.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("Class created",
		zap.String("class_id", class.ID.String()),
		zap.String("school_id", class.SchoolID.String()))

	resp := ToClassResponse(class, 0)
	return &resp, nil
}

// Get returns one class with its active enrolment count
func (s *ClassService) Get(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.studentRepo.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	resp := ToClassResponse(class, enrolled)
	return &resp, nil
}

// List returns classes matching the filter
func (s *ClassService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ClassResponse], error) {
	page, err := s.classRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ClassResponse, 0, len(page.Items))
	for i := range page.Items {
		enrolled, err := s.studentRepo.CountActiveByClass(ctx, page.Items[i].ID)
		if err != nil {
			return nil, err
		}
		items = append(items, ToClassResponse(&page.Items[i], enrolled))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies changes to a class. Shrinking capacity below the current
// enrolment is rejected.
func (s *ClassService) Update(ctx context.Context, id uuid.UUID, input UpdateClassInput) (*ClassResponse, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.studentRepo.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	if int64(input.Capacity) < enrolled {
		return nil, shared.NewDomainError("INVALID_CAPACITY",
			"Capacity cannot be lower than the current enrolment")
	}

	if input.Name != class.Name || input.GradeLevel != class.GradeLevel {
		exists, err := s.classRepo.ExistsByNameAndGrade(ctx, class.SchoolID, input.Name, input.GradeLevel)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
				"A class with this name already exists at this grade level")
		}
	}

	if err := class.Update(input.Name, input.GradeLevel, input.Capacity); err != nil {
		return nil, err
	}
	if err := s.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}
	resp := ToClassResponse(class, enrolled)
	return &resp, nil
}

// AssignSupervisor sets the supervising teacher for a class
func (s *ClassService) AssignSupervisor(ctx context.Context, id uuid.UUID, input AssignSupervisorInput) (*ClassResponse, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.teacherRepo.FindByUserID(ctx, input.TeacherUserID); err != nil {
		return nil, err
	}
	class.AssignSupervisor(input.TeacherUserID)
	if err := s.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}
	enrolled, err := s.studentRepo.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	resp := ToClassResponse(class, enrolled)
	return &resp, nil
}

// Delete removes a class that has no enrolled students and no lessons
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	enrolled, err := s.studentRepo.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return err
	}
	if enrolled > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Class still has enrolled students")
	}

	lessons, err := s.lessonRepo.FindByClass(ctx, class.ID)
	if err != nil {
		return err
	}
	if len(lessons) > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Class still has lessons attached")
	}

	if err := s.classRepo.Delete(ctx, class.ID); err != nil {
		return err
	}
	s.logger.Info("Class deleted", zap.String("class_id", class.ID.String()))
	return nil
}
