package academics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// CurriculumService handles curricula and their subjects
type CurriculumService struct {
	curriculumRepo academics.CurriculumRepository
	lessonRepo     academics.LessonRepository
	logger         *zap.Logger
}

// NewCurriculumService creates a new CurriculumService
func NewCurriculumService(curriculumRepo academics.CurriculumRepository, lessonRepo academics.LessonRepository, logger *zap.Logger) *CurriculumService {
	return &CurriculumService{curriculumRepo: curriculumRepo, lessonRepo: lessonRepo, logger: logger}
}

// Create adds a curriculum to the actor's school
func (s *CurriculumService) Create(ctx context.Context, actor identity.Actor, input CreateCurriculumInput) (*CurriculumResponse, error) {
	curriculum, err := academics.NewCurriculum(actor.SchoolID, input.Name, input.GradeLevel, input.AcademicYear)
	if err != nil {
		return nil, err
	}
	curriculum.CreatedBy = &actor.UserID

	if err := s.curriculumRepo.Save(ctx, curriculum); err != nil {
		return nil, err
	}

	s.logger.Info("Curriculum created",
		zap.String("curriculum_id", curriculum.ID.String()),
		zap.Int("grade_level", curriculum.GradeLevel))

	resp := ToCurriculumResponse(curriculum, nil)
	return &resp, nil
}

// Get returns one curriculum with its subjects
func (s *CurriculumService) Get(ctx context.Context, id uuid.UUID) (*CurriculumResponse, error) {
	curriculum, err := s.curriculumRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.curriculumRepo.FindSubjects(ctx, curriculum.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCurriculumResponse(curriculum, subjects)
	return &resp, nil
}

// List returns curricula matching the filter
func (s *CurriculumService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CurriculumResponse], error) {
	page, err := s.curriculumRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CurriculumResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToCurriculumResponse(&page.Items[i], nil))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies changes to a curriculum
func (s *CurriculumService) Update(ctx context.Context, id uuid.UUID, input UpdateCurriculumInput) (*CurriculumResponse, error) {
	curriculum, err := s.curriculumRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := curriculum.Update(input.Name, input.AcademicYear); err != nil {
		return nil, err
	}
	if err := s.curriculumRepo.Save(ctx, curriculum); err != nil {
		return nil, err
	}
	subjects, err := s.curriculumRepo.FindSubjects(ctx, curriculum.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCurriculumResponse(curriculum, subjects)
	return &resp, nil
}

// Delete removes a curriculum and its subjects
func (s *CurriculumService) Delete(ctx context.Context, id uuid.UUID) error {
	curriculum, err := s.curriculumRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	subjects, err := s.curriculumRepo.FindSubjects(ctx, curriculum.ID)
	if err != nil {
		return err
	}
	if len(subjects) > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Curriculum still has subjects; remove them first")
	}
	if err := s.curriculumRepo.Delete(ctx, curriculum.ID); err != nil {
		return err
	}
	s.logger.Info("Curriculum deleted", zap.String("curriculum_id", curriculum.ID.String()))
	return nil
}

// AddSubject registers a subject under a curriculum
func (s *CurriculumService) AddSubject(ctx context.Context, curriculumID uuid.UUID, input AddSubjectInput) (*SubjectResponse, error) {
	curriculum, err := s.curriculumRepo.FindByID(ctx, curriculumID)
	if err != nil {
		return nil, err
	}

	exists, err := s.curriculumRepo.SubjectExistsByCode(ctx, curriculum.ID, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"A subject with this code already exists in this curriculum")
	}

	subject, err := academics.NewSubject(curriculum.SchoolID, curriculum.ID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.curriculumRepo.SaveSubject(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("Subject added",
		zap.String("subject_id", subject.ID.String()),
		zap.String("curriculum_id", curriculum.ID.String()),
		zap.String("code", subject.Code))

	resp := ToSubjectResponse(subject)
	return &resp, nil
}

// RemoveSubject deletes a subject from its curriculum. Blocked while
// lessons still teach the subject.
func (s *CurriculumService) RemoveSubject(ctx context.Context, curriculumID, subjectID uuid.UUID) error {
	subject, err := s.curriculumRepo.FindSubjectByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if subject.CurriculumID != curriculumID {
		return shared.ErrNotFound
	}
	lessons, err := s.lessonRepo.CountBySubject(ctx, subject.ID)
	if err != nil {
		return err
	}
	if lessons > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Subject is still taught by lessons; remove them first")
	}
	return s.curriculumRepo.DeleteSubject(ctx, subject.ID)
}
