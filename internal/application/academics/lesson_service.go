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

// LessonService binds subjects to classes and teachers
type LessonService struct {
	lessonRepo     academics.LessonRepository
	classRepo      academics.ClassRepository
	curriculumRepo academics.CurriculumRepository
	teacherRepo    people.TeacherRepository
	logger         *zap.Logger
}

// NewLessonService creates a new LessonService
func NewLessonService(
	lessonRepo academics.LessonRepository,
	classRepo academics.ClassRepository,
	curriculumRepo academics.CurriculumRepository,
	teacherRepo people.TeacherRepository,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		lessonRepo:     lessonRepo,
		classRepo:      classRepo,
		curriculumRepo: curriculumRepo,
		teacherRepo:    teacherRepo,
		logger:         logger,
	}
}

// Create binds a subject to a class under a teacher. The subject must come
// from a curriculum at the class's grade level, and the teacher must hold a
// profile in the school.
func (s *LessonService) Create(ctx context.Context, actor identity.Actor, input CreateLessonInput) (*LessonResponse, error) {
	class, err := s.classRepo.FindByID(ctx, input.ClassID)
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
	if curriculum.GradeLevel != class.GradeLevel {
		return nil, shared.NewDomainError("GRADE_MISMATCH",
			"Subject belongs to a curriculum at a different grade level")
	}

	teacher, err := s.teacherRepo.FindByUserID(ctx, input.TeacherUserID)
	if err != nil {
		return nil, err
	}

	lesson, err := academics.NewLesson(class.SchoolID, class.ID, subject.ID, teacher.UserID)
	if err != nil {
		return nil, err
	}
	lesson.CreatedBy = &actor.UserID

	if err := s.lessonRepo.Save(ctx, lesson); err != nil {
		return nil, err
	}

	s.logger.Info("Lesson created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("class_id", class.ID.String()),
		zap.String("subject_id", subject.ID.String()))

	resp := ToLessonResponse(lesson)
	return &resp, nil
}

// Get returns one lesson
func (s *LessonService) Get(ctx context.Context, id uuid.UUID) (*LessonResponse, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLessonResponse(lesson)
	return &resp, nil
}

// ListByClass returns all lessons of a class
func (s *LessonService) ListByClass(ctx context.Context, classID uuid.UUID) ([]LessonResponse, error) {
	lessons, err := s.lessonRepo.FindByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	items := make([]LessonResponse, 0, len(lessons))
	for i := range lessons {
		items = append(items, ToLessonResponse(&lessons[i]))
	}
	return items, nil
}

// ListByTeacher returns a teacher's lessons
func (s *LessonService) ListByTeacher(ctx context.Context, teacherUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[LessonResponse], error) {
	page, err := s.lessonRepo.FindByTeacher(ctx, teacherUserID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LessonResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToLessonResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Reassign moves the lesson to another teacher
func (s *LessonService) Reassign(ctx context.Context, id uuid.UUID, input ReassignLessonInput) (*LessonResponse, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher, err := s.teacherRepo.FindByUserID(ctx, input.TeacherUserID)
	if err != nil {
		return nil, err
	}
	if err := lesson.Reassign(teacher.UserID); err != nil {
		return nil, err
	}
	if err := s.lessonRepo.Save(ctx, lesson); err != nil {
		return nil, err
	}

	s.logger.Info("Lesson reassigned",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("teacher_user_id", teacher.UserID.String()))

	resp := ToLessonResponse(lesson)
	return &resp, nil
}

// Delete removes a lesson
func (s *LessonService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Lesson deleted", zap.String("lesson_id", id.String()))
	return nil
}
