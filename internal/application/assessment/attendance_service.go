// Package assessment implements attendance marking and the report card
// lifecycle.
package assessment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/assessment"
	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// AttendanceService marks and reads attendance
type AttendanceService struct {
	attendanceRepo   assessment.AttendanceRepository
	lessonRepo       academics.LessonRepository
	studentRepo      people.StudentRepository
	guardianRepo     people.GuardianRepository
	notificationRepo engagement.NotificationRepository
	logger           *zap.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo assessment.AttendanceRepository,
	lessonRepo academics.LessonRepository,
	studentRepo people.StudentRepository,
	guardianRepo people.GuardianRepository,
	notificationRepo engagement.NotificationRepository,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo:   attendanceRepo,
		lessonRepo:       lessonRepo,
		studentRepo:      studentRepo,
		guardianRepo:     guardianRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Mark records a student's attendance for a lesson. Teachers can only mark
// lessons they teach; re-marking the same (student, lesson, date) triple
// overwrites.
func (s *AttendanceService) Mark(ctx context.Context, actor identity.Actor, input MarkAttendanceInput) (*AttendanceResponse, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, input.LessonID)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleTeacher && lesson.TeacherUserID != actor.UserID {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code,
			"Teachers can only mark attendance for their own lessons")
	}

	student, err := s.studentRepo.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student.ClassID != lesson.ClassID {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			"Student is not enrolled in this lesson's class")
	}

	status := assessment.AttendanceStatus(input.Status)
	record, err := s.attendanceRepo.FindByKey(ctx, student.ID, lesson.ID, input.Date)
	switch {
	case err == nil:
		if err := record.Remark(status, actor.UserID, input.Note); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		record, err = assessment.NewAttendanceRecord(lesson.SchoolID, student.ID, lesson.ID,
			actor.UserID, input.Date, status, input.Note)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.attendanceRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Attendance marked",
		zap.String("student_id", student.ID.String()),
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("status", string(record.Status)))

	if record.Status == assessment.AttendanceAbsent {
		s.notifyGuardians(ctx, student, record)
	}

	resp := ToAttendanceResponse(record)
	return &resp, nil
}

// notifyGuardians tells the student's guardians about an absence. Best
// effort; the record is already saved.
func (s *AttendanceService) notifyGuardians(ctx context.Context, student *people.Student, record *assessment.AttendanceRecord) {
	links, err := s.guardianRepo.FindLinksByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Warn("Failed to load guardians for absence notification",
			zap.String("student_id", student.ID.String()), zap.Error(err))
		return
	}
	title := "Absence recorded"
	body := student.FullName() + " was marked absent on " + record.Date.Format("2006-01-02")
	for i := range links {
		guardian, err := s.guardianRepo.FindByID(ctx, links[i].GuardianID)
		if err != nil {
			continue
		}
		refID := record.ID
		n, err := engagement.NewNotification(guardian.UserID, student.SchoolID,
			engagement.NotificationGeneral, title, body, &refID)
		if err != nil {
			continue
		}
		if err := s.notificationRepo.Save(ctx, n); err != nil {
			s.logger.Warn("Failed to save absence notification",
				zap.String("student_id", student.ID.String()), zap.Error(err))
		}
	}
}

// ListByLesson returns the records of one lesson on one date
func (s *AttendanceService) ListByLesson(ctx context.Context, lessonID uuid.UUID, date time.Time) ([]AttendanceResponse, error) {
	records, err := s.attendanceRepo.FindByLessonAndDate(ctx, lessonID, date)
	if err != nil {
		return nil, err
	}
	return mapAttendance(records), nil
}

// ListByStudent returns a student's records over a date range. PARENT
// actors only reach their own wards; an unrelated student reads as
// not found.
func (s *AttendanceService) ListByStudent(ctx context.Context, actor identity.Actor, studentID uuid.UUID, from, to time.Time) ([]AttendanceResponse, error) {
	if actor.Role == identity.RoleParent {
		guards, err := s.guardianRepo.GuardsStudent(ctx, actor.UserID, studentID)
		if err != nil {
			return nil, err
		}
		if !guards {
			return nil, shared.ErrNotFound
		}
	}

	records, err := s.attendanceRepo.FindByStudent(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	return mapAttendance(records), nil
}

func mapAttendance(records []assessment.AttendanceRecord) []AttendanceResponse {
	items := make([]AttendanceResponse, 0, len(records))
	for i := range records {
		items = append(items, ToAttendanceResponse(&records[i]))
	}
	return items
}
