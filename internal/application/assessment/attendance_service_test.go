package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/assessment"
	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

type mockAttendanceRepository struct {
	mock.Mock
}

func (m *mockAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.AttendanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assessment.AttendanceRecord), args.Error(1)
}

func (m *mockAttendanceRepository) FindByKey(ctx context.Context, studentID, lessonID uuid.UUID, date time.Time) (*assessment.AttendanceRecord, error) {
	args := m.Called(ctx, studentID, lessonID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assessment.AttendanceRecord), args.Error(1)
}

func (m *mockAttendanceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]assessment.AttendanceRecord, error) {
	args := m.Called(ctx, studentID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assessment.AttendanceRecord), args.Error(1)
}

func (m *mockAttendanceRepository) FindByLessonAndDate(ctx context.Context, lessonID uuid.UUID, date time.Time) ([]assessment.AttendanceRecord, error) {
	args := m.Called(ctx, lessonID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assessment.AttendanceRecord), args.Error(1)
}

func (m *mockAttendanceRepository) Save(ctx context.Context, record *assessment.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLessonRepository struct {
	mock.Mock
}

func (m *mockLessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*academics.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academics.Lesson), args.Error(1)
}

func (m *mockLessonRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academics.Lesson, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academics.Lesson), args.Error(1)
}

func (m *mockLessonRepository) FindByTeacher(ctx context.Context, teacherUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[academics.Lesson], error) {
	args := m.Called(ctx, teacherUserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[academics.Lesson]), args.Error(1)
}

func (m *mockLessonRepository) CountByTeacher(ctx context.Context, teacherUserID uuid.UUID) (int64, error) {
	args := m.Called(ctx, teacherUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLessonRepository) CountBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLessonRepository) Save(ctx context.Context, lesson *academics.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *mockLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStudentRepository struct {
	mock.Mock
}

func (m *mockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Student), args.Error(1)
}

func (m *mockStudentRepository) FindByRegistrationNumber(ctx context.Context, schoolID uuid.UUID, regNumber string) (*people.Student, error) {
	args := m.Called(ctx, schoolID, regNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Student), args.Error(1)
}

func (m *mockStudentRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[people.Student], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[people.Student]), args.Error(1)
}

func (m *mockStudentRepository) FindByClass(ctx context.Context, classID uuid.UUID, filter shared.Filter) (*shared.Paginated[people.Student], error) {
	args := m.Called(ctx, classID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[people.Student]), args.Error(1)
}

func (m *mockStudentRepository) ExistsByRegistrationNumber(ctx context.Context, schoolID uuid.UUID, regNumber string) (bool, error) {
	args := m.Called(ctx, schoolID, regNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockStudentRepository) CountActiveByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStudentRepository) Save(ctx context.Context, student *people.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *mockStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockGuardianRepository struct {
	mock.Mock
}

func (m *mockGuardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*people.Guardian, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Guardian), args.Error(1)
}

func (m *mockGuardianRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*people.Guardian, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Guardian), args.Error(1)
}

func (m *mockGuardianRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[people.Guardian], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[people.Guardian]), args.Error(1)
}

func (m *mockGuardianRepository) Save(ctx context.Context, guardian *people.Guardian) error {
	args := m.Called(ctx, guardian)
	return args.Error(0)
}

func (m *mockGuardianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGuardianRepository) FindLinksByGuardian(ctx context.Context, guardianID uuid.UUID) ([]people.GuardianLink, error) {
	args := m.Called(ctx, guardianID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.GuardianLink), args.Error(1)
}

func (m *mockGuardianRepository) FindLinksByStudent(ctx context.Context, studentID uuid.UUID) ([]people.GuardianLink, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.GuardianLink), args.Error(1)
}

func (m *mockGuardianRepository) LinkExists(ctx context.Context, guardianID, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, guardianID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuardianRepository) SaveLink(ctx context.Context, link *people.GuardianLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockGuardianRepository) DeleteLink(ctx context.Context, guardianID, studentID uuid.UUID) error {
	args := m.Called(ctx, guardianID, studentID)
	return args.Error(0)
}

func (m *mockGuardianRepository) GuardsStudent(ctx context.Context, userID, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, studentID)
	return args.Bool(0), args.Error(1)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Notification), args.Error(1)
}

func (m *mockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[engagement.Notification], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[engagement.Notification]), args.Error(1)
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) Save(ctx context.Context, notification *engagement.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepository) SaveBatch(ctx context.Context, notifications []*engagement.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type attendanceFixture struct {
	schoolID      uuid.UUID
	teacherID     uuid.UUID
	lesson        *academics.Lesson
	student       *people.Student
	attendances   *mockAttendanceRepository
	lessons       *mockLessonRepository
	students      *mockStudentRepository
	guardians     *mockGuardianRepository
	notifications *mockNotificationRepository
	service       *AttendanceService
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	schoolID := uuid.New()
	teacherID := uuid.New()
	classID := uuid.New()

	lesson, err := academics.NewLesson(schoolID, classID, uuid.New(), teacherID)
	require.NoError(t, err)

	student, err := people.NewStudent(schoolID, classID, "STU-010", "Ngozi", "Ade",
		people.GenderFemale, time.Date(2012, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	attendances := new(mockAttendanceRepository)
	lessons := new(mockLessonRepository)
	students := new(mockStudentRepository)
	guardians := new(mockGuardianRepository)
	notifications := new(mockNotificationRepository)

	return &attendanceFixture{
		schoolID:      schoolID,
		teacherID:     teacherID,
		lesson:        lesson,
		student:       student,
		attendances:   attendances,
		lessons:       lessons,
		students:      students,
		guardians:     guardians,
		notifications: notifications,
		service: NewAttendanceService(attendances, lessons, students,
			guardians, notifications, zap.NewNop()),
	}
}

func TestAttendanceService_Mark(t *testing.T) {
	date := time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)

	t.Run("teacher marks their own lesson", func(t *testing.T) {
		f := newAttendanceFixture(t)
		actor := identity.Actor{UserID: f.teacherID, Role: identity.RoleTeacher, SchoolID: f.schoolID}

		f.lessons.On("FindByID", mock.Anything, f.lesson.ID).Return(f.lesson, nil)
		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.attendances.On("FindByKey", mock.Anything, f.student.ID, f.lesson.ID, date).
			Return(nil, shared.ErrNotFound)
		f.attendances.On("Save", mock.Anything, mock.AnythingOfType("*assessment.AttendanceRecord")).Return(nil)

		resp, err := f.service.Mark(context.Background(), actor, MarkAttendanceInput{
			StudentID: f.student.ID,
			LessonID:  f.lesson.ID,
			Date:      date,
			Status:    "PRESENT",
		})

		require.NoError(t, err)
		assert.Equal(t, "PRESENT", resp.Status)
		assert.Equal(t, "2026-03-09", resp.Date)
		assert.Equal(t, f.teacherID, resp.MarkedByID)
		f.attendances.AssertExpectations(t)
	})

	t.Run("teacher cannot mark another teacher's lesson", func(t *testing.T) {
		f := newAttendanceFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleTeacher, SchoolID: f.schoolID}

		f.lessons.On("FindByID", mock.Anything, f.lesson.ID).Return(f.lesson, nil)

		_, err := f.service.Mark(context.Background(), actor, MarkAttendanceInput{
			StudentID: f.student.ID,
			LessonID:  f.lesson.ID,
			Date:      date,
			Status:    "PRESENT",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrForbidden.Code, derr.Code)
		f.attendances.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("re-marking overwrites the earlier status", func(t *testing.T) {
		f := newAttendanceFixture(t)
		actor := identity.Actor{UserID: f.teacherID, Role: identity.RoleTeacher, SchoolID: f.schoolID}

		existing, err := assessment.NewAttendanceRecord(f.schoolID, f.student.ID, f.lesson.ID,
			f.teacherID, date, assessment.AttendanceAbsent, "")
		require.NoError(t, err)

		f.lessons.On("FindByID", mock.Anything, f.lesson.ID).Return(f.lesson, nil)
		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.attendances.On("FindByKey", mock.Anything, f.student.ID, f.lesson.ID, date).Return(existing, nil)
		f.attendances.On("Save", mock.Anything, existing).Return(nil)

		resp, err := f.service.Mark(context.Background(), actor, MarkAttendanceInput{
			StudentID: f.student.ID,
			LessonID:  f.lesson.ID,
			Date:      date,
			Status:    "LATE",
			Note:      "arrived 09:20",
		})

		require.NoError(t, err)
		assert.Equal(t, "LATE", resp.Status)
		assert.Equal(t, existing.ID, resp.ID)
	})

	t.Run("rejects a student from another class", func(t *testing.T) {
		f := newAttendanceFixture(t)
		actor := identity.Actor{UserID: f.teacherID, Role: identity.RoleTeacher, SchoolID: f.schoolID}

		stranger, err := people.NewStudent(f.schoolID, uuid.New(), "STU-099", "Bola", "Ayo",
			people.GenderMale, time.Date(2011, 6, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		f.lessons.On("FindByID", mock.Anything, f.lesson.ID).Return(f.lesson, nil)
		f.students.On("FindByID", mock.Anything, stranger.ID).Return(stranger, nil)

		_, err = f.service.Mark(context.Background(), actor, MarkAttendanceInput{
			StudentID: stranger.ID,
			LessonID:  f.lesson.ID,
			Date:      date,
			Status:    "PRESENT",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrInvalidInput.Code, derr.Code)
	})

	t.Run("school admin can mark any lesson", func(t *testing.T) {
		f := newAttendanceFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleSchoolAdmin, SchoolID: f.schoolID}

		f.lessons.On("FindByID", mock.Anything, f.lesson.ID).Return(f.lesson, nil)
		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.attendances.On("FindByKey", mock.Anything, f.student.ID, f.lesson.ID, date).
			Return(nil, shared.ErrNotFound)
		f.attendances.On("Save", mock.Anything, mock.AnythingOfType("*assessment.AttendanceRecord")).Return(nil)
		f.guardians.On("FindLinksByStudent", mock.Anything, f.student.ID).
			Return([]people.GuardianLink{}, nil)

		resp, err := f.service.Mark(context.Background(), actor, MarkAttendanceInput{
			StudentID: f.student.ID,
			LessonID:  f.lesson.ID,
			Date:      date,
			Status:    "ABSENT",
		})

		require.NoError(t, err)
		assert.Equal(t, "ABSENT", resp.Status)
	})

	t.Run("absence notifies the guardians", func(t *testing.T) {
		f := newAttendanceFixture(t)
		actor := identity.Actor{UserID: f.teacherID, Role: identity.RoleTeacher, SchoolID: f.schoolID}

		guardian, err := people.NewGuardian(f.schoolID, uuid.New(), "", "")
		require.NoError(t, err)
		link, err := people.NewGuardianLink(guardian.ID, f.student.ID, people.RelationshipMother, true)
		require.NoError(t, err)

		f.lessons.On("FindByID", mock.Anything, f.lesson.ID).Return(f.lesson, nil)
		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.attendances.On("FindByKey", mock.Anything, f.student.ID, f.lesson.ID, date).
			Return(nil, shared.ErrNotFound)
		f.attendances.On("Save", mock.Anything, mock.AnythingOfType("*assessment.AttendanceRecord")).Return(nil)
		f.guardians.On("FindLinksByStudent", mock.Anything, f.student.ID).
			Return([]people.GuardianLink{*link}, nil)
		f.guardians.On("FindByID", mock.Anything, guardian.ID).Return(guardian, nil)
		f.notifications.On("Save", mock.Anything, mock.MatchedBy(func(n *engagement.Notification) bool {
			return n.UserID == guardian.UserID && n.Title == "Absence recorded"
		})).Return(nil)

		_, err = f.service.Mark(context.Background(), actor, MarkAttendanceInput{
			StudentID: f.student.ID,
			LessonID:  f.lesson.ID,
			Date:      date,
			Status:    "ABSENT",
		})

		require.NoError(t, err)
		f.notifications.AssertExpectations(t)
	})
}

func TestAttendanceService_ListByStudent(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("parent cannot read an unrelated student's records", func(t *testing.T) {
		f := newAttendanceFixture(t)
		parent := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}

		f.guardians.On("GuardsStudent", mock.Anything, parent.UserID, f.student.ID).Return(false, nil)

		_, err := f.service.ListByStudent(context.Background(), parent, f.student.ID,
			date.AddDate(0, -1, 0), date)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.attendances.AssertNotCalled(t, "FindByStudent",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("parent reads their own ward's records", func(t *testing.T) {
		f := newAttendanceFixture(t)
		parent := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		from, to := date.AddDate(0, -1, 0), date

		record, err := assessment.NewAttendanceRecord(f.schoolID, f.student.ID, f.lesson.ID,
			f.teacherID, date, assessment.AttendancePresent, "")
		require.NoError(t, err)

		f.guardians.On("GuardsStudent", mock.Anything, parent.UserID, f.student.ID).Return(true, nil)
		f.attendances.On("FindByStudent", mock.Anything, f.student.ID, from, to).
			Return([]assessment.AttendanceRecord{*record}, nil)

		records, err := f.service.ListByStudent(context.Background(), parent, f.student.ID, from, to)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, record.ID, records[0].ID)
	})

	t.Run("staff read skips the guardianship check", func(t *testing.T) {
		f := newAttendanceFixture(t)
		staff := identity.Actor{UserID: uuid.New(), Role: identity.RoleSchoolAdmin, SchoolID: f.schoolID}
		from, to := date.AddDate(0, -1, 0), date

		f.attendances.On("FindByStudent", mock.Anything, f.student.ID, from, to).
			Return([]assessment.AttendanceRecord{}, nil)

		_, err := f.service.ListByStudent(context.Background(), staff, f.student.ID, from, to)

		require.NoError(t, err)
		f.guardians.AssertNotCalled(t, "GuardsStudent", mock.Anything, mock.Anything, mock.Anything)
	})
}
