package academics

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/domain/shared/valueobject"
)

type mockTimetableRepo struct {
	mock.Mock
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id uuid.UUID) (*Timetable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Timetable), args.Error(1)
}

func (m *mockTimetableRepo) FindByClass(ctx context.Context, classID uuid.UUID) ([]Timetable, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]Timetable), args.Error(1)
}

func (m *mockTimetableRepo) FindActiveByClass(ctx context.Context, classID uuid.UUID) (*Timetable, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Timetable), args.Error(1)
}

func (m *mockTimetableRepo) Save(ctx context.Context, timetable *Timetable) error {
	return m.Called(ctx, timetable).Error(0)
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTimetableRepo) FindSlotByID(ctx context.Context, id uuid.UUID) (*TimetableSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TimetableSlot), args.Error(1)
}

func (m *mockTimetableRepo) FindSlots(ctx context.Context, timetableID uuid.UUID) ([]TimetableSlot, error) {
	args := m.Called(ctx, timetableID)
	return args.Get(0).([]TimetableSlot), args.Error(1)
}

func (m *mockTimetableRepo) CountSlots(ctx context.Context, timetableID uuid.UUID) (int64, error) {
	args := m.Called(ctx, timetableID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTimetableRepo) CountSlotsByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTimetableRepo) SaveSlot(ctx context.Context, slot *TimetableSlot) error {
	return m.Called(ctx, slot).Error(0)
}

func (m *mockTimetableRepo) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTimetableRepo) SlotTakenAtPeriod(ctx context.Context, timetableID uuid.UUID, day DayOfWeek, period int, excludeSlotID uuid.UUID) (bool, error) {
	args := m.Called(ctx, timetableID, day, period, excludeSlotID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTimetableRepo) ActiveSlotsByTeacherAndDay(ctx context.Context, schoolID, teacherUserID uuid.UUID, day DayOfWeek) ([]TimetableSlot, error) {
	args := m.Called(ctx, schoolID, teacherUserID, day)
	return args.Get(0).([]TimetableSlot), args.Error(1)
}

func (m *mockTimetableRepo) ActiveSlotsByRoomAndDay(ctx context.Context, schoolID, roomID uuid.UUID, day DayOfWeek) ([]TimetableSlot, error) {
	args := m.Called(ctx, schoolID, roomID, day)
	return args.Get(0).([]TimetableSlot), args.Error(1)
}

type mockLessonRepo struct {
	mock.Mock
}

func (m *mockLessonRepo) FindByID(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Lesson), args.Error(1)
}

func (m *mockLessonRepo) FindByClass(ctx context.Context, classID uuid.UUID) ([]Lesson, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]Lesson), args.Error(1)
}

func (m *mockLessonRepo) FindByTeacher(ctx context.Context, teacherUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[Lesson], error) {
	args := m.Called(ctx, teacherUserID, filter)
	return args.Get(0).(*shared.Paginated[Lesson]), args.Error(1)
}

func (m *mockLessonRepo) CountByTeacher(ctx context.Context, teacherUserID uuid.UUID) (int64, error) {
	args := m.Called(ctx, teacherUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLessonRepo) CountBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLessonRepo) Save(ctx context.Context, lesson *Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *mockLessonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func conflictFixture(t *testing.T) (*ConflictChecker, *mockTimetableRepo, *mockLessonRepo, Candidate, *Lesson) {
	t.Helper()
	timetables := new(mockTimetableRepo)
	lessons := new(mockLessonRepo)

	schoolID := uuid.New()
	lesson, err := NewLesson(schoolID, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	cand := Candidate{
		SchoolID:    schoolID,
		TimetableID: uuid.New(),
		LessonID:    lesson.ID,
		Day:         Monday,
		Period:      1,
		StartTime:   valueobject.MustTimeOfDay("09:00"),
		EndTime:     valueobject.MustTimeOfDay("10:00"),
	}
	return NewConflictChecker(timetables, lessons), timetables, lessons, cand, lesson
}

func TestConflictCheckerFreeSlot(t *testing.T) {
	checker, timetables, lessons, cand, lesson := conflictFixture(t)

	timetables.On("SlotTakenAtPeriod", mock.Anything, cand.TimetableID, Monday, 1, uuid.Nil).Return(false, nil)
	lessons.On("FindByID", mock.Anything, cand.LessonID).Return(lesson, nil)
	timetables.On("ActiveSlotsByTeacherAndDay", mock.Anything, cand.SchoolID, lesson.TeacherUserID, Monday).
		Return([]TimetableSlot{}, nil)

	require.NoError(t, checker.Check(context.Background(), cand))
	timetables.AssertExpectations(t)
}

func TestConflictCheckerPeriodTaken(t *testing.T) {
	checker, timetables, _, cand, _ := conflictFixture(t)

	timetables.On("SlotTakenAtPeriod", mock.Anything, cand.TimetableID, Monday, 1, uuid.Nil).Return(true, nil)

	err := checker.Check(context.Background(), cand)
	require.Error(t, err)
	var derr *shared.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, shared.ErrScheduleConflict.Code, derr.Code)
}

func TestConflictCheckerTeacherBusy(t *testing.T) {
	checker, timetables, lessons, cand, lesson := conflictFixture(t)

	busy := slotAt(t, Monday, 3, "09:30", "10:30")
	timetables.On("SlotTakenAtPeriod", mock.Anything, cand.TimetableID, Monday, 1, uuid.Nil).Return(false, nil)
	lessons.On("FindByID", mock.Anything, cand.LessonID).Return(lesson, nil)
	timetables.On("ActiveSlotsByTeacherAndDay", mock.Anything, cand.SchoolID, lesson.TeacherUserID, Monday).
		Return([]TimetableSlot{*busy}, nil)

	err := checker.Check(context.Background(), cand)
	require.Error(t, err)
	var derr *shared.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, shared.ErrScheduleConflict.Code, derr.Code)
}

func TestConflictCheckerTeacherAdjacentIsFree(t *testing.T) {
	checker, timetables, lessons, cand, lesson := conflictFixture(t)

	adjacent := slotAt(t, Monday, 3, "10:00", "11:00")
	timetables.On("SlotTakenAtPeriod", mock.Anything, cand.TimetableID, Monday, 1, uuid.Nil).Return(false, nil)
	lessons.On("FindByID", mock.Anything, cand.LessonID).Return(lesson, nil)
	timetables.On("ActiveSlotsByTeacherAndDay", mock.Anything, cand.SchoolID, lesson.TeacherUserID, Monday).
		Return([]TimetableSlot{*adjacent}, nil)

	assert.NoError(t, checker.Check(context.Background(), cand))
}

func TestConflictCheckerRoomBooked(t *testing.T) {
	checker, timetables, lessons, cand, lesson := conflictFixture(t)

	roomID := uuid.New()
	cand.RoomID = &roomID

	booked := slotAt(t, Monday, 4, "08:30", "09:30")
	timetables.On("SlotTakenAtPeriod", mock.Anything, cand.TimetableID, Monday, 1, uuid.Nil).Return(false, nil)
	lessons.On("FindByID", mock.Anything, cand.LessonID).Return(lesson, nil)
	timetables.On("ActiveSlotsByTeacherAndDay", mock.Anything, cand.SchoolID, lesson.TeacherUserID, Monday).
		Return([]TimetableSlot{}, nil)
	timetables.On("ActiveSlotsByRoomAndDay", mock.Anything, cand.SchoolID, roomID, Monday).
		Return([]TimetableSlot{*booked}, nil)

	err := checker.Check(context.Background(), cand)
	require.Error(t, err)
	var derr *shared.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, shared.ErrScheduleConflict.Code, derr.Code)
}

func TestConflictCheckerRescheduleExcludesSelf(t *testing.T) {
	checker, timetables, lessons, cand, lesson := conflictFixture(t)

	self := slotAt(t, Monday, 1, "09:00", "10:00")
	cand.ExcludeSlotID = self.ID

	timetables.On("SlotTakenAtPeriod", mock.Anything, cand.TimetableID, Monday, 1, self.ID).Return(false, nil)
	lessons.On("FindByID", mock.Anything, cand.LessonID).Return(lesson, nil)
	timetables.On("ActiveSlotsByTeacherAndDay", mock.Anything, cand.SchoolID, lesson.TeacherUserID, Monday).
		Return([]TimetableSlot{*self}, nil)

	assert.NoError(t, checker.Check(context.Background(), cand))
}
