package academics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/internal/domain/shared/valueobject"
)

func slotAt(t *testing.T, day DayOfWeek, period int, start, end string) *TimetableSlot {
	t.Helper()
	s, err := NewTimetableSlot(
		uuid.New(), uuid.New(), uuid.New(),
		day, period,
		valueobject.MustTimeOfDay(start), valueobject.MustTimeOfDay(end),
		nil,
	)
	require.NoError(t, err)
	return s
}

func TestNewTimetableSlotValidation(t *testing.T) {
	schoolID, ttID, lessonID := uuid.New(), uuid.New(), uuid.New()
	nine := valueobject.MustTimeOfDay("09:00")
	ten := valueobject.MustTimeOfDay("10:00")

	_, err := NewTimetableSlot(schoolID, ttID, lessonID, DayOfWeek(0), 1, nine, ten, nil)
	assert.Error(t, err, "day below Monday")

	_, err = NewTimetableSlot(schoolID, ttID, lessonID, DayOfWeek(8), 1, nine, ten, nil)
	assert.Error(t, err, "day above Sunday")

	_, err = NewTimetableSlot(schoolID, ttID, lessonID, Monday, 0, nine, ten, nil)
	assert.Error(t, err, "period must be positive")

	_, err = NewTimetableSlot(schoolID, ttID, lessonID, Monday, 1, ten, nine, nil)
	assert.Error(t, err, "start must be before end")

	_, err = NewTimetableSlot(schoolID, ttID, lessonID, Monday, 1, nine, nine, nil)
	assert.Error(t, err, "zero-length window")

	_, err = NewTimetableSlot(schoolID, ttID, lessonID, Monday, 1, nine, ten, nil)
	assert.NoError(t, err)
}

func TestSlotOverlap(t *testing.T) {
	base := slotAt(t, Monday, 1, "09:00", "10:00")

	assert.True(t, base.OverlapsWith(slotAt(t, Monday, 2, "09:30", "10:30")), "partial overlap")
	assert.True(t, base.OverlapsWith(slotAt(t, Monday, 2, "08:00", "12:00")), "containment")
	assert.False(t, base.OverlapsWith(slotAt(t, Monday, 2, "10:00", "11:00")), "back-to-back slots do not overlap")
	assert.False(t, base.OverlapsWith(slotAt(t, Monday, 2, "08:00", "09:00")), "back-to-back before")
	assert.False(t, base.OverlapsWith(slotAt(t, Tuesday, 1, "09:00", "10:00")), "different day never overlaps")
}

func TestSlotSharesRoom(t *testing.T) {
	room := uuid.New()
	a := slotAt(t, Monday, 1, "09:00", "10:00")
	b := slotAt(t, Monday, 2, "10:00", "11:00")

	assert.False(t, a.SharesRoomWith(b), "no rooms assigned")

	a.RoomID = &room
	assert.False(t, a.SharesRoomWith(b), "only one room assigned")

	b.RoomID = &room
	assert.True(t, a.SharesRoomWith(b))
}

func TestDayOfWeekString(t *testing.T) {
	assert.Equal(t, "MONDAY", Monday.String())
	assert.Equal(t, "SUNDAY", Sunday.String())
	assert.Equal(t, "DAY(0)", DayOfWeek(0).String())
}

func TestNewTimetableRejectsInvertedDateRange(t *testing.T) {
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -3, 0)
	_, err := NewTimetable(uuid.New(), uuid.New(), "Term 1", "2025/2026", "T1", &from, &to)
	require.Error(t, err)

	_, err = NewTimetable(uuid.New(), uuid.New(), "Term 1", "2025/2026", "T1", &from, nil)
	require.NoError(t, err, "an open-ended range is allowed")
}

func TestTimetableActivation(t *testing.T) {
	tt, err := NewTimetable(uuid.New(), uuid.New(), "Term 1", "2025/2026", "", nil, nil)
	require.NoError(t, err)
	assert.False(t, tt.IsActive, "timetables start inactive")

	tt.Activate()
	assert.True(t, tt.IsActive)
	tt.Deactivate()
	assert.False(t, tt.IsActive)
}
