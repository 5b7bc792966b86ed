package academics

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/domain/shared/valueobject"
)

// DayOfWeek numbers the teaching days Monday=1 through Sunday=7
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ValidDayOfWeek reports whether d is within Monday..Sunday
func ValidDayOfWeek(d DayOfWeek) bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	names := [...]string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}
	if !ValidDayOfWeek(d) {
		return fmt.Sprintf("DAY(%d)", int(d))
	}
	return names[d-1]
}

// Timetable is the weekly schedule for one class. Only one timetable per
// class may be active at a time.
type Timetable struct {
	shared.SchoolAggregateRoot
	ClassID       uuid.UUID
	Name          string
	AcademicYear  string
	Term          string
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	IsActive      bool
}

// TableName maps the aggregate to its table
func (Timetable) TableName() string { return "timetables" }

// NewTimetable creates an inactive timetable for a class. Term and the
// effective date range are optional; when both range ends are given the
// start must precede the end.
func NewTimetable(schoolID, classID uuid.UUID, name, academicYear, term string, effectiveFrom, effectiveTo *time.Time) (*Timetable, error) {
	if classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Timetable requires a class")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Timetable name cannot be empty")
	}
	if effectiveFrom != nil && effectiveTo != nil && !effectiveFrom.Before(*effectiveTo) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Timetable effective start must be before its end")
	}
	return &Timetable{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		ClassID:             classID,
		Name:                name,
		AcademicYear:        academicYear,
		Term:                term,
		EffectiveFrom:       effectiveFrom,
		EffectiveTo:         effectiveTo,
	}, nil
}

// Activate marks the timetable active. The caller deactivates any sibling
// timetable for the same class in the same transaction.
func (t *Timetable) Activate() {
	t.IsActive = true
	t.Touch()
	t.IncrementVersion()
}

// Deactivate marks the timetable inactive
func (t *Timetable) Deactivate() {
	t.IsActive = false
	t.Touch()
	t.IncrementVersion()
}

// TimetableSlot schedules a lesson into a day, period ordinal and time
// window, optionally in a room.
type TimetableSlot struct {
	shared.SchoolAggregateRoot
	TimetableID uuid.UUID
	LessonID    uuid.UUID
	Day         DayOfWeek
	Period      int
	StartTime   valueobject.TimeOfDay
	EndTime     valueobject.TimeOfDay
	RoomID      *uuid.UUID
	IsActive    bool
}

// TableName maps the entity to its table
func (TimetableSlot) TableName() string { return "timetable_slots" }

// NewTimetableSlot creates a slot after validating its window
func NewTimetableSlot(schoolID, timetableID, lessonID uuid.UUID, day DayOfWeek, period int, start, end valueobject.TimeOfDay, roomID *uuid.UUID) (*TimetableSlot, error) {
	if timetableID == uuid.Nil || lessonID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Slot requires a timetable and lesson")
	}
	if !ValidDayOfWeek(day) {
		return nil, shared.NewDomainError("INVALID_DAY", "Day of week must be between 1 (Monday) and 7 (Sunday)")
	}
	if period < 1 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be a positive ordinal")
	}
	if start >= end {
		return nil, shared.NewDomainError("INVALID_TIME_WINDOW", "Slot start time must be before end time")
	}
	return &TimetableSlot{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		TimetableID:         timetableID,
		LessonID:            lessonID,
		Day:                 day,
		Period:              period,
		StartTime:           start,
		EndTime:             end,
		RoomID:              roomID,
		IsActive:            true,
	}, nil
}

// Disable takes the slot out of the schedule without deleting it. Disabled
// slots are invisible to the conflict checks.
func (s *TimetableSlot) Disable() {
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
}

// Enable puts the slot back into the schedule. The caller re-runs the
// conflict checks first; the window may have been claimed meanwhile.
func (s *TimetableSlot) Enable() {
	s.IsActive = true
	s.Touch()
	s.IncrementVersion()
}

// Reschedule moves the slot to a new day, period and window
func (s *TimetableSlot) Reschedule(day DayOfWeek, period int, start, end valueobject.TimeOfDay, roomID *uuid.UUID) error {
	if !ValidDayOfWeek(day) {
		return shared.NewDomainError("INVALID_DAY", "Day of week must be between 1 (Monday) and 7 (Sunday)")
	}
	if period < 1 {
		return shared.NewDomainError("INVALID_PERIOD", "Period must be a positive ordinal")
	}
	if start >= end {
		return shared.NewDomainError("INVALID_TIME_WINDOW", "Slot start time must be before end time")
	}
	s.Day = day
	s.Period = period
	s.StartTime = start
	s.EndTime = end
	s.RoomID = roomID
	s.Touch()
	s.IncrementVersion()
	return nil
}

// OverlapsWith reports whether the other slot sits on the same day and its
// time window intersects this one. Windows are half-open, so back-to-back
// slots do not overlap.
func (s *TimetableSlot) OverlapsWith(other *TimetableSlot) bool {
	if s.Day != other.Day {
		return false
	}
	return valueobject.Overlaps(s.StartTime, s.EndTime, other.StartTime, other.EndTime)
}

// SharesRoomWith reports whether both slots claim the same room
func (s *TimetableSlot) SharesRoomWith(other *TimetableSlot) bool {
	return s.RoomID != nil && other.RoomID != nil && *s.RoomID == *other.RoomID
}
