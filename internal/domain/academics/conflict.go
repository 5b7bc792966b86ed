package academics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/domain/shared/valueobject"
)

// ConflictChecker runs the three independent scheduling checks before a
// slot is created or moved: the period ordinal must be free within the
// timetable, the teacher must be free across all active timetables, and
// the room, if requested, must be free across all active timetables.
type ConflictChecker struct {
	timetables TimetableRepository
	lessons    LessonRepository
}

// NewConflictChecker wires the checker against its repositories
func NewConflictChecker(timetables TimetableRepository, lessons LessonRepository) *ConflictChecker {
	return &ConflictChecker{timetables: timetables, lessons: lessons}
}

// Candidate describes the placement being validated. ExcludeSlotID carries
// the slot's own id on reschedule so it does not collide with itself.
type Candidate struct {
	SchoolID      uuid.UUID
	TimetableID   uuid.UUID
	LessonID      uuid.UUID
	Day           DayOfWeek
	Period        int
	StartTime     valueobject.TimeOfDay
	EndTime       valueobject.TimeOfDay
	RoomID        *uuid.UUID
	ExcludeSlotID uuid.UUID
}

// Check returns shared.ErrScheduleConflict-coded errors describing the
// first clash found, or nil when the placement is free.
func (c *ConflictChecker) Check(ctx context.Context, cand Candidate) error {
	taken, err := c.timetables.SlotTakenAtPeriod(ctx, cand.TimetableID, cand.Day, cand.Period, cand.ExcludeSlotID)
	if err != nil {
		return fmt.Errorf("check period slot: %w", err)
	}
	if taken {
		return shared.NewDomainError(shared.ErrScheduleConflict.Code,
			fmt.Sprintf("Period %d on %s is already scheduled in this timetable", cand.Period, cand.Day))
	}

	lesson, err := c.lessons.FindByID(ctx, cand.LessonID)
	if err != nil {
		return fmt.Errorf("load lesson: %w", err)
	}

	if err := c.checkTeacher(ctx, cand, lesson.TeacherUserID); err != nil {
		return err
	}
	return c.checkRoom(ctx, cand)
}

func (c *ConflictChecker) checkTeacher(ctx context.Context, cand Candidate, teacherUserID uuid.UUID) error {
	slots, err := c.timetables.ActiveSlotsByTeacherAndDay(ctx, cand.SchoolID, teacherUserID, cand.Day)
	if err != nil {
		return fmt.Errorf("check teacher availability: %w", err)
	}
	for i := range slots {
		if slots[i].ID == cand.ExcludeSlotID {
			continue
		}
		if valueobject.Overlaps(cand.StartTime, cand.EndTime, slots[i].StartTime, slots[i].EndTime) {
			return shared.NewDomainError(shared.ErrScheduleConflict.Code,
				fmt.Sprintf("Teacher is already scheduled %s-%s on %s",
					slots[i].StartTime, slots[i].EndTime, cand.Day))
		}
	}
	return nil
}

func (c *ConflictChecker) checkRoom(ctx context.Context, cand Candidate) error {
	if cand.RoomID == nil {
		return nil
	}
	slots, err := c.timetables.ActiveSlotsByRoomAndDay(ctx, cand.SchoolID, *cand.RoomID, cand.Day)
	if err != nil {
		return fmt.Errorf("check room availability: %w", err)
	}
	for i := range slots {
		if slots[i].ID == cand.ExcludeSlotID {
			continue
		}
		if valueobject.Overlaps(cand.StartTime, cand.EndTime, slots[i].StartTime, slots[i].EndTime) {
			return shared.NewDomainError(shared.ErrScheduleConflict.Code,
				fmt.Sprintf("Room is already booked %s-%s on %s",
					slots[i].StartTime, slots[i].EndTime, cand.Day))
		}
	}
	return nil
}
