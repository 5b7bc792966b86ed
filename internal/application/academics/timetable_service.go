package academics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/domain/shared/valueobject"
)

// TimetableService manages weekly schedules and their slots. Every slot
// placement runs through the conflict checker before it is persisted.
type TimetableService struct {
	timetableRepo academics.TimetableRepository
	classRepo     academics.ClassRepository
	lessonRepo    academics.LessonRepository
	conflicts     *academics.ConflictChecker
	tx            shared.TxManager
	logger        *zap.Logger
}

// NewTimetableService creates a new TimetableService
func NewTimetableService(
	timetableRepo academics.TimetableRepository,
	classRepo academics.ClassRepository,
	lessonRepo academics.LessonRepository,
	conflicts *academics.ConflictChecker,
	tx shared.TxManager,
	logger *zap.Logger,
) *TimetableService {
	return &TimetableService{
		timetableRepo: timetableRepo,
		classRepo:     classRepo,
		lessonRepo:    lessonRepo,
		conflicts:     conflicts,
		tx:            tx,
		logger:        logger,
	}
}

// Create adds an inactive timetable for a class
func (s *TimetableService) Create(ctx context.Context, actor identity.Actor, input CreateTimetableInput) (*TimetableResponse, error) {
	class, err := s.classRepo.FindByID(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}

	timetable, err := academics.NewTimetable(class.SchoolID, class.ID, input.Name,
		input.AcademicYear, input.Term, input.EffectiveFrom, input.EffectiveTo)
	if err != nil {
		return nil, err
	}
	timetable.CreatedBy = &actor.UserID

	if err := s.timetableRepo.Save(ctx, timetable); err != nil {
		return nil, err
	}

	s.logger.Info("Timetable created",
		zap.String("timetable_id", timetable.ID.String()),
		zap.String("class_id", class.ID.String()))

	resp := ToTimetableResponse(timetable, nil)
	return &resp, nil
}

// Get returns one timetable with its slots
func (s *TimetableService) Get(ctx context.Context, id uuid.UUID) (*TimetableResponse, error) {
	timetable, err := s.timetableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, err := s.timetableRepo.FindSlots(ctx, timetable.ID)
	if err != nil {
		return nil, err
	}
	resp := ToTimetableResponse(timetable, slots)
	return &resp, nil
}

// ListByClass returns all timetables of a class, without slots
func (s *TimetableService) ListByClass(ctx context.Context, classID uuid.UUID) ([]TimetableResponse, error) {
	timetables, err := s.timetableRepo.FindByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	items := make([]TimetableResponse, 0, len(timetables))
	for i := range timetables {
		items = append(items, ToTimetableResponse(&timetables[i], nil))
	}
	return items, nil
}

// GetActiveByClass returns the class's active timetable with its slots
func (s *TimetableService) GetActiveByClass(ctx context.Context, classID uuid.UUID) (*TimetableResponse, error) {
	timetable, err := s.timetableRepo.FindActiveByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	slots, err := s.timetableRepo.FindSlots(ctx, timetable.ID)
	if err != nil {
		return nil, err
	}
	resp := ToTimetableResponse(timetable, slots)
	return &resp, nil
}

// Activate makes the timetable the class's active schedule, deactivating
// any sibling in the same transaction.
func (s *TimetableService) Activate(ctx context.Context, id uuid.UUID) (*TimetableResponse, error) {
	timetable, err := s.timetableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if timetable.IsActive {
		resp := ToTimetableResponse(timetable, nil)
		return &resp, nil
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		siblings, err := s.timetableRepo.FindByClass(ctx, timetable.ClassID)
		if err != nil {
			return err
		}
		for i := range siblings {
			if siblings[i].ID == timetable.ID || !siblings[i].IsActive {
				continue
			}
			siblings[i].Deactivate()
			if err := s.timetableRepo.Save(ctx, &siblings[i]); err != nil {
				return err
			}
		}
		timetable.Activate()
		if err := s.timetableRepo.Save(ctx, timetable); err != nil {
			return err
		}

		// Slots added while the timetable was inactive were invisible to
		// other timetables' conflict checks. Re-check every active slot
		// now that this one counts; any collision rolls the activation
		// back.
		slots, err := s.timetableRepo.FindSlots(ctx, timetable.ID)
		if err != nil {
			return err
		}
		for i := range slots {
			if !slots[i].IsActive {
				continue
			}
			err := s.conflicts.Check(ctx, academics.Candidate{
				SchoolID:      slots[i].SchoolID,
				TimetableID:   slots[i].TimetableID,
				LessonID:      slots[i].LessonID,
				Day:           slots[i].Day,
				Period:        slots[i].Period,
				StartTime:     slots[i].StartTime,
				EndTime:       slots[i].EndTime,
				RoomID:        slots[i].RoomID,
				ExcludeSlotID: slots[i].ID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Timetable activated",
		zap.String("timetable_id", timetable.ID.String()),
		zap.String("class_id", timetable.ClassID.String()))

	resp := ToTimetableResponse(timetable, nil)
	return &resp, nil
}

// Delete removes a timetable and its slots. The active timetable cannot be
// deleted; activate a replacement first.
func (s *TimetableService) Delete(ctx context.Context, id uuid.UUID) error {
	timetable, err := s.timetableRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if timetable.IsActive {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"The active timetable cannot be deleted")
	}
	slots, err := s.timetableRepo.CountSlots(ctx, timetable.ID)
	if err != nil {
		return err
	}
	if slots > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Timetable still has slots; remove them first")
	}
	if err := s.timetableRepo.Delete(ctx, timetable.ID); err != nil {
		return err
	}
	s.logger.Info("Timetable deleted", zap.String("timetable_id", timetable.ID.String()))
	return nil
}

// AddSlot schedules a lesson into the timetable after the placement passes
// the period, teacher and room conflict checks.
func (s *TimetableService) AddSlot(ctx context.Context, timetableID uuid.UUID, input CreateSlotInput) (*SlotResponse, error) {
	timetable, err := s.timetableRepo.FindByID(ctx, timetableID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.FindByID(ctx, input.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson.ClassID != timetable.ClassID {
		return nil, shared.NewDomainError("INVALID_REFERENCE",
			"Lesson belongs to a different class than this timetable")
	}

	start, end, err := parseWindow(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	err = s.conflicts.Check(ctx, academics.Candidate{
		SchoolID:    timetable.SchoolID,
		TimetableID: timetable.ID,
		LessonID:    lesson.ID,
		Day:         academics.DayOfWeek(input.Day),
		Period:      input.Period,
		StartTime:   start,
		EndTime:     end,
		RoomID:      input.RoomID,
	})
	if err != nil {
		return nil, err
	}

	slot, err := academics.NewTimetableSlot(timetable.SchoolID, timetable.ID, lesson.ID,
		academics.DayOfWeek(input.Day), input.Period, start, end, input.RoomID)
	if err != nil {
		return nil, err
	}
	if err := s.timetableRepo.SaveSlot(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Timetable slot added",
		zap.String("slot_id", slot.ID.String()),
		zap.String("timetable_id", timetable.ID.String()),
		zap.String("day", slot.Day.String()),
		zap.Int("period", slot.Period))

	resp := ToSlotResponse(slot)
	return &resp, nil
}

// RescheduleSlot moves a slot to a new day, period and window. The slot's
// own id is excluded from the conflict checks so it does not collide with
// itself.
func (s *TimetableService) RescheduleSlot(ctx context.Context, timetableID, slotID uuid.UUID, input RescheduleSlotInput) (*SlotResponse, error) {
	slot, err := s.timetableRepo.FindSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.TimetableID != timetableID {
		return nil, shared.ErrNotFound
	}

	start, end, err := parseWindow(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	err = s.conflicts.Check(ctx, academics.Candidate{
		SchoolID:      slot.SchoolID,
		TimetableID:   slot.TimetableID,
		LessonID:      slot.LessonID,
		Day:           academics.DayOfWeek(input.Day),
		Period:        input.Period,
		StartTime:     start,
		EndTime:       end,
		RoomID:        input.RoomID,
		ExcludeSlotID: slot.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := slot.Reschedule(academics.DayOfWeek(input.Day), input.Period, start, end, input.RoomID); err != nil {
		return nil, err
	}
	if err := s.timetableRepo.SaveSlot(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Timetable slot rescheduled",
		zap.String("slot_id", slot.ID.String()),
		zap.String("day", slot.Day.String()),
		zap.Int("period", slot.Period))

	resp := ToSlotResponse(slot)
	return &resp, nil
}

// DisableSlot takes the slot out of the schedule without deleting it,
// releasing its period cell and time window.
func (s *TimetableService) DisableSlot(ctx context.Context, timetableID, slotID uuid.UUID) (*SlotResponse, error) {
	slot, err := s.timetableRepo.FindSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.TimetableID != timetableID {
		return nil, shared.ErrNotFound
	}
	if slot.IsActive {
		slot.Disable()
		if err := s.timetableRepo.SaveSlot(ctx, slot); err != nil {
			return nil, err
		}
		s.logger.Info("Timetable slot disabled", zap.String("slot_id", slot.ID.String()))
	}
	resp := ToSlotResponse(slot)
	return &resp, nil
}

// EnableSlot puts a disabled slot back into the schedule. The placement is
// re-checked for conflicts because the window may have been claimed while
// the slot was out.
func (s *TimetableService) EnableSlot(ctx context.Context, timetableID, slotID uuid.UUID) (*SlotResponse, error) {
	slot, err := s.timetableRepo.FindSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.TimetableID != timetableID {
		return nil, shared.ErrNotFound
	}
	if slot.IsActive {
		resp := ToSlotResponse(slot)
		return &resp, nil
	}

	err = s.conflicts.Check(ctx, academics.Candidate{
		SchoolID:      slot.SchoolID,
		TimetableID:   slot.TimetableID,
		LessonID:      slot.LessonID,
		Day:           slot.Day,
		Period:        slot.Period,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		RoomID:        slot.RoomID,
		ExcludeSlotID: slot.ID,
	})
	if err != nil {
		return nil, err
	}

	slot.Enable()
	if err := s.timetableRepo.SaveSlot(ctx, slot); err != nil {
		return nil, err
	}
	s.logger.Info("Timetable slot enabled", zap.String("slot_id", slot.ID.String()))

	resp := ToSlotResponse(slot)
	return &resp, nil
}

// RemoveSlot deletes a slot from the timetable
func (s *TimetableService) RemoveSlot(ctx context.Context, timetableID, slotID uuid.UUID) error {
	slot, err := s.timetableRepo.FindSlotByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.TimetableID != timetableID {
		return shared.ErrNotFound
	}
	return s.timetableRepo.DeleteSlot(ctx, slot.ID)
}

// parseWindow parses both bounds of a slot window
func parseWindow(startStr, endStr string) (valueobject.TimeOfDay, valueobject.TimeOfDay, error) {
	start, err := valueobject.ParseTimeOfDay(startStr)
	if err != nil {
		return 0, 0, shared.NewDomainError("INVALID_TIME", err.Error())
	}
	end, err := valueobject.ParseTimeOfDay(endStr)
	if err != nil {
		return 0, 0, shared.NewDomainError("INVALID_TIME", err.Error())
	}
	return start, end, nil
}
