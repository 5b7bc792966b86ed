package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormTimetableRepository implements academics.TimetableRepository using GORM
type GormTimetableRepository struct {
	db *gorm.DB
}

// NewGormTimetableRepository creates a new GormTimetableRepository
func NewGormTimetableRepository(db *gorm.DB) *GormTimetableRepository {
	return &GormTimetableRepository{db: db}
}

// FindByID finds a timetable by id
func (r *GormTimetableRepository) FindByID(ctx context.Context, id uuid.UUID) (*academics.Timetable, error) {
	var timetable academics.Timetable
	if err := tenantScoped(ctx, r.db).First(&timetable, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &timetable, nil
}

// FindByClass lists a class's timetables, newest first
func (r *GormTimetableRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academics.Timetable, error) {
	var timetables []academics.Timetable
	if err := dbFromContext(ctx, r.db).
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&timetables).Error; err != nil {
		return nil, err
	}
	return timetables, nil
}

// FindActiveByClass returns the class's active timetable, if any
func (r *GormTimetableRepository) FindActiveByClass(ctx context.Context, classID uuid.UUID) (*academics.Timetable, error) {
	var timetable academics.Timetable
	if err := dbFromContext(ctx, r.db).
		First(&timetable, "class_id = ? AND is_active = ?", classID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &timetable, nil
}

// Save creates or updates a timetable
func (r *GormTimetableRepository) Save(ctx context.Context, timetable *academics.Timetable) error {
	return dbFromContext(ctx, r.db).Save(timetable).Error
}

// Delete removes a timetable and its slots
func (r *GormTimetableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&academics.TimetableSlot{}, "timetable_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&academics.Timetable{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindSlotByID finds a timetable slot by id
func (r *GormTimetableRepository) FindSlotByID(ctx context.Context, id uuid.UUID) (*academics.TimetableSlot, error) {
	var slot academics.TimetableSlot
	if err := tenantScoped(ctx, r.db).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// FindSlots lists a timetable's slots in week order
func (r *GormTimetableRepository) FindSlots(ctx context.Context, timetableID uuid.UUID) ([]academics.TimetableSlot, error) {
	var slots []academics.TimetableSlot
	if err := dbFromContext(ctx, r.db).
		Where("timetable_id = ?", timetableID).
		Order("day ASC, period ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// CountSlots counts a timetable's slots
func (r *GormTimetableRepository) CountSlots(ctx context.Context, timetableID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.TimetableSlot{}).
		Where("timetable_id = ?", timetableID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountSlotsByRoom counts the slots scheduled into a room
func (r *GormTimetableRepository) CountSlotsByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.TimetableSlot{}).
		Where("room_id = ?", roomID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveSlot creates or updates a timetable slot
func (r *GormTimetableRepository) SaveSlot(ctx context.Context, slot *academics.TimetableSlot) error {
	return dbFromContext(ctx, r.db).Save(slot).Error
}

// DeleteSlot removes a timetable slot
func (r *GormTimetableRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&academics.TimetableSlot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SlotTakenAtPeriod reports whether another slot already occupies the
// day+period cell of the timetable
func (r *GormTimetableRepository) SlotTakenAtPeriod(ctx context.Context, timetableID uuid.UUID, day academics.DayOfWeek, period int, excludeSlotID uuid.UUID) (bool, error) {
	query := dbFromContext(ctx, r.db).Model(&academics.TimetableSlot{}).
		Where("timetable_id = ? AND day = ? AND period = ? AND is_active = ?", timetableID, day, period, true)
	if excludeSlotID != uuid.Nil {
		query = query.Where("id <> ?", excludeSlotID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveSlotsByTeacherAndDay returns the teacher's slots on the day across
// every active timetable in the school
func (r *GormTimetableRepository) ActiveSlotsByTeacherAndDay(ctx context.Context, schoolID, teacherUserID uuid.UUID, day academics.DayOfWeek) ([]academics.TimetableSlot, error) {
	var slots []academics.TimetableSlot
	if err := dbFromContext(ctx, r.db).Model(&academics.TimetableSlot{}).
		Joins("JOIN timetables ON timetables.id = timetable_slots.timetable_id AND timetables.is_active = ?", true).
		Joins("JOIN lessons ON lessons.id = timetable_slots.lesson_id").
		Where("timetable_slots.school_id = ? AND lessons.teacher_user_id = ? AND timetable_slots.day = ? AND timetable_slots.is_active = ?", schoolID, teacherUserID, day, true).
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// ActiveSlotsByRoomAndDay returns the room's slots on the day across every
// active timetable in the school
func (r *GormTimetableRepository) ActiveSlotsByRoomAndDay(ctx context.Context, schoolID, roomID uuid.UUID, day academics.DayOfWeek) ([]academics.TimetableSlot, error) {
	var slots []academics.TimetableSlot
	if err := dbFromContext(ctx, r.db).Model(&academics.TimetableSlot{}).
		Joins("JOIN timetables ON timetables.id = timetable_slots.timetable_id AND timetables.is_active = ?", true).
		Where("timetable_slots.school_id = ? AND timetable_slots.room_id = ? AND timetable_slots.day = ? AND timetable_slots.is_active = ?", schoolID, roomID, day, true).
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

var _ academics.TimetableRepository = (*GormTimetableRepository)(nil)
