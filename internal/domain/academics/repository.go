package academics

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// ClassRepository persists classes
type ClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Class, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Class], error)
	ExistsByNameAndGrade(ctx context.Context, schoolID uuid.UUID, name string, gradeLevel int) (bool, error)
	Save(ctx context.Context, class *Class) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoomRepository persists rooms
type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Room], error)
	ExistsByCode(ctx context.Context, schoolID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CurriculumRepository persists curricula and their subjects
type CurriculumRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Curriculum, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Curriculum], error)
	Save(ctx context.Context, curriculum *Curriculum) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindSubjectByID(ctx context.Context, id uuid.UUID) (*Subject, error)
	FindSubjects(ctx context.Context, curriculumID uuid.UUID) ([]Subject, error)
	SubjectExistsByCode(ctx context.Context, curriculumID uuid.UUID, code string) (bool, error)
	SaveSubject(ctx context.Context, subject *Subject) error
	DeleteSubject(ctx context.Context, id uuid.UUID) error
}

// LessonRepository persists lessons
type LessonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lesson, error)
	FindByClass(ctx context.Context, classID uuid.UUID) ([]Lesson, error)
	FindByTeacher(ctx context.Context, teacherUserID uuid.UUID, filter shared.Filter) (*shared.Paginated[Lesson], error)
	CountByTeacher(ctx context.Context, teacherUserID uuid.UUID) (int64, error)
	CountBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error)
	Save(ctx context.Context, lesson *Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TimetableRepository persists timetables and their slots
type TimetableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Timetable, error)
	FindByClass(ctx context.Context, classID uuid.UUID) ([]Timetable, error)
	FindActiveByClass(ctx context.Context, classID uuid.UUID) (*Timetable, error)
	Save(ctx context.Context, timetable *Timetable) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindSlotByID(ctx context.Context, id uuid.UUID) (*TimetableSlot, error)
	FindSlots(ctx context.Context, timetableID uuid.UUID) ([]TimetableSlot, error)
	CountSlots(ctx context.Context, timetableID uuid.UUID) (int64, error)
	CountSlotsByRoom(ctx context.Context, roomID uuid.UUID) (int64, error)
	SaveSlot(ctx context.Context, slot *TimetableSlot) error
	DeleteSlot(ctx context.Context, id uuid.UUID) error

	// SlotTakenAtPeriod reports whether a slot other than excludeSlotID
	// already occupies day+period within the timetable.
	SlotTakenAtPeriod(ctx context.Context, timetableID uuid.UUID, day DayOfWeek, period int, excludeSlotID uuid.UUID) (bool, error)

	// ActiveSlotsByTeacherAndDay returns the teacher's slots on the given
	// day across all active timetables in the school.
	ActiveSlotsByTeacherAndDay(ctx context.Context, schoolID, teacherUserID uuid.UUID, day DayOfWeek) ([]TimetableSlot, error)

	// ActiveSlotsByRoomAndDay returns the room's slots on the given day
	// across all active timetables in the school.
	ActiveSlotsByRoomAndDay(ctx context.Context, schoolID, roomID uuid.UUID, day DayOfWeek) ([]TimetableSlot, error)
}
