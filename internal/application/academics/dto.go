package academics

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/academics"
)

// CreateClassInput carries a new class definition
type CreateClassInput struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	GradeLevel int    `json:"grade_level" binding:"required,min=1,max=12"`
	Capacity   int    `json:"capacity" binding:"required,min=1,max=500"`
}

// UpdateClassInput carries class changes
type UpdateClassInput struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	GradeLevel int    `json:"grade_level" binding:"required,min=1,max=12"`
	Capacity   int    `json:"capacity" binding:"required,min=1,max=500"`
}

// AssignSupervisorInput names the supervising teacher by user id
type AssignSupervisorInput struct {
	TeacherUserID uuid.UUID `json:"teacher_user_id" binding:"required"`
}

// ClassResponse is a class in API responses
type ClassResponse struct {
	ID           uuid.UUID  `json:"id"`
	SchoolID     uuid.UUID  `json:"school_id"`
	Name         string     `json:"name"`
	GradeLevel   int        `json:"grade_level"`
	Capacity     int        `json:"capacity"`
	Enrolled     int64      `json:"enrolled"`
	SupervisorID *uuid.UUID `json:"supervisor_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToClassResponse maps a class and its active enrolment count
func ToClassResponse(c *academics.Class, enrolled int64) ClassResponse {
	return ClassResponse{
		ID:           c.ID,
		SchoolID:     c.SchoolID,
		Name:         c.Name,
		GradeLevel:   c.GradeLevel,
		Capacity:     c.Capacity,
		Enrolled:     enrolled,
		SupervisorID: c.SupervisorID,
		CreatedAt:    c.CreatedAt,
	}
}

// CreateRoomInput carries a new room definition
type CreateRoomInput struct {
	Code     string `json:"code" binding:"required,min=1,max=50"`
	Name     string `json:"name" binding:"max=100"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// UpdateRoomInput carries room changes
type UpdateRoomInput struct {
	Name     string `json:"name" binding:"max=100"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// RoomResponse is a room in API responses
type RoomResponse struct {
	ID        uuid.UUID `json:"id"`
	SchoolID  uuid.UUID `json:"school_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// ToRoomResponse maps a domain room to its API shape
func ToRoomResponse(r *academics.Room) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		SchoolID:  r.SchoolID,
		Code:      r.Code,
		Name:      r.Name,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
	}
}

// CreateCurriculumInput carries a new curriculum definition
type CreateCurriculumInput struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	GradeLevel   int    `json:"grade_level" binding:"required,min=1,max=12"`
	AcademicYear string `json:"academic_year" binding:"required,min=4,max=20"`
}

// UpdateCurriculumInput carries curriculum changes
type UpdateCurriculumInput struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	AcademicYear string `json:"academic_year" binding:"max=20"`
}

// AddSubjectInput carries a new subject under a curriculum
type AddSubjectInput struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// SubjectResponse is a subject in API responses
type SubjectResponse struct {
	ID           uuid.UUID `json:"id"`
	CurriculumID uuid.UUID `json:"curriculum_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
}

// ToSubjectResponse maps a domain subject to its API shape
func ToSubjectResponse(s *academics.Subject) SubjectResponse {
	return SubjectResponse{
		ID:           s.ID,
		CurriculumID: s.CurriculumID,
		Code:         s.Code,
		Name:         s.Name,
	}
}

// CurriculumResponse is a curriculum with its subjects
type CurriculumResponse struct {
	ID           uuid.UUID         `json:"id"`
	SchoolID     uuid.UUID         `json:"school_id"`
	Name         string            `json:"name"`
	GradeLevel   int               `json:"grade_level"`
	AcademicYear string            `json:"academic_year"`
	Subjects     []SubjectResponse `json:"subjects,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ToCurriculumResponse maps a domain curriculum to its API shape
func ToCurriculumResponse(c *academics.Curriculum, subjects []academics.Subject) CurriculumResponse {
	resp := CurriculumResponse{
		ID:           c.ID,
		SchoolID:     c.SchoolID,
		Name:         c.Name,
		GradeLevel:   c.GradeLevel,
		AcademicYear: c.AcademicYear,
		CreatedAt:    c.CreatedAt,
	}
	for i := range subjects {
		resp.Subjects = append(resp.Subjects, ToSubjectResponse(&subjects[i]))
	}
	return resp
}

// CreateLessonInput binds a subject, class and teacher together
type CreateLessonInput struct {
	ClassID       uuid.UUID `json:"class_id" binding:"required"`
	SubjectID     uuid.UUID `json:"subject_id" binding:"required"`
	TeacherUserID uuid.UUID `json:"teacher_user_id" binding:"required"`
}

// ReassignLessonInput carries the replacement teacher
type ReassignLessonInput struct {
	TeacherUserID uuid.UUID `json:"teacher_user_id" binding:"required"`
}

// LessonResponse is a lesson in API responses
type LessonResponse struct {
	ID            uuid.UUID `json:"id"`
	SchoolID      uuid.UUID `json:"school_id"`
	ClassID       uuid.UUID `json:"class_id"`
	SubjectID     uuid.UUID `json:"subject_id"`
	TeacherUserID uuid.UUID `json:"teacher_user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToLessonResponse maps a domain lesson to its API shape
func ToLessonResponse(l *academics.Lesson) LessonResponse {
	return LessonResponse{
		ID:            l.ID,
		SchoolID:      l.SchoolID,
		ClassID:       l.ClassID,
		SubjectID:     l.SubjectID,
		TeacherUserID: l.TeacherUserID,
		CreatedAt:     l.CreatedAt,
	}
}

// CreateTimetableInput carries a new timetable for a class
type CreateTimetableInput struct {
	ClassID       uuid.UUID  `json:"class_id" binding:"required"`
	Name          string     `json:"name" binding:"required,min=1,max=200"`
	AcademicYear  string     `json:"academic_year" binding:"max=20"`
	Term          string     `json:"term" binding:"max=20"`
	EffectiveFrom *time.Time `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
}

// CreateSlotInput places a lesson into a timetable. Times are strict
// zero-padded "HH:MM" strings.
type CreateSlotInput struct {
	LessonID  uuid.UUID  `json:"lesson_id" binding:"required"`
	Day       int        `json:"day" binding:"required,min=1,max=7"`
	Period    int        `json:"period" binding:"required,min=1"`
	StartTime string     `json:"start_time" binding:"required"`
	EndTime   string     `json:"end_time" binding:"required"`
	RoomID    *uuid.UUID `json:"room_id"`
}

// RescheduleSlotInput moves an existing slot
type RescheduleSlotInput struct {
	Day       int        `json:"day" binding:"required,min=1,max=7"`
	Period    int        `json:"period" binding:"required,min=1"`
	StartTime string     `json:"start_time" binding:"required"`
	EndTime   string     `json:"end_time" binding:"required"`
	RoomID    *uuid.UUID `json:"room_id"`
}

// SlotResponse is a timetable slot in API responses
type SlotResponse struct {
	ID          uuid.UUID  `json:"id"`
	TimetableID uuid.UUID  `json:"timetable_id"`
	LessonID    uuid.UUID  `json:"lesson_id"`
	Day         int        `json:"day"`
	DayName     string     `json:"day_name"`
	Period      int        `json:"period"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// ToSlotResponse maps a domain slot to its API shape
func ToSlotResponse(s *academics.TimetableSlot) SlotResponse {
	return SlotResponse{
		ID:          s.ID,
		TimetableID: s.TimetableID,
		LessonID:    s.LessonID,
		Day:         int(s.Day),
		DayName:     s.Day.String(),
		Period:      s.Period,
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		RoomID:      s.RoomID,
		IsActive:    s.IsActive,
	}
}

// TimetableResponse is a timetable with its slots
type TimetableResponse struct {
	ID            uuid.UUID      `json:"id"`
	SchoolID      uuid.UUID      `json:"school_id"`
	ClassID       uuid.UUID      `json:"class_id"`
	Name          string         `json:"name"`
	AcademicYear  string         `json:"academic_year"`
	Term          string         `json:"term,omitempty"`
	EffectiveFrom *time.Time     `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time     `json:"effective_to,omitempty"`
	IsActive      bool           `json:"is_active"`
	Slots         []SlotResponse `json:"slots,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ToTimetableResponse maps a domain timetable to its API shape
func ToTimetableResponse(t *academics.Timetable, slots []academics.TimetableSlot) TimetableResponse {
	resp := TimetableResponse{
		ID:            t.ID,
		SchoolID:      t.SchoolID,
		ClassID:       t.ClassID,
		Name:          t.Name,
		AcademicYear:  t.AcademicYear,
		Term:          t.Term,
		EffectiveFrom: t.EffectiveFrom,
		EffectiveTo:   t.EffectiveTo,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
	}
	for i := range slots {
		resp.Slots = append(resp.Slots, ToSlotResponse(&slots[i]))
	}
	return resp
}
