// Package people implements student enrolment, teacher onboarding and
// guardian management.
package people

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/storage"
)

// StudentService handles student enrolment and transfers
type StudentService struct {
	studentRepo people.StudentRepository
	classRepo   academics.ClassRepository
	storage     storage.ObjectStorage
	tx          shared.TxManager
	logger      *zap.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo people.StudentRepository,
	classRepo academics.ClassRepository,
	objectStorage storage.ObjectStorage,
	tx shared.TxManager,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		classRepo:   classRepo,
		storage:     objectStorage,
		tx:          tx,
		logger:      logger,
	}
}

// Enroll registers a student into a class with a free seat
func (s *StudentService) Enroll(ctx context.Context, actor identity.Actor, input CreateStudentInput) (*StudentResponse, error) {
	var student *people.Student
	// the seat count and the uniqueness check must hold at commit time,
	// so both run inside the same transaction as the insert
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		class, err := s.classRepo.FindByID(ctx, input.ClassID)
		if err != nil {
			return err
		}

		if err := s.ensureSeat(ctx, class); err != nil {
			return err
		}

		taken, err := s.studentRepo.ExistsByRegistrationNumber(ctx, class.SchoolID, input.RegistrationNumber)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code,
				"A student with this registration number already exists")
		}

		student, err = people.NewStudent(class.SchoolID, class.ID, input.RegistrationNumber,
			input.FirstName, input.LastName, people.Gender(input.Gender), input.DateOfBirth)
		if err != nil {
			return err
		}
		student.CreatedBy = &actor.UserID

		return s.studentRepo.Save(ctx, student)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student enrolled",
		zap.String("student_id", student.ID.String()),
		zap.String("class_id", student.ClassID.String()),
		zap.String("registration_number", student.RegistrationNumber))

	resp := ToStudentResponse(student)
	return &resp, nil
}

// Get returns one student
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// List returns students matching the filter
func (s *StudentService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[StudentResponse], error) {
	page, err := s.studentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapStudentPage(page), nil
}

// ListByClass returns a class's students
func (s *StudentService) ListByClass(ctx context.Context, classID uuid.UUID, filter shared.Filter) (*shared.Paginated[StudentResponse], error) {
	page, err := s.studentRepo.FindByClass(ctx, classID, filter)
	if err != nil {
		return nil, err
	}
	return mapStudentPage(page), nil
}

// Update applies profile changes to a student
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, input UpdateStudentInput) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := student.Update(input.FirstName, input.LastName, people.Gender(input.Gender), input.DateOfBirth); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// Transfer moves a student to another class with a free seat
func (s *StudentService) Transfer(ctx context.Context, id uuid.UUID, input TransferStudentInput) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.ClassID == input.ClassID {
		resp := ToStudentResponse(student)
		return &resp, nil
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		class, err := s.classRepo.FindByID(ctx, input.ClassID)
		if err != nil {
			return err
		}
		if class.SchoolID != student.SchoolID {
			return shared.ErrNotFound
		}
		if err := s.ensureSeat(ctx, class); err != nil {
			return err
		}

		if err := student.TransferTo(class.ID); err != nil {
			return err
		}
		return s.studentRepo.Save(ctx, student)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student transferred",
		zap.String("student_id", student.ID.String()),
		zap.String("class_id", student.ClassID.String()))

	resp := ToStudentResponse(student)
	return &resp, nil
}

// UploadPhoto stores the student's photo and records its URL
func (s *StudentService) UploadPhoto(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("schools/%s/students/%s/photo", student.SchoolID, student.ID)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	student.SetPhotoURL(url)
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// Withdraw deactivates a student without deleting the record
func (s *StudentService) Withdraw(ctx context.Context, id uuid.UUID) error {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	student.Deactivate()
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return err
	}
	s.logger.Info("Student withdrawn", zap.String("student_id", student.ID.String()))
	return nil
}

// ensureSeat rejects enrolment into a full class
func (s *StudentService) ensureSeat(ctx context.Context, class *academics.Class) error {
	enrolled, err := s.studentRepo.CountActiveByClass(ctx, class.ID)
	if err != nil {
		return err
	}
	if !class.HasSeatFor(enrolled) {
		return shared.ErrClassFull
	}
	return nil
}

func mapStudentPage(page *shared.Paginated[people.Student]) *shared.Paginated[StudentResponse] {
	items := make([]StudentResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToStudentResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result
}
