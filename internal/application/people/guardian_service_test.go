package people

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
)

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

type guardianFixture struct {
	schoolID      uuid.UUID
	student       *people.Student
	guardians     *mockGuardianRepository
	students      *mockStudentRepository
	users         *mockUserRepository
	notifications *mockNotificationRepository
	service       *GuardianService
}

func newGuardianFixture(t *testing.T) *guardianFixture {
	t.Helper()
	schoolID := uuid.New()
	student, err := people.NewStudent(schoolID, uuid.New(), "STU-021", "Amara", "Eze",
		people.GenderFemale, time.Date(2013, 4, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f := &guardianFixture{
		schoolID:      schoolID,
		student:       student,
		guardians:     new(mockGuardianRepository),
		students:      new(mockStudentRepository),
		users:         new(mockUserRepository),
		notifications: new(mockNotificationRepository),
	}
	f.service = NewGuardianService(f.guardians, f.students, f.users,
		f.notifications, passthroughTx{}, zap.NewNop())
	return f
}

func TestGuardianService_Link(t *testing.T) {
	t.Run("reuses an existing parent's profile and notifies them", func(t *testing.T) {
		f := newGuardianFixture(t)
		parent, err := identity.NewUser("mum@example.test", "password123", "Ada Eze",
			identity.RoleParent, nil)
		require.NoError(t, err)
		guardian, err := people.NewGuardian(f.schoolID, parent.ID, "", "")
		require.NoError(t, err)

		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.users.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
		f.guardians.On("FindByUserID", mock.Anything, parent.ID).Return(guardian, nil)
		f.guardians.On("LinkExists", mock.Anything, guardian.ID, f.student.ID).Return(false, nil)
		f.guardians.On("SaveLink", mock.Anything, mock.AnythingOfType("*people.GuardianLink")).Return(nil)
		f.notifications.On("Save", mock.Anything, mock.MatchedBy(func(n *engagement.Notification) bool {
			return n.UserID == parent.ID && n.Title == "Student registered"
		})).Return(nil)

		resp, err := f.service.Link(context.Background(), f.student.ID, LinkGuardianInput{
			UserID:       &parent.ID,
			Relationship: "MOTHER",
			IsPrimary:    true,
		})

		require.NoError(t, err)
		assert.Equal(t, guardian.ID, resp.GuardianID)
		assert.Equal(t, "MOTHER", resp.Relationship)
		f.guardians.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.notifications.AssertExpectations(t)
	})

	t.Run("creates a parent account from the contact fields", func(t *testing.T) {
		f := newGuardianFixture(t)

		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.users.On("ExistsByEmail", mock.Anything, "dad@example.test").Return(false, nil)
		f.users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.RoleParent && u.SchoolID == nil
		})).Return(nil)
		f.guardians.On("Save", mock.Anything, mock.AnythingOfType("*people.Guardian")).Return(nil)
		f.guardians.On("LinkExists", mock.Anything, mock.Anything, f.student.ID).Return(false, nil)
		f.guardians.On("SaveLink", mock.Anything, mock.AnythingOfType("*people.GuardianLink")).Return(nil)
		f.notifications.On("Save", mock.Anything, mock.AnythingOfType("*engagement.Notification")).Return(nil)

		resp, err := f.service.Link(context.Background(), f.student.ID, LinkGuardianInput{
			Email:        "dad@example.test",
			Password:     "password123",
			FullName:     "Obi Eze",
			Relationship: "FATHER",
		})

		require.NoError(t, err)
		assert.Equal(t, f.student.ID, resp.StudentID)
		f.users.AssertExpectations(t)
		f.guardians.AssertExpectations(t)
	})

	t.Run("rejects a non-parent account", func(t *testing.T) {
		f := newGuardianFixture(t)
		teacher, err := identity.NewUser("t@example.test", "password123", "Tolu A",
			identity.RoleTeacher, &f.schoolID)
		require.NoError(t, err)

		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.users.On("FindByID", mock.Anything, teacher.ID).Return(teacher, nil)

		_, err = f.service.Link(context.Background(), f.student.ID, LinkGuardianInput{
			UserID:       &teacher.ID,
			Relationship: "GUARDIAN",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrInvalidInput.Code, derr.Code)
		f.guardians.AssertNotCalled(t, "SaveLink", mock.Anything, mock.Anything)
	})

	t.Run("rejects a missing user id without account fields", func(t *testing.T) {
		f := newGuardianFixture(t)

		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)

		_, err := f.service.Link(context.Background(), f.student.ID, LinkGuardianInput{
			Relationship: "MOTHER",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrInvalidInput.Code, derr.Code)
	})

	t.Run("rejects a duplicate link", func(t *testing.T) {
		f := newGuardianFixture(t)
		parent, err := identity.NewUser("mum@example.test", "password123", "Ada Eze",
			identity.RoleParent, nil)
		require.NoError(t, err)
		guardian, err := people.NewGuardian(f.schoolID, parent.ID, "", "")
		require.NoError(t, err)

		f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)
		f.users.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
		f.guardians.On("FindByUserID", mock.Anything, parent.ID).Return(guardian, nil)
		f.guardians.On("LinkExists", mock.Anything, guardian.ID, f.student.ID).Return(true, nil)

		_, err = f.service.Link(context.Background(), f.student.ID, LinkGuardianInput{
			UserID:       &parent.ID,
			Relationship: "MOTHER",
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrAlreadyExists.Code, derr.Code)
		f.guardians.AssertNotCalled(t, "SaveLink", mock.Anything, mock.Anything)
	})
}

func TestGuardianService_Unlink(t *testing.T) {
	t.Run("removes an existing link", func(t *testing.T) {
		f := newGuardianFixture(t)
		guardianID := uuid.New()

		f.guardians.On("LinkExists", mock.Anything, guardianID, f.student.ID).Return(true, nil)
		f.guardians.On("DeleteLink", mock.Anything, guardianID, f.student.ID).Return(nil)

		err := f.service.Unlink(context.Background(), f.student.ID, guardianID)

		require.NoError(t, err)
		f.guardians.AssertExpectations(t)
	})

	t.Run("reports a missing link as not found", func(t *testing.T) {
		f := newGuardianFixture(t)
		guardianID := uuid.New()

		f.guardians.On("LinkExists", mock.Anything, guardianID, f.student.ID).Return(false, nil)

		err := f.service.Unlink(context.Background(), f.student.ID, guardianID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.guardians.AssertNotCalled(t, "DeleteLink", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGuardianService_ListWards(t *testing.T) {
	f := newGuardianFixture(t)
	parentUserID := uuid.New()
	guardian, err := people.NewGuardian(f.schoolID, parentUserID, "", "")
	require.NoError(t, err)
	link, err := people.NewGuardianLink(guardian.ID, f.student.ID, people.RelationshipMother, true)
	require.NoError(t, err)

	f.guardians.On("FindByUserID", mock.Anything, parentUserID).Return(guardian, nil)
	f.guardians.On("FindLinksByGuardian", mock.Anything, guardian.ID).
		Return([]people.GuardianLink{*link}, nil)
	f.students.On("FindByID", mock.Anything, f.student.ID).Return(f.student, nil)

	wards, err := f.service.ListWards(context.Background(), parentUserID)

	require.NoError(t, err)
	require.Len(t, wards, 1)
	assert.Equal(t, f.student.ID, wards[0].ID)
}
