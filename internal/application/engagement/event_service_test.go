package engagement

import (
	"context"
	"sync"
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
	"github.com/schoolhub/backend/internal/infrastructure/email"
	"github.com/schoolhub/backend/internal/infrastructure/storage"
)

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Event), args.Error(1)
}

func (m *mockEventRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[engagement.Event], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[engagement.Event]), args.Error(1)
}

func (m *mockEventRepository) Save(ctx context.Context, event *engagement.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEventRepository) FindRSVP(ctx context.Context, eventID, userID uuid.UUID) (*engagement.RSVP, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.RSVP), args.Error(1)
}

func (m *mockEventRepository) FindRSVPs(ctx context.Context, eventID uuid.UUID) ([]engagement.RSVP, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagement.RSVP), args.Error(1)
}

func (m *mockEventRepository) CountRSVPsByStatus(ctx context.Context, eventID uuid.UUID) (map[engagement.RSVPStatus]int64, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[engagement.RSVPStatus]int64), args.Error(1)
}

func (m *mockEventRepository) SaveRSVP(ctx context.Context, rsvp *engagement.RSVP) error {
	args := m.Called(ctx, rsvp)
	return args.Error(0)
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

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, address string) (*identity.User, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindBySchool(ctx context.Context, schoolID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, schoolID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// captureSender records sent messages for assertions
type captureSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (c *captureSender) Send(_ context.Context, msg email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

type eventFixture struct {
	schoolID      uuid.UUID
	events        *mockEventRepository
	notifications *mockNotificationRepository
	guardians     *mockGuardianRepository
	users         *mockUserRepository
	mailer        *captureSender
	service       *EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	f := &eventFixture{
		schoolID:      uuid.New(),
		events:        new(mockEventRepository),
		notifications: new(mockNotificationRepository),
		guardians:     new(mockGuardianRepository),
		users:         new(mockUserRepository),
		mailer:        &captureSender{},
	}
	f.service = NewEventService(f.events, f.notifications, f.guardians, f.users, f.mailer,
		storage.NewMemoryObjectStorage(), zap.NewNop())
	return f
}

func TestEventService_Create(t *testing.T) {
	t.Run("fans an invitation out to the school's guardians", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleSchoolAdmin, SchoolID: f.schoolID}

		parent, err := identity.NewUser("parent@example.test", "password123", "Ada Obi", identity.RoleParent, nil)
		require.NoError(t, err)
		guardian, err := people.NewGuardian(f.schoolID, parent.ID, "", "")
		require.NoError(t, err)

		page := shared.NewPaginated([]people.Guardian{*guardian}, 1, 1, 100)

		f.events.On("Save", mock.Anything, mock.AnythingOfType("*engagement.Event")).Return(nil)
		f.guardians.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(&page, nil)
		f.notifications.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*engagement.Notification")).Return(nil)
		f.users.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)

		resp, err := f.service.Create(context.Background(), actor, CreateEventInput{
			Title:    "PTA Meeting",
			Venue:    "Main Hall",
			StartsAt: time.Now().Add(72 * time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, "PTA Meeting", resp.Title)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "parent@example.test", f.mailer.sent[0].ToAddress)
		f.notifications.AssertExpectations(t)
	})

	t.Run("event creation survives a notification failure", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleSchoolAdmin, SchoolID: f.schoolID}

		f.events.On("Save", mock.Anything, mock.AnythingOfType("*engagement.Event")).Return(nil)
		f.guardians.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
			Return(nil, assert.AnError)

		resp, err := f.service.Create(context.Background(), actor, CreateEventInput{
			Title:    "Sports Day",
			StartsAt: time.Now().Add(24 * time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, "Sports Day", resp.Title)
	})
}

func TestEventService_RSVP(t *testing.T) {
	newUpcoming := func(t *testing.T, schoolID uuid.UUID) *engagement.Event {
		t.Helper()
		event, err := engagement.NewEvent(schoolID, "Open Day", "", "",
			time.Now().Add(48*time.Hour), time.Time{}, 0)
		require.NoError(t, err)
		return event
	}

	t.Run("records a first reply", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		event := newUpcoming(t, f.schoolID)

		f.events.On("FindByID", mock.Anything, event.ID).Return(event, nil)
		f.events.On("FindRSVP", mock.Anything, event.ID, actor.UserID).Return(nil, shared.ErrNotFound)
		f.events.On("SaveRSVP", mock.Anything, mock.AnythingOfType("*engagement.RSVP")).Return(nil)

		resp, err := f.service.RSVP(context.Background(), actor, event.ID, RSVPInput{Status: "GOING"})

		require.NoError(t, err)
		assert.Equal(t, "GOING", resp.Status)
		f.events.AssertExpectations(t)
	})

	t.Run("a reply notifies the event creator", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		creatorID := uuid.New()
		event := newUpcoming(t, f.schoolID)
		event.CreatedBy = &creatorID

		f.events.On("FindByID", mock.Anything, event.ID).Return(event, nil)
		f.events.On("FindRSVP", mock.Anything, event.ID, actor.UserID).Return(nil, shared.ErrNotFound)
		f.events.On("SaveRSVP", mock.Anything, mock.AnythingOfType("*engagement.RSVP")).Return(nil)
		f.notifications.On("Save", mock.Anything, mock.MatchedBy(func(n *engagement.Notification) bool {
			return n.UserID == creatorID
		})).Return(nil)

		_, err := f.service.RSVP(context.Background(), actor, event.ID, RSVPInput{Status: "GOING"})

		require.NoError(t, err)
		f.notifications.AssertExpectations(t)
	})

	t.Run("replying again overwrites the earlier reply", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		event := newUpcoming(t, f.schoolID)

		existing, err := engagement.NewRSVP(event.ID, actor.UserID, engagement.RSVPMaybe)
		require.NoError(t, err)

		f.events.On("FindByID", mock.Anything, event.ID).Return(event, nil)
		f.events.On("FindRSVP", mock.Anything, event.ID, actor.UserID).Return(existing, nil)
		f.events.On("SaveRSVP", mock.Anything, existing).Return(nil)

		resp, err := f.service.RSVP(context.Background(), actor, event.ID, RSVPInput{Status: "NOT_GOING"})

		require.NoError(t, err)
		assert.Equal(t, "NOT_GOING", resp.Status)
	})

	t.Run("rejects GOING once the event is at capacity", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		event, err := engagement.NewEvent(f.schoolID, "Open Day", "", "",
			time.Now().Add(48*time.Hour), time.Time{}, 1)
		require.NoError(t, err)

		f.events.On("FindByID", mock.Anything, event.ID).Return(event, nil)
		f.events.On("FindRSVP", mock.Anything, event.ID, actor.UserID).Return(nil, shared.ErrNotFound)
		f.events.On("CountRSVPsByStatus", mock.Anything, event.ID).
			Return(map[engagement.RSVPStatus]int64{engagement.RSVPGoing: 1}, nil)

		_, err = f.service.RSVP(context.Background(), actor, event.ID, RSVPInput{Status: "GOING"})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrConflict.Code, derr.Code)
		f.events.AssertNotCalled(t, "SaveRSVP", mock.Anything, mock.Anything)
	})

	t.Run("a GOING reply keeps its seat when changed to GOING again", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		event, err := engagement.NewEvent(f.schoolID, "Open Day", "", "",
			time.Now().Add(48*time.Hour), time.Time{}, 1)
		require.NoError(t, err)

		existing, err := engagement.NewRSVP(event.ID, actor.UserID, engagement.RSVPGoing)
		require.NoError(t, err)

		f.events.On("FindByID", mock.Anything, event.ID).Return(event, nil)
		f.events.On("FindRSVP", mock.Anything, event.ID, actor.UserID).Return(existing, nil)
		f.events.On("SaveRSVP", mock.Anything, existing).Return(nil)

		resp, err := f.service.RSVP(context.Background(), actor, event.ID, RSVPInput{Status: "GOING"})

		require.NoError(t, err)
		assert.Equal(t, "GOING", resp.Status)
		f.events.AssertNotCalled(t, "CountRSVPsByStatus", mock.Anything, mock.Anything)
	})

	t.Run("rejects a reply once the event has started", func(t *testing.T) {
		f := newEventFixture(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleParent}
		event := newUpcoming(t, f.schoolID)
		f.service.now = func() time.Time { return event.StartsAt.Add(time.Minute) }

		f.events.On("FindByID", mock.Anything, event.ID).Return(event, nil)

		_, err := f.service.RSVP(context.Background(), actor, event.ID, RSVPInput{Status: "GOING"})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.ErrInvalidState.Code, derr.Code)
		f.events.AssertNotCalled(t, "SaveRSVP", mock.Anything, mock.Anything)
	})
}
