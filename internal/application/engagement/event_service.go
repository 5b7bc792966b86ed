// Package engagement implements events with RSVPs and the notification
// feed.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/people"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/email"
	"github.com/schoolhub/backend/internal/infrastructure/storage"
)

// EventService manages events and their RSVPs. Creating an event fans a
// notification out to the school's guardians.
type EventService struct {
	eventRepo        engagement.EventRepository
	notificationRepo engagement.NotificationRepository
	guardianRepo     people.GuardianRepository
	userRepo         identity.UserRepository
	mailer           email.Sender
	storage          storage.ObjectStorage
	logger           *zap.Logger
	now              func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo engagement.EventRepository,
	notificationRepo engagement.NotificationRepository,
	guardianRepo people.GuardianRepository,
	userRepo identity.UserRepository,
	mailer email.Sender,
	objectStorage storage.ObjectStorage,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		guardianRepo:     guardianRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		storage:          objectStorage,
		logger:           logger,
		now:              time.Now,
	}
}

// Create adds an event and invites the school's guardians
func (s *EventService) Create(ctx context.Context, actor identity.Actor, input CreateEventInput) (*EventResponse, error) {
	event, err := engagement.NewEvent(actor.SchoolID, input.Title, input.Description,
		input.Venue, input.StartsAt, input.EndsAt, input.Capacity)
	if err != nil {
		return nil, err
	}
	event.CreatedBy = &actor.UserID

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("school_id", event.SchoolID.String()),
		zap.Time("starts_at", event.StartsAt))

	s.inviteGuardians(ctx, event)

	resp := ToEventResponse(event, nil)
	return &resp, nil
}

// inviteGuardians fans the invitation out to every guardian profile in the
// school. Delivery is best effort.
func (s *EventService) inviteGuardians(ctx context.Context, event *engagement.Event) {
	title := fmt.Sprintf("New event: %s", event.Title)
	body := fmt.Sprintf("%s on %s", event.Title, event.StartsAt.Format("Mon, 2 Jan 2006 15:04"))
	if event.Venue != "" {
		body += " at " + event.Venue
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 100
	for {
		page, err := s.guardianRepo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to load guardians for event invitations", zap.Error(err))
			return
		}

		notifications := make([]*engagement.Notification, 0, len(page.Items))
		for i := range page.Items {
			refID := event.ID
			n, err := engagement.NewNotification(page.Items[i].UserID, event.SchoolID,
				engagement.NotificationEvent, title, body, &refID)
			if err != nil {
				continue
			}
			notifications = append(notifications, n)
		}
		if len(notifications) > 0 {
			if err := s.notificationRepo.SaveBatch(ctx, notifications); err != nil {
				s.logger.Error("Failed to save event invitations", zap.Error(err))
			}
			s.emailGuardians(ctx, page.Items, title, body)
		}

		if filter.Page >= page.TotalPages {
			return
		}
		filter.Page++
	}
}

func (s *EventService) emailGuardians(ctx context.Context, guardians []people.Guardian, subject, body string) {
	for i := range guardians {
		user, err := s.userRepo.FindByID(ctx, guardians[i].UserID)
		if err != nil {
			continue
		}
		err = s.mailer.Send(ctx, email.Message{
			ToAddress: user.Email,
			ToName:    user.FullName,
			Subject:   subject,
			PlainText: body,
		})
		if err != nil {
			s.logger.Error("Failed to email event invitation",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
}

// Get returns one event with its RSVP tallies
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.eventRepo.CountRSVPsByStatus(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(event, counts)
	return &resp, nil
}

// List returns events matching the filter
func (s *EventService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[EventResponse], error) {
	page, err := s.eventRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]EventResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToEventResponse(&page.Items[i], nil))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies changes to an event
func (s *EventService) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := event.Update(input.Title, input.Description, input.Venue, input.StartsAt, input.EndsAt, input.Capacity); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	resp := ToEventResponse(event, nil)
	return &resp, nil
}

// UploadImage stores the event image and records its public URL
func (s *EventService) UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("schools/%s/events/%s/image", event.SchoolID, event.ID)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	event.SetImageURL(url)
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	resp := ToEventResponse(event, nil)
	return &resp, nil
}

// Delete removes an event and its RSVPs
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Event deleted", zap.String("event_id", id.String()))
	return nil
}

// RSVP records the actor's reply. Replying again overwrites; replies close
// once the event has started.
func (s *EventService) RSVP(ctx context.Context, actor identity.Actor, eventID uuid.UUID, input RSVPInput) (*RSVPResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasStarted(s.now()) {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code,
			"RSVPs are closed once the event has started")
	}

	status := engagement.RSVPStatus(input.Status)
	reply, err := s.eventRepo.FindRSVP(ctx, event.ID, actor.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// a reply that is already GOING keeps its seat
	if status == engagement.RSVPGoing && (reply == nil || reply.Status != engagement.RSVPGoing) {
		counts, err := s.eventRepo.CountRSVPsByStatus(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		if event.AtCapacity(counts[engagement.RSVPGoing]) {
			return nil, shared.NewDomainError(shared.ErrConflict.Code,
				"Event is at full capacity")
		}
	}

	if reply != nil {
		if err := reply.Change(status); err != nil {
			return nil, err
		}
	} else {
		reply, err = engagement.NewRSVP(event.ID, actor.UserID, status)
		if err != nil {
			return nil, err
		}
	}

	if err := s.eventRepo.SaveRSVP(ctx, reply); err != nil {
		return nil, err
	}

	s.notifyCreator(ctx, event, actor.UserID, status)

	resp := ToRSVPResponse(reply)
	return &resp, nil
}

// notifyCreator tells the event's creator about the reply. Best effort.
func (s *EventService) notifyCreator(ctx context.Context, event *engagement.Event, replier uuid.UUID, status engagement.RSVPStatus) {
	if event.CreatedBy == nil || *event.CreatedBy == replier {
		return
	}
	refID := event.ID
	n, err := engagement.NewNotification(*event.CreatedBy, event.SchoolID,
		engagement.NotificationEvent,
		fmt.Sprintf("RSVP received: %s", event.Title),
		fmt.Sprintf("A guardian replied %s to %s", status, event.Title), &refID)
	if err != nil {
		return
	}
	if err := s.notificationRepo.Save(ctx, n); err != nil {
		s.logger.Warn("Failed to save RSVP notification",
			zap.String("event_id", event.ID.String()), zap.Error(err))
	}
}

// ListRSVPs returns every reply to an event
func (s *EventService) ListRSVPs(ctx context.Context, eventID uuid.UUID) ([]RSVPResponse, error) {
	replies, err := s.eventRepo.FindRSVPs(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items := make([]RSVPResponse, 0, len(replies))
	for i := range replies {
		items = append(items, ToRSVPResponse(&replies[i]))
	}
	return items, nil
}
