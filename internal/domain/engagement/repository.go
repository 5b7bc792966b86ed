package engagement

import (
	"context"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// EventRepository persists events and their RSVPs
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Event], error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindRSVP(ctx context.Context, eventID, userID uuid.UUID) (*RSVP, error)
	FindRSVPs(ctx context.Context, eventID uuid.UUID) ([]RSVP, error)
	CountRSVPsByStatus(ctx context.Context, eventID uuid.UUID) (map[RSVPStatus]int64, error)
	SaveRSVP(ctx context.Context, rsvp *RSVP) error
}

// NotificationRepository persists notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Notification], error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, notification *Notification) error
	SaveBatch(ctx context.Context, notifications []*Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
