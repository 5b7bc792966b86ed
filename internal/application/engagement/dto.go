package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/engagement"
)

// CreateEventInput carries a new event
type CreateEventInput struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Venue       string    `json:"venue" binding:"max=200"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity" binding:"min=0"`
}

// UpdateEventInput carries event changes
type UpdateEventInput struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Venue       string    `json:"venue" binding:"max=200"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity" binding:"min=0"`
}

// RSVPInput is a reply to an event invitation
type RSVPInput struct {
	Status string `json:"status" binding:"required,oneof=GOING NOT_GOING MAYBE"`
}

// EventResponse is an event in API responses
type EventResponse struct {
	ID          uuid.UUID        `json:"id"`
	SchoolID    uuid.UUID        `json:"school_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Venue       string           `json:"venue,omitempty"`
	StartsAt    time.Time        `json:"starts_at"`
	EndsAt      time.Time        `json:"ends_at,omitempty"`
	Capacity    int              `json:"capacity,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	RSVPCounts  map[string]int64 `json:"rsvp_counts,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ToEventResponse maps a domain event to its API shape
func ToEventResponse(e *engagement.Event, counts map[engagement.RSVPStatus]int64) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		SchoolID:    e.SchoolID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Capacity:    e.Capacity,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
	}
	if counts != nil {
		resp.RSVPCounts = make(map[string]int64, len(counts))
		for status, n := range counts {
			resp.RSVPCounts[string(status)] = n
		}
	}
	return resp
}

// RSVPResponse is one reply in API responses
type RSVPResponse struct {
	EventID uuid.UUID `json:"event_id"`
	UserID  uuid.UUID `json:"user_id"`
	Status  string    `json:"status"`
}

// ToRSVPResponse maps a domain reply to its API shape
func ToRSVPResponse(r *engagement.RSVP) RSVPResponse {
	return RSVPResponse{
		EventID: r.EventID,
		UserID:  r.UserID,
		Status:  string(r.Status),
	}
}

// NotificationResponse is a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	RefID     *uuid.UUID `json:"ref_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToNotificationResponse maps a domain notification to its API shape
func ToNotificationResponse(n *engagement.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		RefID:     n.RefID,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
