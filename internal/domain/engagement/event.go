// Package engagement covers school-to-guardian communication: events with
// RSVPs and user notifications.
package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// RSVPStatus is a guardian's reply to an event invitation
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "GOING"
	RSVPNotGoing RSVPStatus = "NOT_GOING"
	RSVPMaybe    RSVPStatus = "MAYBE"
)

// ValidRSVPStatus reports whether s is a known reply
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPGoing, RSVPNotGoing, RSVPMaybe:
		return true
	}
	return false
}

// Event is a school occasion guardians are invited to. Capacity caps the
// GOING replies; zero means unlimited.
type Event struct {
	shared.SchoolAggregateRoot
	Title       string
	Description string
	Venue       string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
	ImageURL    string
}

// TableName maps the aggregate to its table
func (Event) TableName() string { return "events" }

// NewEvent creates an event
func NewEvent(schoolID uuid.UUID, title, description, venue string, startsAt, endsAt time.Time, capacity int) (*Event, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Event title cannot be empty")
	}
	if startsAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_TIME", "Event start time is required")
	}
	if !endsAt.IsZero() && !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_TIME", "Event must end after it starts")
	}
	if capacity < 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Event capacity cannot be negative")
	}
	return &Event{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Title:               title,
		Description:         description,
		Venue:               venue,
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		Capacity:            capacity,
	}, nil
}

// Update applies changes to the event details
func (e *Event) Update(title, description, venue string, startsAt, endsAt time.Time, capacity int) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Event title cannot be empty")
	}
	if !endsAt.IsZero() && !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_TIME", "Event must end after it starts")
	}
	if capacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Event capacity cannot be negative")
	}
	e.Title = title
	e.Description = description
	e.Venue = venue
	e.StartsAt = startsAt
	e.EndsAt = endsAt
	e.Capacity = capacity
	e.Touch()
	e.IncrementVersion()
	return nil
}

// SetImageURL records where the event image was uploaded
func (e *Event) SetImageURL(url string) {
	e.ImageURL = url
	e.Touch()
	e.IncrementVersion()
}

// AtCapacity reports whether another GOING reply would exceed the cap
func (e *Event) AtCapacity(going int64) bool {
	return e.Capacity > 0 && going >= int64(e.Capacity)
}

// HasStarted reports whether the event start time has passed
func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.StartsAt)
}

// RSVP is one user's reply to an event. A user has at most one reply per
// event; replying again overwrites.
type RSVP struct {
	shared.BaseEntity
	EventID uuid.UUID
	UserID  uuid.UUID
	Status  RSVPStatus
}

// TableName maps the entity to its table
func (RSVP) TableName() string { return "event_rsvps" }

// NewRSVP records a reply to an event
func NewRSVP(eventID, userID uuid.UUID, status RSVPStatus) (*RSVP, error) {
	if eventID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "RSVP requires an event and user")
	}
	if !ValidRSVPStatus(status) {
		return nil, shared.NewDomainError("INVALID_STATUS", "RSVP must be GOING, NOT_GOING or MAYBE")
	}
	return &RSVP{
		BaseEntity: shared.NewBaseEntity(),
		EventID:    eventID,
		UserID:     userID,
		Status:     status,
	}, nil
}

// Change overwrites the reply
func (r *RSVP) Change(status RSVPStatus) error {
	if !ValidRSVPStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", "RSVP must be GOING, NOT_GOING or MAYBE")
	}
	r.Status = status
	r.Touch()
	return nil
}
