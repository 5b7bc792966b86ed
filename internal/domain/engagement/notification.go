package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// NotificationKind tags what triggered a notification
type NotificationKind string

const (
	NotificationEvent      NotificationKind = "EVENT"
	NotificationReportCard NotificationKind = "REPORT_CARD"
	NotificationOrder      NotificationKind = "ORDER"
	NotificationGeneral    NotificationKind = "GENERAL"
)

// Notification is an in-app message for one user. Email delivery, when
// configured, happens alongside and never blocks the write.
type Notification struct {
	shared.BaseEntity
	UserID   uuid.UUID
	SchoolID uuid.UUID
	Kind     NotificationKind
	Title    string
	Body     string
	RefID    *uuid.UUID // the event/report-card/order that triggered it
	ReadAt   *time.Time
}

// TableName maps the entity to its table
func (Notification) TableName() string { return "notifications" }

// NewNotification creates an unread notification
func NewNotification(userID, schoolID uuid.UUID, kind NotificationKind, title, body string, refID *uuid.UUID) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Notification requires a recipient")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		SchoolID:   schoolID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		RefID:      refID,
	}, nil
}

// MarkRead stamps the read time once; re-reading keeps the first stamp
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.Touch()
}

// IsRead reports whether the user has opened the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
