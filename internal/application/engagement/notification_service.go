package engagement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// NotificationService reads and resolves a user's notification feed
type NotificationService struct {
	notificationRepo engagement.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo engagement.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// List returns the actor's notifications. Pass "unread" in the filter's
// Filters map to restrict to unread ones.
func (s *NotificationService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[NotificationResponse], error) {
	page, err := s.notificationRepo.FindByUser(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]NotificationResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToNotificationResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UnreadCount returns how many notifications the actor has not opened
func (s *NotificationService) UnreadCount(ctx context.Context, actor identity.Actor) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, actor.UserID)
}

// MarkRead stamps one of the actor's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != actor.UserID {
		return nil, shared.ErrNotFound
	}
	notification.MarkRead()
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(notification)
	return &resp, nil
}

// MarkAllRead stamps every unread notification of the actor
func (s *NotificationService) MarkAllRead(ctx context.Context, actor identity.Actor) error {
	return s.notificationRepo.MarkAllRead(ctx, actor.UserID)
}
