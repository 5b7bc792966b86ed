package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormNotificationRepository implements engagement.NotificationRepository
// using GORM. Notifications are addressed per user, so listing is filtered
// by recipient rather than tenant scope.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by id
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Notification, error) {
	var notification engagement.Notification
	if err := dbFromContext(ctx, r.db).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[engagement.Notification], error) {
	filter = filter.Normalize()
	query := dbFromContext(ctx, r.db).Model(&engagement.Notification{}).
		Where("user_id = ?", userID)

	if unread, ok := filter.Filters["unread"]; ok && unread == true {
		query = query.Where("read_at IS NULL")
	}
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var notifications []engagement.Notification
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(notifications, total, filter.Page, filter.PageSize)
	return &page, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&engagement.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *engagement.Notification) error {
	return dbFromContext(ctx, r.db).Save(notification).Error
}

// SaveBatch inserts a fan-out of notifications in one statement
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, notifications []*engagement.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).CreateInBatches(notifications, 200).Error
}

// MarkAllRead stamps every unread notification of a user
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return dbFromContext(ctx, r.db).Model(&engagement.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).Error
}

var _ engagement.NotificationRepository = (*GormNotificationRepository)(nil)
