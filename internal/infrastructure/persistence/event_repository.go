package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/engagement"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormEventRepository implements engagement.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by id
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Event, error) {
	var event engagement.Event
	if err := tenantScoped(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindAll lists events visible to the caller
func (r *GormEventRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[engagement.Event], error) {
	filter = filter.Normalize()
	query := tenantScoped(ctx, r.db).Model(&engagement.Event{})

	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if from, ok := filter.Filters["starts_after"]; ok {
		query = query.Where("starts_at >= ?", from)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, EventSortFields, "starts_at")
	var events []engagement.Event
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&events).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(events, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *engagement.Event) error {
	return dbFromContext(ctx, r.db).Save(event).Error
}

// Delete removes an event and its RSVPs
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&engagement.RSVP{}, "event_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&engagement.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindRSVP finds one user's RSVP to an event
func (r *GormEventRepository) FindRSVP(ctx context.Context, eventID, userID uuid.UUID) (*engagement.RSVP, error) {
	var rsvp engagement.RSVP
	if err := dbFromContext(ctx, r.db).
		First(&rsvp, "event_id = ? AND user_id = ?", eventID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

// FindRSVPs lists an event's RSVPs
func (r *GormEventRepository) FindRSVPs(ctx context.Context, eventID uuid.UUID) ([]engagement.RSVP, error) {
	var rsvps []engagement.RSVP
	if err := dbFromContext(ctx, r.db).
		Where("event_id = ?", eventID).
		Find(&rsvps).Error; err != nil {
		return nil, err
	}
	return rsvps, nil
}

// CountRSVPsByStatus tallies an event's RSVPs per status
func (r *GormEventRepository) CountRSVPsByStatus(ctx context.Context, eventID uuid.UUID) (map[engagement.RSVPStatus]int64, error) {
	var rows []struct {
		Status engagement.RSVPStatus
		Count  int64
	}
	if err := dbFromContext(ctx, r.db).Model(&engagement.RSVP{}).
		Select("status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[engagement.RSVPStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SaveRSVP creates or updates an RSVP
func (r *GormEventRepository) SaveRSVP(ctx context.Context, rsvp *engagement.RSVP) error {
	return dbFromContext(ctx, r.db).Save(rsvp).Error
}

var _ engagement.EventRepository = (*GormEventRepository)(nil)
