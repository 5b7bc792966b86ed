package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormRoomRepository implements academics.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID finds a room by id
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*academics.Room, error) {
	var room academics.Room
	if err := tenantScoped(ctx, r.db).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindAll lists rooms visible to the caller
func (r *GormRoomRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[academics.Room], error) {
	filter = filter.Normalize()
	query := tenantScoped(ctx, r.db).Model(&academics.Room{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	var rooms []academics.Room
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&rooms).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(rooms, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsByCode reports whether the school already has a room with the code
func (r *GormRoomRepository) ExistsByCode(ctx context.Context, schoolID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&academics.Room{}).
		Where("school_id = ? AND code = ?", schoolID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a room
func (r *GormRoomRepository) Save(ctx context.Context, room *academics.Room) error {
	return dbFromContext(ctx, r.db).Save(room).Error
}

// Delete removes a room
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&academics.Room{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ academics.RoomRepository = (*GormRoomRepository)(nil)
