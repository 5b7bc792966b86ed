package academics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/academics"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// RoomService handles room administration
type RoomService struct {
	roomRepo      academics.RoomRepository
	timetableRepo academics.TimetableRepository
	logger        *zap.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(roomRepo academics.RoomRepository, timetableRepo academics.TimetableRepository, logger *zap.Logger) *RoomService {
	return &RoomService{roomRepo: roomRepo, timetableRepo: timetableRepo, logger: logger}
}

// Create adds a room to the actor's school
func (s *RoomService) Create(ctx context.Context, actor identity.Actor, input CreateRoomInput) (*RoomResponse, error) {
	exists, err := s.roomRepo.ExistsByCode(ctx, actor.SchoolID, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"A room with this code already exists")
	}

	room, err := academics.NewRoom(actor.SchoolID, input.Code, input.Name, input.Capacity)
	if err != nil {
		return nil, err
	}
	room.CreatedBy = &actor.UserID

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("code", room.Code))

	resp := ToRoomResponse(room)
	return &resp, nil
}

// Get returns one room
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// List returns rooms matching the filter
func (s *RoomService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[RoomResponse], error) {
	page, err := s.roomRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RoomResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToRoomResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies changes to a room
func (s *RoomService) Update(ctx context.Context, id uuid.UUID, input UpdateRoomInput) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := room.Update(input.Name, input.Capacity); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// Delete removes a room. Blocked while timetable slots are scheduled
// into it.
func (s *RoomService) Delete(ctx context.Context, id uuid.UUID) error {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	slots, err := s.timetableRepo.CountSlotsByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if slots > 0 {
		return shared.NewDomainError(shared.ErrHasDependents.Code,
			"Room is still scheduled in timetables; remove those slots first")
	}
	if err := s.roomRepo.Delete(ctx, room.ID); err != nil {
		return err
	}
	s.logger.Info("Room deleted", zap.String("room_id", room.ID.String()))
	return nil
}
