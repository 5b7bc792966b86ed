package academics

import (
	"strings"

	"github.com/google/uuid"

	"github.com/schoolhub/backend/internal/domain/shared"
)

// Room is a bookable physical space. Code is unique per school.
type Room struct {
	shared.SchoolAggregateRoot
	Code     string
	Name     string
	Capacity int
}

// TableName maps the aggregate to its table
func (Room) TableName() string { return "rooms" }

// NewRoom creates a room for a school
func NewRoom(schoolID uuid.UUID, code, name string, capacity int) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Room code cannot be empty")
	}
	if capacity < 1 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be positive")
	}
	return &Room{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Code:                code,
		Name:                name,
		Capacity:            capacity,
	}, nil
}

// Update applies changes to the room definition
func (r *Room) Update(name string, capacity int) error {
	if capacity < 1 {
		return shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be positive")
	}
	r.Name = name
	r.Capacity = capacity
	r.Touch()
	r.IncrementVersion()
	return nil
}
