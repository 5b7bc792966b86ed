package engagement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	start := time.Now().Add(48 * time.Hour)
	e, err := NewEvent(uuid.New(), "PTA Meeting", "", "Main Hall", start, start.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.False(t, e.HasStarted(time.Now()))
	assert.True(t, e.HasStarted(start.Add(time.Minute)))

	_, err = NewEvent(uuid.New(), "", "", "", start, time.Time{}, 0)
	assert.Error(t, err, "title required")

	_, err = NewEvent(uuid.New(), "X", "", "", time.Time{}, time.Time{}, 0)
	assert.Error(t, err, "start required")

	_, err = NewEvent(uuid.New(), "X", "", "", start, start, 0)
	assert.Error(t, err, "must end after start")

	_, err = NewEvent(uuid.New(), "X", "", "", start, time.Time{}, -1)
	assert.Error(t, err, "capacity cannot be negative")
}

func TestEventAtCapacity(t *testing.T) {
	start := time.Now().Add(48 * time.Hour)
	e, err := NewEvent(uuid.New(), "Open Day", "", "", start, time.Time{}, 2)
	require.NoError(t, err)
	assert.False(t, e.AtCapacity(1))
	assert.True(t, e.AtCapacity(2))

	unlimited, err := NewEvent(uuid.New(), "Open Day", "", "", start, time.Time{}, 0)
	require.NoError(t, err)
	assert.False(t, unlimited.AtCapacity(10_000))
}

func TestRSVP(t *testing.T) {
	r, err := NewRSVP(uuid.New(), uuid.New(), RSVPMaybe)
	require.NoError(t, err)

	require.NoError(t, r.Change(RSVPGoing))
	assert.Equal(t, RSVPGoing, r.Status)

	assert.Error(t, r.Change(RSVPStatus("PERHAPS")))

	_, err = NewRSVP(uuid.Nil, uuid.New(), RSVPGoing)
	assert.Error(t, err)
}

func TestNotificationRead(t *testing.T) {
	n, err := NewNotification(uuid.New(), uuid.New(), NotificationGeneral, "Welcome", "", nil)
	require.NoError(t, err)
	assert.False(t, n.IsRead())

	n.MarkRead()
	require.True(t, n.IsRead())
	first := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt, "first read timestamp is kept")

	_, err = NewNotification(uuid.Nil, uuid.New(), NotificationGeneral, "X", "", nil)
	assert.Error(t, err)
	_, err = NewNotification(uuid.New(), uuid.New(), NotificationGeneral, "", "", nil)
	assert.Error(t, err)
}
