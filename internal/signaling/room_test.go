package signaling

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tj/assert"
)

// fixedKeys hands out predictable keys.
type fixedKeys struct {
	n int
}

func (k *fixedKeys) Generate() string {
	k.n++
	return fmt.Sprintf("key%d", k.n)
}

var t0 = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestRoomTable(t *testing.T) {
	t.Run("create keys room by host", func(t *testing.T) {
		table := NewRoomTable(&fixedKeys{})
		room, err := table.Create("Lab", "conn-a", t0)
		assert.NoError(t, err)
		assert.Equal(t, "conn-a", room.ID)
		assert.Equal(t, "conn-a", room.HostID)
		assert.Equal(t, "Lab", room.Name)
		assert.Equal(t, "key1", room.Key)
		assert.Equal(t, t0, room.CreatedAt)

		found, ok := table.FindByHost("conn-a")
		assert.True(t, ok)
		assert.Equal(t, room, found)
	})

	t.Run("duplicate host is rejected", func(t *testing.T) {
		table := NewRoomTable(&fixedKeys{})
		_, err := table.Create("Lab", "conn-a", t0)
		assert.NoError(t, err)

		_, err = table.Create("Other", "conn-a", t0)
		assert.True(t, errors.Is(err, ErrDuplicateHost))
		assert.Equal(t, 1, table.Len())

		room, _ := table.FindByID("conn-a")
		assert.Equal(t, "Lab", room.Name)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		table := NewRoomTable(&fixedKeys{})
		for _, id := range []string{"c", "a", "b"} {
			_, err := table.Create("room "+id, id, t0)
			assert.NoError(t, err)
		}
		table.Remove("a")

		var ids []string
		for _, r := range table.List() {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"c", "b"}, ids)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		table := NewRoomTable(&fixedKeys{})
		table.Create("Lab", "a", t0)
		table.Remove("a")
		table.Remove("a")
		table.Remove("missing")
		assert.Equal(t, 0, table.Len())
		_, ok := table.FindByID("a")
		assert.False(t, ok)
	})

	t.Run("list is a copy", func(t *testing.T) {
		table := NewRoomTable(&fixedKeys{})
		table.Create("Lab", "a", t0)
		rooms := table.List()
		rooms[0].Name = "changed"

		room, _ := table.FindByID("a")
		assert.Equal(t, "Lab", room.Name)
	})
}

func TestRoomTableSweep(t *testing.T) {
	ttl := 10 * time.Minute
	table := NewRoomTable(&fixedKeys{})
	table.Create("old", "old", t0)
	table.Create("edge", "edge", t0.Add(time.Minute))
	table.Create("new", "new", t0.Add(5*time.Minute))

	assert.Empty(t, table.Sweep(t0.Add(ttl-time.Nanosecond), ttl))
	assert.Equal(t, 3, table.Len())

	// exactly ttl old counts as expired
	removed := table.Sweep(t0.Add(11*time.Minute), ttl)
	assert.Len(t, removed, 2)
	assert.Equal(t, "old", removed[0].ID)
	assert.Equal(t, "edge", removed[1].ID)

	rooms := table.List()
	assert.Len(t, rooms, 1)
	assert.Equal(t, "new", rooms[0].ID)

	// the slot of a swept room can be reused by its host
	_, err := table.Create("again", "old", t0.Add(11*time.Minute))
	assert.NoError(t, err)
}

func TestRoomExpired(t *testing.T) {
	room := Room{CreatedAt: t0}
	assert.False(t, room.Expired(t0.Add(9*time.Minute), 10*time.Minute))
	assert.True(t, room.Expired(t0.Add(10*time.Minute), 10*time.Minute))
}
