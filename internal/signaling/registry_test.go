package signaling

import (
	"testing"

	"github.com/tj/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := &Client{ID: "a"}
	b := &Client{ID: "b"}
	c := &Client{ID: "c"}

	assert.True(t, r.Add(a))
	assert.True(t, r.Add(b))
	assert.True(t, r.Add(c))
	assert.False(t, r.Add(&Client{ID: "a"}))
	assert.Equal(t, 3, r.Len())

	r.Join("room", a)
	r.Join("room", b)
	assert.True(t, r.IsMember("room", "a"))
	assert.False(t, r.IsMember("room", "c"))

	others := r.Members("room", "a")
	assert.Len(t, others, 1)
	assert.Equal(t, "b", others[0].ID)

	assert.True(t, r.Leave("room", b))
	assert.False(t, r.Leave("room", b))
	assert.False(t, r.Leave("nope", b))

	// removing a connection drops it from its group
	a.RoomID = "room"
	assert.True(t, r.Remove(a))
	assert.False(t, r.IsMember("room", "a"))
	assert.False(t, r.Remove(a))

	_, ok := r.Get("a")
	assert.False(t, ok)
}

func TestRegistryRemoveIgnoresImpostor(t *testing.T) {
	r := NewRegistry()
	a := &Client{ID: "a"}
	r.Add(a)

	assert.False(t, r.Remove(&Client{ID: "a"}))
	got, ok := r.Get("a")
	assert.True(t, ok)
	assert.True(t, got == a)
}

func TestRegistryDisband(t *testing.T) {
	r := NewRegistry()
	a := &Client{ID: "a"}
	b := &Client{ID: "b"}
	r.Add(a)
	r.Add(b)
	r.Join("room", a)
	r.Join("room", b)

	members := r.Disband("room")
	assert.Len(t, members, 2)
	assert.Empty(t, r.Members("room", ""))
	assert.Empty(t, r.Disband("room"))
}
