package srv

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeFormat = regexp.MustCompile(`^[1-9]\d{3}$`)

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry()

	room, err := reg.Create("conn-a", "Alice")
	require.NoError(t, err)
	require.NotNil(t, room)

	assert.Regexp(t, codeFormat, room.Code)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Equal(t, "conn-a", room.HostConnID)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.Equal(t, "Alice", room.Players[0].Name)
	assert.Equal(t, 0, room.Players[0].Score)
	assert.False(t, room.Players[0].IsDead)

	got, ok := reg.Get(room.Code)
	require.True(t, ok)
	assert.Same(t, room, got)
}

func TestRegistryCreateUniqueCodes(t *testing.T) {
	reg := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room, err := reg.Create("conn", "host")
		require.NoError(t, err)
		assert.False(t, seen[room.Code], "duplicate code %s", room.Code)
		seen[room.Code] = true
	}
}

func TestRegistryCreateCodeSpaceExhausted(t *testing.T) {
	reg := NewRegistry().(*memRegistry)

	// Occupy every code in the 4-digit space.
	for i := 1000; i <= 9999; i++ {
		code := fmt.Sprintf("%d", i)
		reg.rooms[code] = &Room{Code: code, Status: StatusWaiting}
	}

	_, err := reg.Create("conn", "host")
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestRegistryJoin(t *testing.T) {
	reg := NewRegistry()
	room, err := reg.Create("conn-a", "Alice")
	require.NoError(t, err)

	joined, err := reg.Join(room.Code, "conn-b", "Bob")
	require.NoError(t, err)
	assert.Same(t, room, joined)
	assert.Equal(t, StatusPlaying, room.Status)
	require.Len(t, room.Players, 2)
	assert.False(t, room.Players[1].IsHost)
	assert.Equal(t, "Bob", room.Players[1].Name)
}

func TestRegistryJoinErrors(t *testing.T) {
	reg := NewRegistry()
	room, err := reg.Create("conn-a", "Alice")
	require.NoError(t, err)

	_, err = reg.Join("0000", "conn-b", "Bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = reg.Join(room.Code, "conn-b", "Bob")
	require.NoError(t, err)

	// Third player: room is playing now.
	_, err = reg.Join(room.Code, "conn-c", "Carol")
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Len(t, room.Players, 2)
}

func TestRegistryDelete(t *testing.T) {
	reg := NewRegistry()
	room, err := reg.Create("conn-a", "Alice")
	require.NoError(t, err)

	reg.Delete(room.Code)
	_, ok := reg.Get(room.Code)
	assert.False(t, ok)

	_, err = reg.Join(room.Code, "conn-b", "Bob")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomPlayerLookup(t *testing.T) {
	room := &Room{
		Status: StatusPlaying,
		Players: []*PlayerState{
			{ConnID: "conn-a", Name: "Alice", IsHost: true, LastScoreUpdate: time.Now()},
			{ConnID: "conn-b", Name: "Bob", LastScoreUpdate: time.Now()},
		},
	}

	assert.Equal(t, "Alice", room.Player("conn-a").Name)
	assert.Equal(t, "Bob", room.Opponent("conn-a").Name)
	assert.Equal(t, "Alice", room.Opponent("conn-b").Name)
	assert.Nil(t, room.Player("conn-x"))
}
