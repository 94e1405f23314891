package srv

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRegisterLookup(t *testing.T) {
	dir := NewDirectory()

	settings := json.RawMessage(`{"skin":"classic","bg":"deep"}`)
	dir.Register("conn-a", "Alice", settings)

	e, ok := dir.Lookup("conn-a")
	require.True(t, ok)
	assert.Equal(t, "Alice", e.Name)
	assert.JSONEq(t, string(settings), string(e.Settings))
	assert.Empty(t, e.RoomCode)

	_, ok = dir.Lookup("conn-x")
	assert.False(t, ok)
}

func TestDirectoryDefaultName(t *testing.T) {
	dir := NewDirectory()
	dir.Register("conn-a", "", nil)

	e, _ := dir.Lookup("conn-a")
	assert.Equal(t, "Player", e.Name)
}

func TestDirectoryAttach(t *testing.T) {
	dir := NewDirectory()
	dir.Register("conn-a", "Alice", nil)
	dir.Attach("conn-a", "4242", true)

	e, ok := dir.Lookup("conn-a")
	require.True(t, ok)
	assert.Equal(t, "4242", e.RoomCode)
	assert.True(t, e.IsHost)
	assert.Equal(t, "Alice", e.Name)

	// Re-registering (client hops back to the lobby screen) keeps the
	// room association.
	dir.Register("conn-a", "Alice2", nil)
	e, _ = dir.Lookup("conn-a")
	assert.Equal(t, "4242", e.RoomCode)
	assert.Equal(t, "Alice2", e.Name)
}

func TestDirectoryRemove(t *testing.T) {
	dir := NewDirectory()
	dir.Register("conn-a", "Alice", nil)
	dir.Remove("conn-a")

	_, ok := dir.Lookup("conn-a")
	assert.False(t, ok)
}
