package srv

import "encoding/json"

// Entry is a connection's lobby/room association. It holds only the
// back-reference to a room code, never match state; consumers must
// re-check the registry, which is what makes orphaned entries after a
// room deletion harmless.
type Entry struct {
	Name     string
	Settings json.RawMessage
	RoomCode string
	IsHost   bool
}

// Directory maps a live connection to its room association. Inbound
// game updates are routed through this, never through a client-supplied
// room code, so a malicious client cannot inject into another match.
type Directory interface {
	Register(connID, name string, settings json.RawMessage)
	Attach(connID, roomCode string, isHost bool)
	Lookup(connID string) (Entry, bool)
	Remove(connID string)
}

type memDirectory struct {
	entries map[string]Entry
}

func NewDirectory() Directory {
	return &memDirectory{entries: make(map[string]Entry)}
}

func (m *memDirectory) Register(connID, name string, settings json.RawMessage) {
	if name == "" {
		name = "Player"
	}
	e := m.entries[connID] // keep room association if re-registering
	e.Name = name
	e.Settings = settings
	m.entries[connID] = e
}

func (m *memDirectory) Attach(connID, roomCode string, isHost bool) {
	e := m.entries[connID]
	e.RoomCode = roomCode
	e.IsHost = isHost
	m.entries[connID] = e
}

func (m *memDirectory) Lookup(connID string) (Entry, bool) {
	e, ok := m.entries[connID]
	return e, ok
}

func (m *memDirectory) Remove(connID string) {
	delete(m.entries, connID)
}
