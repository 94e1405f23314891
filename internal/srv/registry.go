package srv

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting" // one player, awaiting opponent
	StatusPlaying RoomStatus = "playing" // two players, match live
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomUnavailable    = errors.New("room is full or game started")
	ErrCodeSpaceExhausted = errors.New("no free room codes")
)

// PlayerState is one participant's live match data. The relay is the
// only writer; Score moves up by exactly one per accepted update and
// IsDead only ever flips false -> true.
type PlayerState struct {
	ConnID          string
	Name            string
	Score           int
	IsDead          bool
	IsHost          bool
	LastScoreUpdate time.Time
}

// Room is one 2-player match session. It is created waiting with the
// host alone, flips to playing on the second join, and is deleted on
// finish or disconnect. Never reused, never reset to waiting.
type Room struct {
	Code       string
	CreatedAt  time.Time
	HostConnID string
	Players    []*PlayerState
	Status     RoomStatus
}

// Player returns the participant bound to connID, or nil.
func (r *Room) Player(connID string) *PlayerState {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// Opponent returns the other participant, or nil while waiting.
func (r *Room) Opponent(connID string) *PlayerState {
	for _, p := range r.Players {
		if p.ConnID != connID {
			return p
		}
	}
	return nil
}

// Registry is the authoritative store of live rooms. Implementations
// are not safe for concurrent use on their own; the hub serializes all
// access under its lock.
type Registry interface {
	Create(hostConnID, hostName string) (*Room, error)
	Get(code string) (*Room, bool)
	Join(code, connID, name string) (*Room, error)
	Delete(code string)
	Rooms() []*Room
}

// codeRetries bounds the uniqueness loop. The space is 9000 codes and
// rooms live minutes, so collisions are rare; the bound turns a
// pathological full registry into an error instead of a spin.
const codeRetries = 1000

type memRegistry struct {
	rooms map[string]*Room
}

func NewRegistry() Registry {
	return &memRegistry{rooms: make(map[string]*Room)}
}

// genCode returns a 4-digit numeric code, 1000-9999. Human-typable;
// always server-chosen.
func genCode() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}

func (m *memRegistry) Create(hostConnID, hostName string) (*Room, error) {
	code := ""
	for i := 0; i < codeRetries; i++ {
		c := genCode()
		if _, taken := m.rooms[c]; !taken {
			code = c
			break
		}
	}
	if code == "" {
		return nil, ErrCodeSpaceExhausted
	}

	now := time.Now()
	room := &Room{
		Code:       code,
		CreatedAt:  now,
		HostConnID: hostConnID,
		Status:     StatusWaiting,
		Players: []*PlayerState{{
			ConnID:          hostConnID,
			Name:            hostName,
			IsHost:          true,
			LastScoreUpdate: now,
		}},
	}
	m.rooms[code] = room
	return room, nil
}

func (m *memRegistry) Get(code string) (*Room, bool) {
	r, ok := m.rooms[code]
	return r, ok
}

func (m *memRegistry) Join(code, connID, name string) (*Room, error) {
	room, ok := m.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Status != StatusWaiting || len(room.Players) >= 2 {
		return nil, ErrRoomUnavailable
	}

	room.Players = append(room.Players, &PlayerState{
		ConnID:          connID,
		Name:            name,
		LastScoreUpdate: time.Now(),
	})
	room.Status = StatusPlaying
	return room, nil
}

func (m *memRegistry) Delete(code string) {
	delete(m.rooms, code)
}

func (m *memRegistry) Rooms() []*Room {
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}
