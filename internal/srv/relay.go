package srv

import (
	"log"
	"time"

	"github.com/xuanthe01656/astro-cat/internal/protocol"
)

// Sender delivers one outbound event to one connection. The hub is the
// real implementation; tests substitute a recording fake.
type Sender interface {
	Send(connID, typ string, v interface{})
}

// Relay is the protocol engine: room creation, joining, score
// forwarding, anti-cheat, match termination. It owns all writes to the
// registry and the directory. Not safe for concurrent use; the hub
// calls it under its lock, one inbound event at a time.
type Relay struct {
	reg Registry
	dir Directory
	out Sender

	// minimum gap between accepted score increments. The fastest a
	// player can physically clear consecutive obstacles is just over a
	// second, so anything quicker is a flood.
	minScoreInterval time.Duration
}

func NewRelay(reg Registry, dir Directory, out Sender, minScoreInterval time.Duration) *Relay {
	return &Relay{reg: reg, dir: dir, out: out, minScoreInterval: minScoreInterval}
}

func (rl *Relay) JoinLobby(connID string, m protocol.JoinLobby) {
	rl.dir.Register(connID, m.Name, m.Settings)
	log.Printf("LOBBY conn=%s name=%q", connID, m.Name)
}

func (rl *Relay) CreateRoom(connID string, m protocol.CreateRoom) {
	rl.dir.Register(connID, m.Name, m.Settings)

	room, err := rl.reg.Create(connID, m.Name)
	if err != nil {
		log.Printf("CREATE failed conn=%s: %v", connID, err)
		rl.out.Send(connID, "join-failed", protocol.JoinFailed{Error: "Could not create room"})
		return
	}
	rl.dir.Attach(connID, room.Code, true)

	rl.out.Send(connID, "room-created", protocol.RoomCreated{RoomCode: room.Code})
	log.Printf("CREATE room=%s host=%q", room.Code, m.Name)
}

func (rl *Relay) JoinRoom(connID string, m protocol.JoinRoom) {
	room, err := rl.reg.Join(m.RoomCode, connID, m.PlayerName)
	if err != nil {
		rl.out.Send(connID, "join-failed", protocol.JoinFailed{Error: joinFailMessage(err)})
		log.Printf("JOIN failed room=%s conn=%s: %v", m.RoomCode, connID, err)
		return
	}
	rl.dir.Attach(connID, room.Code, false)

	// Both participants get the full roster so each learns the
	// opponent's name and id without a follow-up lookup.
	start := protocol.GameStart{Players: roster(room)}
	for _, p := range room.Players {
		rl.out.Send(p.ConnID, "game-start", start)
	}
	log.Printf("JOIN room=%s player=%q players=%d", room.Code, m.PlayerName, len(room.Players))
}

// GameUpdate validates a score/death claim, stores what survives the
// gate, forwards the stored values to the opponent, and arbitrates
// match end. The relay is the sole source of truth for what the
// opponent observes: a rejected claim never leaks, not even transiently.
func (rl *Relay) GameUpdate(connID string, m protocol.GameUpdate) {
	// Route via the connection's own recorded room, never a
	// client-supplied code. Unresolved just means a disconnect race;
	// drop silently.
	e, ok := rl.dir.Lookup(connID)
	if !ok || e.RoomCode == "" {
		return
	}
	room, ok := rl.reg.Get(e.RoomCode)
	if !ok {
		return
	}

	p := room.Player(connID)
	if p == nil {
		return
	}

	if m.Score > p.Score {
		now := time.Now()
		// Accept only a +1 step at gameplay cadence. Anything else is
		// a spoofed jump or an update flood; keep the stored score.
		if m.Score-p.Score > 1 || now.Sub(p.LastScoreUpdate) < rl.minScoreInterval {
			log.Printf("CHEAT room=%s conn=%s claim=%d have=%d", room.Code, connID, m.Score, p.Score)
		} else {
			p.Score = m.Score
			p.LastScoreUpdate = now
		}
	}
	if m.IsDead {
		p.IsDead = true
	}

	if opp := room.Opponent(connID); opp != nil {
		rl.out.Send(opp.ConnID, "opponent-update", protocol.OpponentUpdate{
			PlayerID: connID,
			Score:    p.Score,
			IsDead:   p.IsDead,
		})
	}

	// Sole arbiter of match end: both dead -> broadcast and delete.
	// Directory entries stay behind until each disconnect; harmless,
	// since every lookup re-checks the registry.
	if len(room.Players) == 2 && room.Players[0].IsDead && room.Players[1].IsDead {
		for _, pl := range room.Players {
			rl.out.Send(pl.ConnID, "game-finished", protocol.GameFinished{})
		}
		rl.reg.Delete(room.Code)
		log.Printf("FINISH room=%s", room.Code)
	}
}

// Disconnect tears down the connection's room, if any. A match cannot
// continue 1-vs-0 and there is no reconnection grace period.
func (rl *Relay) Disconnect(connID string) {
	if e, ok := rl.dir.Lookup(connID); ok && e.RoomCode != "" {
		if room, ok := rl.reg.Get(e.RoomCode); ok {
			if opp := room.Opponent(connID); opp != nil {
				rl.out.Send(opp.ConnID, "opponent-disconnected", protocol.OpponentDisconnected{PlayerID: connID})
			}
			rl.reg.Delete(room.Code)
			log.Printf("ROOM %s deleted (player disconnect)", room.Code)
		}
	}
	rl.dir.Remove(connID)
}

// ReapIdle evicts rooms stuck waiting for an opponent past ttl. A host
// who abandons the tab before anyone joins would otherwise leak the
// room forever; there is no client-side cancel. Playing rooms are never
// age-reaped, their lifecycle belongs to GameUpdate/Disconnect.
func (rl *Relay) ReapIdle(ttl time.Duration) int {
	n := 0
	for _, room := range rl.reg.Rooms() {
		if room.Status == StatusWaiting && time.Since(room.CreatedAt) > ttl {
			rl.reg.Delete(room.Code)
			log.Printf("REAP room=%s age=%s", room.Code, time.Since(room.CreatedAt).Round(time.Second))
			n++
		}
	}
	return n
}

func roster(room *Room) []protocol.PlayerInfo {
	out := make([]protocol.PlayerInfo, 0, len(room.Players))
	for _, p := range room.Players {
		out = append(out, protocol.PlayerInfo{
			ID:     p.ConnID,
			Name:   p.Name,
			Score:  p.Score,
			IsDead: p.IsDead,
			IsHost: p.IsHost,
		})
	}
	return out
}

// joinFailMessage maps registry errors to the reason strings the
// client already knows how to display.
func joinFailMessage(err error) string {
	switch err {
	case ErrRoomNotFound:
		return "Room not found"
	case ErrRoomUnavailable:
		return "Room is full or game started"
	default:
		return "Could not join room"
	}
}
