package protocol

import "encoding/json"

// Envelope. Every frame on the wire is {"type": ..., "data": ...}.
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ================= C -> S =================

// JoinLobby registers a display name and cosmetic settings for the
// connection before it creates or joins a room. Settings are an opaque
// client blob (skin, background); the server passes them through and
// never interprets them.
type JoinLobby struct {
	Name     string          `json:"name"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

type CreateRoom struct {
	Name     string          `json:"name"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

type JoinRoom struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// GameUpdate carries the sender's claimed cumulative score and death
// flag. The score is a claim, not a fact: the relay validates it before
// anything reaches the opponent.
type GameUpdate struct {
	Score  int  `json:"score"`
	IsDead bool `json:"isDead"`
}

// ================= S -> C =================

type RoomCreated struct {
	RoomCode string `json:"roomCode"`
}

type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsDead bool   `json:"isDead"`
	IsHost bool   `json:"isHost"`
}

type GameStart struct {
	Players []PlayerInfo `json:"players"`
}

type OpponentUpdate struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	IsDead   bool   `json:"isDead"`
}

type GameFinished struct{}

type OpponentDisconnected struct {
	PlayerID string `json:"playerId"`
}

type JoinFailed struct {
	Error string `json:"error"`
}
