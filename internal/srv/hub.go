// internal/srv/hub.go
package srv

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/xuanthe01656/astro-cat/internal/protocol"
)

// Config tunes the relay. Zero values get the production defaults.
type Config struct {
	MinScoreInterval time.Duration // anti-cheat: minimum gap between accepted increments
	ReapInterval     time.Duration // how often the idle-room reaper runs
	WaitingRoomTTL   time.Duration // how long a waiting room may sit before eviction
}

func (c Config) withDefaults() Config {
	if c.MinScoreInterval == 0 {
		c.MinScoreInterval = time.Second
	}
	if c.ReapInterval == 0 {
		c.ReapInterval = 5 * time.Minute
	}
	if c.WaitingRoomTTL == 0 {
		c.WaitingRoomTTL = 10 * time.Minute
	}
	return c
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
	name string
}

// Hub owns the connection set, the registry/directory behind the
// relay, and the reaper job. One hub per process; everything mutates
// under h.mu, so relay operations are atomic with respect to each
// other exactly like callbacks on a single-threaded event loop.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	relay   *Relay
	cfg     Config
	sched   gocron.Scheduler
}

func NewHub(cfg Config) *Hub {
	cfg = cfg.withDefaults()
	h := &Hub{
		clients: make(map[string]*client),
		cfg:     cfg,
	}
	h.relay = NewRelay(NewRegistry(), NewDirectory(), h, cfg.MinScoreInterval)
	return h
}

// Send implements Sender. Called with h.mu held (relay operations run
// under the lock), so it must not lock and must not block: sendJSON
// drops the frame if the client's queue is full.
func (h *Hub) Send(connID, typ string, v interface{}) {
	if c, ok := h.clients[connID]; ok {
		sendJSON(c, typ, v)
	}
}

// HandleWS owns a freshly upgraded connection until it dies.
func (h *Hub) HandleWS(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 64), id: uuid.NewString()}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Printf("CONNECT conn=%s", c.id)

	go c.writer()
	c.reader(h)
}

func (c *client) reader(h *Hub) {
	defer func() {
		c.conn.Close()
		h.mu.Lock()
		h.relay.Disconnect(c.id)
		delete(h.clients, c.id)
		h.mu.Unlock()
		close(c.send)
		log.Printf("DISCONNECT conn=%s name=%q", c.id, c.name)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env protocol.MsgEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("WS bad frame conn=%s: %v", c.id, err)
			continue
		}
		h.dispatch(c, env)
	}
}

// dispatch routes one inbound event. The lock spans the whole handler,
// so a message is fully applied before the next one touches shared
// state. Malformed payloads decode to zero values and at worst produce
// a dropped update, never a fault.
func (h *Hub) dispatch(c *client, env protocol.MsgEnvelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch env.Type {
	case "join-lobby":
		var m protocol.JoinLobby
		_ = json.Unmarshal(env.Data, &m)
		c.name = m.Name
		h.relay.JoinLobby(c.id, m)
	case "create-room":
		var m protocol.CreateRoom
		_ = json.Unmarshal(env.Data, &m)
		c.name = m.Name
		h.relay.CreateRoom(c.id, m)
	case "join-room":
		var m protocol.JoinRoom
		_ = json.Unmarshal(env.Data, &m)
		c.name = m.PlayerName
		h.relay.JoinRoom(c.id, m)
	case "game-update":
		var m protocol.GameUpdate
		_ = json.Unmarshal(env.Data, &m)
		h.relay.GameUpdate(c.id, m)
	default:
		log.Printf("WS unknown msg type=%q conn=%s", env.Type, c.id)
	}
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func sendJSON(c *client, typ string, v interface{}) {
	b, _ := json.Marshal(v)
	env := protocol.MsgEnvelope{Type: typ, Data: b}
	out, _ := json.Marshal(env)
	select {
	case c.send <- out:
	default:
	}
}
