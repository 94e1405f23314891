package srv

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

// Start launches the idle-room reaper. Rooms stuck waiting for a
// second player past WaitingRoomTTL are evicted every ReapInterval.
func (h *Hub) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(h.cfg.ReapInterval),
		gocron.NewTask(func() {
			h.mu.Lock()
			n := h.relay.ReapIdle(h.cfg.WaitingRoomTTL)
			h.mu.Unlock()
			if n > 0 {
				log.Printf("REAPER evicted %d idle room(s)", n)
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	h.sched = sched
	return nil
}

// Stop shuts the reaper down. Live connections are left to close on
// their own; match state is ephemeral and worthless across a restart.
func (h *Hub) Stop() {
	if h.sched != nil {
		_ = h.sched.Shutdown()
		h.sched = nil
	}
}
