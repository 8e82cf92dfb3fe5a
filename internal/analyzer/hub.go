package analyzer

import (
	"sync"

	"github.com/RMahshie/wifiscope/pkg/models"
)

// hub fans scan events out to subscribers. Every subscriber holds at most one
// pending event; a newer event replaces an unread one.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan models.ScanEvent
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan models.ScanEvent)}
}

func (h *hub) subscribe() (<-chan models.ScanEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.ScanEvent, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

func (h *hub) publish(ev models.ScanEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
			continue
		default:
		}
		// Drop the stale event, then deliver the latest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
