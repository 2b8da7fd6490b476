package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// feedBuffer is the number of undelivered messages a slow subscriber may
// hold before further messages are dropped for it.
const feedBuffer = 64

// feedMessage is what /api/feed subscribers receive: one hello on connect,
// then one message per simulated year.
type feedMessage struct {
	Type     string       `json:"type"` // "hello" or "year"
	NextYear int          `json:"next_year"`
	Year     *yearSummary `json:"year,omitempty"`
}

// feed fans year summaries out to websocket subscribers.
type feed struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]chan []byte
}

func newFeed() *feed {
	return &feed{subs: make(map[uint64]chan []byte)}
}

func (f *feed) subscribe() (uint64, <-chan []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	ch := make(chan []byte, feedBuffer)
	f.subs[f.next] = ch
	return f.next, ch
}

func (f *feed) unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
}

// publish never blocks the simulation; a full subscriber misses the message.
func (f *feed) publish(msg feedMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- b:
		default:
		}
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, out := s.feed.subscribe()
	defer s.feed.unsubscribe(id)

	s.mu.Lock()
	hello := feedMessage{Type: "hello", NextYear: s.nextYear}
	s.mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(hello); err != nil {
		return
	}

	// The client never sends anything; reading only notices the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case b := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				s.logger.Debug("feed subscriber dropped", "err", err)
				return
			}
		}
	}
}
