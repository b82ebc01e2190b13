package session

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/xaslilac/bombas/internal/grid"
)

var ErrOutOfBounds = errors.New("point is outside the board")

// Session binds one Grid to a session id and fans the grid's render signal
// out to subscribers. All grid mutation goes through Session methods, one
// operation at a time under the session lock.
type Session struct {
	mu          sync.Mutex
	id          string
	grid        *grid.Grid
	nextSub     int
	subscribers map[int]chan struct{}
}

func New(id string, g *grid.Grid) *Session {
	s := &Session{
		id:          id,
		grid:        g,
		subscribers: make(map[int]chan struct{}),
	}
	g.OnRender(s.broadcast)
	return s
}

func (s *Session) Id() string {
	return s.id
}

// Subscribe returns a channel that receives a tick after every
// state-changing operation, coalescing ticks a slow consumer misses.
// cancel detaches the subscription.
func (s *Session) Subscribe() (updates <-chan struct{}, cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	key := s.nextSub
	s.nextSub++
	s.subscribers[key] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, key)
	}
}

// broadcast runs as the grid's render callback, inside a mutating call
// that already holds the session lock.
func (s *Session) broadcast() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Open reveals the tile at p, or chords it when already revealed.
func (s *Session) Open(p grid.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.grid.Tile(p)
	if t == nil {
		return ErrOutOfBounds
	}
	s.grid.CheckLocation(t)
	return nil
}

// Mark rotates the annotation of the tile at p.
func (s *Session) Mark(p grid.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.grid.Tile(p)
	if t == nil {
		return ErrOutOfBounds
	}
	s.grid.RotateState(t)
	return nil
}

// Restart regenerates the board in place. A nil params reuses the current
// configuration. The session id and the Grid reference survive.
func (s *Session) Restart(params *grid.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if params == nil {
		p := s.grid.Params()
		params = &p
	}
	return s.grid.Reconfigure(*params)
}

// Over reports whether the game has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Over()
}

type sessionJSON struct {
	SessionId string        `json:"session_id"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	MineCount int           `json:"mine_count"`
	Layout    [][]grid.Tile `json:"layout"`
	StartedAt int64         `json:"started_at"`
	EndedAt   *int64        `json:"ended_at,omitempty"`
	Victory   bool          `json:"victory"`
}

// [Session] implements [json.Marshaler]
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endedAt *int64
	if completed, ok := s.grid.CompletedAt(); ok {
		e := completed.UnixMilli()
		endedAt = &e
	}
	return json.Marshal(sessionJSON{
		SessionId: s.id,
		Width:     s.grid.Width(),
		Height:    s.grid.Height(),
		MineCount: s.grid.MineCount(),
		Layout:    s.grid.Snapshot(),
		StartedAt: s.grid.StartedAt().UnixMilli(),
		EndedAt:   endedAt,
		Victory:   s.grid.Victory(),
	})
}
