// internal/arena/service.go
//
// Match orchestration around the rules engine.
// Responsibilities:
//   - Create sessions, seat players, resolve player ids to colors.
//   - Serialize all mutations so at most one move is in flight per game.
//   - Delegate legality and state transitions to internal/game.
//   - Fan out state snapshots to subscribers (SSE) after each change,
//     dropping subscribers that cannot keep up.

package arena

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stonegarden/goban/internal/game"
)

// Errors exposed by the arena layer. Rule rejections come from internal/game
// and pass through unchanged.
var (
	ErrNotFound   = errors.New("game not found")
	ErrNotAPlayer = errors.New("not a player")
)

// Store is the session persistence the service relies on. Implementations
// may be backed by memory, Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, sess *Session) error

	// Get retrieves a session by id; ErrNotFound if missing.
	Get(ctx context.Context, id string) (*Session, error)
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages sessions and subscribers. A single mutex serializes every
// mutation, which gives each game the at-most-one-in-flight-move guarantee
// the engine requires.
type Service struct {
	mu     sync.Mutex
	store  Store
	subs   map[string]map[*subscriber]struct{}
	render func(*Session) []byte
}

// NewService creates a service over the given store with a no-op renderer.
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		subs:   make(map[string]map[*subscriber]struct{}),
		render: func(*Session) []byte { return nil },
	}
}

// SetRenderer injects the function that turns a session snapshot into the
// payload broadcast to subscribers.
func (s *Service) SetRenderer(render func(*Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if render == nil {
		render = func(*Session) []byte { return nil }
	}
	s.render = render
}

// Create registers a new session in the waiting state.
func (s *Service) Create(ctx context.Context, rules game.RuleSet) (*Session, error) {
	g, err := game.New(rules)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	sess := &Session{
		ID:      uuid.NewString(),
		Rules:   g.Rules,
		Game:    g,
		Created: now,
		Updated: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// Get returns a snapshot of a session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// Join seats the player if a seat is free: first joiner plays black, second
// white. Rejoining returns the already-held seat; once both seats are taken
// further joiners are spectators (Empty). The game starts when the second
// seat fills.
func (s *Service) Join(ctx context.Context, id, playerID string) (game.Stone, *Session, error) {
	s.mu.Lock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return game.Empty, nil, err
	}
	seat := sess.Seat(playerID)
	if seat == game.Empty && playerID != "" {
		switch {
		case sess.Black == "":
			sess.Black = playerID
			seat = game.Black
		case sess.White == "":
			sess.White = playerID
			seat = game.White
		}
	}
	if sess.Black != "" && sess.White != "" {
		_ = sess.Game.Start()
	}
	sess.Updated = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		s.mu.Unlock()
		return game.Empty, nil, err
	}
	cp := sess.Snapshot()
	s.broadcastLocked(id, cp)
	s.mu.Unlock()
	return seat, cp, nil
}

// Move resolves the seat and applies a stone placement.
func (s *Service) Move(ctx context.Context, id, playerID string, row, col int) (*game.MoveResult, *Session, error) {
	return s.mutate(ctx, id, playerID, func(sess *Session, color game.Stone) (*game.MoveResult, error) {
		res, err := sess.Game.Move(color, row, col)
		if err != nil {
			return nil, err
		}
		sess.Moves = append(sess.Moves, MoveRecord{Color: color, Row: row, Col: col})
		if res.Status == game.StatusFinished {
			sess.Result = resultString(res.Winner, res.Score, false)
		}
		return res, nil
	})
}

// Pass applies a pass for the seated player (Go only).
func (s *Service) Pass(ctx context.Context, id, playerID string) (*game.MoveResult, *Session, error) {
	return s.mutate(ctx, id, playerID, func(sess *Session, color game.Stone) (*game.MoveResult, error) {
		res, err := sess.Game.Pass(color)
		if err != nil {
			return nil, err
		}
		sess.Moves = append(sess.Moves, MoveRecord{Color: color, Pass: true})
		if res.Status == game.StatusFinished {
			sess.Result = resultString(res.Winner, res.Score, false)
		}
		return res, nil
	})
}

// Resign ends the game in favor of the opponent.
func (s *Service) Resign(ctx context.Context, id, playerID string) (*game.MoveResult, *Session, error) {
	return s.mutate(ctx, id, playerID, func(sess *Session, color game.Stone) (*game.MoveResult, error) {
		res, err := sess.Game.Resign(color)
		if err != nil {
			return nil, err
		}
		sess.Result = resultString(res.Winner, nil, true)
		return res, nil
	})
}

// mutate is the shared locked read-modify-write path for move, pass and
// resign: resolve the seat, apply, save, broadcast.
func (s *Service) mutate(ctx context.Context, id, playerID string, apply func(*Session, game.Stone) (*game.MoveResult, error)) (*game.MoveResult, *Session, error) {
	s.mu.Lock()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	color := sess.Seat(playerID)
	if color == game.Empty {
		s.mu.Unlock()
		return nil, nil, ErrNotAPlayer
	}
	res, err := apply(sess, color)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	sess.Updated = time.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	cp := sess.Snapshot()
	s.broadcastLocked(id, cp)
	s.mu.Unlock()
	return res, cp, nil
}

// broadcastLocked renders the snapshot and fans it out, dropping subscribers
// whose channel is full. Called with s.mu held; it releases and reacquires
// nothing — channel sends are non-blocking.
func (s *Service) broadcastLocked(id string, cp *Session) {
	payload := s.render(cp)
	set := s.subs[id]
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			// drop slow subscriber
			sub.close()
			delete(set, sub)
		}
	}
}

// Subscribe registers a subscriber for a session's state broadcasts. The
// returned channel closes when the context is done or the subscriber is
// dropped; the returned func unsubscribes explicitly.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}
