// internal/arena/session.go
//
// Session state tracked per match: the rules engine instance, the two seats,
// and the move history used for SGF export.

package arena

import (
	"fmt"
	"time"

	"github.com/stonegarden/goban/internal/game"
)

// MoveRecord is one entry of a session's move history.
type MoveRecord struct {
	Color game.Stone `json:"color"`
	Row   int        `json:"row"`
	Col   int        `json:"col"`
	Pass  bool       `json:"pass,omitempty"`
}

// Session is the per-game state the arena tracks around the rules engine.
type Session struct {
	ID      string
	Rules   game.RuleSet
	Game    *game.Game
	Black   string // player id seated as black ("" while vacant)
	White   string
	Moves   []MoveRecord
	Result  string // SGF-style result once finished ("B+R", "W+2.5", ...)
	Created time.Time
	Updated time.Time
}

// Seat resolves a player id to a color. Spectators and unknown ids map to
// Empty.
func (s *Session) Seat(playerID string) game.Stone {
	switch {
	case playerID != "" && s.Black == playerID:
		return game.Black
	case playerID != "" && s.White == playerID:
		return game.White
	default:
		return game.Empty
	}
}

// Snapshot returns a deep copy safe to hand to callers while the original
// keeps mutating under the service lock.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Game = snapshotGame(s.Game)
	cp.Moves = append([]MoveRecord(nil), s.Moves...)
	return &cp
}

func snapshotGame(g *game.Game) *game.Game {
	cp := *g
	cp.Board = g.Board.Clone()
	cp.Captured = map[game.Stone]int{
		game.Black: g.Captured[game.Black],
		game.White: g.Captured[game.White],
	}
	if g.KoPoint != nil {
		ko := *g.KoPoint
		cp.KoPoint = &ko
	}
	return &cp
}

// resultString renders a finished game the SGF way. Score-based results show
// the margin, resignations "B+R"/"W+R", line wins an unspecified margin, and
// a draw "0".
func resultString(winner game.Stone, score *game.ScoreResult, resigned bool) string {
	if score != nil {
		switch {
		case score.Black > score.White:
			return fmt.Sprintf("B+%.1f", score.Black-score.White)
		case score.White > score.Black:
			return fmt.Sprintf("W+%.1f", score.White-score.Black)
		default:
			return "0"
		}
	}
	suffix := "+"
	if resigned {
		suffix = "+R"
	}
	switch winner {
	case game.Black:
		return "B" + suffix
	case game.White:
		return "W" + suffix
	default:
		return "0"
	}
}
