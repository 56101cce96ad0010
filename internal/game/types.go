// internal/game/types.go
//
// Core type definitions for the board-game rules engine.
// Defines:
//   - Stone: cell/player state (empty/black/white).
//   - Kind, Scoring, Status: game configuration and lifecycle enums.
//   - Coord, RuleSet, MoveResult: the values exchanged with callers.

package game

import "fmt"

// Stone is the state of a single board cell and doubles as a player color.
type Stone uint8

const (
	Empty Stone = iota
	Black
	White
)

// Opponent returns the other player color. Empty maps to Empty.
func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Kind selects which rules govern a game.
type Kind string

const (
	KindGomoku Kind = "gomoku"
	KindGo     Kind = "go"
)

// Scoring selects how a finished Go game is counted.
type Scoring string

const (
	ScoringArea      Scoring = "area"
	ScoringTerritory Scoring = "territory"
)

// Status is the lifecycle of a game. Transitions are one-directional:
// waiting -> active -> finished.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Coord addresses a board cell, 0-indexed from the top-left.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RuleSet is the immutable per-game configuration supplied at creation.
// Komi, Handicap and Scoring apply to Go only; AllowOverlines to Gomoku only.
type RuleSet struct {
	Kind           Kind    `json:"kind"`
	BoardSize      int     `json:"boardSize"`
	AllowOverlines bool    `json:"allowOverlines,omitempty"`
	Komi           float64 `json:"komi,omitempty"`
	Handicap       int     `json:"handicap,omitempty"`
	Scoring        Scoring `json:"scoring,omitempty"`
}

var (
	gomokuSizes = map[int]bool{9: true, 13: true, 15: true, 19: true, 25: true}
	goSizes     = map[int]bool{9: true, 13: true, 19: true}
)

// Validate checks that the rule set describes a playable game.
func (rs RuleSet) Validate() error {
	switch rs.Kind {
	case KindGomoku:
		if !gomokuSizes[rs.BoardSize] {
			return fmt.Errorf("%w: gomoku board size %d", ErrInvalidRuleSet, rs.BoardSize)
		}
	case KindGo:
		if !goSizes[rs.BoardSize] {
			return fmt.Errorf("%w: go board size %d", ErrInvalidRuleSet, rs.BoardSize)
		}
		if rs.Handicap < 0 || rs.Handicap > 9 {
			return fmt.Errorf("%w: handicap %d", ErrInvalidRuleSet, rs.Handicap)
		}
		if rs.Scoring != "" && rs.Scoring != ScoringArea && rs.Scoring != ScoringTerritory {
			return fmt.Errorf("%w: scoring %q", ErrInvalidRuleSet, rs.Scoring)
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidRuleSet, rs.Kind)
	}
	return nil
}

// ScoreResult is a provisional point count for a Go game.
type ScoreResult struct {
	Black float64 `json:"black"`
	White float64 `json:"white"`
}

// MoveResult describes the outcome of an accepted move, pass or resignation.
type MoveResult struct {
	Placed      *Coord       `json:"placed,omitempty"`
	Pass        bool         `json:"pass,omitempty"`
	Captured    []Coord      `json:"captured,omitempty"`
	WinningMove bool         `json:"winningMove,omitempty"`
	Winner      Stone        `json:"-"`
	Status      Status       `json:"status"`
	NextPlayer  Stone        `json:"-"`
	Score       *ScoreResult `json:"score,omitempty"`
}
