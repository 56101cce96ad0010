// internal/game/game.go
//
// Game state and the move pipeline shared by Gomoku and Go.
// Responsibilities:
//   - Carry the per-game state (board, turn, status, captures, ko, passes).
//   - Validate moves without mutating anything visible on rejection.
//   - Apply accepted moves: placement, captures, win/draw detection, turn flip.
//   - Pass and resignation handling, including the double-pass game end.
//
// The engine knows nothing about players beyond their color; mapping user
// identity to Black/White is the caller's job. It performs no I/O and holds
// no shared state, so callers only need to serialize mutations per game.

package game

// Game is the full state of one match. Fields are exported for callers that
// snapshot or serialize state; mutate only through the methods below.
type Game struct {
	Rules      RuleSet
	Board      *Board
	Current    Stone
	MoveNumber int
	Status     Status
	Winner     Stone
	Captured   map[Stone]int // stones captured BY each color (Go)
	KoPoint    *Coord        // forbidden recapture coordinate, one ply only
	Passes     int           // consecutive passes (Go)

	gomoku GomokuRules
}

// New creates a game in the waiting state. For Go games with a handicap of
// two or more, black's stones are pre-placed on the star points and white
// takes the first turn.
func New(rs RuleSet) (*Game, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if rs.Kind == KindGo && rs.Scoring == "" {
		rs.Scoring = ScoringArea
	}
	g := &Game{
		Rules:    rs,
		Board:    NewBoard(rs.BoardSize),
		Current:  Black,
		Status:   StatusWaiting,
		Captured: map[Stone]int{Black: 0, White: 0},
		gomoku:   GomokuRules{AllowOverlines: rs.AllowOverlines},
	}
	if rs.Kind == KindGo && rs.Handicap >= 2 {
		for _, p := range HandicapPoints(rs.BoardSize, rs.Handicap) {
			g.Board.set(p.Row, p.Col, Black)
		}
		g.Current = White
	}
	return g, nil
}

// SetForbiddenMove installs a Renju-style placement restriction for Gomoku.
func (g *Game) SetForbiddenMove(f ForbiddenMoveFunc) { g.gomoku.Forbidden = f }

// Start moves the game from waiting to active. Starting an active game is a
// no-op; a finished game cannot restart.
func (g *Game) Start() error {
	switch g.Status {
	case StatusWaiting:
		g.Status = StatusActive
		return nil
	case StatusActive:
		return nil
	default:
		return ErrGameAlreadyFinished
	}
}

// Validate checks a stone placement without committing it. It is free of
// side effects: calling it any number of times with the same input yields
// the same verdict and leaves the game untouched.
func (g *Game) Validate(s Stone, r, c int) error {
	_, _, err := g.tryMove(s, r, c)
	return err
}

// tryMove runs the full legality pipeline on a cloned board and, on success,
// returns the board as it would look after the move plus any captures.
// Nothing visible to callers is mutated.
func (g *Game) tryMove(s Stone, r, c int) (*Board, []Coord, error) {
	switch g.Status {
	case StatusFinished:
		return nil, nil, ErrGameAlreadyFinished
	case StatusActive:
	default:
		return nil, nil, ErrGameNotActive
	}
	if s != g.Current {
		return nil, nil, ErrNotYourTurn
	}
	if !g.Board.InBounds(r, c) {
		return nil, nil, ErrOutOfBounds
	}
	if g.Board.at(r, c) != Empty {
		return nil, nil, ErrCellOccupied
	}

	if g.Rules.Kind == KindGomoku {
		if g.gomoku.Forbidden != nil && g.gomoku.Forbidden(g.Board, r, c, s) {
			return nil, nil, ErrForbiddenMove
		}
		next := g.Board.Clone()
		next.set(r, c, s)
		return next, nil, nil
	}

	// Go: tentative placement, capture resolution, then suicide and ko.
	next := g.Board.Clone()
	next.set(r, c, s)
	captured := resolveCaptures(next, Coord{Row: r, Col: c}, s)
	if len(captured) == 0 && len(Liberties(next, FindGroup(next, r, c))) == 0 {
		return nil, nil, ErrIllegalSuicide
	}
	if g.KoPoint != nil && g.KoPoint.Row == r && g.KoPoint.Col == c {
		return nil, nil, ErrKoViolation
	}
	return next, captured, nil
}

// Move validates and commits a stone placement, returning what changed.
func (g *Game) Move(s Stone, r, c int) (*MoveResult, error) {
	next, captured, err := g.tryMove(s, r, c)
	if err != nil {
		return nil, err
	}

	g.Board = next
	g.MoveNumber++
	g.Passes = 0
	placed := Coord{Row: r, Col: c}
	res := &MoveResult{Placed: &placed, Captured: captured, Winner: Empty}

	switch g.Rules.Kind {
	case KindGomoku:
		switch {
		case g.gomoku.CheckWin(g.Board, r, c, s):
			g.Status = StatusFinished
			g.Winner = s
			res.WinningMove = true
			res.Winner = s
		case g.Board.IsFull():
			// draw: finished with no winner
			g.Status = StatusFinished
		default:
			g.Current = s.Opponent()
		}
	case KindGo:
		g.Captured[s] += len(captured)
		g.KoPoint = koPointAfter(g.Board, placed, captured)
		g.Current = s.Opponent()
	}

	res.Status = g.Status
	res.NextPlayer = g.Current
	return res, nil
}

// Pass records a pass (Go only). The second consecutive pass finishes the
// game; the winner is left unset and a provisional score is reported for the
// caller to resolve.
func (g *Game) Pass(s Stone) (*MoveResult, error) {
	if g.Rules.Kind != KindGo {
		return nil, ErrPassNotAllowed
	}
	switch g.Status {
	case StatusFinished:
		return nil, ErrGameAlreadyFinished
	case StatusActive:
	default:
		return nil, ErrGameNotActive
	}
	if s != g.Current {
		return nil, ErrNotYourTurn
	}

	g.MoveNumber++
	g.Passes++
	g.KoPoint = nil
	res := &MoveResult{Pass: true, Winner: Empty}
	if g.Passes >= 2 {
		g.Status = StatusFinished
		black, white := g.Score()
		res.Score = &ScoreResult{Black: black, White: white}
	} else {
		g.Current = s.Opponent()
	}
	res.Status = g.Status
	res.NextPlayer = g.Current
	return res, nil
}

// Resign ends the game immediately in favor of the opponent. It is legal
// from any non-finished state; resigning a finished game is rejected.
func (g *Game) Resign(s Stone) (*MoveResult, error) {
	if g.Status == StatusFinished {
		return nil, ErrGameAlreadyFinished
	}
	g.Status = StatusFinished
	g.Winner = s.Opponent()
	return &MoveResult{Winner: g.Winner, Status: g.Status, NextPlayer: g.Current}, nil
}
