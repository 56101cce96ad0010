// internal/game/gomoku.go
//
// Win detection for Gomoku. A placed stone wins if it completes a line of
// five in any of the four axis directions. Under standard rules a line of
// six or more (an overline) does not win; freestyle rules accept any run
// of five or longer.

package game

const gomokuWinLength = 5

// axes lists the four line directions: horizontal, vertical, both diagonals.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// ForbiddenMoveFunc is a hook for Renju-style placement restrictions
// (double-threes, overline bans for black, ...). It is consulted after the
// occupancy check and before the stone is placed; returning true rejects
// the move with ErrForbiddenMove.
type ForbiddenMoveFunc func(b *Board, r, c int, s Stone) bool

// GomokuRules evaluates line wins for one configured game.
type GomokuRules struct {
	AllowOverlines bool
	Forbidden      ForbiddenMoveFunc
}

// CheckWin reports whether the stone at (r,c) completes a winning line.
// The maximal contiguous run through the placed stone is counted per axis:
// exactly five always wins, six or more only when overlines are allowed.
// Note a run of six has no winning five-subsegment under standard rules,
// so counting the maximal run is sufficient.
func (gr GomokuRules) CheckWin(b *Board, r, c int, s Stone) bool {
	for _, d := range axes {
		run := 1 + countRun(b, r, c, d[0], d[1], s) + countRun(b, r, c, -d[0], -d[1], s)
		if gr.AllowOverlines {
			if run >= gomokuWinLength {
				return true
			}
		} else if run == gomokuWinLength {
			return true
		}
	}
	return false
}

// countRun counts contiguous stones of color s strictly beyond (r,c)
// in direction (dr,dc).
func countRun(b *Board, r, c, dr, dc int, s Stone) int {
	n := 0
	for nr, nc := r+dr, c+dc; b.InBounds(nr, nc) && b.at(nr, nc) == s; nr, nc = nr+dr, nc+dc {
		n++
	}
	return n
}
