// internal/game/board.go
//
// Fixed-size square grid shared by both rule sets. The board stores cell
// states row-major and answers basic geometry queries (bounds, orthogonal
// neighbors, fullness). It performs no game-rule checks beyond bounds;
// occupancy is the caller's concern.

package game

type Board struct {
	size  int
	cells []Stone
}

// NewBoard allocates an empty size x size board.
func NewBoard(size int) *Board {
	return &Board{size: size, cells: make([]Stone, size*size)}
}

func (b *Board) Size() int { return b.size }

// InBounds reports whether (r,c) addresses a cell.
func (b *Board) InBounds(r, c int) bool {
	return r >= 0 && r < b.size && c >= 0 && c < b.size
}

// At returns the cell state, or ErrOutOfBounds.
func (b *Board) At(r, c int) (Stone, error) {
	if !b.InBounds(r, c) {
		return Empty, ErrOutOfBounds
	}
	return b.cells[r*b.size+c], nil
}

// Set writes a cell state, or returns ErrOutOfBounds. It does not check
// whether the cell was empty.
func (b *Board) Set(r, c int, s Stone) error {
	if !b.InBounds(r, c) {
		return ErrOutOfBounds
	}
	b.cells[r*b.size+c] = s
	return nil
}

// at and set are the unchecked accessors used internally once bounds are known.
func (b *Board) at(r, c int) Stone     { return b.cells[r*b.size+c] }
func (b *Board) set(r, c int, s Stone) { b.cells[r*b.size+c] = s }

// Neighbors returns the up-to-four orthogonally adjacent coordinates,
// clipped to the board. Diagonals are never included.
func (b *Board) Neighbors(r, c int) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nr, nc := r+d[0], c+d[1]
		if b.InBounds(nr, nc) {
			out = append(out, Coord{Row: nr, Col: nc})
		}
	}
	return out
}

// IsFull reports whether no empty cells remain.
func (b *Board) IsFull() bool {
	for _, s := range b.cells {
		if s == Empty {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Stone, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// String renders the board as ASCII rows ('.', 'B', 'W'), one line per row.
// Handy in logs and test failures.
func (b *Board) String() string {
	out := make([]byte, 0, b.size*(b.size+1))
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			switch b.at(r, c) {
			case Black:
				out = append(out, 'B')
			case White:
				out = append(out, 'W')
			default:
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}
