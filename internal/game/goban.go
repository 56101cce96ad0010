// internal/game/goban.go
//
// Go legality and capture mechanics: stone groups, liberties, capture
// resolution, and the single-stone ko shape. These are pure functions over
// a board; the move pipeline in game.go decides when to call them and
// always works on a clone until the move is known to be legal.

package game

// FindGroup returns the maximal set of same-color stones orthogonally
// connected to (r,c), discovered by flood fill.
//
// Calling it on an empty cell is a programming error, not a game rejection,
// and panics.
func FindGroup(b *Board, r, c int) []Coord {
	s := b.at(r, c)
	if s == Empty {
		panic("game: FindGroup called on empty cell")
	}
	visited := make([]bool, b.size*b.size)
	stack := []Coord{{Row: r, Col: c}}
	visited[r*b.size+c] = true
	group := make([]Coord, 0, 4)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, p)
		for _, n := range b.Neighbors(p.Row, p.Col) {
			idx := n.Row*b.size + n.Col
			if !visited[idx] && b.at(n.Row, n.Col) == s {
				visited[idx] = true
				stack = append(stack, n)
			}
		}
	}
	return group
}

// Liberties returns the distinct empty cells orthogonally adjacent to any
// stone of the group. A group with no liberties is dead.
func Liberties(b *Board, group []Coord) []Coord {
	seen := make(map[Coord]bool)
	libs := make([]Coord, 0, 4)
	for _, p := range group {
		for _, n := range b.Neighbors(p.Row, p.Col) {
			if b.at(n.Row, n.Col) == Empty && !seen[n] {
				seen[n] = true
				libs = append(libs, n)
			}
		}
	}
	return libs
}

// resolveCaptures removes every opponent group adjacent to the freshly
// placed stone that has been left without liberties, and returns the removed
// coordinates. It must run before the suicide check: a move that kills an
// enemy group is never suicide.
func resolveCaptures(b *Board, placed Coord, s Stone) []Coord {
	opp := s.Opponent()
	var captured []Coord
	for _, n := range b.Neighbors(placed.Row, placed.Col) {
		if b.at(n.Row, n.Col) != opp {
			continue
		}
		group := FindGroup(b, n.Row, n.Col)
		if len(Liberties(b, group)) > 0 {
			continue
		}
		for _, p := range group {
			b.set(p.Row, p.Col, Empty)
			captured = append(captured, p)
		}
	}
	return captured
}

// koPointAfter computes the forbidden-recapture coordinate after a committed
// move, or nil. Ko arises only from the classic shape: exactly one stone was
// captured and the capturing stone stands alone with exactly one liberty.
// The returned point is valid for a single ply.
func koPointAfter(b *Board, placed Coord, captured []Coord) *Coord {
	if len(captured) != 1 {
		return nil
	}
	group := FindGroup(b, placed.Row, placed.Col)
	if len(group) != 1 {
		return nil
	}
	if len(Liberties(b, group)) != 1 {
		return nil
	}
	ko := captured[0]
	return &ko
}

// HandicapPoints returns the standard star-point placement for n handicap
// stones: corners first, then sides, with the center used for odd counts
// of five and above. Exported so record writers can reconstruct the setup
// position.
func HandicapPoints(size, n int) []Coord {
	if n < 2 {
		return nil
	}
	if n > 9 {
		n = 9
	}
	d := 3
	if size < 13 {
		d = 2
	}
	hi := size - 1 - d
	m := size / 2
	corners := []Coord{{Row: d, Col: hi}, {Row: hi, Col: d}, {Row: d, Col: d}, {Row: hi, Col: hi}}
	sides := []Coord{{Row: m, Col: d}, {Row: m, Col: hi}, {Row: d, Col: m}, {Row: hi, Col: m}}

	if n <= 4 {
		return corners[:n]
	}
	pts := append([]Coord{}, corners...)
	if n%2 == 1 {
		pts = append(pts, sides[:n-5]...)
		return append(pts, Coord{Row: m, Col: m})
	}
	return append(pts, sides[:n-4]...)
}
