package game

// Score counts a Go position. Empty regions bordered by a single color count
// as that color's territory; regions touching both colors (or nothing) are
// neutral. Area scoring adds own stones on the board, territory scoring adds
// prisoners instead. Komi is credited to white. The count is mechanical:
// no dead-stone negotiation happens here, so the result of a game ended by
// double pass is provisional.
func (g *Game) Score() (black, white float64) {
	b := g.Board
	visited := make([]bool, b.size*b.size)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			idx := r*b.size + c
			if visited[idx] {
				continue
			}
			s := b.at(r, c)
			if s != Empty {
				if g.Rules.Scoring != ScoringTerritory {
					if s == Black {
						black++
					} else {
						white++
					}
				}
				continue
			}
			region, owner := emptyRegion(b, r, c, visited)
			switch owner {
			case Black:
				black += float64(len(region))
			case White:
				white += float64(len(region))
			}
		}
	}
	if g.Rules.Scoring == ScoringTerritory {
		black += float64(g.Captured[Black])
		white += float64(g.Captured[White])
	}
	white += g.Rules.Komi
	return black, white
}

// emptyRegion flood-fills the empty region containing (r,c) and reports the
// single bordering color, or Empty if the region touches both colors or none.
func emptyRegion(b *Board, r, c int, visited []bool) ([]Coord, Stone) {
	stack := []Coord{{Row: r, Col: c}}
	visited[r*b.size+c] = true
	region := []Coord{}
	owner := Empty
	mixed := false
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, p)
		for _, n := range b.Neighbors(p.Row, p.Col) {
			switch s := b.at(n.Row, n.Col); s {
			case Empty:
				idx := n.Row*b.size + n.Col
				if !visited[idx] {
					visited[idx] = true
					stack = append(stack, n)
				}
			default:
				if owner == Empty {
					owner = s
				} else if owner != s {
					mixed = true
				}
			}
		}
	}
	if mixed {
		return region, Empty
	}
	return region, owner
}
