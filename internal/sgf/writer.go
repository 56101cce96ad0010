// Package sgf writes SGF FF[4] game records for finished or in-progress
// matches. Go games use GM[1], Gomoku GM[4].
package sgf

import (
	"fmt"
	"strings"

	"github.com/stonegarden/goban/internal/game"
)

// Move is a single record entry. Pass moves carry no coordinate.
type Move struct {
	Color game.Stone
	Row   int
	Col   int
	Pass  bool
}

// Record holds everything needed to serialize one game.
type Record struct {
	Kind        game.Kind
	BoardSize   int
	Komi        float64
	Handicap    int
	PlayerBlack string
	PlayerWhite string
	Date        string // YYYY-MM-DD
	Result      string // "B+R", "W+2.5", "?" while unfinished
	Setup       []game.Coord // pre-placed black stones (handicap)
	Moves       []Move
}

// coord converts a 0-indexed (row,col) to the SGF letter pair; SGF orders
// column first. (0,0) -> "aa", (4,3) -> "de".
func coord(row, col int) string {
	return string(rune('a'+col)) + string(rune('a'+row))
}

// Encode renders the record as a single SGF game tree.
func Encode(r Record) string {
	var sb strings.Builder
	sb.WriteString("(;GM[")
	if r.Kind == game.KindGomoku {
		sb.WriteString("4")
	} else {
		sb.WriteString("1")
	}
	sb.WriteString("]FF[4]CA[UTF-8]")
	fmt.Fprintf(&sb, "SZ[%d]", r.BoardSize)
	if r.Kind == game.KindGo {
		fmt.Fprintf(&sb, "KM[%.1f]", r.Komi)
		if r.Handicap >= 2 {
			fmt.Fprintf(&sb, "HA[%d]", r.Handicap)
		}
	}
	if r.PlayerBlack != "" {
		fmt.Fprintf(&sb, "PB[%s]", escape(r.PlayerBlack))
	}
	if r.PlayerWhite != "" {
		fmt.Fprintf(&sb, "PW[%s]", escape(r.PlayerWhite))
	}
	if r.Date != "" {
		fmt.Fprintf(&sb, "DT[%s]", r.Date)
	}
	result := r.Result
	if result == "" {
		result = "?"
	}
	fmt.Fprintf(&sb, "RE[%s]", escape(result))
	if len(r.Setup) > 0 {
		sb.WriteString("AB")
		for _, p := range r.Setup {
			fmt.Fprintf(&sb, "[%s]", coord(p.Row, p.Col))
		}
	}
	for _, m := range r.Moves {
		color := "B"
		if m.Color == game.White {
			color = "W"
		}
		if m.Pass {
			fmt.Fprintf(&sb, ";%s[]", color)
		} else {
			fmt.Fprintf(&sb, ";%s[%s]", color, coord(m.Row, m.Col))
		}
	}
	sb.WriteString(")")
	return sb.String()
}

// escape protects SGF text property values; ']' and '\' must be escaped.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `]`, `\]`)
}
