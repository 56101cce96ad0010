// internal/game/game_test.go

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActive(t *testing.T, rs RuleSet) *Game {
	t.Helper()
	g, err := New(rs)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g
}

func gomoku15(t *testing.T) *Game {
	return newActive(t, RuleSet{Kind: KindGomoku, BoardSize: 15})
}

func go9(t *testing.T) *Game {
	return newActive(t, RuleSet{Kind: KindGo, BoardSize: 9})
}

func TestNewRejectsInvalidRules(t *testing.T) {
	cases := []RuleSet{
		{Kind: KindGomoku, BoardSize: 10},
		{Kind: KindGo, BoardSize: 15},
		{Kind: KindGo, BoardSize: 19, Handicap: 10},
		{Kind: KindGo, BoardSize: 19, Scoring: "bogus"},
		{Kind: "chess", BoardSize: 8},
	}
	for _, rs := range cases {
		_, err := New(rs)
		assert.ErrorIs(t, err, ErrInvalidRuleSet, "%+v", rs)
	}
}

func TestLifecycle(t *testing.T) {
	g, err := New(RuleSet{Kind: KindGomoku, BoardSize: 15})
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, g.Status)

	// no moves before start
	_, err = g.Move(Black, 7, 7)
	assert.ErrorIs(t, err, ErrGameNotActive)

	require.NoError(t, g.Start())
	assert.Equal(t, StatusActive, g.Status)
	require.NoError(t, g.Start(), "starting an active game is a no-op")

	_, err = g.Resign(Black)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, g.Status)

	assert.ErrorIs(t, g.Start(), ErrGameAlreadyFinished)
	_, err = g.Move(White, 0, 0)
	assert.ErrorIs(t, err, ErrGameAlreadyFinished)
	_, err = g.Resign(White)
	assert.ErrorIs(t, err, ErrGameAlreadyFinished)
}

func TestTurnAlternation(t *testing.T) {
	g := gomoku15(t)

	_, err := g.Move(White, 0, 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	res, err := g.Move(Black, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, White, res.NextPlayer)
	assert.Equal(t, 1, g.MoveNumber)

	_, err = g.Move(Black, 7, 8)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	res, err = g.Move(White, 7, 8)
	require.NoError(t, err)
	assert.Equal(t, Black, res.NextPlayer)
}

func TestMoveRejections(t *testing.T) {
	g := gomoku15(t)
	_, err := g.Move(Black, -1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = g.Move(Black, 0, 15)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = g.Move(Black, 7, 7)
	require.NoError(t, err)
	_, err = g.Move(White, 7, 7)
	assert.ErrorIs(t, err, ErrCellOccupied)
}

func TestRejectedMoveLeavesStateUntouched(t *testing.T) {
	g := go9(t)
	_, err := g.Move(Black, 4, 4)
	require.NoError(t, err)

	before := g.Board.String()
	moveNo := g.MoveNumber

	// same rejection twice, nothing changes in between
	for i := 0; i < 2; i++ {
		_, err := g.Move(White, 4, 4)
		assert.ErrorIs(t, err, ErrCellOccupied)
	}
	assert.Equal(t, before, g.Board.String())
	assert.Equal(t, moveNo, g.MoveNumber)
	assert.Equal(t, White, g.Current)
}

func TestValidateHasNoSideEffects(t *testing.T) {
	g := go9(t)
	before := g.Board.String()

	require.NoError(t, g.Validate(Black, 4, 4))
	assert.Equal(t, before, g.Board.String(), "validation must not place the stone")
	assert.Equal(t, 0, g.MoveNumber)
	assert.Equal(t, Black, g.Current)
}

// ------------------------------- gomoku ------------------------------------

func TestGomokuFiveInARowWins(t *testing.T) {
	g := gomoku15(t)

	// black builds a horizontal five, white plays far away
	blacks := []Coord{{7, 7}, {7, 8}, {7, 9}, {7, 10}, {7, 11}}
	whites := []Coord{{0, 0}, {0, 1}, {0, 2}, {0, 3}}
	for i := 0; i < 4; i++ {
		_, err := g.Move(Black, blacks[i].Row, blacks[i].Col)
		require.NoError(t, err)
		_, err = g.Move(White, whites[i].Row, whites[i].Col)
		require.NoError(t, err)
	}
	res, err := g.Move(Black, blacks[4].Row, blacks[4].Col)
	require.NoError(t, err)

	assert.True(t, res.WinningMove)
	assert.Equal(t, Black, res.Winner)
	assert.Equal(t, StatusFinished, res.Status)
	assert.Equal(t, Black, g.Winner)
	assert.Equal(t, 9, g.MoveNumber)

	_, err = g.Move(White, 5, 5)
	assert.ErrorIs(t, err, ErrGameAlreadyFinished)
}

func TestGomokuFullBoardIsADraw(t *testing.T) {
	g := newActive(t, RuleSet{Kind: KindGomoku, BoardSize: 9})

	// fill everything but (8,8) with a pattern that never lines up three,
	// then commit the final stone through the move pipeline
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if r == 8 && c == 8 {
				continue
			}
			s := White
			if (c+2*r)%4 < 2 {
				s = Black
			}
			require.NoError(t, g.Board.Set(r, c, s))
		}
	}
	g.Current = Black // (8,8) is black in the pattern

	res, err := g.Move(Black, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, res.Status)
	assert.False(t, res.WinningMove)
	assert.Equal(t, Empty, g.Winner, "a draw has no winner")
}

func TestGomokuForbiddenMoveHook(t *testing.T) {
	g := gomoku15(t)
	g.SetForbiddenMove(func(b *Board, r, c int, s Stone) bool {
		return s == Black && r == 0 && c == 0
	})

	_, err := g.Move(Black, 0, 0)
	assert.ErrorIs(t, err, ErrForbiddenMove)

	// board untouched, still black's turn
	st, _ := g.Board.At(0, 0)
	assert.Equal(t, Empty, st)
	_, err = g.Move(Black, 7, 7)
	require.NoError(t, err)
}

func TestGomokuPassNotAllowed(t *testing.T) {
	g := gomoku15(t)
	_, err := g.Pass(Black)
	assert.ErrorIs(t, err, ErrPassNotAllowed)
}

// --------------------------------- go --------------------------------------

// setPosition writes stones directly, bypassing the move pipeline, for
// mid-game test setups.
func setPosition(t *testing.T, g *Game, s Stone, coords ...Coord) {
	t.Helper()
	for _, c := range coords {
		require.NoError(t, g.Board.Set(c.Row, c.Col, s))
	}
}

func TestGoCaptureUpdatesBoardAndCount(t *testing.T) {
	g := go9(t)
	setPosition(t, g, White, Coord{0, 0})
	setPosition(t, g, Black, Coord{0, 1})

	res, err := g.Move(Black, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{0, 0}}, res.Captured)
	assert.Equal(t, 1, g.Captured[Black])
	assert.Equal(t, 0, g.Captured[White])

	st, _ := g.Board.At(0, 0)
	assert.Equal(t, Empty, st)
}

func TestGoSuicideRejected(t *testing.T) {
	g := go9(t)
	setPosition(t, g, Black, Coord{0, 1}, Coord{1, 0})
	g.Current = White

	_, err := g.Move(White, 0, 0)
	assert.ErrorIs(t, err, ErrIllegalSuicide)

	st, _ := g.Board.At(0, 0)
	assert.Equal(t, Empty, st)
	assert.Equal(t, White, g.Current)
}

func TestGoSuicideAvertedByCapture(t *testing.T) {
	// White (0,0) would be suicide, except it removes black (0,1) first.
	g := go9(t)
	setPosition(t, g, Black, Coord{0, 1}, Coord{1, 0})
	setPosition(t, g, White, Coord{0, 2}, Coord{1, 1})
	g.Current = White

	res, err := g.Move(White, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{0, 1}}, res.Captured)
	st, _ := g.Board.At(0, 0)
	assert.Equal(t, White, st)
}

func TestGoKoSequence(t *testing.T) {
	g := go9(t)
	setPosition(t, g, Black, Coord{0, 1}, Coord{1, 0}, Coord{2, 1})
	setPosition(t, g, White, Coord{0, 2}, Coord{1, 1}, Coord{1, 3}, Coord{2, 2})

	// black captures white (1,1); that point becomes the ko
	res, err := g.Move(Black, 1, 2)
	require.NoError(t, err)
	require.Equal(t, []Coord{{1, 1}}, res.Captured)
	require.NotNil(t, g.KoPoint)
	assert.Equal(t, Coord{1, 1}, *g.KoPoint)

	// immediate recapture is forbidden
	_, err = g.Move(White, 1, 1)
	assert.ErrorIs(t, err, ErrKoViolation)

	// white plays elsewhere, the ko clears
	_, err = g.Move(White, 5, 5)
	require.NoError(t, err)
	assert.Nil(t, g.KoPoint)
	_, err = g.Move(Black, 6, 6)
	require.NoError(t, err)

	// now the recapture is legal and takes black (1,2)
	res, err = g.Move(White, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{1, 2}}, res.Captured)
}

func TestGoPassAndDoublePass(t *testing.T) {
	g := go9(t)
	_, err := g.Move(Black, 4, 4)
	require.NoError(t, err)

	res, err := g.Pass(White)
	require.NoError(t, err)
	assert.True(t, res.Pass)
	assert.Equal(t, StatusActive, res.Status)
	assert.Equal(t, 1, g.Passes)

	// a move resets the pass count
	_, err = g.Move(Black, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Passes)

	_, err = g.Pass(White)
	require.NoError(t, err)
	res, err = g.Pass(Black)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, res.Status)
	require.NotNil(t, res.Score, "double pass reports a provisional score")
	assert.Equal(t, Empty, g.Winner, "scoring does not pick a winner by itself")
}

func TestGoResign(t *testing.T) {
	g := go9(t)
	res, err := g.Resign(Black)
	require.NoError(t, err)
	assert.Equal(t, White, res.Winner)
	assert.Equal(t, StatusFinished, g.Status)
	assert.Equal(t, White, g.Winner)
}

func TestGoHandicapSetup(t *testing.T) {
	g, err := New(RuleSet{Kind: KindGo, BoardSize: 19, Handicap: 4})
	require.NoError(t, err)
	assert.Equal(t, White, g.Current, "white moves first in handicap games")
	for _, p := range HandicapPoints(19, 4) {
		st, _ := g.Board.At(p.Row, p.Col)
		assert.Equal(t, Black, st)
	}
}

// ------------------------------- scoring -----------------------------------

func TestScoreAreaSingleOwner(t *testing.T) {
	g := go9(t)
	g.Rules.Komi = 6.5
	setPosition(t, g, Black, Coord{0, 0})

	// one black stone, all 80 empty points border only black
	black, white := g.Score()
	assert.Equal(t, 81.0, black)
	assert.Equal(t, 6.5, white)
}

func TestScoreAreaMixedRegionIsNeutral(t *testing.T) {
	g := go9(t)
	setPosition(t, g, Black, Coord{0, 0})
	setPosition(t, g, White, Coord{8, 8})

	black, white := g.Score()
	assert.Equal(t, 1.0, black, "only the stone counts when territory is contested")
	assert.Equal(t, 1.0, white)
}

func TestScoreTerritoryCountsPrisoners(t *testing.T) {
	g := newActive(t, RuleSet{Kind: KindGo, BoardSize: 9, Scoring: ScoringTerritory})

	// black wall down column 4 splits the board; black owns the left side
	wall := make([]Coord, 0, 9)
	for r := 0; r < 9; r++ {
		wall = append(wall, Coord{r, 4})
	}
	setPosition(t, g, Black, wall...)
	setPosition(t, g, White, Coord{0, 8})
	g.Captured[Black] = 3

	black, white := g.Score()
	// 36 left-side points plus 3 prisoners; stones do not count
	assert.Equal(t, 39.0, black)
	assert.Equal(t, 0.0, white)
}
