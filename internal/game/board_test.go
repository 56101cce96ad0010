// internal/game/board_test.go

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardBounds(t *testing.T) {
	b := NewBoard(9)

	_, err := b.At(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = b.At(0, -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = b.At(9, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = b.At(0, 9)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	st, err := b.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Empty, st)
	st, err = b.At(8, 8)
	require.NoError(t, err)
	assert.Equal(t, Empty, st)
}

func TestBoardSetAndAt(t *testing.T) {
	b := NewBoard(9)
	require.NoError(t, b.Set(3, 4, Black))
	st, err := b.At(3, 4)
	require.NoError(t, err)
	assert.Equal(t, Black, st)

	assert.ErrorIs(t, b.Set(9, 0, White), ErrOutOfBounds)
}

func TestBoardNeighbors(t *testing.T) {
	b := NewBoard(9)

	// corner has 2, edge has 3, interior has 4
	assert.Len(t, b.Neighbors(0, 0), 2)
	assert.Len(t, b.Neighbors(0, 4), 3)
	assert.Len(t, b.Neighbors(4, 4), 4)
	assert.Len(t, b.Neighbors(8, 8), 2)
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b := NewBoard(9)
	require.NoError(t, b.Set(1, 1, Black))

	c := b.Clone()
	require.NoError(t, c.Set(2, 2, White))

	st, _ := b.At(2, 2)
	assert.Equal(t, Empty, st, "mutating the clone must not touch the original")
	st, _ = c.At(1, 1)
	assert.Equal(t, Black, st)
}

func TestBoardIsFull(t *testing.T) {
	b := NewBoard(3)
	assert.False(t, b.IsFull())
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			require.NoError(t, b.Set(r, c, Black))
		}
	}
	assert.True(t, b.IsFull())
}

func TestStoneOpponent(t *testing.T) {
	assert.Equal(t, White, Black.Opponent())
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}
