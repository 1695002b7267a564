package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boardWith(size int, cells map[[2]int]Mark) Board {
	b := NewBoard(size)
	for pos, m := range cells {
		b[pos[0]][pos[1]] = m
	}
	return b
}

func TestCheckWin(t *testing.T) {
	t.Run("Horizontal five from the left edge", func(t *testing.T) {
		b := boardWith(10, map[[2]int]Mark{{3, 0}: X, {3, 1}: X, {3, 2}: X, {3, 3}: X, {3, 4}: X})

		assert.True(t, CheckWin(b, 3, 4, true))
		assert.True(t, CheckWin(b, 3, 0, false))
	})

	t.Run("Edge counts as open when the far end is blocked", func(t *testing.T) {
		b := boardWith(10, map[[2]int]Mark{{3, 0}: X, {3, 1}: X, {3, 2}: X, {3, 3}: X, {3, 4}: X, {3, 5}: O})

		assert.True(t, CheckWin(b, 3, 2, true))
	})

	t.Run("Run blocked on both ends", func(t *testing.T) {
		b := boardWith(15, map[[2]int]Mark{
			{5, 2}: O, {5, 3}: X, {5, 4}: X, {5, 5}: X, {5, 6}: X, {5, 7}: X, {5, 8}: O,
		})

		assert.False(t, CheckWin(b, 5, 7, true))
		assert.True(t, CheckWin(b, 5, 7, false))
	})

	t.Run("Vertical and diagonals", func(t *testing.T) {
		vertical := boardWith(12, map[[2]int]Mark{{2, 6}: O, {3, 6}: O, {4, 6}: O, {5, 6}: O, {6, 6}: O})
		assert.True(t, CheckWin(vertical, 4, 6, true))

		diag := boardWith(12, map[[2]int]Mark{{0, 0}: X, {1, 1}: X, {2, 2}: X, {3, 3}: X, {4, 4}: X})
		assert.True(t, CheckWin(diag, 2, 2, true))

		anti := boardWith(12, map[[2]int]Mark{{0, 9}: X, {1, 8}: X, {2, 7}: X, {3, 6}: X, {4, 5}: X, {5, 4}: O})
		assert.True(t, CheckWin(anti, 4, 5, true))
	})

	t.Run("Four is not enough", func(t *testing.T) {
		b := boardWith(10, map[[2]int]Mark{{7, 7}: X, {7, 8}: X, {7, 6}: X, {7, 5}: X})

		assert.False(t, CheckWin(b, 7, 7, false))
	})

	t.Run("Empty or off-board cell", func(t *testing.T) {
		b := NewBoard(10)

		assert.False(t, CheckWin(b, 0, 0, false))
		assert.False(t, CheckWin(b, -1, 4, false))
	})
}

func TestOutcome(t *testing.T) {
	t.Run("Leaves the board untouched", func(t *testing.T) {
		b := boardWith(10, map[[2]int]Mark{{0, 0}: X, {0, 1}: X, {0, 2}: X, {0, 3}: X})

		win, draw := Outcome(b, 0, 4, X, 4, false)

		assert.True(t, win)
		assert.False(t, draw)
		assert.Equal(t, Empty, b[0][4])
	})

	t.Run("Last cell fills the board", func(t *testing.T) {
		b := NewBoard(10)

		win, draw := Outcome(b, 9, 9, O, 99, false)

		assert.False(t, win)
		assert.True(t, draw)
	})
}

func TestBoard_CountInDirection(t *testing.T) {
	b := boardWith(10, map[[2]int]Mark{{4, 4}: X, {4, 5}: X, {4, 6}: O})

	assert.Equal(t, 1, b.CountInDirection(4, 4, 0, 1, X))
	assert.Equal(t, 0, b.CountInDirection(4, 4, 0, -1, X))
	assert.Equal(t, 0, b.CountInDirection(9, 9, 1, 1, X))
}
