package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/matchrelay-backend/internal/apperror"
)

func TestCellFromIndex(t *testing.T) {
	t.Run("Maps corner and center indices", func(t *testing.T) {
		// Given: the 1-based linear addressing over a 3x3 board

		// When/Then: index 1 is the top-left corner
		row, col, err := CellFromIndex(1)
		require.NoError(t, err)
		assert.Equal(t, 0, row)
		assert.Equal(t, 0, col)

		// When/Then: index 5 is the center
		row, col, err = CellFromIndex(5)
		require.NoError(t, err)
		assert.Equal(t, 1, row)
		assert.Equal(t, 1, col)

		// When/Then: index 9 is the bottom-right corner
		row, col, err = CellFromIndex(9)
		require.NoError(t, err)
		assert.Equal(t, 2, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Rejects out-of-range indices", func(t *testing.T) {
		// When: indices outside [1, 9] are translated
		for _, index := range []int{0, -1, 10, 100} {
			_, _, err := CellFromIndex(index)

			// Then: each one is invalid
			assert.ErrorIs(t, err, apperror.ErrInvalidMove, "index %d", index)
		}
	})
}

func TestBoard_ValidateMove(t *testing.T) {
	t.Run("Accepts an empty in-bounds cell", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: validating the center cell
		err := board.ValidateMove(1, 1)

		// Then: the move is legal
		assert.NoError(t, err)
	})

	t.Run("Rejects out-of-bounds coordinates", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When/Then: coordinates outside [0, 3) are invalid
		assert.ErrorIs(t, board.ValidateMove(-1, 0), apperror.ErrInvalidMove)
		assert.ErrorIs(t, board.ValidateMove(0, 3), apperror.ErrInvalidMove)
		assert.ErrorIs(t, board.ValidateMove(3, 3), apperror.ErrInvalidMove)
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: a board with X in the center
		board := NewBoard()
		board.Apply(1, 1, TagX)

		// When: validating the same cell
		err := board.ValidateMove(1, 1)

		// Then: the cell is occupied
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})
}

func TestBoard_DetectWinner(t *testing.T) {
	t.Run("Detects a row winner", func(t *testing.T) {
		// Given: X holds the whole top row
		board := Board{
			{TagX, TagX, TagX},
			{TagO, TagO, EmptyCell},
			{EmptyCell, EmptyCell, EmptyCell},
		}

		// Then: X is the winner
		assert.Equal(t, TagX, board.DetectWinner())
	})

	t.Run("Detects a column winner", func(t *testing.T) {
		// Given: O holds the left column
		board := Board{
			{TagO, TagX, EmptyCell},
			{TagO, TagX, EmptyCell},
			{TagO, EmptyCell, TagX},
		}

		// Then: O is the winner
		assert.Equal(t, TagO, board.DetectWinner())
	})

	t.Run("Detects the main diagonal", func(t *testing.T) {
		// Given: X holds the top-left to bottom-right diagonal
		board := Board{
			{TagX, TagO, EmptyCell},
			{TagO, TagX, EmptyCell},
			{EmptyCell, EmptyCell, TagX},
		}

		// Then: X is the winner
		assert.Equal(t, TagX, board.DetectWinner())
	})

	t.Run("Detects the anti-diagonal", func(t *testing.T) {
		// Given: O holds the top-right to bottom-left diagonal
		board := Board{
			{TagX, TagX, TagO},
			{TagX, TagO, EmptyCell},
			{TagO, EmptyCell, EmptyCell},
		}

		// Then: O is the winner
		assert.Equal(t, TagO, board.DetectWinner())
	})

	t.Run("Returns empty when nobody won", func(t *testing.T) {
		// Given: an ongoing position without a complete line
		board := Board{
			{TagX, TagO, TagX},
			{EmptyCell, TagO, EmptyCell},
			{TagX, EmptyCell, EmptyCell},
		}

		// Then: there is no winner
		assert.Equal(t, EmptyCell, board.DetectWinner())
	})

	t.Run("Empty lines are never a winner", func(t *testing.T) {
		// Given: a completely empty board
		board := NewBoard()

		// Then: a full line of empty cells does not count
		assert.Equal(t, EmptyCell, board.DetectWinner())
	})
}

func TestBoard_IsDraw(t *testing.T) {
	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: all nine cells filled with no winner
		board := Board{
			{TagO, TagX, TagO},
			{TagO, TagX, TagX},
			{TagX, TagO, TagO},
		}

		// Then: the position is a draw
		assert.True(t, board.IsDraw())
	})

	t.Run("Board with empty cells is not a draw", func(t *testing.T) {
		// Given: a board with room to play
		board := NewBoard()
		board.Apply(0, 0, TagX)

		// Then: not a draw
		assert.False(t, board.IsDraw())
	})

	t.Run("Full board with a winner is not a draw", func(t *testing.T) {
		// Given: a full board where X completed the top row
		board := Board{
			{TagX, TagX, TagX},
			{TagO, TagO, TagX},
			{TagO, TagX, TagO},
		}

		// Then: a win, not a draw
		assert.False(t, board.IsDraw())
		assert.Equal(t, TagX, board.DetectWinner())
	})
}

func TestToggleTag(t *testing.T) {
	// Then: the tags alternate both ways
	require.Equal(t, TagO, ToggleTag(TagX))
	require.Equal(t, TagX, ToggleTag(TagO))
}
