package entity

import (
	"fmt"

	"github.com/rocketscienceinc/matchrelay-backend/internal/apperror"
)

const (
	BoardSize = 3
	CellCount = BoardSize * BoardSize

	TagX = "X"
	TagO = "O"

	EmptyCell = ""
)

// Board is a fixed 3x3 grid. Cells hold TagX, TagO or EmptyCell and are
// write-once: a non-empty cell is never overwritten.
type Board [BoardSize][BoardSize]string

// NewBoard - returns an empty board.
func NewBoard() Board {
	return Board{}
}

// CellFromIndex - translates a 1-based linear move index into (row, col).
// Indices outside [1, CellCount] are invalid.
func CellFromIndex(index int) (int, int, error) {
	if index < 1 || index > CellCount {
		return 0, 0, fmt.Errorf("%w: %d", apperror.ErrInvalidMove, index)
	}

	return (index - 1) / BoardSize, (index - 1) % BoardSize, nil
}

// ValidateMove - checks that (row, col) addresses an empty cell on the board.
func (that *Board) ValidateMove(row, col int) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: cell (%d, %d)", apperror.ErrInvalidMove, row, col)
	}

	if that[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// Apply - sets the cell. It does not check turn ownership; that is the
// caller's responsibility.
func (that *Board) Apply(row, col int, tag string) {
	that[row][col] = tag
}

// DetectWinner - returns the tag holding a complete row, column or diagonal,
// or EmptyCell when there is no winner. Rows are checked first, then columns,
// then both diagonals; cells are write-once so at most one tag can own a line.
func (that *Board) DetectWinner() string {
	for i := 0; i < BoardSize; i++ {
		if tag := that[i][0]; tag != EmptyCell && that[i][1] == tag && that[i][2] == tag {
			return tag
		}

		if tag := that[0][i]; tag != EmptyCell && that[1][i] == tag && that[2][i] == tag {
			return tag
		}
	}

	if tag := that[0][0]; tag != EmptyCell && that[1][1] == tag && that[2][2] == tag {
		return tag
	}

	if tag := that[0][2]; tag != EmptyCell && that[1][1] == tag && that[2][0] == tag {
		return tag
	}

	return EmptyCell
}

// IsDraw - reports whether the board is full with no winning line.
func (that *Board) IsDraw() bool {
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			if that[i][j] == EmptyCell {
				return false
			}
		}
	}

	return that.DetectWinner() == EmptyCell
}

// ToggleTag - returns the opposite tag.
func ToggleTag(tag string) string {
	if tag == TagX {
		return TagO
	}

	return TagX
}
