package domain

// Board is a square grid indexed [row][col].
type Board [][]Mark

func NewBoard(size int) Board {
	board := make(Board, size)
	for i := range board {
		board[i] = make([]Mark, size)
	}
	return board
}

func (b Board) Size() int {
	return len(b)
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < len(b) && col >= 0 && col < len(b)
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b[row][col] == Empty
}

// Clone creates a deep copy of the board
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for i := range b {
		out[i] = make([]Mark, len(b[i]))
		copy(out[i], b[i])
	}
	return out
}

func (b Board) Clear() {
	for i := range b {
		clear(b[i])
	}
}

// CountInDirection counts consecutive cells holding mark starting one step
// away from (row, col).
func (b Board) CountInDirection(row, col, deltaRow, deltaCol int, mark Mark) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for b.InBounds(r, c) && b[r][c] == mark {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// isOpenEnd treats off-board cells as open.
func (b Board) isOpenEnd(row, col int) bool {
	if !b.InBounds(row, col) {
		return true
	}
	return b[row][col] == Empty
}
