package domain

var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// CheckWin reports whether the mark at (row, col) completes a run of at least
// WinLength. With blockTwoEnds a run flanked by the opponent on both ends does
// not count; the board edge is an open end.
func CheckWin(board Board, row, column int, blockTwoEnds bool) bool {
	if !board.InBounds(row, column) {
		return false
	}
	mark := board[row][column]
	if mark == Empty {
		return false
	}

	for _, axis := range axes {
		dr, dc := axis[0], axis[1]
		forward := board.CountInDirection(row, column, dr, dc, mark)
		backward := board.CountInDirection(row, column, -dr, -dc, mark)
		if 1+forward+backward < WinLength {
			continue
		}
		if !blockTwoEnds {
			return true
		}
		headOpen := board.isOpenEnd(row+(forward+1)*dr, column+(forward+1)*dc)
		tailOpen := board.isOpenEnd(row-(backward+1)*dr, column-(backward+1)*dc)
		if headOpen || tailOpen {
			return true
		}
	}
	return false
}

// Outcome evaluates placing mark at (row, col) without leaving it on the board.
// The cell must be empty and in bounds. filled is the number of occupied
// cells before the move.
func Outcome(board Board, row, column int, mark Mark, filled int, blockTwoEnds bool) (win, draw bool) {
	board[row][column] = mark
	win = CheckWin(board, row, column, blockTwoEnds)
	board[row][column] = Empty
	if win {
		return true, false
	}
	return false, filled+1 == board.Size()*board.Size()
}
