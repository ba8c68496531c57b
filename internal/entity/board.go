package entity

const BoardSize = 9

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// Mark is the content of a single cell.
type Mark string

// Board is one snapshot of the grid, stored row-major: index i is row i/3, column i%3.
// Boards are values, so assigning one copies all nine cells.
type Board [BoardSize]Mark

// Line is an ordered triple of cell indices.
type Line [3]int

// WinCombos is the fixed evaluation order: rows, columns, diagonals.
var WinCombos = [...]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinResult - the zero value means no winner.
type WinResult struct {
	Winner Mark
	Line   Line
}

// NoWinner is returned when no line is complete.
var NoWinner = WinResult{}

func (that WinResult) HasWinner() bool {
	return that.Winner != EmptyCell
}

// Winner - the first completed line in WinCombos order, or NoWinner.
func (that Board) Winner() WinResult {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return WinResult{Winner: a, Line: combo}
		}
	}

	return NoWinner
}

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}

	return n
}

func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}
