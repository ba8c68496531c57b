package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

// Evaluate - returns the first completed line in entity.WinCombos order, or entity.NoWinner.
// A full board without a line is also entity.NoWinner; use IsBoardFull to tell the two apart.
func Evaluate(board entity.Board) entity.WinResult {
	return board.Winner()
}

// IsBoardFull - true when no empty cell is left.
func IsBoardFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// ApplyMove - places the mark of the side to move on cell.
// Moving from a rewound position drops every snapshot after CurrentStep.
// A rejected move leaves the game untouched.
func ApplyMove(gameInstance *entity.Game, cell int) error {
	if err := validateMove(gameInstance, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	next := gameInstance.Current()
	next[cell] = gameInstance.Turn()

	// the capacity bound forces a fresh backing array, so snapshots shared with a previous clone stay intact
	keep := gameInstance.CurrentStep + 1
	gameInstance.History = append(gameInstance.History[:keep:keep], next)
	gameInstance.CurrentStep = gameInstance.LastStep()

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, cell int) error {
	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	board := gameInstance.Current()

	if Evaluate(board).HasWinner() {
		return apperror.ErrGameAlreadyWon
	}

	if board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// JumpTo - points the game at an earlier (or later) snapshot without touching history.
func JumpTo(gameInstance *entity.Game, step int) error {
	if step < 0 || step > gameInstance.LastStep() {
		return fmt.Errorf("%w: step %d outside 0..%d", apperror.ErrIndexOutOfRange, step, gameInstance.LastStep())
	}

	gameInstance.CurrentStep = step

	return nil
}
