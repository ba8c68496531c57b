package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const gameStartLabel = "Go to game start"

// Status - the status line shown above the board.
// A drawn board still reports the next player.
func Status(gameInstance *entity.Game) string {
	if result := Evaluate(gameInstance.Current()); result.HasWinner() {
		return fmt.Sprintf("Winner: %s", result.Winner)
	}

	return fmt.Sprintf("Next player: %s", gameInstance.Turn())
}

// MoveLabels - one label per snapshot in history.
func MoveLabels(gameInstance *entity.Game) []string {
	labels := make([]string, len(gameInstance.History))
	for step := range gameInstance.History {
		labels[step] = MoveLabel(step)
	}

	return labels
}

func MoveLabel(step int) string {
	if step == 0 {
		return gameStartLabel
	}

	return fmt.Sprintf("Go to move #%d", step)
}

// Describe - builds the view of the current snapshot. Everything is recomputed on each call.
func Describe(gameInstance *entity.Game) *entity.GameView {
	board := gameInstance.Current()
	result := Evaluate(board)

	view := &entity.GameView{
		ID:          gameInstance.ID,
		Board:       board,
		Turn:        gameInstance.Turn(),
		Status:      Status(gameInstance),
		CurrentStep: gameInstance.CurrentStep,
		Moves:       MoveLabels(gameInstance),
		BoardFull:   IsBoardFull(board),
	}

	if result.HasWinner() {
		view.Winner = result.Winner
		view.WinningLine = result.Line[:]
	}

	return view
}
