package cli

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

const rowSeparator = "---+---+---"

type renderer struct {
	out *termenv.Output
}

// board - draws the current snapshot. Empty cells show their index, winning cells are highlighted.
func (that *renderer) board(game *entity.Game) string {
	board := game.Current()
	result := tictactoe.Evaluate(board)

	highlighted := make(map[int]bool, len(result.Line))
	if result.HasWinner() {
		for _, cell := range result.Line {
			highlighted[cell] = true
		}
	}

	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}

		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			cells[col] = " " + that.cell(board[cell], cell, highlighted[cell]) + " "
		}

		sb.WriteString(strings.Join(cells, "|") + "\n")
	}

	return sb.String()
}

func (that *renderer) cell(mark entity.Mark, index int, highlighted bool) string {
	switch {
	case mark == entity.EmptyCell:
		return that.out.String(strconv.Itoa(index)).Faint().String()
	case highlighted:
		return that.out.String(string(mark)).Bold().Foreground(that.out.Color("2")).String()
	case mark == entity.PlayerX:
		return that.out.String(string(mark)).Foreground(that.out.Color("4")).String()
	default:
		return that.out.String(string(mark)).Foreground(that.out.Color("3")).String()
	}
}

func (that *renderer) status(game *entity.Game) string {
	status := tictactoe.Status(game)

	if !tictactoe.Evaluate(game.Current()).HasWinner() && tictactoe.IsBoardFull(game.Current()) {
		status += " (board is full)"
	}

	return that.out.String(status).Bold().String()
}

// history - one line per snapshot, the current one marked.
func (that *renderer) history(game *entity.Game) string {
	var sb strings.Builder

	for step, label := range tictactoe.MoveLabels(game) {
		line := "  " + strconv.Itoa(step) + ". " + label
		if step == game.CurrentStep {
			line = that.out.String("> " + strconv.Itoa(step) + ". " + label).Underline().String()
		}

		sb.WriteString(line + "\n")
	}

	return sb.String()
}

func (that *renderer) failure(err error) string {
	return that.out.String("error: " + err.Error()).Foreground(that.out.Color("1")).String()
}
