package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
)

// Game holds the whole history of one match and the pointer to the displayed snapshot.
// History[0] is always the empty board.
type Game struct {
	ID          string  `json:"id"`
	History     []Board `json:"history"`
	CurrentStep int     `json:"current_step"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:      id,
		History: []Board{{}},
	}
}

// Current returns a copy of the snapshot at CurrentStep.
func (that *Game) Current() Board {
	return that.History[that.CurrentStep]
}

// Turn is derived from CurrentStep parity: X on even steps, O on odd ones.
func (that *Game) Turn() Mark {
	if that.CurrentStep%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// LastStep - index of the furthest snapshot in history.
func (that *Game) LastStep() int {
	return len(that.History) - 1
}

func (that *Game) Clone() *Game {
	history := make([]Board, len(that.History))
	copy(history, that.History)

	return &Game{
		ID:          that.ID,
		History:     history,
		CurrentStep: that.CurrentStep,
	}
}

// Validate checks that a game loaded from outside (storage, wire) could have been produced by legal play:
// the history starts empty, every snapshot adds exactly one mark of the side to move, nothing follows a win,
// and the pointer is in range.
func (that *Game) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrCorruptedGame)
	}

	if that.History[0] != (Board{}) {
		return fmt.Errorf("%w: first snapshot is not empty", apperror.ErrCorruptedGame)
	}

	if that.CurrentStep < 0 || that.CurrentStep > that.LastStep() {
		return fmt.Errorf("%w: current step %d outside 0..%d", apperror.ErrCorruptedGame, that.CurrentStep, that.LastStep())
	}

	mark := PlayerX
	for step := 1; step < len(that.History); step++ {
		if result := that.History[step-1].Winner(); result.HasWinner() {
			return fmt.Errorf("%w: step %d follows a win by %s", apperror.ErrCorruptedGame, step, result.Winner)
		}

		if err := checkSingleMove(that.History[step-1], that.History[step], mark); err != nil {
			return fmt.Errorf("%w: step %d: %w", apperror.ErrCorruptedGame, step, err)
		}
		mark = mark.Opponent()
	}

	return nil
}

func checkSingleMove(prev, next Board, mark Mark) error {
	changed := 0
	for i := range prev {
		if prev[i] == next[i] {
			continue
		}

		if prev[i] != EmptyCell || next[i] != mark {
			return fmt.Errorf("cell %d changed from %q to %q", i, prev[i], next[i])
		}
		changed++
	}

	if changed != 1 {
		return fmt.Errorf("%d cells changed, want 1", changed)
	}

	return nil
}
