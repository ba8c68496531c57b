package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	t.Run("Next player on a new game", func(t *testing.T) {
		assert.Equal(t, "Next player: X", Status(entity.NewGame("123")))
	})

	t.Run("Winner after top row", func(t *testing.T) {
		// Given: X0, O4, X1, O3, X2
		game := playMoves(t, 0, 4, 1, 3, 2)

		// When / Then: the status names the winner
		assert.Equal(t, "Winner: X", Status(game))
	})

	t.Run("Status follows the jump", func(t *testing.T) {
		game := playMoves(t, 0, 4, 1, 3, 2)
		require.NoError(t, JumpTo(game, 3))

		assert.Equal(t, "Next player: O", Status(game))
	})

	t.Run("Drawn board still reports the next player", func(t *testing.T) {
		// Given: a full board with no line, X,O,X / X,O,O / O,X,X
		game := playMoves(t, 0, 1, 2, 4, 3, 5, 7, 6, 8)
		require.Equal(t, entity.Board{x, o, x, x, o, o, o, x, x}, game.Current())

		// When / Then: there is no draw message
		assert.Equal(t, "Next player: O", Status(game))
	})
}

func TestMoveLabels(t *testing.T) {
	game := playMoves(t, 0, 4, 1)

	labels := MoveLabels(game)

	assert.Equal(t, []string{"Go to game start", "Go to move #1", "Go to move #2", "Go to move #3"}, labels)
}

func TestDescribe(t *testing.T) {
	t.Run("Describes a won game", func(t *testing.T) {
		// Given: X has won on the top row
		game := playMoves(t, 0, 4, 1, 3, 2)

		// When: describing the game
		view := Describe(game)

		// Then: the view carries the winning line for highlighting
		expectedView := &entity.GameView{
			ID:          "123",
			Board:       entity.Board{x, x, x, o, o, e, e, e, e},
			Turn:        o,
			Winner:      x,
			WinningLine: []int{0, 1, 2},
			Status:      "Winner: X",
			CurrentStep: 5,
			Moves: []string{
				"Go to game start", "Go to move #1", "Go to move #2",
				"Go to move #3", "Go to move #4", "Go to move #5",
			},
			BoardFull: false,
		}

		require.Equal(t, expectedView, view)
	})

	t.Run("Describes a rewound game", func(t *testing.T) {
		game := playMoves(t, 0, 4, 1, 3, 2)
		require.NoError(t, JumpTo(game, 2))

		view := Describe(game)

		assert.Equal(t, entity.Board{x, e, e, e, o}, view.Board)
		assert.Equal(t, x, view.Turn)
		assert.Empty(t, view.Winner)
		assert.Nil(t, view.WinningLine)
		assert.Len(t, view.Moves, 6)
	})

	t.Run("Board full flag is separate from the status", func(t *testing.T) {
		game := playMoves(t, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		view := Describe(game)

		assert.True(t, view.BoardFull)
		assert.Empty(t, view.Winner)
		assert.Equal(t, "Next player: O", view.Status)
	})
}
