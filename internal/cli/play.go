package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

const localGameID = "local"

var errUnknownCommand = errors.New("unknown command, type ? for help")

var playHelp = heredoc.Doc(`
	0-8   place a mark on that cell
	j N   jump to move N
	h     show the move history
	n     start a new game
	?     show this help
	q     quit
`)

func Play() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Plays a hot-seat game in the terminal",
		Long: heredoc.Doc(`
			play runs a two-player game on one terminal. X always moves first.

			Any earlier move can be revisited with "j N". Placing a mark after
			jumping back discards the moves that followed.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []termenv.OutputOption
			if noColor {
				opts = append(opts, termenv.WithProfile(termenv.Ascii))
			}

			return RunPlay(cmd.InOrStdin(), termenv.NewOutput(cmd.OutOrStdout(), opts...))
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")

	return cmd
}

// RunPlay - reads commands from in until "q" or end of input.
func RunPlay(in io.Reader, out *termenv.Output) error {
	render := &renderer{out: out}
	game := entity.NewGame(localGameID)
	scanner := bufio.NewScanner(in)

	show := func() {
		fmt.Fprint(out, "\n"+render.board(game)+"\n"+render.status(game)+"\n")
	}

	show()

	for {
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error

		switch fields[0] {
		case "q", "quit":
			return nil
		case "?", "help":
			fmt.Fprint(out, playHelp)
			continue
		case "h", "history":
			fmt.Fprint(out, render.history(game))
			continue
		case "n", "new":
			game = entity.NewGame(localGameID)
		case "j", "jump":
			err = jump(game, fields[1:])
		default:
			err = move(game, fields[0])
		}

		if err != nil {
			fmt.Fprintln(out, render.failure(err))
			continue
		}

		show()
	}
}

func move(game *entity.Game, arg string) error {
	cell, err := strconv.Atoi(arg)
	if err != nil {
		return errUnknownCommand
	}

	return tictactoe.ApplyMove(game, cell)
}

func jump(game *entity.Game, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: j N")
	}

	step, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("step must be a number: %w", err)
	}

	return tictactoe.JumpTo(game, step)
}
