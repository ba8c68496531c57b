package cli

import (
	"github.com/spf13/cobra"
)

// Root - the tictactoe command with all subcommands registered.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe with move history and time travel",
		Args:  cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(Serve())
	root.AddCommand(Play())

	return root
}
