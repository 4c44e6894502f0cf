package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/holiday-planner/internal/console"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "console",
		Short:   "Start the interactive text menu",
		Example: "holiday-planner console --config holiday-planner.yaml",
		Args:    cobra.NoArgs,
		RunE:    executeConsole,
	}
}

// executeConsole runs the menu on stdin/stdout. An interactive terminal
// gets line editing; pipes are read line by line.
func executeConsole(cmd *cobra.Command, _ []string) error {
	env, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer env.Close()

	var (
		in  console.LineReader
		out io.Writer = cmd.OutOrStdout()
	)
	if console.IsTerminal(os.Stdin) {
		tr, err := console.NewTerminalReader(os.Stdin, out)
		if err != nil {
			return err
		}
		defer tr.Close()
		in, out = tr, tr
	} else {
		in = console.NewScannerReader(cmd.InOrStdin(), out)
	}

	return console.NewShell(env.store, in, out, env.log).Run()
}
