package cli

import (
	"errors"

	"github.com/keskad/dcc-core/pkgs/app"
	"github.com/spf13/cobra"
)

func NewRootCommand(app *app.DecoderApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "dcc",
		Short: "DCC decoder-side protocol CLI: encode, transmit and dispatch against an in-process virtual decoder",
		RunE: func(command *cobra.Command, args []string) error {
			return errors.New("please select a command")
		},
	}

	command.AddCommand(NewCVCommand(app))
	command.AddCommand(NewFnCommand(app))
	command.AddCommand(NewSpeedCommand(app))
	command.AddCommand(NewDecoderCommand(app))

	return command
}
