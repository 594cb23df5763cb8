package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/keskad/dcc-core/pkgs/app"
	"github.com/spf13/cobra"
)

func NewFnCommand(app *app.DecoderApp) *cobra.Command {
	type Args struct {
		LocoId uint8
		Off    bool
	}

	cmdArgs := Args{}
	command := &cobra.Command{
		Use:   "fn",
		Short: "Sends a function request to the decoder",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			if len(args) == 0 {
				return errors.New("need to specify a function number")
			}

			fnNum64, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid function number %q: %w", args[0], err)
			}

			return app.SendFnAction(cmdArgs.LocoId, uint8(fnNum64), !cmdArgs.Off)
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().BoolVarP(&cmdArgs.Off, "off", "d", false, "Toggle the function off")
	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 0, "Use locomotive under specific address")

	command.AddCommand(NewFnListCommand(app))

	return command
}

func NewFnListCommand(app *app.DecoderApp) *cobra.Command {
	type Args struct {
		LocoId uint8
	}

	cmdArgs := Args{}
	command := &cobra.Command{
		Use:   "list",
		Short: "Lists functions F0-F28 of the locomotive with their on/off state",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			states, err := app.ListFnAction(cmdArgs.LocoId)
			if err != nil {
				return err
			}

			fns := make([]int, 0, len(states))
			for fn := range states {
				fns = append(fns, int(fn))
			}
			sort.Ints(fns)
			for _, fn := range fns {
				state := "off"
				if states[uint8(fn)] {
					state = "on"
				}
				app.P.Printf("F%d: %s\n", fn, state)
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 0, "Use locomotive under specific address")

	return command
}
