package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/keskad/dcc-core/pkgs/app"
	"github.com/keskad/dcc-core/pkgs/syntax"
	"github.com/spf13/cobra"
)

func NewCVCommand(app *app.DecoderApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "cv",
		Short: "Read & Write CVs on the locomotives using a command station",
		RunE: func(command *cobra.Command, args []string) error {
			return errors.New("please select a command")
		},
	}

	command.AddCommand(NewSetCommand(app))
	command.AddCommand(NewGetCommand(app))
	return command
}

func NewSetCommand(app *app.DecoderApp) *cobra.Command {
	type SetArgs struct {
		LocoId uint8
		Track  string
	}

	cmdArgs := SetArgs{}
	command := &cobra.Command{
		Use:   "set",
		Short: "Send a CV value to the decoder",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			track, trackErr := trackOrDefault(cmdArgs.Track, cmdArgs.LocoId)
			if trackErr != nil {
				return trackErr
			}

			cvString, parseErr := parseArgsAsCVs(args)
			if parseErr != nil {
				return parseErr
			}

			entries, err := syntax.ParseCVString(cvString, " ")
			if err != nil {
				return err
			}

			return app.SendCVAction(cmdArgs.LocoId, track, entries)
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 0, "Use locomotive under specific address")
	command.Flags().StringVarP(&cmdArgs.Track, "track", "t", "", "Track type: 'pom' for programming on main, 'prog' for programming track, or empty for automatic selection")

	return command
}

func NewGetCommand(app *app.DecoderApp) *cobra.Command {
	type GetArgs struct {
		LocoId uint8
	}

	cmdArgs := GetArgs{}
	command := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a CV value from the decoder",
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			cvString, parseErr := parseArgsAsCVs(args)
			if parseErr != nil {
				return parseErr
			}

			entries, err := syntax.ParseCVString(cvString, " ")
			if err != nil {
				return err
			}

			numbers := make([]uint16, len(entries))
			for i, e := range entries {
				numbers[i] = e.Number
			}

			values, err := app.ReadCVAction(cmdArgs.LocoId, numbers)
			if err != nil {
				return err
			}
			for _, n := range numbers {
				app.P.Printf("CV%d=%d\n", n, values[n])
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 0, "Use locomotive under specific address")

	return command
}

func trackOrDefault(chosenTrack string, locoId uint8) (string, error) {
	track := chosenTrack
	if track != "" && track != "pom" && track != "prog" {
		return "", fmt.Errorf("invalid track type: %s. Must be either 'pom', 'prog' or empty", track)
	}
	if track == "" {
		track = "pom"
		if locoId == 0 {
			track = "prog"
		}
	}
	return track, nil
}

func parseArgsAsCVs(args []string) (string, error) {
	// read data from stdin if "-" was specified as the last positional argument
	stdinString := ""
	if len(args) >= 1 && args[len(args)-1] == "-" {
		args = args[:len(args)-1]

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %v", err)
		}
		stdinString = strings.Trim(strings.ReplaceAll(string(data), "\n", " "), " ")
		args = append(args, "")
	}

	if len(args) == 0 {
		return "", fmt.Errorf("no CV argument provided")
	}

	cvString := args[0]
	if len(args) > 1 {
		cvString = ""
		for i, a := range args {
			if strings.Trim(a, " ") == "" {
				continue
			}
			if i > 0 {
				cvString += " "
			}
			cvString += a
		}
	}

	completeString := cvString
	if stdinString != "" {
		completeString = completeString + " " + stdinString
	}

	return completeString, nil
}
