package main

import (
	"os"

	"github.com/keskad/dcc-core/pkgs/app"
	"github.com/keskad/dcc-core/pkgs/cli"
	"github.com/keskad/dcc-core/pkgs/output"
)

func main() {
	app := app.DecoderApp{P: output.ConsolePrinter{}}
	cmd := cli.NewRootCommand(&app)
	args := os.Args
	if args != nil {
		args = args[1:]
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
