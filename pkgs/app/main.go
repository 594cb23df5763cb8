package app

import (
	"fmt"

	"github.com/keskad/dcc-core/pkgs/config"
	"github.com/keskad/dcc-core/pkgs/output"
	"github.com/sirupsen/logrus"
)

//
// Actions - a controller level
// prints are allowed only via Printer interface
//
// The controller level performs a single action end to end: encode an
// instruction, run it through the transmit pipeline and the receive
// front-end, and dispatch it against an in-process virtual decoder,
// the same decoder-side stack a real command station would be
// talking to over the rails.
//

type DecoderApp struct {
	Config *config.Configuration

	// runtime parameters
	Debug bool
	P     output.Printer
}

// Initialize is run after parsing the arguments, so we know how to
// configure the app.
func (app *DecoderApp) Initialize() error {
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logrus.Debug("Reading configuration files")
	cfg, cfgErr := config.NewConfig()
	app.Config = cfg
	if cfgErr != nil {
		return fmt.Errorf("cannot initialize app: %s", cfgErr)
	}
	return nil
}
