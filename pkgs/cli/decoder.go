package cli

import (
	"github.com/keskad/dcc-core/pkgs/app"
	"github.com/keskad/dcc-core/pkgs/dcc/factory"
	"github.com/keskad/dcc-core/pkgs/tx"
	"github.com/spf13/cobra"
)

// NewDecoderCommand exposes a demo of the transmit-side cut-out
// schedule: it queues one speed packet on a tx.Pipeline whose BiDi
// channel hooks print a label, and prints every half-bit duration the
// ISR would hold, so the five cut-out intervals are visible next to
// the ordinary packet bits around them.
func NewDecoderCommand(app *app.DecoderApp) *cobra.Command {
	type Args struct {
		LocoId uint8
	}

	cmdArgs := Args{}
	command := &cobra.Command{
		Use:   "cutout",
		Short: "Print one packet's transmit timings, including its BiDi cut-out schedule",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			cfg := app.Config.Track.DCCConfig()
			pkt, err := factory.Speed128(uint16(cmdArgs.LocoId), true, 50)
			if err != nil {
				return err
			}

			pipeline := tx.NewPipeline(cfg, tx.Hooks{
				BiDiChannel1: func() { app.P.Printf("  channel-1: address half\n") },
				BiDiChannel2: func() { app.P.Printf("  channel-2: pom/dyn/qos\n") },
			})
			pipeline.Packet(pkt)

			// the pipeline sends its idle packet first, so print enough
			// half-bits to cover the idle packet and the queued packet
			// (preamble, every data byte, the checksum) plus (when
			// enabled) the five cut-out intervals after each
			halfBitsToPrint := len(tx.Packet2Timings(factory.Idle(), cfg)) + len(tx.Packet2Timings(pkt, cfg)) + 2*5
			for i := 0; i < halfBitsToPrint; i++ {
				app.P.Printf("%d ", pipeline.Transmit())
			}
			app.P.Printf("\n")
			return nil
		},
	}

	command.Flags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")
	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 0, "Use locomotive under specific address")

	return command
}
