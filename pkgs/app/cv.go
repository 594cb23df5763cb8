package app

import (
	"fmt"

	"github.com/keskad/dcc-core/pkgs/dcc/factory"
	"github.com/keskad/dcc-core/pkgs/syntax"
)

// SendCVAction writes each parsed CV entry to locoId over either the
// operations-mode PoM channel ("pom") or direct-mode programming-track
// service mode ("prog"). Service-mode writes put the virtual decoder
// into service mode first and repeat the packet enough times for its
// longer same-packet commit streak.
func (app *DecoderApp) SendCVAction(locoId uint8, track string, entries []syntax.CVEntry) error {
	cfg := app.Config.Track.DCCConfig()
	d, host := newDecoder(uint16(locoId))

	for _, e := range entries {
		switch track {
		case "prog":
			d.EnterServiceMode()
			pkt, err := factory.CVAccessLongService(factory.CVWriteByte, e.Number, byte(e.Value))
			if err != nil {
				return fmt.Errorf("cv%d: %w", e.Number, err)
			}
			transmit(d, cfg, pkt, 5)
		case "pom":
			pkt, err := factory.CVAccessLongOps(uint16(locoId), factory.CVWriteByte, e.Number, byte(e.Value))
			if err != nil {
				return fmt.Errorf("cv%d: %w", e.Number, err)
			}
			transmit(d, cfg, pkt, 2)
		default:
			return fmt.Errorf("unknown track %q (expected pom or prog)", track)
		}
	}

	return host.save()
}

// ReadCVAction reports the virtual decoder's last-written values for
// the given CV numbers. A real command station recovers these either
// via a BiDi PoM acknowledgement (operations mode) or a current-draw
// ack loop over candidate values (service mode); this CLI, talking to
// its own in-process decoder, reads the persisted state directly.
func (app *DecoderApp) ReadCVAction(locoId uint8, cvNumbers []uint16) (map[uint16]uint8, error) {
	host := newVirtualHost(uint16(locoId))
	out := make(map[uint16]uint8, len(cvNumbers))
	for _, cv := range cvNumbers {
		out[cv] = host.state.CVs[cv]
	}
	return out, nil
}
