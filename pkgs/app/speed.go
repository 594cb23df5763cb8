package app

import (
	"fmt"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/keskad/dcc-core/pkgs/dcc/factory"
)

// SetSpeedAction encodes a speed-and-direction instruction for locoId
// and runs it through the transmit/receive pipeline against the
// virtual decoder, persisting the resulting motion state.
func (app *DecoderApp) SetSpeedAction(locoId uint8, speed uint8, forward bool, speedSteps uint8) error {
	cfg := app.Config.Track.DCCConfig()
	d, host := newDecoder(uint16(locoId))

	var pkt dcc.Packet
	var err error
	switch speedSteps {
	case 14:
		pkt, err = factory.SpeedAndDirection14(uint16(locoId), forward, speed, false)
	case 28:
		pkt, err = factory.SpeedAndDirection28(uint16(locoId), forward, speed)
	case 128:
		pkt, err = factory.Speed128(uint16(locoId), forward, speed)
	default:
		return fmt.Errorf("invalid speed steps %d (must be 14, 28, or 128)", speedSteps)
	}
	if err != nil {
		return err
	}

	transmit(d, cfg, pkt, 1)
	return host.save()
}

// GetSpeedAction reports the speed and direction last persisted by
// SetSpeedAction. speed is the 0-255 scaled value the virtual decoder
// received (an emergency stop reads back as 255), not the step value
// passed to SetSpeedAction.
func (app *DecoderApp) GetSpeedAction(locoId uint8) (speed uint8, forward bool, err error) {
	host := newVirtualHost(uint16(locoId))
	return uint8(host.state.Speed), host.state.Forward, nil
}
