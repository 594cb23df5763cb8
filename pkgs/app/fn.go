package app

import (
	"fmt"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/keskad/dcc-core/pkgs/dcc/factory"
)

// SendFnAction flips function fn (0-28) on or off for locoId. It
// reads the function group the bit belongs to out of the persisted
// state, flips the one bit, and re-encodes the whole group - the wire
// protocol always sends a group's full state, never a single bit.
func (app *DecoderApp) SendFnAction(locoId uint8, fn uint8, on bool) error {
	if fn > 28 {
		return fmt.Errorf("function number %d out of range (0-28)", fn)
	}
	cfg := app.Config.Track.DCCConfig()
	d, host := newDecoder(uint16(locoId))

	mask := host.state.Functions
	if on {
		mask |= 1 << fn
	} else {
		mask &^= 1 << fn
	}

	var pkt dcc.Packet
	var err error
	switch {
	case fn <= 4:
		state := uint8((mask>>1)&0x0F) | uint8((mask&0x01)<<4)
		pkt, err = factory.FunctionGroup1(uint16(locoId), state)
	case fn <= 8:
		pkt, err = factory.FunctionGroup2(uint16(locoId), uint8((mask>>5)&0x0F))
	case fn <= 12:
		pkt, err = factory.FunctionGroup3(uint16(locoId), uint8((mask>>9)&0x0F))
	case fn <= 20:
		pkt, err = factory.FeatureExpansionF13F20(uint16(locoId), uint8((mask>>13)&0xFF))
	default:
		pkt, err = factory.FeatureExpansionF21F28(uint16(locoId), uint8((mask>>21)&0xFF))
	}
	if err != nil {
		return err
	}

	transmit(d, cfg, pkt, 1)
	return host.save()
}

// ListFnAction reports the persisted F0-F28 function states.
func (app *DecoderApp) ListFnAction(locoId uint8) (map[uint8]bool, error) {
	host := newVirtualHost(uint16(locoId))
	out := make(map[uint8]bool, 29)
	for fn := uint8(0); fn <= 28; fn++ {
		out[fn] = host.state.Functions&(1<<fn) != 0
	}
	return out, nil
}
