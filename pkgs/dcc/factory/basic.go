// Package factory holds pure constructor functions for every
// standardized DCC instruction packet (spec.md §4.1, L1). Every
// constructor returns a checksummed dcc.Packet and never mutates
// shared state.
package factory

import (
	"github.com/keskad/dcc-core/pkgs/dcc"
)

// Idle returns the canonical idle packet.
func Idle() dcc.Packet { return dcc.MakeIdlePacket() }

// Reset returns the broadcast reset packet.
func Reset() dcc.Packet { return dcc.MakeResetPacket() }

// HardReset returns the broadcast hard-reset packet (address 0,
// instruction 0000'0001).
func HardReset() (dcc.Packet, error) {
	return dcc.Finish([]byte{0x00, 0b0000_0001})
}

// FactoryTest returns the broadcast factory-test packet (address 0,
// instruction 0000'0010).
func FactoryTest() (dcc.Packet, error) {
	return dcc.Finish([]byte{0x00, 0b0000_0010})
}

// SetAdvancedAddressing sets or clears CV29 bit 5 (long-address mode)
// via the decoder-control sub-instruction 0b0000'101A.
func SetAdvancedAddressing(addr uint16, enable bool) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var a byte
	if enable {
		a = 1
	}
	body = append(body, 0b0000_1010|a)
	return dcc.Finish(body)
}

// AckRequest returns the decoder-control ACK-request sub-instruction
// (0b0000'1111) for addr.
func AckRequest(addr uint16) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b0000_1111)
	return dcc.Finish(body)
}

// ConsistSetAddress returns the consist-control instruction that
// assigns addr's decoder to consistAddr (reversed flips the
// direction bit). consistAddr == 0 removes the decoder from any
// consist.
func ConsistSetAddress(addr uint16, consistAddr uint8, reversed bool) (dcc.Packet, error) {
	if consistAddr > 0x7F {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var r byte
	if reversed {
		r = 0x80
	}
	body = append(body, 0b0001_0010, r|consistAddr)
	return dcc.Finish(body)
}

// addressBody starts a packet body with the wire encoding of a
// locomotive address (short or long, chosen by value).
func addressBody(addr uint16) ([]byte, error) {
	return dcc.EncodeAddress(nil, dcc.LocoAddress(addr))
}
