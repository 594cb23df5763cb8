// Package tx implements the transmit pipeline (L3): expanding queued
// packets into half-bit timings, scheduling the BiDi cut-out, and
// filling with idle packets when the queue runs dry. Pipeline.Transmit
// is meant to be called once per half-bit from a timer ISR; it never
// allocates and never blocks.
package tx

import "github.com/keskad/dcc-core/pkgs/dcc"

// Timings is the half-bit-duration expansion of one packet: preamble,
// start bits, data bits (each half-bit duplicated) and the endbit.
type Timings []uint16

// MaxTimingsLen bounds the longest possible expansion: a maximal
// preamble plus a maximal packet, each half-bit doubled.
const MaxTimingsLen = (int(dcc.MaxPreambleBits) + 1 + dcc.MaxPacketSize*9) * 2

// Packet2Timings expands a packet into its half-bit Timings per cfg.
func Packet2Timings(p dcc.Packet, cfg dcc.Config) Timings {
	return Raw2Timings([]byte(p), cfg)
}

// Raw2Timings expands an arbitrary byte chunk (a full packet, or any
// prefix thereof useful for idle-pattern construction) into half-bit
// Timings: a preamble, then for each byte a start-bit pair followed
// by eight doubled data half-bits, and finally a doubled endbit pair.
func Raw2Timings(chunk []byte, cfg dcc.Config) Timings {
	out := make(Timings, 0, int(cfg.NumPreamble)*2+2+len(chunk)*18)

	for i := uint8(0); i < cfg.NumPreamble; i++ {
		out = append(out, cfg.Bit1Duration, cfg.Bit1Duration)
	}

	for _, b := range chunk {
		out = append(out, cfg.Bit0Duration, cfg.Bit0Duration)
		for i := 7; i >= 0; i-- {
			d := cfg.Bit0Duration
			if b&(1<<uint(i)) != 0 {
				d = cfg.Bit1Duration
			}
			out = append(out, d, d)
		}
	}

	out = append(out, cfg.Bit1Duration, cfg.Bit1Duration)
	return out
}
