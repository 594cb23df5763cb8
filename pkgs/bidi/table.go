// Package bidi implements the BiDi/RailCom back-channel datagram
// codec (channel-1 and channel-2 payloads, the 6-to-8 balanced line
// code and the dissector that turns a cut-out's raw bytes back into
// typed app datagrams).
package bidi

import "math/bits"

// sixToEight maps a 6-bit raw value (0-63) onto an 8-bit code with
// exactly four set bits, the balanced line code RailCom transmits
// instead of the raw value. The mapping itself is not meaningful
// beyond being a fixed bijection between 6-bit values and weight-4
// bytes: codes are the 64 lowest byte values with popcount 4, in
// ascending order, skipping the ACK and NAK bytes so that no data
// code reads as one of those sentinels.
var sixToEight [64]byte

// eightToSix is the inverse of sixToEight, indexed by the encoded
// byte. ok[b] is false when b is not a valid weight-4 code.
var eightToSix [256]byte
var eightToSixOK [256]bool

func init() {
	n := 0
	for v := 0; v < 256 && n < 64; v++ {
		if bits.OnesCount8(byte(v)) == 4 && !IsAck(byte(v)) && byte(v) != Nak {
			sixToEight[n] = byte(v)
			eightToSix[v] = byte(n)
			eightToSixOK[v] = true
			n++
		}
	}
}

// Acks holds the two historical encodings of "instruction understood
// and will be executed" (RailCom carries both for compatibility).
var Acks = [2]byte{0b0000_1111, 0b1111_0000}

// Nak is "instruction received correctly but not supported".
const Nak byte = 0b0011_1100

// IsAck reports whether b is one of the two ACK sentinel bytes.
func IsAck(b byte) bool {
	return b == Acks[0] || b == Acks[1]
}

// ValidLineByte reports whether b is a legal wire byte: either the
// all-zero "nothing here" filler or a weight-4 balanced code.
func ValidLineByte(b byte) bool {
	return b == 0 || bits.OnesCount8(b) == 4
}
