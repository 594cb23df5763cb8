package tx

import "github.com/keskad/dcc-core/pkgs/dcc"

// TimingsAdapter produces the same half-bit sequence as Packet2Timings
// without materializing the whole slice: each call to Next computes
// one value on the fly, the way the transmit ISR wants it. Useful when
// a host wants to stream a packet directly into the ISR path without
// an intermediate Timings allocation.
type TimingsAdapter struct {
	packet   dcc.Packet
	cfg      dcc.Config
	count    int
	maxCount int
}

// NewTimingsAdapter prepares an on-the-fly half-bit stream for packet
// under cfg.
func NewTimingsAdapter(packet dcc.Packet, cfg dcc.Config) *TimingsAdapter {
	return &TimingsAdapter{
		packet:   packet,
		cfg:      cfg,
		maxCount: (int(cfg.NumPreamble) + len(packet)*9 + 1) * 2,
	}
}

// Done reports whether the stream is exhausted.
func (a *TimingsAdapter) Done() bool {
	return a.count >= a.maxCount
}

// Next returns the next half-bit duration and advances the stream.
func (a *TimingsAdapter) Next() uint16 {
	v := a.peek()
	a.count++
	return v
}

func (a *TimingsAdapter) peek() uint16 {
	preambleCount := int(a.cfg.NumPreamble) * 2
	if a.count < preambleCount {
		return a.cfg.Bit1Duration
	}

	i := a.count - preambleCount
	byteIndex := i / 18
	if byteIndex >= len(a.packet) {
		return a.cfg.Bit1Duration // endbit
	}

	hbitIndex := i % 18
	if hbitIndex < 2 {
		return a.cfg.Bit0Duration // startbit
	}

	bitIndex := (hbitIndex - 2) / 2
	if a.packet[byteIndex]&(1<<uint(7-bitIndex)) != 0 {
		return a.cfg.Bit1Duration
	}
	return a.cfg.Bit0Duration
}
