package rx

import (
	"testing"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/keskad/dcc-core/pkgs/tx"
	"github.com/stretchr/testify/assert"
)

func feed(r *Receiver, timings tx.Timings) {
	for _, us := range timings {
		r.Receive(us)
	}
}

func TestReceiverFramesTxGeneratedTimings(t *testing.T) {
	cfg := dcc.Config{NumPreamble: 17, Bit1Duration: 58, Bit0Duration: 100}
	p, err := dcc.Finish([]byte{0x03, 0x6A})
	assert.NoError(t, err)

	timings := tx.Packet2Timings(p, cfg)
	r := NewReceiver(int(cfg.NumPreamble))
	feed(r, timings)

	got, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, 1, r.PacketCount())
}

func TestReceiverResetsOnInvalidHalfbit(t *testing.T) {
	cfg := dcc.Config{NumPreamble: 17, Bit1Duration: 58, Bit0Duration: 100}
	r := NewReceiver(int(cfg.NumPreamble))
	for i := 0; i < 20; i++ {
		r.Receive(58)
	}
	r.Receive(5) // invalid interval, outside any classified range
	r.Receive(70)
	_, ok := r.Pop()
	assert.False(t, ok)
}

func TestReceiverFramesMultiplePackets(t *testing.T) {
	cfg := dcc.Config{NumPreamble: 17, Bit1Duration: 58, Bit0Duration: 100}
	p1, err := dcc.Finish([]byte{0x03, 0x6A})
	assert.NoError(t, err)
	p2 := dcc.MakeIdlePacket()

	r := NewReceiver(int(cfg.NumPreamble))
	feed(r, tx.Packet2Timings(p1, cfg))
	feed(r, tx.Packet2Timings(p2, cfg))

	got1, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, p1, got1)

	got2, ok := r.Pop()
	assert.True(t, ok)
	assert.Equal(t, p2, got2)
}
