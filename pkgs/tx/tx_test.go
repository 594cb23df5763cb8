package tx

import (
	"testing"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/stretchr/testify/assert"
)

func defaultConfig() dcc.Config {
	return dcc.Config{
		NumPreamble:  17,
		Bit1Duration: 58,
		Bit0Duration: 100,
		Flags:        dcc.ConfigFlags{BiDi: true},
	}
}

// Idle timings: default config, packet2timings(make_idle_packet())
// starts with 34 values of 58 (preamble), then the startbit/data
// pattern for {0xFF, 0x00, 0xFF}, ends with 58, 58.
func TestIdleTimingsSpecScenario(t *testing.T) {
	cfg := defaultConfig()
	got := Packet2Timings(dcc.MakeIdlePacket(), cfg)

	for i := 0; i < 34; i++ {
		assert.Equalf(t, uint16(58), got[i], "preamble half-bit %d", i)
	}
	assert.Equal(t, uint16(58), got[len(got)-1])
	assert.Equal(t, uint16(58), got[len(got)-2])
}

func TestTimingsAdapterMatchesPacket2Timings(t *testing.T) {
	cfg := defaultConfig()
	p, err := dcc.Finish([]byte{0x03, 0x6A})
	assert.NoError(t, err)

	want := Packet2Timings(p, cfg)
	adapter := NewTimingsAdapter(p, cfg)

	var got Timings
	for !adapter.Done() {
		got = append(got, adapter.Next())
	}
	assert.Equal(t, []uint16(want), []uint16(got))
}

// BiDi cutout schedule: after any packet's last half-bit, the next
// five Transmit() calls return 29, 51, 113, 261, 17.
func TestPipelineCutoutSchedule(t *testing.T) {
	cfg := defaultConfig()
	p := NewPipeline(cfg, Hooks{})

	timings := Packet2Timings(dcc.MakeIdlePacket(), cfg)
	for i := 0; i < len(timings); i++ {
		p.Transmit()
	}

	want := []uint16{29, 51, 113, 261, 17}
	for _, w := range want {
		assert.Equal(t, w, p.Transmit())
	}
}

func TestPipelineQueueFullDropsPacket(t *testing.T) {
	cfg := defaultConfig()
	p := NewPipeline(cfg, Hooks{})
	idle := dcc.MakeIdlePacket()
	for i := 0; i < QueueSize; i++ {
		assert.True(t, p.Packet(idle))
	}
	assert.False(t, p.Packet(idle))
}

func TestPipelineInvokesCutoutHooksInOrder(t *testing.T) {
	cfg := defaultConfig()
	var order []string
	hooks := Hooks{
		BiDiStart:    func() { order = append(order, "start") },
		BiDiChannel1: func() { order = append(order, "ch1") },
		BiDiChannel2: func() { order = append(order, "ch2") },
		BiDiEnd:      func() { order = append(order, "end") },
	}
	p := NewPipeline(cfg, hooks)
	timings := Packet2Timings(dcc.MakeIdlePacket(), cfg)
	for i := 0; i < len(timings)+5; i++ {
		p.Transmit()
	}
	assert.Equal(t, []string{"start", "ch1", "ch2", "end"}, order)
}
