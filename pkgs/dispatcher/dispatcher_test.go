package dispatcher

import (
	"testing"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/keskad/dcc-core/pkgs/dcc/factory"
	"github.com/keskad/dcc-core/pkgs/rx"
	"github.com/keskad/dcc-core/pkgs/tx"
	"github.com/stretchr/testify/assert"
)

type fakeHost struct {
	NoopHost
	cvs map[uint16]byte

	lastForward   *bool
	lastSpeed     *int
	lastFuncMask  uint32
	lastFuncBits  uint32
	serviceAcks   int
	serviceMode   []bool
	writeCVCalls  map[uint16]int
}

func newFakeHost(addr uint16) *fakeHost {
	return &fakeHost{cvs: map[uint16]byte{1: byte(addr)}, writeCVCalls: map[uint16]int{}}
}

func (h *fakeHost) ReadCV(addr uint16) uint8 { return h.cvs[addr] }
func (h *fakeHost) WriteCV(addr uint16, v uint8) {
	h.cvs[addr] = v
	h.writeCVCalls[addr]++
}
func (h *fakeHost) Direction(_ uint16, forward bool) {
	f := forward
	h.lastForward = &f
}
func (h *fakeHost) Speed(_ uint16, speed int) {
	s := speed
	h.lastSpeed = &s
}
func (h *fakeHost) Function(_ uint16, mask, bits uint32) {
	h.lastFuncMask, h.lastFuncBits = mask, bits
}
func (h *fakeHost) ServiceAck()          { h.serviceAcks++ }
func (h *fakeHost) ServiceModeHook(a bool) { h.serviceMode = append(h.serviceMode, a) }

func feedPackets(d *Dispatcher, pkts ...dcc.Packet) {
	for _, p := range pkts {
		d.dispatch(p)
	}
}

func TestSpeedAndDirection28Decoding(t *testing.T) {
	host := newFakeHost(3)
	host.cvs[29] = cv29F0Mode // 28-step mode
	d := New(host, 3)

	p, err := factory.SpeedAndDirection28(3, true, 17)
	assert.NoError(t, err)
	feedPackets(d, p)

	assert.True(t, *host.lastForward)
	assert.Equal(t, factory.Scale28To255(17), *host.lastSpeed)
}

func TestFunctionGroup1F0Bit(t *testing.T) {
	host := newFakeHost(3)
	host.cvs[29] = cv29F0Mode // 28-step mode, F0 via function group
	d := New(host, 3)

	p, err := factory.FunctionGroup1(3, 0b10101)
	assert.NoError(t, err)
	feedPackets(d, p)

	assert.Equal(t, uint32(0x1F), host.lastFuncMask)
	assert.Equal(t, uint32(1), host.lastFuncBits&1) // F0 on
}

func TestCVWriteCommitsOnlyOnSecondIdenticalPacket(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)

	p, err := factory.CVAccessLongOps(3, factory.CVWriteByte, 5, 0x42)
	assert.NoError(t, err)

	feedPackets(d, p)
	assert.NotEqual(t, byte(0x42), host.cvs[5], "first copy must not commit")

	feedPackets(d, p)
	assert.Equal(t, byte(0x42), host.cvs[5], "second identical copy commits")
}

func TestCVWriteNeverRepeatsPastSecondIdenticalPacket(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)

	p, err := factory.CVAccessLongOps(3, factory.CVWriteByte, 5, 0x42)
	assert.NoError(t, err)

	for i := 0; i < 5; i++ {
		feedPackets(d, p)
	}
	assert.Equal(t, byte(0x42), host.cvs[5])
	assert.Equal(t, 1, host.writeCVCalls[5], "writeCv must fire exactly once across repeats 1..5")
}

func TestServiceModeLongFormNeverRepeatsPastFifthIdenticalPacket(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)
	d.enterServiceMode()

	p, err := factory.CVAccessLongService(factory.CVWriteByte, 5, 0x7A)
	assert.NoError(t, err)

	for i := 0; i < 8; i++ {
		feedPackets(d, p)
	}
	assert.Equal(t, byte(0x7A), host.cvs[5])
	assert.Equal(t, 1, host.writeCVCalls[5], "writeCv must fire exactly once across repeats 1..8")
	assert.Equal(t, 1, host.serviceAcks, "serviceAck must fire exactly once, not on every repeat past 5")
}

func TestCVWriteBlockedWhenLocked(t *testing.T) {
	host := newFakeHost(3)
	host.cvs[15] = 0xAA
	host.cvs[16] = 0xBB // mismatched, lock engaged
	d := New(host, 3)

	p, err := factory.CVAccessLongOps(3, factory.CVWriteByte, 5, 0x42)
	assert.NoError(t, err)
	feedPackets(d, p, p)

	assert.Equal(t, byte(0), host.cvs[5])
}

func TestServiceModeLongFormCommitsOnFifthRepeat(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)
	d.enterServiceMode()

	p, err := factory.CVAccessLongService(factory.CVWriteByte, 5, 0x7A)
	assert.NoError(t, err)

	for i := 0; i < 4; i++ {
		feedPackets(d, p)
		assert.NotEqual(t, byte(0x7A), host.cvs[5])
	}
	feedPackets(d, p)
	assert.Equal(t, byte(0x7A), host.cvs[5])
	assert.Equal(t, 1, host.serviceAcks)
}

func TestServiceModeExitsOnUnrecognizedPacket(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)
	d.enterServiceMode()
	assert.Equal(t, ModeService, d.mode)

	idle := dcc.MakeIdlePacket()
	feedPackets(d, idle)
	assert.Equal(t, ModeOperations, d.mode)
}

func TestQoSSampledAfter100Preambles(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)

	r := rx.NewReceiver(17)
	cfg := dcc.Config{NumPreamble: 17, Bit1Duration: 58, Bit0Duration: 100}
	p, err := factory.SpeedAndDirection28(3, true, 10)
	assert.NoError(t, err)

	for i := 0; i < 101; i++ {
		for _, us := range tx.Packet2Timings(p, cfg) {
			r.Receive(us)
		}
		d.Execute(r)
	}
	assert.True(t, d.bidi.haveQoS)
}

func TestLogonAssignOverwritesPrimaryAddress(t *testing.T) {
	host := newFakeHost(3)
	d := New(host, 3)
	d.SetDID(0x1234567890)

	p, err := factory.LogonAssign(0x1234567890, 42)
	assert.NoError(t, err)
	feedPackets(d, p)

	assert.Equal(t, byte(42), host.cvs[1])
}
