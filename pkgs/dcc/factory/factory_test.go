package factory

import (
	"testing"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/stretchr/testify/assert"
)

func TestAllFactoryOutputsChecksum(t *testing.T) {
	packets := []func() (dcc.Packet, error){
		func() (dcc.Packet, error) { return HardReset() },
		func() (dcc.Packet, error) { return FactoryTest() },
		func() (dcc.Packet, error) { return AckRequest(3) },
		func() (dcc.Packet, error) { return ConsistSetAddress(3, 5, false) },
		func() (dcc.Packet, error) { return Speed128(3, true, 64) },
		func() (dcc.Packet, error) { return SpeedAndDirection14(3, true, 10, false) },
		func() (dcc.Packet, error) { return SpeedAndDirection28(3, true, 17) },
		func() (dcc.Packet, error) { return FunctionGroup1(3, 0b10101) },
		func() (dcc.Packet, error) { return FunctionGroup2(3, 0x0F) },
		func() (dcc.Packet, error) { return FunctionGroup3(3, 0x0F) },
		func() (dcc.Packet, error) { return BinaryStateShort(3, 10, true) },
		func() (dcc.Packet, error) { return BinaryStateLong(3, 300, true) },
		func() (dcc.Packet, error) { return CVAccessLongOps(3, CVWriteByte, 23, 0x42) },
		func() (dcc.Packet, error) { return CVAccessShort(3, CVShortAccDecoder, 2, 5) },
		func() (dcc.Packet, error) { return BasicAccessory(40, 1, true) },
		func() (dcc.Packet, error) { return ExtendedAccessory(40, 7) },
		func() (dcc.Packet, error) { return LogonEnable(LogonGroupAll, 1234, 1) },
		func() (dcc.Packet, error) { return LogonAssign(0x1122334455, 12) },
	}
	for i, f := range packets {
		p, err := f()
		assert.NoErrorf(t, err, "case %d", i)
		assert.Truef(t, p.Valid(), "case %d produced invalid checksum: % X", i, p)
	}
}

func TestFunctionGroup1RejectsOutOfRange(t *testing.T) {
	_, err := FunctionGroup1(3, 0xFF)
	assert.ErrorIs(t, err, dcc.ErrInvalidArgument)
}

// Speed-and-direction 28-step, address 3, forward, speed value 17
// (SSSS=1010, C=0).
// Expected wire bytes per spec.md §8 scenario 1: {0x03, 0x6A, 0x69}.
func TestSpeedAndDirection28SpecScenario(t *testing.T) {
	p, err := SpeedAndDirection28(3, true, 17)
	assert.NoError(t, err)
	assert.Equal(t, dcc.Packet{0x03, 0x6A, 0x69}, p)
}

// F0-F4 group, address 3, state 0b10101. Expected wire bytes per
// spec.md §8 scenario 2: {0x03, 0x95, 0x96}.
func TestFunctionGroup1SpecScenario(t *testing.T) {
	p, err := FunctionGroup1(3, 0b10101)
	assert.NoError(t, err)
	assert.Equal(t, dcc.Packet{0x03, 0x95, 0x96}, p)
}
