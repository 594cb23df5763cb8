package dcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXorSum(t *testing.T) {
	cases := []struct {
		input    []byte
		expected byte
	}{
		{[]byte{}, 0},
		{[]byte{0x01, 0x02}, 0x03},
		{[]byte{0xAA, 0x55}, 0xFF},
		{[]byte{0x01, 0x01, 0x01}, 0x01},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, XorSum(c.input))
	}
}

func TestFinishAppendsChecksum(t *testing.T) {
	p, err := Finish([]byte{0x03, 0x6A})
	assert.NoError(t, err)
	assert.Equal(t, Packet{0x03, 0x6A, 0x69}, p)
	assert.True(t, p.Valid())
}

func TestFinishRejectsOversizedPacket(t *testing.T) {
	body := make([]byte, MaxPacketSize)
	_, err := Finish(body)
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestIdlePacketRoundTrips(t *testing.T) {
	p := MakeIdlePacket()
	assert.True(t, p.Valid())
	addr, n, err := DecodeAddress(p)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, IdleSystem, addr.Type)
}
