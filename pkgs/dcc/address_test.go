package dcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressRoundTrip(t *testing.T) {
	cases := []Address{
		{Value: 0, Type: Broadcast},
		{Value: 3, Type: Short},
		{Value: 5000, Type: Long},
		{Value: 150, Type: Accessory},
		{Value: 254, Type: AutomaticLogon},
		{Value: 255, Type: IdleSystem},
	}
	for _, a := range cases {
		bytes, err := EncodeAddress(nil, a)
		assert.NoError(t, err)
		decoded, _, err := DecodeAddress(bytes)
		assert.NoError(t, err)
		assert.True(t, a.Equal(decoded), "round-trip mismatch for %+v -> %+v", a, decoded)
	}
}

func TestAddressEqualLegacyShortLongOverlap(t *testing.T) {
	short := Address{Value: 42, Type: Short}
	long := Address{Value: 42, Type: Long}
	assert.True(t, short.Equal(long))
}

func TestAddressEqualTypeSensitiveOtherwise(t *testing.T) {
	bc := Address{Value: 0, Type: Broadcast}
	idle := Address{Value: 0, Type: IdleSystem}
	assert.False(t, bc.Equal(idle))
}

func TestDecodeAddressLongPrefix(t *testing.T) {
	addr, n, err := DecodeAddress([]byte{0xC1, 0x2C})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, Long, addr.Type)
}
