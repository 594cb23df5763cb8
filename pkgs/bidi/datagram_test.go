package bidi

import (
	"testing"

	"github.com/keskad/dcc-core/pkgs/bidi/app"
	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/stretchr/testify/assert"
)

func TestDatagramSizes(t *testing.T) {
	cases := map[Bits]int{Bits12: 2, Bits18: 3, Bits24: 4, Bits36: 6, Bits48: 8}
	for bits, want := range cases {
		got, err := bits.Size()
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncodedBytesAreBalancedOrZero(t *testing.T) {
	raw, err := MakeDatagram(Bits36, 7, 0x1A2B3)
	assert.NoError(t, err)
	encoded := EncodeDatagram(raw)
	for _, b := range encoded {
		assert.True(t, ValidLineByte(b))
	}
}

func TestDatagramRoundTrip(t *testing.T) {
	raw, err := MakeDatagram(Bits18, 7, 0x2A1)
	assert.NoError(t, err)
	encoded := EncodeDatagram(raw)
	decoded, err := DecodeDatagram(encoded)
	assert.NoError(t, err)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, uint8(7), decoded.ID())
	assert.Equal(t, uint64(0x2A1), decoded.Data())
}

func TestMakeDatagramRejectsOversizedData(t *testing.T) {
	_, err := MakeDatagram(Bits12, 0, 0xFFF)
	assert.ErrorIs(t, err, ErrDataOverflow)
}

func TestDissectorYieldsChannel1AdrHigh(t *testing.T) {
	high, err := MakeAdrHighDatagram(0x12)
	assert.NoError(t, err)

	blob := append(Datagram{}, EncodeDatagram(high)...)
	blob = append(blob, make(Datagram, 6)...) // channel-2 silent

	d := NewDissector(blob, dcc.Address{Value: 3, Type: dcc.Short})
	first, ok := d.Next()
	assert.True(t, ok)
	assert.Equal(t, app.AdrHigh{D: 0x12}, first)

	_, ok = d.Next()
	assert.False(t, ok)
}

func TestDissectorYieldsChannel2Dyn(t *testing.T) {
	dyn, err := MakeDynDatagram(7, 1)
	assert.NoError(t, err)

	blob := append(Datagram{0, 0}, EncodeDatagram(dyn)...)
	blob = append(blob, make(Datagram, 3)...)

	d := NewDissector(blob, dcc.Address{Value: 3, Type: dcc.Short})
	first, ok := d.Next()
	assert.True(t, ok)
	assert.Equal(t, app.Dyn{D: 7, X: 1}, first)
}
