package dcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCRC8MatchesReferenceVector pins CRC8 against the original
// ZIMO-Elektronik/DCC test vector so a future change can't silently
// swap back to the unreflected (1-Wire-incompatible) construction.
func TestCRC8MatchesReferenceVector(t *testing.T) {
	data := []byte{0x0B, 0x0A, 0x00, 0x00, 0x8E, 0x40, 0x00, 0x0D, 0x67, 0x00, 0x01, 0x00}
	assert.Equal(t, byte(0x4C), CRC8(data))
}
