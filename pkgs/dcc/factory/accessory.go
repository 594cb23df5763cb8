package factory

import "github.com/keskad/dcc-core/pkgs/dcc"

// BasicAccessory returns a basic accessory decoder control packet.
// addr is the 9-bit accessory address (0-511); output selects one of
// four pairs; activate drives the coil on/off.
func BasicAccessory(addr uint16, output uint8, activate bool) (dcc.Packet, error) {
	if addr > 0x1FF || output > 3 {
		return nil, dcc.ErrInvalidArgument
	}
	a76 := byte((addr >> 6) & 0x07)
	a50 := byte(addr & 0x3F)
	var act byte
	if activate {
		act = 0x08
	}
	body := []byte{
		0b1000_0000 | a50,
		byte(0b1000_0000 | (^a76&0x07)<<4 | act | output),
	}
	return dcc.Finish(body)
}

// ExtendedAccessory returns an extended accessory decoder control
// packet (aspect signaling), addr is the 11-bit extended address.
func ExtendedAccessory(addr uint16, aspect uint8) (dcc.Packet, error) {
	if addr > 0x7FF {
		return nil, dcc.ErrInvalidArgument
	}
	a109 := byte((addr >> 9) & 0x03)
	a86 := byte((addr >> 6) & 0x07)
	a50 := byte(addr & 0x3F)
	body := []byte{
		0b1000_0000 | a50,
		byte(0b0000_0001 | (^a86&0x07)<<4 | a109<<1),
		aspect,
	}
	return dcc.Finish(body)
}

// AccessoryNOP returns the accessory decoder no-operation control
// packet used to keep a decoder's watchdog alive without changing
// output state.
func AccessoryNOP(addr uint16) (dcc.Packet, error) {
	if addr > 0x1FF {
		return nil, dcc.ErrInvalidArgument
	}
	a76 := byte((addr >> 6) & 0x07)
	a50 := byte(addr & 0x3F)
	body := []byte{
		0b1000_0000 | a50,
		byte(0b0000_1000 | (^a76&0x07)<<4),
	}
	return dcc.Finish(body)
}
