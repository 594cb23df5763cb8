package factory

import "github.com/keskad/dcc-core/pkgs/dcc"

// LogonGroup selects which class of decoder an automatic-logon-enable
// command addresses (spec.md §4.5 "Group gg").
type LogonGroup uint8

const (
	LogonGroupAll LogonGroup = iota
	LogonGroupLoco
	LogonGroupAccessory
	LogonGroupNoBackoff
)

// logonBody starts a packet body addressed to the reserved
// AutomaticLogon address (254).
func logonBody() []byte {
	return []byte{0xFE}
}

// LogonEnable returns the LOGON_ENABLE instruction (RCN-218): group
// gg, a 16-bit command-station ID and an 8-bit session ID, CRC-8
// protected.
func LogonEnable(group LogonGroup, cid uint16, sessionID uint8) (dcc.Packet, error) {
	body := logonBody()
	body = append(body, 0b1111_0000|byte(group)<<1, byte(cid>>8), byte(cid), sessionID)
	crc := dcc.CRC8(body)
	return dcc.Finish(append(body, crc))
}

// LogonSelect returns the LOGON_SELECT instruction addressed to a
// specific decoder-ID (DID), used to ask "are you did?".
func LogonSelect(did uint64) (dcc.Packet, error) {
	if did > 0xFFFFFFFFFF {
		return nil, dcc.ErrInvalidArgument
	}
	body := logonBody()
	body = append(body, 0b1110_0000,
		byte(did>>32), byte(did>>24), byte(did>>16), byte(did>>8), byte(did))
	crc := dcc.CRC8(body)
	return dcc.Finish(append(body, crc))
}

// LogonAssign returns the LOGON_ASSIGN instruction: a decoder-ID and
// the address to assign it, CRC-8 protected.
func LogonAssign(did uint64, addr uint16) (dcc.Packet, error) {
	if did > 0xFFFFFFFFFF {
		return nil, dcc.ErrInvalidArgument
	}
	body := logonBody()
	body = append(body, 0b1101_0000,
		byte(did>>32), byte(did>>24), byte(did>>16), byte(did>>8), byte(did),
		byte(addr>>8), byte(addr))
	crc := dcc.CRC8(body)
	return dcc.Finish(append(body, crc))
}
