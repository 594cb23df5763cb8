package factory

import "github.com/keskad/dcc-core/pkgs/dcc"

// CVMode selects which of the four long-form CV sub-operations a
// packet performs.
type CVMode uint8

const (
	CVVerifyByte CVMode = iota
	CVWriteByte
	CVVerifyBit
	CVWriteBit
)

// cvLongFormBytes builds the KKVVVVVV... CV-access instruction byte pair
// for the long form (0111KKVV CVLLLLLL), shared by operations-mode
// and service-mode variants.
func cvLongFormBytes(mode CVMode, cv uint16, valueOrBit byte) ([]byte, error) {
	if cv < 1 || cv > 1024 {
		return nil, dcc.ErrInvalidArgument
	}
	wireCV := cv - 1 // CV1 is transmitted as 0
	var kk byte
	switch mode {
	case CVVerifyByte:
		kk = 0b01
	case CVWriteByte:
		kk = 0b11
	case CVVerifyBit, CVWriteBit:
		kk = 0b10
	default:
		return nil, dcc.ErrInvalidArgument
	}
	b1 := 0b0111_0000 | kk<<2 | byte((wireCV>>8)&0x03)
	b2 := byte(wireCV & 0xFF)
	return []byte{b1, b2}, nil
}

// CVAccessLongOps returns an operations-mode (PoM) long-form CV
// verify/write-byte instruction addressed to addr.
func CVAccessLongOps(addr uint16, mode CVMode, cv uint16, value byte) (dcc.Packet, error) {
	if mode != CVVerifyByte && mode != CVWriteByte {
		return nil, dcc.ErrInvalidArgument
	}
	head, err := cvLongFormBytes(mode, cv, value)
	if err != nil {
		return nil, err
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, head...)
	body = append(body, value)
	return dcc.Finish(body)
}

// CVAccessLongBitOps returns an operations-mode long-form CV bit
// verify/write instruction. pos is the bit position 0-7.
func CVAccessLongBitOps(addr uint16, cv uint16, pos uint8, write bool, bitValue bool) (dcc.Packet, error) {
	if pos > 7 {
		return nil, dcc.ErrInvalidArgument
	}
	head, err := cvLongFormBytes(CVVerifyBit, cv, 0)
	if err != nil {
		return nil, err
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var w, v byte
	if write {
		w = 0x10
	}
	if bitValue {
		v = 0x08
	}
	body = append(body, head...)
	body = append(body, 0b1110_0000|w|v|pos)
	return dcc.Finish(body)
}

// CVAccessLongService is the service-mode (address-free, 4-byte)
// long-form CV access instruction: {0111KKVV, CVLL, value, XOR}.
func CVAccessLongService(mode CVMode, cv uint16, value byte) (dcc.Packet, error) {
	head, err := cvLongFormBytes(mode, cv, value)
	if err != nil {
		return nil, err
	}
	body := append([]byte{}, head...)
	body = append(body, value)
	return dcc.Finish(body)
}

// ServiceRegisterWrite returns a register-mode (3-byte) service
// packet: {0111CRRR, value, XOR} with C set (write). reg is the
// register number 0-7; the dispatcher maps register 0 to CV1, 4 to
// CV29, 5 to CV8 and 6 to CV7, and registers 1-3 and 7 to the CV of
// the same number.
func ServiceRegisterWrite(reg uint8, value byte) (dcc.Packet, error) {
	if reg > 7 {
		return nil, dcc.ErrInvalidArgument
	}
	body := []byte{0b0111_1000 | reg, value}
	return dcc.Finish(body)
}

// ServiceRegisterRead returns a register-mode read/verify packet:
// {0111CRRR, 0x00, XOR} with the verify value supplied by the host
// comparison, per the original register-mode protocol.
func ServiceRegisterRead(reg uint8) (dcc.Packet, error) {
	if reg > 7 {
		return nil, dcc.ErrInvalidArgument
	}
	body := []byte{0b0111_0000 | reg, 0x00}
	return dcc.Finish(body)
}

// CVShortKind enumerates the RCN-214 short-form kkkk CV access kinds.
type CVShortKind uint8

const (
	CVShortAccDecoder CVShortKind = 0b0010
	CVShortAccExt     CVShortKind = 0b0011
	CVShortSoundFX    CVShortKind = 0b0100
	CVShortSlowdown   CVShortKind = 0b0101
	CVShortReserved   CVShortKind = 0b0110
)

// CVAccessShort returns an RCN-214 short-form CV access instruction
// (1111KKKK CVVV data) addressed to addr.
func CVAccessShort(addr uint16, kind CVShortKind, cvLow uint8, data byte) (dcc.Packet, error) {
	if cvLow > 0x0F {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1111_0000|byte(kind), cvLow, data)
	return dcc.Finish(body)
}

// XPOMReadOrWrite returns an XPOM instruction (operations mode only):
// sequenceID (0-3) tags which of up to 4 CV bytes (or a bit write)
// this command carries.
func XPOMReadOrWrite(addr uint16, sequenceID uint8, subCmd uint8, cvAddr uint32, data []byte) (dcc.Packet, error) {
	if sequenceID > 3 || len(data) > 4 {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1100_0000|sequenceID<<3|0b100|subCmd)
	body = append(body, byte(cvAddr), byte(cvAddr>>8), byte(cvAddr>>16))
	body = append(body, data...)
	return dcc.Finish(body)
}
