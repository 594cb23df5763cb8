package factory

import "github.com/keskad/dcc-core/pkgs/dcc"

// FunctionGroup1 returns the F0-F4 group instruction (100DDDDD).
// state bit4 is F0, bits0-3 are F1-F4.
func FunctionGroup1(addr uint16, state uint8) (dcc.Packet, error) {
	if state > 0x1F {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1000_0000|state)
	return dcc.Finish(body)
}

// FunctionGroup2 returns the F5-F8 group instruction (1011DDDD).
func FunctionGroup2(addr uint16, state uint8) (dcc.Packet, error) {
	if state > 0x0F {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1011_0000|state)
	return dcc.Finish(body)
}

// FunctionGroup3 returns the F9-F12 group instruction (1010DDDD).
func FunctionGroup3(addr uint16, state uint8) (dcc.Packet, error) {
	if state > 0x0F {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1010_0000|state)
	return dcc.Finish(body)
}

// FeatureExpansionF13F20 returns the F13-F20 binary-state feature
// expansion instruction (0b1101'1110, data byte = F13..F20).
func FeatureExpansionF13F20(addr uint16, state uint8) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1101_1110, state)
	return dcc.Finish(body)
}

// FeatureExpansionF21F28 returns the F21-F28 feature expansion
// instruction (0b1101'1111, data byte = F21..F28).
func FeatureExpansionF21F28(addr uint16, state uint8) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1101_1111, state)
	return dcc.Finish(body)
}

// FeatureExpansionHighGroup expresses the F29-F36 .. F61-F68 groups
// uniformly: the CVs and sub-IDs for groups above F28 are manufacturer/ODX extensions
// layered on the same 0b1101'1000 family with a sub-index byte.
func FeatureExpansionHighGroup(addr uint16, subID uint8, state uint8) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0b1101_1000, subID, state)
	return dcc.Finish(body)
}

// BinaryStateShort returns the short-form binary state control
// instruction (0b1101'1101) for state address low bit 1-127.
func BinaryStateShort(addr uint16, stateAddr uint8, on bool) (dcc.Packet, error) {
	if stateAddr > 127 {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var onBit uint8
	if on {
		onBit = 0x80
	}
	body = append(body, 0b1101_1101, onBit|stateAddr)
	return dcc.Finish(body)
}

// BinaryStateLong returns the long-form binary state control
// instruction (0b1100'0000) for a 15-bit state address.
func BinaryStateLong(addr uint16, stateAddr uint16, on bool) (dcc.Packet, error) {
	if stateAddr > 0x7FFF {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var onBit uint16
	if on {
		onBit = 0x8000
	}
	low := byte((onBit | stateAddr) & 0xFF)
	high := byte(((onBit | stateAddr) >> 8) & 0xFF)
	body = append(body, 0b1100_0000, low, high)
	return dcc.Finish(body)
}

// TimeAndDate returns the system time/date feature-expansion
// instruction used by command stations to broadcast a fast-clock
// reading (0b1100'0001 family).
func TimeAndDate(minute, hour, weekday uint8, timeScale uint8) (dcc.Packet, error) {
	body := []byte{0x00, 0b1100_0001, minute, hour, weekday, timeScale}
	return dcc.Finish(body)
}

// CommandStationFeatureID returns the CSFI broadcast packet
// (address 0, instruction 0b1101'1111, sub-ID + bitmap), used for
// loco/accessory/BiDi capability advertisements.
func CommandStationFeatureID(subID uint8, bitmap uint8) (dcc.Packet, error) {
	body := []byte{0x00, 0b1101_1111, subID, bitmap}
	return dcc.Finish(body)
}
