package factory

import "github.com/keskad/dcc-core/pkgs/dcc"

// Speed128 returns the 128-speed-step advanced-operations packet
// (instruction 0x3F). speed is 0 (halt), 1 (estop) or 2..127 (linear
// speed); forward selects the direction bit.
func Speed128(addr uint16, forward bool, speed uint8) (dcc.Packet, error) {
	if speed > 127 {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var dir byte
	if forward {
		dir = 0x80
	}
	body = append(body, 0x3F, dir|speed)
	return dcc.Finish(body)
}

// SpeedAndDirection14 returns the classic 14-speed-step instruction
// 01DFSSSS, with F0 carried in bit 4 (the bit 28-step mode uses as its
// extra speed bit; a decoder reads it as F0 when CV29.1==0). speed is
// 0-15 (0=stop, 1=estop,
// 2-15=steps); f0 is only meaningful when the decoder is configured
// for 14-step mode.
func SpeedAndDirection14(addr uint16, forward bool, speed uint8, f0 bool) (dcc.Packet, error) {
	if speed > 15 {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var dir, fbit byte
	if forward {
		dir = 0x20
	}
	if f0 {
		fbit = 0x10
	}
	body = append(body, 0b0100_0000|dir|fbit|speed)
	return dcc.Finish(body)
}

// SpeedAndDirection28 returns the 28-speed-step instruction, which
// packs an extra speed bit into what was the F0 slot (the
// "intermediate" mapping): speed is 0-28 (0=stop, 1=estop, 2-28 =
// DCC steps 2-28 through the usual DCC half-step interleave; DCC step
// 1 is not produced).
func SpeedAndDirection28(addr uint16, forward bool, speed uint8) (dcc.Packet, error) {
	if speed > 28 {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var dir byte
	if forward {
		dir = 0x20
	}
	body = append(body, 0b0100_0000|dir|encodeRaw28(speed))
	return dcc.Finish(body)
}

// encodeRaw28 packs a 0-28 speed value into the C+SSSS nibble pair
// used by the 28-step interleave: C sits in the old F0 slot (bit4),
// SSSS in the low nibble.
func encodeRaw28(speed uint8) byte {
	var raw byte
	switch speed {
	case 0:
		raw = 0
	case 1:
		raw = 2
	default:
		raw = speed + 3
	}
	c := raw & 0x01
	ssss := (raw >> 1) & 0x0F
	return c<<4 | ssss
}

// DecodeSpeedAndDirection28 recovers direction and the 0-28 speed
// value SpeedAndDirection28 encodes, from a speed-and-direction
// instruction byte.
func DecodeSpeedAndDirection28(b byte) (forward bool, speed uint8) {
	forward = b&0x20 != 0
	c := (b >> 4) & 0x01
	ssss := b & 0x0F
	raw := ssss<<1 | c
	switch {
	case raw <= 1:
		speed = 0
	case raw <= 3:
		speed = 1
	default:
		speed = raw - 3
	}
	return
}

// Scale28To255 maps a 0-28 speed step value onto the 0-255 range used
// by the host Speed() hook (spec.md §8 scenario 1's scale28 helper).
func Scale28To255(step uint8) int {
	switch step {
	case 0:
		return 0
	case 1:
		return -1
	default:
		return int((uint32(step-1) * 255) / 27)
	}
}

// Scale126To255 maps a 128-step (2..127) speed value onto 0..255.
func Scale126To255(step uint8) int {
	switch step {
	case 0:
		return 0
	case 1:
		return -1
	default:
		return int((uint32(step-1) * 255) / 125)
	}
}

// SpeedDirectionFunctions returns the combined speed+direction+
// functions instruction (0x3C): one speed byte followed by 1-4
// function-group bytes, each independently decoded by the dispatcher.
func SpeedDirectionFunctions(addr uint16, forward bool, speed uint8, fnBytes ...byte) (dcc.Packet, error) {
	if speed > 127 || len(fnBytes) > 4 {
		return nil, dcc.ErrInvalidArgument
	}
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	var dir byte
	if forward {
		dir = 0x80
	}
	body = append(body, 0x3C, dir|speed)
	body = append(body, fnBytes...)
	return dcc.Finish(body)
}

// AnalogFunctionGroup returns the advanced-operations analog function
// group instruction (0x3D).
func AnalogFunctionGroup(addr uint16, group uint8, value uint8) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0x3D, group, value)
	return dcc.Finish(body)
}

// SpecialOperatingMode returns the advanced-operations special-mode
// instruction (0x3E), used for MAN / east-west override.
func SpecialOperatingMode(addr uint16, value uint8) (dcc.Packet, error) {
	body, err := addressBody(addr)
	if err != nil {
		return nil, err
	}
	body = append(body, 0x3E, value)
	return dcc.Finish(body)
}
