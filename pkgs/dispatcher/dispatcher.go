package dispatcher

import (
	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/keskad/dcc-core/pkgs/dcc/factory"
	"github.com/keskad/dcc-core/pkgs/rx"
)

// CV numbers this dispatcher snapshots after every write, mirroring
// config()/updateConfig() in the teacher's receive pipeline: these
// values shape addressing, locking and the 14/28-step F0 exception
// without needing a round trip to the host on every packet.
const (
	cvPrimaryLow   = 1
	cvLock15       = 15
	cvLock16       = 16
	cvExtendedHigh = 17
	cvExtendedLow  = 18
	cvConsistLow   = 19
	cvConsistHigh  = 20
	cvBiDiConfig   = 28
	cvConfig29     = 29
)

// CV29 bit masks this dispatcher reads back out of its cached value.
const (
	cv29F0Mode       = 1 << 1 // 0 = 14-step carries F0 separately
	cv29ExtendedAddr = 1 << 5 // set by the host on accepting CV17/18
)

// Mode is the dispatcher's top-level state: operations mode decodes
// addressed instructions; service mode decodes the unaddressed
// register/CV packets used for direct-mode programming.
type Mode uint8

const (
	ModeOperations Mode = iota
	ModeService
)

// Dispatcher decodes framed packets off a rx.Receiver's deque, drives
// a Host, and tracks the small amount of state (CV cache, address
// overlays, same-packet debounce, automatic-logon session) that the
// DCC decoder-side protocol requires between packets.
type Dispatcher struct {
	host  Host
	addrs Addresses
	mode  Mode

	lastPacket dcc.Packet
	sameCount  int

	cv15, cv16, cv17, cv18, cv19, cv20, cv29 byte

	logon logonState
	bidi  bidiResponder
}

// New builds a Dispatcher for a decoder whose primary address is
// addr. It snapshots the CV cache from host immediately, the way
// config() does on startup.
func New(host Host, addr uint16) *Dispatcher {
	d := &Dispatcher{
		host:  host,
		addrs: Addresses{Primary: dcc.LocoAddress(addr)},
	}
	d.updateConfig()
	return d
}

// updateConfig re-reads the CVs that shape addressing, locking and
// the consist address from the host. Call after any write to one of
// CV1/15/16/17/18/19/20/28/29.
func (d *Dispatcher) updateConfig() {
	d.cv15 = d.host.ReadCV(cvLock15)
	d.cv16 = d.host.ReadCV(cvLock16)
	d.cv17 = d.host.ReadCV(cvExtendedHigh)
	d.cv18 = d.host.ReadCV(cvExtendedLow)
	d.cv19 = d.host.ReadCV(cvConsistLow)
	d.cv20 = d.host.ReadCV(cvConsistHigh)
	d.cv29 = d.host.ReadCV(cvConfig29)

	if d.cv29&cv29ExtendedAddr != 0 {
		d.addrs.Primary = dcc.Address{Value: (uint16(d.cv17)<<8 | uint16(d.cv18)) & 0x3FFF, Type: dcc.Long}
	} else {
		d.addrs.Primary = dcc.Address{Value: uint16(d.host.ReadCV(cvPrimaryLow)), Type: dcc.Short}
	}

	consist := d.cv19 & 0x7F
	if consist != 0 {
		d.addrs.Consist = dcc.Address{Value: uint16(consist), Type: dcc.Short, Reversed: d.cv19&0x80 != 0}
	} else {
		d.addrs.Consist = dcc.Address{}
	}

	d.bidi.setAddress(d.addrs.Primary.Value)
}

// cvsLocked implements the CV15/16 lock gate: a write is blocked
// unless CV15 and CV16 agree (or either is zero, the unlocked
// default), matching the teacher's "_cvs_locked" guard. CV15 itself is
// always writable so a host can clear the lock.
func (d *Dispatcher) cvsLocked() bool {
	return d.cv15 != d.cv16 && d.cv15 != 0 && d.cv16 != 0
}

// locoAddr identifies which loco the dispatcher last matched the
// running packet against; callers (motion/function handlers) report
// against this rather than the raw wire address so a consist-matched
// packet still reports the primary address to the host.
func (d *Dispatcher) locoAddr() uint16 { return d.addrs.Primary.Value }

// Execute drains every packet currently queued on r and dispatches
// it, returning how many were processed. It also samples r's
// preamble/packet counters to emit QoS feedback over BiDi channel-2
// once enough preambles have been observed.
func (d *Dispatcher) Execute(r *rx.Receiver) int {
	n := 0
	for {
		pkt, ok := r.Pop()
		if !ok {
			break
		}
		d.dispatch(pkt)
		n++
	}
	d.sampleQoS(r)
	return n
}

// BiDiChannel1 and BiDiChannel2 return the encoded line-code bytes for
// the current cut-out's two channels; wire them into a tx.Pipeline's
// Hooks.BiDiChannel1/BiDiChannel2 alongside host.TransmitBiDi.
func (d *Dispatcher) BiDiChannel1() []byte { return d.bidi.Channel1() }
func (d *Dispatcher) BiDiChannel2() []byte { return d.bidi.Channel2() }

func (d *Dispatcher) dispatch(pkt dcc.Packet) {
	addr, n, err := dcc.DecodeAddress(pkt)
	if err != nil {
		return
	}

	if d.mode == ModeService {
		d.countRepeat(pkt)
		d.serviceMode(pkt)
		return
	}

	if addr.Type == dcc.AutomaticLogon {
		d.handleLogon(pkt[n:])
		return
	}

	if !d.addrs.Matches(addr) {
		return
	}
	d.countRepeat(pkt)
	d.operations(pkt[n:], addr)
}

// countRepeat implements countOwnEqualPackets(): an exact byte-for-
// byte repeat of the last packet addressed to us increments the
// streak, anything else resets it to 1. CV-write commit rules key off
// this streak instead of trusting a single packet, since the physical
// layer has no acknowledgement channel of its own.
func (d *Dispatcher) countRepeat(pkt dcc.Packet) {
	if d.lastPacket != nil && bytesEqual(d.lastPacket, pkt) {
		d.sameCount++
	} else {
		d.sameCount = 1
	}
	d.lastPacket = append(dcc.Packet{}, pkt...)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (d *Dispatcher) operations(instr []byte, addr dcc.Address) {
	if len(instr) == 0 {
		return
	}
	op := instr[0]
	switch {
	case op&0xE0 == 0x00: // decoder control 0000xxxx, consist control 0001xxxx
		d.decoderControl(instr, addr)
	case op&0xF0 == 0x70:
		d.cvLong(instr, addr)
	case op&0xC0 == 0x40:
		d.speedAndDirection(op, addr)
	case op&0xE0 == 0x80:
		d.functionGroup1(op, addr)
	case op&0xF0 == 0xB0:
		d.functionGroup2(op, addr)
	case op&0xF0 == 0xA0:
		d.functionGroup3(op, addr)
	case op == 0x3F:
		d.advancedSpeed128(instr, addr)
	case op == 0x3E:
		d.advancedMAN(instr, addr)
	case op == 0x3D:
		d.advancedAnalogFunction(instr, addr)
	case op == 0x3C:
		d.advancedSpeedDirFunctions(instr, addr)
	case op&0xF0 == 0xF0:
		d.cvShort(instr, addr)
	case op == 0xC0:
		d.binaryStateLong(instr, addr)
	case op&0xF0 == 0xD0:
		d.featureExpansion(instr, addr)
	}
}

func (d *Dispatcher) decoderControl(instr []byte, addr dcc.Address) {
	switch {
	case instr[0] == 0b0000_0000: // digital decoder reset
		d.host.Direction(d.locoAddr(), true)
		d.host.Speed(d.locoAddr(), 0)
	case instr[0] == 0b0000_1001 && addr.Type == dcc.Broadcast:
		// enter service mode on the reserved broadcast decoder-control
		// variant.
		d.enterServiceMode()
	case instr[0]&0b1111_1110 == 0b0001_0010: // CV19 consist control
		if len(instr) >= 2 && !d.cvsLocked() {
			d.host.WriteCV(cvConsistLow, instr[1])
			d.updateConfig()
		}
	}
}

// EnterServiceMode switches the dispatcher into direct-mode
// programming, for hosts (or this CLI's virtual decoder) that put a
// decoder on a dedicated programming track rather than relying on the
// automatic decoder-control broadcast to do it.
func (d *Dispatcher) EnterServiceMode() { d.enterServiceMode() }

// Mode reports whether the dispatcher is currently in service mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

func (d *Dispatcher) enterServiceMode() {
	d.mode = ModeService
	d.sameCount = 0
	d.lastPacket = nil
	d.host.ServiceModeHook(true)
}

func (d *Dispatcher) exitServiceMode() {
	d.mode = ModeOperations
	d.host.ServiceModeHook(false)
	d.updateConfig()
}

func (d *Dispatcher) speedAndDirection(op byte, addr dcc.Address) {
	forward := op&0x20 != 0
	d.host.Direction(d.locoAddr(), forward)

	if d.cv29&cv29F0Mode == 0 {
		// 14-step mode: bit4 is the genuine F0 function bit, carried
		// in this instruction instead of a function group.
		speed14 := op & 0x0F
		f0 := op&0x10 != 0
		var f0state uint32
		if f0 {
			f0state = 1
		}
		d.host.Function(d.locoAddr(), 1, f0state)
		d.host.Speed(d.locoAddr(), scale14(speed14))
		return
	}
	// 28-step interleave: bit4 carries the extra speed bit, freeing
	// F0 to travel in its own function group instead.
	_, speed28 := factory.DecodeSpeedAndDirection28(op)
	d.host.Speed(d.locoAddr(), factory.Scale28To255(speed28))
}

func scale14(step byte) int {
	switch step {
	case 0:
		return 0
	case 1:
		return -1
	default:
		return int((uint32(step-1) * 255) / 13)
	}
}

// functionGroup1 decodes F0-F4 (100DDDDD: bit4=F0, bits3-0=F1-F4 in
// that order) into the canonical bit0=F0..bit4=F4 layout Function
// reports with.
func (d *Dispatcher) functionGroup1(op byte, addr dcc.Address) {
	var bits uint32
	if op&0x10 != 0 {
		bits |= 1 << 0 // F0
	}
	bits |= uint32(op&0x0F) << 1 // F1-F4
	d.host.Function(d.locoAddr(), 0x1F, bits)
}

func (d *Dispatcher) functionGroup2(op byte, addr dcc.Address) {
	state := uint32(op & 0x0F)
	d.host.Function(d.locoAddr(), 0x0F<<5, state<<5)
}

func (d *Dispatcher) functionGroup3(op byte, addr dcc.Address) {
	state := uint32(op & 0x0F)
	d.host.Function(d.locoAddr(), 0x0F<<9, state<<9)
}

func (d *Dispatcher) advancedSpeed128(instr []byte, addr dcc.Address) {
	if len(instr) < 2 {
		return
	}
	forward := instr[1]&0x80 != 0
	speed := instr[1] & 0x7F
	d.host.Direction(d.locoAddr(), forward)
	d.host.Speed(d.locoAddr(), factory.Scale126To255(speed))
}

func (d *Dispatcher) advancedMAN(instr []byte, addr dcc.Address) {
	if len(instr) < 2 {
		return
	}
	v := instr[1]
	switch v >> 6 {
	case 0b10: // east/west (MAN)
		dir := 0
		switch v & 0x03 {
		case 0b01:
			dir = 1
		case 0b10:
			dir = -1
		}
		d.host.EastWestMan(d.locoAddr(), dir)
	}
}

func (d *Dispatcher) advancedAnalogFunction(instr []byte, addr dcc.Address) {
	if len(instr) < 3 {
		return
	}
	// Analog function groups are manufacturer specific; surface them
	// as an opaque function-group write so hosts that care can decode
	// instr[1] themselves via a wider mask band.
	d.host.Function(d.locoAddr(), 0xFF<<16, uint32(instr[2])<<16)
}

func (d *Dispatcher) advancedSpeedDirFunctions(instr []byte, addr dcc.Address) {
	if len(instr) < 2 {
		return
	}
	forward := instr[1]&0x80 != 0
	speed := instr[1] & 0x7F
	d.host.Direction(d.locoAddr(), forward)
	d.host.Speed(d.locoAddr(), factory.Scale126To255(speed))
	for i, b := range instr[2:] {
		if i >= 4 {
			break
		}
		d.host.Function(d.locoAddr(), 0xFF<<uint(16+8*i), uint32(b)<<uint(16+8*i))
	}
}

func (d *Dispatcher) binaryStateLong(instr []byte, addr dcc.Address) {
	if len(instr) < 3 {
		return
	}
	low, high := instr[1], instr[2]
	on := high&0x80 != 0
	stateAddr := uint32(high&0x7F)<<8 | uint32(low)
	var state uint32
	if on {
		state = 1
	}
	d.host.Function(d.locoAddr(), 1<<(16+stateAddr%16), state<<(16+stateAddr%16))
}

func (d *Dispatcher) featureExpansion(instr []byte, addr dcc.Address) {
	if len(instr) < 2 {
		return
	}
	switch instr[0] {
	case 0b1101_1101: // binary state short form
		on := instr[1]&0x80 != 0
		var state uint32
		if on {
			state = 1
		}
		d.host.Function(d.locoAddr(), 1<<(16+uint32(instr[1]&0x7F)%16), state<<(16+uint32(instr[1]&0x7F)%16))
	case 0b1101_1110: // F13-F20
		d.host.Function(d.locoAddr(), 0xFF<<13, uint32(instr[1])<<13)
	case 0b1101_1111: // F21-F28
		d.host.Function(d.locoAddr(), 0xFF<<21, uint32(instr[1])<<21)
	}
}
