package dispatcher

import (
	"github.com/keskad/dcc-core/pkgs/bidi"
	"github.com/keskad/dcc-core/pkgs/dcc"
)

// cvLong decodes the operations-mode long CV-access instruction
// (0111KKVV CVLLLLLL [value]). A write commits exactly once, on the
// second identical packet in a row (NMRA RP 9.2.1's double-send safety
// rule), tracked by countRepeat's same-packet streak: the first copy
// is a no-op, and the third/fourth/... copies don't re-write — they
// confirm the already-committed value back over BiDi instead.
func (d *Dispatcher) cvLong(instr []byte, addr dcc.Address) {
	if len(instr) < 2 {
		return
	}
	kk := (instr[0] >> 2) & 0x03
	cv := (uint16(instr[0]&0x03)<<8 | uint16(instr[1])) + 1

	switch kk {
	case 0b01: // verify byte: operations mode has no current-draw ack,
		// the read value travels back over BiDi channel-2 instead.
		if len(instr) < 3 {
			return
		}
		if v := d.host.ReadCV(cv); v == instr[2] {
			if dg, err := bidi.MakePomDatagram(v); err == nil {
				d.bidi.enqueue(dg)
			}
		}
	case 0b11: // write byte
		if len(instr) < 3 {
			return
		}
		if d.cvWriteBlocked(cv) {
			return
		}
		switch {
		case d.sameCount == 2:
			d.host.WriteCV(cv, instr[2])
			d.afterCVWrite(cv)
		case d.sameCount > 2:
			// further repetitions don't re-write; they confirm the
			// already-committed value back over BiDi channel-2 instead,
			// the same verification-POM the verify-byte case above uses.
			if v := d.host.ReadCV(cv); v == instr[2] {
				if dg, err := bidi.MakePomDatagram(v); err == nil {
					d.bidi.enqueue(dg)
				}
			}
		}
	case 0b10: // bit manipulation
		if len(instr) < 3 {
			return
		}
		pos := instr[2] & 0x07
		bitVal := instr[2]&0x08 != 0
		write := instr[2]&0x10 != 0
		if write {
			if d.sameCount != 2 || d.cvWriteBlocked(cv) {
				return
			}
			d.host.WriteCVBit(cv, pos, bitVal)
			d.afterCVWrite(cv)
		} else if d.host.ReadCVBit(cv, pos) == bitVal {
			d.host.ServiceAck()
		}
	}
}

// cvShort decodes the RCN-214 short-form CV access instruction
// (1111KKKK CVVV data). Extended-address writes (CV17/18) additionally
// set CV29 bit5 only on the streak's second repeat, exactly like the
// long form.
func (d *Dispatcher) cvShort(instr []byte, addr dcc.Address) {
	if len(instr) < 3 || d.cvsLocked() {
		return
	}
	kind := instr[0] & 0x0F
	switch kind {
	case 0b0010: // acceleration adjustment, CV23
		d.host.WriteCV(cvConfig29-6, instr[2])
	case 0b0011: // deceleration adjustment, CV24
		d.host.WriteCV(cvConfig29-5, instr[2])
	case 0b0100: // extended address, CV17/18
		if d.sameCount != 2 {
			return
		}
		d.host.WriteCV(cvExtendedHigh, instr[1])
		d.host.WriteCV(cvExtendedLow, instr[2])
		d.host.WriteCV(cvConfig29, d.host.ReadCV(cvConfig29)|cv29ExtendedAddr)
		d.updateConfig()
	case 0b0101: // CV31/32 index registers
		d.host.WriteCV(31, instr[1])
		d.host.WriteCV(32, instr[2])
	}
}

func (d *Dispatcher) cvWriteBlocked(cv uint16) bool {
	return d.cvsLocked() && cv != cvLock15
}

func (d *Dispatcher) afterCVWrite(cv uint16) {
	switch cv {
	case cvLock15, cvLock16, cvExtendedHigh, cvExtendedLow, cvConsistLow, cvConsistHigh, cvBiDiConfig, cvConfig29, cvPrimaryLow:
		d.updateConfig()
	}
}

// serviceMode decodes the unaddressed direct-mode programming packets
// (register-mode 3-byte, or long-form CV-access 4-byte). Any packet
// that doesn't fit either shape returns the decoder to operations
// mode, the way a real service-mode decoder times out of programming
// track mode on an unrecognized packet.
func (d *Dispatcher) serviceMode(pkt dcc.Packet) {
	body := pkt[:len(pkt)-1]
	switch len(body) {
	case 2:
		d.serviceRegisterMode(body)
	case 3:
		d.serviceCVLong(body)
	default:
		d.exitServiceMode()
	}
}

func (d *Dispatcher) serviceRegisterMode(body []byte) {
	if body[0]&0xF0 != 0x70 {
		d.exitServiceMode()
		return
	}
	reg := body[0] & 0x07
	write := body[0]&0x08 != 0

	var cv uint16
	switch reg {
	case 0:
		cv = cvPrimaryLow
	case 4:
		cv = cvConfig29
	case 5:
		cv = 8
	case 6:
		cv = 7
	default:
		cv = uint16(reg) // registers 1-3: paged-mode index/data, host-specific
	}

	if !write {
		if d.host.ReadCV(cv) == body[1] {
			d.host.ServiceAck()
		}
		return
	}
	if d.sameCount != 2 || d.cvWriteBlocked(cv) {
		return
	}
	d.host.WriteCV(cv, body[1])
	d.afterCVWrite(cv)
	d.host.ServiceAck()
}

func (d *Dispatcher) serviceCVLong(body []byte) {
	if body[0]&0xF0 != 0x70 {
		d.exitServiceMode()
		return
	}
	kk := (body[0] >> 2) & 0x03
	cv := (uint16(body[0]&0x03)<<8 | uint16(body[1])) + 1

	switch kk {
	case 0b01: // verify
		if d.host.ReadCV(cv) == body[2] {
			d.host.ServiceAck()
		}
	case 0b11: // write: commits once the identical packet has been
		// seen exactly 5 times, matching a direct-mode programming
		// track's settle time before current-draw acknowledgement; it
		// does not re-write on the 6th, 7th... repeat.
		if d.sameCount != 5 || d.cvWriteBlocked(cv) {
			return
		}
		d.host.WriteCV(cv, body[2])
		d.afterCVWrite(cv)
		d.host.ServiceAck()
	}
}

// sampleQoS queues the channel-2 quality-of-service ratio
// (100 - packetCount*100/preambleCount) once 100 preambles have been
// observed, then resets the counters.
func (d *Dispatcher) sampleQoS(r interface {
	PreambleCount() int
	PacketCount() int
	ResetCounters()
}) {
	pre := r.PreambleCount()
	if pre < 100 {
		return
	}
	pkt := r.PacketCount()
	ratio := 100 - pkt*100/pre
	d.bidi.setQoS(uint8(clampByte(ratio)))
	r.ResetCounters()
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
