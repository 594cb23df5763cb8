package dispatcher

import (
	"math/rand"

	"github.com/keskad/dcc-core/pkgs/bidi"
	"github.com/keskad/dcc-core/pkgs/dcc"
)

// backoffMaxShift caps the RCN-218 exponential backoff at 2^3; beyond
// that the collision probability from further doubling stops being
// worth the extra settle time.
const backoffMaxShift = 3

// logonState tracks the automatic-logon (RCN-218) session this
// decoder is or isn't currently part of, plus its collision-avoidance
// backoff counter.
type logonState struct {
	did uint64

	sessionID    uint8
	haveSession  bool
	backoffShift uint8
	backoffLeft  int
}

// SetDID assigns the decoder's 40-bit unique ID used for automatic
// logon; call once at startup.
func (d *Dispatcher) SetDID(did uint64) { d.logon.did = did }

// handleLogon decodes the three RCN-218 logon instructions
// (LOGON_ENABLE 1111gggg, LOGON_SELECT 1110..., LOGON_ASSIGN
// 1101...), all CRC-8 protected and addressed to the reserved
// AutomaticLogon address (254).
func (d *Dispatcher) handleLogon(instr []byte) {
	if len(instr) < 1 {
		return
	}
	switch {
	case instr[0]&0xF0 == 0xF0:
		d.logonEnable(instr)
	case instr[0] == 0xE0:
		d.logonSelect(instr)
	case instr[0] == 0xD0:
		d.logonAssign(instr)
	}
}

func (d *Dispatcher) logonEnable(instr []byte) {
	if len(instr) < 5 || !checkCRC(instr, 4) {
		return
	}
	sessionID := instr[3]
	if d.logon.haveSession && diff8(sessionID, d.logon.sessionID) > 4 {
		d.logon.backoffShift = 0
	}
	d.logon.sessionID = sessionID
	d.logon.haveSession = true

	if d.addrs.Logon != nil {
		return // already logged on this session, nothing to do
	}
	shift := d.logon.backoffShift
	if shift > backoffMaxShift {
		shift = backoffMaxShift
	}
	d.logon.backoffLeft = rand.Intn(8 << shift)
	if d.logon.backoffShift < backoffMaxShift {
		d.logon.backoffShift++
	}
}

func diff8(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func (d *Dispatcher) logonSelect(instr []byte) {
	if len(instr) < 7 || !checkCRC(instr, 6) {
		return
	}
	if !d.logon.haveSession || d.addrs.Logon != nil {
		return
	}
	did := decodeDID(instr[1:6])
	if did != d.logon.did {
		return
	}
	if d.logon.backoffLeft > 0 {
		d.logon.backoffLeft--
		return
	}
	dg, err := bidi.MakeSearchDatagram(uint8(did))
	if err == nil {
		d.bidi.enqueue(dg)
	}
}

func (d *Dispatcher) logonAssign(instr []byte) {
	if len(instr) < 9 || !checkCRC(instr, 8) {
		return
	}
	did := decodeDID(instr[1:6])
	if did != d.logon.did {
		return
	}
	addrVal := (uint16(instr[6])<<8 | uint16(instr[7])) & 0x3FFF
	// overwrite_primary_address: the top two bits of the address
	// high byte being anything other than 11 means the command
	// station wants this logon to become the decoder's primary
	// address, not merely a transient logon-assigned address.
	overwritePrimary := instr[6]&0b1100_0000 != 0b1100_0000

	if overwritePrimary {
		d.host.WriteCV(cvPrimaryLow, byte(addrVal))
		d.host.WriteCV(cvExtendedHigh, byte(addrVal>>8)|0xC0)
		d.host.WriteCV(cvExtendedLow, byte(addrVal))
		d.host.WriteCV(cvConfig29, d.host.ReadCV(cvConfig29)|cv29ExtendedAddr)
		d.updateConfig()
	} else {
		addr := dcc.Address{Value: addrVal, Type: dcc.Long}
		d.addrs.Logon = &addr
	}
}

func decodeDID(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func checkCRC(instr []byte, payloadLen int) bool {
	return dcc.CRC8(append([]byte{0xFE}, instr[:payloadLen]...)) == instr[payloadLen]
}
