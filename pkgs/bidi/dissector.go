package bidi

import (
	"github.com/keskad/dcc-core/pkgs/bidi/app"
	"github.com/keskad/dcc-core/pkgs/dcc"
)

// Ack marks a received "instruction understood" sentinel.
type Ack struct{}

// NakFrame marks a received "instruction not supported" sentinel.
type NakFrame struct{}

// Dissector walks a bundled channel-1+channel-2 byte blob (8 bytes,
// as handed to the cut-out hooks) and yields the typed datagrams it
// contains via repeated calls to Next. Addr is the address the
// packet preceding the cut-out was sent to, since the same app-ID
// means different things for loco vs. accessory decoders.
type Dissector struct {
	encoded Datagram
	decoded Datagram
	addr    dcc.Address
	i       int
	valid   bool
}

// NewDissector validates and prepares encoded for iteration.
func NewDissector(encoded Datagram, addr dcc.Address) *Dissector {
	d := &Dissector{encoded: encoded, addr: addr}
	for _, b := range encoded {
		if !ValidLineByte(b) {
			return d
		}
	}
	decoded, err := DecodeDatagram(encoded)
	if err != nil {
		return d
	}
	d.decoded = decoded
	d.valid = true
	// Channel-1 is exactly 2 bytes holding at most one 12-bit
	// datagram; a literal zero first byte means it carried nothing,
	// so iteration starts straight at channel-2.
	if len(encoded) >= 2 && encoded[0] == 0 {
		d.i = 2
	}
	return d
}

// Next returns the next datagram and true, or (nil, false) once the
// blob is exhausted or found malformed.
func (d *Dissector) Next() (any, bool) {
	if !d.valid || d.i >= len(d.encoded) || d.encoded[d.i] == 0 {
		return nil, false
	}
	b := d.encoded[d.i]
	if IsAck(b) {
		d.i++
		return Ack{}, true
	}
	if b == Nak {
		d.i++
		return NakFrame{}, true
	}

	id := d.decoded[d.i] >> 2
	size, ok := frameSize(d.addr.Type, d.i, id)
	if !ok || d.i+size > len(d.decoded) {
		d.i = len(d.encoded)
		return nil, false
	}
	frame := d.decoded[d.i : d.i+size]
	d.i += size
	return decodeFrame(d.addr.Type, d.i-size == 0, frame), true
}

// frameSize picks the byte span of the datagram starting at index i
// given its app-ID, per the loco/accessory dissection rules.
func frameSize(addrType dcc.AddressType, i int, id uint8) (int, bool) {
	switch addrType {
	case dcc.Short, dcc.Long:
		switch {
		case id == app.PomID || id == app.AdrHighID || id == app.AdrLowID || id == app.SearchID:
			n, _ := Bits12.Size()
			return n, true
		case id == app.ExtID || id == app.DynID:
			n, _ := Bits18.Size()
			return n, true
		case id == app.Stat1ID || id == app.TimeID || id == app.ErrorID:
			n, _ := Bits12.Size()
			return n, true
		case id == app.XpomIDs[0] || id == app.XpomIDs[1] || id == app.XpomIDs[2] || id == app.XpomIDs[3] ||
			id == app.CvAutoID || id == app.BlockID:
			n, _ := Bits36.Size()
			return n, true
		default:
			return 0, false
		}
	case dcc.Accessory:
		if i == 0 {
			n, _ := Bits12.Size()
			return n, true
		}
		if id == app.PomID {
			n, _ := Bits12.Size()
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// decodeFrame turns a raw datagram slice into its typed value.
func decodeFrame(addrType dcc.AddressType, firstSlot bool, raw Datagram) any {
	data := raw.Data()
	id := raw.ID()

	if addrType == dcc.Accessory {
		if firstSlot {
			return app.Srq{D: uint16(data)}
		}
		if id == app.PomID {
			return app.Pom{D: uint8(data)}
		}
		return nil
	}

	switch {
	case id == app.PomID:
		return app.Pom{D: uint8(data)}
	case id == app.AdrHighID:
		return app.AdrHigh{D: uint8(data)}
	case id == app.AdrLowID:
		return app.AdrLow{D: uint8(data)}
	case id == app.ExtID:
		return app.Ext{T: app.ExtType((data >> 10) & 0x0F), P: uint16(data & 0x3FF)}
	case id == app.Stat1ID:
		return app.Stat1{D: uint8(data)}
	case id == app.TimeID:
		return app.Time{D: uint8(data)}
	case id == app.ErrorID:
		return app.Error{D: app.ErrorCode(data)}
	case id == app.DynID:
		return app.Dyn{D: uint8(data >> 6), X: uint8(data & 0x3F)}
	case id == app.XpomIDs[0] || id == app.XpomIDs[1] || id == app.XpomIDs[2] || id == app.XpomIDs[3]:
		return app.Xpom{SS: id & 0x03}
	case id == app.CvAutoID:
		return app.CvAuto{}
	case id == app.BlockID:
		return app.Block{}
	case id == app.SearchID:
		return app.Search{D: uint8(data)}
	default:
		return nil
	}
}
