// Package dcc holds the wire-level primitives of the DCC protocol: the
// address space, the variable-length packet format and its XOR
// checksum, and the half-bit timing classification shared by the
// transmit and receive pipelines.
package dcc

import "fmt"

// AddressType tags the semantic class of an Address. Equality between
// two Address values is type-sensitive except for the legacy
// Short/Long overlap (see Address.Equal).
type AddressType uint8

const (
	UnknownService AddressType = iota
	Broadcast
	Short
	Accessory
	Long
	Reserved
	DataTransfer
	AutomaticLogon
	IdleSystem
	TipOffSearch
)

func (t AddressType) String() string {
	switch t {
	case UnknownService:
		return "UnknownService"
	case Broadcast:
		return "Broadcast"
	case Short:
		return "Short"
	case Accessory:
		return "Accessory"
	case Long:
		return "Long"
	case Reserved:
		return "Reserved"
	case DataTransfer:
		return "DataTransfer"
	case AutomaticLogon:
		return "AutomaticLogon"
	case IdleSystem:
		return "IdleSystem"
	case TipOffSearch:
		return "TipOffSearch"
	default:
		return "Invalid"
	}
}

// Address is a 16-bit decoder address paired with its AddressType and
// an optional direction-inversion flag.
type Address struct {
	Value    uint16
	Type     AddressType
	Reversed bool
}

// Equal implements the legacy equality rule: a Short and a Long
// address are considered equal when their numeric values match;
// every other pair of types must also match by type.
func (a Address) Equal(b Address) bool {
	aLocoLike := a.Type == Short || a.Type == Long
	bLocoLike := b.Type == Short || b.Type == Long
	if aLocoLike && bLocoLike {
		return a.Value == b.Value
	}
	return a.Value == b.Value && a.Type == b.Type
}

// DecodeAddress parses the leading address bytes of a packet and
// returns the Address plus the number of bytes consumed (1 for
// everything except Long, which consumes 2).
func DecodeAddress(bytes []byte) (Address, int, error) {
	if len(bytes) == 0 {
		return Address{}, 0, fmt.Errorf("dcc: empty packet")
	}
	first := bytes[0]
	switch {
	case first == 0x00:
		return Address{Value: 0, Type: Broadcast}, 1, nil
	case first <= 127:
		return Address{Value: uint16(first), Type: Short}, 1, nil
	case first <= 191:
		return Address{Value: uint16(first), Type: Accessory}, 1, nil
	case first <= 231:
		if len(bytes) < 2 {
			return Address{}, 0, fmt.Errorf("dcc: truncated long address")
		}
		val := (uint16(first)<<8 | uint16(bytes[1])) & 0x3FFF
		return Address{Value: val, Type: Long}, 2, nil
	case first <= 252:
		return Address{Value: uint16(first), Type: Reserved}, 1, nil
	case first == 253:
		return Address{Value: uint16(first), Type: DataTransfer}, 1, nil
	case first == 254:
		return Address{Value: uint16(first), Type: AutomaticLogon}, 1, nil
	default: // 255
		return Address{Value: uint16(first), Type: IdleSystem}, 1, nil
	}
}

// EncodeAddress appends the wire encoding of addr to dst and returns
// the extended slice.
func EncodeAddress(dst []byte, addr Address) ([]byte, error) {
	switch addr.Type {
	case Broadcast:
		return append(dst, 0x00), nil
	case Short:
		if addr.Value > 127 {
			return dst, fmt.Errorf("dcc: short address %d out of range", addr.Value)
		}
		return append(dst, byte(addr.Value)), nil
	case Long:
		if addr.Value > 0x3FFF {
			return dst, fmt.Errorf("dcc: long address %d out of range", addr.Value)
		}
		return append(dst, byte(0xC0|(addr.Value>>8)), byte(addr.Value)), nil
	case Accessory:
		if addr.Value > 255 {
			return dst, fmt.Errorf("dcc: accessory address %d out of range", addr.Value)
		}
		return append(dst, byte(addr.Value)), nil
	case DataTransfer:
		return append(dst, 253), nil
	case AutomaticLogon:
		return append(dst, 254), nil
	case IdleSystem:
		return append(dst, 255), nil
	default:
		return dst, fmt.Errorf("dcc: cannot encode address type %s", addr.Type)
	}
}

// LocoAddress builds the Address for a locomotive decoder, choosing
// Short or Long encoding automatically the way the factory functions
// do (addr < 128 => Short, otherwise Long).
func LocoAddress(addr uint16) Address {
	if addr < 128 {
		return Address{Value: addr, Type: Short}
	}
	return Address{Value: addr, Type: Long}
}
