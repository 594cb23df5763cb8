// Package app holds the typed BiDi channel payloads the dissector
// yields: one struct per app-ID datagram defined by RCN-217/218.
package app

// Pom carries one byte of programming-on-main read-back data.
type Pom struct{ D uint8 }

const PomID uint8 = 0

// AdrHigh carries the high byte of the address the decoder believes
// is its own.
type AdrHigh struct{ D uint8 }

const AdrHighID uint8 = 1

// AdrLow carries the low byte of the address the decoder believes is
// its own.
type AdrLow struct{ D uint8 }

const AdrLowID uint8 = 2

// Ext carries an extended-accessory-style annotation (coal depot,
// water crane, ...).
type Ext struct {
	T ExtType
	P uint16
}

const ExtID uint8 = 3

type ExtType uint8

const (
	ExtAddressOnly     ExtType = 0b0000
	ExtGasStation      ExtType = 0b1010
	ExtCoalDepot       ExtType = 0b1011
	ExtWaterCrane      ExtType = 0b1100
	ExtSandStore       ExtType = 0b1101
	ExtChargingStation ExtType = 0b1110
	ExtFillingStation  ExtType = 0b1111
)

// Stat4 is the companion extended-status datagram sharing ID 3 with
// Ext on the accessory side of the dissector.
type Stat4 struct{ D uint8 }

// Info1 carries one byte of track/driving status flags.
type Info1 struct{ D Info1Flags }

const Info1ID uint8 = 3

type Info1Flags uint8

const (
	TrackPolarity     Info1Flags = 1 << 0
	EastWest          Info1Flags = 1 << 1
	Driving           Info1Flags = 1 << 2
	Consist           Info1Flags = 1 << 3
	AddressingRequest Info1Flags = 1 << 4
)

// Stat1 carries one byte of basic decoder status.
type Stat1 struct{ D uint8 }

const Stat1ID uint8 = 4

// Time carries the system time datagram.
type Time struct{ D uint8 }

const TimeID uint8 = 5

// Error carries an error code raised by the decoder.
type Error struct{ D ErrorCode }

const ErrorID uint8 = 6

type ErrorCode uint8

const (
	ErrorNone            ErrorCode = 0x00
	ErrorInvalidCommand  ErrorCode = 0x01
	ErrorOvercurrent     ErrorCode = 0x02
	ErrorUndervoltage    ErrorCode = 0x03
	ErrorFuse            ErrorCode = 0x04
	ErrorOvertemperature ErrorCode = 0x05
	ErrorFeedback        ErrorCode = 0x06
	ErrorManualOperation ErrorCode = 0x07
	ErrorSignal          ErrorCode = 0x10
	ErrorServo           ErrorCode = 0x20
	ErrorInternal         ErrorCode = 0x3F
)

// Dyn carries one dynamic CV sample: value D at sub-index X.
type Dyn struct {
	D uint8
	X uint8
}

const DynID uint8 = 7

// Xpom carries an extended programming-on-main sequence fragment; SS
// is the sequence index 0-3, i.e. which of the app-IDs 8-11 produced
// it.
type Xpom struct{ SS uint8 }

var XpomIDs = [4]uint8{8, 9, 10, 11}

// CvAuto marks an automatic CV readout datagram.
type CvAuto struct{}

const CvAutoID uint8 = 12

// Block marks an occupancy-detection block datagram.
type Block struct{}

const BlockID uint8 = 13

// Search carries a tip-off-search (automatic-logon) response payload.
type Search struct{ D uint8 }

const SearchID uint8 = 14

// Srq is the accessory "service request" channel-1 payload: the
// decoder's address, limited to the 8 data bits the datagram carries.
type Srq struct{ D uint16 }
