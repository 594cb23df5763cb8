package bidi

import "github.com/keskad/dcc-core/pkgs/bidi/app"

// MakeAdrHighDatagram builds the 12-bit app:adr_high datagram.
func MakeAdrHighDatagram(d uint8) (Datagram, error) {
	return MakeDatagram(Bits12, app.AdrHighID, uint64(d))
}

// MakeAdrLowDatagram builds the 12-bit app:adr_low datagram.
func MakeAdrLowDatagram(d uint8) (Datagram, error) {
	return MakeDatagram(Bits12, app.AdrLowID, uint64(d))
}

// MakePomDatagram builds the 12-bit app:pom datagram.
func MakePomDatagram(d uint8) (Datagram, error) {
	return MakeDatagram(Bits12, app.PomID, uint64(d))
}

// MakeDynDatagram builds the 18-bit app:dyn datagram: D in the high
// byte, X (sub-index) in the low six bits.
func MakeDynDatagram(d, x uint8) (Datagram, error) {
	return MakeDatagram(Bits18, app.DynID, uint64(d)<<6|uint64(x&0x3F))
}

// MakeXpomDatagram builds a 36-bit app:xpom sequence fragment;
// sequence picks which of the four XPOM IDs carries it.
func MakeXpomDatagram(sequence uint8, data uint32) (Datagram, error) {
	if sequence > 3 {
		return nil, ErrDataOverflow
	}
	return MakeDatagram(Bits36, app.XpomIDs[sequence], uint64(data))
}

// MakeCvAutoDatagram builds the 36-bit app:CV-auto datagram.
func MakeCvAutoDatagram(data uint32) (Datagram, error) {
	return MakeDatagram(Bits36, app.CvAutoID, uint64(data))
}

// MakeSearchDatagram builds the 12-bit app:search (tip-off-search)
// datagram.
func MakeSearchDatagram(d uint8) (Datagram, error) {
	return MakeDatagram(Bits12, app.SearchID, uint64(d))
}

// MakeSrqDatagram builds the 12-bit accessory-decoder app:srq
// datagram carrying the decoder's own address. The datagram holds 8
// data bits, so addresses above 255 return ErrDataOverflow.
func MakeSrqDatagram(addr uint16) (Datagram, error) {
	return MakeDatagram(Bits12, 0, uint64(addr))
}
