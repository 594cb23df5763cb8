package dispatcher

import "github.com/keskad/dcc-core/pkgs/dcc"

// Addresses holds every address a decoder currently answers to:
// its primary address, an optional consist address (CV19) and an
// optional address assigned by automatic logon (RCN-218), which
// overlays the primary address until power-cycled or reassigned.
type Addresses struct {
	Primary dcc.Address
	Consist dcc.Address
	Logon   *dcc.Address
}

// Matches reports whether recv is one this decoder should act on:
// broadcast, the primary address, the consist address (when set) or
// the logon-assigned address (when set).
func (a Addresses) Matches(recv dcc.Address) bool {
	if recv.Type == dcc.Broadcast {
		return true
	}
	if a.Primary.Equal(recv) {
		return true
	}
	if a.Consist.Value != 0 && a.Consist.Equal(recv) {
		return true
	}
	if a.Logon != nil && a.Logon.Equal(recv) {
		return true
	}
	return false
}
