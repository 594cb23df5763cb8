package app

import (
	"encoding/json"
	"os"

	"github.com/keskad/dcc-core/pkgs/dispatcher"
)

// stateFile is where the virtual decoder's CVs and last commanded
// motion/function state persist between CLI invocations, mirroring
// the contextual per-locomotive state a real decoder keeps in its own
// non-volatile memory.
const stateFile = ".dcc-state.json"

// virtualDecoderState is the on-disk snapshot of a virtualHost.
type virtualDecoderState struct {
	CVs       map[uint16]uint8
	Speed     int
	Forward   bool
	Functions uint32
}

func loadState() virtualDecoderState {
	st := virtualDecoderState{CVs: map[uint16]uint8{}}
	data, err := os.ReadFile(stateFile)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(data, &st)
	if st.CVs == nil {
		st.CVs = map[uint16]uint8{}
	}
	return st
}

func (st virtualDecoderState) save() error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(stateFile, data, 0o644)
}

// virtualHost is an in-process stand-in for a decoder's motion
// controller, function outputs and CV storage: just enough of
// dispatcher.Host to make the CLI's encode/transmit/dispatch round
// trip observable without a physical rail connection.
type virtualHost struct {
	dispatcher.NoopHost
	state virtualDecoderState
}

func newVirtualHost(primaryAddr uint16) *virtualHost {
	st := loadState()
	if _, ok := st.CVs[1]; !ok {
		st.CVs[1] = byte(primaryAddr)
	}
	return &virtualHost{state: st}
}

func (h *virtualHost) save() error { return h.state.save() }

func (h *virtualHost) Direction(_ uint16, forward bool) { h.state.Forward = forward }
func (h *virtualHost) Speed(_ uint16, speed int)        { h.state.Speed = speed }
func (h *virtualHost) Function(_ uint16, mask, bits uint32) {
	h.state.Functions = h.state.Functions&^mask | bits&mask
}
func (h *virtualHost) ReadCV(addr uint16) uint8     { return h.state.CVs[addr] }
func (h *virtualHost) WriteCV(addr uint16, v uint8) { h.state.CVs[addr] = v }

// newDecoder builds a Dispatcher bound to a fresh virtualHost loaded
// from the on-disk state file.
func newDecoder(primaryAddr uint16) (*dispatcher.Dispatcher, *virtualHost) {
	host := newVirtualHost(primaryAddr)
	d := dispatcher.New(host, primaryAddr)
	return d, host
}
