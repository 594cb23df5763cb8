package app

import (
	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/keskad/dcc-core/pkgs/dispatcher"
	"github.com/keskad/dcc-core/pkgs/rx"
	"github.com/keskad/dcc-core/pkgs/tx"
)

// transmit runs pkt through the timing expansion a real track driver
// would use and feeds the resulting half-bit stream into a fresh
// Receiver, repeats times in a row (decoders require a packet to be
// repeated before committing a CV write), then drains everything the
// receiver framed into d.
func transmit(d *dispatcher.Dispatcher, cfg dcc.Config, pkt dcc.Packet, repeats int) {
	if repeats < 1 {
		repeats = 1
	}
	r := rx.NewReceiver(int(cfg.NumPreamble))
	for i := 0; i < repeats; i++ {
		for _, us := range tx.Packet2Timings(pkt, cfg) {
			r.Receive(us)
		}
	}
	d.Execute(r)
}
