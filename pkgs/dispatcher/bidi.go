package dispatcher

import "github.com/keskad/dcc-core/pkgs/bidi"

// bidiQueueSize bounds the channel-2 POM/dyn response queue.
const bidiQueueSize = 8

// bidiResponder assembles the datagrams transmitted during a packet's
// BiDi cut-out: channel-1 alternates the decoder's address halves
// every cut-out, channel-2 drains a small queue of POM read replies
// and dynamic (speed/load/temperature-style) telemetry, falling back
// to a QoS report when the queue is empty.
type bidiResponder struct {
	addr uint16

	adrToggle bool

	queue    [bidiQueueSize]bidi.Datagram
	qHead    int
	qCount   int

	qos    uint8
	haveQoS bool
}

func (b *bidiResponder) setAddress(addr uint16) { b.addr = addr }

func (b *bidiResponder) setQoS(v uint8) {
	b.qos = v
	b.haveQoS = true
}

// enqueue appends a channel-2 datagram (a POM reply or a dyn/xpom
// telemetry fragment); it silently drops the datagram when the queue
// is full rather than blocking the cut-out.
func (b *bidiResponder) enqueue(dg bidi.Datagram) {
	if b.qCount == bidiQueueSize {
		return
	}
	tail := (b.qHead + b.qCount) % bidiQueueSize
	b.queue[tail] = dg
	b.qCount++
}

func (b *bidiResponder) dequeue() (bidi.Datagram, bool) {
	if b.qCount == 0 {
		return nil, false
	}
	dg := b.queue[b.qHead]
	b.qHead = (b.qHead + 1) % bidiQueueSize
	b.qCount--
	return dg, true
}

// Channel1 returns the encoded 2-byte channel-1 datagram for this
// cut-out: the decoder's address, alternating between the high and
// low half on successive calls the way a real responder spreads its
// address across cut-outs rather than resending the same half every
// time.
func (b *bidiResponder) Channel1() bidi.Datagram {
	b.adrToggle = !b.adrToggle
	var dg bidi.Datagram
	var err error
	if b.adrToggle {
		dg, err = bidi.MakeAdrHighDatagram(uint8(b.addr >> 8))
	} else {
		dg, err = bidi.MakeAdrLowDatagram(uint8(b.addr))
	}
	if err != nil {
		return nil
	}
	return bidi.EncodeDatagram(dg)
}

// Channel2 returns the encoded channel-2 payload for this cut-out: a
// queued POM/dyn datagram when one is pending, otherwise a QoS report
// once sampleQoS has produced one.
func (b *bidiResponder) Channel2() bidi.Datagram {
	if dg, ok := b.dequeue(); ok {
		return bidi.EncodeDatagram(dg)
	}
	if b.haveQoS {
		dg, err := bidi.MakeDynDatagram(b.qos, 7)
		b.haveQoS = false
		if err == nil {
			return bidi.EncodeDatagram(dg)
		}
	}
	return nil
}
