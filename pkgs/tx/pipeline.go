package tx

import "github.com/keskad/dcc-core/pkgs/dcc"

// QueueSize bounds the number of expanded packets the pipeline will
// hold before Packet starts returning false.
const QueueSize = 8

// Hooks are the host callbacks the pipeline invokes at cut-out
// boundaries. Host implementations that don't care about a given
// boundary may leave the corresponding field nil; the pipeline treats
// a nil hook as a no-op.
type Hooks struct {
	// BiDiStart fires when the line goes quiet at the start of the
	// cut-out (TCS after packet end).
	BiDiStart func()
	// BiDiChannel1 fires at the start of the channel-1 window.
	BiDiChannel1 func()
	// BiDiChannel2 fires at the start of the channel-2 window.
	BiDiChannel2 func()
	// BiDiEnd fires when normal track signalling resumes.
	BiDiEnd func()
	// PacketEnd fires once per transmitted packet, right before the
	// optional cut-out (or immediately, when BiDi is disabled).
	PacketEnd func()
	// SetTrackOutputs drives the two track-output lines (N, P); a
	// real host wires this straight to the DCC driver's GPIO.
	SetTrackOutputs func(n, p bool)
}

// Pipeline is a bounded FIFO of expanded packets plus the BiDi
// cut-out state machine. Packet is called from thread mode; Transmit
// is called once per half-bit from the timer ISR. Transmit does not
// allocate (the queue and idle Timings are pre-sized); Packet
// allocates the Timings of each packet it expands.
type Pipeline struct {
	cfg   dcc.Config
	hooks Hooks

	queue    []Timings
	head     int
	count    int
	idle     Timings
	current  Timings
	pktIndex int
	bidiIdx  int
}

// NewPipeline builds a Pipeline for cfg, pre-expanding the idle
// packet it falls back to whenever the queue runs dry.
func NewPipeline(cfg dcc.Config, hooks Hooks) *Pipeline {
	p := &Pipeline{
		cfg:   cfg,
		hooks: hooks,
		queue: make([]Timings, QueueSize),
		idle:  Packet2Timings(dcc.MakeIdlePacket(), cfg),
	}
	p.current = p.idle
	return p
}

// Packet expands p and enqueues it. It returns false (and drops the
// packet) when the queue is already full; transmission is never
// blocked waiting for room.
func (p *Pipeline) Packet(pkt dcc.Packet) bool {
	if p.count == QueueSize {
		return false
	}
	tail := (p.head + p.count) % QueueSize
	p.queue[tail] = Packet2Timings(pkt, p.cfg)
	p.count++
	return true
}

func (p *Pipeline) popFront() (Timings, bool) {
	if p.count == 0 {
		return nil, false
	}
	t := p.queue[p.head]
	p.head = (p.head + 1) % QueueSize
	p.count--
	return t, true
}

// Transmit is the ISR entry point: it returns the duration, in
// microseconds, of the next half-bit to hold the track outputs for,
// toggling N/P as it goes. Once a packet's timings (and, when BiDi is
// enabled, its five cut-out intervals) are exhausted, the next queued
// packet (or another idle packet, if the queue is empty) begins.
func (p *Pipeline) Transmit() uint16 {
	if p.pktIndex < len(p.current) {
		return p.packetTiming()
	}
	if p.cfg.Flags.BiDi && p.bidiIdx <= 4 {
		return p.bidiTiming()
	}

	if next, ok := p.popFront(); ok {
		p.current = next
	} else {
		p.current = p.idle
	}
	p.pktIndex, p.bidiIdx = 0, 0
	return p.packetTiming()
}

func (p *Pipeline) packetTiming() uint16 {
	v := p.current[p.pktIndex]
	if p.hooks.SetTrackOutputs != nil {
		if p.pktIndex%2 == 1 {
			p.hooks.SetTrackOutputs(false, true)
		} else {
			p.hooks.SetTrackOutputs(true, false)
		}
	}
	p.pktIndex++
	if p.pktIndex == len(p.current) && p.hooks.PacketEnd != nil {
		p.hooks.PacketEnd()
	}
	return v
}

func (p *Pipeline) bidiTiming() uint16 {
	idx := p.bidiIdx
	p.bidiIdx++
	switch idx {
	case 0:
		if p.hooks.SetTrackOutputs != nil {
			p.hooks.SetTrackOutputs(true, false)
		}
		return dcc.BiDiTCS
	case 1:
		if p.hooks.SetTrackOutputs != nil {
			p.hooks.SetTrackOutputs(false, false)
		}
		if p.hooks.BiDiStart != nil {
			p.hooks.BiDiStart()
		}
		return dcc.BiDiTTS1 - dcc.BiDiTCS
	case 2:
		if p.hooks.BiDiChannel1 != nil {
			p.hooks.BiDiChannel1()
		}
		return dcc.BiDiTTS2 - dcc.BiDiTTS1
	case 3:
		if p.hooks.BiDiChannel2 != nil {
			p.hooks.BiDiChannel2()
		}
		return dcc.BiDiTTC2 - dcc.BiDiTTS2
	default:
		if p.hooks.BiDiEnd != nil {
			p.hooks.BiDiEnd()
		}
		return dcc.BiDiTCE - dcc.BiDiTTC2
	}
}
