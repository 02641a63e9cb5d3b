package ppm

import (
	"sync/atomic"

	"github.com/sparques/rcpulse"
)

// In decodes a PPM signal.
//
// PinChanged runs in interrupt context and only writes the work buffer.
// Update runs in the main loop and converts the last complete frame into the
// results buffer.
type In struct {
	timer       rcpulse.Timer
	results     []int16
	work        []rcpulse.Ticks
	maxChannels int

	cal        rcpulse.Calibration
	sync       rcpulse.Ticks
	highPulses bool
	micros     bool

	// owned by PinChanged
	last rcpulse.Ticks
	idx  int

	state    atomic.Uint32
	channels atomic.Uint32
	newFrame atomic.Bool
}

// NewIn returns a decoder for up to maxChannels channels. results must hold
// maxChannels values and work InWorkSize(maxChannels) ticks. Channels past
// maxChannels are counted but not stored.
func NewIn(t rcpulse.Timer, results []int16, work []rcpulse.Ticks, maxChannels int) *In {
	return &In{
		timer:       t,
		results:     results,
		work:        work,
		maxChannels: maxChannels,
		cal:         rcpulse.Futaba,
		sync:        rcpulse.MicrosToTicks(DefaultSyncLength),
	}
}

// Calibration returns the calibration used by Update. Change it only while
// no frame is being converted.
func (p *In) Calibration() *rcpulse.Calibration {
	return &p.cal
}

// SetPauseLength sets the shortest gap in microseconds recognized as the end
// of a frame.
func (p *In) SetPauseLength(us uint16) {
	p.sync = clampTicks(us)
}

func (p *In) PauseLength() uint16 {
	return rcpulse.TicksToMicros(p.sync)
}

// SetHighPulses selects the edge that is timed. By default the signal idles
// high with low pulses and falling edges are timed; with high set rising
// edges are timed instead.
func (p *In) SetHighPulses(high bool) {
	p.highPulses = high
}

// SetMicroseconds makes Update write pulse widths in microseconds instead of
// normalized values.
func (p *In) SetMicroseconds(us bool) {
	p.micros = us
}

// State returns the state of the decoder.
func (p *In) State() rcpulse.State {
	return rcpulse.State(p.state.Load())
}

// IsStable reports whether the decoder is locked onto the signal.
func (p *In) IsStable() bool {
	return p.State() == rcpulse.Stable
}

// Channels returns the number of channels per frame learned while listening.
func (p *In) Channels() int {
	return int(p.channels.Load())
}

// PinChanged implements rcpulse.EdgeHandler.
func (p *In) PinChanged(high bool) {
	if high != p.highPulses {
		return
	}

	now := p.timer.Ticks()
	delta := now - p.last
	p.last = now
	gap := delta > p.sync

	switch rcpulse.State(p.state.Load()) {
	case rcpulse.Startup, rcpulse.Confused:
		if gap {
			p.idx = 0
			p.channels.Store(0)
			p.state.Store(uint32(rcpulse.Listening))
		}
	case rcpulse.Listening:
		if gap {
			p.channels.Store(uint32(p.idx))
			p.idx = 0
			p.state.Store(uint32(rcpulse.Stable))
			p.newFrame.Store(true)
			return
		}
		p.store(delta)
	case rcpulse.Stable:
		if gap {
			if p.idx != int(p.channels.Load()) {
				p.state.Store(uint32(rcpulse.Confused))
				return
			}
			p.idx = 0
			p.newFrame.Store(true)
			return
		}
		p.store(delta)
	}
}

func (p *In) store(delta rcpulse.Ticks) {
	if p.idx < p.maxChannels {
		p.work[p.idx] = delta
	}
	p.idx++
}

// Update converts the last complete frame into the results buffer. It
// returns false, leaving the results untouched, when no new frame arrived
// since the previous call.
func (p *In) Update() bool {
	if !p.newFrame.CompareAndSwap(true, false) {
		return false
	}
	n := min(p.Channels(), p.maxChannels)
	for i := 0; i < n; i++ {
		if p.micros {
			p.results[i] = int16(rcpulse.TicksToMicros(p.work[i]))
		} else {
			p.results[i] = p.cal.TicksToNormalized(p.work[i])
		}
	}
	return true
}
