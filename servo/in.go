// Package servo decodes and generates servo signals: one pulse per frame
// and per wire, its width carrying the position.
package servo

import (
	"sync/atomic"

	"github.com/sparques/rcpulse"
)

const (
	// MaxPulse is the width in ticks from which a pulse is rejected, 3ms.
	MaxPulse rcpulse.Ticks = 6000
	// DefaultTimeout is the silence in ticks after which a stable In gives
	// up, 15ms. That is shorter than the ~18.5ms gap of a standard 50Hz
	// servo signal, which confuses the decoder on its second pulse; call
	// SetTimeout with more than the gap for such signals.
	DefaultTimeout rcpulse.Ticks = 30000
)

// In decodes the servo signal on a single pin. Pulses are high.
//
// Unlike ppm.In, an In that got confused stays confused until Reset is
// called.
type In struct {
	timer   rcpulse.Timer
	cal     rcpulse.Calibration
	micros  bool
	timeout rcpulse.Ticks

	last  atomic.Uint32
	ticks atomic.Uint32
	state atomic.Uint32
}

// NewIn returns a decoder using timer t, reporting center until the first
// pulse is measured.
func NewIn(t rcpulse.Timer) *In {
	p := &In{
		timer:   t,
		cal:     rcpulse.Futaba,
		timeout: DefaultTimeout,
	}
	p.ticks.Store(uint32(rcpulse.MicrosToTicks(p.cal.Center())))
	return p
}

// Calibration returns the calibration used by Value.
func (p *In) Calibration() *rcpulse.Calibration {
	return &p.cal
}

// SetMicroseconds makes Value return the pulse width in microseconds
// instead of a normalized value.
func (p *In) SetMicroseconds(us bool) {
	p.micros = us
}

// SetTimeout sets the silence in microseconds after which a stable decoder
// becomes confused. It must be shorter than the 32.7ms timer period.
func (p *In) SetTimeout(us uint16) {
	p.timeout = rcpulse.MicrosToTicks(min(us, 0x7FFF))
}

func (p *In) State() rcpulse.State {
	return rcpulse.State(p.state.Load())
}

func (p *In) IsStable() bool {
	return p.State() == rcpulse.Stable
}

// Reset restarts the decoder after it got confused.
func (p *In) Reset() {
	p.state.Store(uint32(rcpulse.Startup))
}

// PinChanged implements rcpulse.EdgeHandler.
func (p *In) PinChanged(high bool) {
	now := p.timer.Ticks()
	delta := now - rcpulse.Ticks(p.last.Load())
	p.last.Store(uint32(now))

	switch rcpulse.State(p.state.Load()) {
	case rcpulse.Startup:
		if high {
			p.state.Store(uint32(rcpulse.Listening))
		}
	case rcpulse.Listening:
		if high {
			return
		}
		if delta >= MaxPulse {
			p.state.Store(uint32(rcpulse.Confused))
			return
		}
		p.ticks.Store(uint32(delta))
		p.state.Store(uint32(rcpulse.Stable))
	case rcpulse.Stable:
		switch {
		case high && delta > p.timeout:
			p.state.Store(uint32(rcpulse.Confused))
		case !high && delta >= MaxPulse:
			p.state.Store(uint32(rcpulse.Confused))
		case !high:
			p.ticks.Store(uint32(delta))
		}
	}
}

// Update checks the signal for silence and reports whether it is stable.
// Call it more often than the timeout, as longer silences cannot be told
// apart from short ones once the timer wraps.
func (p *In) Update() bool {
	if p.State() != rcpulse.Stable {
		return false
	}
	if p.timer.Ticks()-rcpulse.Ticks(p.last.Load()) > p.timeout {
		p.state.CompareAndSwap(uint32(rcpulse.Stable), uint32(rcpulse.Confused))
		return false
	}
	return true
}

// Value returns the last measured pulse, normalized or in microseconds.
func (p *In) Value() int16 {
	t := rcpulse.Ticks(p.ticks.Load())
	if p.micros {
		return int16(rcpulse.TicksToMicros(t))
	}
	return p.cal.TicksToNormalized(t)
}
