package servo

import "github.com/sparques/rcpulse"

// MultiInWorkSize returns the length of the work buffer a MultiIn with n
// pins needs: a pulse start, a pulse length and a start flag per pin.
func MultiInWorkSize(n int) int {
	return 3 * n
}

// MultiIn measures the servo pulses on several pins sharing one timer. It
// has no state machine; a pulse missing its start edge measures as 0 and is
// not converted. All state lives in the caller's work buffer.
type MultiIn struct {
	timer   rcpulse.Timer
	results []int16
	starts  []rcpulse.Ticks
	lengths []rcpulse.Ticks
	started []rcpulse.Ticks // 1 while a pulse is in progress

	cal        rcpulse.Calibration
	highPulses bool
	micros     bool
}

// NewMultiIn returns a decoder for pins inputs. results must hold pins
// values and work MultiInWorkSize(pins) ticks.
func NewMultiIn(t rcpulse.Timer, results []int16, work []rcpulse.Ticks, pins int) *MultiIn {
	return &MultiIn{
		timer:      t,
		results:    results,
		starts:     work[:pins],
		lengths:    work[pins : 2*pins],
		started:    work[2*pins : 3*pins],
		cal:        rcpulse.Futaba,
		highPulses: true,
	}
}

// Calibration returns the calibration used by Update.
func (m *MultiIn) Calibration() *rcpulse.Calibration {
	return &m.cal
}

// SetHighPulses sets the pulse polarity, high by default.
func (m *MultiIn) SetHighPulses(high bool) {
	m.highPulses = high
}

// SetMicroseconds makes Update write pulse widths in microseconds instead of
// normalized values.
func (m *MultiIn) SetMicroseconds(us bool) {
	m.micros = us
}

// PinChanged implements rcpulse.MultiEdgeHandler.
func (m *MultiIn) PinChanged(idx int, high bool) {
	now := m.timer.Ticks()
	if high == m.highPulses {
		m.starts[idx] = now
		m.started[idx] = 1
		return
	}
	if m.started[idx] == 0 {
		m.lengths[idx] = 0
		return
	}
	m.lengths[idx] = now - m.starts[idx]
	m.started[idx] = 0
}

// Update converts the pulses measured since the last Update into the
// results buffer and reports whether there were any. Pins without a new
// measurement keep their last value.
func (m *MultiIn) Update() bool {
	fresh := false
	for i, l := range m.lengths {
		if l == 0 {
			continue
		}
		m.lengths[i] = 0
		fresh = true
		if m.micros {
			m.results[i] = int16(rcpulse.TicksToMicros(l))
		} else {
			m.results[i] = m.cal.TicksToNormalized(l)
		}
	}
	return fresh
}
