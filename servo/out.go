package servo

import (
	"fmt"

	"github.com/sparques/rcpulse"
)

const (
	// DefaultFrameLength is the time between two pulses on the same pin.
	DefaultFrameLength = 20000
	// MinIdle is the shortest idle time at the end of a frame, in ticks.
	MinIdle rcpulse.Ticks = 500
)

// noPin marks the idle event at the end of a frame.
const noPin = 0xFFFF

// OutWorkSize returns the length of the work buffer an Out with n pins
// needs: two banks of n+1 event durations and pin indices.
func OutWorkSize(n int) int {
	return 4 * (n + 1)
}

// Out generates servo signals on several pins from one compare timer.
//
// The pulses are sent one after the other: every compare interrupt ends the
// pulse of the previous pin and starts the next one. The frame is a list of
// events, one per pin holding its pulse width and a final idle event filling
// the rest of the frame. Update builds the list in the main loop; the
// interrupt switches to a new list at the end of a frame.
type Out struct {
	timer  rcpulse.CompareTimer
	pins   []rcpulse.Pin
	values []int16

	durations [2][]rcpulse.Ticks
	targets   [2][]rcpulse.Ticks
	counts    [2]int
	bank      rcpulse.BankSwitch

	frame  rcpulse.Ticks
	cal    rcpulse.Calibration
	micros bool

	// owned by the interrupt handler once started
	pos     int
	active  rcpulse.Pin
	running bool
}

// NewOut returns an encoder driving pins[i] from values[i]. Nil pins are
// skipped. work must hold OutWorkSize(len(pins)) ticks.
func NewOut(t rcpulse.CompareTimer, pins []rcpulse.Pin, values []int16, work []rcpulse.Ticks) *Out {
	n := len(pins) + 1
	return &Out{
		timer:  t,
		pins:   pins,
		values: values,
		durations: [2][]rcpulse.Ticks{
			work[0:n],
			work[2*n : 3*n],
		},
		targets: [2][]rcpulse.Ticks{
			work[n : 2*n],
			work[3*n : 4*n],
		},
		frame: rcpulse.MicrosToTicks(DefaultFrameLength),
		cal:   rcpulse.Futaba,
	}
}

// Calibration returns the calibration used by Update.
func (o *Out) Calibration() *rcpulse.Calibration {
	return &o.cal
}

// SetMicroseconds makes Update read the values as pulse widths in
// microseconds instead of normalized values.
func (o *Out) SetMicroseconds(us bool) {
	o.micros = us
}

// SetFrameLength sets the time between two pulses on the same pin in
// microseconds, at most 32767.
func (o *Out) SetFrameLength(us uint16) error {
	if us > 0x7FFF {
		return fmt.Errorf("frame length %dus: %w", us, rcpulse.ErrOutOfRange)
	}
	o.frame = rcpulse.MicrosToTicks(us)
	return nil
}

func (o *Out) FrameLength() uint16 {
	return rcpulse.TicksToMicros(o.frame)
}

// Update converts the values and publishes a new frame. A frame too short
// for all pulses is stretched to fit them.
func (o *Out) Update() {
	b := o.bank.Claim()
	d, p := o.durations[b], o.targets[b]

	k := 0
	total := 0
	for i, pin := range o.pins {
		if pin == nil {
			continue
		}
		var w rcpulse.Ticks
		if o.micros {
			w = rcpulse.MicrosToTicks(uint16(max(o.values[i], 0)))
		} else {
			w = o.cal.NormalizedToTicks(o.values[i])
		}
		d[k] = max(w, 1)
		p[k] = rcpulse.Ticks(i)
		total += int(d[k])
		k++
	}

	idle := MinIdle
	if rest := int(o.frame) - total; rest > int(MinIdle) {
		idle = rcpulse.Ticks(rest)
	}
	d[k] = idle
	p[k] = noPin
	o.counts[b] = k + 1
	o.bank.Publish()
}

// Start builds the first frame and starts sending.
func (o *Out) Start() error {
	if o.running {
		return nil
	}
	o.Update()
	o.bank.Swap()
	if err := o.timer.Attach(o.isr); err != nil {
		return fmt.Errorf("servo out: %w", err)
	}
	o.running = true
	o.pos = 0
	o.active = nil
	o.isr()
	return nil
}

// Stop stops sending, leaving all pins low.
func (o *Out) Stop() {
	if !o.running {
		return
	}
	o.timer.Detach()
	o.running = false
	if o.active != nil {
		o.active.Set(false)
		o.active = nil
	}
}

func (o *Out) isr() {
	if o.active != nil {
		o.active.Set(false)
		o.active = nil
	}

	b := o.bank.Active()
	if t := o.targets[b][o.pos]; t != noPin {
		o.active = o.pins[t]
		o.active.Set(true)
	}
	o.timer.Arm(o.durations[b][o.pos])

	o.pos++
	if o.pos >= o.counts[b] {
		o.pos = 0
		o.bank.Swap()
	}
}
