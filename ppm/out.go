package ppm

import (
	"fmt"

	"github.com/sparques/rcpulse"
)

// Out generates a PPM signal on a compare timer.
//
// Update converts the input values to a list of timings in the main loop.
// The compare interrupt walks that list, toggling the pin at every deadline,
// and picks up a newly published list only at the end of a frame.
type Out struct {
	timer       rcpulse.CompareTimer
	pin         rcpulse.Pin
	input       []int16
	maxChannels int

	ticks  []rcpulse.Ticks
	banks  [2][]rcpulse.Ticks
	counts [2]int
	bank   rcpulse.BankSwitch
	latest int

	channels int
	pulse    rcpulse.Ticks
	pause    rcpulse.Ticks
	cal      rcpulse.Calibration
	micros   bool

	// owned by the interrupt handler once started
	pos     int
	level   bool
	idle    bool
	running bool
}

// NewOut returns an encoder sending channels values from input. input must
// hold maxChannels values and work OutWorkSize(maxChannels) ticks.
func NewOut(t rcpulse.CompareTimer, p rcpulse.Pin, input []int16, work []rcpulse.Ticks, channels, maxChannels int) *Out {
	n := timingCount(maxChannels)
	return &Out{
		timer:       t,
		pin:         p,
		input:       input,
		maxChannels: maxChannels,
		ticks:       work[:maxChannels],
		banks: [2][]rcpulse.Ticks{
			work[maxChannels : maxChannels+n],
			work[maxChannels+n : maxChannels+2*n],
		},
		channels: min(channels, maxChannels),
		pulse:    rcpulse.MicrosToTicks(DefaultPulseLength),
		pause:    rcpulse.MicrosToTicks(DefaultPauseLength),
		cal:      rcpulse.Futaba,
	}
}

// Start computes the first frame and starts generating the signal. The pin
// idles low, or high when invert is set; pulses have the other level.
func (o *Out) Start(invert bool) error {
	if o.running {
		return nil
	}
	o.Update()
	active := o.bank.Swap()

	if err := o.timer.Attach(o.isr); err != nil {
		return fmt.Errorf("ppm out: %w", err)
	}
	o.running = true
	o.idle = invert
	o.level = !invert
	o.pin.Set(o.level)
	o.pos = 1
	o.timer.Arm(o.banks[active][0])
	return nil
}

// Stop stops the signal and leaves the pin at its idle level.
func (o *Out) Stop() {
	if !o.running {
		return
	}
	o.timer.Detach()
	o.running = false
	o.level = o.idle
	o.pin.Set(o.level)
}

func (o *Out) isr() {
	o.level = !o.level
	o.pin.Set(o.level)

	active := o.bank.Active()
	o.timer.Arm(o.banks[active][o.pos])
	o.pos++
	if o.pos >= o.counts[active] {
		o.pos = 0
		o.bank.Swap()
	}
}

// Update converts the input values and publishes a new frame. Call it at
// least once per frame for the output to follow the input.
func (o *Out) Update() {
	n := o.channels
	for i := 0; i < n; i++ {
		if o.micros {
			o.ticks[i] = clampTicks(uint16(max(o.input[i], 0)))
		} else {
			o.ticks[i] = o.cal.NormalizedToTicks(o.input[i])
		}
	}

	b := o.bank.Claim()
	t := o.banks[b]
	for i := 0; i < n; i++ {
		t[2*i] = o.pulse
		t[2*i+1] = gapAfterPulse(o.ticks[i], o.pulse)
	}
	t[2*n] = o.pulse
	t[2*n+1] = gapAfterPulse(o.pause, o.pulse)
	o.counts[b] = timingCount(n)
	o.latest = b
	o.bank.Publish()
}

// gapAfterPulse returns the time from the end of a pulse to the start of the
// next one for a slot of width ticks.
func gapAfterPulse(width, pulse rcpulse.Ticks) rcpulse.Ticks {
	if width <= pulse {
		return 1
	}
	return width - pulse
}

// SetChannelCount sets the number of channels sent, at most maxChannels.
func (o *Out) SetChannelCount(n int) error {
	if n < 0 || n > o.maxChannels {
		return fmt.Errorf("channel count %d: %w", n, rcpulse.ErrOutOfRange)
	}
	o.channels = n
	return nil
}

func (o *Out) ChannelCount() int {
	return o.channels
}

// SetPulseLength sets the length of the separating pulses in microseconds.
func (o *Out) SetPulseLength(us uint16) {
	o.pulse = clampTicks(us)
}

func (o *Out) PulseLength() uint16 {
	return rcpulse.TicksToMicros(o.pulse)
}

// SetPauseLength sets the end of frame pause in microseconds, including the
// last pulse.
func (o *Out) SetPauseLength(us uint16) {
	o.pause = clampTicks(us)
}

func (o *Out) PauseLength() uint16 {
	return rcpulse.TicksToMicros(o.pause)
}

// SetMicroseconds makes Update read the input as pulse widths in
// microseconds instead of normalized values.
func (o *Out) SetMicroseconds(us bool) {
	o.micros = us
}

// Calibration returns the calibration used by Update.
func (o *Out) Calibration() *rcpulse.Calibration {
	return &o.cal
}

// Timings returns a copy of the frame computed by the last Update,
// alternating pulse and gap lengths.
func (o *Out) Timings() []rcpulse.Ticks {
	return append([]rcpulse.Ticks(nil), o.banks[o.latest][:o.counts[o.latest]]...)
}

// MarshalFrame implements rcpulse.FrameMarshaller, pairing every pulse with
// the gap that follows it.
func (o *Out) MarshalFrame() []rcpulse.TimePair {
	t := o.Timings()
	frame := make([]rcpulse.TimePair, 0, len(t)/2)
	for i := 0; i+1 < len(t); i += 2 {
		frame = append(frame, rcpulse.TimePair{
			rcpulse.TicksToDuration(t[i]),
			rcpulse.TicksToDuration(t[i+1]),
		})
	}
	return frame
}
