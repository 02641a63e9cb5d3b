package host

import (
	"context"
	"time"

	"github.com/womat/debug"
	"periph.io/x/conn/v3/gpio"

	"github.com/sparques/rcpulse"
)

// PinOut drives a periph.io output pin from an encoder.
type PinOut struct {
	pin gpio.PinOut
	err error
}

// NewPinOut wraps p, setting it low.
func NewPinOut(p gpio.PinOut) (*PinOut, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, err
	}
	return &PinOut{pin: p}, nil
}

// Set implements rcpulse.Pin. Only the first error is kept.
func (o *PinOut) Set(high bool) {
	if err := o.pin.Out(gpio.Level(high)); err != nil && o.err == nil {
		debug.ErrorLog.Printf("%s: %v\n", o.pin, err)
		o.err = err
	}
}

// Err returns the first error the pin reported.
func (o *PinOut) Err() error {
	return o.err
}

// PinWatcher delivers the edges of a periph.io input pin. periph.io only
// offers a blocking WaitForEdge, so edges are timed when the waiting
// goroutine wakes up; expect tens of microseconds of jitter.
type PinWatcher struct {
	pin   gpio.PinIn
	clock *rcpulse.ClockTimer
	// Poll is how often Run checks for cancellation while no edges arrive.
	Poll time.Duration
}

// NewPinWatcher configures p as an input reporting both edges.
func NewPinWatcher(p gpio.PinIn) (*PinWatcher, error) {
	if err := p.In(gpio.PullNoChange, gpio.BothEdges); err != nil {
		return nil, err
	}
	return &PinWatcher{
		pin:   p,
		clock: rcpulse.NewClockTimer(),
		Poll:  100 * time.Millisecond,
	}, nil
}

// Clock returns the timer the decoder fed by Run must use.
func (w *PinWatcher) Clock() rcpulse.Timer {
	return w.clock
}

// Run hands every edge to h until ctx is done.
func (w *PinWatcher) Run(ctx context.Context, h rcpulse.EdgeHandler) error {
	debug.TraceLog.Printf("watching %s\n", w.pin)
	for {
		select {
		case <-ctx.Done():
			debug.TraceLog.Printf("stop watching %s\n", w.pin)
			return ctx.Err()
		default:
		}
		if w.pin.WaitForEdge(w.Poll) {
			h.PinChanged(bool(w.pin.Read()))
		}
	}
}
