//go:build linux

package host

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"github.com/womat/debug"

	"github.com/sparques/rcpulse"
)

// LineWatcher delivers the edges of GPIO lines requested from the kernel.
// The kernel timestamps every edge when it happens, so the decoders see
// the real timing regardless of scheduling delays.
//
// Create the decoder with Clock before calling Watch or WatchLines.
type LineWatcher struct {
	clock   rcpulse.StampClock
	closer  interface{ Close() error }
	offsets []int
}

// NewLineWatcher returns a watcher without any lines requested.
func NewLineWatcher() *LineWatcher {
	return &LineWatcher{}
}

// Clock returns the timer stamped with the time of each edge.
func (w *LineWatcher) Clock() rcpulse.Timer {
	return &w.clock
}

func bias(pullUp bool) gpiocdev.LineBias {
	if pullUp {
		return gpiocdev.WithPullUp
	}
	return gpiocdev.WithBiasAsIs
}

// Watch requests line offset of chip, e.g. "gpiochip0", and hands its edges
// to h.
func (w *LineWatcher) Watch(chip string, offset int, h rcpulse.EdgeHandler, pullUp bool) error {
	l, err := gpiocdev.RequestLine(chip, offset,
		bias(pullUp),
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(w.single(h)))
	if err != nil {
		return fmt.Errorf("request %s line %d: %w", chip, offset, err)
	}
	w.closer = l
	w.offsets = []int{offset}
	debug.InfoLog.Printf("watching %s line %d\n", chip, offset)
	return nil
}

// WatchLines requests several lines of chip and hands their edges to h,
// with the index of the line in offsets.
func (w *LineWatcher) WatchLines(chip string, offsets []int, h rcpulse.MultiEdgeHandler, pullUp bool) error {
	w.offsets = offsets
	l, err := gpiocdev.RequestLines(chip, offsets,
		bias(pullUp),
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(w.multi(h)))
	if err != nil {
		return fmt.Errorf("request %s lines %v: %w", chip, offsets, err)
	}
	w.closer = l
	debug.InfoLog.Printf("watching %s lines %v\n", chip, offsets)
	return nil
}

func (w *LineWatcher) single(h rcpulse.EdgeHandler) func(gpiocdev.LineEvent) {
	return func(evt gpiocdev.LineEvent) {
		w.clock.Stamp(evt.Timestamp)
		h.PinChanged(evt.Type == gpiocdev.LineEventRisingEdge)
	}
}

func (w *LineWatcher) multi(h rcpulse.MultiEdgeHandler) func(gpiocdev.LineEvent) {
	return func(evt gpiocdev.LineEvent) {
		w.clock.Stamp(evt.Timestamp)
		if idx := w.index(evt.Offset); idx >= 0 {
			h.PinChanged(idx, evt.Type == gpiocdev.LineEventRisingEdge)
		}
	}
}

func (w *LineWatcher) index(offset int) int {
	for i, o := range w.offsets {
		if o == offset {
			return i
		}
	}
	return -1
}

// Close releases the requested lines.
func (w *LineWatcher) Close() error {
	if w.closer == nil {
		return nil
	}
	debug.TraceLog.Printf("releasing lines %v\n", w.offsets)
	err := w.closer.Close()
	w.closer = nil
	return err
}

// valueSetter is the part of *gpiocdev.Line LineOut drives.
type valueSetter interface {
	SetValue(int) error
	Close() error
}

// LineOut drives a GPIO line requested as an output from an encoder.
type LineOut struct {
	line valueSetter
	name string
	err  error
}

// NewLineOut requests line offset of chip as an output, initially low.
func NewLineOut(chip string, offset int) (*LineOut, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request %s line %d: %w", chip, offset, err)
	}
	debug.InfoLog.Printf("driving %s line %d\n", chip, offset)
	return &LineOut{line: l, name: fmt.Sprintf("%s:%d", chip, offset)}, nil
}

// Set implements rcpulse.Pin. Only the first error is kept.
func (o *LineOut) Set(high bool) {
	v := 0
	if high {
		v = 1
	}
	if err := o.line.SetValue(v); err != nil && o.err == nil {
		debug.ErrorLog.Printf("%s: %v\n", o.name, err)
		o.err = err
	}
}

// Err returns the first error the line reported.
func (o *LineOut) Err() error {
	return o.err
}

// Close sets the line low and releases it.
func (o *LineOut) Close() error {
	o.Set(false)
	return o.line.Close()
}
