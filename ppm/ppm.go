/*
Package ppm decodes and generates PPM signals.

A PPM frame carries several servo channels on one wire. Every channel is the
time between two consecutive pulses, and frames are separated by a pause
longer than any channel:

	 _   _    _   _          _   _
	| |_| |__| |_| |________| |_| |__
	 ch1  ch2  ch3   pause    ch1

In is fed the edges of the signal from an interrupt handler and converts the
measured channels to normalized values or microseconds. Out generates the
signal from normalized values or microseconds on a compare timer.

## Example

	results := make([]int16, 8)
	in := ppm.NewIn(rcpulse.NewClockTimer(), results, make([]rcpulse.Ticks, ppm.InWorkSize(8)), 8)
	rx := rcpulse.NewRxDevice(machine.GPIO2, in)
	rx.Start()

	for {
		if in.Update() {
			// results holds the latest frame
		}
	}

Without a hardware compare unit to spare, an encoder runs on a SleepTimer:

	channels := make([]int16, 8)
	out := ppm.NewOut(rcpulse.NewSleepTimer(), rcpulse.NewOutputPin(machine.GPIO3),
		channels, make([]rcpulse.Ticks, ppm.OutWorkSize(8)), 8, 8)
	out.Start(false)

	for {
		// update channels
		out.Update()
	}
*/
package ppm

import "github.com/sparques/rcpulse"

const (
	// DefaultPulseLength is the length of the pulse separating channels.
	DefaultPulseLength = 500
	// DefaultPauseLength is the end of frame pause, pulse included.
	DefaultPauseLength = 10500
	// DefaultSyncLength is the shortest pause In accepts as a frame
	// boundary.
	DefaultSyncLength = 7500
)

// InWorkSize returns the length of the work buffer an In decoding up to n
// channels needs.
func InWorkSize(n int) int {
	return n
}

// OutWorkSize returns the length of the work buffer an Out generating up to
// n channels needs: the channel widths and two banks of pulse/pause timings.
func OutWorkSize(n int) int {
	return n + 2*timingCount(n)
}

func timingCount(channels int) int {
	return (channels + 1) * 2
}

func clampTicks(us uint16) rcpulse.Ticks {
	return rcpulse.MicrosToTicks(min(us, 0x7FFF))
}
