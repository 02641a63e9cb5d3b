package rcpulse

import "errors"

var (
	// ErrTimerBusy is returned when a compare handler is attached to a timer
	// that is already driven by another encoder.
	ErrTimerBusy = errors.New("timer already has a compare handler")
	// ErrOutOfRange is returned by setters given a value outside the documented range.
	ErrOutOfRange = errors.New("value out of range")
)

// Ticks is a snapshot or a difference of a free running 16 bit timer counter.
// Differences between snapshots wrap, so only intervals shorter than 65536
// ticks (32.7ms) are meaningful.
type Ticks uint16

// Timer is a free running counter.
// Ticks must return a consistent snapshot even when called from an interrupt.
type Timer interface {
	Ticks() Ticks
}

// CompareTimer is a Timer with a compare-match interrupt.
//
// Only one handler may be attached at a time; Attach returns ErrTimerBusy
// otherwise. The deadline base is the counter value at Attach. Every Arm
// schedules the next match delta ticks after the previous deadline, never
// relative to the current count, so interrupt latency does not accumulate.
type CompareTimer interface {
	Timer
	Attach(handler func()) error
	Detach()
	Arm(delta Ticks)
}

// Pin is a digital output.
type Pin interface {
	Set(high bool)
}

// EdgeHandler receives pin changes of a single input, typically from an
// interrupt handler.
type EdgeHandler interface {
	PinChanged(high bool)
}

// MultiEdgeHandler receives pin changes for one of several inputs.
type MultiEdgeHandler interface {
	PinChanged(idx int, high bool)
}

// State of an input decoder.
type State uint8

const (
	// Startup means nothing has been received yet.
	Startup State = iota
	// Listening means a first frame boundary was seen.
	Listening
	// Stable means the signal is locked and values can be trusted.
	Stable
	// Confused means something unexpected happened.
	Confused
)

func (s State) String() string {
	switch s {
	case Startup:
		return "startup"
	case Listening:
		return "listening"
	case Stable:
		return "stable"
	case Confused:
		return "confused"
	}
	return "unknown"
}
