package rcpulse

import (
	"sync"
	"sync/atomic"
	"time"
)

const tickDuration = time.Microsecond / TicksPerMicrosecond

// DurationToTicks converts d to timer ticks, wrapping at 16 bits.
func DurationToTicks(d time.Duration) Ticks {
	return Ticks(d / tickDuration)
}

// TicksToDuration converts t to a time.Duration.
func TicksToDuration(t Ticks) time.Duration {
	return time.Duration(t) * tickDuration
}

// ClockTimer is a Timer running off the monotonic clock at the standard
// tick rate.
type ClockTimer struct {
	epoch time.Time
}

// NewClockTimer returns a ClockTimer starting at zero.
func NewClockTimer() *ClockTimer {
	return &ClockTimer{epoch: time.Now()}
}

// Ticks implements Timer.
func (c *ClockTimer) Ticks() Ticks {
	return DurationToTicks(time.Since(c.epoch))
}

// StampClock is a Timer whose count is set from event timestamps taken
// elsewhere, e.g. by the kernel when the edge happened. Stamp must be called
// before the edge is handed to a decoder.
type StampClock struct {
	now atomic.Uint32
}

// Stamp sets the counter from a timestamp.
func (c *StampClock) Stamp(ts time.Duration) {
	c.now.Store(uint32(DurationToTicks(ts)))
}

// Ticks implements Timer.
func (c *StampClock) Ticks() Ticks {
	return Ticks(c.now.Load())
}

// SleepTimer is a CompareTimer for machines without a spare hardware compare
// unit. The compare handler runs on a goroutine of its own, woken by a
// time.Timer at each deadline, so expect tens of microseconds of jitter.
//
// Detach waits for a running handler to return and must not be called from
// the handler.
type SleepTimer struct {
	ClockTimer

	mu       sync.Mutex
	handler  func()
	deadline time.Duration // since epoch
	armed    bool
	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
}

// NewSleepTimer returns a SleepTimer starting at zero.
func NewSleepTimer() *SleepTimer {
	return &SleepTimer{ClockTimer: ClockTimer{epoch: time.Now()}}
}

// Attach implements CompareTimer.
func (t *SleepTimer) Attach(handler func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handler != nil {
		return ErrTimerBusy
	}
	t.handler = handler
	t.deadline = time.Since(t.epoch)
	t.armed = false
	t.wake = make(chan struct{}, 1)
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(handler, t.wake, t.stop, t.done)
	return nil
}

// Detach implements CompareTimer.
func (t *SleepTimer) Detach() {
	t.mu.Lock()
	if t.handler == nil {
		t.mu.Unlock()
		return
	}
	t.handler = nil
	t.armed = false
	stop, done := t.stop, t.done
	t.mu.Unlock()

	close(stop)
	<-done
}

// Arm implements CompareTimer.
func (t *SleepTimer) Arm(delta Ticks) {
	t.mu.Lock()
	t.deadline += TicksToDuration(delta)
	t.armed = true
	wake := t.wake
	t.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

func (t *SleepTimer) run(handler func(), wake, stop, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		t.mu.Lock()
		armed, deadline := t.armed, t.deadline
		t.mu.Unlock()

		if !armed {
			select {
			case <-stop:
				return
			case <-wake:
			}
			continue
		}

		timer.Reset(time.Until(t.epoch.Add(deadline)))
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		t.mu.Lock()
		t.armed = false
		t.mu.Unlock()
		handler()
	}
}
