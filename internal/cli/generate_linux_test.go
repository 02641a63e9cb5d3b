package cli

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sparques/rcpulse"
	"github.com/sparques/rcpulse/ppm"
)

// edgeCounter is a Pin safe to drive from the SleepTimer goroutine.
type edgeCounter struct {
	mu    sync.Mutex
	level bool
	edges int
}

func (c *edgeCounter) Set(high bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if high != c.level {
		c.edges++
	}
	c.level = high
}

func (c *edgeCounter) count() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edges, c.level
}

func resetGenerateFlags() {
	servoSignal, micros, invert = false, false, false
	jr, center, travel = false, 0, 0
	sendFrames = 0
	pulseLength, pauseLength = ppm.DefaultPulseLength, ppm.DefaultPauseLength
}

func TestGeneratePPM(t *testing.T) {
	resetGenerateFlags()
	pin := &edgeCounter{}
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	if err := generate(ctx, rcpulse.NewSleepTimer(), []rcpulse.Pin{pin}, []int16{0, 0}); err != nil {
		t.Fatal(err)
	}
	if edges, level := pin.count(); edges < 6 || level {
		t.Errorf("%d edges, level %v after the signal stopped", edges, level)
	}
}

func TestGenerateServo(t *testing.T) {
	resetGenerateFlags()
	servoSignal = true
	pins := []*edgeCounter{{}, {}}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := generate(ctx, rcpulse.NewSleepTimer(), []rcpulse.Pin{pins[0], pins[1]}, []int16{-256, 256})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pins {
		if edges, level := p.count(); edges < 2 || level {
			t.Errorf("servo %d: %d edges, level %v", i, edges, level)
		}
	}
}

func TestGenerateFrames(t *testing.T) {
	resetGenerateFlags()
	sendFrames = 2
	var vt rcpulse.VirtualTimer
	pin := &edgeCounter{}
	if err := generate(context.Background(), &vt, []rcpulse.Pin{pin}, []int16{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	// four pulses per frame
	if edges, _ := pin.count(); edges != 16 {
		t.Errorf("%d edges for two frames", edges)
	}
}

func TestGeneratePinCount(t *testing.T) {
	resetGenerateFlags()
	ctx := context.Background()
	if err := generate(ctx, rcpulse.NewSleepTimer(), nil, []int16{0}); !errors.Is(err, errPinCount) {
		t.Errorf("PPM without lines: %v", err)
	}
	servoSignal = true
	if err := generate(ctx, rcpulse.NewSleepTimer(), []rcpulse.Pin{&edgeCounter{}}, []int16{0, 0}); !errors.Is(err, errPinCount) {
		t.Errorf("two servos on one line: %v", err)
	}
}
