package ppm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sparques/rcpulse"
)

const (
	centerTicks = 3040
	gapTicks    = 20000
)

type inFixture struct {
	vt      rcpulse.VirtualTimer
	results []int16
	in      *In
}

func newInFixture(maxChannels int) *inFixture {
	f := &inFixture{results: make([]int16, maxChannels)}
	f.in = NewIn(&f.vt, f.results, make([]rcpulse.Ticks, InWorkSize(maxChannels)), maxChannels)
	return f
}

// edge moves time forward by ticks and delivers a falling edge.
func (f *inFixture) edge(ticks uint32) {
	f.vt.Advance(ticks)
	f.in.PinChanged(false)
}

func (f *inFixture) frame(widths ...uint32) {
	for _, w := range widths {
		f.edge(w)
	}
	f.edge(gapTicks)
}

func TestInStateMachine(t *testing.T) {
	f := newInFixture(8)
	if f.in.State() != rcpulse.Startup {
		t.Fatalf("initial state %v", f.in.State())
	}

	f.edge(gapTicks)
	if f.in.State() != rcpulse.Listening {
		t.Fatalf("after sync: %v", f.in.State())
	}

	f.frame(centerTicks, centerTicks, centerTicks, centerTicks)
	if !f.in.IsStable() || f.in.Channels() != 4 {
		t.Fatalf("after first frame: %v, %d channels", f.in.State(), f.in.Channels())
	}

	f.frame(centerTicks, centerTicks, centerTicks, centerTicks)
	if !f.in.IsStable() {
		t.Fatalf("after second frame: %v", f.in.State())
	}

	f.frame(centerTicks, centerTicks, centerTicks, centerTicks, centerTicks)
	if f.in.State() != rcpulse.Confused {
		t.Fatalf("after long frame: %v", f.in.State())
	}

	// the next sync gap starts over
	f.frame(centerTicks, centerTicks, centerTicks)
	if f.in.State() != rcpulse.Listening {
		t.Fatalf("after recovery gap: %v", f.in.State())
	}
	f.frame(centerTicks, centerTicks, centerTicks)
	if !f.in.IsStable() || f.in.Channels() != 3 {
		t.Fatalf("after relearning: %v, %d channels", f.in.State(), f.in.Channels())
	}
}

func TestInShortFrameConfuses(t *testing.T) {
	f := newInFixture(8)
	f.edge(gapTicks)
	f.frame(centerTicks, centerTicks, centerTicks)
	f.frame(centerTicks, centerTicks)
	if f.in.State() != rcpulse.Confused {
		t.Fatalf("state %v", f.in.State())
	}
}

func TestInIgnoresOtherEdge(t *testing.T) {
	f := newInFixture(8)
	f.vt.Advance(gapTicks)
	f.in.PinChanged(true)
	if f.in.State() != rcpulse.Startup {
		t.Fatalf("rising edge changed state to %v", f.in.State())
	}

	f.in.SetHighPulses(true)
	f.vt.Advance(gapTicks)
	f.in.PinChanged(true)
	if f.in.State() != rcpulse.Listening {
		t.Fatalf("rising edge with high pulses: %v", f.in.State())
	}
}

func TestInUpdate(t *testing.T) {
	f := newInFixture(4)
	if f.in.Update() {
		t.Fatal("update before any frame")
	}

	f.edge(gapTicks)
	f.frame(1840, centerTicks, 4240, 3540)
	if !f.in.Update() {
		t.Fatal("no new frame")
	}
	want := []int16{-256, 0, 256, 106}
	for i, v := range want {
		if f.results[i] != v {
			t.Errorf("results[%d] = %d, want %d", i, f.results[i], v)
		}
	}
	if f.in.Update() {
		t.Error("second update without a frame")
	}

	f.in.SetMicroseconds(true)
	f.frame(1840, centerTicks, 4240, 3541)
	if !f.in.Update() {
		t.Fatal("no new frame")
	}
	want = []int16{920, 1520, 2120, 1770}
	for i, v := range want {
		if f.results[i] != v {
			t.Errorf("results[%d] = %d, want %d us", i, f.results[i], v)
		}
	}
}

func TestInMoreChannelsThanBuffer(t *testing.T) {
	f := newInFixture(2)
	f.edge(gapTicks)
	f.frame(1840, 4240, centerTicks, centerTicks)
	f.frame(1840, 4240, centerTicks, centerTicks)
	if !f.in.IsStable() || f.in.Channels() != 4 {
		t.Fatalf("%v, %d channels", f.in.State(), f.in.Channels())
	}
	if !f.in.Update() || f.results[0] != -256 || f.results[1] != 256 {
		t.Errorf("results %v", f.results)
	}
}

func TestInPauseLength(t *testing.T) {
	f := newInFixture(4)
	if f.in.PauseLength() != DefaultSyncLength {
		t.Errorf("default pause length %d", f.in.PauseLength())
	}
	f.in.SetPauseLength(4000)
	f.edge(8002)
	if f.in.State() != rcpulse.Listening {
		t.Errorf("8002 tick gap not a sync with a 4000us pause: %v", f.in.State())
	}
}

func TestWorkSizes(t *testing.T) {
	for _, tt := range []struct{ n, in, out int }{
		{1, 1, 9},
		{8, 8, 44},
		{12, 12, 64},
	} {
		if got := InWorkSize(tt.n); got != tt.in {
			t.Errorf("InWorkSize(%d) = %d, want %d", tt.n, got, tt.in)
		}
		if got := OutWorkSize(tt.n); got != tt.out {
			t.Errorf("OutWorkSize(%d) = %d, want %d", tt.n, got, tt.out)
		}
	}
}

func TestOutCenteredFrame(t *testing.T) {
	var vt rcpulse.VirtualTimer
	out := NewOut(&vt, &rcpulse.Wire{}, make([]int16, 8), make([]rcpulse.Ticks, OutWorkSize(8)), 8, 8)
	out.Update()

	timings := out.Timings()
	if len(timings) != 18 {
		t.Fatalf("%d timings", len(timings))
	}
	pulse := rcpulse.MicrosToTicks(out.PulseLength())
	for i := 0; i < 8; i++ {
		if timings[2*i] != pulse {
			t.Errorf("pulse %d = %d", i, timings[2*i])
		}
		if slot := timings[2*i] + timings[2*i+1]; slot != centerTicks {
			t.Errorf("channel %d slot = %d, want %d", i, slot, centerTicks)
		}
	}
	if end := timings[16] + timings[17]; end != rcpulse.MicrosToTicks(out.PauseLength()) {
		t.Errorf("end of frame = %d ticks, want pause %dus", end, out.PauseLength())
	}

	frame := out.MarshalFrame()
	if len(frame) != 9 {
		t.Fatalf("%d pairs", len(frame))
	}
	if frame[0] != (rcpulse.TimePair{500 * time.Microsecond, 1020 * time.Microsecond}) {
		t.Errorf("first pair %v", frame[0])
	}
	if frame[8] != (rcpulse.TimePair{500 * time.Microsecond, 10 * time.Millisecond}) {
		t.Errorf("last pair %v", frame[8])
	}
}

func TestOutMicroseconds(t *testing.T) {
	var vt rcpulse.VirtualTimer
	input := []int16{1000, 2000, -5}
	out := NewOut(&vt, &rcpulse.Wire{}, input, make([]rcpulse.Ticks, OutWorkSize(3)), 3, 3)
	out.SetMicroseconds(true)
	out.SetPulseLength(300)
	out.Update()

	timings := out.Timings()
	want := []rcpulse.Ticks{600, 1400, 600, 3400, 600, 1, 600, 20400}
	for i, v := range want {
		if timings[i] != v {
			t.Errorf("timings[%d] = %d, want %d", i, timings[i], v)
		}
	}
}

func TestOutChannelCount(t *testing.T) {
	var vt rcpulse.VirtualTimer
	out := NewOut(&vt, &rcpulse.Wire{}, make([]int16, 4), make([]rcpulse.Ticks, OutWorkSize(4)), 6, 4)
	if out.ChannelCount() != 4 {
		t.Errorf("channel count %d", out.ChannelCount())
	}
	if err := out.SetChannelCount(5); !errors.Is(err, rcpulse.ErrOutOfRange) {
		t.Errorf("SetChannelCount(5): %v", err)
	}
	if err := out.SetChannelCount(2); err != nil {
		t.Fatal(err)
	}
	out.Update()
	if n := len(out.Timings()); n != 6 {
		t.Errorf("%d timings for 2 channels", n)
	}
}

func TestOutTimerBusy(t *testing.T) {
	var vt rcpulse.VirtualTimer
	a := NewOut(&vt, &rcpulse.Wire{}, make([]int16, 2), make([]rcpulse.Ticks, OutWorkSize(2)), 2, 2)
	b := NewOut(&vt, &rcpulse.Wire{}, make([]int16, 2), make([]rcpulse.Ticks, OutWorkSize(2)), 2, 2)
	if err := a.Start(false); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(false); !errors.Is(err, rcpulse.ErrTimerBusy) {
		t.Fatalf("second Start: %v", err)
	}
	a.Stop()
	if err := b.Start(false); err != nil {
		t.Fatalf("Start after Stop: %v", err)
	}
}

func TestLoopback(t *testing.T) {
	const channels = 8
	input := []int16{-256, -100, 0, 1, 100, 256, 358, -358}

	var vt rcpulse.VirtualTimer
	results := make([]int16, channels)
	in := NewIn(&vt, results, make([]rcpulse.Ticks, InWorkSize(channels)), channels)
	wire := &rcpulse.Wire{Sink: in}
	out := NewOut(&vt, wire, input, make([]rcpulse.Ticks, OutWorkSize(channels)), channels, channels)

	if err := out.Start(false); err != nil {
		t.Fatal(err)
	}
	vt.Advance(5 * 65536)

	if !in.IsStable() || in.Channels() != channels {
		t.Fatalf("decoder %v with %d channels", in.State(), in.Channels())
	}
	if !in.Update() {
		t.Fatal("no frame decoded")
	}
	for i, v := range input {
		want := rcpulse.ClampNormalized(v)
		if d := results[i] - want; d > 2 || d < -2 {
			t.Errorf("channel %d: got %d, want %d", i, results[i], want)
		}
	}

	// fewer channels confuse the decoder once, then it relearns
	if err := out.SetChannelCount(4); err != nil {
		t.Fatal(err)
	}
	out.Update()
	vt.Advance(6 * 65536)
	if !in.IsStable() || in.Channels() != 4 {
		t.Fatalf("decoder %v with %d channels", in.State(), in.Channels())
	}

	out.Stop()
	edges := wire.Edges()
	vt.Advance(65536)
	if wire.Edges() != edges || wire.Level() {
		t.Errorf("signal after Stop: %d edges, level %v", wire.Edges()-edges, wire.Level())
	}
}

func TestLoopbackInverted(t *testing.T) {
	input := []int16{50, -50}

	var vt rcpulse.VirtualTimer
	results := make([]int16, 2)
	in := NewIn(&vt, results, make([]rcpulse.Ticks, InWorkSize(2)), 2)
	in.SetHighPulses(true)
	wire := &rcpulse.Wire{Sink: in}
	out := NewOut(&vt, wire, input, make([]rcpulse.Ticks, OutWorkSize(2)), 2, 2)
	out.Calibration().LoadJR()
	in.Calibration().LoadJR()

	if err := out.Start(true); err != nil {
		t.Fatal(err)
	}
	vt.Advance(4 * 65536)
	if !in.Update() {
		t.Fatalf("no frame, decoder %v", in.State())
	}
	for i, v := range input {
		if d := results[i] - v; d > 2 || d < -2 {
			t.Errorf("channel %d: got %d, want %d", i, results[i], v)
		}
	}
	out.Stop()
	if !wire.Level() {
		t.Error("inverted output not idle high")
	}
}

// syncPin is a Pin safe to drive from the SleepTimer goroutine.
type syncPin struct {
	mu    sync.Mutex
	level bool
	edges int
}

func (p *syncPin) Set(high bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if high != p.level {
		p.edges++
	}
	p.level = high
}

func (p *syncPin) get() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.edges, p.level
}

func TestOutOnSleepTimer(t *testing.T) {
	pin := &syncPin{}
	out := NewOut(rcpulse.NewSleepTimer(), pin, []int16{0, 0}, make([]rcpulse.Ticks, OutWorkSize(2)), 2, 2)
	if err := out.Start(false); err != nil {
		t.Fatal(err)
	}
	time.Sleep(40 * time.Millisecond)
	out.Stop()

	// a frame of two centered channels takes 13.5ms and has 6 edges
	edges, level := pin.get()
	if edges < 6 || level {
		t.Fatalf("%d edges, level %v after Stop", edges, level)
	}
	time.Sleep(20 * time.Millisecond)
	if after, _ := pin.get(); after != edges {
		t.Errorf("%d edges after Stop", after-edges)
	}
}
