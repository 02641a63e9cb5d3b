package rcpulse

// VirtualTimer is a software CompareTimer. Time only moves when Advance is
// called, and the compare handler runs synchronously at each deadline, as an
// interrupt would. It is not safe for concurrent use.
type VirtualTimer struct {
	now      Ticks
	deadline Ticks
	armed    bool
	handler  func()
}

// Ticks implements Timer.
func (t *VirtualTimer) Ticks() Ticks {
	return t.now
}

// Attach implements CompareTimer.
func (t *VirtualTimer) Attach(handler func()) error {
	if t.handler != nil {
		return ErrTimerBusy
	}
	t.handler = handler
	t.deadline = t.now
	t.armed = false
	return nil
}

// Detach implements CompareTimer.
func (t *VirtualTimer) Detach() {
	t.handler = nil
	t.armed = false
}

// Arm implements CompareTimer.
func (t *VirtualTimer) Arm(delta Ticks) {
	t.deadline += delta
	t.armed = true
}

// Advance moves the counter n ticks forward, running the compare handler for
// every deadline that falls inside the interval.
func (t *VirtualTimer) Advance(n uint32) {
	for {
		if !t.armed || t.handler == nil {
			t.now += Ticks(n)
			return
		}
		dist := uint32(t.deadline - t.now)
		if dist > n {
			t.now += Ticks(n)
			return
		}
		n -= dist
		t.now = t.deadline
		t.armed = false
		t.handler()
	}
}

// Set moves the counter to an absolute value without running the handler.
func (t *VirtualTimer) Set(now Ticks) {
	t.now = now
}

// Wire is a Pin connected to an EdgeHandler, for looping an encoder back
// into a decoder. Writes that do not change the level are not forwarded.
type Wire struct {
	Sink  EdgeHandler
	level bool
	edges int
}

// Set implements Pin.
func (w *Wire) Set(high bool) {
	if high == w.level {
		return
	}
	w.level = high
	w.edges++
	if w.Sink != nil {
		w.Sink.PinChanged(high)
	}
}

// Level returns the current level.
func (w *Wire) Level() bool {
	return w.level
}

// Edges returns the number of level changes seen.
func (w *Wire) Edges() int {
	return w.edges
}

// MultiWire routes one of several pins to a MultiEdgeHandler.
type MultiWire struct {
	Sink  MultiEdgeHandler
	Index int
	level bool
}

// Set implements Pin.
func (w *MultiWire) Set(high bool) {
	if high == w.level {
		return
	}
	w.level = high
	if w.Sink != nil {
		w.Sink.PinChanged(w.Index, high)
	}
}

// Level returns the current level.
func (w *MultiWire) Level() bool {
	return w.level
}
