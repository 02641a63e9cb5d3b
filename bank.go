package rcpulse

import "sync/atomic"

const (
	bankActive  = 1 << 0
	bankPending = 1 << 1
)

// BankSwitch hands a double buffer from a main loop writer to an interrupt
// reader. The reader only ever looks at the active bank, the writer only
// ever fills the other one, and Swap exchanges them when the writer has
// published.
//
// The writer calls Claim, fills the returned bank and calls Publish. The
// reader calls Swap at a point where switching buffers is safe, such as the
// end of a frame.
type BankSwitch struct {
	state atomic.Uint32
}

// Active returns the bank the reader is using.
func (b *BankSwitch) Active() int {
	return int(b.state.Load() & bankActive)
}

// Claim withdraws any unconsumed publication and returns the bank that may
// be written. The reader will not switch to it until Publish is called.
func (b *BankSwitch) Claim() int {
	for {
		s := b.state.Load()
		if b.state.CompareAndSwap(s, s&^bankPending) {
			return int(s&bankActive) ^ 1
		}
	}
}

// Publish marks the claimed bank as ready.
func (b *BankSwitch) Publish() {
	for {
		s := b.state.Load()
		if b.state.CompareAndSwap(s, s|bankPending) {
			return
		}
	}
}

// Swap makes a published bank active and returns the active bank.
func (b *BankSwitch) Swap() int {
	for {
		s := b.state.Load()
		if s&bankPending == 0 {
			return int(s & bankActive)
		}
		n := (s ^ bankActive) &^ bankPending
		if b.state.CompareAndSwap(s, n) {
			return int(n & bankActive)
		}
	}
}
