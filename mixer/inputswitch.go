package mixer

import "fmt"

// SwitchState is the position of a switch.
type SwitchState uint8

const (
	SwitchDown SwitchState = iota
	SwitchCenter
	SwitchUp
	SwitchDisconnected
)

func (s SwitchState) String() string {
	switch s {
	case SwitchDown:
		return "down"
	case SwitchCenter:
		return "center"
	case SwitchUp:
		return "up"
	case SwitchDisconnected:
		return "disconnected"
	}
	return fmt.Sprintf("SwitchState(%d)", uint8(s))
}

// InputSwitch turns an analog input into a two or three position switch.
type InputSwitch struct {
	// Up is the lowest value read as SwitchUp.
	Up int16
	// Center is the lowest value read as SwitchCenter. A bi-state switch has
	// Center equal to Up and never reports SwitchCenter.
	Center int16
	Tri    bool
}

// NewInputSwitch returns a switch with marks at 0 for bi-state, or at 128
// and -128 for tri-state.
func NewInputSwitch(tri bool) *InputSwitch {
	if tri {
		return &InputSwitch{Up: 128, Center: -128, Tri: true}
	}
	return &InputSwitch{}
}

// Read returns the switch position for v in [-256, 256].
func (s *InputSwitch) Read(v int16) SwitchState {
	switch {
	case v >= s.Up:
		return SwitchUp
	case v >= s.Center:
		return SwitchCenter
	}
	return SwitchDown
}

// ReadFrom reads inputs[idx]. A negative or out of range idx means the
// switch is not connected.
func (s *InputSwitch) ReadFrom(inputs []int16, idx int) SwitchState {
	if idx < 0 || idx >= len(inputs) {
		return SwitchDisconnected
	}
	return s.Read(inputs[idx])
}
