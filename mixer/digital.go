package mixer

// LevelReader is a pin that can be read, such as a TinyGo machine.Pin
// configured as an input.
type LevelReader interface {
	Get() bool
}

// DigitalIn reads a two position switch wired to a digital pin.
type DigitalIn struct {
	pin      LevelReader
	reversed bool
}

// NewDigitalIn returns a switch reading p, not reversed.
func NewDigitalIn(p LevelReader) *DigitalIn {
	return &DigitalIn{pin: p}
}

// SetReverse inverts the level read from the pin.
func (d *DigitalIn) SetReverse(reversed bool) {
	d.reversed = reversed
}

// Reversed reports whether the level is inverted.
func (d *DigitalIn) Reversed() bool {
	return d.reversed
}

// Read returns the level of the pin, inverted when reversed.
func (d *DigitalIn) Read() bool {
	return d.pin.Get() != d.reversed
}

// State returns SwitchUp when Read is true and SwitchDown otherwise, so a
// digital switch can stand in for an InputSwitch.
func (d *DigitalIn) State() SwitchState {
	if d.Read() {
		return SwitchUp
	}
	return SwitchDown
}
