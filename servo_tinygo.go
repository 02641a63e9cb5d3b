//go:build tinygo

package rcpulse

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// DriverServo drives one servo through the tinygo drivers servo package,
// for boards where the PWM peripheral is set up by the driver.
type DriverServo struct {
	s   servo.Servo
	cal Calibration
}

// NewDriverServo configures pin on the given PWM peripheral.
func NewDriverServo(p servo.PWM, pin machine.Pin, cal Calibration) (*DriverServo, error) {
	s, err := servo.New(p, pin)
	if err != nil {
		return nil, err
	}
	return &DriverServo{s: s, cal: cal}, nil
}

// Set sets the pulse width from a normalized value in [-256, 256].
func (d *DriverServo) Set(v int16) {
	d.s.SetMicroseconds(int16(d.cal.NormalizedToMicros(v)))
}
