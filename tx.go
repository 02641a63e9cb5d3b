//go:build tinygo

package rcpulse

import (
	"machine"

	"github.com/sparques/pwm"
)

// ServoFrequency is the standard analog servo refresh rate.
const ServoFrequency = 50

// PWMServo drives one servo from a hardware PWM channel instead of the
// timer scheduled servo.Out. The pulse width follows the calibration.
type PWMServo struct {
	pin    machine.Pin
	pgroup pwm.Group
	ch     uint8
	period uint64
	cal    Calibration
}

// NewPWMServo configures pin for PWM at freq Hz (ServoFrequency if 0).
func NewPWMServo(pin machine.Pin, freq uint64, cal Calibration) (*PWMServo, error) {
	if freq == 0 {
		freq = ServoFrequency
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	pgroup := pwm.Get(pin)
	period := uint64(1e9) / freq
	pgroup.Configure(machine.PWMConfig{Period: period})
	ch, err := pgroup.Channel(pin)
	if err != nil {
		return nil, err
	}
	pgroup.Set(ch, 0)
	return &PWMServo{
		pin:    pin,
		pgroup: pgroup,
		ch:     ch,
		period: period,
		cal:    cal,
	}, nil
}

// SetMicroseconds sets the pulse width.
func (s *PWMServo) SetMicroseconds(us uint16) {
	top := uint64(s.pgroup.Top())
	s.pgroup.Set(s.ch, uint32(uint64(us)*1000*top/s.period))
}

// Set sets the pulse width from a normalized value in [-256, 256].
func (s *PWMServo) Set(v int16) {
	s.SetMicroseconds(s.cal.NormalizedToMicros(v))
}

// Off stops the pulses; most servos go limp.
func (s *PWMServo) Off() {
	s.pgroup.Set(s.ch, 0)
}
