package rcpulse

import "fmt"

// TicksPerMicrosecond is the resolution of the timers the decoders and
// encoders run on: a 16 MHz clock prescaled by 8.
const TicksPerMicrosecond = 2

// Calibration maps servo pulse widths to normalized values. Center and
// Travel are held in timer ticks, half a microsecond each.
type Calibration struct {
	center Ticks
	travel Ticks
}

var (
	// Futaba timings: center 1520us, travel 600us.
	Futaba = Calibration{center: 1520 * TicksPerMicrosecond, travel: 600 * TicksPerMicrosecond}
	// JR timings: center 1500us, travel 600us.
	JR = Calibration{center: 1500 * TicksPerMicrosecond, travel: 600 * TicksPerMicrosecond}
)

// MicrosToTicks converts microseconds to timer ticks.
func MicrosToTicks(us uint16) Ticks {
	return Ticks(us << 1)
}

// TicksToMicros converts timer ticks to microseconds, dropping the half tick.
func TicksToMicros(t Ticks) uint16 {
	return uint16(t >> 1)
}

// Travel limits in microseconds. Below MinTravel the scaling in
// TicksToNormalized has no precision left; above MaxTravel the products in
// NormalizedToTicks overflow 16 bits.
const (
	MinTravel = 4
	MaxTravel = 1024
)

// maxWidth is the widest pulse in microseconds a 16 bit tick counter holds.
const maxWidth = 0x7FFF

// SetCenter sets the servo center in microseconds. The center must be at
// least the travel and center+travel must fit the timer; otherwise
// ErrOutOfRange is returned and the calibration is unchanged.
func (c *Calibration) SetCenter(us uint16) error {
	if us < c.Travel() || uint32(us)+uint32(c.Travel()) > maxWidth {
		return fmt.Errorf("center %dus with travel %dus: %w", us, c.Travel(), ErrOutOfRange)
	}
	c.center = MicrosToTicks(us)
	return nil
}

// Center returns the servo center in microseconds.
func (c Calibration) Center() uint16 {
	return TicksToMicros(c.center)
}

// SetTravel sets the maximum travel from center in microseconds, in
// [MinTravel, MaxTravel] and not beyond the center. Returns ErrOutOfRange
// otherwise, leaving the calibration unchanged.
func (c *Calibration) SetTravel(us uint16) error {
	if us < MinTravel || us > MaxTravel || us > c.Center() || uint32(us)+uint32(c.Center()) > maxWidth {
		return fmt.Errorf("travel %dus with center %dus: %w", us, c.Center(), ErrOutOfRange)
	}
	c.travel = MicrosToTicks(us)
	return nil
}

// Travel returns the maximum travel from center in microseconds.
func (c Calibration) Travel() uint16 {
	return TicksToMicros(c.travel)
}

// LoadFutaba sets center 1520us and travel 600us.
func (c *Calibration) LoadFutaba() {
	*c = Futaba
}

// LoadJR sets center 1500us and travel 600us.
func (c *Calibration) LoadJR() {
	*c = JR
}

// TicksToNormalized converts a pulse width in ticks to [-256, 256].
//
// Widths at or beyond center±travel saturate. Inside the range the scaling
// by 256/travel is done as (delta<<5)/(travel>>3), which keeps delta<<5 in
// 16 bits for travels up to 1024us at the cost of the low 3 bits of travel.
// Calibrations depend on this exact rounding.
func (c Calibration) TicksToNormalized(t Ticks) int16 {
	if t <= c.center-c.travel {
		return -Normal
	}
	if t >= c.center+c.travel {
		return Normal
	}
	var delta uint16
	neg := t < c.center
	if neg {
		delta = uint16(c.center - t)
	} else {
		delta = uint16(t - c.center)
	}
	delta <<= 5
	delta /= uint16(c.travel >> 3)
	return signed(delta, neg)
}

// NormalizedToTicks converts v in [-256, 256] to a pulse width in ticks.
//
// v+256 is 10 bits wide and the range (2*travel) is assumed to fit in 12, so
// v is cut into 4, 4 and 2 bit pieces that are multiplied separately, divided
// by 512 and shifted back into place. Values outside [-256, 256] are clamped.
func (c Calibration) NormalizedToTicks(v int16) Ticks {
	n := uint16(ClampNormalized(v) + Normal)
	rng := uint16(c.travel << 1)

	p1 := n & 0x0F
	p2 := (n >> 4) & 0x0F
	p3 := (n >> 8) & 0x03

	p1 *= rng
	p2 *= rng
	p3 *= rng

	p1 >>= 9
	p2 >>= 5
	p3 >>= 1

	return c.center - c.travel + Ticks(p1+p2+p3)
}

// MicrosToNormalized converts a pulse width in microseconds to [-256, 256].
func (c Calibration) MicrosToNormalized(us uint16) int16 {
	return c.TicksToNormalized(MicrosToTicks(us))
}

// NormalizedToMicros converts v in [-256, 256] to a pulse width in microseconds.
func (c Calibration) NormalizedToMicros(v int16) uint16 {
	return TicksToMicros(c.NormalizedToTicks(v))
}
