// Package rcpulse decodes and generates RC servo and PPM signals and holds the
// fixed-point arithmetic shared by the transform and mixer packages.
//
// Channel values are normalized to a signed range where 256 is full travel
// (100%) and 358 is 140% travel. All multiply-then-divide operations work on
// unsigned magnitudes with the sign tracked separately so the intermediate
// products fit in 16 bits.
package rcpulse

import (
	"time"

	"golang.org/x/exp/constraints"
)

const (
	// Normal is full travel, 100%.
	Normal = 256
	// Normal140 is 140% travel, the widest value a mixer may produce.
	Normal140 = 358
)

// TimePair encodes two durations used to encode an on-off or off-on amount of time.
type TimePair [2]time.Duration

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// magnitude splits v into its absolute value and sign.
func magnitude[T constraints.Signed](v T) (uint16, bool) {
	if v < 0 {
		return uint16(-v), true
	}
	return uint16(v), false
}

func signed(mag uint16, neg bool) int16 {
	if neg {
		return -int16(mag)
	}
	return int16(mag)
}

// ClampNormalized saturates v to [-256, 256].
func ClampNormalized(v int16) int16 {
	return clamp[int16](v, -Normal, Normal)
}

// Clamp140 saturates v to [-358, 358].
func Clamp140(v int16) int16 {
	return clamp[int16](v, -Normal140, Normal140)
}

// Mix returns value * percent / 100.
// value is saturated to the 140% range first; the product is formed on
// magnitudes so it never exceeds 16 unsigned bits.
func Mix(value int16, percent int8) int16 {
	value = Clamp140(value)
	if percent == -128 {
		percent = -127
	}
	v, vneg := magnitude(value)
	p, pneg := magnitude(percent)
	return signed((v*p)/100, vneg != pneg)
}

// Scale returns value * num / den on magnitudes, keeping the sign of value.
// num and den are small unsigned factors (percentages, endpoint values).
func Scale(value int16, num, den uint16) int16 {
	v, neg := magnitude(value)
	return signed((v*num)/den, neg)
}
