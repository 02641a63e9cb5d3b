package transform

import "github.com/sparques/rcpulse"

// expoPoints is the number of interpolation points, not counting 0 and 256.
const expoPoints = 15

// Precalculated curves, x^3 for positive expo and x^(1/3) for negative expo.
var (
	expoPos = [expoPoints]uint16{0, 1, 2, 4, 8, 14, 21, 32, 46, 63, 83, 108, 137, 171, 210}
	expoNeg = [expoPoints]uint16{101, 128, 147, 161, 174, 185, 194, 203, 211, 219, 226, 232, 239, 245, 251}
)

// Expo blends the input with an exponential curve.
type Expo struct{}

func expoPoint(table *[expoPoints]uint16, index uint16) uint16 {
	switch {
	case index == 0:
		return 0
	case index > expoPoints:
		return rcpulse.Normal
	}
	return table[index-1]
}

// Apply applies expo in [-100, 100] to v in [-256, 256]. Positive expo makes
// the response softer around center, negative expo makes it sharper. An expo
// of 0 returns v unchanged.
func (Expo) Apply(v int16, expo int8) int16 {
	if expo == 0 {
		return v
	}

	expo = max(min(expo, 100), -100)
	table := &expoPos
	if expo < 0 {
		table = &expoNeg
		expo = -expo
	}
	e := uint16(expo)

	val, neg := uint16(v), false
	if v < 0 {
		val, neg = uint16(-v), true
	}
	val = min(val, rcpulse.Normal140)

	index := val >> 4
	rem := val & 0x0F

	low := expoPoint(table, index) * ((expoPoints + 1) - rem)
	high := expoPoint(table, index+1) * rem
	curved := (low + high) >> 4

	out := int16((val*(100-e) + curved*e) / 100)
	if neg {
		return -out
	}
	return out
}
