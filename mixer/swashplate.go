package mixer

import (
	"fmt"

	"github.com/sparques/rcpulse"
)

// SwashType is a swashplate geometry.
type SwashType uint8

const (
	// SwashH1 has one servo per function, no mixing.
	SwashH1 SwashType = iota
	// SwashH2 uses two servos at 180 degrees for aileron and pitch.
	SwashH2
	// SwashHE3 is 3 servos, 120 degrees, elevator at the front.
	SwashHE3
	// SwashHR3 is 3 servos, 120 degrees, elevator at the rear.
	SwashHR3
	// SwashHN3 is 3 servos, 120 degrees, rotated 90 degrees.
	SwashHN3
	// SwashH3 is 3 servos at 140 degrees.
	SwashH3
	// SwashH4 is 4 servos at 90 degrees.
	SwashH4
	// SwashH4X is 4 servos at 90 degrees, rotated 45 degrees.
	SwashH4X
)

func (t SwashType) String() string {
	switch t {
	case SwashH1:
		return "H1"
	case SwashH2:
		return "H2"
	case SwashHE3:
		return "HE3"
	case SwashHR3:
		return "HR3"
	case SwashHN3:
		return "HN3"
	case SwashH3:
		return "H3"
	case SwashH4:
		return "H4"
	case SwashH4X:
		return "H4X"
	}
	return fmt.Sprintf("SwashType(%d)", uint8(t))
}

// SwashOutput holds the servo positions produced by a Swashplate.
// Ele2 is only driven by the 4 servo types.
type SwashOutput struct {
	Ail, Ele, Pit, Ele2 int16
}

// Swashplate mixes cyclic and collective inputs onto the swashplate servos.
// The mix percentages may be negative to reverse a function.
type Swashplate struct {
	Type   SwashType
	AilMix int8
	EleMix int8
	PitMix int8
}

// Apply mixes ail, ele and pit, each in the 140% range.
func (s Swashplate) Apply(ail, ele, pit int16) SwashOutput {
	ail = rcpulse.Mix(ail, s.AilMix)
	ele = rcpulse.Mix(ele, s.EleMix)
	pit = rcpulse.Mix(pit, s.PitMix)

	var o SwashOutput
	switch s.Type {
	default:
		o.Ail, o.Ele, o.Pit = ail, ele, pit
	case SwashH2:
		o.Ele = ele
		o.Ail = ail + pit
		o.Pit = -ail + pit
	case SwashHE3:
		o.Ele = ele + pit
		o.Ail = ail + pit
		o.Pit = -ail + pit
	case SwashHR3:
		o.Ele = ele + pit
		o.Ail = ail + pit - (ele >> 1)
		o.Pit = -ail + pit - (ele >> 1)
	case SwashHN3:
		o.Ele = ele + pit - (ail >> 1)
		o.Ail = ail + pit
		o.Pit = -ele + pit - (ail >> 1)
	case SwashH3:
		o.Ele = ele + pit
		o.Ail = -ele + ail + pit
		o.Pit = -ele - ail + pit
	case SwashH4:
		o.Ele = ele + pit
		o.Ele2 = -ele + pit
		o.Ail = ail + pit
		o.Pit = -ail + pit
	case SwashH4X:
		o.Ele = (ele >> 1) - (ail >> 1) + pit
		o.Ele2 = -(ele >> 1) + (ail >> 1) + pit
		o.Ail = (ele >> 1) + (ail >> 1) + pit
		o.Pit = -(ele >> 1) - (ail >> 1) + pit
	}

	o.Ail = rcpulse.Clamp140(o.Ail)
	o.Ele = rcpulse.Clamp140(o.Ele)
	o.Pit = rcpulse.Clamp140(o.Pit)
	o.Ele2 = rcpulse.Clamp140(o.Ele2)
	return o
}

// SwashToThrottle adds throttle when the swashplate is deflected, to make up
// for the extra load on the rotor. The effect fades out towards both ends of
// the throttle range.
type SwashToThrottle struct {
	AilMix uint8
	EleMix uint8
}

// Apply returns throttle thr in [-256, 256] corrected for ail and ele in the
// 140% range.
func (s SwashToThrottle) Apply(thr, ail, ele int16) int16 {
	thr = rcpulse.ClampNormalized(thr)
	mix := rcpulse.Clamp140(rcpulse.Mix(ail, int8(min(s.AilMix, 100))) + rcpulse.Mix(ele, int8(min(s.EleMix, 100))))

	room := rcpulse.Normal - thr
	if thr < 0 {
		room = rcpulse.Normal + thr
	}
	mix = rcpulse.Scale(mix, uint16(room/2), 128)

	return rcpulse.ClampNormalized(thr + mix)
}
