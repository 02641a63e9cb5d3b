package mixer

import (
	"fmt"

	"github.com/sparques/rcpulse"
)

// WingType is the wing layout of a plane.
type WingType uint8

const (
	// Tailed has separate control surfaces for elevator.
	Tailed WingType = iota
	// Tailless is a flying wing using elevons for combined aileron/elevator.
	Tailless
)

// TailType is the tail layout of a tailed plane.
type TailType uint8

const (
	// TailNormal has one servo each for elevator and rudder.
	TailNormal TailType = iota
	// TailVTail has two servos for combined elevator and rudder.
	TailVTail
	// TailAilevator has two elevator servos that also act as ailerons.
	TailAilevator
)

// RudderType is the rudder layout of a tailless plane.
type RudderType uint8

const (
	RudderNone RudderType = iota
	RudderNormal
	// RudderWinglet uses two servos, one per wing tip.
	RudderWinglet
)

// Servo identifies one servo of a PlaneModel.
type Servo uint8

const (
	AIL1 Servo = iota // main aileron
	AIL2              // main aileron
	AIL3              // chip aileron
	AIL4              // chip aileron
	ELE1              // elevator, V-tail left, ailevator
	ELE2              // elevator, ailevator
	RUD1              // rudder, V-tail right, winglet
	RUD2              // winglet
	FLP1              // camber flap
	FLP2              // camber flap
	FLP3              // brake flap
	FLP4              // brake flap
	BRK1              // airbrake
	BRK2              // airbrake

	ServoCount = int(BRK2) + 1
)

var servoNames = [ServoCount]string{"AIL1", "AIL2", "AIL3", "AIL4", "ELE1", "ELE2", "RUD1", "RUD2", "FLP1", "FLP2", "FLP3", "FLP4", "BRK1", "BRK2"}

func (s Servo) String() string {
	if int(s) < ServoCount {
		return servoNames[s]
	}
	return fmt.Sprintf("Servo(%d)", uint8(s))
}

// PlaneModel mixes aileron, elevator, rudder, flap and brake inputs onto
// the servos of a plane. The servo count settings are 1, 2 or 4 ailerons,
// 0, 1, 2 or 4 flaps and 0, 1 or 2 brakes; other values are rounded down.
type PlaneModel struct {
	Wing     WingType
	Tail     TailType
	Rudder   RudderType
	Ailerons uint8
	Flaps    uint8
	Brakes   uint8

	ElevonAileronMix  int8
	ElevonElevatorMix int8
	AilevatorMix      int8
	VTailElevatorMix  int8
	VTailRudderMix    int8

	servos [ServoCount]int16
}

// NewPlaneModel returns a tailed plane with a normal tail, one aileron servo
// and 50% elevon and V-tail mixes.
func NewPlaneModel() *PlaneModel {
	return &PlaneModel{
		Wing:              Tailed,
		Tail:              TailNormal,
		Rudder:            RudderNormal,
		Ailerons:          1,
		ElevonAileronMix:  50,
		ElevonElevatorMix: 50,
		VTailElevatorMix:  50,
		VTailRudderMix:    50,
	}
}

// Apply mixes the inputs, each in the 140% range. Servos not used by the
// current layout are set to 0.
func (p *PlaneModel) Apply(ail, ele, rud, flp, brk int16) {
	p.servos = [ServoCount]int16{}

	switch p.Wing {
	case Tailless:
		a := rcpulse.Mix(ail, p.ElevonAileronMix)
		e := rcpulse.Mix(ele, p.ElevonElevatorMix)
		if p.Ailerons >= 4 {
			p.servos[AIL3] = a + e
			p.servos[AIL4] = -a + e
		}
		p.servos[AIL1] = a + e
		p.servos[AIL2] = -a + e
		p.applyRudder(rud)
	default:
		switch {
		case p.Ailerons >= 4:
			p.servos[AIL3] = ail
			p.servos[AIL4] = -ail
			fallthrough
		case p.Ailerons >= 2:
			p.servos[AIL2] = -ail
		}
		p.servos[AIL1] = ail
		p.applyTail(ail, ele, rud)
	}

	p.applyFlaps(flp, brk)
	p.applyBrakes(brk)

	for i := range p.servos {
		p.servos[i] = rcpulse.Clamp140(p.servos[i])
	}
}

func (p *PlaneModel) applyTail(ail, ele, rud int16) {
	switch p.Tail {
	case TailVTail:
		e := rcpulse.Mix(ele, p.VTailElevatorMix)
		r := rcpulse.Mix(rud, p.VTailRudderMix)
		p.servos[ELE1] = r + e
		p.servos[RUD1] = r - e
	case TailAilevator:
		a := rcpulse.Mix(ail, p.AilevatorMix)
		p.servos[ELE1] = ele + a
		p.servos[ELE2] = ele - a
		p.servos[RUD1] = rud
	default:
		p.servos[ELE1] = ele
		p.servos[RUD1] = rud
	}
}

func (p *PlaneModel) applyRudder(rud int16) {
	switch p.Rudder {
	case RudderNone:
	case RudderWinglet:
		p.servos[RUD1] = rud
		p.servos[RUD2] = rud
	default:
		p.servos[RUD1] = rud
	}
}

// applyFlaps drives the camber flaps from flp, mirrored for a pair, and the
// outer brake flaps from brk when four flap servos are fitted.
func (p *PlaneModel) applyFlaps(flp, brk int16) {
	switch {
	case p.Flaps >= 4:
		p.servos[FLP3] = brk
		p.servos[FLP4] = -brk
		fallthrough
	case p.Flaps >= 2:
		p.servos[FLP2] = -flp
		fallthrough
	case p.Flaps >= 1:
		p.servos[FLP1] = flp
	}
}

func (p *PlaneModel) applyBrakes(brk int16) {
	switch {
	case p.Brakes >= 2:
		p.servos[BRK2] = -brk
		fallthrough
	case p.Brakes >= 1:
		p.servos[BRK1] = brk
	}
}

// Servo returns the position of servo s after the last Apply.
func (p *PlaneModel) Servo(s Servo) int16 {
	if int(s) >= ServoCount {
		return 0
	}
	return p.servos[s]
}

// Servos returns all servo positions after the last Apply.
func (p *PlaneModel) Servos() [ServoCount]int16 {
	return p.servos
}
