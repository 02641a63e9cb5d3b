// Package mixer combines normalized channel values: rates, gyro gain,
// helicopter swashplates, plane wing/tail layouts, trainer ports and
// switches derived from analog inputs.
package mixer

import "github.com/sparques/rcpulse"

// DualRates scales a channel's full travel.
type DualRates struct{}

// Apply scales v in [-256, 256] by rate percent in [0, 140]. The result is
// in the 140% range.
func (DualRates) Apply(v int16, rate uint8) int16 {
	return rcpulse.Scale(rcpulse.ClampNormalized(v), uint16(min(rate, 140)), 100)
}

// GyroType is the kind of gyro connected.
type GyroType uint8

const (
	// GyroNormal is a rate mode gyro.
	GyroNormal GyroType = iota
	// GyroAVCS is a heading hold gyro, also capable of rate mode.
	GyroAVCS
)

// GyroMode is the mode an AVCS gyro operates in.
type GyroMode uint8

const (
	GyroModeNormal GyroMode = iota
	GyroModeAVCS
)

// Gyro turns a gain percentage into the channel value the gyro expects on
// its gain input.
type Gyro struct {
	Type GyroType
	Mode GyroMode
}

// Apply converts gain in [0, 100] to a normalized value.
//
// A normal gyro maps 0..100% linearly onto the full channel. An AVCS gyro
// uses the sign of the channel to select the mode, so the gain maps onto one
// half only.
func (g Gyro) Apply(gain uint8) int16 {
	val := int16(min(gain, 100))
	if g.Type == GyroAVCS {
		if g.Mode == GyroModeNormal {
			val = -val
		}
		return val * 256 / 100
	}
	return (val - 50) * 512 / 100
}
