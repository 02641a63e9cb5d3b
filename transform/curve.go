package transform

import "github.com/sparques/rcpulse"

// CurvePoints is the number of points in a Curve.
const CurvePoints = 9

// Curve is a throttle/pitch style curve of 9 points spread evenly over the
// input range, with linear interpolation in between.
type Curve struct {
	points [CurvePoints]int16
}

// NewCurve returns a linear curve.
func NewCurve() *Curve {
	return &Curve{points: [CurvePoints]int16{-256, -192, -128, -64, 0, 64, 128, 192, 256}}
}

// SetPoint sets point i to v, range [-256, 256]. Out of range indices are ignored.
func (c *Curve) SetPoint(i int, v int16) {
	if i < 0 || i >= CurvePoints {
		return
	}
	c.points[i] = rcpulse.ClampNormalized(v)
}

// Point returns point i, or 0 if i is out of range.
func (c *Curve) Point(i int) int16 {
	if i < 0 || i >= CurvePoints {
		return 0
	}
	return c.points[i]
}

// Points returns a copy of all points.
func (c *Curve) Points() [CurvePoints]int16 {
	return c.points
}

// Apply maps v in [-256, 256] through the curve.
func (c *Curve) Apply(v int16) int16 {
	v = rcpulse.ClampNormalized(v) + rcpulse.Normal // [0, 512]
	index := v >> 6
	rem := v & 0x3F

	low := c.points[min(index, CurvePoints-1)]
	high := c.points[min(index+1, CurvePoints-1)]

	return (low*(64-rem) + high*rem) >> 6
}
