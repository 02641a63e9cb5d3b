// Package transform holds the per-channel signal transforms: channel
// settings (subtrim, end points, reverse), curves and expo.
package transform

import (
	"fmt"

	"github.com/sparques/rcpulse"
)

// Channel holds the output settings of one servo channel.
type Channel struct {
	reversed bool
	epMin    uint8
	epMax    uint8
	subtrim  int8
}

// NewChannel returns a Channel with 100% end points, no subtrim, not reversed.
func NewChannel() *Channel {
	return &Channel{
		epMin: 100,
		epMax: 100,
	}
}

// SetReverse sets channel reverse.
func (c *Channel) SetReverse(reversed bool) {
	c.reversed = reversed
}

// Reversed reports whether the channel is reversed.
func (c *Channel) Reversed() bool {
	return c.reversed
}

// SetSubtrim sets the subtrim, range [-100, 100].
func (c *Channel) SetSubtrim(subtrim int8) error {
	if subtrim < -100 || subtrim > 100 {
		return fmt.Errorf("subtrim %d: %w", subtrim, rcpulse.ErrOutOfRange)
	}
	c.subtrim = subtrim
	return nil
}

// Subtrim returns the subtrim.
func (c *Channel) Subtrim() int8 {
	return c.subtrim
}

// SetEndPointMin sets the end point on the negative side, range [0, 140].
func (c *Channel) SetEndPointMin(ep uint8) error {
	if ep > 140 {
		return fmt.Errorf("end point %d: %w", ep, rcpulse.ErrOutOfRange)
	}
	c.epMin = ep
	return nil
}

// EndPointMin returns the end point on the negative side.
func (c *Channel) EndPointMin() uint8 {
	return c.epMin
}

// SetEndPointMax sets the end point on the positive side, range [0, 140].
func (c *Channel) SetEndPointMax(ep uint8) error {
	if ep > 140 {
		return fmt.Errorf("end point %d: %w", ep, rcpulse.ErrOutOfRange)
	}
	c.epMax = ep
	return nil
}

// EndPointMax returns the end point on the positive side.
func (c *Channel) EndPointMax() uint8 {
	return c.epMax
}

// Apply maps a mixer output in [-358, 358] to a servo position in [-256, 256].
//
// Subtrim moves the center before the end points are applied, so the end
// point percentage scales around the trimmed center. Reverse comes last and
// does not interact with the other settings.
func (c *Channel) Apply(v int16) int16 {
	v = rcpulse.Clamp140(v)
	v += int16(c.subtrim)

	ep := c.epMin
	if v > 0 {
		ep = c.epMax
	}
	v = rcpulse.ClampNormalized(rcpulse.Scale(v, uint16(ep), 140))

	if c.reversed {
		return -v
	}
	return v
}
