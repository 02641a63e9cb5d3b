//go:build tinygo

package rcpulse

import (
	"machine"
)

// RxDevice feeds the edges of one input pin to a decoder such as ppm.In or
// servo.In.
type RxDevice struct {
	pin     machine.Pin
	handler EdgeHandler
}

// NewRxDevice configures pin as an input. Most receivers drive the line
// actively; use NewRxDevicePullup for open collector outputs.
func NewRxDevice(pin machine.Pin, handler EdgeHandler) *RxDevice {
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return &RxDevice{
		pin:     pin,
		handler: handler,
	}
}

// NewRxDevicePullup is NewRxDevice with the internal pull up enabled.
func NewRxDevicePullup(pin machine.Pin, handler EdgeHandler) *RxDevice {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &RxDevice{
		pin:     pin,
		handler: handler,
	}
}

func (rx *RxDevice) interruptHandler(interruptPin machine.Pin) {
	rx.handler.PinChanged(interruptPin.Get())
}

// Start sets the interrupt handler and thus starts processing signals.
// Both edges are delivered, the decoder picks the ones it needs.
func (rx *RxDevice) Start() {
	rx.pin.SetInterrupt(machine.PinFalling|machine.PinRising, rx.interruptHandler)
}

// Stop disables the interrupt handler.
func (rx *RxDevice) Stop() {
	rx.pin.SetInterrupt(machine.PinFalling|machine.PinRising, nil)
}

// MultiRxDevice feeds the edges of several pins to a servo.MultiIn.
type MultiRxDevice struct {
	pins    []machine.Pin
	handler MultiEdgeHandler
}

// NewMultiRxDevice configures all pins as inputs. The index of a pin in pins
// is the index handed to the decoder.
func NewMultiRxDevice(pins []machine.Pin, handler MultiEdgeHandler) *MultiRxDevice {
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInput})
	}
	return &MultiRxDevice{
		pins:    pins,
		handler: handler,
	}
}

func (rx *MultiRxDevice) interruptHandler(interruptPin machine.Pin) {
	for i, p := range rx.pins {
		if p == interruptPin {
			rx.handler.PinChanged(i, interruptPin.Get())
			return
		}
	}
}

// Start sets the interrupt handler on every pin.
func (rx *MultiRxDevice) Start() {
	for _, p := range rx.pins {
		p.SetInterrupt(machine.PinFalling|machine.PinRising, rx.interruptHandler)
	}
}

// Stop disables the interrupt handlers.
func (rx *MultiRxDevice) Stop() {
	for _, p := range rx.pins {
		p.SetInterrupt(machine.PinFalling|machine.PinRising, nil)
	}
}

// OutputPin adapts a machine.Pin to the rcpulse Pin interface used by the
// encoders.
type OutputPin struct {
	pin machine.Pin
}

// NewOutputPin configures pin as an output driven low.
func NewOutputPin(pin machine.Pin) OutputPin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return OutputPin{pin: pin}
}

// Set drives the pin.
func (o OutputPin) Set(high bool) {
	o.pin.Set(high)
}
