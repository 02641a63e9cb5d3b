package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sparques/rcpulse"
	"github.com/sparques/rcpulse/ppm"
	"github.com/sparques/rcpulse/servo"
)

var loopbackCmd = &cobra.Command{
	Use:   "loopback value...",
	Short: "Encode the given values and decode them again",
	Long: `Generate a PPM signal, or one servo signal per value with --servo, on a
virtual timer, feed it to the matching decoder and print what was sent next
to what was received.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValues(args)
		if err != nil {
			return err
		}
		var got []int16
		if servoSignal {
			got, err = loopbackServo(values)
		} else {
			got, err = loopbackPPM(values)
		}
		if err != nil {
			return err
		}
		return printLoopback(cmd.OutOrStdout(), values, got)
	},
}

func init() {
	rootCmd.AddCommand(loopbackCmd)
	loopbackCmd.Flags().BoolVar(&servoSignal, "servo", false, "use servo signals instead of PPM")
}

// frameTicks is long enough for any PPM or servo frame the encoders generate.
const frameTicks = 65536

var errNoSignal = errors.New("decoder did not lock on the signal")

func loopbackPPM(values []int16) ([]int16, error) {
	n := len(values)
	var vt rcpulse.VirtualTimer
	results := make([]int16, n)
	in := ppm.NewIn(&vt, results, make([]rcpulse.Ticks, ppm.InWorkSize(n)), n)
	wire := &rcpulse.Wire{Sink: in}
	out := ppm.NewOut(&vt, wire, values, make([]rcpulse.Ticks, ppm.OutWorkSize(n)), n, n)
	for _, c := range []*rcpulse.Calibration{in.Calibration(), out.Calibration()} {
		if err := calibrate(c); err != nil {
			return nil, err
		}
	}
	in.SetMicroseconds(micros)
	out.SetMicroseconds(micros)

	if err := out.Start(false); err != nil {
		return nil, err
	}
	defer out.Stop()
	vt.Advance(4 * frameTicks)
	if !in.Update() {
		return nil, fmt.Errorf("%w: %v", errNoSignal, in.State())
	}
	return results, nil
}

func loopbackServo(values []int16) ([]int16, error) {
	n := len(values)
	var vt rcpulse.VirtualTimer
	results := make([]int16, n)
	in := servo.NewMultiIn(&vt, results, make([]rcpulse.Ticks, servo.MultiInWorkSize(n)), n)
	pins := make([]rcpulse.Pin, n)
	for i := range pins {
		pins[i] = &rcpulse.MultiWire{Sink: in, Index: i}
	}
	out := servo.NewOut(&vt, pins, values, make([]rcpulse.Ticks, servo.OutWorkSize(n)))
	for _, c := range []*rcpulse.Calibration{in.Calibration(), out.Calibration()} {
		if err := calibrate(c); err != nil {
			return nil, err
		}
	}
	in.SetMicroseconds(micros)
	out.SetMicroseconds(micros)

	if err := out.Start(); err != nil {
		return nil, err
	}
	defer out.Stop()
	vt.Advance(2 * frameTicks)
	if !in.Update() {
		return nil, errNoSignal
	}
	return results, nil
}

func printLoopback(w io.Writer, sent, received []int16) error {
	if _, err := fmt.Fprintf(w, "%-4s %6s %6s\n", "ch", "sent", "got"); err != nil {
		return err
	}
	for i := range sent {
		if _, err := fmt.Fprintf(w, "%-4d %6d %6d\n", i+1, sent[i], received[i]); err != nil {
			return err
		}
	}
	return nil
}
