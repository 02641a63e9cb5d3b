package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/womat/debug"

	"github.com/sparques/rcpulse"
	"github.com/sparques/rcpulse/host"
	"github.com/sparques/rcpulse/ppm"
	"github.com/sparques/rcpulse/servo"
)

var (
	outLines   []int
	sendFrames int
)

var generateCmd = &cobra.Command{
	Use:   "generate value...",
	Short: "Generate a signal on GPIO lines",
	Long: `Generate a PPM signal on one GPIO line, or with --servo one servo signal per
value on as many lines, until interrupted.

With --frames the given number of PPM frames is sent and the command exits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValues(args)
		if err != nil {
			return err
		}

		pins := make([]rcpulse.Pin, 0, len(outLines))
		for _, l := range outLines {
			o, err := host.NewLineOut(chipName, l)
			if err != nil {
				return err
			}
			defer o.Close()
			pins = append(pins, o)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return generate(ctx, rcpulse.NewSleepTimer(), pins, values)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&chipName, "chip", "gpiochip0", "GPIO chip")
	generateCmd.Flags().IntSliceVarP(&outLines, "line", "l", nil, "line offsets to drive, one per servo")
	generateCmd.Flags().Uint16Var(&pulseLength, "pulse", ppm.DefaultPulseLength, "PPM pulse length in microseconds")
	generateCmd.Flags().Uint16Var(&pauseLength, "pause", ppm.DefaultPauseLength, "PPM pause between frames in microseconds")
	generateCmd.Flags().BoolVar(&invert, "invert", false, "idle high with low PPM pulses")
	generateCmd.Flags().BoolVar(&servoSignal, "servo", false, "generate servo signals instead of PPM")
	generateCmd.Flags().IntVarP(&sendFrames, "frames", "n", 0, "send this many PPM frames and exit")
}

var errPinCount = errors.New("wrong number of output lines")

// generate drives pins from the encoders on t until ctx is done.
func generate(ctx context.Context, t rcpulse.CompareTimer, pins []rcpulse.Pin, values []int16) error {
	if servoSignal {
		if len(pins) != len(values) {
			return fmt.Errorf("%d lines for %d servos: %w", len(pins), len(values), errPinCount)
		}
		out := servo.NewOut(t, pins, values, make([]rcpulse.Ticks, servo.OutWorkSize(len(pins))))
		if err := calibrate(out.Calibration()); err != nil {
			return err
		}
		out.SetMicroseconds(micros)
		if err := out.Start(); err != nil {
			return err
		}
		debug.InfoLog.Printf("sending %d servo signals\n", len(pins))
		<-ctx.Done()
		out.Stop()
		return nil
	}

	if len(pins) != 1 {
		return fmt.Errorf("%d lines for a PPM signal: %w", len(pins), errPinCount)
	}
	n := len(values)
	out := ppm.NewOut(t, pins[0], values, make([]rcpulse.Ticks, ppm.OutWorkSize(n)), n, n)
	if err := calibrate(out.Calibration()); err != nil {
		return err
	}
	out.SetMicroseconds(micros)
	out.SetPulseLength(pulseLength)
	out.SetPauseLength(pauseLength)

	if sendFrames > 0 {
		out.Update()
		for i := 0; i < sendFrames && ctx.Err() == nil; i++ {
			rcpulse.SendFrame(pins[0], out)
		}
		return nil
	}

	if err := out.Start(invert); err != nil {
		return err
	}
	debug.InfoLog.Printf("sending %d PPM channels\n", n)
	<-ctx.Done()
	out.Stop()
	return nil
}
