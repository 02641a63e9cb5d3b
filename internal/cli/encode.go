package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sparques/rcpulse"
	"github.com/sparques/rcpulse/ppm"
)

var (
	pulseLength uint16
	pauseLength uint16
	frames      int
	invert      bool
	timings     bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode value...",
	Short: "Generate a PPM signal carrying the given channel values",
	Long: `Generate a PPM signal carrying one channel per value and print it as an
edge capture, ready to be fed back to 'rctool decode'.

With --timings the frame is printed as pulse and gap durations instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValues(args)
		if err != nil {
			return err
		}
		return encode(cmd.OutOrStdout(), values)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().Uint16Var(&pulseLength, "pulse", ppm.DefaultPulseLength, "pulse length in microseconds")
	encodeCmd.Flags().Uint16Var(&pauseLength, "pause", ppm.DefaultPauseLength, "pause between frames in microseconds")
	encodeCmd.Flags().IntVarP(&frames, "frames", "n", 1, "number of frames to generate")
	encodeCmd.Flags().BoolVar(&invert, "invert", false, "idle high with low pulses")
	encodeCmd.Flags().BoolVar(&timings, "timings", false, "print pulse and gap durations instead of edges")
}

func parseValues(args []string) ([]int16, error) {
	values := make([]int16, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i+1, err)
		}
		values[i] = int16(v)
	}
	return values, nil
}

// captureWriter is a Pin writing every level change as a capture line,
// timed by the virtual timer driving the encoder.
type captureWriter struct {
	w     io.Writer
	timer rcpulse.Timer
	last  rcpulse.Ticks
	total uint64
	level bool
	err   error
}

func (c *captureWriter) Set(high bool) {
	now := c.timer.Ticks()
	c.total += uint64(now - c.last)
	c.last = now
	if high == c.level || c.err != nil {
		return
	}
	c.level = high
	level := 0
	if high {
		level = 1
	}
	_, c.err = fmt.Fprintf(c.w, "%d %d\n", level, c.total/rcpulse.TicksPerMicrosecond)
}

var errNoFrames = errors.New("frame count must be positive")

func encode(w io.Writer, values []int16) error {
	if frames < 1 {
		return fmt.Errorf("%d frames: %w", frames, errNoFrames)
	}

	var vt rcpulse.VirtualTimer
	cw := &captureWriter{w: w, timer: &vt, level: invert}

	n := len(values)
	out := ppm.NewOut(&vt, cw, values, make([]rcpulse.Ticks, ppm.OutWorkSize(n)), n, n)
	if err := calibrate(out.Calibration()); err != nil {
		return err
	}
	out.SetMicroseconds(micros)
	out.SetPulseLength(pulseLength)
	out.SetPauseLength(pauseLength)

	if timings {
		out.Update()
		for _, p := range out.MarshalFrame() {
			if _, err := fmt.Fprintf(w, "%d %d\n", p[0].Microseconds(), p[1].Microseconds()); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "# %d channels, %d frames\n", n, frames); err != nil {
		return err
	}
	if err := out.Start(invert); err != nil {
		return err
	}
	var length uint32
	for _, t := range out.Timings() {
		length += uint32(t)
	}
	// stop right before the pulse starting the next frame
	vt.Advance(uint32(frames)*length - 1)
	out.Stop()
	return cw.err
}
