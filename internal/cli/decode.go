package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/womat/debug"

	"github.com/sparques/rcpulse"
	"github.com/sparques/rcpulse/host"
	"github.com/sparques/rcpulse/ppm"
	"github.com/sparques/rcpulse/servo"
)

var (
	maxChannels  int
	syncLength   uint16
	highPulses   bool
	servoSignal  bool
	servoTimeout uint16
)

var decodeCmd = &cobra.Command{
	Use:   "decode [capture]",
	Short: "Decode an edge capture",
	Long: `Decode a PPM or servo signal from an edge capture and print one line per
decoded frame. The capture is read from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		var clock rcpulse.StampClock
		h, err := newDecoder(cmd.OutOrStdout(), &clock)
		if err != nil {
			return err
		}
		n, err := host.Replay(r, &clock, h)
		debug.InfoLog.Printf("%d edges, %d frames\n", n, h.Frames())
		return err
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	addDecoderFlags(decodeCmd)
}

func addDecoderFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&maxChannels, "channels", "c", 16, "maximum number of PPM channels")
	cmd.Flags().Uint16Var(&syncLength, "pause", ppm.DefaultSyncLength, "shortest pause between PPM frames in microseconds")
	cmd.Flags().BoolVar(&highPulses, "high", false, "time PPM channels from rising edges")
	cmd.Flags().BoolVar(&servoSignal, "servo", false, "decode a single servo signal instead of PPM")
	cmd.Flags().Uint16Var(&servoTimeout, "timeout", 25000, "longest servo frame in microseconds")
}

// frameDecoder is an EdgeHandler printing every frame its decoder completes.
type frameDecoder interface {
	rcpulse.EdgeHandler
	Frames() int
}

func newDecoder(w io.Writer, t rcpulse.Timer) (frameDecoder, error) {
	if servoSignal {
		in := servo.NewIn(t)
		in.SetTimeout(servoTimeout)
		if err := calibrate(in.Calibration()); err != nil {
			return nil, err
		}
		in.SetMicroseconds(micros)
		return &servoPrinter{w: w, in: in}, nil
	}

	results := make([]int16, maxChannels)
	in := ppm.NewIn(t, results, make([]rcpulse.Ticks, ppm.InWorkSize(maxChannels)), maxChannels)
	if err := calibrate(in.Calibration()); err != nil {
		return nil, err
	}
	in.SetMicroseconds(micros)
	in.SetPauseLength(syncLength)
	in.SetHighPulses(highPulses)
	return &ppmPrinter{w: w, in: in, results: results}, nil
}

type ppmPrinter struct {
	w       io.Writer
	in      *ppm.In
	results []int16
	frames  int
	state   rcpulse.State
}

func (p *ppmPrinter) PinChanged(high bool) {
	p.in.PinChanged(high)
	if s := p.in.State(); s != p.state {
		debug.DebugLog.Printf("decoder %v -> %v\n", p.state, s)
		p.state = s
	}
	if !p.in.Update() {
		return
	}
	p.frames++
	n := min(p.in.Channels(), len(p.results))
	fmt.Fprintln(p.w, formatValues(p.results[:n]))
}

func (p *ppmPrinter) Frames() int {
	return p.frames
}

type servoPrinter struct {
	w      io.Writer
	in     *servo.In
	frames int
}

func (p *servoPrinter) PinChanged(high bool) {
	p.in.PinChanged(high)
	// a pulse is complete on its falling edge
	if high || !p.in.IsStable() {
		return
	}
	p.frames++
	fmt.Fprintln(p.w, p.in.Value())
}

func (p *servoPrinter) Frames() int {
	return p.frames
}

func formatValues(values []int16) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = fmt.Sprint(v)
	}
	return strings.Join(s, " ")
}
