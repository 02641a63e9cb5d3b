// Package cli implements the rctool command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/womat/debug"

	"github.com/sparques/rcpulse"
)

var (
	verbose bool
	jr      bool
	center  uint16
	travel  uint16
	micros  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rctool",
	Short: "Encode, decode and inspect RC servo and PPM signals",
	Long: `rctool works with the pulse signals RC receivers and transmitters use.

It can generate a PPM frame as an edge capture, decode captures recorded by a
logic sampler or streamed over a serial port, watch GPIO lines, loop the
encoders back into the decoders, and print curve and expo tables.

Edge captures are text, one edge per line: the new level (0 or 1) followed
by the time of the edge in microseconds.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			debug.InfoLog.SetOutput(os.Stderr)
			debug.DebugLog.SetOutput(os.Stderr)
			debug.TraceLog.SetOutput(os.Stderr)
		}
		debug.ErrorLog.SetOutput(os.Stderr)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log what is going on to stderr")
	rootCmd.PersistentFlags().BoolVar(&jr, "jr", false, "use the JR calibration (1500us center) instead of Futaba (1520us)")
	rootCmd.PersistentFlags().Uint16Var(&center, "center", 0, "servo center in microseconds, overrides the calibration preset")
	rootCmd.PersistentFlags().Uint16Var(&travel, "travel", 0, "servo travel from center to full deflection in microseconds")
	rootCmd.PersistentFlags().BoolVar(&micros, "us", false, "values are microseconds instead of normalized (-256..256)")
}

// calibrate loads the calibration selected on the command line into c.
func calibrate(c *rcpulse.Calibration) error {
	if jr {
		c.LoadJR()
	} else {
		c.LoadFutaba()
	}
	// a narrower travel has to be in place before a center below the preset's
	if travel != 0 && travel < c.Travel() {
		if err := c.SetTravel(travel); err != nil {
			return err
		}
	}
	if center != 0 {
		if err := c.SetCenter(center); err != nil {
			return err
		}
	}
	if travel != 0 {
		return c.SetTravel(travel)
	}
	return nil
}
