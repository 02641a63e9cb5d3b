package cli

import (
	"github.com/spf13/cobra"
	"github.com/womat/debug"

	"github.com/sparques/rcpulse"
	"github.com/sparques/rcpulse/host"
)

var (
	portName string
	baudRate int
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Decode an edge capture streamed over a serial port",
	Long: `Decode the edge capture a logic sampler streams over a serial port and print
one line per decoded frame until the port is closed.

Without --port the most recently connected serial port is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var clock rcpulse.StampClock
		h, err := newDecoder(cmd.OutOrStdout(), &clock)
		if err != nil {
			return err
		}

		p, err := host.OpenCapture(portName, baudRate)
		if err != nil {
			return err
		}
		defer p.Close()

		n, err := host.Replay(p, &clock, h)
		debug.InfoLog.Printf("%d edges, %d frames\n", n, h.Frames())
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
	addDecoderFlags(captureCmd)

	captureCmd.Flags().StringVarP(&portName, "port", "p", "", "serial port of the logic sampler")
	captureCmd.Flags().IntVarP(&baudRate, "baud", "b", 115200, "baud rate")
}
