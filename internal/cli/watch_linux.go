package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/womat/debug"

	"github.com/sparques/rcpulse/host"
)

var (
	chipName string
	lineNum  int
	pullUp   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Decode the signal on a GPIO line",
	Long: `Decode a PPM or servo signal on a GPIO line of the machine and print one
line per decoded frame until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := host.NewLineWatcher()
		h, err := newDecoder(cmd.OutOrStdout(), w.Clock())
		if err != nil {
			return err
		}
		if err := w.Watch(chipName, lineNum, h, pullUp); err != nil {
			return err
		}
		<-ctx.Done()
		err = w.Close()
		debug.InfoLog.Printf("%d frames\n", h.Frames())
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addDecoderFlags(watchCmd)

	watchCmd.Flags().StringVar(&chipName, "chip", "gpiochip0", "GPIO chip")
	watchCmd.Flags().IntVarP(&lineNum, "line", "l", 0, "line offset on the chip")
	watchCmd.Flags().BoolVar(&pullUp, "pull-up", false, "enable the pull-up of the line")
}
