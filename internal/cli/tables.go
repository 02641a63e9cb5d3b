package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sparques/rcpulse/transform"
)

var (
	curvePoints []int
	expo        int8
	step        int
)

var curveCmd = &cobra.Command{
	Use:   "curve [value...]",
	Short: "Print a 9 point curve",
	Long: `Print the output of a 9 point curve for the given normalized values, or for
the whole input range without values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(curvePoints) != transform.CurvePoints {
			return fmt.Errorf("need %d curve points, got %d", transform.CurvePoints, len(curvePoints))
		}
		c := transform.NewCurve()
		for i, p := range curvePoints {
			c.SetPoint(i, int16(p))
		}
		inputs, err := tableInputs(args)
		if err != nil {
			return err
		}
		return printTable(cmd.OutOrStdout(), inputs, c.Apply)
	},
}

var expoCmd = &cobra.Command{
	Use:   "expo [value...]",
	Short: "Print an expo curve",
	Long: `Print the output of an expo curve for the given normalized values, or for
the whole input range without values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := tableInputs(args)
		if err != nil {
			return err
		}
		var e transform.Expo
		return printTable(cmd.OutOrStdout(), inputs, func(v int16) int16 {
			return e.Apply(v, expo)
		})
	},
}

func init() {
	rootCmd.AddCommand(curveCmd)
	rootCmd.AddCommand(expoCmd)

	curveCmd.Flags().IntSliceVar(&curvePoints, "points", []int{-256, -192, -128, -64, 0, 64, 128, 192, 256}, "the 9 curve points, from -256 to 256")
	expoCmd.Flags().Int8VarP(&expo, "expo", "e", 0, "expo percentage, -100 to 100")
	for _, c := range []*cobra.Command{curveCmd, expoCmd} {
		c.Flags().IntVar(&step, "step", 32, "input step when no values are given")
	}
}

func tableInputs(args []string) ([]int16, error) {
	if len(args) > 0 {
		return parseValues(args)
	}
	if step <= 0 {
		return nil, fmt.Errorf("step %d must be positive", step)
	}
	var inputs []int16
	for v := -256; v <= 256; v += step {
		inputs = append(inputs, int16(v))
	}
	return inputs, nil
}

func printTable(w io.Writer, inputs []int16, f func(int16) int16) error {
	for _, v := range inputs {
		if _, err := fmt.Fprintf(w, "%6d %6d\n", v, f(v)); err != nil {
			return err
		}
	}
	return nil
}
