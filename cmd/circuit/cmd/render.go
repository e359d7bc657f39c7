package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thevenin/debug"
	"thevenin/reduce"
)

var (
	renderGround int
	renderOutput string
	renderJSON   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <netlist>",
	Short: "Write the reduction trace as an HTML page",
	Long: `Write the circuit graph and every parallel/series merge as an
interactive chart page. The page is written even when the reduction fails,
so the last reducible state can be inspected.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVarP(&renderGround, "ground", "g", 0, "ground node id (default: .ground directive)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "circuit.html", "output file")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "write the trace as JSON instead of HTML")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cir, err := loadCircuit(args[0], cfg)
	if err != nil {
		return err
	}
	ground, err := groundOf(cmd, cir, renderGround)
	if err != nil {
		return err
	}
	charts := debug.NewCharts(cfg.Chart)
	_, calcErr := cir.Calculate(ground, reduce.WithRecorder(charts))

	f, err := os.Create(renderOutput)
	if err != nil {
		return err
	}
	if renderJSON {
		err = charts.Record.Render(f)
	} else {
		err = charts.Render(f)
	}
	if err = errors.Join(err, f.Close()); err != nil {
		return fmt.Errorf("render %s: %w", renderOutput, err)
	}
	logger.Info("trace written",
		zap.String("file", renderOutput),
		zap.Int("steps", len(charts.Steps)))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d merge steps to %s.\n", len(charts.Steps), renderOutput)
	return calcErr
}
