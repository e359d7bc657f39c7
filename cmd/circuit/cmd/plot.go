package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thevenin/debug"
)

var (
	plotGround int
	plotOutput string
)

var plotCmd = &cobra.Command{
	Use:   "plot <netlist>",
	Short: "Plot node voltages as a bar chart",
	Long: `Solve the node voltages of a netlist and draw them as a bar chart.
The image format follows the output extension (png, svg, pdf, jpg).`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().IntVarP(&plotGround, "ground", "g", 0, "ground node id (default: .ground directive)")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "voltages.png", "output image")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	c := *cfg
	c.Analysis.Nodal = true
	cir, err := loadCircuit(args[0], &c)
	if err != nil {
		return err
	}
	ground, err := groundOf(cmd, cir, plotGround)
	if err != nil {
		return err
	}
	report, err := cir.Calculate(ground)
	if err != nil {
		return err
	}

	format := strings.TrimPrefix(filepath.Ext(plotOutput), ".")
	f, err := os.Create(plotOutput)
	if err != nil {
		return err
	}
	err = debug.Plot(f, report.Nodes, c.Plot, format)
	if err = errors.Join(err, f.Close()); err != nil {
		return fmt.Errorf("plot %s: %w", plotOutput, err)
	}
	logger.Info("plot written", zap.String("file", plotOutput), zap.String("format", format))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote node voltages to %s.\n", plotOutput)
	return nil
}
