package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	calcGround int
	calcJSON   bool
)

var calcCmd = &cobra.Command{
	Use:   "calc <netlist>",
	Short: "Print total voltage, resistance and current of a netlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalc,
}

func init() {
	calcCmd.Flags().IntVarP(&calcGround, "ground", "g", 0, "ground node id (default: .ground directive)")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	cir, err := loadCircuit(args[0], cfg)
	if err != nil {
		return err
	}
	ground, err := groundOf(cmd, cir, calcGround)
	if err != nil {
		return err
	}
	report, err := cir.Calculate(ground)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if calcJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printComponents(out, cir)
	printReport(out, report)
	return nil
}
