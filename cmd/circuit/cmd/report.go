package cmd

import (
	"fmt"
	"io"
	"strconv"

	"thevenin"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// printComponents 元件清单
func printComponents(w io.Writer, cir *thevenin.Circuit) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Components in circuit are:")
	fmt.Fprint(w, cir.String())
	fmt.Fprintln(w)
}

// printReport 电路特性
func printReport(w io.Writer, r *thevenin.Report) {
	fmt.Fprintf(w, "Ground voltage is located at Node %d.\n", r.Ground)
	fmt.Fprintf(w, "Total voltage in circuit is: %s Volts.\n", formatFloat(r.TotalV))
	fmt.Fprintf(w, "Total resistance in circuit is: %s Ohms.\n", formatFloat(r.TotalR))
	fmt.Fprintf(w, "Total current is: %s Amps.\n", formatFloat(r.TotalCurrent))
	if len(r.Nodes) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, n := range r.Nodes {
		fmt.Fprintf(w, "Node %d: %s Volts, %s Amps leaving.\n",
			n.ID, formatFloat(n.Voltage), formatFloat(n.CurrentLeaving))
	}
}
