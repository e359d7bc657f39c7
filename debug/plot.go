package debug

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"thevenin/config"
	"thevenin/types"
)

// ErrNoNodes 没有可绘制的节点
var ErrNoNodes = errors.New("no node voltages to plot")

// Plot 绘制节点电压柱状图, format 为 png, svg, pdf 等
func Plot(w io.Writer, nodes []types.Node, cfg config.Plot, format string) error {
	if len(nodes) == 0 {
		return ErrNoNodes
	}
	vals := make(plotter.Values, len(nodes))
	names := make([]string, len(nodes))
	for i, n := range nodes {
		vals[i] = n.Voltage
		names[i] = nodeName(n.ID)
	}

	p := plot.New()
	p.Title.Text = "Node voltages"
	p.X.Label.Text = "Node"
	p.Y.Label.Text = "Voltage (V)"
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(cfg.WidthCM) * vg.Centimeter
	height := vg.Length(cfg.HeightCM) * vg.Centimeter
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("plot format %q: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}
