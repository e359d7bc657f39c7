package debug

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	etypes "github.com/go-echarts/go-echarts/v2/types"

	"thevenin/config"
)

// Charts 化简过程网页
type Charts struct {
	Record
	Theme  string // 主题
	Width  string // 图表宽度
	Height string // 图表高度
}

// NewCharts 按配置创建
func NewCharts(cfg config.Chart) *Charts {
	return &Charts{Theme: cfg.Theme, Width: cfg.Width, Height: cfg.Height}
}

func (c *Charts) initOpts() opts.Initialization {
	opt := opts.Initialization{
		Theme:  c.Theme,
		Width:  c.Width,
		Height: c.Height,
	}
	if opt.Theme == "" {
		opt.Theme = etypes.ThemeWesteros
	}
	return opt
}

func nodeName(id int) string { return fmt.Sprintf("Node(%d)", id) }

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	// 初始化界面
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(c.initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:    "电路节点信息",
			Subtitle: "元件与节点连接网络图",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
	)
	graph.SetSeriesOptions(
		charts.WithEmphasisOpts(opts.Emphasis{
			Label: &opts.Label{
				Show:     opts.Bool(true),
				Color:    "black",
				Position: "left",
			},
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Curveness: 0.3,
		}),
	)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(c.initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:    "化简过程",
			Subtitle: "每次合并后的元件数量与等效电阻",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	// 处理数据
	{
		// 元件与节点
		graphNodes := make([]opts.GraphNode, 0, len(c.Elements)+len(c.Nodes))
		graphLink := make([]opts.GraphLink, 0, 2*len(c.Elements))
		for _, e := range c.Elements {
			graphNodes = append(graphNodes, opts.GraphNode{
				Name:     e.Label(),
				Category: 0,
				Value:    float32(e.Value),
				Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
			})
			for _, n := range [2]int{e.Node1, e.Node2} {
				graphLink = append(graphLink, opts.GraphLink{
					Source: e.Label(),
					Target: nodeName(n),
					Value:  float32(e.Value),
				})
			}
		}
		for _, n := range c.Nodes {
			graphNodes = append(graphNodes, opts.GraphNode{
				Name:     nodeName(n),
				Category: 1,
				Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
			})
		}
		graph.AddSeries("电路列表", graphNodes, graphLink,
			charts.WithGraphChartOpts(opts.GraphChart{
				Categories: []*opts.GraphCategory{
					{Name: "元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
					{Name: "节点", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
				},
				Roam:               opts.Bool(true),
				Force:              &opts.GraphForce{Repulsion: 80},
				EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
				FocusNodeAdjacency: opts.Bool(true),
			}))
		// 合并记录
		steps := make([]string, len(c.Steps))
		count := make([]opts.LineData, len(c.Steps))
		value := make([]opts.LineData, len(c.Steps))
		for i, s := range c.Steps {
			steps[i] = strconv.Itoa(i + 1)
			count[i] = opts.LineData{Value: s.Remaining, Name: s.Kind.String()}
			value[i] = opts.LineData{Value: s.Equivalent.Value, Name: s.Equivalent.Label()}
		}
		line.SetXAxis(steps).
			AddSeries("元件数量", count).
			AddSeries("等效电阻", value)
	}
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		graph,
		line,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
