package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"thevenin/nodal"
	"thevenin/reduce"
	"thevenin/types"
)

// Namespace 指标前缀
const Namespace = "circuit"

// Collector 分析指标
type Collector struct {
	registry *prometheus.Registry

	Analyses *prometheus.CounterVec // 按结果统计的分析次数
	Passes   prometheus.Histogram   // 成功分析的化简轮次
}

// NewCollector 创建指标并注册到独立的 registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "analyses_total",
				Help:      "Total number of circuit analyses by result",
			},
			[]string{"result"},
		),
		Passes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "reduction_passes",
				Help:      "Reduction passes needed by successful analyses",
				Buckets:   prometheus.LinearBuckets(1, 2, 10),
			},
		),
	}
	registry.MustRegister(c.Analyses, c.Passes)
	return c
}

// Registry 指标注册表
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Observe 记录一次分析结果
func (c *Collector) Observe(res *reduce.Result, err error) {
	c.Analyses.WithLabelValues(Label(err)).Inc()
	if err == nil && res != nil {
		c.Passes.Observe(float64(res.Passes))
	}
}

// Label 错误对应的结果标签
func Label(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrUnsupportedTopology):
		return "unsupported_topology"
	case errors.Is(err, types.ErrNoResistance):
		return "no_resistance"
	case errors.Is(err, types.ErrEmptyCircuit):
		return "empty"
	case errors.Is(err, types.ErrSourcePlacement):
		return "source_placement"
	case errors.Is(err, types.ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, nodal.ErrSingular):
		return "singular"
	default:
		return "error"
	}
}
