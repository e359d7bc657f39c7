package reduce

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"thevenin/graph"
	"thevenin/types"
)

// Engine 串并联化简, 一个实例只做一次分析
type Engine struct {
	ground   types.NodeID // 接地节点
	graph    *graph.Graph // 工作副本
	log      *zap.Logger
	recorder Recorder
	factor   int  // 轮次上限系数
	strict   bool // 校验电压源位置
	runID    string

	nextID  int // 等效电阻编号
	initial int // 初始元件数量
	pass    int // 当前轮次

	totalV  float64
	totalR  float64
	sources int
}

// Option 化简参数
type Option func(*Engine)

// WithLogger 设置日志
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMaxPassFactor 设置轮次上限系数, 小于1时忽略
func WithMaxPassFactor(factor int) Option {
	return func(e *Engine) {
		if factor >= 1 {
			e.factor = factor
		}
	}
}

// WithStrictSources 是否校验电压源位置
func WithStrictSources(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithRecorder 设置过程记录
func WithRecorder(rec Recorder) Option {
	return func(e *Engine) { e.recorder = rec }
}

// New 创建化简引擎, 按端点排序克隆输入图, 输入图不会被修改
func New(ground types.NodeID, g *graph.Graph, opts ...Option) *Engine {
	e := &Engine{
		ground: ground,
		graph:  g.Sorted(),
		log:    zap.NewNop(),
		factor: types.MaxPassFactor,
		strict: true,
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.initial = e.graph.Len()
	for _, c := range e.graph.Components() {
		if c.Kind == types.KindResistor && c.ID > e.nextID {
			e.nextID = c.ID
		}
	}
	return e
}

// NewFromLists 由元件列表和节点列表创建化简引擎
func NewFromLists(ground types.NodeID, components []types.Component, nodes []types.NodeID, opts ...Option) (*Engine, error) {
	g := graph.New()
	for _, id := range nodes {
		if !g.AddNode(id) {
			return nil, fmt.Errorf("%w %d", types.ErrDuplicateNode, id)
		}
	}
	for _, c := range components {
		if _, err := g.Add(c); err != nil {
			return nil, err
		}
	}
	return New(ground, g, opts...), nil
}

// Analyze 化简电路并计算总电阻, 总电压和总电流
func (e *Engine) Analyze() (*Result, error) {
	log := e.log.With(zap.String("run", e.runID), zap.Int("ground", e.ground))
	if e.graph.Len() == 0 {
		return nil, types.ErrEmptyCircuit
	}
	if e.recorder != nil {
		e.recorder.Init(e.graph.Clone())
	}

	e.voltagePass()
	log.Debug("voltage pass",
		zap.Float64("total_voltage", e.totalV),
		zap.Int("sources", e.sources),
		zap.Int("components", e.initial))

	maxPasses := e.factor * e.initial
	for e.graph.Len() > e.sources+1 {
		e.pass++
		if e.pass > maxPasses {
			return nil, fmt.Errorf("%w: pass %d exceeds limit %d with %d components left",
				types.ErrUnsupportedTopology, e.pass, maxPasses, e.graph.Len())
		}
		merged := e.ReduceParallel()
		if e.ReduceSeries() {
			merged++
		}
		log.Debug("reduction pass",
			zap.Int("pass", e.pass),
			zap.Int("merged", merged),
			zap.Int("components", e.graph.Len()))
		if merged == 0 {
			if e.strict {
				if err := e.checkSeriesSources(); err != nil {
					return nil, err
				}
			}
			return nil, fmt.Errorf("%w: pass %d made no progress with %d components left",
				types.ErrUnsupportedTopology, e.pass, e.graph.Len())
		}
	}

	r, ok := e.resistor()
	if !ok {
		return nil, types.ErrNoResistance
	}
	e.totalR = r.Value
	if e.strict {
		if err := e.checkSources(); err != nil {
			return nil, err
		}
	}

	if log.Core().Enabled(zapcore.DebugLevel) {
		log.Debug("graph verified", zap.Error(e.graph.Verify()))
	}

	res := &Result{
		RunID:          e.runID,
		Ground:         e.ground,
		TotalV:         e.totalV,
		TotalR:         e.totalR,
		TotalCurrent:   e.Current(),
		VoltageSources: e.sources,
		Passes:         e.pass,
		Remaining:      e.graph.Components(),
	}
	log.Info("circuit reduced",
		zap.Float64("total_voltage", res.TotalV),
		zap.Float64("total_resistance", res.TotalR),
		zap.Float64("total_current", res.TotalCurrent),
		zap.Int("passes", res.Passes))
	return res, nil
}

// voltagePass 统计电压源
func (e *Engine) voltagePass() {
	e.totalV, e.sources = 0, 0
	for _, c := range e.graph.Components() {
		switch c.Kind {
		case types.KindVoltage:
			e.totalV += c.Value
			e.sources++
		case types.KindResistor:
		}
	}
}

// resistor 剩余电阻
func (e *Engine) resistor() (types.Component, bool) {
	for _, c := range e.graph.Components() {
		if c.Kind == types.KindResistor {
			return c, true
		}
	}
	return types.Component{}, false
}

// checkSources 化简结束后剩余元件必须构成单一串联回路
func (e *Engine) checkSources() error {
	if e.sources == 0 {
		return nil
	}
	var start types.NodeID
	found := false
	for _, n := range e.graph.Nodes() {
		switch n.Degree() {
		case 0:
			continue
		case 2:
			if !found {
				start, found = n.ID, true
			}
		default:
			return fmt.Errorf("%w: node %d has %d connections", types.ErrSourcePlacement, n.ID, n.Degree())
		}
	}
	// 沿回路行走, 走完全部元件才算单一回路
	visited := map[types.Handle]bool{}
	cur, prev := start, types.NoHandle
	for {
		next := types.NoHandle
		for _, h := range e.graph.NeighborsOf(cur) {
			if h != prev && !visited[h] {
				next = h
				break
			}
		}
		if next == types.NoHandle {
			break
		}
		visited[next] = true
		c, _ := e.graph.Component(next)
		cur, prev = c.Other(cur), next
	}
	if len(visited) != e.graph.Len() {
		return fmt.Errorf("%w: %d of %d components form a loop",
			types.ErrSourcePlacement, len(visited), e.graph.Len())
	}
	return nil
}

// checkSeriesSources 电压源只能与电压源直接串联
// 节点一侧为电阻, 另一侧电压源的外端也连接电阻时, 该电阻无法与其他电阻合并
func (e *Engine) checkSeriesSources() error {
	for _, n := range e.graph.Nodes() {
		if n.Degree() != 2 {
			continue
		}
		a, _ := e.graph.Component(n.Attachments[0])
		b, _ := e.graph.Component(n.Attachments[1])
		if a.Kind == types.KindVoltage {
			a, b = b, a
		}
		if a.Kind != types.KindResistor || b.Kind != types.KindVoltage {
			continue
		}
		for _, h := range e.graph.NeighborsOf(b.Other(n.ID)) {
			if c, _ := e.graph.Component(h); c.Kind == types.KindResistor {
				return fmt.Errorf("%w: %s at node %d sits between resistors %s and %s",
					types.ErrSourcePlacement, b.Label(), n.ID, a.Label(), c.Label())
			}
		}
	}
	return nil
}

// V 总电压
func (e *Engine) V() float64 { return e.totalV }

// R 总电阻
func (e *Engine) R() float64 { return e.totalR }

// G 接地节点, 只用于报告
func (e *Engine) G() types.NodeID { return e.ground }

// Conductance 总电导
func (e *Engine) Conductance() float64 {
	if e.totalR == 0 {
		return 0
	}
	return 1 / e.totalR
}

// Current 总电流
func (e *Engine) Current() float64 {
	if e.totalR == 0 {
		return 0
	}
	return e.totalV / e.totalR
}

// VoltageSources 电压源数量
func (e *Engine) VoltageSources() int { return e.sources }

// RunID 分析编号
func (e *Engine) RunID() string { return e.runID }

// Ground 接地节点
func (e *Engine) Ground() types.NodeID { return e.ground }

// Nodes 工作副本节点
func (e *Engine) Nodes() []types.Node { return e.graph.Nodes() }

// Components 工作副本元件, 化简后为剩余元件
func (e *Engine) Components() []types.Component { return e.graph.Components() }

// Graph 工作副本
func (e *Engine) Graph() *graph.Graph { return e.graph }
