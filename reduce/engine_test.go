package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"thevenin/graph"
	"thevenin/types"
)

const tol = 1e-6

// fixture 串并联混合电路, 接地节点 2
func fixture() []types.Component {
	return []types.Component{
		types.MustVoltage(1, 5, 0, 1),
		types.MustResistor(1, 10, 1, 2),
		types.MustResistor(2, 20, 2, 3),
		types.MustResistor(3, 30, 2, 3),
		types.MustResistor(4, 40, 3, 4),
		types.MustResistor(5, 50, 2, 4),
		types.MustResistor(6, 60, 4, 5),
		types.MustResistor(7, 70, 0, 5),
	}
}

func buildGraph(t *testing.T, list []types.Component) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, c := range list {
		g.AddNode(c.Node1)
		g.AddNode(c.Node2)
		_, err := g.Add(c)
		require.NoError(t, err)
	}
	return g
}

type stepRecorder struct {
	init  int
	steps []Step
}

func (r *stepRecorder) Init(g *graph.Graph) { r.init = g.Len() }
func (r *stepRecorder) Step(s Step)         { r.steps = append(r.steps, s) }

func TestAnalyzeFixture(t *testing.T) {
	g := buildGraph(t, fixture())
	before := g.Components()

	rec := &stepRecorder{}
	e := New(2, g, WithLogger(zaptest.NewLogger(t)), WithRecorder(rec))
	res, err := e.Analyze()
	require.NoError(t, err)

	assert.InDelta(t, 165.4901961, res.TotalR, tol, "总电阻")
	assert.InDelta(t, 5.0, res.TotalV, tol, "总电压")
	assert.InDelta(t, 0.03021327, res.TotalCurrent, tol, "总电流")
	assert.Equal(t, 2, res.Ground)
	assert.Equal(t, 1, res.VoltageSources)
	assert.Equal(t, 4, res.Passes)
	assert.Len(t, res.Remaining, res.VoltageSources+1)
	assert.NotEmpty(t, res.RunID)

	assert.Equal(t, 2, e.G(), "接地节点")
	assert.InDelta(t, 1/165.4901961, e.Conductance(), tol)
	assert.Equal(t, res.TotalR, e.R())
	assert.Equal(t, res.TotalV, e.V())
	require.NoError(t, e.Graph().Verify())

	// 调用方的图保持不变
	assert.Equal(t, before, g.Components())
	require.NoError(t, g.Verify())

	assert.Equal(t, 8, rec.init)
	kinds := make([]StepKind, len(rec.steps))
	for i, s := range rec.steps {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []StepKind{StepParallel, StepSeries, StepParallel, StepSeries, StepSeries, StepSeries}, kinds)
	assert.Equal(t, []string{"R2", "R3"}, rec.steps[0].Merged)
	last := rec.steps[len(rec.steps)-1]
	assert.Equal(t, "R13", last.Equivalent.Label())
	assert.Equal(t, 2, last.Remaining)
}

func TestNewFromLists(t *testing.T) {
	list := fixture()
	e, err := NewFromLists(2, list, []types.NodeID{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	res, err := e.Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 165.4901961, res.TotalR, tol)

	_, err = NewFromLists(2, list, []types.NodeID{0, 1, 1})
	assert.ErrorIs(t, err, types.ErrDuplicateNode)

	_, err = NewFromLists(2, list, []types.NodeID{0, 1})
	assert.ErrorIs(t, err, types.ErrUnknownNode)
}

func TestReduceParallel(t *testing.T) {
	g := buildGraph(t, []types.Component{
		types.MustResistor(1, 10, 1, 2),
		types.MustResistor(2, 20, 2, 1),
		types.MustResistor(3, 5, 2, 3),
	})
	e := New(1, g)
	assert.Equal(t, 1, e.ReduceParallel())
	require.NoError(t, e.Graph().Verify())

	var eq types.Component
	for _, c := range e.Components() {
		if c.Node1 == 1 && c.Node2 == 2 {
			eq = c
		}
	}
	assert.InDelta(t, 20.0/3.0, eq.Value, tol, "10 ∥ 20")
	assert.Equal(t, 2, e.graph.Len())

	// 再次执行不应有变化
	assert.Equal(t, 0, e.ReduceParallel())
	assert.Equal(t, 2, e.graph.Len())
}

func TestReduceSeries(t *testing.T) {
	g := buildGraph(t, []types.Component{
		types.MustResistor(1, 10, 1, 2),
		types.MustResistor(2, 20, 2, 3),
	})
	e := New(1, g)
	require.True(t, e.ReduceSeries())
	require.NoError(t, e.Graph().Verify())
	list := e.Components()
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Node1)
	assert.Equal(t, 3, list[0].Node2)
	assert.InDelta(t, 30.0, list[0].Value, tol)
	assert.Equal(t, "R3", list[0].Label(), "等效电阻编号接在最大电阻编号之后")

	assert.False(t, e.ReduceSeries())
}

func TestReduceSeriesSkipsSourcesAndLoops(t *testing.T) {
	g := buildGraph(t, []types.Component{
		types.MustVoltage(1, 5, 0, 1),
		types.MustResistor(1, 10, 1, 2),
		types.MustResistor(2, 20, 1, 2),
	})
	e := New(0, g)
	// 节点1连接电压源, 节点2的两个电阻外侧是同一节点
	assert.False(t, e.ReduceSeries())
	assert.Equal(t, 3, e.graph.Len())
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		list []types.Component
		err  error
	}{
		{
			name: "空电路",
			err:  types.ErrEmptyCircuit,
		},
		{
			name: "只有电压源",
			list: []types.Component{types.MustVoltage(1, 5, 0, 1)},
			err:  types.ErrNoResistance,
		},
		{
			name: "惠斯通电桥",
			list: []types.Component{
				types.MustVoltage(1, 10, 0, 1),
				types.MustResistor(1, 10, 1, 2),
				types.MustResistor(2, 20, 1, 3),
				types.MustResistor(3, 30, 2, 3),
				types.MustResistor(4, 40, 2, 0),
				types.MustResistor(5, 50, 3, 0),
			},
			err: types.ErrUnsupportedTopology,
		},
		{
			name: "开路电压源",
			list: []types.Component{
				types.MustVoltage(1, 5, 0, 1),
				types.MustResistor(1, 10, 1, 2),
			},
			err: types.ErrSourcePlacement,
		},
		{
			name: "电压源不在主回路",
			list: []types.Component{
				types.MustVoltage(1, 5, 0, 1),
				types.MustResistor(1, 10, 0, 1),
				types.MustVoltage(2, 3, 2, 3),
				types.MustVoltage(3, 3, 2, 3),
			},
			err: types.ErrSourcePlacement,
		},
		{
			name: "电压源夹在电阻之间",
			list: []types.Component{
				types.MustVoltage(1, 5, 0, 1),
				types.MustResistor(1, 10, 1, 2),
				types.MustVoltage(2, 3, 2, 3),
				types.MustResistor(2, 20, 0, 3),
			},
			err: types.ErrSourcePlacement,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(0, buildGraph(t, tt.list))
			res, err := e.Analyze()
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, res)
		})
	}
}

func TestAnalyzeSourceBetweenResistors(t *testing.T) {
	list := []types.Component{
		types.MustVoltage(1, 5, 0, 1),
		types.MustResistor(1, 10, 1, 2),
		types.MustVoltage(2, 3, 2, 3),
		types.MustResistor(2, 20, 0, 3),
	}
	_, err := New(0, buildGraph(t, list)).Analyze()
	require.ErrorIs(t, err, types.ErrSourcePlacement)
	assert.NotErrorIs(t, err, types.ErrUnsupportedTopology)
	assert.Contains(t, err.Error(), "node ")

	// 关闭校验时仍按无法化简报告
	_, err = New(0, buildGraph(t, list), WithStrictSources(false)).Analyze()
	assert.ErrorIs(t, err, types.ErrUnsupportedTopology)
}

func TestAnalyzeLenientSources(t *testing.T) {
	g := buildGraph(t, []types.Component{
		types.MustVoltage(1, 5, 0, 1),
		types.MustResistor(1, 10, 1, 2),
	})
	res, err := New(0, g, WithStrictSources(false)).Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.TotalR, tol)
	assert.InDelta(t, 0.5, res.TotalCurrent, tol)
}

func TestAnalyzeSeriesSources(t *testing.T) {
	g := buildGraph(t, []types.Component{
		types.MustVoltage(1, 5, 0, 1),
		types.MustVoltage(2, 3, 1, 2),
		types.MustResistor(1, 4, 2, 3),
		types.MustResistor(2, 6, 3, 0),
	})
	res, err := New(0, g).Analyze()
	require.NoError(t, err)
	assert.InDelta(t, 8.0, res.TotalV, tol)
	assert.InDelta(t, 10.0, res.TotalR, tol)
	assert.InDelta(t, 0.8, res.TotalCurrent, tol)
	assert.Equal(t, 2, res.VoltageSources)
}

func TestAnalyzeReversedSource(t *testing.T) {
	g := buildGraph(t, []types.Component{
		types.MustVoltage(1, 5, 1, 0),
		types.MustResistor(1, 10, 0, 1),
	})
	res, err := New(0, g).Analyze()
	require.NoError(t, err)
	assert.InDelta(t, -5.0, res.TotalV, tol)
	assert.InDelta(t, -0.5, res.TotalCurrent, tol)
}

func TestAnalyzeLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(2, buildGraph(t, fixture()), WithLogger(zap.New(core)))
	_, err := e.Analyze()
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("circuit reduced").Len())
	verified := logs.FilterMessage("graph verified").All()
	require.Len(t, verified, 1)
	assert.NotContains(t, verified[0].ContextMap(), "error", "化简后邻接关系一致")
	assert.Equal(t, 4, logs.FilterMessage("series merge").Len())
	assert.Equal(t, 2, logs.FilterMessage("parallel merge").Len())
	for _, entry := range logs.FilterMessage("reduction pass").All() {
		assert.Equal(t, e.RunID(), entry.ContextMap()["run"])
	}
}

func TestOptions(t *testing.T) {
	g := buildGraph(t, fixture())
	e := New(2, g, WithMaxPassFactor(0), WithLogger(nil))
	assert.Equal(t, types.MaxPassFactor, e.factor, "非法系数应被忽略")
	assert.NotNil(t, e.log)

	e = New(2, g, WithMaxPassFactor(3))
	assert.Equal(t, 3, e.factor)
}

func TestResistanceHelpers(t *testing.T) {
	r, err := ParallelResistance(10, 20)
	require.NoError(t, err)
	assert.InDelta(t, 6.6666667, r, tol)

	_, err = ParallelResistance()
	assert.ErrorIs(t, err, types.ErrEmptyGroup)

	assert.InDelta(t, 30.0, SeriesResistance(10, 20), tol)
}
