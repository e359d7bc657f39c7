package nodal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thevenin/graph"
	"thevenin/types"
)

func buildGraph(t *testing.T, list ...types.Component) *graph.Graph {
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

func TestVoltageDivider(t *testing.T) {
	g := buildGraph(t,
		types.MustVoltage(1, 10, 0, 1),
		types.MustResistor(1, 1e3, 1, 2),
		types.MustResistor(2, 1e3, 2, 0),
	)
	sol, err := Solve(g, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, sol.Voltage(0), 1e-9)
	assert.InDelta(t, 10.0, sol.Voltage(1), 1e-9)
	assert.InDelta(t, 5.0, sol.Voltage(2), 1e-9)

	h, ok := g.Find(types.KindVoltage, 1)
	require.True(t, ok)
	i, ok := sol.SourceCurrent(h)
	require.True(t, ok)
	assert.InDelta(t, 5e-3, i, 1e-12, "电压源输出电流")

	assert.InDelta(t, 5e-3, sol.CurrentLeaving(1), 1e-12)
	assert.InDelta(t, 0.0, sol.CurrentLeaving(2), 1e-12, "中间节点电流守恒")
	assert.InDelta(t, -5e-3, sol.CurrentLeaving(0), 1e-12)
}

func TestMixedNetwork(t *testing.T) {
	g := buildGraph(t,
		types.MustVoltage(1, 5, 0, 1),
		types.MustResistor(1, 10, 1, 2),
		types.MustResistor(2, 20, 2, 3),
		types.MustResistor(3, 30, 2, 3),
		types.MustResistor(4, 40, 3, 4),
		types.MustResistor(5, 50, 2, 4),
		types.MustResistor(6, 60, 4, 5),
		types.MustResistor(7, 70, 0, 5),
	)
	sol, err := Solve(g, 2)
	require.NoError(t, err)

	h, _ := g.Find(types.KindVoltage, 1)
	i, _ := sol.SourceCurrent(h)
	assert.InDelta(t, 0.03021327, i, 1e-6, "与化简得到的总电流一致")
	assert.InDelta(t, 5.0, sol.Voltage(1)-sol.Voltage(0), 1e-9)
	assert.InDelta(t, 10*i, sol.Voltage(1), 1e-9)

	require.NoError(t, Annotate(g, sol))
	n, ok := g.Node(1)
	require.True(t, ok)
	assert.InDelta(t, sol.Voltage(1), n.Voltage, 1e-12)
	assert.InDelta(t, sol.CurrentLeaving(1), n.CurrentLeaving, 1e-12)
}

func TestSolveErrors(t *testing.T) {
	g := buildGraph(t,
		types.MustVoltage(1, 5, 0, 1),
		types.MustResistor(1, 10, 0, 1),
		types.MustResistor(2, 10, 2, 3),
	)
	_, err := Solve(g, 0)
	assert.ErrorIs(t, err, ErrSingular, "悬空子电路")

	_, err = Solve(g, 9)
	assert.ErrorIs(t, err, types.ErrUnknownNode)
}

func TestSolveEmpty(t *testing.T) {
	g := graph.New()
	g.AddNode(0)
	sol, err := Solve(g, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sol.Voltage(0))
}
