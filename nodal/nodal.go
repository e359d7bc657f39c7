package nodal

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"thevenin/graph"
	"thevenin/types"
)

// ErrSingular 方程组奇异, 通常是存在悬空子电路
var ErrSingular = errors.New("singular nodal system")

// Solution 节点分析结果
type Solution struct {
	Ground   types.NodeID
	voltages map[types.NodeID]float64 // 节点电压
	sources  map[types.Handle]float64 // 电压源正极流出电流
	leaving  map[types.NodeID]float64 // 经电阻流出节点的电流
}

// Voltage 节点电压, 地为0
func (s *Solution) Voltage(id types.NodeID) float64 { return s.voltages[id] }

// SourceCurrent 电压源从正极流出的电流
func (s *Solution) SourceCurrent(h types.Handle) (float64, bool) {
	i, ok := s.sources[h]
	return i, ok
}

// CurrentLeaving 经电阻流出节点的电流之和
func (s *Solution) CurrentLeaving(id types.NodeID) float64 { return s.leaving[id] }

// Solve 改进节点分析
// 未知量为非地节点电压和每个电压源的支路电流
func Solve(g *graph.Graph, ground types.NodeID) (*Solution, error) {
	if !g.HasNode(ground) {
		return nil, fmt.Errorf("ground: %w %d", types.ErrUnknownNode, ground)
	}
	sol := &Solution{
		Ground:   ground,
		voltages: map[types.NodeID]float64{ground: 0},
		sources:  map[types.Handle]float64{},
		leaving:  map[types.NodeID]float64{},
	}

	// 只为连接了元件的非地节点建立方程
	index := map[types.NodeID]int{}
	var ids []types.NodeID
	for _, n := range g.Nodes() {
		if n.ID != ground && n.Degree() > 0 {
			index[n.ID] = len(ids)
			ids = append(ids, n.ID)
		}
	}
	var sources []types.Handle
	for _, h := range g.Handles() {
		c, _ := g.Component(h)
		if c.Kind == types.KindVoltage {
			sources = append(sources, h)
		}
	}
	size := len(ids) + len(sources)
	if size == 0 {
		return sol, nil
	}

	idx := func(id types.NodeID) int {
		if i, ok := index[id]; ok {
			return i
		}
		return -1
	}
	A := mat.NewDense(size, size, nil)
	b := mat.NewVecDense(size, nil)
	add := func(i, j int, v float64) {
		if i >= 0 && j >= 0 {
			A.Set(i, j, A.At(i, j)+v)
		}
	}
	k := len(ids)
	for _, h := range g.Handles() {
		c, _ := g.Component(h)
		n1, n2 := idx(c.Node1), idx(c.Node2)
		switch c.Kind {
		case types.KindResistor:
			gv := 1 / c.Value
			add(n1, n1, gv)
			add(n2, n2, gv)
			add(n1, n2, -gv)
			add(n2, n1, -gv)
		case types.KindVoltage:
			// V(Node2) - V(Node1) = Value, 电流从正极 Node2 流入外电路
			add(n2, k, -1)
			add(n1, k, 1)
			add(k, n2, 1)
			add(k, n1, -1)
			b.SetVec(k, c.Value)
			k++
		}
	}

	var x mat.VecDense
	if err := x.SolveVec(A, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for i, id := range ids {
		sol.voltages[id] = x.AtVec(i)
	}
	for i, h := range sources {
		sol.sources[h] = x.AtVec(len(ids) + i)
	}
	for _, c := range g.Components() {
		if c.Kind != types.KindResistor {
			continue
		}
		i := (sol.Voltage(c.Node1) - sol.Voltage(c.Node2)) / c.Value
		sol.leaving[c.Node1] += i
		sol.leaving[c.Node2] -= i
	}
	return sol, nil
}

// Annotate 将节点电压和流出电流写入图
func Annotate(g *graph.Graph, sol *Solution) error {
	for _, id := range g.NodeIDs() {
		if err := g.SetNodeState(id, sol.Voltage(id), sol.CurrentLeaving(id)); err != nil {
			return err
		}
	}
	return nil
}
