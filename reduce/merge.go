package reduce

import (
	"go.uber.org/zap"

	"thevenin/types"
)

// ParallelResistance 并联等效电阻 1/Σ(1/Ri)
func ParallelResistance(rs ...float64) (float64, error) {
	if len(rs) == 0 {
		return 0, types.ErrEmptyGroup
	}
	var g float64
	for _, r := range rs {
		g += 1 / r
	}
	return 1 / g, nil
}

// SeriesResistance 串联等效电阻 ΣRi
func SeriesResistance(rs ...float64) float64 {
	var sum float64
	for _, r := range rs {
		sum += r
	}
	return sum
}

// ReduceParallel 合并端点相同的电阻组, 返回合并组数
func (e *Engine) ReduceParallel() int {
	type pair [2]types.NodeID
	var order []pair
	groups := map[pair][]types.Handle{}
	for _, h := range e.graph.Handles() {
		c, _ := e.graph.Component(h)
		if c.Kind != types.KindResistor {
			continue
		}
		key := pair{c.Node1, c.Node2}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], h)
	}

	merged := 0
	for _, key := range order {
		list := groups[key]
		if len(list) < 2 {
			continue
		}
		rs := make([]float64, len(list))
		labels := make([]string, len(list))
		for i, h := range list {
			c, _ := e.graph.Component(h)
			rs[i], labels[i] = c.Value, c.Label()
		}
		req, err := ParallelResistance(rs...)
		if err != nil {
			continue
		}
		if e.replace(list, req, key[0], key[1], StepParallel, labels) {
			merged++
		}
	}
	return merged
}

// ReduceSeries 合并一对串联电阻, 按节点编号升序取第一个恰好连接两个电阻的节点
func (e *Engine) ReduceSeries() bool {
	for _, id := range e.graph.NodeIDs() {
		list := e.graph.NeighborsOf(id)
		if len(list) != 2 {
			continue
		}
		a, _ := e.graph.Component(list[0])
		b, _ := e.graph.Component(list[1])
		if a.Kind != types.KindResistor || b.Kind != types.KindResistor {
			continue
		}
		// 外侧节点取各自不共享的一端
		outerA, outerB := a.Other(id), b.Other(id)
		if outerA == outerB {
			// 两电阻实为并联
			continue
		}
		req := SeriesResistance(a.Value, b.Value)
		return e.replace(list, req, outerA, outerB, StepSeries, []string{a.Label(), b.Label()})
	}
	return false
}

// replace 删除原电阻并接入等效电阻
func (e *Engine) replace(list []types.Handle, req float64, n1, n2 types.NodeID, kind StepKind, labels []string) bool {
	// 等效值可低于输入下限, 不经构造校验
	if n1 > n2 {
		n1, n2 = n2, n1
	}
	c := types.Component{Kind: types.KindResistor, ID: e.nextID + 1, Node1: n1, Node2: n2, Value: req}
	for _, h := range list {
		_ = e.graph.Remove(h)
	}
	if _, err := e.graph.Add(c); err != nil {
		e.log.Error("equivalent not connected", zap.String("run", e.runID), zap.Error(err))
		return false
	}
	e.nextID++
	e.log.Debug(kind.String()+" merge",
		zap.String("run", e.runID),
		zap.Strings("merged", labels),
		zap.Stringer("equivalent", c))
	if e.recorder != nil {
		e.recorder.Step(Step{
			Pass:       e.pass,
			Kind:       kind,
			Merged:     labels,
			Equivalent: c,
			Remaining:  e.graph.Len(),
		})
	}
	return true
}
