package graph

import (
	"fmt"
	"maps"
	"slices"

	"thevenin/types"
)

// slot 元件槽位, 删除后保留墓碑直到下次克隆
type slot struct {
	comp types.Component
	live bool
}

// Graph 节点与元件邻接图
type Graph struct {
	nodes      []types.Node         // 节点列表
	index      map[types.NodeID]int // 节点编号到下标
	components []slot               // 元件槽位
	live       int                  // 有效元件数量
}

// New 创建空图
func New() *Graph {
	return &Graph{index: map[types.NodeID]int{}}
}

// node 查找节点
func (g *Graph) node(id types.NodeID) *types.Node {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return &g.nodes[i]
}

// AddNode 首次引用时创建节点, 返回是否新建
// 同一编号总是解析到同一节点
func (g *Graph) AddNode(id types.NodeID) bool {
	if _, ok := g.index[id]; ok {
		return false
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, types.Node{ID: id})
	return true
}

// HasNode 节点是否存在
func (g *Graph) HasNode(id types.NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Node 获取节点副本
func (g *Graph) Node(id types.NodeID) (types.Node, bool) {
	n := g.node(id)
	if n == nil {
		return types.Node{}, false
	}
	cp := *n
	cp.Attachments = slices.Clone(n.Attachments)
	return cp, true
}

// Add 添加元件, 两端节点必须已存在
func (g *Graph) Add(c types.Component) (types.Handle, error) {
	for _, id := range [2]types.NodeID{c.Node1, c.Node2} {
		if !g.HasNode(id) {
			return types.NoHandle, fmt.Errorf("%s: %w %d", c.Label(), types.ErrUnknownNode, id)
		}
	}
	h := types.Handle(len(g.components))
	g.components = append(g.components, slot{comp: c, live: true})
	g.live++
	g.Connect(c.Node1, h)
	g.Connect(c.Node2, h)
	return h, nil
}

// Remove 删除元件并断开两端连接
func (g *Graph) Remove(h types.Handle) error {
	if !g.valid(h) {
		return fmt.Errorf("handle %d: %w", h, types.ErrNotFound)
	}
	s := &g.components[h]
	g.Disconnect(s.comp.Node1, h)
	g.Disconnect(s.comp.Node2, h)
	s.live = false
	g.live--
	return nil
}

// Connect 节点追加连接元件, 重复连接由调用方保证不发生
func (g *Graph) Connect(id types.NodeID, h types.Handle) {
	if n := g.node(id); n != nil {
		n.Attachments = append(n.Attachments, h)
	}
}

// Disconnect 节点断开元件, 未连接时忽略
func (g *Graph) Disconnect(id types.NodeID, h types.Handle) {
	n := g.node(id)
	if n == nil {
		return
	}
	if i := slices.Index(n.Attachments, h); i >= 0 {
		n.Attachments = slices.Delete(n.Attachments, i, i+1)
	}
}

// NeighborsOf 节点连接的元件句柄
func (g *Graph) NeighborsOf(id types.NodeID) []types.Handle {
	n := g.node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.Attachments)
}

func (g *Graph) valid(h types.Handle) bool {
	return h >= 0 && int(h) < len(g.components) && g.components[h].live
}

// Component 获取元件
func (g *Graph) Component(h types.Handle) (types.Component, bool) {
	if !g.valid(h) {
		return types.Component{}, false
	}
	return g.components[h].comp, true
}

// Handles 有效元件句柄, 按添加顺序
func (g *Graph) Handles() []types.Handle {
	list := make([]types.Handle, 0, g.live)
	for i, s := range g.components {
		if s.live {
			list = append(list, types.Handle(i))
		}
	}
	return list
}

// Components 有效元件, 按添加顺序
func (g *Graph) Components() []types.Component {
	list := make([]types.Component, 0, g.live)
	for _, s := range g.components {
		if s.live {
			list = append(list, s.comp)
		}
	}
	return list
}

// Find 按类型和编号查找元件
func (g *Graph) Find(kind types.Kind, id int) (types.Handle, bool) {
	for i, s := range g.components {
		if s.live && s.comp.Kind == kind && s.comp.ID == id {
			return types.Handle(i), true
		}
	}
	return types.NoHandle, false
}

// Nodes 节点副本, 按编号升序
func (g *Graph) Nodes() []types.Node {
	list := make([]types.Node, len(g.nodes))
	for i, n := range g.nodes {
		list[i] = n
		list[i].Attachments = slices.Clone(n.Attachments)
	}
	slices.SortFunc(list, func(a, b types.Node) int { return a.ID - b.ID })
	return list
}

// NodeIDs 节点编号, 升序
func (g *Graph) NodeIDs() []types.NodeID {
	ids := make([]types.NodeID, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	slices.Sort(ids)
	return ids
}

// Len 有效元件数量
func (g *Graph) Len() int { return g.live }

// NodeCount 节点数量
func (g *Graph) NodeCount() int { return len(g.nodes) }

// SetNodeState 写入节点分析结果
func (g *Graph) SetNodeState(id types.NodeID, voltage, currentLeaving float64) error {
	n := g.node(id)
	if n == nil {
		return fmt.Errorf("%w %d", types.ErrUnknownNode, id)
	}
	n.Voltage = voltage
	n.CurrentLeaving = currentLeaving
	return nil
}

// Clone 深拷贝, 压缩墓碑并由元件副本重建邻接
func (g *Graph) Clone() *Graph {
	return g.rebuild(g.Components())
}

// Sorted 克隆并按端点稳定排序元件
func (g *Graph) Sorted() *Graph {
	list := g.Components()
	slices.SortStableFunc(list, types.Compare)
	return g.rebuild(list)
}

func (g *Graph) rebuild(list []types.Component) *Graph {
	clone := &Graph{
		nodes:      make([]types.Node, len(g.nodes)),
		index:      make(map[types.NodeID]int, len(g.index)),
		components: make([]slot, 0, len(list)),
	}
	for i, n := range g.nodes {
		clone.nodes[i] = types.Node{ID: n.ID, Voltage: n.Voltage, CurrentLeaving: n.CurrentLeaving}
		clone.index[n.ID] = i
	}
	for _, c := range list {
		// 节点集合相同, 不会失败
		_, _ = clone.Add(c)
	}
	return clone
}

// Verify 校验邻接关系与元件端点一致
func (g *Graph) Verify() error {
	want := map[types.NodeID][]types.Handle{}
	for i, s := range g.components {
		if !s.live {
			continue
		}
		h := types.Handle(i)
		want[s.comp.Node1] = append(want[s.comp.Node1], h)
		want[s.comp.Node2] = append(want[s.comp.Node2], h)
	}
	for _, n := range g.nodes {
		got := slices.Clone(n.Attachments)
		exp := want[n.ID]
		slices.Sort(got)
		slices.Sort(exp)
		if !slices.Equal(got, exp) {
			return fmt.Errorf("node %d: attachments %v, components %v", n.ID, got, exp)
		}
		delete(want, n.ID)
	}
	if len(want) > 0 {
		ids := slices.Sorted(maps.Keys(want))
		return fmt.Errorf("%w %d referenced by components", types.ErrUnknownNode, ids[0])
	}
	return nil
}
