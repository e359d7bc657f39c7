package debug

import (
	"encoding/json"
	"io"

	"thevenin/graph"
	"thevenin/reduce"
	"thevenin/types"
)

// Record 记录化简过程
type Record struct {
	Nodes    []types.NodeID    `json:"nodes"`    // 节点列表
	Elements []types.Component `json:"elements"` // 化简前元件
	Steps    []reduce.Step     `json:"steps"`    // 合并记录
}

// Init 初始化
func (list *Record) Init(g *graph.Graph) {
	list.Nodes = g.NodeIDs()
	list.Elements = g.Components()
	list.Steps = nil
}

// Step 记录合并
func (list *Record) Step(s reduce.Step) { list.Steps = append(list.Steps, s) }

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(list) }
