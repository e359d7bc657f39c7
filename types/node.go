package types

// NodeID 节点编号, 由用户输入决定
type NodeID = int

// Node 电路节点
type Node struct {
	ID             NodeID   `json:"id"`              // 节点编号
	Attachments    []Handle `json:"-"`               // 连接元件
	Voltage        float64  `json:"voltage"`         // 节点电压(节点分析后有效)
	CurrentLeaving float64  `json:"current_leaving"` // 流出电流(节点分析后有效)
}

// Degree 连接元件数量
func (n *Node) Degree() int { return len(n.Attachments) }
