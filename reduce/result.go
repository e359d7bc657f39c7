package reduce

import (
	"thevenin/graph"
	"thevenin/types"
)

// Result 化简结果
type Result struct {
	RunID          string            `json:"run_id"`           // 分析编号
	Ground         types.NodeID      `json:"ground"`           // 接地节点
	TotalV         float64           `json:"total_voltage"`    // 总电压
	TotalR         float64           `json:"total_resistance"` // 总电阻
	TotalCurrent   float64           `json:"total_current"`    // 总电流
	VoltageSources int               `json:"voltage_sources"`  // 电压源数量
	Passes         int               `json:"passes"`           // 化简轮次
	Remaining      []types.Component `json:"remaining"`        // 剩余元件
}

// StepKind 合并方式
type StepKind uint8

// 合并方式
const (
	StepParallel StepKind = iota + 1 // 并联
	StepSeries                       // 串联
)

// String 名称
func (k StepKind) String() string {
	switch k {
	case StepParallel:
		return "parallel"
	case StepSeries:
		return "series"
	default:
		return "unknown"
	}
}

// MarshalText 文本编码
func (k StepKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Step 一次合并记录
type Step struct {
	Pass       int             `json:"pass"`       // 所在轮次
	Kind       StepKind        `json:"kind"`       // 合并方式
	Merged     []string        `json:"merged"`     // 被合并元件标识
	Equivalent types.Component `json:"equivalent"` // 等效电阻
	Remaining  int             `json:"remaining"`  // 合并后元件数量
}

// Recorder 化简过程记录
type Recorder interface {
	Init(g *graph.Graph) // 化简前图快照
	Step(s Step)         // 每次合并
}
