package types

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Handle 元件句柄, 指向图内元件槽位
type Handle int

// NoHandle 无效句柄
const NoHandle Handle = -1

// Kind 元件类型
type Kind uint8

// 元件类型
const (
	KindResistor Kind = iota + 1 // 电阻
	KindVoltage                  // 电压源
)

// String 类型名称
func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "Resistor"
	case KindVoltage:
		return "Voltage"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Prefix 标识前缀
func (k Kind) Prefix() string {
	switch k {
	case KindResistor:
		return "R"
	case KindVoltage:
		return "V"
	default:
		return "?"
	}
}

// Unit 数值单位
func (k Kind) Unit() string {
	switch k {
	case KindResistor:
		return "Ohms"
	case KindVoltage:
		return "Volts"
	default:
		return ""
	}
}

// ParseKind 解析类型字母, 不区分大小写
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(s) {
	case "R":
		return KindResistor, true
	case "V":
		return KindVoltage, true
	default:
		return 0, false
	}
}

// Component 二端元件
type Component struct {
	Kind  Kind    `json:"kind"`
	ID    int     `json:"id"`    // 同类型内从1开始的编号
	Node1 NodeID  `json:"node1"` // 较小节点
	Node2 NodeID  `json:"node2"` // 较大节点
	Value float64 `json:"value"` // 电阻(Ω)或电压(V)
}

// NewResistor 创建电阻, 端点按编号排序
func NewResistor(id int, r float64, n1, n2 NodeID) (Component, error) {
	if r <= Epsilon {
		return Component{}, fmt.Errorf("R%d: %w: %g", id, ErrNonPositiveResistance, r)
	}
	if n1 == n2 {
		return Component{}, fmt.Errorf("R%d: %w", id, ErrSameNode)
	}
	if n1 > n2 {
		n1, n2 = n2, n1
	}
	return Component{Kind: KindResistor, ID: id, Node1: n1, Node2: n2, Value: r}, nil
}

// NewVoltage 创建电压源, 极性指向编号较大的节点
// 端点逆序输入时交换端点并取反电压
func NewVoltage(id int, v float64, n1, n2 NodeID) (Component, error) {
	if math.Abs(v) <= Epsilon {
		return Component{}, fmt.Errorf("V%d: %w: %g", id, ErrZeroVoltage, v)
	}
	if n1 == n2 {
		return Component{}, fmt.Errorf("V%d: %w", id, ErrSameNode)
	}
	if n1 > n2 {
		n1, n2 = n2, n1
		v = -v
	}
	return Component{Kind: KindVoltage, ID: id, Node1: n1, Node2: n2, Value: v}, nil
}

// New 按类型创建元件
func New(kind Kind, id int, value float64, n1, n2 NodeID) (Component, error) {
	switch kind {
	case KindResistor:
		return NewResistor(id, value, n1, n2)
	case KindVoltage:
		return NewVoltage(id, value, n1, n2)
	default:
		return Component{}, fmt.Errorf("unknown component kind %d", kind)
	}
}

// MustResistor 创建电阻, 失败时panic
func MustResistor(id int, r float64, n1, n2 NodeID) Component {
	c, err := NewResistor(id, r, n1, n2)
	if err != nil {
		panic(err)
	}
	return c
}

// MustVoltage 创建电压源, 失败时panic
func MustVoltage(id int, v float64, n1, n2 NodeID) Component {
	c, err := NewVoltage(id, v, n1, n2)
	if err != nil {
		panic(err)
	}
	return c
}

// Compare 按 (Node1, Node2) 升序比较
func Compare(a, b Component) int {
	if c := cmp.Compare(a.Node1, b.Node1); c != 0 {
		return c
	}
	return cmp.Compare(a.Node2, b.Node2)
}

// Other 返回另一端节点
func (c Component) Other(n NodeID) NodeID {
	if c.Node1 == n {
		return c.Node2
	}
	return c.Node1
}

// Touches 是否连接到节点
func (c Component) Touches(n NodeID) bool { return c.Node1 == n || c.Node2 == n }

// Label 元件标识, 如 R3
func (c Component) Label() string { return c.Kind.Prefix() + strconv.Itoa(c.ID) }

// String 元件描述, 如 R3 2 4 50 Ohms
func (c Component) String() string {
	return fmt.Sprintf("%s %d %d %s %s", c.Label(), c.Node1, c.Node2,
		strconv.FormatFloat(c.Value, 'g', -1, 64), c.Kind.Unit())
}
