package thevenin

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"thevenin/config"
	"thevenin/graph"
	"thevenin/load"
	"thevenin/nodal"
	"thevenin/reduce"
	"thevenin/types"
)

// Circuit 电路编辑会话
type Circuit struct {
	graph  *graph.Graph
	log    *zap.Logger
	cfg    *config.Config
	ids    map[types.Kind]int // 各类型已分配的最大编号
	ground types.NodeID
	hasGnd bool
}

// Option 会话参数
type Option func(*Circuit)

// WithLogger 设置日志
func WithLogger(log *zap.Logger) Option {
	return func(c *Circuit) {
		if log != nil {
			c.log = log
		}
	}
}

// WithConfig 设置配置
func WithConfig(cfg *config.Config) Option {
	return func(c *Circuit) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

// NewCircuit 创建空电路
func NewCircuit(opts ...Option) *Circuit {
	c := &Circuit{
		graph: graph.New(),
		log:   zap.NewNop(),
		cfg:   config.Default(),
		ids:   map[types.Kind]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add 校验并添加元件, 首次引用的节点自动创建
// 编号按类型递增, 删除后不复用
func (c *Circuit) Add(kind types.Kind, n1, n2 types.NodeID, value float64) (types.Component, error) {
	comp, err := types.New(kind, c.ids[kind]+1, value, n1, n2)
	if err != nil {
		return types.Component{}, err
	}
	c.graph.AddNode(comp.Node1)
	c.graph.AddNode(comp.Node2)
	if _, err := c.graph.Add(comp); err != nil {
		return types.Component{}, err
	}
	c.ids[kind] = comp.ID
	c.log.Debug("component added", zap.Stringer("component", comp))
	return comp, nil
}

// AddResistor 添加电阻
func (c *Circuit) AddResistor(n1, n2 types.NodeID, r float64) (types.Component, error) {
	return c.Add(types.KindResistor, n1, n2, r)
}

// AddVoltage 添加电压源
func (c *Circuit) AddVoltage(n1, n2 types.NodeID, v float64) (types.Component, error) {
	return c.Add(types.KindVoltage, n1, n2, v)
}

// RemoveID 按类型和编号删除元件
func (c *Circuit) RemoveID(kind types.Kind, id int) (types.Component, error) {
	h, ok := c.graph.Find(kind, id)
	if !ok {
		return types.Component{}, fmt.Errorf("%s %d: %w", kind, id, types.ErrNotFound)
	}
	comp, _ := c.graph.Component(h)
	if err := c.graph.Remove(h); err != nil {
		return types.Component{}, err
	}
	c.log.Debug("component removed", zap.Stringer("component", comp))
	return comp, nil
}

// Remove 按标识删除元件, 如 R1 或 v2, 不区分大小写
func (c *Circuit) Remove(label string) (types.Component, error) {
	kind, id, err := ParseLabel(label)
	if err != nil {
		return types.Component{}, err
	}
	return c.RemoveID(kind, id)
}

// ParseLabel 解析元件标识
func ParseLabel(label string) (types.Kind, int, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, 0, fmt.Errorf("%w: must enter the unique id of the component", load.ErrSyntax)
	}
	kind, ok := types.ParseKind(label[:1])
	if !ok {
		return 0, 0, fmt.Errorf("%w: select a resistor with 'R' or a voltage with 'V'", load.ErrSyntax)
	}
	id, err := strconv.Atoi(label[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: must enter the unique id of the component", load.ErrSyntax)
	}
	return kind, id, nil
}

// Components 元件列表, 按端点排序
func (c *Circuit) Components() []types.Component {
	list := c.graph.Components()
	slices.SortStableFunc(list, types.Compare)
	return list
}

// Nodes 节点列表
func (c *Circuit) Nodes() []types.Node { return c.graph.Nodes() }

// Len 元件数量
func (c *Circuit) Len() int { return c.graph.Len() }

// Graph 电路图
func (c *Circuit) Graph() *graph.Graph { return c.graph }

// Ground 网表中指定的接地节点
func (c *Circuit) Ground() (types.NodeID, bool) { return c.ground, c.hasGnd }

// SetGround 设置接地节点
func (c *Circuit) SetGround(id types.NodeID) {
	c.ground, c.hasGnd = id, true
}

// String 元件清单, 每行一个
func (c *Circuit) String() string {
	var sb strings.Builder
	for _, comp := range c.Components() {
		switch comp.Kind {
		case types.KindResistor:
			sb.WriteString("Resistor: ")
		case types.KindVoltage:
			sb.WriteString("Voltage:  ")
		}
		sb.WriteString(comp.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Report 计算报告
type Report struct {
	*reduce.Result
	Nodes []types.Node `json:"nodes,omitempty"` // 节点电压和流出电流
}

// Calculate 化简电路并计算总量, 配置开启时附带节点分析
func (c *Circuit) Calculate(ground types.NodeID, opts ...reduce.Option) (*Report, error) {
	if !c.graph.HasNode(ground) {
		return nil, fmt.Errorf("ground: %w %d", types.ErrUnknownNode, ground)
	}
	base := []reduce.Option{
		reduce.WithLogger(c.log),
		reduce.WithMaxPassFactor(c.cfg.Analysis.MaxPassFactor),
		reduce.WithStrictSources(c.cfg.Analysis.StrictSources),
	}
	res, err := reduce.New(ground, c.graph, append(base, opts...)...).Analyze()
	if err != nil {
		return nil, err
	}
	report := &Report{Result: res}
	if !c.cfg.Analysis.Nodal {
		return report, nil
	}

	// 节点分析只用于报告, 失败时保留化简结果
	nodes, err := c.annotate(ground)
	if err != nil {
		c.log.Warn("node voltages unavailable",
			zap.String("run", res.RunID),
			zap.Int("ground", ground),
			zap.Error(err))
		return report, nil
	}
	report.Nodes = nodes
	return report, nil
}

// annotate 计算节点电压和流出电流, 不修改会话中的图
func (c *Circuit) annotate(ground types.NodeID) ([]types.Node, error) {
	sol, err := nodal.Solve(c.graph, ground)
	if err != nil {
		return nil, err
	}
	g := c.graph.Clone()
	if err := nodal.Annotate(g, sol); err != nil {
		return nil, err
	}
	return g.Nodes(), nil
}

// LoadReader 读取网表并添加元件
func (c *Circuit) LoadReader(name string, r io.Reader) error {
	netlist, err := load.Parse(name, r)
	if err != nil {
		return err
	}
	for _, d := range netlist.Directives() {
		switch strings.ToLower(d.Name) {
		case "ground", "gnd":
			id, err := d.Int()
			if err != nil {
				return err
			}
			c.SetGround(id)
		default:
			return fmt.Errorf("%w: %s: unknown directive .%s", load.ErrSyntax, d.Pos, d.Name)
		}
	}
	for _, e := range netlist.Elements() {
		kind, err := e.Kind()
		if err != nil {
			return err
		}
		n1, n2, err := e.Nodes()
		if err != nil {
			return err
		}
		if _, err := c.Add(kind, n1, n2, e.Value); err != nil {
			return fmt.Errorf("%s: %w", e.Pos, err)
		}
	}
	return nil
}

// Load 读取网表文件
func (c *Circuit) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.LoadReader(filename, f)
}
