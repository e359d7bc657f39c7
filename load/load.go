package load

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"thevenin/types"
)

// ErrSyntax 网表语法错误
var ErrSyntax = errors.New("syntax error")

var (
	netlistParser = participle.MustBuild[Netlist](
		participle.Lexer(NetlistLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	elementParser = participle.MustBuild[Element](
		participle.Lexer(NetlistLexer),
		participle.Elide("Comment", "Whitespace"),
	)
)

// Parse 解析网表
func Parse(name string, r io.Reader) (*Netlist, error) {
	n, err := netlistParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return n, nil
}

// ParseString 解析网表字符串
func ParseString(s string) (*Netlist, error) {
	return Parse("", strings.NewReader(s))
}

// ParseFile 解析网表文件
func ParseFile(filename string) (*Netlist, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open netlist: %w", err)
	}
	defer f.Close()
	return Parse(filename, f)
}

// ParseLine 解析单行元件输入, 如 R 1 2 10
func ParseLine(s string) (*Element, error) {
	e, err := elementParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("%w: input must be R/V X Y Z: %v", ErrSyntax, err)
	}
	return e, nil
}

// Kind 元件类型, 类型字母后可带编号
func (e *Element) Kind() (types.Kind, error) {
	kind, ok := types.ParseKind(e.Type[:1])
	if ok {
		_, err := strconv.Atoi(e.Type[1:])
		ok = len(e.Type) == 1 || err == nil
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s: unknown component %q, use R or V", ErrSyntax, e.Pos, e.Type)
	}
	return kind, nil
}

// Nodes 两端节点编号
func (e *Element) Nodes() (n1, n2 types.NodeID, err error) {
	if n1, err = parseNode(e.Node1); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", e.Pos, err)
	}
	if n2, err = parseNode(e.Node2); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", e.Pos, err)
	}
	return n1, n2, nil
}

// Component 转换为元件, 编号由调用方分配
func (e *Element) Component(id int) (types.Component, error) {
	kind, err := e.Kind()
	if err != nil {
		return types.Component{}, err
	}
	n1, n2, err := e.Nodes()
	if err != nil {
		return types.Component{}, err
	}
	return types.New(kind, id, e.Value, n1, n2)
}

// Int 指令整数值
func (d *Directive) Int() (int, error) {
	v, err := parseNode(d.Value)
	if err != nil {
		return 0, fmt.Errorf("%s: .%s: %w", d.Pos, d.Name, err)
	}
	return v, nil
}

// parseNode 节点编号必须是十进制整数
func parseNode(s string) (types.NodeID, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: node id %q is not an integer", ErrSyntax, s)
	}
	return v, nil
}
