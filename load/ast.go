package load

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Netlist 网表
type Netlist struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement 网表语句
type Statement struct {
	Pos lexer.Position

	Directive *Directive `parser:"  @@"`
	Element   *Element   `parser:"| @@"`
}

// Directive 指令, 如 .ground 2
type Directive struct {
	Pos lexer.Position

	Name  string `parser:"Dot @Ident"`
	Value string `parser:"@Number"`
}

// Element 元件, 如 R 1 2 10
type Element struct {
	Pos lexer.Position

	Type  string  `parser:"@Ident"`
	Node1 string  `parser:"@Number"`
	Node2 string  `parser:"@Number"`
	Value float64 `parser:"@Number"`
}

// Elements 全部元件
func (n *Netlist) Elements() []*Element {
	list := make([]*Element, 0, len(n.Statements))
	for _, s := range n.Statements {
		if s.Element != nil {
			list = append(list, s.Element)
		}
	}
	return list
}

// Directives 全部指令
func (n *Netlist) Directives() []*Directive {
	var list []*Directive
	for _, s := range n.Statements {
		if s.Directive != nil {
			list = append(list, s.Directive)
		}
	}
	return list
}
