package load

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// NetlistLexer 网表词法
// 每行一条 `R/V X Y Z` 元件或 `.name value` 指令
var NetlistLexer = lexer.MustSimple([]lexer.SimpleRule{
	// 注释到行尾
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},

	// 空白与换行
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// 数字, 需在 Dot 之前以识别 .5
	{Name: "Number", Pattern: `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`},

	// 指令前缀
	{Name: "Dot", Pattern: `\.`},

	// 元件类型或指令名
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
