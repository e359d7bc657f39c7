package load

import "strings"

// Command 交互命令
type Command uint8

// 交互命令
const (
	CmdUnknown   Command = iota // 未知命令
	CmdAdd                      // 添加元件
	CmdEdit                     // 删除元件
	CmdDisplay                  // 显示元件
	CmdCalculate                // 计算
	CmdHelp                     // 帮助
	CmdEnd                      // 退出
)

var commands = map[string]Command{
	"add":       CmdAdd,
	"edit":      CmdEdit,
	"remove":    CmdEdit,
	"display":   CmdDisplay,
	"calculate": CmdCalculate,
	"help":      CmdHelp,
	"end":       CmdEnd,
	"exit":      CmdEnd,
	"quit":      CmdEnd,
}

// ParseCommand 解析交互命令, 忽略首尾空白和大小写
func ParseCommand(s string) (Command, bool) {
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(s))]
	return cmd, ok
}

// String 命令名称
func (c Command) String() string {
	switch c {
	case CmdAdd:
		return "add"
	case CmdEdit:
		return "edit"
	case CmdDisplay:
		return "display"
	case CmdCalculate:
		return "calculate"
	case CmdHelp:
		return "help"
	case CmdEnd:
		return "end"
	default:
		return "unknown"
	}
}
