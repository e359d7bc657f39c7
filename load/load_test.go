package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thevenin/types"
)

const netlist = `
# 串并联混合电路
V 0 1 5
R 1 2 10
r2 2 3 20      // 类型后可带编号
R 2 3 30
R 3 4 4e1
R 2 4 50
R 4 5 60
R 0 5 70

.ground 2
`

func TestParseString(t *testing.T) {
	n, err := ParseString(netlist)
	require.NoError(t, err)

	elements := n.Elements()
	require.Len(t, elements, 8)
	directives := n.Directives()
	require.Len(t, directives, 1)
	assert.Equal(t, "ground", directives[0].Name)
	ground, err := directives[0].Int()
	require.NoError(t, err)
	assert.Equal(t, 2, ground)

	v, err := elements[0].Component(1)
	require.NoError(t, err)
	assert.Equal(t, "V1 0 1 5 Volts", v.String())

	r, err := elements[4].Component(4)
	require.NoError(t, err)
	assert.Equal(t, types.KindResistor, r.Kind)
	assert.InDelta(t, 40.0, r.Value, 1e-12)
	assert.Equal(t, 5, elements[2].Pos.Line, "位置信息应指向源行")
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "电阻", input: "R 1 2 10", want: "R1 1 2 10 Ohms"},
		{name: "小写电压源", input: "v 2 1 1.5", want: "V1 1 2 -1.5 Volts"},
		{name: "科学计数", input: "R 3 4 2.2e3", want: "R1 3 4 2200 Ohms"},
		{name: "缺少数值", input: "R 1 2", err: ErrSyntax},
		{name: "多余字段", input: "R 1 2 3 4", err: ErrSyntax},
		{name: "节点非整数", input: "R 1.5 2 10", err: ErrSyntax},
		{name: "未知类型", input: "C 1 2 10", err: ErrSyntax},
		{name: "类型后缀非数字", input: "Rx 1 2 10", err: ErrSyntax},
		{name: "零电阻", input: "R 1 2 0", err: types.ErrNonPositiveResistance},
		{name: "同一节点", input: "V 3 3 5", err: types.ErrSameNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseLine(tt.input)
			if err == nil {
				var c types.Component
				c, err = e.Component(1)
				if err == nil {
					require.Nil(t, tt.err)
					assert.Equal(t, tt.want, c.String())
					return
				}
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseString("R 1 2 10\n.ground\n")
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = ParseString("R 1 2 10 ; V 0 1 5")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divider.cir")
	require.NoError(t, os.WriteFile(path, []byte("V 0 1 10\nR 1 2 1e3\nR 2 0 1e3\n"), 0o644))

	n, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, n.Elements(), 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.cir"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCommand(t *testing.T) {
	for input, want := range map[string]Command{
		"add":       CmdAdd,
		" Display ": CmdDisplay,
		"edit":      CmdEdit,
		"remove":    CmdEdit,
		"calculate": CmdCalculate,
		"help":      CmdHelp,
		"end":       CmdEnd,
		"QUIT":      CmdEnd,
		"exit":      CmdEnd,
	} {
		got, ok := ParseCommand(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
	_, ok := ParseCommand("launch")
	assert.False(t, ok)
}
