package rpn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/numexpr/builtins"
	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/compiler"
)

func names(p *compiler.Program) []string {
	var out []string
	for _, ins := range p.Instructions() {
		out = append(out, ins.String())
	}
	return out
}

func TestAssemble(t *testing.T) {
	x, y := 2.0, 3.0
	vars := map[string]*float64{"x": &x, "y": &y}
	tests := []struct {
		src      string
		expected []string
		engine   int
	}{
		{"1", []string{"1", "END"}, 0},
		{"x,2,*", []string{"x", "2", "*/2", "END"}, 3},
		{"x, y, 2, *, +", []string{"x", "y", "2", "+*/3", "END"}, 7},
		{"x,sin", []string{"x", "sin/1", "END"}, 1},
		{"x,y,1,sum:3", []string{"x", "y", "1", "sum/3", "END"}, 7},
		{"rnd,x,+", []string{"rnd/0", "x", "+/2", "END"}, -1},
		{"x,5,=x", []string{"x", "5", "=x", "END"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := Assemble(tt.src, Variables(vars))
			require.NoError(t, err)
			require.Equal(t, tt.expected, names(p))
			require.Equal(t, tt.engine, p.EngineID())
			_, err = compiler.Verify(p)
			require.NoError(t, err)
		})
	}
}

func TestAssembleBindsSlots(t *testing.T) {
	x := 4.0
	p, err := Assemble("x", Variables(map[string]*float64{"x": &x}))
	require.NoError(t, err)
	v := p.InstructionAt(0).(*bytecode.Value)
	require.Same(t, &x, v.Source)
	x = 9
	require.Equal(t, 9.0, v.Eval())
}

func TestAssembleOperatorsAreRetagged(t *testing.T) {
	p, err := Assemble("1,2,-")
	require.NoError(t, err)
	c := p.InstructionAt(2).(*bytecode.Call)
	require.False(t, c.Binary)
	require.Same(t, builtins.Sub, c.Func)
}

func TestAssembleErrors(t *testing.T) {
	x := 1.0
	tests := []struct {
		src string
		pos int
		msg string
	}{
		{"", -1, "empty expression"},
		{"1,,2", 1, "empty token"},
		{"1,+", 1, "needs 2 operands, stack has 1"},
		{"1,2", -1, "leaves 2 values"},
		{"z", 0, "unknown identifier z"},
		{"1,sum", 1, "needs an operand count"},
		{"1,sin:2", 1, "sin takes 1 operands, got 2"},
		{"1,foo:1", 1, "unknown function foo"},
		{"1,sum:x", 1, "invalid operand count"},
		{"1,=x", 1, "needs a destination and a value"},
		{"x,1,=y", 2, "unbound variable"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Assemble(tt.src, Variables(map[string]*float64{"x": &x}))
			require.Error(t, err)
			var se ErrSyntax
			require.True(t, errors.As(err, &se))
			require.Equal(t, tt.pos, se.Pos)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDelimiter(t *testing.T) {
	p, err := Assemble("1|2|+", Delimiter('|'))
	require.NoError(t, err)
	require.Equal(t, 4, p.Size())

	for _, d := range []rune{'+', '^', '=', ':'} {
		_, err := New(Delimiter(d))
		require.Error(t, err)
	}
}

func TestVariablesRejectsNilSlot(t *testing.T) {
	_, err := New(Variables(map[string]*float64{"x": nil}))
	require.Error(t, err)
}

func TestProgramOptions(t *testing.T) {
	p, err := Assemble("1,2,3,*,+", ProgramOptions(compiler.WithOptimizer(false)))
	require.NoError(t, err)
	require.Equal(t, 6, p.Size())

	p, err = Assemble("1,2,3,*,+", ProgramOptions(compiler.WithConstantFolding(true)))
	require.NoError(t, err)
	require.Equal(t, []string{"7", "END"}, names(p))
}

func TestParseBindings(t *testing.T) {
	vars, err := ParseBindings([]string{"x=1.5", " y = -2 "})
	require.NoError(t, err)
	require.Len(t, vars, 2)
	require.Equal(t, 1.5, *vars["x"])
	require.Equal(t, -2.0, *vars["y"])

	for _, bad := range []string{"x", "=1", "x=abc"} {
		_, err := ParseBindings([]string{bad})
		require.Error(t, err, bad)
	}
}
