// Package dis supports analysis of numexpr bytecode by disassembling it.
// This works with the instruction kinds defined in the `op` package and the
// programs assembled by the `compiler` package.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/compiler"
	"github.com/deepnoodle-ai/numexpr/errors"
	"github.com/deepnoodle-ai/numexpr/internal/table"
	"github.com/deepnoodle-ai/numexpr/op"
)

// Address classes of a value instruction.
const (
	AddrNull = "null"
	AddrSlot = "slot"
)

// Instruction represents a single disassembled instruction.
type Instruction struct {
	Offset   int
	StackPos int
	Name     string
	Opcode   op.Code
	Ident    string
	Addr     string
	Coef     float64
	Constant float64
	Args     int
}

// Disassemble returns a parsed representation of the given program.
func Disassemble(p *compiler.Program) ([]Instruction, error) {
	var instructions []Instruction
	for i, ins := range p.Instructions() {
		instr := Instruction{
			Offset:   i,
			StackPos: ins.StackPos(),
			Name:     op.GetInfo(ins.Code()).Name,
			Opcode:   ins.Code(),
		}
		switch ins.Code() {
		case op.Value:
			v := ins.(*bytecode.Value)
			instr.Constant = v.Offset
			instr.Addr = AddrNull
			if !v.IsConstant() {
				instr.Addr = AddrSlot
				instr.Ident = v.Name
				instr.Coef = v.Coef
			}
		case op.Call:
			c := ins.(*bytecode.Call)
			instr.Ident = c.Name
			instr.Args = c.Arity
		case op.Assign:
			instr.Ident = ins.(*bytecode.Assign).Name
			instr.Args = 2
		case op.End:
		default:
			return nil, errors.InternalErrorf(errors.E4004, "offset %d: %s", i, ins.Code())
		}
		instructions = append(instructions, instr)
	}
	return instructions, nil
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgHiCyan).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	var lines [][]string
	for _, instr := range instructions {
		var info string
		switch instr.Opcode {
		case op.Value:
			if instr.Addr == AddrSlot {
				info = cyan(formatLinear(instr))
			} else {
				info = yellow(fmt.Sprintf("%g", instr.Constant))
			}
		case op.Call:
			info = magenta(fmt.Sprintf("func:%s", instr.Ident))
		case op.Assign:
			info = cyan("=" + instr.Ident)
		}
		var args string
		if instr.Opcode == op.Call || instr.Opcode == op.Assign {
			args = fmt.Sprintf("%d", instr.Args)
		}
		lines = append(lines, []string{
			fmt.Sprintf("%d", instr.Offset),
			fmt.Sprintf("%d", instr.StackPos),
			bold(instr.Name),
			args,
			info,
		})
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "STACK", "KIND", "ARGS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func formatLinear(instr Instruction) string {
	var sb strings.Builder
	if instr.Coef != 1 {
		sb.WriteString(fmt.Sprintf("%g*", instr.Coef))
	}
	sb.WriteString(instr.Ident)
	if instr.Constant != 0 {
		sb.WriteString(fmt.Sprintf("%+g", instr.Constant))
	}
	return sb.String()
}

// EngineBits renders the engine selector of a program as one V (value) or
// C (call) per instruction, or N/A when the program is not classifiable.
func EngineBits(engineID, size int) string {
	if engineID <= 0 || size < 2 {
		return "N/A"
	}
	// The selector drops the trailing bit, which is always a call.
	bits := uint64(engineID) << 1
	var sb strings.Builder
	for i := size - 2; i >= 0; i-- {
		if bits&(1<<uint(i)) != 0 {
			sb.WriteByte('V')
		} else {
			sb.WriteByte('C')
		}
	}
	return sb.String()
}
