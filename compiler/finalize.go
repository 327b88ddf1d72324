package compiler

import (
	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/op"
)

// Finalize seals the program: it runs the fusion pass, appends the End
// terminator and computes the engine selector. Calling it again on an
// unmodified program changes nothing.
func (p *Program) Finalize() {
	p.Substitute()
	if !p.Finalized() {
		end := bytecode.NewEnd()
		end.SetStackPos(p.stackPos)
		p.code = append(p.code, end)
	}
	p.engineID = Classify(p.code)
	p.log.Debug().
		Int("size", len(p.code)).
		Int("max_stack_size", p.MaxStackSize()).
		Int("engine_id", p.engineID).
		Msg("finalized program")
}

// Classify computes the engine selector of an instruction sequence. The
// sequence is read as a bit string, one bit per value (1) or call (0), with
// the last instruction in the lowest bit. Programs that start with a call or
// contain anything other than values, calls and End are not classifiable and
// get -1.
func Classify(code []bytecode.Instruction) int {
	var bits uint32
	for i, ins := range code {
		switch ins.Code() {
		case op.Value:
			bits = bits<<1 | 1
		case op.Call:
			// Starts with a function, e.g. "rnd()+1"
			if i == 0 {
				return -1
			}
			bits <<= 1
		case op.End:
		default:
			return -1
		}
	}
	if bits != 0 && (bits&1 == 0 || bits == 1) {
		return int(bits / 2)
	}
	return -1
}
