package compiler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/errors"
)

// VerifyResult describes the stack behavior found by Verify.
type VerifyResult struct {
	// MaxDepth is the largest simulated stack depth.
	MaxDepth int

	// FinalDepth is the simulated depth at the end of the program.
	FinalDepth int
}

// Verify re-simulates the stack depth of a finalized program and checks it
// against the recorded stack positions and MaxStackSize. All violations are
// reported together in one internal error.
func Verify(p *Program) (VerifyResult, error) {
	var result VerifyResult
	var merr *multierror.Error

	if !p.Finalized() {
		merr = multierror.Append(merr, fmt.Errorf("program is not finalized"))
	}

	depth := 0
	last := len(p.code) - 1
	for i, ins := range p.code {
		switch ins := ins.(type) {
		case *bytecode.Value:
			depth++
		case *bytecode.Call:
			if ins.Binary {
				merr = multierror.Append(merr, fmt.Errorf("instruction %d: operator %s was not retagged", i, ins.Name))
			}
			if ins.Arity > depth {
				merr = multierror.Append(merr, fmt.Errorf("instruction %d: %s needs %d operands, stack has %d", i, ins.Name, ins.Arity, depth))
				depth = ins.Arity
			}
			depth = depth - ins.Arity + 1
		case *bytecode.Assign:
			if depth < 2 {
				merr = multierror.Append(merr, fmt.Errorf("instruction %d: assignment to %s needs 2 operands, stack has %d", i, ins.Name, depth))
				depth = 2
			}
			depth--
		case *bytecode.End:
			if i != last {
				merr = multierror.Append(merr, fmt.Errorf("instruction %d: END before the end of the program", i))
			}
		default:
			merr = multierror.Append(merr, fmt.Errorf("instruction %d: unknown kind %s", i, ins.Code()))
			continue
		}
		if depth > result.MaxDepth {
			result.MaxDepth = depth
		}
		if ins.StackPos() != depth {
			merr = multierror.Append(merr, fmt.Errorf("instruction %d (%s): recorded stack position %d, simulated %d", i, ins, ins.StackPos(), depth))
		}
	}
	result.FinalDepth = depth

	if p.MaxStackSize()-1 < result.MaxDepth {
		merr = multierror.Append(merr, fmt.Errorf("max stack size %d is below the simulated depth %d", p.MaxStackSize()-1, result.MaxDepth))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return result, errors.NewInternalError(errors.E4006, err)
	}
	return result, nil
}
