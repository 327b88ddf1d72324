package compiler

import (
	"strconv"

	"github.com/deepnoodle-ai/numexpr/builtins"
	"github.com/deepnoodle-ai/numexpr/bytecode"
)

// maxFoldArgs bounds the scratch buffer used for constant folding. Calls with
// this many operands or more are never folded.
const maxFoldArgs = 20

// tryFold applies the folding rules to a call about to be pushed. It returns
// true when the call was absorbed and must not be appended. The rules may
// rewrite tok, which is then appended by the caller.
func (p *Program) tryFold(tok *bytecode.Call) (bool, error) {
	if p.cfg.ConstantFolding && p.tryConstantFolding(tok) {
		return true, nil
	}
	if !p.cfg.LinearFolding || !tok.Binary {
		return false, nil
	}
	switch tok.Name {
	case "+", "-":
		return p.tryLinearAddSub(tok)
	case "*":
		return p.tryLinearMul(), nil
	case "^":
		return p.tryIntPow()
	}
	return false, nil
}

// tryConstantFolding evaluates a call whose operands are all literal values
// and replaces the operands with the result.
func (p *Program) tryConstantFolding(tok *bytecode.Call) bool {
	n := tok.Arity
	if n == 0 || n >= maxFoldArgs || len(p.code) < n || tok.Func == nil {
		return false
	}
	var buf [maxFoldArgs]float64
	base := len(p.code) - n
	for i := 0; i < n; i++ {
		v, ok := p.code[base+i].(*bytecode.Value)
		if !ok || !v.IsConstant() {
			return false
		}
		buf[i] = v.Offset
	}
	tok.Func.Call(buf[:], n)

	result := p.code[base].(*bytecode.Value)
	for i := base + 1; i < len(p.code); i++ {
		p.code[i] = nil
	}
	p.code = p.code[:base+1]
	result.ResetVariablePart()
	result.Offset = buf[0]
	p.stackPos = result.StackPos()
	p.log.Debug().Str("call", tok.Name).Float64("result", buf[0]).Msg("folded constant call")
	return true
}

// tryLinearAddSub merges two trailing values of an addition or subtraction
// into one linear value when at most one of them references a variable, or
// both reference the same one.
func (p *Program) tryLinearAddSub(tok *bytecode.Call) (bool, error) {
	sz := len(p.code)

	// Turn a subtraction of a value into an addition of the negated value so
	// the rest only has to deal with additions.
	if tok.Name == "-" && sz >= 1 {
		last, ok := p.code[sz-1].(*bytecode.Value)
		if ok {
			if last.Coef != 0 {
				last.Coef = -last.Coef
			}
			if last.Offset != 0 {
				last.Offset = -last.Offset
			}
			tok.Name = "+"
			tok.Func = builtins.Add

			// An addition directly in front can now absorb the value:
			// "x + ... v -" becomes "x (... + -v) +".
			if prev, isAdd := p.prevAdd(sz); isAdd {
				if err := p.PopLast(); err != nil {
					return false, err
				}
				if err := p.PopLast(); err != nil {
					return false, err
				}
				p.PushValue(last)
				prev.Binary = true
				if err := p.PushCall(prev); err != nil {
					return false, err
				}
				sz = len(p.code)
			}
		}
	}

	if sz < 2 {
		return false, nil
	}
	a, okA := p.code[sz-2].(*bytecode.Value)
	b, okB := p.code[sz-1].(*bytecode.Value)
	if !okA || !okB {
		return false, nil
	}
	if !a.IsConstant() && !b.IsConstant() && a.Source != b.Source {
		return false, nil
	}
	sign := 1.0
	if tok.Name == "-" {
		sign = -1
	}
	if !b.IsConstant() {
		a.Source = b.Source
		a.Name = b.Name
	}
	a.Offset += sign * b.Offset
	a.Coef += sign * b.Coef
	if err := p.PopLast(); err != nil {
		return false, err
	}
	if a.Coef == 0 {
		a.ResetVariablePart()
	}
	p.log.Debug().Str("call", tok.Name).Str("value", a.String()).Msg("folded linear values")
	return true, nil
}

// prevAdd returns a copy of the binary addition at sz-2 when it is followed by
// a value.
func (p *Program) prevAdd(sz int) (*bytecode.Call, bool) {
	if sz < 2 {
		return nil, false
	}
	c, ok := p.code[sz-2].(*bytecode.Call)
	if !ok || c.Name != "+" || c.Arity != 2 {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// tryLinearMul scales a variable value by a literal.
func (p *Program) tryLinearMul() bool {
	sz := len(p.code)
	if sz < 2 {
		return false
	}
	a, okA := p.code[sz-2].(*bytecode.Value)
	b, okB := p.code[sz-1].(*bytecode.Value)
	if !okA || !okB {
		return false
	}
	switch {
	case b.IsConstant() && !a.IsConstant():
		a.Coef *= b.Offset
		a.Offset *= b.Offset
	case !b.IsConstant() && a.IsConstant():
		k := a.Offset
		a.Source = b.Source
		a.Name = b.Name
		a.Coef = b.Coef * k
		a.Offset = b.Offset * k
	default:
		return false
	}
	// The accessor cannot fail, the program holds at least two values.
	_ = p.PopLast()
	if a.Coef == 0 {
		a.ResetVariablePart()
	}
	p.log.Debug().Str("value", a.String()).Msg("folded linear product")
	return true
}

// tryIntPow replaces "x n ^" with a unary power call when n is a literal
// integer from 2 to 5.
func (p *Program) tryIntPow() (bool, error) {
	sz := len(p.code)
	if sz < 2 {
		return false, nil
	}
	top, ok := p.code[sz-1].(*bytecode.Value)
	if !ok || !top.IsConstant() {
		return false, nil
	}
	n := int(top.Offset)
	if float64(n) != top.Offset {
		return false, nil
	}
	fn, ok := builtins.IntPow(n)
	if !ok {
		return false, nil
	}
	if err := p.PopLast(); err != nil {
		return false, err
	}
	p.log.Debug().Int("exponent", n).Msg("replaced power call")
	return true, p.AppendRaw(bytecode.NewCall("^"+strconv.Itoa(n), fn, 1))
}
