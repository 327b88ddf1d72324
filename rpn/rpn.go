// Package rpn is a producer for compiler programs. It reads a delimited
// token list in reverse Polish order, such as "x,2,*,1,+", and feeds it to a
// compiler.Program.
//
// Token forms:
//
//	1.5        literal value
//	x          variable bound with Variables
//	+ - * / ^  binary operators
//	sin        builtin function with its fixed arity
//	sum:3      builtin function with an explicit operand count
//	=x         assignment to a bound variable
package rpn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/numexpr/builtins"
	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/compiler"
	"github.com/deepnoodle-ai/numexpr/op"
)

// DefaultDelimiter separates tokens unless changed with Delimiter.
const DefaultDelimiter = ','

// ErrSyntax is returned when the token list cannot be assembled.
type ErrSyntax struct {
	// Pos is the zero-based index of the offending token, or -1 when the
	// error concerns the expression as a whole.
	Pos     int
	Token   string
	Message string
	Err     error
}

func (e ErrSyntax) Error() string {
	var sb strings.Builder
	sb.WriteString("syntax error")
	if e.Pos >= 0 {
		fmt.Fprintf(&sb, " at token %d (%q)", e.Pos, e.Token)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e ErrSyntax) Unwrap() error {
	return e.Err
}

// Option configures an Assembler.
type Option func(*Assembler) error

// Delimiter changes the token delimiter. Operator characters and the
// assignment and arity markers cannot be used.
func Delimiter(d rune) Option {
	return func(a *Assembler) error {
		if _, isOp := op.ParseBinaryOp(string(d)); isOp || d == '=' || d == ':' {
			return ErrSyntax{Pos: -1, Message: fmt.Sprintf("cannot use %q as delimiter", d)}
		}
		a.delimiter = d
		return nil
	}
}

// Variables binds variable names to caller-owned slots.
func Variables(vars map[string]*float64) Option {
	return func(a *Assembler) error {
		for name, slot := range vars {
			if slot == nil {
				return ErrSyntax{Pos: -1, Message: fmt.Sprintf("variable %s has no slot", name)}
			}
			a.vars[name] = slot
		}
		return nil
	}
}

// ProgramOptions sets the options of the programs created by Assemble.
func ProgramOptions(opts ...compiler.Option) Option {
	return func(a *Assembler) error {
		a.programOpts = append(a.programOpts, opts...)
		return nil
	}
}

// Assembler turns token lists into finalized programs.
type Assembler struct {
	delimiter   rune
	vars        map[string]*float64
	programOpts []compiler.Option
}

func New(opts ...Option) (*Assembler, error) {
	a := &Assembler{
		delimiter: DefaultDelimiter,
		vars:      map[string]*float64{},
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Assemble is a shorthand for New followed by Assembler.Assemble.
func Assemble(src string, opts ...Option) (*compiler.Program, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return a.Assemble(src)
}

// Assemble feeds the tokens of src to a new program and finalizes it. The
// expression must leave exactly one value on the stack.
func (a *Assembler) Assemble(src string) (*compiler.Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrSyntax{Pos: -1, Message: "empty expression"}
	}
	p := compiler.New(a.programOpts...)
	for i, raw := range strings.Split(src, string(a.delimiter)) {
		tok := strings.TrimSpace(raw)
		if err := a.push(p, tok); err != nil {
			if se, ok := err.(ErrSyntax); ok {
				se.Pos, se.Token = i, tok
				return nil, se
			}
			return nil, ErrSyntax{Pos: i, Token: tok, Message: "cannot assemble", Err: err}
		}
	}
	if depth := p.StackPos(); depth != 1 {
		return nil, ErrSyntax{Pos: -1, Message: fmt.Sprintf("expression leaves %d values on the stack", depth)}
	}
	p.Finalize()
	return p, nil
}

func (a *Assembler) push(p *compiler.Program, tok string) error {
	if tok == "" {
		return ErrSyntax{Message: "empty token"}
	}
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		p.PushValue(bytecode.NewConstant(v))
		return nil
	}
	if strings.HasPrefix(tok, "=") {
		return a.pushAssign(p, tok[1:])
	}
	name, arity, explicit, err := splitArity(tok)
	if err != nil {
		return err
	}
	if spec, ok := builtins.Lookup(name); ok {
		return a.pushCall(p, spec, arity, explicit)
	}
	if explicit {
		return ErrSyntax{Message: fmt.Sprintf("unknown function %s", name)}
	}
	if slot, ok := a.vars[tok]; ok {
		p.PushValue(bytecode.NewVariable(tok, slot))
		return nil
	}
	return ErrSyntax{Message: fmt.Sprintf("unknown identifier %s", tok)}
}

func splitArity(tok string) (string, int, bool, error) {
	idx := strings.LastIndexByte(tok, ':')
	if idx < 0 {
		return tok, 0, false, nil
	}
	n, err := strconv.Atoi(tok[idx+1:])
	if err != nil || n < 0 {
		return "", 0, false, ErrSyntax{Message: "invalid operand count", Err: err}
	}
	return tok[:idx], n, true, nil
}

func (a *Assembler) pushCall(p *compiler.Program, spec builtins.Spec, arity int, explicit bool) error {
	switch {
	case !explicit && spec.Arity == builtins.Variadic:
		return ErrSyntax{Message: fmt.Sprintf("%s needs an operand count, e.g. %s:2", spec.Name, spec.Name)}
	case !explicit:
		arity = spec.Arity
	case spec.Arity != builtins.Variadic && spec.Arity != arity:
		return ErrSyntax{Message: fmt.Sprintf("%s takes %d operands, got %d", spec.Name, spec.Arity, arity)}
	}
	if arity > p.StackPos() {
		return ErrSyntax{Message: fmt.Sprintf("%s needs %d operands, stack has %d", spec.Name, arity, p.StackPos())}
	}
	var c *bytecode.Call
	if spec.Binary {
		c = bytecode.NewOperator(spec.Name, spec.Func)
	} else {
		c = bytecode.NewCall(spec.Name, spec.Func, arity)
	}
	return p.PushCall(c)
}

func (a *Assembler) pushAssign(p *compiler.Program, name string) error {
	slot, ok := a.vars[name]
	if !ok {
		return ErrSyntax{Message: fmt.Sprintf("cannot assign to unbound variable %q", name)}
	}
	if p.StackPos() < 2 {
		return ErrSyntax{Message: "assignment needs a destination and a value"}
	}
	return p.PushAssign(bytecode.NewAssign(name, slot))
}

// ParseBindings parses "name=value" pairs into freshly allocated variable
// slots.
func ParseBindings(pairs []string) (map[string]*float64, error) {
	vars := make(map[string]*float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable binding %q, expected name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for variable %s: %w", name, err)
		}
		vars[name] = &v
	}
	return vars, nil
}
