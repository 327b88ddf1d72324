package dis

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/compiler"
)

type dumpWriter struct {
	w   io.Writer
	err error
}

func (d *dumpWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// Dump writes the plain text listing of a program: a header line with the
// engine selector, then one line per instruction up to END. Unknown kinds
// are listed rather than rejected.
func Dump(p *compiler.Program, w io.Writer) error {
	d := &dumpWriter{w: w}
	if p.Size() == 0 {
		d.printf("No bytecode available\n")
		return d.err
	}
	d.printf("Engine ID:%d;  Code: %s;  Number of tokens:%d\n",
		p.EngineID(), EngineBits(p.EngineID(), p.Size()), p.Size()-1)

	for i := 0; i < p.Size(); i++ {
		ins := p.InstructionAt(i)
		if _, ok := ins.(*bytecode.End); ok {
			break
		}
		d.printf("%d : %d\t", i, ins.StackPos())
		switch ins := ins.(type) {
		case *bytecode.Value:
			d.printf("VAL \t")
			if ins.IsConstant() {
				d.printf("[ADDR: %s]", AddrNull)
			} else {
				d.printf("[ADDR: %s][IDENT:%s][COEF:%g]", AddrSlot, ins.Name, ins.Coef)
			}
			d.printf("[CON:%g]\n", ins.Offset)
		case *bytecode.Call:
			if ins.Binary {
				d.printf("(unknown code: %s)\n", ins.Code())
				continue
			}
			d.printf("CALL\t[IDENT:%s][ARG:%d]\n", ins.Name, ins.Arity)
		case *bytecode.Assign:
			d.printf("ASSIGN\t[IDENT:%s]\n", ins.Name)
		default:
			d.printf("(unknown code: %s)\n", ins.Code())
		}
	}
	d.printf("END\n")
	return d.err
}
