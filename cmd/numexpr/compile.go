package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/numexpr/bytecode"
	"github.com/deepnoodle-ai/numexpr/compiler"
	"github.com/deepnoodle-ai/numexpr/dis"
	"github.com/deepnoodle-ai/numexpr/rpn"
)

func newCompileCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <tokens>",
		Short: "Assemble an RPN token list and print the resulting bytecode",
		Example: `  numexpr compile "x,2,*,1,+" --var x=3
  numexpr compile "a b c * +" --delimiter " " --var a=1,b=2,c=3 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, v, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringP("delimiter", "d", string(rpn.DefaultDelimiter), "Token delimiter")
	flags.StringSlice("var", nil, "Variable binding name=value, repeatable")
	flags.Bool("no-optimizer", false, "Disable fusion and folding")
	flags.Bool("constant-folding", false, "Fold calls on literal operands")
	flags.Bool("linear-folding", false, "Fold linear value arithmetic")
	v.BindPFlags(flags)
	return cmd
}

func programConfig(v *viper.Viper) compiler.Config {
	cfg := compiler.DefaultConfig()
	cfg.Optimizer = !v.GetBool("no-optimizer")
	cfg.ConstantFolding = v.GetBool("constant-folding")
	cfg.LinearFolding = v.GetBool("linear-folding")
	return cfg
}

func runCompile(cmd *cobra.Command, v *viper.Viper, src string) error {
	delimiter := v.GetString("delimiter")
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	d, _ := utf8.DecodeRuneInString(delimiter)

	vars, err := rpn.ParseBindings(v.GetStringSlice("var"))
	if err != nil {
		return err
	}

	log := newLogger(cmd, v)
	p, err := rpn.Assemble(src,
		rpn.Delimiter(d),
		rpn.Variables(vars),
		rpn.ProgramOptions(compiler.WithConfig(programConfig(v)), compiler.WithLogger(log)),
	)
	if err != nil {
		return err
	}
	if _, err := compiler.Verify(p); err != nil {
		return err
	}
	log.Debug().Str("program", p.ID().String()).Int("size", p.Size()).Msg("assembled")
	return writeProgram(cmd.OutOrStdout(), p, v.GetString("output"))
}

type instructionJSON struct {
	Offset   int      `json:"offset"`
	StackPos int      `json:"stack_pos"`
	Kind     string   `json:"kind"`
	Ident    string   `json:"ident,omitempty"`
	Addr     string   `json:"addr,omitempty"`
	Coef     float64  `json:"coef,omitempty"`
	Constant *float64 `json:"constant,omitempty"`
	Args     int      `json:"args,omitempty"`
}

type programJSON struct {
	ID           string            `json:"id"`
	Size         int               `json:"size"`
	MaxStackSize int               `json:"max_stack_size"`
	EngineID     int               `json:"engine_id"`
	EngineBits   string            `json:"engine_bits"`
	Stats        bytecode.Stats    `json:"stats"`
	Instructions []instructionJSON `json:"instructions"`
}

func writeProgram(w io.Writer, p *compiler.Program, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return dis.Dump(p, w)
	case "table":
		instructions, err := dis.Disassemble(p)
		if err != nil {
			return err
		}
		dis.Print(instructions, w)
		return nil
	case "json":
		instructions, err := dis.Disassemble(p)
		if err != nil {
			return err
		}
		summary := programJSON{
			ID:           p.ID().String(),
			Size:         p.Size(),
			MaxStackSize: p.MaxStackSize(),
			EngineID:     p.EngineID(),
			EngineBits:   dis.EngineBits(p.EngineID(), p.Size()),
			Stats:        p.Stats(),
		}
		for _, instr := range instructions {
			row := instructionJSON{
				Offset:   instr.Offset,
				StackPos: instr.StackPos,
				Kind:     instr.Name,
				Ident:    instr.Ident,
				Addr:     instr.Addr,
				Coef:     instr.Coef,
				Args:     instr.Args,
			}
			if instr.Addr != "" {
				constant := instr.Constant
				row.Constant = &constant
			}
			summary.Instructions = append(summary.Instructions, row)
		}
		data, err := getOutputJSON(summary)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
