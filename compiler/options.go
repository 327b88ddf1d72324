package compiler

import "github.com/rs/zerolog"

// DefaultCapacity is the number of instructions preallocated for a program.
const DefaultCapacity = 50

// Config holds the assembler and optimizer settings.
type Config struct {
	// Optimizer enables the optimizer family. When false, neither operator
	// fusion nor the folding rules run.
	Optimizer bool

	// ConstantFolding evaluates calls whose operands are all literals at
	// compile time. Off by default; it also requires Optimizer.
	ConstantFolding bool

	// LinearFolding merges adjacent values across add, subtract, multiply
	// and small integer powers. Off by default; it also requires Optimizer.
	LinearFolding bool

	// Capacity is the number of instructions to preallocate.
	Capacity int
}

// DefaultConfig returns the configuration used by New when no options are
// given: fusion on, folding rules off.
func DefaultConfig() Config {
	return Config{
		Optimizer: true,
		Capacity:  DefaultCapacity,
	}
}

// Option is a configuration function for a Program.
type Option func(*Program)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(p *Program) {
		p.cfg = cfg
	}
}

// WithOptimizer enables or disables the optimizer family.
func WithOptimizer(enabled bool) Option {
	return func(p *Program) {
		p.cfg.Optimizer = enabled
	}
}

// WithConstantFolding enables or disables compile-time evaluation of calls
// on literal operands.
func WithConstantFolding(enabled bool) Option {
	return func(p *Program) {
		p.cfg.ConstantFolding = enabled
	}
}

// WithLinearFolding enables or disables the linear value merge rules.
func WithLinearFolding(enabled bool) Option {
	return func(p *Program) {
		p.cfg.LinearFolding = enabled
	}
}

// WithCapacity sets the number of instructions to preallocate.
func WithCapacity(n int) Option {
	return func(p *Program) {
		p.cfg.Capacity = n
	}
}

// WithLogger sets the logger that receives optimizer decisions at debug
// level. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Program) {
		p.log = logger
	}
}
