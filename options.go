package atombios

const (
	defaultRecursionLimit    = 32
	defaultInstructionBudget = 1 << 24
)

// Options controls the resource limits and diagnostics of an AtomBios
// instance. The zero value is not valid; use New's defaults via Option
// functions instead of constructing Options directly.
type Options struct {
	recursionLimit    int
	instructionBudget uint64
	trace             bool
	strict            bool
}

func defaultOptions() Options {
	return Options{
		recursionLimit:    defaultRecursionLimit,
		instructionBudget: defaultInstructionBudget,
	}
}

// Option configures an AtomBios at construction time.
type Option func(*Options)

// WithRecursionLimit overrides the default CALL_TABLE recursion depth cap.
func WithRecursionLimit(depth int) Option {
	return func(o *Options) { o.recursionLimit = depth }
}

// WithInstructionBudget overrides the default per-RunCommand opcode budget.
func WithInstructionBudget(n uint64) Option {
	return func(o *Options) { o.instructionBudget = n }
}

// WithTrace enables per-opcode structured logging at Trace level.
func WithTrace(enabled bool) Option {
	return func(o *Options) { o.trace = enabled }
}

// WithStrict promotes math/layout assertions (e.g. workSpaceSize%4==0) from
// a logged warning to a fatal construction error.
func WithStrict(enabled bool) Option {
	return func(o *Options) { o.strict = enabled }
}
