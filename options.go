package calc

import (
	"time"

	"github.com/rs/zerolog"
)

// Option is an option for evaluating an expression.
type Option interface {
	option(config) config
}

// config holds the settings for one evaluation.
type config struct {
	lim     Limits
	timeout time.Duration
	vars    map[string]Number
	log     zerolog.Logger
}

// Limits bounds the resources an evaluation may use. A zero field takes the
// corresponding value from DefaultLimits. A negative field disables that
// limit; for Precision, it selects the default.
type Limits struct {
	// MaxDepth is the deepest nesting of brackets, calls, and unary operators.
	MaxDepth int `yaml:"max_depth"`
	// MaxOps is the number of operations and calls an evaluation may perform.
	MaxOps int64 `yaml:"max_ops"`
	// MaxFactorial is the largest operand allowed for !.
	MaxFactorial int64 `yaml:"max_factorial"`
	// MaxBits is the largest size in bits of an integer produced by a power
	// or a left shift.
	MaxBits int `yaml:"max_bits"`
	// Precision is the number of significant decimal digits kept by inexact
	// division and by approximate functions.
	Precision int32 `yaml:"precision"`
	// ApproxPow allows fractional exponents, computed approximately.
	ApproxPow bool `yaml:"approx_pow"`
}

// DefaultLimits are the limits used for any limit that is not set.
// MaxOps is zero, meaning there is no operation budget by default.
var DefaultLimits = Limits{
	MaxDepth:     256,
	MaxFactorial: 10000,
	MaxBits:      1 << 20,
	Precision:    50,
}

// resolve fills zero fields from DefaultLimits.
func (l Limits) resolve() Limits {
	if l.MaxDepth == 0 {
		l.MaxDepth = DefaultLimits.MaxDepth
	}
	if l.MaxOps == 0 {
		l.MaxOps = DefaultLimits.MaxOps
	}
	if l.MaxFactorial == 0 {
		l.MaxFactorial = DefaultLimits.MaxFactorial
	}
	if l.MaxBits == 0 {
		l.MaxBits = DefaultLimits.MaxBits
	}
	if l.Precision <= 0 {
		l.Precision = DefaultLimits.Precision
	}
	return l
}

type (
	limitsopt  Limits
	depthopt   int
	opsopt     int64
	factopt    int64
	bitsopt    int
	precopt    int32
	approxopt  bool
	timeoutopt time.Duration
	varopt     struct {
		name string
		val  Number
	}
	varsopt map[string]Number
	logopt  struct {
		log zerolog.Logger
	}
)

// WithLimits replaces every limit at once. Options that set single limits
// and follow WithLimits override it.
func WithLimits(l Limits) Option {
	return limitsopt(l)
}

func (o limitsopt) option(c config) config {
	c.lim = Limits(o)
	return c
}

// MaxDepth sets the deepest nesting of brackets, calls, and unary operators
// an expression may have. The default is 256.
func MaxDepth(n int) Option {
	return depthopt(n)
}

func (o depthopt) option(c config) config {
	c.lim.MaxDepth = int(o)
	return c
}

// MaxOps sets the number of operations and function calls an evaluation may
// perform. By default there is no limit.
func MaxOps(n int64) Option {
	return opsopt(n)
}

func (o opsopt) option(c config) config {
	c.lim.MaxOps = int64(o)
	return c
}

// MaxFactorial sets the largest operand allowed for !. The default is 10000.
func MaxFactorial(n int64) Option {
	return factopt(n)
}

func (o factopt) option(c config) config {
	c.lim.MaxFactorial = int64(o)
	return c
}

// MaxBits sets the largest size in bits of a result of pow or <<. The
// default is 1<<20.
func MaxBits(n int) Option {
	return bitsopt(n)
}

func (o bitsopt) option(c config) config {
	c.lim.MaxBits = int(o)
	return c
}

// Precision sets the number of significant decimal digits kept by inexact
// division and approximate functions. The default is 50.
func Precision(digits int32) Option {
	return precopt(digits)
}

func (o precopt) option(c config) config {
	c.lim.Precision = int32(o)
	return c
}

// ApproxPow allows fractional exponents. Their results are approximate and
// marked inexact.
func ApproxPow(on bool) Option {
	return approxopt(on)
}

func (o approxopt) option(c config) config {
	c.lim.ApproxPow = bool(o)
	return c
}

// Timeout limits the wall-clock time of an evaluation. An evaluation that
// runs out of time fails with a *TimeoutError.
func Timeout(d time.Duration) Option {
	return timeoutopt(d)
}

func (o timeoutopt) option(c config) config {
	c.timeout = time.Duration(o)
	return c
}

// SetVar sets the value of a variable.
func SetVar(name string, val Number) Option {
	return varopt{name, val}
}

func (o varopt) option(c config) config {
	c.vars = cloneVars(c.vars, 1)
	c.vars[o.name] = o.val
	return c
}

// SetVars sets the values of any number of variables.
func SetVars(vars map[string]Number) Option {
	return varsopt(vars)
}

func (o varsopt) option(c config) config {
	c.vars = cloneVars(c.vars, len(o))
	for k, v := range o {
		c.vars[k] = v
	}
	return c
}

// cloneVars copies m with room for n more variables. Options never write to
// a map they did not create.
func cloneVars(m map[string]Number, n int) map[string]Number {
	r := make(map[string]Number, len(m)+n)
	for k, v := range m {
		r[k] = v
	}
	return r
}

var nopLogger = zerolog.Nop()

// Logger sets the logger that receives a debug event for each evaluation.
// The default discards everything.
func Logger(log zerolog.Logger) Option {
	return logopt{log}
}

func (o logopt) option(c config) config {
	c.log = o.log
	return c
}
