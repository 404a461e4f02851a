package calc

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// Func is a function that an expression can call. Implementations must be
// safe to call concurrently, since one table may serve many evaluations.
type Func interface {
	// Arity returns the number of arguments the function takes. The
	// evaluator rejects calls with any other number of arguments with a
	// *CallError before calling the function.
	Arity() int

	// Call evaluates the function. len(args) is always Arity(). Functions that
	// may run for a long time should check env.Context, and functions that
	// build large results should respect env.Limits.
	//
	// Errors of the types in this package are annotated with the position of
	// the call. Other errors are returned from the evaluation unchanged.
	Call(env *Env, args []Number) (Number, error)
}

// FunctionTable is the set of functions available to an expression.
type FunctionTable interface {
	// Lookup returns the function with the given name, if there is one.
	Lookup(name string) (Func, bool)
}

// Funcs is a FunctionTable backed by a map. A nil entry is the same as a
// missing one.
type Funcs map[string]Func

// Lookup implements FunctionTable.
func (f Funcs) Lookup(name string) (Func, bool) {
	fn := f[name]
	return fn, fn != nil
}

// Builtins returns a new function table holding the default functions:
//
//	abs(x)     absolute value
//	pow(x, y)  x raised to the power y
//	div(x, y)  quotient of x and y truncated toward zero
//	mod(x, y)  remainder of x and y, with the sign of x
//	sqrt(x)    square root, exact when the root terminates
//	exp(x)     e raised to the power x
//	ln(x)      natural logarithm
//	log(x)     base-10 logarithm
//	pi()       the circle constant
//	e()        Euler's number
//
// The table is a fresh map, so callers may add or remove functions.
func Builtins() Funcs {
	return Funcs{
		"abs": Monadic(func(env *Env, x Number) (Number, error) {
			return x.Abs(), nil
		}),
		"pow": Dyadic(func(env *Env, x, y Number) (Number, error) {
			return x.Pow(y, env.Limits())
		}),
		"div": Dyadic(func(env *Env, x, y Number) (Number, error) {
			return x.QuoInt(y)
		}),
		"mod": Dyadic(func(env *Env, x, y Number) (Number, error) {
			return x.Rem(y)
		}),
		"sqrt": Monadic(sqrt),
		"exp":  Approx("exp", expDomain, bigfloat.Exp),
		"ln":   Approx("ln", positive, bigfloat.Log),
		"log": Approx("log", positive, func(out, in *big.Float) *big.Float {
			bigfloat.Log(out, in)
			in.SetFloat64(10).SetPrec(out.Prec())
			bigfloat.Log(in, in)
			return out.Quo(out, in)
		}),
		"pi": ApproxConst(bigfloat.Pi),
		"e": ApproxConst(func(out *big.Float) *big.Float {
			// Exp converges only to the precision of its argument.
			one := new(big.Float).SetPrec(out.Prec()).SetInt64(1)
			return bigfloat.Exp(out, one)
		}),
	}
}

type niladic func(env *Env) (Number, error)

func (f niladic) Arity() int {
	return 0
}

func (f niladic) Call(env *Env, args []Number) (Number, error) {
	return f(env)
}

// Niladic wraps a function of no arguments, generally one that computes a
// constant, into a Func.
func Niladic(f func(env *Env) (Number, error)) Func {
	return niladic(f)
}

type monadic func(env *Env, x Number) (Number, error)

func (f monadic) Arity() int {
	return 1
}

func (f monadic) Call(env *Env, args []Number) (Number, error) {
	return f(env, args[0])
}

// Monadic wraps a function of one argument into a Func.
func Monadic(f func(env *Env, x Number) (Number, error)) Func {
	return monadic(f)
}

type dyadic func(env *Env, x, y Number) (Number, error)

func (f dyadic) Arity() int {
	return 2
}

func (f dyadic) Call(env *Env, args []Number) (Number, error) {
	return f(env, args[0], args[1])
}

// Dyadic wraps a function of two arguments into a Func.
func Dyadic(f func(env *Env, x, y Number) (Number, error)) Func {
	return dyadic(f)
}

type approx struct {
	name   string
	domain func(x Number, lim Limits) error
	f      func(out, in *big.Float) *big.Float
}

func (a approx) Arity() int {
	return 1
}

func (a approx) Call(env *Env, args []Number) (r Number, err error) {
	x := args[0]
	lim := env.Limits()
	if a.domain != nil {
		if err := a.domain(x, lim); err != nil {
			if d, ok := err.(*DomainError); ok {
				d.Func = a.name
			}
			return Number{}, err
		}
	}
	bits := floatPrec(lim.Precision)
	in, err := x.Float(bits)
	if err != nil {
		return Number{}, err
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); ok {
			r, err = Number{}, &DomainError{X: x, Func: a.name}
			return
		}
		panic(p)
	}()
	out := a.f(new(big.Float).SetPrec(bits), in)
	return fromFloat(out, lim.Precision)
}

// Approx wraps a real function of one argument computed with big.Float into
// a Func. The argument is converted with enough bits for the evaluation's
// precision, and the result is rounded to that many significant digits and
// marked inexact. f must set out to its result and may modify in.
//
// If domain is not nil, it is called first to reject arguments; a
// *DomainError it returns is attributed to name. If f panics with
// big.ErrNaN, the call fails with a *DomainError.
func Approx(name string, domain func(x Number, lim Limits) error, f func(out, in *big.Float) *big.Float) Func {
	return approx{name: name, domain: domain, f: f}
}

type approxConst struct {
	f func(out *big.Float) *big.Float
}

func (a approxConst) Arity() int {
	return 0
}

func (a approxConst) Call(env *Env, args []Number) (Number, error) {
	prec := env.Limits().Precision
	out := a.f(new(big.Float).SetPrec(floatPrec(prec)))
	return fromFloat(out, prec)
}

// ApproxConst wraps a function computing a constant with big.Float into a
// Func of no arguments. Like Approx, the result is rounded to the
// evaluation's precision and marked inexact.
func ApproxConst(f func(out *big.Float) *big.Float) Func {
	return approxConst{f}
}

// positive rejects arguments that are not greater than zero.
func positive(x Number, lim Limits) error {
	if x.Sign() <= 0 {
		return &DomainError{X: x}
	}
	return nil
}

// expDomain rejects arguments whose exponentials would be longer than the
// evaluation allows. Beyond about MaxBits·ln 2, e^x has more than MaxBits
// bits before the point. Negative arguments only give small results.
func expDomain(x Number, lim Limits) error {
	if lim.MaxBits <= 0 {
		return nil
	}
	bound := decimal.NewFromInt(int64(lim.MaxBits)).Mul(decimal.RequireFromString("0.6931471805599453"))
	if x.Decimal().GreaterThan(bound) {
		return &LimitError{Limit: "bits", Max: int64(lim.MaxBits)}
	}
	return nil
}

// sqrt computes an exact square root when one exists and an approximate one
// otherwise.
func sqrt(env *Env, x Number) (Number, error) {
	if x.Sign() < 0 {
		return Number{}, &DomainError{X: x, Func: "sqrt"}
	}
	if r, ok := exactSqrt(x); ok {
		return r, nil
	}
	lim := env.Limits()
	bits := floatPrec(lim.Precision)
	f, err := x.Float(bits)
	if err != nil {
		return Number{}, err
	}
	return fromFloat(new(big.Float).SetPrec(bits).Sqrt(f), lim.Precision)
}

// exactSqrt finds the square root of x if it terminates. The root of an
// integer is an integer, and the root of a decimal with scale 2k has scale k.
func exactSqrt(x Number) (Number, bool) {
	c, scale := x.coeff(), x.Scale()
	if scale < 0 {
		// Fold implied trailing zeros into the coefficient.
		c = new(big.Int).Mul(c, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-scale)), nil))
		scale = 0
	}
	if scale%2 != 0 {
		// Scale up by ten so the root has a whole scale.
		c = new(big.Int).Mul(c, big.NewInt(10))
		scale++
	}
	r := new(big.Int).Sqrt(c)
	if new(big.Int).Mul(r, r).Cmp(c) != 0 {
		return Number{}, false
	}
	if x.IsInt() {
		return Number{i: r, inexact: x.inexact}, true
	}
	return Number{dec: true, d: decimal.NewFromBigInt(r, -scale/2), inexact: x.inexact}, true
}
