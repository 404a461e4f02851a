package calc_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/calc"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		want    string
		isint   bool
		inexact bool
	}{
		{"num", "1", "1", true, false},
		{"add", "2 + 3", "5", true, false},
		{"hex", "0x10", "16", true, false},
		{"bin", "0b101", "5", true, false},
		{"oct", "0o17", "15", true, false},
		{"and", "5 & 3", "1", true, false},
		{"lsh", "1 << 4", "16", true, false},
		{"fact", "5!", "120", true, false},
		{"exact-div", "6 / 3", "2", true, false},
		{"half", "7 / 2", "3.5", false, false},
		{"third", "1 / 3", "0." + strings.Repeat("3", 50), false, true},
		{"tenths", "0.1 + 0.2", "0.3", false, false},
		{"scale", "1.50 + 1", "2.50", false, false},
		{"square", "1.5 * 1.5", "2.25", false, false},
		{"rem-trunc", "-7 % 3", "-1", true, false},
		{"rem-dec", "5.5 % 2", "1.5", false, false},
		{"big", "0xffffffffffffffffffffffffffffffff + 1", "340282366920938463463374607431768211456", true, false},
		{"big-fact", "30!", "265252859812191058636308480000000", true, false},
		{"neg-shift", "-1 << 100 >> 100", "-1", true, false},
		{"not", "~0x0f & 0xff", "240", true, false},
		{"inexact-sticks", "1/3 * 3", "0." + strings.Repeat("9", 50), false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Evaluate(c.src, nil)
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", c.src, err)
			}
			if got := r.String(); got != c.want {
				t.Errorf("%q: want %s, got %s", c.src, c.want, got)
			}
			if r.IsInt() != c.isint {
				t.Errorf("%q: wrong kind for %v: want IsInt %t", c.src, r, c.isint)
			}
			if r.Inexact() != c.inexact {
				t.Errorf("%q: wrong exactness for %v: want Inexact %t", c.src, r, c.inexact)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want interface{}
		col  int
	}{
		{"div-zero", "1 / 0", new(*calc.DivisionByZeroError), 3},
		{"rem-zero", "1 % 0", new(*calc.DivisionByZeroError), 3},
		{"div-zero-dec", "1 / 0.0", new(*calc.DivisionByZeroError), 3},
		{"div-zero-nested", "2 * (1 / 0)", new(*calc.DivisionByZeroError), 8},
		{"fact-neg", "(-1)!", new(*calc.DomainError), 5},
		{"fact-dec", "1.5!", new(*calc.DomainError), 4},
		{"and-dec", "1.5 & 1", new(*calc.TypeError), 5},
		{"shift-dec", "1 << 1.0", new(*calc.TypeError), 3},
		{"not-dec", "~1.5", new(*calc.TypeError), 1},
		{"shift-neg", "1 << -1", new(*calc.DomainError), 3},
		{"unknown", "foo(1)", new(*calc.UnknownFunctionError), 1},
		{"unknown-later", "1 + foo()", new(*calc.UnknownFunctionError), 5},
		{"arity", "abs(1, 2)", new(*calc.CallError), 1},
		{"arity-none", "abs()", new(*calc.CallError), 1},
		{"bare-func", "sqrt + 1", new(*calc.CallError), 1},
		{"undefined", "x + 1", new(*calc.NameError), 1},
		{"pow-frac", "pow(2, 0.5)", new(*calc.DomainError), 1},
		{"pow-zero-neg", "pow(0, -1)", new(*calc.DivisionByZeroError), 1},
		{"div-func-zero", "div(1, 0)", new(*calc.DivisionByZeroError), 1},
		{"sqrt-neg", "sqrt(-1)", new(*calc.DomainError), 1},
		{"ln-zero", "2 ln(0)", new(*calc.DomainError), 3},
		{"log-neg", "log(-10)", new(*calc.DomainError), 1},
		{"fact-limit", "10001!", new(*calc.LimitError), 6},
		{"shift-limit", "1 << 2000000", new(*calc.LimitError), 3},
		{"pow-limit", "pow(10, 1000000)", new(*calc.LimitError), 1},
		{"exp-limit", "exp(1000000)", new(*calc.LimitError), 1},
		{"arg-error-first", "foo(1/0)", new(*calc.DivisionByZeroError), 6},
	}
	fns := calc.Builtins()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Evaluate(c.src, fns)
			if err == nil {
				t.Fatalf("%q: expected error, got %v", c.src, r)
			}
			if !errors.As(err, c.want) {
				t.Fatalf("%q: wrong error type %T: %v", c.src, err, err)
			}
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%q: error %v has no position", c.src, err)
			}
			if ie.Pos() != c.col {
				t.Errorf("%q: wanted error at %d, got %d: %v", c.src, c.col, ie.Pos(), err)
			}
			if !r.IsZero() {
				t.Errorf("%q: partial result %v with error", c.src, r)
			}
		})
	}
}

func TestCallErrorDetail(t *testing.T) {
	_, err := calc.Evaluate("pow(1, 2, 3)", calc.Builtins())
	var ce *calc.CallError
	if !errors.As(err, &ce) {
		t.Fatalf("wanted *CallError, got %v", err)
	}
	if ce.Func != "pow" || ce.Want != 2 || ce.Len != 3 {
		t.Errorf("wrong call error details: %+v", ce)
	}
}

func TestBuiltins(t *testing.T) {
	cases := []struct {
		src     string
		want    string
		inexact bool
	}{
		{"abs(-5)", "5", false},
		{"abs(-2.50)", "2.50", false},
		{"pow(2, 10)", "1024", false},
		{"pow(2, 100)", "1267650600228229401496703205376", false},
		{"pow(1.1, 2)", "1.21", false},
		{"pow(2, -3)", "0.125", false},
		{"div(-7, 2)", "-3", false},
		{"div(7.5, 2)", "3", false},
		{"mod(-7, 3)", "-1", false},
		{"sqrt(16)", "4", false},
		{"sqrt(2.25)", "1.5", false},
		{"sqrt(0.0004)", "0.02", false},
		{"sqrt(0)", "0", false},
		{"pi", "3.1415926535897932384626433832795028841971693993751", true},
		{"pi()", "3.1415926535897932384626433832795028841971693993751", true},
		{"e", "2.7182818284590452353602874713526624977572470937", true},
	}
	fns := calc.Builtins()
	for _, c := range cases {
		r, err := calc.Evaluate(c.src, fns)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.src, err)
			continue
		}
		if got := r.String(); !strings.HasPrefix(got, c.want) {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
		if r.Inexact() != c.inexact {
			t.Errorf("%q: wrong exactness for %v: want Inexact %t", c.src, r, c.inexact)
		}
	}

	approx := []struct {
		src  string
		want string
	}{
		{"sqrt(2)", "1.4142135623730950488016887242096980785696718753769"},
		{"exp(1)", "2.7182818284590452353602874713526624977572470937"},
		{"ln(e)", "1"},
		{"log(1000)", "3"},
		{"2pi", "6.2831853071795864769252867665590057683943387987502"},
	}
	tol := decimal.New(1, -40)
	for _, c := range approx {
		r, err := calc.Evaluate(c.src, fns)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.src, err)
			continue
		}
		if !r.Inexact() {
			t.Errorf("%q: approximate result %v is exact", c.src, r)
		}
		want := decimal.RequireFromString(c.want)
		if d := r.Decimal().Sub(want).Abs(); d.GreaterThan(tol) {
			t.Errorf("%q: want about %s, got %v", c.src, c.want, r)
		}
	}
}

func TestConstantPrecision(t *testing.T) {
	fns := calc.Builtins()
	for _, prec := range []int32{20, 50, 120} {
		e, err := calc.Evaluate("e", fns, calc.Precision(prec))
		if err != nil {
			t.Fatalf("e: unexpected error: %v", err)
		}
		exp, err := calc.Evaluate("exp(1)", fns, calc.Precision(prec))
		if err != nil {
			t.Fatalf("exp(1): unexpected error: %v", err)
		}
		if e.String() != exp.String() {
			t.Errorf("%d digits: e is %v but exp(1) is %v", prec, e, exp)
		}
	}
	r, err := calc.Evaluate("ln(e)", fns, calc.Precision(60))
	if err != nil {
		t.Fatalf("ln(e): unexpected error: %v", err)
	}
	if d := r.Decimal().Sub(decimal.New(1, 0)).Abs(); d.GreaterThan(decimal.New(1, -55)) {
		t.Errorf("ln(e) is %v", r)
	}
}

func TestExpNegative(t *testing.T) {
	fns := calc.Builtins()
	r, err := calc.Evaluate("exp(-1)", fns)
	if err != nil {
		t.Fatalf("exp(-1): unexpected error: %v", err)
	}
	want := decimal.RequireFromString("0.36787944117144232159552377016146086744581113103176")
	if d := r.Decimal().Sub(want).Abs(); d.GreaterThan(decimal.New(1, -45)) {
		t.Errorf("exp(-1) is %v", r)
	}

	r, err = calc.Evaluate("exp(-1000000)", fns)
	if err != nil {
		t.Fatalf("exp(-1000000): unexpected error: %v", err)
	}
	if r.Sign() != 1 || !r.Inexact() {
		t.Errorf("exp(-1000000) should be small, positive, and inexact; got sign %d, inexact %t", r.Sign(), r.Inexact())
	}
	if s := r.Scale(); s < 434000 || s > 434400 {
		t.Errorf("exp(-1000000) has scale %d", s)
	}

	_, err = calc.Evaluate("exp(1000000)", fns)
	var le *calc.LimitError
	if !errors.As(err, &le) {
		t.Errorf("exp(1000000): wanted *LimitError, got %v", err)
	}
}

func TestBuiltinsFresh(t *testing.T) {
	a := calc.Builtins()
	delete(a, "abs")
	b := calc.Builtins()
	if _, ok := b.Lookup("abs"); !ok {
		t.Error("deleting from one table affected another")
	}
	if _, ok := a.Lookup("abs"); ok {
		t.Error("deleted function still present")
	}
}

func TestVariables(t *testing.T) {
	cases := []struct {
		src  string
		opts []calc.Option
		want string
	}{
		{"2x + 1", []calc.Option{calc.SetVar("x", calc.Int64(4))}, "9"},
		{"x y", []calc.Option{calc.SetVars(map[string]calc.Number{"x": calc.Int64(3), "y": calc.Int64(7)})}, "21"},
		{"x", []calc.Option{calc.SetVar("x", calc.Int64(1)), calc.SetVar("x", calc.Int64(2))}, "2"},
		{"pi", []calc.Option{calc.SetVar("pi", calc.Int64(3))}, "3"},
		{"abs(-x)", []calc.Option{calc.SetVar("abs", calc.Int64(1)), calc.SetVar("x", calc.Int64(2))}, "2"},
		{"rate * 100", []calc.Option{calc.SetVar("rate", mustParse(t, "0.075"))}, "7.500"},
	}
	for _, c := range cases {
		r, err := calc.Evaluate(c.src, calc.Builtins(), c.opts...)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.src, err)
			continue
		}
		if got := r.String(); got != c.want {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
	}

	vars := map[string]calc.Number{"x": calc.Int64(1)}
	if _, err := calc.Evaluate("x", nil, calc.SetVars(vars), calc.SetVar("y", calc.Int64(2))); err != nil {
		t.Fatal(err)
	}
	if _, ok := vars["y"]; ok {
		t.Error("SetVar modified the map passed to SetVars")
	}
}

func TestLimits(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	}
	cases := []struct {
		name  string
		src   string
		opts  []calc.Option
		want  string
		limit string
	}{
		{"depth-default", nest(300), nil, "", "depth"},
		{"depth-ok", nest(200), nil, "1", ""},
		{"depth-raised", nest(300), []calc.Option{calc.MaxDepth(1000)}, "1", ""},
		{"depth-disabled", nest(300), []calc.Option{calc.MaxDepth(-1)}, "1", ""},
		{"depth-unary", strings.Repeat("-", 300) + "1", nil, "", "depth"},
		{"depth-calls", strings.Repeat("abs(", 300) + "1" + strings.Repeat(")", 300), nil, "", "depth"},
		{"depth-exact", "((1))", []calc.Option{calc.MaxDepth(2)}, "1", ""},
		{"depth-over", "(((1)))", []calc.Option{calc.MaxDepth(2)}, "", "depth"},
		{"ops-ok", "1+1+1+1", []calc.Option{calc.MaxOps(3)}, "4", ""},
		{"ops-over", "1+1+1+1+1", []calc.Option{calc.MaxOps(3)}, "", "operations"},
		{"ops-calls", "abs(1) + abs(2)", []calc.Option{calc.MaxOps(2)}, "", "operations"},
		{"fact-ok", "5!", []calc.Option{calc.MaxFactorial(5)}, "120", ""},
		{"fact-over", "6!", []calc.Option{calc.MaxFactorial(5)}, "", "factorial"},
		{"bits-ok", "1 << 7", []calc.Option{calc.MaxBits(8)}, "128", ""},
		{"bits-over", "1 << 8", []calc.Option{calc.MaxBits(8)}, "", "bits"},
		{"bits-pow", "pow(2, 8)", []calc.Option{calc.MaxBits(8)}, "", "bits"},
		{"precision", "1/3", []calc.Option{calc.Precision(5)}, "0.33333", ""},
		{"approx-pow", "pow(4, 0.5)", []calc.Option{calc.ApproxPow(true)}, "2", ""},
		{"with-limits", "(((1)))", []calc.Option{calc.WithLimits(calc.Limits{MaxDepth: 2})}, "", "depth"},
		{"with-limits-override", "(((1)))", []calc.Option{calc.WithLimits(calc.Limits{MaxDepth: 2}), calc.MaxDepth(3)}, "1", ""},
		{"with-limits-defaults", "1/3", []calc.Option{calc.WithLimits(calc.Limits{MaxDepth: 2})}, "0." + strings.Repeat("3", 50), ""},
	}
	fns := calc.Builtins()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Evaluate(c.src, fns, c.opts...)
			if c.limit == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got := r.String(); got != c.want {
					t.Errorf("want %s, got %s", c.want, got)
				}
				return
			}
			var le *calc.LimitError
			if !errors.As(err, &le) {
				t.Fatalf("wanted *LimitError, got %v with error %v", r, err)
			}
			if le.Limit != c.limit {
				t.Errorf("wrong limit: want %s, got %s", c.limit, le.Limit)
			}
		})
	}
}

// waiter is a function that blocks until its evaluation is done.
func waiter(env *calc.Env) (calc.Number, error) {
	<-env.Context().Done()
	return calc.Int64(1), nil
}

func TestTimeout(t *testing.T) {
	fns := calc.Funcs{"wait": calc.Niladic(waiter)}
	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r, err := calc.EvaluateContext(ctx, "1 + 1", nil)
		var te *calc.TimeoutError
		if !errors.As(err, &te) {
			t.Fatalf("wanted *TimeoutError, got %v with error %v", r, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%v doesn't unwrap to context.Canceled", err)
		}
	})
	t.Run("option", func(t *testing.T) {
		r, err := calc.Evaluate("wait() + 1", fns, calc.Timeout(10*time.Millisecond))
		var te *calc.TimeoutError
		if !errors.As(err, &te) {
			t.Fatalf("wanted *TimeoutError, got %v with error %v", r, err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("%v doesn't unwrap to context.DeadlineExceeded", err)
		}
		if te.Pos() != 8 {
			t.Errorf("wanted timeout at 8, got %d", te.Pos())
		}
	})
	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := calc.EvaluateContext(ctx, "wait wait", fns)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("wanted deadline exceeded, got %v", err)
		}
	})
	t.Run("factorial", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		fns := calc.Funcs{"fact": calc.Monadic(func(env *calc.Env, x calc.Number) (calc.Number, error) {
			cancel()
			return x.Factorial(env.Context(), env.Limits().MaxFactorial)
		})}
		_, err := calc.EvaluateContext(ctx, "1 + fact(5000)", fns)
		var te *calc.TimeoutError
		if !errors.As(err, &te) {
			t.Fatalf("wanted *TimeoutError, got %v", err)
		}
		if te.Pos() != 5 {
			t.Errorf("wanted timeout at 5, got %d", te.Pos())
		}
	})
}

type doubler struct{}

func (doubler) Lookup(name string) (calc.Func, bool) {
	if !strings.HasPrefix(name, "double") {
		return nil, false
	}
	return calc.Monadic(func(env *calc.Env, x calc.Number) (calc.Number, error) {
		return x.Mul(calc.Int64(2)), nil
	}), true
}

func TestFunctionTable(t *testing.T) {
	r, err := calc.Evaluate("double(21) + doubleagain(1)", doubler{})
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "44" {
		t.Errorf("wrong result from custom table: %v", r)
	}
	_, err = calc.Evaluate("triple(1)", doubler{})
	var ue *calc.UnknownFunctionError
	if !errors.As(err, &ue) || ue.Name != "triple" {
		t.Errorf("wanted unknown function triple, got %v", err)
	}
}

func TestFuncErrors(t *testing.T) {
	boom := errors.New("boom")
	fns := calc.Funcs{
		"boom": calc.Niladic(func(env *calc.Env) (calc.Number, error) {
			return calc.Number{}, boom
		}),
		"dom": calc.Monadic(func(env *calc.Env, x calc.Number) (calc.Number, error) {
			return calc.Number{}, &calc.DomainError{X: x, Func: "dom"}
		}),
		"gone": nil,
	}
	if _, err := calc.Evaluate("1 + boom", fns); err != boom {
		t.Errorf("foreign error not passed through unchanged: %v", err)
	}
	_, err := calc.Evaluate("1 + dom(2)", fns)
	var de *calc.DomainError
	if !errors.As(err, &de) || de.Pos() != 5 {
		t.Errorf("wanted domain error at 5, got %v", err)
	}
	_, err = calc.Evaluate("gone(1)", fns)
	var ue *calc.UnknownFunctionError
	if !errors.As(err, &ue) {
		t.Errorf("nil entry was callable: %v", err)
	}
}

func TestAddLiterals(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	prefix := map[int]string{2: "0b", 8: "0o", 10: "", 16: "0x"}
	bases := []int{2, 8, 10, 16}
	for i := 0; i < 500; i++ {
		a := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(rng.Intn(200)+1)))
		b := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(rng.Intn(200)+1)))
		ba, bb := bases[rng.Intn(len(bases))], bases[rng.Intn(len(bases))]
		src := prefix[ba] + a.Text(ba) + " + " + prefix[bb] + b.Text(bb)
		r, err := calc.Evaluate(src, nil)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", src, err)
		}
		want := new(big.Int).Add(a, b)
		if !r.IsInt() || r.Int().Cmp(want) != 0 {
			t.Fatalf("%q: want %v, got %v", src, want, r)
		}
	}
}

func TestConcurrent(t *testing.T) {
	srcs := []string{
		"1/3 + pow(2, 100)",
		"30! >> 7",
		"sqrt(2) * pi",
		"0x7f & ~0b1010 | 1 << 9",
		"1 / 0",
		"(((",
	}
	fns := calc.Builtins()
	want := make([]string, len(srcs))
	for i, src := range srcs {
		r, err := calc.Evaluate(src, fns)
		want[i] = r.String()
		if err != nil {
			want[i] = err.Error()
		}
	}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 20; k++ {
				for i, src := range srcs {
					r, err := calc.Evaluate(src, fns)
					got := r.String()
					if err != nil {
						got = err.Error()
					}
					if got != want[i] {
						t.Errorf("%q: want %s, got %s", src, want[i], got)
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestLogger(t *testing.T) {
	var b bytes.Buffer
	log := zerolog.New(&b).Level(zerolog.DebugLevel)
	if _, err := calc.Evaluate("1+1", nil, calc.Logger(log)); err != nil {
		t.Fatal(err)
	}
	if s := b.String(); !strings.Contains(s, `"src":"1+1"`) || !strings.Contains(s, `"result":"2"`) {
		t.Errorf("missing evaluation fields in log: %s", s)
	}
	b.Reset()
	if _, err := calc.Evaluate("1/0", nil, calc.Logger(log)); err == nil {
		t.Fatal("no error dividing by zero")
	}
	if s := b.String(); !strings.Contains(s, "evaluation failed") || !strings.Contains(s, `"error":`) {
		t.Errorf("missing error in log: %s", s)
	}
	b.Reset()
	quiet := zerolog.New(&b).Level(zerolog.InfoLevel)
	if _, err := calc.Evaluate("1+1", nil, calc.Logger(quiet)); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Errorf("logged below level: %s", b.String())
	}
}

func TestEnvEvaluate(t *testing.T) {
	fns := calc.Builtins()
	fns["twice"] = calc.Monadic(func(env *calc.Env, x calc.Number) (calc.Number, error) {
		return env.Evaluate("2x", nil, calc.SetVar("x", x))
	})
	fns["hyp"] = calc.Dyadic(func(env *calc.Env, a, b calc.Number) (calc.Number, error) {
		return env.Evaluate("sqrt(a a + b b)", fns, calc.SetVars(map[string]calc.Number{"a": a, "b": b}))
	})
	fns["loop"] = calc.Monadic(func(env *calc.Env, x calc.Number) (calc.Number, error) {
		return env.Evaluate("loop(x + 1)", fns, calc.SetVar("x", x))
	})
	fns["spin"] = calc.Niladic(func(env *calc.Env) (calc.Number, error) {
		return env.Evaluate("spin", fns)
	})
	fns["inv"] = calc.Monadic(func(env *calc.Env, x calc.Number) (calc.Number, error) {
		return env.Evaluate("1 / x", nil, calc.SetVar("x", x))
	})

	cases := []struct {
		src  string
		want string
	}{
		{"twice(21)", "42"},
		{"twice(twice(1))", "4"},
		{"hyp(3, 4)", "5"},
		{"1 + hyp(twice(3), 8)", "11"},
	}
	for _, c := range cases {
		r, err := calc.Evaluate(c.src, fns)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.src, err)
			continue
		}
		if got := r.String(); got != c.want {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
	}

	errs := []struct {
		src  string
		opts []calc.Option
		want interface{}
		col  int
	}{
		{"loop(0)", nil, new(*calc.LimitError), 1},
		{"1 + spin", nil, new(*calc.LimitError), 5},
		{"2 * inv(0)", nil, new(*calc.DivisionByZeroError), 5},
		{"twice(1)", []calc.Option{calc.MaxOps(1)}, new(*calc.LimitError), 1},
		{"(twice(1))", []calc.Option{calc.MaxDepth(2)}, new(*calc.LimitError), 2},
	}
	for _, c := range errs {
		_, err := calc.Evaluate(c.src, fns, c.opts...)
		if !errors.As(err, c.want) {
			t.Errorf("%q: wrong error %T: %v", c.src, err, err)
			continue
		}
		var ie calc.InputError
		if errors.As(err, &ie) && ie.Pos() != c.col {
			t.Errorf("%q: wanted error at %d, got %d: %v", c.src, c.col, ie.Pos(), err)
		}
	}

	var env *calc.Env
	r, err := env.Evaluate("x + 1", nil, calc.SetVar("x", calc.Int64(1)))
	if err != nil || r.String() != "2" {
		t.Errorf("nil env: got %v, %v", r, err)
	}
}
