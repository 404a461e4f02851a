package calc

import (
	"context"
	"time"
)

// Env is the environment of an evaluation in progress, as seen by the
// functions it calls. Functions that do substantial work should honor its
// context and limits.
type Env struct {
	ctx context.Context
	lim Limits
	ev  *evaluator
}

// Context returns the context of the evaluation. It is done when the
// evaluation is canceled or runs out of time. A nil Env, as when calling a
// Func directly, has a background context.
func (e *Env) Context() context.Context {
	if e == nil {
		return context.Background()
	}
	return e.ctx
}

// Limits returns the limits of the evaluation, with every unset field filled
// from DefaultLimits. A nil Env has the default limits.
func (e *Env) Limits() Limits {
	if e == nil {
		return DefaultLimits.resolve()
	}
	return e.lim
}

// Evaluate evaluates src as part of the evaluation in progress, as for a
// function whose body is an expression. The nested expression shares the
// context, limits, and operation budget of the evaluation, and it counts as
// one more level of nesting toward MaxDepth, so a function that calls itself
// without end fails with a *LimitError. Only the variables set by opts are
// visible to src; other options are ignored.
//
// Errors from src are reported at the position of the call rather than at
// positions within src. A nil Env evaluates src on its own with the default
// limits.
func (e *Env) Evaluate(src string, fns FunctionTable, opts ...Option) (Number, error) {
	if e == nil || e.ev == nil {
		return Evaluate(src, fns, opts...)
	}
	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		cfg = opt.option(cfg)
	}
	if fns == nil {
		fns = Funcs(nil)
	}
	parent := e.ev
	if parent.lim.MaxDepth > 0 && parent.depth >= parent.lim.MaxDepth {
		return Number{}, &LimitError{Limit: "depth", Max: int64(parent.lim.MaxDepth)}
	}
	ev := &evaluator{
		lex:   lex(src),
		ctx:   parent.ctx,
		fns:   fns,
		vars:  cfg.vars,
		lim:   parent.lim,
		depth: parent.depth + 1,
		ops:   parent.ops,
	}
	ev.env = &Env{ctx: ev.ctx, lim: ev.lim, ev: ev}
	r, err := ev.run()
	parent.ops = ev.ops
	if err != nil {
		return Number{}, unpos(err)
	}
	return r, nil
}

// Evaluate parses and evaluates an expression in one pass. Names followed by
// a bracket are looked up in fns; fns may be nil to allow no calls. The
// result is either a Number or an error, never both. The options are applied
// in order.
//
// Evaluate shares no state between calls except fns, which it only reads, so
// it is safe to call concurrently.
func Evaluate(src string, fns FunctionTable, opts ...Option) (Number, error) {
	return EvaluateContext(context.Background(), src, fns, opts...)
}

// EvaluateContext is like Evaluate, but the evaluation fails with a
// *TimeoutError once ctx is done.
func EvaluateContext(ctx context.Context, src string, fns FunctionTable, opts ...Option) (Number, error) {
	cfg := config{lim: DefaultLimits, log: nopLogger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		cfg = opt.option(cfg)
	}
	cfg.lim = cfg.lim.resolve()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	if fns == nil {
		fns = Funcs(nil)
	}
	ev := &evaluator{
		lex:  lex(src),
		ctx:  ctx,
		fns:  fns,
		vars: cfg.vars,
		lim:  cfg.lim,
	}
	ev.env = &Env{ctx: ctx, lim: cfg.lim, ev: ev}
	start := time.Now()
	r, err := ev.run()
	if e := cfg.log.Debug(); e.Enabled() {
		e = e.Str("src", src).Int64("ops", ev.ops).Dur("took", time.Since(start))
		if err != nil {
			e.Err(err).Msg("evaluation failed")
		} else {
			e.Stringer("result", r).Bool("inexact", r.Inexact()).Msg("evaluated")
		}
	}
	if err != nil {
		return Number{}, err
	}
	return r, nil
}
