package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/calc"
)

// session holds the state shared by the expressions of one run: the
// function table, options, and variables defined so far.
type session struct {
	fns  calc.Funcs
	opts []calc.Option
	vars map[string]calc.Number
	base int
	echo bool
}

func newSession(lim calc.Limits, timeout time.Duration, base int, log zerolog.Logger) *session {
	opts := []calc.Option{calc.WithLimits(lim), calc.Logger(log)}
	if timeout > 0 {
		opts = append(opts, calc.Timeout(timeout))
	}
	return &session{
		fns:  calc.Builtins(),
		opts: opts,
		vars: make(map[string]calc.Number),
		base: base,
	}
}

// eval evaluates src with the session's variables. A successful result
// becomes the variable ans.
func (s *session) eval(src string) (calc.Number, error) {
	opts := append(s.opts[:len(s.opts):len(s.opts)], calc.SetVars(s.vars))
	r, err := calc.Evaluate(src, s.fns, opts...)
	if err != nil {
		return calc.Number{}, err
	}
	s.vars["ans"] = r
	return r, nil
}

// let evaluates src and binds the result to name.
func (s *session) let(name, src string) error {
	if !validName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	r, err := s.eval(src)
	if err != nil {
		return err
	}
	s.vars[name] = r
	return nil
}

// def defines a function. head is the name and parameter list, as in
// "hyp(a, b)", and body is the expression computing the result. The body is
// checked only when the function is called.
func (s *session) def(head, body string) (*userFunc, error) {
	head = strings.TrimSpace(head)
	open := strings.IndexByte(head, '(')
	if open < 0 || !strings.HasSuffix(head, ")") {
		return nil, fmt.Errorf("function definitions look like name(params) expr, not %q", head)
	}
	name := strings.TrimSpace(head[:open])
	if !validName(name) {
		return nil, fmt.Errorf("invalid function name %q", name)
	}
	var params []string
	if list := strings.TrimSpace(head[open+1 : len(head)-1]); list != "" {
		for _, p := range strings.Split(list, ",") {
			p = strings.TrimSpace(p)
			if !validName(p) {
				return nil, fmt.Errorf("invalid parameter name %q", p)
			}
			for _, q := range params {
				if p == q {
					return nil, fmt.Errorf("duplicate parameter %q", p)
				}
			}
			params = append(params, p)
		}
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("function %s has no body", name)
	}
	f := &userFunc{name: name, params: params, body: body, s: s}
	s.fns[name] = f
	return f, nil
}

// userFunc is a function defined during the session. It keeps its body as
// source and evaluates it on each call with the arguments bound to the
// parameters, on top of the session's variables.
type userFunc struct {
	name   string
	params []string
	body   string
	s      *session
}

func (f *userFunc) Arity() int {
	return len(f.params)
}

func (f *userFunc) Call(env *calc.Env, args []calc.Number) (calc.Number, error) {
	opts := make([]calc.Option, 0, 1+len(args))
	opts = append(opts, calc.SetVars(f.s.vars))
	for i, p := range f.params {
		opts = append(opts, calc.SetVar(p, args[i]))
	}
	return env.Evaluate(f.body, f.s.fns, opts...)
}

func (f *userFunc) String() string {
	return f.name + "(" + strings.Join(f.params, ", ") + ") = " + f.body
}

// print evaluates src and writes the result to out or the error to errs. It
// reports whether the evaluation succeeded.
func (s *session) print(out, errs io.Writer, src string) bool {
	r, err := s.eval(src)
	if err != nil {
		fmt.Fprintln(errs, describe(src, err))
		return false
	}
	if s.echo {
		fmt.Fprintf(out, "%s = %s\n", src, format(r, s.base))
		return true
	}
	fmt.Fprintln(out, format(r, s.base))
	return true
}

// lines evaluates each non-blank line of in. Lines starting with # are
// comments.
func lines(s *session, in io.Reader, out, errs io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	failed := false
	for sc.Scan() {
		src := strings.TrimSpace(sc.Text())
		if src == "" || strings.HasPrefix(src, "#") {
			continue
		}
		if !s.print(out, errs, src) {
			failed = true
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

// describe formats an evaluation error. Errors with a position point at the
// offending column of src.
func describe(src string, err error) string {
	var ie calc.InputError
	if !errors.As(err, &ie) || ie.Pos() <= 0 || strings.ContainsAny(src, "\n\t") {
		return err.Error()
	}
	return src + "\n" + strings.Repeat(" ", ie.Pos()-1) + "^ " + err.Error()
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// names returns the names of the session's variables in order.
func (s *session) names() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
