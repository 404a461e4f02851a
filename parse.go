package calc

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr    = Term { binop Term | Term }
// Term    = { '-' | '+' | '~' } Postfix
// Postfix = Primary { '!' }
// Primary = num | name | Call | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call    = funcname Open [ Expr { ',' Expr } ] Close
//
// Binary operators group by tier, loosest first: + -, & | ^, << >>, * / %.
// Two terms with no operator between them are multiplied.

// evaluator reduces an expression to a Number as it parses. It holds no
// tree; the state of the parse is the call stack of the tier methods and the
// lexer's cursor.
type evaluator struct {
	lex  *lexer
	ctx  context.Context
	fns  FunctionTable
	vars map[string]Number
	lim  Limits
	env  *Env

	// depth is the current nesting of brackets, calls, and prefix operators.
	depth int
	// ops is the number of operations applied so far.
	ops int64
}

// run evaluates the entire input.
func (ev *evaluator) run() (Number, error) {
	if err := ev.ctx.Err(); err != nil {
		return Number{}, &TimeoutError{Col: 1, Err: err}
	}
	tok, err := ev.lex.peek()
	if err != nil {
		return Number{}, err
	}
	if tok.kind == tokenEOF {
		return Number{}, &SyntaxError{Col: tok.pos, Msg: "empty expression"}
	}
	x, err := ev.expr()
	if err != nil {
		return Number{}, err
	}
	tok, err = ev.lex.next()
	if err != nil {
		return Number{}, err
	}
	if tok.kind != tokenEOF {
		return Number{}, &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "unexpected trailing input"}
	}
	return x, nil
}

// expr evaluates a complete subexpression.
func (ev *evaluator) expr() (Number, error) {
	return ev.climb(precAdd)
}

// climb evaluates a left-associative chain of binary operators in the tier
// prec. Operands are evaluated at the next more binding tier, so each
// operator is applied as soon as its right operand is complete.
func (ev *evaluator) climb(prec int8) (Number, error) {
	if prec > precMul {
		return ev.prefix()
	}
	x, err := ev.climb(prec + 1)
	if err != nil {
		return Number{}, err
	}
	for {
		tok, err := ev.lex.peek()
		if err != nil {
			return Number{}, err
		}
		var o operator
		switch tok.kind {
		case tokenOp:
			o = binop(tok.text)
			if o.op == opNone {
				return Number{}, &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "not a binary operator"}
			}
		case tokenNum, tokenIdent, tokenOpen:
			// 2(x) -> (2) * (x)
			o = implicitMul
		default:
			return x, nil
		}
		if o.prec != prec {
			return x, nil
		}
		if tok.kind == tokenOp {
			ev.lex.next()
		}
		y, err := ev.climb(prec + 1)
		if err != nil {
			return Number{}, err
		}
		if err := ev.step(tok.pos); err != nil {
			return Number{}, err
		}
		x, err = ev.apply(o.op, x, y)
		if err != nil {
			return Number{}, at(err, tok.pos)
		}
	}
}

// prefix evaluates a term with any number of prefix operators.
func (ev *evaluator) prefix() (Number, error) {
	tok, err := ev.lex.peek()
	if err != nil {
		return Number{}, err
	}
	if tok.kind != tokenOp {
		return ev.postfix()
	}
	o := unop(tok.text)
	if o.op == opNone {
		return Number{}, &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "expected a term"}
	}
	ev.lex.next()
	if err := ev.enter(tok.pos); err != nil {
		return Number{}, err
	}
	x, err := ev.prefix()
	ev.leave()
	if err != nil {
		return Number{}, err
	}
	if err := ev.step(tok.pos); err != nil {
		return Number{}, err
	}
	x, err = ev.applyUnary(o.op, x)
	if err != nil {
		return Number{}, at(err, tok.pos)
	}
	return x, nil
}

// postfix evaluates a primary followed by any number of factorials.
func (ev *evaluator) postfix() (Number, error) {
	x, err := ev.primary()
	if err != nil {
		return Number{}, err
	}
	for {
		tok, err := ev.lex.peek()
		if err != nil {
			return Number{}, err
		}
		if tok.kind != tokenOp || tok.text != "!" {
			return x, nil
		}
		ev.lex.next()
		if err := ev.step(tok.pos); err != nil {
			return Number{}, err
		}
		x, err = ev.applyUnary(opFact, x)
		if err != nil {
			return Number{}, at(err, tok.pos)
		}
	}
}

// primary evaluates a number, a name, a call, or a bracketed subexpression.
func (ev *evaluator) primary() (Number, error) {
	tok, err := ev.lex.next()
	if err != nil {
		return Number{}, err
	}
	switch tok.kind {
	case tokenNum:
		x, err := parseLiteral(tok.text, tok.base, tok.dec)
		if err != nil {
			return Number{}, at(err, tok.pos)
		}
		return x, nil
	case tokenIdent:
		return ev.ident(tok)
	case tokenOpen:
		if err := ev.enter(tok.pos); err != nil {
			return Number{}, err
		}
		defer ev.leave()
		x, err := ev.expr()
		if err != nil {
			return Number{}, err
		}
		if err := ev.closing(tok); err != nil {
			return Number{}, err
		}
		return x, nil
	case tokenEOF:
		return Number{}, &SyntaxError{Col: tok.pos, Msg: "unexpected end of input"}
	default:
		return Number{}, &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "expected a term"}
	}
}

// ident evaluates a name: a call if a bracket follows, otherwise a variable
// or a function of no arguments.
func (ev *evaluator) ident(name lexToken) (Number, error) {
	next, err := ev.lex.peek()
	if err != nil {
		return Number{}, err
	}
	v, isvar := ev.vars[name.text]
	fn, isfn := ev.fns.Lookup(name.text)
	if next.kind == tokenOpen && (isfn || !isvar) {
		return ev.call(name, fn, isfn)
	}
	switch {
	case isvar:
		return v, nil
	case isfn && fn.Arity() == 0:
		return ev.invoke(name, fn, nil)
	case isfn:
		return Number{}, &CallError{Col: name.pos, Func: name.text, Want: fn.Arity()}
	default:
		return Number{}, &NameError{Col: name.pos, Name: name.text}
	}
}

// call evaluates the bracketed argument list following name, then calls fn.
// Arguments are evaluated even if the function does not exist, so that errors
// in them are reported first.
func (ev *evaluator) call(name lexToken, fn Func, ok bool) (Number, error) {
	open, err := ev.lex.next()
	if err != nil {
		return Number{}, err
	}
	if err := ev.enter(open.pos); err != nil {
		return Number{}, err
	}
	defer ev.leave()
	var args []Number
	tok, err := ev.lex.peek()
	if err != nil {
		return Number{}, err
	}
	// f() has no arguments, but f(x,) is an error.
	if tok.kind != tokenClose {
		for {
			x, err := ev.expr()
			if err != nil {
				return Number{}, err
			}
			args = append(args, x)
			tok, err := ev.lex.peek()
			if err != nil {
				return Number{}, err
			}
			if tok.kind != tokenSep {
				break
			}
			ev.lex.next()
		}
	}
	if err := ev.closing(open); err != nil {
		return Number{}, err
	}
	if !ok {
		return Number{}, &UnknownFunctionError{Col: name.pos, Name: name.text}
	}
	if want := fn.Arity(); want != len(args) {
		return Number{}, &CallError{Col: name.pos, Func: name.text, Want: want, Len: len(args)}
	}
	return ev.invoke(name, fn, args)
}

// invoke calls a function and attributes its errors to the call.
func (ev *evaluator) invoke(name lexToken, fn Func, args []Number) (Number, error) {
	if err := ev.step(name.pos); err != nil {
		return Number{}, err
	}
	r, err := fn.Call(ev.env, args)
	if err != nil {
		return Number{}, at(err, name.pos)
	}
	return r, nil
}

// closing consumes the bracket that matches open.
func (ev *evaluator) closing(open lexToken) error {
	tok, err := ev.lex.next()
	if err != nil {
		return err
	}
	want := closebrackets[rightbracket(open.text)]
	switch tok.kind {
	case tokenClose:
		if tok.text != want {
			return &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "mismatched bracket for " + open.text + " at " + strconv.Itoa(open.pos)}
		}
		return nil
	case tokenEOF:
		return &SyntaxError{Col: tok.pos, Text: open.text, Msg: "open bracket with no close bracket"}
	case tokenSep:
		return &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "separator outside function call"}
	default:
		return &SyntaxError{Col: tok.pos, Text: tok.text, Msg: "expected " + want}
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("calc: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// enter records one more level of nesting.
func (ev *evaluator) enter(pos int) error {
	if ev.lim.MaxDepth > 0 && ev.depth >= ev.lim.MaxDepth {
		return &LimitError{Col: pos, Limit: "depth", Max: int64(ev.lim.MaxDepth)}
	}
	ev.depth++
	return nil
}

func (ev *evaluator) leave() {
	ev.depth--
}

// step counts one operation against the budget and checks whether the
// evaluation has been canceled.
func (ev *evaluator) step(pos int) error {
	ev.ops++
	if ev.lim.MaxOps > 0 && ev.ops > ev.lim.MaxOps {
		return &LimitError{Col: pos, Limit: "operations", Max: ev.lim.MaxOps}
	}
	if err := ev.ctx.Err(); err != nil {
		return &TimeoutError{Col: pos, Err: err}
	}
	return nil
}
