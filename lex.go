package calc

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// base and dec describe tokenNum literals.
	base int
	dec  bool
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or decimal literal in any base.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is the function argument separator ,.
	tokenSep
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

// Operators contains the runes which are considered to be single-rune
// operators. The shift operators << and >> are two runes each.
const Operators = "+-*/%&|^~!×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	operstrs      = byteidcs(Operators)
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

// lexer scans tokens lazily from a source string. Its only state is a cursor
// and at most one peeked token, so reset restarts the scan from the
// beginning.
type lexer struct {
	src string
	// off is the byte offset of the cursor and col is its 1-based rune
	// column.
	off int
	col int

	p    lexToken
	perr error
	have bool
}

func lex(src string) *lexer {
	return &lexer{src: src, col: 1}
}

// reset moves the cursor back to the start of the source, so the same lexer
// can scan its input again.
func (l *lexer) reset() {
	*l = lexer{src: l.src, col: 1}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (lexToken, error) {
	if !l.have {
		l.p, l.perr = l.scan()
		l.have = true
	}
	return l.p, l.perr
}

// next scans the next token from the input. Once the input is exhausted, next
// returns an EOF token every time it is called.
func (l *lexer) next() (lexToken, error) {
	tok, err := l.peek()
	l.have = false
	return tok, err
}

// cur decodes the rune at the cursor without advancing. sz is 0 at the end
// of the input.
func (l *lexer) cur() (r rune, sz int) {
	return utf8.DecodeRuneInString(l.src[l.off:])
}

// advance moves the cursor past one rune of size sz.
func (l *lexer) advance(sz int) {
	l.off += sz
	l.col++
}

func (l *lexer) scan() (lexToken, error) {
	for {
		r, sz := l.cur()
		if sz == 0 {
			return lexToken{kind: tokenEOF, pos: l.col}, nil
		}
		if unicode.IsSpace(r) {
			l.advance(sz)
			continue
		}
		tok := lexToken{pos: l.col}
		switch {
		case '0' <= r && r <= '9', r == '.':
			return l.scanNum(tok)
		case r == '_', unicode.IsLetter(r):
			start := l.off
			l.scanIdent()
			tok.text = l.src[start:l.off]
			tok.kind = tokenIdent
			return tok, nil
		case r == ',':
			l.advance(sz)
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '<', r == '>':
			l.advance(sz)
			if s, _ := l.cur(); s != r {
				return tok, &SyntaxError{Col: tok.pos, Text: string(r), Msg: "invalid operator, shifts are << and >>"}
			}
			l.advance(sz)
			tok.text = string([]rune{r, r})
			tok.kind = tokenOp
			return tok, nil
		default:
			l.advance(sz)
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.text = operstrs[k]
				tok.kind = tokenOp
				return tok, nil
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.text = openbrackets[k]
				tok.kind = tokenOpen
				return tok, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.text = closebrackets[k]
				tok.kind = tokenClose
				return tok, nil
			}
			return tok, &SyntaxError{Col: tok.pos, Text: string(r), Msg: "invalid token"}
		}
	}
}

// scanNum scans a numeric literal. A literal ends at the first rune that
// cannot continue it, so 2x is the number 2 followed by the name x. In a
// prefixed literal, a decimal digit that is invalid for the base or a point
// makes the whole alphanumeric run one malformed number.
func (l *lexer) scanNum(tok lexToken) (lexToken, error) {
	start := l.off
	base := 10
	if l.src[l.off] == '0' && l.off+1 < len(l.src) {
		switch l.src[l.off+1] {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		}
	}
	if base == 10 {
		l.accept(func(r rune) bool { return '0' <= r && r <= '9' || r == '.' })
	} else {
		l.advance(1)
		l.advance(1)
		l.accept(func(r rune) bool { return digitval(r) < base })
		if r, _ := l.cur(); '0' <= r && r <= '9' || r == '.' {
			l.accept(func(r rune) bool {
				return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
			})
		}
	}
	tok.text = l.src[start:l.off]
	base, dec, msg := classifyNumber(tok.text)
	if msg != "" {
		return tok, &SyntaxError{Col: tok.pos, Text: tok.text, Msg: msg}
	}
	tok.kind = tokenNum
	tok.base = base
	tok.dec = dec
	return tok, nil
}

// accept advances over runes for which ok returns true.
func (l *lexer) accept(ok func(rune) bool) {
	for {
		r, sz := l.cur()
		if sz == 0 || !ok(r) {
			return
		}
		l.advance(sz)
	}
}

func (l *lexer) scanIdent() {
	l.accept(func(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) })
}
