package calc

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// Number is an exact arbitrary-precision value: either an integer or a
// decimal with a tracked scale. The zero value is the integer 0. Numbers are
// immutable; every operation returns a fresh value and leaves its operands
// untouched.
//
// A Number is inexact if it was produced by rounding, e.g. 1/3 or sqrt(2).
// Inexactness propagates through every operation that consumes it.
type Number struct {
	dec     bool
	i       *big.Int // integer value when !dec; nil means 0
	d       decimal.Decimal
	inexact bool
}

// Int returns an integer Number with the value of x. x is copied.
func Int(x *big.Int) Number {
	return Number{i: new(big.Int).Set(x)}
}

// Int64 returns an integer Number with the value of x.
func Int64(x int64) Number {
	return Number{i: big.NewInt(x)}
}

// Dec returns a decimal Number with the value and scale of d.
func Dec(d decimal.Decimal) Number {
	return Number{dec: true, d: d}
}

// ParseNumber parses a numeric literal in the same syntax the lexer accepts:
// decimal integers, decimals with a point, or integers with a 0b, 0o, or 0x
// prefix. The returned error is a *SyntaxError.
func ParseNumber(s string) (Number, error) {
	base, dec, msg := classifyNumber(s)
	if msg != "" {
		return Number{}, &SyntaxError{Text: s, Msg: msg}
	}
	return parseLiteral(s, base, dec)
}

// parseLiteral converts an already validated literal.
func parseLiteral(s string, base int, dec bool) (Number, error) {
	if dec {
		if s[0] == '.' {
			s = "0" + s
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Number{}, &SyntaxError{Text: s, Msg: "invalid number"}
		}
		return Dec(d), nil
	}
	if base != 10 {
		s = s[2:]
	}
	x, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Number{}, &SyntaxError{Text: s, Msg: "invalid number"}
	}
	return Number{i: x}, nil
}

// classifyNumber determines the base of a numeric literal and whether it is
// a decimal. msg is non-empty if the literal is malformed.
func classifyNumber(s string) (base int, dec bool, msg string) {
	base = 10
	digits := s
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		}
	}
	if base != 10 {
		digits = s[2:]
		if digits == "" {
			return base, false, "unterminated literal"
		}
		if strings.ContainsRune(digits, '.') {
			return base, false, "base-prefixed literal cannot have a decimal point"
		}
	}
	for _, c := range digits {
		if c == '.' {
			if dec {
				return base, dec, "number has more than one decimal point"
			}
			dec = true
			continue
		}
		if digitval(c) >= base {
			return base, dec, "invalid digit " + string(c) + " for base " + strconv.Itoa(base)
		}
	}
	if dec && digits[len(digits)-1] == '.' {
		return base, dec, "unterminated literal"
	}
	return base, dec, ""
}

func digitval(c rune) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}

// IsInt reports whether n is an integer. Decimals are never integers, even
// if their value is whole.
func (n Number) IsInt() bool {
	return !n.dec
}

// Inexact reports whether n was rounded at some point in its computation.
func (n Number) Inexact() bool {
	return n.inexact
}

// Sign returns -1, 0, or +1 according to the sign of n.
func (n Number) Sign() int {
	if n.dec {
		return n.d.Sign()
	}
	if n.i == nil {
		return 0
	}
	return n.i.Sign()
}

// IsZero reports whether n is zero.
func (n Number) IsZero() bool {
	return n.Sign() == 0
}

// Int returns a copy of the integer value of n. For decimals, the value is
// truncated toward zero.
func (n Number) Int() *big.Int {
	if n.dec {
		return n.d.BigInt()
	}
	return new(big.Int).Set(n.int())
}

// Decimal returns the value of n as a decimal. Integers have scale 0.
func (n Number) Decimal() decimal.Decimal {
	if n.dec {
		return n.d
	}
	return decimal.NewFromBigInt(n.int(), 0)
}

// Digits returns the decimal digits of the magnitude of n's coefficient,
// without a sign or decimal point. Together with Sign and Scale, it describes
// n exactly.
func (n Number) Digits() string {
	if n.dec {
		return new(big.Int).Abs(n.d.Coefficient()).String()
	}
	return new(big.Int).Abs(n.int()).String()
}

// Scale returns the number of digits of Digits that follow the decimal point.
// A negative scale means the coefficient is followed by -Scale implied zeros.
// Integers have scale 0.
func (n Number) Scale() int32 {
	if n.dec {
		return -n.d.Exponent()
	}
	return 0
}

// String formats n exactly in base 10. Decimals show every digit of their
// scale, so 1.50 stays "1.50".
func (n Number) String() string {
	if !n.dec {
		return n.int().String()
	}
	if e := n.d.Exponent(); e < 0 {
		return n.d.StringFixed(-e)
	}
	return n.d.StringFixed(0)
}

// Text formats n in the given base. Integers may use any base from 2 to 62;
// decimals are always formatted in base 10.
func (n Number) Text(base int) string {
	if n.dec {
		return n.String()
	}
	return n.int().Text(base)
}

// Cmp compares n and y and returns -1, 0, or +1.
func (n Number) Cmp(y Number) int {
	if !n.dec && !y.dec {
		return n.int().Cmp(y.int())
	}
	return n.Decimal().Cmp(y.Decimal())
}

// int returns the integer value of n. Callers must not modify the result.
func (n Number) int() *big.Int {
	if n.i == nil {
		return new(big.Int)
	}
	return n.i
}

func (n Number) coeff() *big.Int {
	if n.dec {
		return n.d.Coefficient()
	}
	return n.int()
}

// Neg returns -n.
func (n Number) Neg() Number {
	if n.dec {
		return Number{dec: true, d: n.d.Neg(), inexact: n.inexact}
	}
	return Number{i: new(big.Int).Neg(n.int()), inexact: n.inexact}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	if n.Sign() < 0 {
		return n.Neg()
	}
	return n
}

// Add returns n + y.
func (n Number) Add(y Number) Number {
	r := n.inexact || y.inexact
	if !n.dec && !y.dec {
		return Number{i: new(big.Int).Add(n.int(), y.int()), inexact: r}
	}
	return Number{dec: true, d: n.Decimal().Add(y.Decimal()), inexact: r}
}

// Sub returns n - y.
func (n Number) Sub(y Number) Number {
	r := n.inexact || y.inexact
	if !n.dec && !y.dec {
		return Number{i: new(big.Int).Sub(n.int(), y.int()), inexact: r}
	}
	return Number{dec: true, d: n.Decimal().Sub(y.Decimal()), inexact: r}
}

// Mul returns n * y.
func (n Number) Mul(y Number) Number {
	r := n.inexact || y.inexact
	if !n.dec && !y.dec {
		return Number{i: new(big.Int).Mul(n.int(), y.int()), inexact: r}
	}
	return Number{dec: true, d: n.Decimal().Mul(y.Decimal()), inexact: r}
}

// Quo returns n / y. The quotient of two integers is an integer when the
// division is exact. Otherwise, the result is a decimal; if it does not
// terminate, it is rounded to at least prec significant digits and marked
// inexact.
func (n Number) Quo(y Number, prec int32) (Number, error) {
	if y.IsZero() {
		return Number{}, &DivisionByZeroError{Op: "/"}
	}
	r := n.inexact || y.inexact
	if !n.dec && !y.dec {
		q, m := new(big.Int).QuoRem(n.int(), y.int(), new(big.Int))
		if m.Sign() == 0 {
			return Number{i: q, inexact: r}, nil
		}
	}
	if prec <= 0 {
		prec = DefaultLimits.Precision
	}
	a, b := n.Decimal(), y.Decimal()
	places := prec - (adjexp(a) - adjexp(b))
	if places < 0 {
		places = 0
	}
	q := a.DivRound(b, places)
	if !q.Mul(b).Equal(a) {
		r = true
	}
	return Number{dec: true, d: trimZeros(q), inexact: r}, nil
}

// QuoInt returns the quotient n / y truncated toward zero, as an integer.
func (n Number) QuoInt(y Number) (Number, error) {
	if y.IsZero() {
		return Number{}, &DivisionByZeroError{Op: "div"}
	}
	r := n.inexact || y.inexact
	if !n.dec && !y.dec {
		return Number{i: new(big.Int).Quo(n.int(), y.int()), inexact: r}, nil
	}
	q, _ := n.Decimal().QuoRem(y.Decimal(), 0)
	return Number{i: q.BigInt(), inexact: r}, nil
}

// Rem returns the remainder of n / y. The quotient is truncated toward zero,
// so the remainder has the sign of n: -7 % 3 is -1.
func (n Number) Rem(y Number) (Number, error) {
	if y.IsZero() {
		return Number{}, &DivisionByZeroError{Op: "%"}
	}
	r := n.inexact || y.inexact
	if !n.dec && !y.dec {
		return Number{i: new(big.Int).Rem(n.int(), y.int()), inexact: r}, nil
	}
	return Number{dec: true, d: n.Decimal().Mod(y.Decimal()), inexact: r}, nil
}

// Pow returns n raised to the power y. Non-negative integer exponents give
// exact results. Negative integer exponents divide 1 by the positive power.
// Fractional exponents are a DomainError unless lim.ApproxPow is set, in
// which case the result is approximated to lim.Precision digits and marked
// inexact. Zero fields of lim take their values from DefaultLimits.
func (n Number) Pow(y Number, lim Limits) (Number, error) {
	lim = lim.resolve()
	if y.dec {
		if !lim.ApproxPow {
			return Number{}, &DomainError{X: y, Func: "pow"}
		}
		return n.approxPow(y, lim.Precision)
	}
	e := y.int()
	if e.Sign() < 0 {
		if n.IsZero() {
			return Number{}, &DivisionByZeroError{Op: "pow"}
		}
		p, err := n.Pow(Number{i: new(big.Int).Neg(e), inexact: y.inexact}, lim)
		if err != nil {
			return Number{}, err
		}
		return Int64(1).Quo(p, lim.Precision)
	}
	r := n.inexact || y.inexact
	c := n.coeff()
	if e.Sign() == 0 {
		if n.dec {
			return Number{dec: true, d: decimal.New(1, 0), inexact: r}, nil
		}
		return Number{i: big.NewInt(1), inexact: r}, nil
	}
	if c.Sign() == 0 || (c.CmpAbs(big.NewInt(1)) == 0 && n.Scale() == 0) {
		// 0, 1, and -1 have trivial powers of any size.
		v := new(big.Int).Set(c)
		if e.Bit(0) == 0 {
			v.Abs(v)
		}
		if n.dec {
			return Number{dec: true, d: decimal.NewFromBigInt(v, 0), inexact: r}, nil
		}
		return Number{i: v, inexact: r}, nil
	}
	if !e.IsInt64() {
		return Number{}, &LimitError{Limit: "bits", Max: int64(lim.MaxBits)}
	}
	k := e.Int64()
	if lim.MaxBits > 0 && int64(c.BitLen()) > int64(lim.MaxBits)/k {
		return Number{}, &LimitError{Limit: "bits", Max: int64(lim.MaxBits)}
	}
	v := new(big.Int).Exp(c, e, nil)
	if !n.dec {
		return Number{i: v, inexact: r}, nil
	}
	exp := int64(n.d.Exponent()) * k
	if exp < -1<<31 || exp > 1<<31-1 {
		return Number{}, &LimitError{Limit: "scale", Max: 1<<31 - 1}
	}
	return Number{dec: true, d: decimal.NewFromBigInt(v, int32(exp)), inexact: r}, nil
}

// approxPow computes n^y for a fractional y using big.Float arithmetic.
func (n Number) approxPow(y Number, prec int32) (Number, error) {
	if n.Sign() <= 0 {
		return Number{}, &DomainError{X: n, Func: "pow"}
	}
	if prec <= 0 {
		prec = DefaultLimits.Precision
	}
	bits := floatPrec(prec)
	x, err := n.Float(bits)
	if err != nil {
		return Number{}, err
	}
	p, err := y.Float(bits)
	if err != nil {
		return Number{}, err
	}
	return fromFloat(bigfloat.Pow(new(big.Float).SetPrec(bits), x, p), prec)
}

// Lsh returns n << y. Both operands must be integers and y must be
// non-negative. If maxBits is positive, results longer than maxBits bits are
// a LimitError.
func (n Number) Lsh(y Number, maxBits int) (Number, error) {
	if n.dec || y.dec {
		return Number{}, &TypeError{Op: "<<"}
	}
	s := y.int()
	if s.Sign() < 0 {
		return Number{}, &DomainError{X: y, Func: "<<"}
	}
	r := n.inexact || y.inexact
	x := n.int()
	if x.Sign() == 0 {
		return Number{i: new(big.Int), inexact: r}, nil
	}
	if !s.IsInt64() || (maxBits > 0 && int64(x.BitLen())+s.Int64() > int64(maxBits)) {
		return Number{}, &LimitError{Limit: "bits", Max: int64(maxBits)}
	}
	return Number{i: new(big.Int).Lsh(x, uint(s.Int64())), inexact: r}, nil
}

// Rsh returns n >> y, an arithmetic shift: negative values round toward
// negative infinity. Both operands must be integers and y must be
// non-negative.
func (n Number) Rsh(y Number) (Number, error) {
	if n.dec || y.dec {
		return Number{}, &TypeError{Op: ">>"}
	}
	s := y.int()
	if s.Sign() < 0 {
		return Number{}, &DomainError{X: y, Func: ">>"}
	}
	r := n.inexact || y.inexact
	x := n.int()
	if !s.IsInt64() || s.Int64() > int64(x.BitLen()) {
		// Everything shifts out.
		if x.Sign() < 0 {
			return Number{i: big.NewInt(-1), inexact: r}, nil
		}
		return Number{i: new(big.Int), inexact: r}, nil
	}
	return Number{i: new(big.Int).Rsh(x, uint(s.Int64())), inexact: r}, nil
}

// And returns the bitwise AND of n and y in two's complement.
func (n Number) And(y Number) (Number, error) {
	if n.dec || y.dec {
		return Number{}, &TypeError{Op: "&"}
	}
	return Number{i: new(big.Int).And(n.int(), y.int()), inexact: n.inexact || y.inexact}, nil
}

// Or returns the bitwise OR of n and y in two's complement.
func (n Number) Or(y Number) (Number, error) {
	if n.dec || y.dec {
		return Number{}, &TypeError{Op: "|"}
	}
	return Number{i: new(big.Int).Or(n.int(), y.int()), inexact: n.inexact || y.inexact}, nil
}

// Xor returns the bitwise XOR of n and y in two's complement.
func (n Number) Xor(y Number) (Number, error) {
	if n.dec || y.dec {
		return Number{}, &TypeError{Op: "^"}
	}
	return Number{i: new(big.Int).Xor(n.int(), y.int()), inexact: n.inexact || y.inexact}, nil
}

// Not returns the bitwise complement of n, which is -n-1.
func (n Number) Not() (Number, error) {
	if n.dec {
		return Number{}, &TypeError{Op: "~"}
	}
	return Number{i: new(big.Int).Not(n.int()), inexact: n.inexact}, nil
}

// Factorial returns n!. n must be a non-negative integer. If max is positive,
// n greater than max is a LimitError. The computation checks ctx
// periodically and returns a TimeoutError once it is done.
func (n Number) Factorial(ctx context.Context, max int64) (Number, error) {
	if n.dec || n.Sign() < 0 {
		return Number{}, &DomainError{X: n, Func: "!"}
	}
	x := n.int()
	if !x.IsInt64() || (max > 0 && x.Int64() > max) {
		return Number{}, &LimitError{Limit: "factorial", Max: max}
	}
	k := x.Int64()
	r := big.NewInt(1)
	var t big.Int
	for lo := int64(2); lo <= k; lo += factorialChunk {
		if err := ctx.Err(); err != nil {
			return Number{}, &TimeoutError{Err: err}
		}
		hi := lo + factorialChunk - 1
		if hi > k || hi < lo {
			hi = k
		}
		r.Mul(r, t.MulRange(lo, hi))
	}
	return Number{i: r, inexact: n.inexact}, nil
}

// factorialChunk is the number of factors multiplied between context checks.
const factorialChunk = 1024

// Float converts n to a big.Float with the given precision in bits.
func (n Number) Float(prec uint) (*big.Float, error) {
	if !n.dec {
		return new(big.Float).SetPrec(prec).SetInt(n.int()), nil
	}
	f, _, err := big.ParseFloat(n.String(), 10, prec, big.ToNearestEven)
	return f, err
}

// FromFloat converts a big.Float to a decimal Number rounded to prec
// significant digits. The result is always marked inexact.
func FromFloat(f *big.Float, prec int32) (Number, error) {
	return fromFloat(f, prec)
}

func fromFloat(f *big.Float, prec int32) (Number, error) {
	if f.IsInf() {
		return Number{}, &LimitError{Limit: "bits"}
	}
	if prec <= 0 {
		prec = DefaultLimits.Precision
	}
	d, err := decimal.NewFromString(f.Text('e', int(prec)-1))
	if err != nil {
		return Number{}, err
	}
	return Number{dec: true, d: trimZeros(d), inexact: true}, nil
}

// floatPrec is the big.Float precision that holds digits decimal digits with
// some guard bits.
func floatPrec(digits int32) uint {
	return uint(digits)*10/3 + 64
}

// adjexp is the exponent of the most significant digit of d.
func adjexp(d decimal.Decimal) int32 {
	c := d.Coefficient()
	if c.Sign() == 0 {
		return d.Exponent()
	}
	return int32(len(c.Abs(c).String())) + d.Exponent() - 1
}

// trimZeros removes trailing zeros after the decimal point.
func trimZeros(d decimal.Decimal) decimal.Decimal {
	c, exp := d.Coefficient(), d.Exponent()
	if c.Sign() == 0 {
		return decimal.New(0, 0)
	}
	ten := big.NewInt(10)
	for exp < 0 {
		q, m := new(big.Int).QuoRem(c, ten, new(big.Int))
		if m.Sign() != 0 {
			break
		}
		c = q
		exp++
	}
	return decimal.NewFromBigInt(c, exp)
}
