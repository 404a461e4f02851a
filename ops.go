package calc

import "strconv"

type opKind int8

const (
	opNone opKind = iota

	// binary
	opAdd
	opSub
	opMul
	opDiv
	opRem
	opAnd
	opOr
	opXor
	opLsh
	opRsh

	// unary
	opNeg
	opPlus
	opNot

	// postfix
	opFact
)

type operator struct {
	// prec is the precedence tier. Higher is more binding. Every binary tier
	// is left-associative.
	prec int8
	// op is the operation to apply when this operator is selected.
	op opKind
}

// Precedence tiers of binary operators, loosest first.
const (
	precNone int8 = iota
	precAdd
	precBit
	precShift
	precMul
)

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of opNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{precAdd, opAdd}
	case "-":
		return operator{precAdd, opSub}
	case "&":
		return operator{precBit, opAnd}
	case "|":
		return operator{precBit, opOr}
	case "^":
		return operator{precBit, opXor}
	case "<<":
		return operator{precShift, opLsh}
	case ">>":
		return operator{precShift, opRsh}
	case "*", "×":
		return operator{precMul, opMul}
	case "/", "÷":
		return operator{precMul, opDiv}
	case "%":
		return operator{precMul, opRem}
	default:
		return operator{}
	}
}

// unop gets a prefix operator for a token string. If there is no such unary
// operator, then the result has an op of opNone. Prefix operators bind more
// tightly than any binary operator, so their prec is unused.
func unop(text string) operator {
	switch text {
	case "-":
		return operator{op: opNeg}
	case "+":
		return operator{op: opPlus}
	case "~":
		return operator{op: opNot}
	default:
		return operator{}
	}
}

// implicitMul is the operator applied between adjacent terms, as in 2(x+1).
var implicitMul = operator{precMul, opMul}

// apply applies a binary operation to two evaluated operands.
func (ev *evaluator) apply(op opKind, x, y Number) (Number, error) {
	switch op {
	case opAdd:
		return x.Add(y), nil
	case opSub:
		return x.Sub(y), nil
	case opMul:
		return x.Mul(y), nil
	case opDiv:
		return x.Quo(y, ev.lim.Precision)
	case opRem:
		return x.Rem(y)
	case opAnd:
		return x.And(y)
	case opOr:
		return x.Or(y)
	case opXor:
		return x.Xor(y)
	case opLsh:
		return x.Lsh(y, ev.lim.MaxBits)
	case opRsh:
		return x.Rsh(y)
	default:
		panic("calc: invalid binary operator " + strconv.Itoa(int(op)))
	}
}

// applyUnary applies a prefix or postfix operation to an evaluated operand.
func (ev *evaluator) applyUnary(op opKind, x Number) (Number, error) {
	switch op {
	case opNeg:
		return x.Neg(), nil
	case opPlus:
		return x, nil
	case opNot:
		return x.Not()
	case opFact:
		return x.Factorial(ev.ctx, ev.lim.MaxFactorial)
	default:
		panic("calc: invalid unary operator " + strconv.Itoa(int(op)))
	}
}
