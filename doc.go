// Package calc implements an exact arbitrary-precision calculator.
//
// Expressions are evaluated as they are parsed, without building a syntax
// tree. Integers are unbounded and stay integers through +, -, *, bitwise
// operators, shifts, and exact division. Decimals keep every digit of their
// scale, so 0.1 + 0.2 is exactly 0.3. A division that does not terminate, like
// 1/3, is rounded to a configurable number of significant digits and the
// result is marked inexact.
//
// Binary operators, loosest first, are + and -, then & | and ^ (where ^ is
// exclusive or), then << and >>, then * / and %. Terms written next to each
// other are multiplied, so "2(2+2)" is 8 and "2 x" is twice x. Prefix -, +,
// and ~ bind more tightly than any binary operator, and postfix ! binds more
// tightly still: "-3!" is -6. Numbers may be written in binary, octal, or
// hexadecimal with the prefixes 0b, 0o, and 0x.
//
// Functions come from a FunctionTable supplied with each evaluation;
// Builtins provides abs, pow, div, mod, sqrt, exp, ln, log, pi, and e.
// A Func may evaluate further source through Env.Evaluate, which shares the
// caller's limits and counts one level of nesting.
//
// Limits on nesting depth, operation count, factorial size, result size, and
// wall-clock time keep hostile input from exhausting the host.
package calc
