package calc

import "strconv"

// SyntaxError indicates malformed input: an invalid token, a missing or
// unexpected term, mismatched brackets, or trailing input. It implements
// InputError.
type SyntaxError struct {
	// Col is the position of the offending token.
	Col int
	// Text is the offending token, if there is one.
	Text string
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, err.Msg)
	}
	return errpos(err.Col, err.Msg+": "+strconv.Quote(err.Text))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// TypeError indicates a bitwise or shift operator applied to a decimal. It
// implements InputError.
type TypeError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator.
	Op string
}

func (err *TypeError) Error() string {
	return errpos(err.Col, "bitwise operator "+err.Op+" requires whole numbers")
}

func (err *TypeError) Pos() int {
	return err.Col
}

// DomainError is an error returned when an operation or function is applied
// to an operand outside its domain, e.g. the factorial of a negative number.
// It implements InputError.
type DomainError struct {
	// Col is the position of the operator or call.
	Col int
	// X is the out-of-domain operand.
	X Number
	// Func names the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return errpos(err.Col, r)
}

func (err *DomainError) Pos() int {
	return err.Col
}

// DivisionByZeroError is an error from dividing by zero with /, %, or a
// division function. It implements InputError.
type DivisionByZeroError struct {
	// Col is the position of the operator or call.
	Col int
	// Op names the operation.
	Op string
}

func (err *DivisionByZeroError) Error() string {
	return errpos(err.Col, "division by zero in "+err.Op)
}

func (err *DivisionByZeroError) Pos() int {
	return err.Col
}

// UnknownFunctionError indicates a call to a name that the function table
// does not have. It implements InputError.
type UnknownFunctionError struct {
	// Col is the position of the function name.
	Col int
	// Name is the function name.
	Name string
}

func (err *UnknownFunctionError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFunctionError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the function's arity.
	Want int
	// Len is the number of arguments the call supplied.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments (want "+strconv.Itoa(err.Want)+")")
}

func (err *CallError) Pos() int {
	return err.Col
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation options. It implements InputError.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// LimitError indicates that an evaluation exceeded one of its configured
// resource limits. It implements InputError.
type LimitError struct {
	// Col is the position at which the limit was exceeded.
	Col int
	// Limit names the limit: "depth", "operations", "factorial", "bits", or
	// "scale".
	Limit string
	// Max is the configured value of the limit.
	Max int64
}

func (err *LimitError) Error() string {
	return errpos(err.Col, err.Limit+" limit of "+strconv.FormatInt(err.Max, 10)+" exceeded")
}

func (err *LimitError) Pos() int {
	return err.Col
}

// TimeoutError indicates that the evaluation's context finished before the
// evaluation did. It unwraps to the context's error.
type TimeoutError struct {
	// Col is the position at which the evaluation stopped.
	Col int
	// Err is the context error.
	Err error
}

func (err *TimeoutError) Error() string {
	return errpos(err.Col, "evaluation stopped: "+err.Err.Error())
}

func (err *TimeoutError) Pos() int {
	return err.Col
}

func (err *TimeoutError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position. Errors
// from Number methods called outside an evaluation have no position.
func errpos(pos int, msg string) string {
	if pos <= 0 {
		return msg
	}
	return strconv.Itoa(pos) + ": " + msg
}

// at sets the position of err to col if err is one of the package's errors
// that does not yet have a position. Other errors are returned unchanged.
func at(err error, col int) error {
	if p := colptr(err); p != nil && *p == 0 {
		*p = col
	}
	return err
}

// unpos clears the position of err, so that the next at attributes it to
// the enclosing call.
func unpos(err error) error {
	if p := colptr(err); p != nil {
		*p = 0
	}
	return err
}

// colptr returns the position field of one of the package's errors.
func colptr(err error) *int {
	switch err := err.(type) {
	case *SyntaxError:
		return &err.Col
	case *TypeError:
		return &err.Col
	case *DomainError:
		return &err.Col
	case *DivisionByZeroError:
		return &err.Col
	case *UnknownFunctionError:
		return &err.Col
	case *CallError:
		return &err.Col
	case *NameError:
		return &err.Col
	case *LimitError:
		return &err.Col
	case *TimeoutError:
		return &err.Col
	}
	return nil
}

// InputError is an error with position information. Every error resulting
// from evaluating an expression implements InputError, except errors returned
// by functions outside this package.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*TypeError)(nil)
	_ InputError = (*DomainError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
	_ InputError = (*UnknownFunctionError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*LimitError)(nil)
	_ InputError = (*TimeoutError)(nil)
)
