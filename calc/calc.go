// Package calc evaluates the single binary operations that get recorded in the
// calculator's line log, and formats the lines written for them.
package calc

import (
	"fmt"
	"math"
	"strconv"

	"github.com/juju/errors"
)

const (
	ErrInvalidNumber   = errors.ConstError("invalid number")
	ErrInvalidOperator = errors.ConstError("invalid operator")
	ErrDivisionByZero  = errors.ConstError("division by zero")
	ErrOverflow        = errors.ConstError("overflow in operation")
)

type Operator byte

const (
	Add      Operator = '+'
	Subtract Operator = '-'
	Multiply Operator = '*'
	// Times is accepted for multiplication since '*' needs quoting in a shell
	Times  Operator = 'x'
	Divide Operator = '/'
)

// ParseOperand accepts a base-10 integer spanning the whole text within int32 range.
func ParseOperand(text string) (int32, error) {
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, errors.Annotatef(ErrInvalidNumber, "%q", text)
	}
	return int32(v), nil
}

func ParseOperator(text string) (Operator, error) {
	if len(text) != 1 {
		return 0, errors.Annotatef(ErrInvalidOperator, "%q", text)
	}
	switch op := Operator(text[0]); op {
	case Add, Subtract, Multiply, Times, Divide:
		return op, nil
	}
	return 0, errors.Annotatef(ErrInvalidOperator, "%q", text)
}

// Compute works in int64 and fails when the result leaves int32. Division
// truncates toward zero.
func Compute(a, b int32, op Operator) (int32, error) {
	var r int64
	switch op {
	case Add:
		r = int64(a) + int64(b)
	case Subtract:
		r = int64(a) - int64(b)
	case Multiply, Times:
		r = int64(a) * int64(b)
	case Divide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		r = int64(a) / int64(b)
	default:
		return 0, errors.Annotatef(ErrInvalidOperator, "%q", string(op))
	}

	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, errors.Annotatef(ErrOverflow, "%d %c %d", a, op, b)
	}
	return int32(r), nil
}

// Operation is an evaluated expression. Operands keep the text they were typed as.
type Operation struct {
	Num1, Op, Num2 string
	Result         int32
}

func Evaluate(num1, op, num2 string) (Operation, error) {
	a, err := ParseOperand(num1)
	if err != nil {
		return Operation{}, err
	}
	b, err := ParseOperand(num2)
	if err != nil {
		return Operation{}, err
	}
	o, err := ParseOperator(op)
	if err != nil {
		return Operation{}, err
	}

	r, err := Compute(a, b, o)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Num1: num1, Op: op, Num2: num2, Result: r}, nil
}

// String is the log line for the operation, without newline.
func (t Operation) String() string {
	return fmt.Sprintf("Operación: %s %s %s = %d", t.Num1, t.Op, t.Num2, t.Result)
}

// FormatLookup renders line n of the log as printed by a history lookup.
func FormatLookup(n int, content []byte) string {
	return fmt.Sprintf("Linea %d: %s", n, content)
}
