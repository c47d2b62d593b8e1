package vm

import (
	"math"
	"strings"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/core/value"
)

// apply implements the operand coercion table:
//
//	int  op int   -> computed per IntegerMath, narrowed to int
//	num  op num   -> int side promoted, real result
//	str  +  str   -> concatenation
//	str  rel str  -> lexicographic comparison
//
// Relational operators always produce a boolean. Every other combination is
// an invalid-operand error.
func (m *Machine) apply(line int, lhs value.Value, op ast.Operator, rhs value.Value) (value.Value, error) {
	switch {
	case lhs.Type == value.TypeInt && rhs.Type == value.TypeInt:
		if m.IntegerMath == NativeIntegers {
			return applyInt(line, lhs.Int(), op, rhs.Int())
		}
		r, err := applyReal(line, lhs.Float(), op, rhs.Float())
		if err != nil {
			return value.None, err
		}
		if op.IsRelational() {
			return value.NewBool(r != 0), nil
		}
		return narrow(line, r)

	case lhs.IsNumeric() && rhs.IsNumeric():
		r, err := applyReal(line, lhs.Float(), op, rhs.Float())
		if err != nil {
			return value.None, err
		}
		if op.IsRelational() {
			return value.NewBool(r != 0), nil
		}
		return value.NewReal(r), nil

	case lhs.Type == value.TypeString && rhs.Type == value.TypeString:
		if op == ast.OpPlus {
			return value.NewString(lhs.Str + rhs.Str), nil
		}
		if op.IsRelational() {
			return value.NewBool(compare(op, strings.Compare(lhs.Str, rhs.Str))), nil
		}
	}

	return value.None, semanticf(ErrInvalidOperands, line, "invalid operand types")
}

// applyReal computes l op r in float64. Relational results are 1 or 0.
func applyReal(line int, l float64, op ast.Operator, r float64) (float64, error) {
	switch op {
	case ast.OpPlus:
		return l + r, nil
	case ast.OpMinus:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpPower:
		return math.Pow(l, r), nil
	case ast.OpMod:
		if r == 0 {
			return 0, semanticf(ErrDivisionByZero, line, "division by zero")
		}
		return math.Mod(l, r), nil
	case ast.OpDiv:
		if r == 0 {
			return 0, semanticf(ErrDivisionByZero, line, "division by zero")
		}
		return l / r, nil
	}

	if op.IsRelational() {
		c := 0
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		case l != r: // NaN
			return b2f(op == ast.OpNotEqual), nil
		}
		return b2f(compare(op, c)), nil
	}

	return 0, semanticf(ErrUnknownOperator, line, "unexpected operator (%d)", uint8(op))
}

func applyInt(line int, l int64, op ast.Operator, r int64) (value.Value, error) {
	switch op {
	case ast.OpPlus:
		return value.NewInt(l + r), nil
	case ast.OpMinus:
		return value.NewInt(l - r), nil
	case ast.OpMul:
		return value.NewInt(l * r), nil
	case ast.OpDiv:
		if r == 0 {
			return value.None, semanticf(ErrDivisionByZero, line, "division by zero")
		}
		return value.NewInt(l / r), nil
	case ast.OpMod:
		if r == 0 {
			return value.None, semanticf(ErrDivisionByZero, line, "division by zero")
		}
		return value.NewInt(l % r), nil
	case ast.OpPower:
		if r < 0 {
			p, _ := applyReal(line, float64(l), op, float64(r))
			return narrow(line, p)
		}
		return value.NewInt(ipow(l, r)), nil
	}

	if op.IsRelational() {
		c := 0
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
		return value.NewBool(compare(op, c)), nil
	}

	return value.None, semanticf(ErrUnknownOperator, line, "unexpected operator (%d)", uint8(op))
}

// ipow raises base to a non-negative exponent by repeated squaring, wrapping
// on overflow like the other int64 operators.
func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// narrow truncates a float result back to an integer.
func narrow(line int, f float64) (value.Value, error) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return value.None, semanticf(ErrIntegerOverflow, line, "integer result out of range")
	}
	return value.NewInt(int64(f)), nil
}

// compare maps a three-way comparison result through a relational operator.
func compare(op ast.Operator, c int) bool {
	switch op {
	case ast.OpEqual:
		return c == 0
	case ast.OpNotEqual:
		return c != 0
	case ast.OpLT:
		return c < 0
	case ast.OpLTE:
		return c <= 0
	case ast.OpGT:
		return c > 0
	case ast.OpGTE:
		return c >= 0
	}
	return false
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
