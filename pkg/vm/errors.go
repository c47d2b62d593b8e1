package vm

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedName   = errors.New("vm: undefined name")
	ErrInvalidOperands = errors.New("vm: invalid operand types")
	ErrInvalidString   = errors.New("vm: invalid string for conversion")
	ErrInvalidLiteral  = errors.New("vm: invalid literal")
	ErrDivisionByZero  = errors.New("vm: division by zero")
	ErrIntegerOverflow = errors.New("vm: integer overflow")
	ErrNoValue         = errors.New("vm: no value")
	ErrUnknownFunction = errors.New("vm: unexpected function")
	ErrUnknownOperator = errors.New("vm: unexpected operator")
	ErrGasExhausted    = errors.New("vm: gas exhausted")
)

// SemanticError is a run-time failure that halts the program. Err is one of
// the sentinels above, so callers can use errors.Is.
type SemanticError struct {
	Err    error
	Line   int
	Detail string
}

func (e *SemanticError) Error() string {
	class := "SEMANTIC ERROR"
	switch e.Err {
	case ErrUnknownFunction, ErrUnknownOperator, ErrGasExhausted:
		class = "EXECUTION ERROR"
	}
	return fmt.Sprintf("**%s: %s (line %d)", class, e.Detail, e.Line)
}

func (e *SemanticError) Unwrap() error { return e.Err }

func semanticf(sentinel error, line int, format string, args ...any) *SemanticError {
	return &SemanticError{Err: sentinel, Line: line, Detail: fmt.Sprintf(format, args...)}
}
