package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/core/memory"
	"github.com/agenthands/nupython/pkg/core/value"
)

// IntegerMath selects how Integer op Integer is computed.
type IntegerMath uint8

const (
	// FloatIntermediate promotes both operands to float64, applies the
	// operator and truncates the result back to int64. Integers above 2^53
	// lose precision. This is the historical behavior and the default.
	FloatIntermediate IntegerMath = iota
	// NativeIntegers uses int64 arithmetic with Go's wrapping and
	// truncating-division rules.
	NativeIntegers
)

// HostFunction is a Go function callable from nuPython. It receives the
// call node so it can decide how to treat its argument.
type HostFunction func(m *Machine, call *ast.FunctionCall) (value.Value, error)

// HostFunctionEntry tracks a host function and where it may be called from.
type HostFunctionEntry struct {
	Fn HostFunction
	// Statement allows `name(arg)` as a statement.
	Statement bool
	// Valued allows `x = name(arg)`; the function must return a value.
	Valued bool
}

// Machine executes one program graph against one Memory.
type Machine struct {
	Memory *memory.Memory
	Stdin  *bufio.Reader
	Stdout io.Writer

	IntegerMath IntegerMath

	// GasLimit caps the number of statements and loop tests executed.
	// Zero means no limit.
	GasLimit int
	gas      int

	HostRegistry map[string]HostFunctionEntry
}

// NewMachine creates a machine with empty memory. A *bufio.Reader passed as
// stdin is used as is, so it can be shared with the scanner that read the
// program.
func NewMachine(stdin io.Reader, stdout io.Writer) *Machine {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	br, ok := stdin.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(stdin)
	}
	return &Machine{
		Memory:       memory.New(),
		Stdin:        br,
		Stdout:       stdout,
		HostRegistry: make(map[string]HostFunctionEntry),
	}
}

// Reset discards memory and the gas counter so the machine can run another
// program. Registered host functions are kept.
func (m *Machine) Reset() {
	m.Memory = memory.New()
	m.gas = 0
}

// RegisterHostFunction adds or replaces a host function.
func (m *Machine) RegisterHostFunction(name string, entry HostFunctionEntry) {
	if m.HostRegistry == nil {
		m.HostRegistry = make(map[string]HostFunctionEntry)
	}
	m.HostRegistry[name] = entry
}

// GasUsed returns the number of gas units spent by the last Execute.
func (m *Machine) GasUsed() int {
	return m.gas
}

// Execute runs the program until its statements are exhausted or the first
// semantic error. The error's diagnostic is written to Stdout before it is
// returned; memory keeps every write made before the failure.
func (m *Machine) Execute(prog *ast.Program) error {
	m.gas = 0
	if err := m.execBlock(prog.Statements); err != nil {
		fmt.Fprintln(m.Stdout, err)
		return err
	}
	return nil
}

func (m *Machine) execBlock(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := m.spend(stmt.Pos().Line); err != nil {
			return err
		}

		var err error
		switch s := stmt.(type) {
		case *ast.Assignment:
			err = m.execAssignment(s)
		case *ast.FunctionCall:
			err = m.execCall(s)
		case *ast.WhileLoop:
			err = m.execWhile(s)
		case *ast.Pass:
		default:
			err = fmt.Errorf("vm: unexpected statement %T", stmt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) spend(line int) error {
	m.gas++
	if m.GasLimit > 0 && m.gas > m.GasLimit {
		return semanticf(ErrGasExhausted, line, "gas exhausted after %d steps", m.GasLimit)
	}
	return nil
}

func (m *Machine) execAssignment(a *ast.Assignment) error {
	v, err := m.Eval(a.Value)
	if err != nil {
		return err
	}
	if err := m.Memory.Write(a.Target.Lexeme, v); err != nil {
		return semanticf(ErrNoValue, a.Target.Line, "cannot assign to '%s': %v", a.Target.Lexeme, err)
	}
	return nil
}

func (m *Machine) execCall(call *ast.FunctionCall) error {
	entry, ok := m.HostRegistry[call.Name]
	if !ok || !entry.Statement {
		return semanticf(ErrUnknownFunction, call.Token.Line, "unexpected function '%s'", call.Name)
	}
	_, err := entry.Fn(m, call)
	return err
}

func (m *Machine) execWhile(w *ast.WhileLoop) error {
	for {
		v, err := m.Eval(w.Condition)
		if err != nil {
			return err
		}
		ok, err := truthy(w.Token.Line, v)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := m.execBlock(w.Body); err != nil {
			return err
		}
		if err := m.spend(w.Token.Line); err != nil {
			return err
		}
	}
}

// truthy interprets a loop condition: booleans as is, numbers by comparison
// with zero. Strings have no truthiness; compare them instead.
func truthy(line int, v value.Value) (bool, error) {
	switch v.Type {
	case value.TypeBool:
		return v.Bool(), nil
	case value.TypeInt:
		return v.Int() != 0, nil
	case value.TypeReal:
		return v.Float() != 0, nil
	}
	return false, semanticf(ErrInvalidOperands, line, "invalid operand types")
}

// Eval evaluates an expression or a value-producing call.
func (m *Machine) Eval(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.UnaryExpr:
		return m.Resolve(e.Element)
	case *ast.BinaryExpr:
		lhs, err := m.Resolve(e.LHS)
		if err != nil {
			return value.None, err
		}
		rhs, err := m.Resolve(e.RHS)
		if err != nil {
			return value.None, err
		}
		return m.apply(e.LHS.Token.Line, lhs, e.Op, rhs)
	case *ast.FunctionCall:
		return m.callValued(e)
	}
	return value.None, fmt.Errorf("vm: unexpected expression %T", expr)
}

func (m *Machine) callValued(call *ast.FunctionCall) (value.Value, error) {
	entry, ok := m.HostRegistry[call.Name]
	if !ok || !entry.Valued {
		return value.None, semanticf(ErrUnknownFunction, call.Token.Line, "unexpected function '%s'", call.Name)
	}
	v, err := entry.Fn(m, call)
	if err != nil {
		return value.None, err
	}
	if v.IsNone() {
		return value.None, semanticf(ErrNoValue, call.Token.Line, "%s() returned no value", call.Name)
	}
	return v, nil
}

// Resolve returns the value of an identifier or literal element.
func (m *Machine) Resolve(e *ast.Element) (value.Value, error) {
	line := e.Token.Line
	switch e.Kind {
	case ast.ElementIdentifier:
		v, ok := m.Memory.Read(e.Lexeme())
		if !ok {
			return value.None, semanticf(ErrUndefinedName, line, "name '%s' is not defined", e.Lexeme())
		}
		return v, nil
	case ast.ElementIntLiteral:
		v, err := value.ParseInt(e.Lexeme())
		if err != nil {
			return value.None, semanticf(ErrInvalidLiteral, line, "invalid integer literal '%s'", e.Lexeme())
		}
		return v, nil
	case ast.ElementRealLiteral:
		v, err := value.ParseReal(e.Lexeme())
		if err != nil {
			return value.None, semanticf(ErrInvalidLiteral, line, "invalid real literal '%s'", e.Lexeme())
		}
		return v, nil
	case ast.ElementStrLiteral:
		return value.NewString(e.Lexeme()), nil
	case ast.ElementTrue:
		return value.NewBool(true), nil
	case ast.ElementFalse:
		return value.NewBool(false), nil
	}
	return value.None, semanticf(ErrInvalidLiteral, line, "invalid element '%s'", e.Lexeme())
}
