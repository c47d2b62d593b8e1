package stdlib

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/core/value"
	"github.com/agenthands/nupython/pkg/vm"
)

// Register installs the nuPython builtins: print as a statement, and input,
// int and float as assignment right-hand sides.
func Register(m *vm.Machine) {
	m.RegisterHostFunction("print", vm.HostFunctionEntry{Fn: Print, Statement: true})
	m.RegisterHostFunction("input", vm.HostFunctionEntry{Fn: Input, Valued: true})
	m.RegisterHostFunction("int", vm.HostFunctionEntry{Fn: Int, Valued: true})
	m.RegisterHostFunction("float", vm.HostFunctionEntry{Fn: Float, Valued: true})
}

// NewMachine returns a machine with the builtins registered.
func NewMachine(stdin io.Reader, stdout io.Writer) *vm.Machine {
	m := vm.NewMachine(stdin, stdout)
	Register(m)
	return m
}

// Print writes its argument and a newline. String literals are written
// verbatim; anything else is resolved and formatted by type.
func Print(m *vm.Machine, call *ast.FunctionCall) (value.Value, error) {
	if call.Arg == nil {
		fmt.Fprintln(m.Stdout)
		return value.None, nil
	}
	if call.Arg.Kind == ast.ElementStrLiteral {
		fmt.Fprintln(m.Stdout, call.Arg.Lexeme())
		return value.None, nil
	}

	v, err := m.Resolve(call.Arg)
	if err != nil {
		return value.None, err
	}
	fmt.Fprintln(m.Stdout, v.Format())
	return value.None, nil
}

// Input writes the prompt without a newline, then reads one line. Trailing
// CR and LF characters are removed. End of input yields whatever was read,
// possibly the empty string.
func Input(m *vm.Machine, call *ast.FunctionCall) (value.Value, error) {
	if call.Arg != nil {
		prompt, err := m.Resolve(call.Arg)
		if err != nil {
			return value.None, err
		}
		fmt.Fprint(m.Stdout, prompt.Format())
	}

	line, err := m.Stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return value.None, fmt.Errorf("stdlib: input(): %w", err)
	}
	return value.NewString(strings.TrimRight(line, "\r\n")), nil
}

// Int converts a string to an integer.
func Int(m *vm.Machine, call *ast.FunctionCall) (value.Value, error) {
	return convert(m, call, value.ParseInt)
}

// Float converts a string to a real.
func Float(m *vm.Machine, call *ast.FunctionCall) (value.Value, error) {
	return convert(m, call, value.ParseReal)
}

// convert requires a string argument that parses completely.
func convert(m *vm.Machine, call *ast.FunctionCall, parse func(string) (value.Value, error)) (value.Value, error) {
	invalid := &vm.SemanticError{
		Err:    vm.ErrInvalidString,
		Line:   call.Token.Line,
		Detail: fmt.Sprintf("invalid string for %s()", call.Name),
	}
	if call.Arg == nil {
		return value.None, invalid
	}

	arg, err := m.Resolve(call.Arg)
	if err != nil {
		return value.None, err
	}
	if arg.Type != value.TypeString {
		return value.None, invalid
	}

	v, err := parse(arg.Str)
	if err != nil {
		return value.None, invalid
	}
	return v, nil
}
