package stdlib

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/compiler/lexer"
	"github.com/agenthands/nupython/pkg/core/value"
	"github.com/agenthands/nupython/pkg/vm"
)

func call(name string, kind ast.ElementKind, lexeme string) *ast.FunctionCall {
	c := &ast.FunctionCall{
		Token: lexer.Token{Kind: lexer.KindIdentifier, Lexeme: name, Line: 4, Column: 1},
		Name:  name,
	}
	if lexeme != "" || kind == ast.ElementStrLiteral {
		c.Arg = &ast.Element{Kind: kind, Token: lexer.Token{Lexeme: lexeme, Line: 4, Column: 7}}
	}
	return c
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name     string
		call     *ast.FunctionCall
		expected string
	}{
		{"Empty", call("print", 0, ""), "\n"},
		{"String Literal", call("print", ast.ElementStrLiteral, "hello world"), "hello world\n"},
		{"Empty String", call("print", ast.ElementStrLiteral, ""), "\n"},
		{"Int Literal", call("print", ast.ElementIntLiteral, "007"), "7\n"},
		{"Real Literal", call("print", ast.ElementRealLiteral, "2.50"), "2.5\n"},
		{"Whole Real", call("print", ast.ElementRealLiteral, "3."), "3.0\n"},
		{"True", call("print", ast.ElementTrue, "True"), "True\n"},
		{"False", call("print", ast.ElementFalse, "False"), "False\n"},
		{"Int Variable", call("print", ast.ElementIdentifier, "n"), "42\n"},
		{"Str Variable", call("print", ast.ElementIdentifier, "s"), "text\n"},
		{"Real Variable", call("print", ast.ElementIdentifier, "r"), "0.125\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			m := NewMachine(strings.NewReader(""), &out)
			m.Memory.Write("n", value.NewInt(42))
			m.Memory.Write("s", value.NewString("text"))
			m.Memory.Write("r", value.NewReal(0.125))

			if _, err := Print(m, tt.call); err != nil {
				t.Fatal(err)
			}
			if out.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out.String())
			}
		})
	}
}

func TestPrintUndefined(t *testing.T) {
	var out bytes.Buffer
	m := NewMachine(strings.NewReader(""), &out)
	_, err := Print(m, call("print", ast.ElementIdentifier, "z"))
	if !errors.Is(err, vm.ErrUndefinedName) {
		t.Fatalf("expected ErrUndefinedName, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing printed, got %q", out.String())
	}
}

func TestInput(t *testing.T) {
	t.Run("Prompt And Line", func(t *testing.T) {
		var out bytes.Buffer
		m := NewMachine(strings.NewReader("Alice\r\nBob\n"), &out)

		v, err := Input(m, call("input", ast.ElementStrLiteral, "name? "))
		if err != nil {
			t.Fatal(err)
		}
		if out.String() != "name? " {
			t.Errorf("expected prompt without newline, got %q", out.String())
		}
		if v.Type != value.TypeString || v.Str != "Alice" {
			t.Errorf("expected 'Alice', got %v", v)
		}

		v, err = Input(m, call("input", 0, ""))
		if err != nil {
			t.Fatal(err)
		}
		if v.Str != "Bob" {
			t.Errorf("expected 'Bob', got %v", v)
		}
	})

	t.Run("Numeric Prompt", func(t *testing.T) {
		var out bytes.Buffer
		m := NewMachine(strings.NewReader("x\n"), &out)
		if _, err := Input(m, call("input", ast.ElementIntLiteral, "5")); err != nil {
			t.Fatal(err)
		}
		if out.String() != "5" {
			t.Errorf("expected prompt '5', got %q", out.String())
		}
	})

	t.Run("EOF", func(t *testing.T) {
		m := NewMachine(strings.NewReader("partial"), &bytes.Buffer{})
		v, err := Input(m, call("input", 0, ""))
		if err != nil {
			t.Fatal(err)
		}
		if v.Str != "partial" {
			t.Errorf("expected 'partial', got %v", v)
		}

		v, err = Input(m, call("input", 0, ""))
		if err != nil {
			t.Fatal(err)
		}
		if v.Type != value.TypeString || v.Str != "" {
			t.Errorf("expected empty string at EOF, got %v", v)
		}
	})

	t.Run("Undefined Prompt", func(t *testing.T) {
		m := NewMachine(strings.NewReader("x\n"), &bytes.Buffer{})
		if _, err := Input(m, call("input", ast.ElementIdentifier, "p")); !errors.Is(err, vm.ErrUndefinedName) {
			t.Errorf("expected ErrUndefinedName, got %v", err)
		}
	})
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name     string
		fn       vm.HostFunction
		arg      string
		expected value.Value
	}{
		{"int", Int, "007", value.NewInt(7)},
		{"int", Int, "-12", value.NewInt(-12)},
		{"int", Int, " 5 ", value.NewInt(5)},
		{"int", Int, "0", value.NewInt(0)},
		{"float", Float, "3.5", value.NewReal(3.5)},
		{"float", Float, "2", value.NewReal(2)},
		{"float", Float, ".5", value.NewReal(0.5)},
		{"float", Float, "-1e3", value.NewReal(-1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name+"("+tt.arg+")", func(t *testing.T) {
			m := NewMachine(strings.NewReader(""), &bytes.Buffer{})
			m.Memory.Write("s", value.NewString(tt.arg))

			v, err := tt.fn(m, call(tt.name, ast.ElementIdentifier, "s"))
			if err != nil {
				t.Fatal(err)
			}
			if !v.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, v)
			}
		})
	}
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		name     string
		fn       vm.HostFunction
		call     *ast.FunctionCall
		expected string
	}{
		{"int", Int, call("int", ast.ElementStrLiteral, "abc"), "**SEMANTIC ERROR: invalid string for int() (line 4)"},
		{"int", Int, call("int", ast.ElementStrLiteral, "3.5"), "**SEMANTIC ERROR: invalid string for int() (line 4)"},
		{"int", Int, call("int", ast.ElementStrLiteral, ""), "**SEMANTIC ERROR: invalid string for int() (line 4)"},
		{"int", Int, call("int", ast.ElementIntLiteral, "5"), "**SEMANTIC ERROR: invalid string for int() (line 4)"},
		{"int", Int, call("int", 0, ""), "**SEMANTIC ERROR: invalid string for int() (line 4)"},
		{"float", Float, call("float", ast.ElementStrLiteral, "1.2.3"), "**SEMANTIC ERROR: invalid string for float() (line 4)"},
		{"float", Float, call("float", ast.ElementStrLiteral, "0x1p-2"), "**SEMANTIC ERROR: invalid string for float() (line 4)"},
		{"float", Float, call("float", ast.ElementStrLiteral, "-0X1.8p1"), "**SEMANTIC ERROR: invalid string for float() (line 4)"},
		{"float", Float, call("float", ast.ElementTrue, "True"), "**SEMANTIC ERROR: invalid string for float() (line 4)"},
		{"float", Float, call("float", ast.ElementIdentifier, "nope"), "**SEMANTIC ERROR: name 'nope' is not defined (line 4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(strings.NewReader(""), &bytes.Buffer{})
			_, err := tt.fn(m, tt.call)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
		})
	}
}

func TestRegister(t *testing.T) {
	m := vm.NewMachine(strings.NewReader(""), &bytes.Buffer{})
	Register(m)

	tests := []struct {
		name      string
		statement bool
		valued    bool
	}{
		{"print", true, false},
		{"input", false, true},
		{"int", false, true},
		{"float", false, true},
	}
	for _, tt := range tests {
		e, ok := m.HostRegistry[tt.name]
		if !ok {
			t.Errorf("%s not registered", tt.name)
			continue
		}
		if e.Statement != tt.statement || e.Valued != tt.valued {
			t.Errorf("%s: expected statement=%v valued=%v, got %v %v", tt.name, tt.statement, tt.valued, e.Statement, e.Valued)
		}
	}
}
