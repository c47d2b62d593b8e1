// Package python lowers indentation-syntax programs into the same program
// graph the brace-syntax parser builds. gpython does the parsing; only the
// nuPython subset of its AST is accepted.
package python

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	pyast "github.com/go-python/gpython/ast"
	pyparser "github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/compiler/lexer"
	"github.com/agenthands/nupython/pkg/compiler/parser"
	"github.com/agenthands/nupython/pkg/core/value"
)

// ErrSyntax wraps failures reported by the gpython parser itself.
var ErrSyntax = errors.New("python: syntax error")

var binaryOps = map[pyast.OperatorNumber]ast.Operator{
	pyast.Add:    ast.OpPlus,
	pyast.Sub:    ast.OpMinus,
	pyast.Mult:   ast.OpMul,
	pyast.Div:    ast.OpDiv,
	pyast.Modulo: ast.OpMod,
	pyast.Pow:    ast.OpPower,
}

var compareOps = map[pyast.CmpOp]ast.Operator{
	pyast.Eq:    ast.OpEqual,
	pyast.NotEq: ast.OpNotEqual,
	pyast.Lt:    ast.OpLT,
	pyast.LtE:   ast.OpLTE,
	pyast.Gt:    ast.OpGT,
	pyast.GtE:   ast.OpGTE,
}

type Compiler struct {
	filename string
}

func NewCompiler() *Compiler {
	return &Compiler{filename: "<string>"}
}

// Compile parses src as Python and lowers it. Constructs outside the
// nuPython subset are reported as *parser.SyntaxError at their position.
func (c *Compiler) Compile(src string) (*ast.Program, error) {
	mod, err := pyparser.Parse(strings.NewReader(src), c.filename, py.ExecMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	module, ok := mod.(*pyast.Module)
	if !ok {
		return nil, fmt.Errorf("%w: expected *ast.Module, got %T", ErrSyntax, mod)
	}

	stmts, err := c.lowerBlock(module.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

func (c *Compiler) lowerBlock(body []pyast.Stmt) ([]ast.Statement, error) {
	var out []ast.Statement
	for _, stmt := range body {
		s, err := c.lowerStmt(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Compiler) lowerStmt(stmt pyast.Stmt) (ast.Statement, error) {
	switch s := stmt.(type) {
	case *pyast.Assign:
		if len(s.Targets) != 1 {
			return nil, unsupported(s, "only single assignment supported")
		}
		target, ok := s.Targets[0].(*pyast.Name)
		if !ok {
			return nil, unsupported(s.Targets[0], "assignment target must be a name")
		}
		v, err := c.lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: token(target, lexer.KindIdentifier, string(target.Id)), Value: v}, nil

	case *pyast.ExprStmt:
		call, ok := s.Value.(*pyast.Call)
		if !ok {
			return nil, unsupported(s, "expression statements must be function calls")
		}
		return c.lowerCall(call)

	case *pyast.While:
		if len(s.Orelse) > 0 {
			return nil, unsupported(s, "while/else not supported")
		}
		cond, err := c.lowerCondition(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := c.lowerBlock(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileLoop{Token: token(s, lexer.KindWhile, "while"), Condition: cond, Body: body}, nil

	case *pyast.Pass:
		return &ast.Pass{Token: token(s, lexer.KindPass, "pass")}, nil
	}

	return nil, unsupported(stmt, fmt.Sprintf("unsupported statement type: %T", stmt))
}

// lowerCondition accepts what lowerExpr does, minus function calls.
func (c *Compiler) lowerCondition(expr pyast.Expr) (ast.Expr, error) {
	if call, ok := expr.(*pyast.Call); ok {
		return nil, unsupported(call.Func, "function calls are not allowed in a loop condition")
	}
	return c.lowerExpr(expr)
}

func (c *Compiler) lowerExpr(expr pyast.Expr) (ast.Expr, error) {
	switch e := expr.(type) {
	case *pyast.Call:
		return c.lowerCall(e)

	case *pyast.BinOp:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, unsupported(e, fmt.Sprintf("unsupported operator %v", e.Op))
		}
		return c.binary(e.Left, op, e.Right)

	case *pyast.Compare:
		if len(e.Ops) != 1 || len(e.Comparators) != 1 {
			return nil, unsupported(e, "chained comparisons not supported")
		}
		op, ok := compareOps[e.Ops[0]]
		if !ok {
			return nil, unsupported(e, fmt.Sprintf("unsupported comparison %v", e.Ops[0]))
		}
		return c.binary(e.Left, op, e.Comparators[0])
	}

	elem, err := c.lowerElement(expr)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Element: elem}, nil
}

func (c *Compiler) binary(left pyast.Expr, op ast.Operator, right pyast.Expr) (ast.Expr, error) {
	lhs, err := c.lowerElement(left)
	if err != nil {
		return nil, err
	}
	rhs, err := c.lowerElement(right)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{LHS: lhs, Op: op, RHS: rhs}, nil
}

// gpython leaves Lineno and ColOffset of a Call at zero, so call errors are
// positioned at call.Func.
func (c *Compiler) lowerCall(call *pyast.Call) (*ast.FunctionCall, error) {
	fn, ok := call.Func.(*pyast.Name)
	if !ok {
		return nil, unsupported(call.Func, "only direct calls by name supported")
	}
	if len(call.Keywords) > 0 || len(call.Args) > 1 {
		return nil, unsupported(fn, fmt.Sprintf("%s() takes at most one positional argument", fn.Id))
	}

	out := &ast.FunctionCall{Token: token(fn, lexer.KindIdentifier, string(fn.Id)), Name: string(fn.Id)}
	if len(call.Args) == 1 {
		arg, err := c.lowerElement(call.Args[0])
		if err != nil {
			return nil, err
		}
		out.Arg = arg
	}
	return out, nil
}

func (c *Compiler) lowerElement(expr pyast.Expr) (*ast.Element, error) {
	switch e := expr.(type) {
	case *pyast.Name:
		return &ast.Element{Kind: ast.ElementIdentifier, Token: token(e, lexer.KindIdentifier, string(e.Id))}, nil

	case *pyast.Num:
		switch n := e.N.(type) {
		case py.Int:
			return &ast.Element{Kind: ast.ElementIntLiteral, Token: token(e, lexer.KindIntLiteral, strconv.FormatInt(int64(n), 10))}, nil
		case py.Float:
			lit := value.NewReal(float64(n)).Format()
			return &ast.Element{Kind: ast.ElementRealLiteral, Token: token(e, lexer.KindRealLiteral, lit)}, nil
		case *py.BigInt:
			// Resolves to an invalid-literal error at run time, same as
			// an oversized literal in brace syntax.
			return &ast.Element{Kind: ast.ElementIntLiteral, Token: token(e, lexer.KindIntLiteral, (*big.Int)(n).String())}, nil
		}
		return nil, unsupported(e, fmt.Sprintf("unsupported number %T", e.N))

	case *pyast.Str:
		return &ast.Element{Kind: ast.ElementStrLiteral, Token: token(e, lexer.KindStrLiteral, string(e.S))}, nil

	case *pyast.NameConstant:
		switch e.Value {
		case py.True:
			return &ast.Element{Kind: ast.ElementTrue, Token: token(e, lexer.KindTrue, "True")}, nil
		case py.False:
			return &ast.Element{Kind: ast.ElementFalse, Token: token(e, lexer.KindFalse, "False")}, nil
		}
		return nil, unsupported(e, "None is not a value")

	case *pyast.Call:
		return nil, unsupported(e.Func, "function calls are not allowed as an argument or operand")
	}

	return nil, unsupported(expr, fmt.Sprintf("expected a name or literal, got %T", expr))
}

type positioned interface {
	GetLineno() int
	GetColOffset() int
}

func token(n positioned, kind lexer.Kind, lexeme string) lexer.Token {
	return lexer.Token{Kind: kind, Lexeme: lexeme, Line: n.GetLineno(), Column: n.GetColOffset() + 1}
}

func unsupported(n positioned, msg string) error {
	return &parser.SyntaxError{Token: token(n, lexer.KindUnknown, ""), Msg: msg}
}
