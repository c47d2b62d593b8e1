package ast

import (
	"fmt"
	"strings"

	"github.com/agenthands/nupython/pkg/compiler/lexer"
)

// Node represents any node in the program graph.
type Node interface {
	Pos() lexer.Token
}

// Expr represents an expression that yields a value.
type Expr interface {
	Node
	fmt.Stringer
	exprNode()
}

// Statement represents a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node: the top-level statements in source order.
type Program struct {
	Statements []Statement
}

// ElementKind tags the operand of an expression.
type ElementKind uint8

const (
	ElementIdentifier ElementKind = iota
	ElementIntLiteral
	ElementRealLiteral
	ElementStrLiteral
	ElementTrue
	ElementFalse
)

// Element is an identifier reference or a literal. The literal text is the
// token lexeme, quotes already stripped.
type Element struct {
	Kind  ElementKind
	Token lexer.Token
}

func (e *Element) Pos() lexer.Token { return e.Token }
func (e *Element) Lexeme() string   { return e.Token.Lexeme }

func (e *Element) String() string {
	switch e.Kind {
	case ElementStrLiteral:
		if strings.Contains(e.Token.Lexeme, "'") {
			return `"` + e.Token.Lexeme + `"`
		}
		return "'" + e.Token.Lexeme + "'"
	case ElementTrue:
		return "True"
	case ElementFalse:
		return "False"
	}
	return e.Token.Lexeme
}

// Operator is a binary operator.
type Operator uint8

const (
	OpPlus Operator = iota
	OpMinus
	OpMul
	OpPower
	OpMod
	OpDiv
	OpEqual
	OpNotEqual
	OpLT
	OpLTE
	OpGT
	OpGTE
)

var opSymbols = [...]string{
	OpPlus:     "+",
	OpMinus:    "-",
	OpMul:      "*",
	OpPower:    "**",
	OpMod:      "%",
	OpDiv:      "/",
	OpEqual:    "==",
	OpNotEqual: "!=",
	OpLT:       "<",
	OpLTE:      "<=",
	OpGT:       ">",
	OpGTE:      ">=",
}

func (op Operator) String() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}
	return fmt.Sprintf("Operator(%d)", uint8(op))
}

// IsRelational reports whether op always yields a boolean.
func (op Operator) IsRelational() bool {
	return op >= OpEqual && op <= OpGTE
}

// OperatorFor maps a token kind to its binary operator.
func OperatorFor(k lexer.Kind) (Operator, bool) {
	switch k {
	case lexer.KindPlus:
		return OpPlus, true
	case lexer.KindMinus:
		return OpMinus, true
	case lexer.KindAsterisk:
		return OpMul, true
	case lexer.KindPower:
		return OpPower, true
	case lexer.KindPercent:
		return OpMod, true
	case lexer.KindSlash:
		return OpDiv, true
	case lexer.KindEqualEqual:
		return OpEqual, true
	case lexer.KindNotEqual:
		return OpNotEqual, true
	case lexer.KindLT:
		return OpLT, true
	case lexer.KindLTE:
		return OpLTE, true
	case lexer.KindGT:
		return OpGT, true
	case lexer.KindGTE:
		return OpGTE, true
	}
	return 0, false
}

// UnaryExpr: ELEMENT
type UnaryExpr struct {
	Element *Element
}

func (u *UnaryExpr) Pos() lexer.Token { return u.Element.Token }
func (u *UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string   { return u.Element.String() }

// BinaryExpr: ELEMENT OP ELEMENT
type BinaryExpr struct {
	LHS *Element
	Op  Operator
	RHS *Element
}

func (b *BinaryExpr) Pos() lexer.Token { return b.LHS.Token }
func (b *BinaryExpr) exprNode()        {}
func (b *BinaryExpr) String() string {
	return b.LHS.String() + " " + b.Op.String() + " " + b.RHS.String()
}

// FunctionCall: NAME ( [ELEMENT] )
// It appears both as a statement and as the right-hand side of an
// assignment.
type FunctionCall struct {
	Token lexer.Token
	Name  string
	Arg   *Element
}

func (f *FunctionCall) Pos() lexer.Token { return f.Token }
func (f *FunctionCall) exprNode()        {}
func (f *FunctionCall) stmtNode()        {}
func (f *FunctionCall) String() string {
	if f.Arg == nil {
		return f.Name + "()"
	}
	return f.Name + "(" + f.Arg.String() + ")"
}

// Assignment: NAME = EXPR | NAME = CALL
type Assignment struct {
	Target lexer.Token
	Value  Expr
}

func (a *Assignment) Pos() lexer.Token { return a.Target }
func (a *Assignment) stmtNode()        {}

// WhileLoop: while EXPR : { BODY }
// The loop owns its body; one pass through the body is one walk of Body.
type WhileLoop struct {
	Token     lexer.Token
	Condition Expr
	Body      []Statement
}

func (w *WhileLoop) Pos() lexer.Token { return w.Token }
func (w *WhileLoop) stmtNode()        {}

// Pass: pass
type Pass struct {
	Token lexer.Token
}

func (p *Pass) Pos() lexer.Token { return p.Token }
func (p *Pass) stmtNode()        {}
