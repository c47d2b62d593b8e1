package parser

import (
	"fmt"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/compiler/lexer"
)

// SyntaxError reports the first token the grammar could not accept.
type SyntaxError struct {
	Token lexer.Token
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("**SYNTAX ERROR @ (%d, %d): %s", e.Token.Line, e.Token.Column, e.Msg)
}

type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	peekTok lexer.Token
}

// NewParser primes a parser with two tokens of lookahead. The scanner is
// never advanced past the end-of-stream token, so a shared input stream is
// left positioned right after '$'.
func NewParser(s *lexer.Scanner) *Parser {
	p := &Parser{scanner: s}
	p.peekTok = s.Next()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curTok.Kind != lexer.KindEOS {
		p.peekTok = p.scanner.Next()
	}
}

// Parse consumes the whole token stream and returns the program graph.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for p.curTok.Kind != lexer.KindEOS {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, nil
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &SyntaxError{Token: tok, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	tok := p.curTok
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expecting %s but found %s", what, describe(tok))
	}
	p.nextToken()
	return tok, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curTok.Kind {
	case lexer.KindIdentifier:
		switch p.peekTok.Kind {
		case lexer.KindLeftParen:
			return p.parseCall()
		case lexer.KindEqual:
			return p.parseAssignment()
		}
		return nil, p.errorf(p.peekTok, "expecting '=' or '(' but found %s", describe(p.peekTok))
	case lexer.KindWhile:
		return p.parseWhile()
	case lexer.KindPass:
		tok := p.curTok
		p.nextToken()
		return &ast.Pass{Token: tok}, nil
	default:
		return nil, p.errorf(p.curTok, "unexpected %s", describe(p.curTok))
	}
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	target := p.curTok
	p.nextToken() // identifier
	p.nextToken() // '='

	if p.curTok.Kind == lexer.KindIdentifier && p.peekTok.Kind == lexer.KindLeftParen {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: target, Value: call}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Target: target, Value: expr}, nil
}

func (p *Parser) parseCall() (*ast.FunctionCall, error) {
	name := p.curTok
	p.nextToken()

	if _, err := p.expect(lexer.KindLeftParen, "'('"); err != nil {
		return nil, err
	}

	call := &ast.FunctionCall{Token: name, Name: name.Lexeme}
	if p.curTok.Kind != lexer.KindRightParen {
		arg, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		call.Arg = arg
	}

	if _, err := p.expect(lexer.KindRightParen, "')'"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	whileTok := p.curTok
	p.nextToken() // skip while

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindColon, "':'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindLeftBrace, "'{'"); err != nil {
		return nil, err
	}

	var body []ast.Statement
	for p.curTok.Kind != lexer.KindRightBrace {
		if p.curTok.Kind == lexer.KindEOS {
			return nil, p.errorf(p.curTok, "expecting '}' but found end of input")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.nextToken() // skip '}'

	return &ast.WhileLoop{Token: whileTok, Condition: cond, Body: body}, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseElement()
	if err != nil {
		return nil, err
	}

	op, ok := ast.OperatorFor(p.curTok.Kind)
	if !ok {
		return &ast.UnaryExpr{Element: lhs}, nil
	}
	p.nextToken()

	rhs, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{LHS: lhs, Op: op, RHS: rhs}, nil
}

func (p *Parser) parseElement() (*ast.Element, error) {
	tok := p.curTok

	var kind ast.ElementKind
	switch tok.Kind {
	case lexer.KindIdentifier:
		kind = ast.ElementIdentifier
	case lexer.KindIntLiteral:
		kind = ast.ElementIntLiteral
	case lexer.KindRealLiteral:
		kind = ast.ElementRealLiteral
	case lexer.KindStrLiteral:
		kind = ast.ElementStrLiteral
	case lexer.KindTrue:
		kind = ast.ElementTrue
	case lexer.KindFalse:
		kind = ast.ElementFalse
	case lexer.KindNone:
		return nil, p.errorf(tok, "None is not supported as a value")
	default:
		return nil, p.errorf(tok, "expecting identifier or literal but found %s", describe(tok))
	}

	p.nextToken()
	return &ast.Element{Kind: kind, Token: tok}, nil
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.KindEOS:
		return "end of input"
	case lexer.KindUnknown:
		return fmt.Sprintf("unknown token '%s'", tok.Lexeme)
	case lexer.KindStrLiteral:
		return fmt.Sprintf("string literal '%s'", tok.Lexeme)
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}
