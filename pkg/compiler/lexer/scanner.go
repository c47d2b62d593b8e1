package lexer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const eof = -1

// Scanner performs lexical analysis on nuPython source. It reads the
// stream one byte at a time and keeps at most one byte of pushback, so
// whatever follows the end-of-stream marker is left unread for the caller.
type Scanner struct {
	src    io.ByteScanner
	line   int
	column int
	buf    strings.Builder

	// Warnings receives lexical diagnostics. Defaults to os.Stdout.
	Warnings io.Writer
}

// NewScanner creates a new scanner reading from r. If r cannot unread a
// byte it is wrapped in a bufio.Reader.
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{Warnings: os.Stdout}
	s.Reset(r)
	return s
}

// Reset re-initializes the scanner with a new stream and rewinds the cursor
// to (1, 1).
func (s *Scanner) Reset(r io.Reader) {
	if bs, ok := r.(io.ByteScanner); ok {
		s.src = bs
	} else {
		s.src = bufio.NewReader(r)
	}
	s.line = 1
	s.column = 1
	s.buf.Reset()
}

// Position returns the cursor: the line and column of the next unread byte.
func (s *Scanner) Position() (line, column int) {
	return s.line, s.column
}

// Next returns the next token from the stream. At end of input, or on the
// sentinel '$', it returns a KindEOS token with lexeme "$"; further calls
// keep reading from wherever the stream is.
func (s *Scanner) Next() Token {
	for {
		c := s.read()

		switch {
		case c == eof || c == '$':
			return Token{Kind: KindEOS, Lexeme: "$", Line: s.line, Column: s.column}

		case c == '\n':
			s.line++
			s.column = 1
			continue

		case isSpace(c):
			s.column++
			continue

		case c == '#':
			s.skipComment()
			continue
		}

		if kind, ok := structural(c); ok {
			return s.single(kind, c)
		}

		switch {
		case isAlpha(c) || c == '_':
			return s.scanIdentifier(c)
		case c == '"' || c == '\'':
			return s.scanString(c)
		case isDigit(c) || c == '.':
			return s.scanNumber(c)
		}

		switch c {
		case '*':
			return s.scanPair(c, '*', KindAsterisk, KindPower)
		case '=':
			return s.scanPair(c, '=', KindEqual, KindEqualEqual)
		case '!':
			return s.scanPair(c, '=', KindUnknown, KindNotEqual)
		case '<':
			return s.scanPair(c, '=', KindLT, KindLTE)
		case '>':
			return s.scanPair(c, '=', KindGT, KindGTE)
		case '+':
			return s.single(KindPlus, c)
		case '-':
			return s.single(KindMinus, c)
		case '/':
			return s.single(KindSlash, c)
		case '%':
			return s.single(KindPercent, c)
		case '&':
			return s.single(KindAmpersand, c)
		case ':':
			return s.single(KindColon, c)
		}

		return s.single(KindUnknown, c)
	}
}

// read returns the next byte, or eof.
func (s *Scanner) read() int {
	b, err := s.src.ReadByte()
	if err != nil {
		return eof
	}
	return int(b)
}

// unread pushes the last byte back so the next call sees it again.
func (s *Scanner) unread(c int) {
	if c == eof {
		return
	}
	_ = s.src.UnreadByte()
}

func (s *Scanner) single(kind Kind, c int) Token {
	tok := Token{Kind: kind, Lexeme: string([]byte{byte(c)}), Line: s.line, Column: s.column}
	s.column++
	return tok
}

// scanPair handles one- or two-character operators: it probes the byte
// after first and only consumes it when it equals second.
func (s *Scanner) scanPair(first int, second byte, one, two Kind) Token {
	tok := Token{Kind: one, Lexeme: string([]byte{byte(first)}), Line: s.line, Column: s.column}
	s.column++

	c := s.read()
	if c == int(second) {
		s.column++
		tok.Kind = two
		tok.Lexeme += string(second)
		return tok
	}
	s.unread(c)
	return tok
}

func (s *Scanner) scanIdentifier(c int) Token {
	tok := Token{Kind: KindIdentifier, Line: s.line, Column: s.column}

	s.buf.Reset()
	for isAlpha(c) || isDigit(c) || c == '_' {
		s.buf.WriteByte(byte(c))
		s.column++
		c = s.read()
	}
	s.unread(c)

	tok.Lexeme = s.buf.String()
	if kw, ok := keywords[tok.Lexeme]; ok {
		tok.Kind = kw
	}
	return tok
}

// scanString collects a literal up to the matching quote. A newline or end
// of input closes the literal early with a warning; the newline itself is
// left for the next call.
func (s *Scanner) scanString(quote int) Token {
	tok := Token{Kind: KindStrLiteral, Line: s.line, Column: s.column}
	s.column++

	s.buf.Reset()
	c := s.read()
	for c != quote && c != '\n' && c != eof {
		s.buf.WriteByte(byte(c))
		s.column++
		c = s.read()
	}

	if c == quote {
		s.column++
	} else {
		fmt.Fprintf(s.Warnings, "**WARNING: string literal @ (%d, %d) not terminated properly\n", tok.Line, tok.Column)
		s.unread(c)
	}

	tok.Lexeme = s.buf.String()
	return tok
}

// scanNumber collects digits and at most one '.'. A second '.' ends the
// literal and is pushed back.
func (s *Scanner) scanNumber(c int) Token {
	tok := Token{Kind: KindIntLiteral, Line: s.line, Column: s.column}

	s.buf.Reset()
	dots := 0
	for isDigit(c) || c == '.' {
		if c == '.' {
			if dots == 1 {
				break
			}
			dots++
		}
		s.buf.WriteByte(byte(c))
		s.column++
		c = s.read()
	}
	s.unread(c)

	tok.Lexeme = s.buf.String()
	switch {
	case tok.Lexeme == ".":
		tok.Kind = KindUnknown
	case dots == 1:
		tok.Kind = KindRealLiteral
	}
	return tok
}

// skipComment discards everything up to, but not including, the newline.
func (s *Scanner) skipComment() {
	s.column++ // '#'
	c := s.read()
	for c != '\n' && c != eof {
		s.column++
		c = s.read()
	}
	s.unread(c)
}

func structural(c int) (Kind, bool) {
	switch c {
	case '(':
		return KindLeftParen, true
	case ')':
		return KindRightParen, true
	case '{':
		return KindLeftBrace, true
	case '}':
		return KindRightBrace, true
	case '[':
		return KindLeftBracket, true
	case ']':
		return KindRightBracket, true
	}
	return 0, false
}

func isSpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Tokens scans r to the end-of-stream marker and returns every token,
// including the final KindEOS.
func Tokens(r io.Reader, warnings io.Writer) []Token {
	s := NewScanner(r)
	if warnings != nil {
		s.Warnings = warnings
	}
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == KindEOS {
			return toks
		}
	}
}
