package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes the program graph, one statement per line, prefixed with
// its source line. Loop bodies are indented under their loop.
func Fprint(w io.Writer, prog *Program) {
	fprintBlock(w, prog.Statements, 0)
}

func fprintBlock(w io.Writer, stmts []Statement, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, stmt := range stmts {
		line := stmt.Pos().Line
		switch s := stmt.(type) {
		case *Assignment:
			fmt.Fprintf(w, "%d: %s%s = %s\n", line, indent, s.Target.Lexeme, s.Value)
		case *FunctionCall:
			fmt.Fprintf(w, "%d: %s%s\n", line, indent, s)
		case *WhileLoop:
			fmt.Fprintf(w, "%d: %swhile %s:\n", line, indent, s.Condition)
			fprintBlock(w, s.Body, depth+1)
		case *Pass:
			fmt.Fprintf(w, "%d: %spass\n", line, indent)
		default:
			fmt.Fprintf(w, "%d: %s<%T>\n", line, indent, stmt)
		}
	}
}
