package lexer

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindLeftParen    Kind = iota // (
	KindRightParen               // )
	KindLeftBrace                // {
	KindRightBrace               // }
	KindLeftBracket              // [
	KindRightBracket             // ]
	KindIdentifier
	KindStrLiteral
	KindIntLiteral
	KindRealLiteral
	KindAsterisk   // *
	KindPower      // **
	KindPlus       // +
	KindMinus      // -
	KindSlash      // /
	KindPercent    // %
	KindEqual      // =
	KindEqualEqual // ==
	KindNotEqual   // !=
	KindLT         // <
	KindLTE        // <=
	KindGT         // >
	KindGTE        // >=
	KindAmpersand  // &
	KindColon      // :
	KindEOS        // end of stream, lexeme "$"
	KindUnknown

	// Keywords, in the order of the keyword table.
	KindAnd
	KindBreak
	KindContinue
	KindDef
	KindElif
	KindElse
	KindFalse
	KindFor
	KindIf
	KindIn
	KindIs
	KindNone
	KindNot
	KindOr
	KindPass
	KindReturn
	KindTrue
	KindWhile
)

var kindNames = [...]string{
	KindLeftParen:    "LEFT_PAREN",
	KindRightParen:   "RIGHT_PAREN",
	KindLeftBrace:    "LEFT_BRACE",
	KindRightBrace:   "RIGHT_BRACE",
	KindLeftBracket:  "LEFT_BRACKET",
	KindRightBracket: "RIGHT_BRACKET",
	KindIdentifier:   "IDENTIFIER",
	KindStrLiteral:   "STR_LITERAL",
	KindIntLiteral:   "INT_LITERAL",
	KindRealLiteral:  "REAL_LITERAL",
	KindAsterisk:     "ASTERISK",
	KindPower:        "POWER",
	KindPlus:         "PLUS",
	KindMinus:        "MINUS",
	KindSlash:        "SLASH",
	KindPercent:      "PERCENT",
	KindEqual:        "EQUAL",
	KindEqualEqual:   "EQUALEQUAL",
	KindNotEqual:     "NOTEQUAL",
	KindLT:           "LT",
	KindLTE:          "LTE",
	KindGT:           "GT",
	KindGTE:          "GTE",
	KindAmpersand:    "AMPERSAND",
	KindColon:        "COLON",
	KindEOS:          "EOS",
	KindUnknown:      "UNKNOWN",
	KindAnd:          "KEYW_AND",
	KindBreak:        "KEYW_BREAK",
	KindContinue:     "KEYW_CONTINUE",
	KindDef:          "KEYW_DEF",
	KindElif:         "KEYW_ELIF",
	KindElse:         "KEYW_ELSE",
	KindFalse:        "KEYW_FALSE",
	KindFor:          "KEYW_FOR",
	KindIf:           "KEYW_IF",
	KindIn:           "KEYW_IN",
	KindIs:           "KEYW_IS",
	KindNone:         "KEYW_NONE",
	KindNot:          "KEYW_NOT",
	KindOr:           "KEYW_OR",
	KindPass:         "KEYW_PASS",
	KindReturn:       "KEYW_RETURN",
	KindTrue:         "KEYW_TRUE",
	KindWhile:        "KEYW_WHILE",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsKeyword reports whether k is one of the reserved-word kinds.
func (k Kind) IsKeyword() bool {
	return k >= KindAnd && k <= KindWhile
}

// keywords maps reserved words to their kinds. Matching is case-sensitive.
var keywords = map[string]Kind{
	"and":      KindAnd,
	"break":    KindBreak,
	"continue": KindContinue,
	"def":      KindDef,
	"elif":     KindElif,
	"else":     KindElse,
	"False":    KindFalse,
	"for":      KindFor,
	"if":       KindIf,
	"in":       KindIn,
	"is":       KindIs,
	"None":     KindNone,
	"not":      KindNot,
	"or":       KindOr,
	"pass":     KindPass,
	"return":   KindReturn,
	"True":     KindTrue,
	"while":    KindWhile,
}

// Token represents a lexical unit. Line and Column are 1-based and point at
// the token's first character.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q (%d, %d)", t.Kind, t.Lexeme, t.Line, t.Column)
}
