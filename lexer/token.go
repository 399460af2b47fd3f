// Package lexer provides tokenization for the strict tag-markup grammar.
package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType int

const (
	// TokenEndOfString marks the end of the tag markup.
	TokenEndOfString TokenType = iota

	TokenIdentifier // bareword, may contain - and a trailing ?
	TokenString     // 'single' or "double" quoted
	TokenNumber     // 123, -4, 5.25
	TokenComparison // == != <> < > <= >=

	TokenDot    // .
	TokenDotDot // ..

	// Colon, comma and pipe are filter and argument punctuation. No tag
	// grammar consumes them yet; the lexer still emits them so parsers
	// reject markup like "name | upcase" with a position instead of a
	// generic character error.
	TokenColon // :
	TokenComma // ,
	TokenPipe  // |

	TokenOpenSquare  // [
	TokenCloseSquare // ]
	TokenOpenRound   // (
	TokenCloseRound  // )
)

func (t TokenType) String() string {
	switch t {
	case TokenEndOfString:
		return "end of string"
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenComparison:
		return "comparison"
	case TokenDot:
		return "dot"
	case TokenDotDot:
		return "dotdot"
	case TokenColon:
		return "colon"
	case TokenComma:
		return "comma"
	case TokenPipe:
		return "pipe"
	case TokenOpenSquare:
		return "open square bracket"
	case TokenCloseSquare:
		return "close square bracket"
	case TokenOpenRound:
		return "open round bracket"
	case TokenCloseRound:
		return "close round bracket"
	default:
		return "unknown"
	}
}

// Token is a single token of tag markup. For string tokens Value holds the
// unquoted contents.
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset in the markup, for diagnostics
}

// Error is a tokenization error. It surfaces as a syntax error in the
// enclosing template.
type Error struct {
	Detail string
	Pos    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (col %d)", e.Detail, e.Pos)
}
