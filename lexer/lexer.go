package lexer

import "strings"

// Lexer scans tag markup into tokens.
type Lexer struct {
	source string
	pos    int
}

// New creates a Lexer for the given tag markup.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Tokenize scans the whole markup. The trailing TokenEndOfString is
// included so parsers can match against it like any other token.
func Tokenize(source string) ([]Token, error) {
	l := New(source)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEndOfString {
			return tokens, nil
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '-'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// Next returns the next token. After the end of the markup it keeps
// returning TokenEndOfString.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.source) {
		return Token{Type: TokenEndOfString, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.source[l.pos]

	// Comparison operators first: they overlap with punctuation.
	if tok, ok := l.scanComparison(); ok {
		return tok, nil
	}

	switch {
	case b == '\'' || b == '"':
		return l.scanString(b)
	case isDigit(b) || (b == '-' && l.pos+1 < len(l.source) && isDigit(l.source[l.pos+1])):
		return l.scanNumber(), nil
	case isIdentStart(b):
		return l.scanIdentifier(), nil
	}

	l.pos++
	switch b {
	case '.':
		if l.pos < len(l.source) && l.source[l.pos] == '.' {
			l.pos++
			return Token{Type: TokenDotDot, Value: "..", Pos: start}, nil
		}
		return Token{Type: TokenDot, Value: ".", Pos: start}, nil
	case ':':
		return Token{Type: TokenColon, Value: ":", Pos: start}, nil
	case ',':
		return Token{Type: TokenComma, Value: ",", Pos: start}, nil
	case '|':
		return Token{Type: TokenPipe, Value: "|", Pos: start}, nil
	case '[':
		return Token{Type: TokenOpenSquare, Value: "[", Pos: start}, nil
	case ']':
		return Token{Type: TokenCloseSquare, Value: "]", Pos: start}, nil
	case '(':
		return Token{Type: TokenOpenRound, Value: "(", Pos: start}, nil
	case ')':
		return Token{Type: TokenCloseRound, Value: ")", Pos: start}, nil
	}

	return Token{}, &Error{
		Detail: "unexpected character " + strings.TrimSpace(string(b)),
		Pos:    start,
	}
}

func (l *Lexer) scanComparison() (Token, bool) {
	rest := l.source[l.pos:]
	for _, op := range [...]string{"==", "!=", "<>", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(rest, op) {
			tok := Token{Type: TokenComparison, Value: op, Pos: l.pos}
			l.pos += len(op)
			return tok, true
		}
	}
	return Token{}, false
}

func (l *Lexer) scanString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.source) {
		if l.source[l.pos] == quote {
			tok := Token{
				Type:  TokenString,
				Value: l.source[start+1 : l.pos],
				Pos:   start,
			}
			l.pos++
			return tok, nil
		}
		l.pos++
	}
	return Token{}, &Error{Detail: "unterminated string literal", Pos: start}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	if l.source[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.pos++
	}
	// A fractional part only when the dot is followed by a digit, so that
	// (1..3) does not lex 1. as a float.
	if l.pos+1 < len(l.source) && l.source[l.pos] == '.' && isDigit(l.source[l.pos+1]) {
		l.pos++
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}
	return Token{Type: TokenNumber, Value: l.source[start:l.pos], Pos: start}
}

func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	for l.pos < len(l.source) && isIdentChar(l.source[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.source) && l.source[l.pos] == '?' {
		l.pos++
	}
	return Token{Type: TokenIdentifier, Value: l.source[start:l.pos], Pos: start}
}

// Tokenizer is a bounded-lookahead cursor over tokens, the interface the
// strict grammar parsers consume.
type Tokenizer struct {
	tokens []Token
	pos    int
}

// NewTokenizer tokenizes the markup eagerly and returns a cursor over it.
func NewTokenizer(source string) (*Tokenizer, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{tokens: tokens}, nil
}

func (t *Tokenizer) current() Token {
	if t.pos >= len(t.tokens) {
		return Token{Type: TokenEndOfString}
	}
	return t.tokens[t.pos]
}

// Peek reports whether the next token has the given type.
func (t *Tokenizer) Peek(typ TokenType) bool {
	return t.current().Type == typ
}

// Consume returns the next token, failing if it does not have the given
// type.
func (t *Tokenizer) Consume(typ TokenType) (Token, error) {
	tok := t.current()
	if tok.Type != typ {
		return Token{}, &Error{
			Detail: "expected " + typ.String() + ", found " + describe(tok),
			Pos:    tok.Pos,
		}
	}
	t.pos++
	return tok, nil
}

// ConsumeIf consumes and returns the next token when it has the given
// type.
func (t *Tokenizer) ConsumeIf(typ TokenType) (Token, bool) {
	if !t.Peek(typ) {
		return Token{}, false
	}
	tok := t.current()
	t.pos++
	return tok, true
}

// MatchesIdentifier reports whether the next token is the given bareword.
func (t *Tokenizer) MatchesIdentifier(text string) bool {
	tok := t.current()
	return tok.Type == TokenIdentifier && tok.Value == text
}

func describe(tok Token) string {
	if tok.Type == TokenEndOfString {
		return "end of string"
	}
	return tok.Type.String() + " `" + tok.Value + "`"
}
