package liquid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fluentpage/liquid-go/lexer"
	"github.com/fluentpage/liquid-go/value"
)

// Expression is a parsed tag-markup expression: a literal, a range or a
// variable lookup. Expressions are immutable after parse and shared across
// renders.
type Expression interface {
	// Evaluate resolves the expression against the render context.
	Evaluate(ctx *Context) (value.Value, error)

	// String returns the canonical text form, used for diagnostics and
	// equality display only. It is never re-parsed.
	String() string
}

// Literal is a constant expression.
type Literal struct {
	Val value.Value
}

// Evaluate returns the literal value.
func (l Literal) Evaluate(ctx *Context) (value.Value, error) {
	return l.Val, nil
}

func (l Literal) String() string {
	return l.Val.Repr()
}

// Equal reports structural equality with another expression.
func (l Literal) Equal(other Literal) bool {
	return l.Val.Equal(other.Val)
}

// RangeExpression is a (lo..hi) literal whose bounds are themselves
// expressions. Bounds are truncated to integers at evaluation time.
type RangeExpression struct {
	Lo, Hi Expression
}

// Evaluate resolves both bounds and builds the inclusive range.
func (r RangeExpression) Evaluate(ctx *Context) (value.Value, error) {
	lo, err := ctx.Evaluate(r.Lo)
	if err != nil {
		return value.Nil(), err
	}
	hi, err := ctx.Evaluate(r.Hi)
	if err != nil {
		return value.Nil(), err
	}
	return value.FromRange(toInteger(lo), toInteger(hi)), nil
}

func (r RangeExpression) String() string {
	return fmt.Sprintf("(%s..%s)", r.Lo, r.Hi)
}

// Equal reports structural equality with another range expression.
func (r RangeExpression) Equal(other RangeExpression) bool {
	return exprEqual(r.Lo, other.Lo) && exprEqual(r.Hi, other.Hi)
}

// toInteger coerces a range bound the way Ruby's to_i does: non-numeric
// bounds become 0, floats truncate.
func toInteger(v value.Value) int64 {
	if i, ok := v.AsInt(); ok {
		return i
	}
	if f, ok := v.AsFloat(); ok {
		return int64(f)
	}
	if s, ok := v.AsString(); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i
		}
	}
	return 0
}

// exprEqual reports structural equality of two expressions.
func exprEqual(a, b Expression) bool {
	switch ae := a.(type) {
	case Literal:
		be, ok := b.(Literal)
		return ok && ae.Equal(be)
	case RangeExpression:
		be, ok := b.(RangeExpression)
		return ok && ae.Equal(be)
	case *VariableLookup:
		be, ok := b.(*VariableLookup)
		return ok && ae.Equal(be)
	default:
		return false
	}
}

// ParseExpressionLax parses expression markup under the lax grammar. The
// lax grammar never fails: markup that is not a recognizable literal or
// range is treated as a variable path.
func ParseExpressionLax(markup string) Expression {
	markup = strings.TrimSpace(markup)

	switch markup {
	case "", "nil", "null":
		return Literal{Val: value.Nil()}
	case "true":
		return Literal{Val: value.True()}
	case "false":
		return Literal{Val: value.False()}
	}

	if len(markup) >= 2 {
		if q := markup[0]; (q == '\'' || q == '"') && markup[len(markup)-1] == q {
			return Literal{Val: value.FromString(markup[1 : len(markup)-1])}
		}
	}

	if strings.HasPrefix(markup, "(") && strings.HasSuffix(markup, ")") {
		inner := markup[1 : len(markup)-1]
		if idx := strings.Index(inner, ".."); idx >= 0 {
			lo := ParseExpressionLax(inner[:idx])
			hi := ParseExpressionLax(inner[idx+2:])
			return RangeExpression{Lo: lo, Hi: hi}
		}
	}

	if i, err := strconv.ParseInt(markup, 10, 64); err == nil {
		return Literal{Val: value.FromInt(i)}
	}
	if f, err := strconv.ParseFloat(markup, 64); err == nil {
		return Literal{Val: value.FromFloat(f)}
	}

	return ParseVariableLookupLax(markup)
}

// literalKeywords are barewords the strict grammar resolves to constants
// instead of variable lookups -- but only when the bareword stands alone,
// so `nil.size` still parses as a path.
var literalKeywords = map[string]value.Value{
	"nil":   value.Nil(),
	"null":  value.Nil(),
	"true":  value.True(),
	"false": value.False(),
}

// parseExpressionStrict parses one expression from the tokenizer under the
// strict grammar.
func parseExpressionStrict(tz *lexer.Tokenizer) (Expression, error) {
	switch {
	case tz.Peek(lexer.TokenString):
		tok, _ := tz.Consume(lexer.TokenString)
		return Literal{Val: value.FromString(tok.Value)}, nil

	case tz.Peek(lexer.TokenNumber):
		tok, _ := tz.Consume(lexer.TokenNumber)
		if i, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			return Literal{Val: value.FromInt(i)}, nil
		}
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, NewError(ErrSyntax, fmt.Sprintf("invalid number literal %q", tok.Value))
		}
		return Literal{Val: value.FromFloat(f)}, nil

	case tz.Peek(lexer.TokenOpenRound):
		tz.Consume(lexer.TokenOpenRound)
		lo, err := parseExpressionStrict(tz)
		if err != nil {
			return nil, err
		}
		if _, err := tz.Consume(lexer.TokenDotDot); err != nil {
			return nil, syntaxError(err)
		}
		hi, err := parseExpressionStrict(tz)
		if err != nil {
			return nil, err
		}
		if _, err := tz.Consume(lexer.TokenCloseRound); err != nil {
			return nil, syntaxError(err)
		}
		return RangeExpression{Lo: lo, Hi: hi}, nil

	case tz.Peek(lexer.TokenIdentifier), tz.Peek(lexer.TokenOpenSquare):
		if tz.Peek(lexer.TokenIdentifier) {
			for word, val := range literalKeywords {
				if tz.MatchesIdentifier(word) {
					tok, _ := tz.Consume(lexer.TokenIdentifier)
					// A keyword directly followed by a lookup step is a
					// variable path, not a constant.
					if tz.Peek(lexer.TokenDot) || tz.Peek(lexer.TokenOpenSquare) {
						return parseVariableLookupStrictFromRoot(tz, tok.Value)
					}
					return Literal{Val: val}, nil
				}
			}
		}
		return ParseVariableLookupStrict(tz)

	default:
		_, err := tz.Consume(lexer.TokenIdentifier)
		return nil, syntaxError(err)
	}
}

// syntaxError wraps a lexer error into a template syntax error.
func syntaxError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return NewError(ErrSyntax, err.Error())
}
