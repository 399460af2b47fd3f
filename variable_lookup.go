package liquid

import (
	"fmt"
	"strings"

	"github.com/fluentpage/liquid-go/lexer"
	"github.com/fluentpage/liquid-go/value"
)

// LookupStep is one step of a variable path: a literal key, or a computed
// one for bracketed `[expression]` steps.
//
// Command marks a bareword from the fixed command vocabulary (size, first,
// last) found in a dotted position. The flag is advisory: it is assigned
// from token shape alone, and at evaluation time a real key of the same
// name still wins over the command.
type LookupStep struct {
	Key     string     // literal key, valid when Expr is nil
	Expr    Expression // computed key
	Command bool
}

// VariableLookup resolves a root name plus an ordered chain of lookup
// steps into a value. It is immutable after parse and shared, read-only,
// across renders.
type VariableLookup struct {
	rootName string
	rootExpr Expression // non-nil for a bracket-wrapped dynamic root
	steps    []LookupStep
}

// Steps returns the ordered lookup steps.
func (l *VariableLookup) Steps() []LookupStep {
	return l.steps
}

// ParseVariableLookupLax parses a variable path under the lax grammar.
//
// The markup is scanned with a single quote-aware pass recognizing
// bracketed `[...]` groups and barewords; dots and any other characters
// act as separators. The grammar never fails: unrecognizable markup just
// produces a lookup with fewer steps.
func ParseVariableLookupLax(markup string) *VariableLookup {
	tokens := scanVariableTokens(markup)
	lookup := &VariableLookup{}

	for i, tok := range tokens {
		bracketed := strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]")

		if i == 0 {
			if bracketed {
				lookup.rootExpr = ParseExpressionLax(tok[1 : len(tok)-1])
			} else {
				lookup.rootName = tok
			}
			continue
		}

		if bracketed {
			lookup.steps = append(lookup.steps, LookupStep{
				Expr: ParseExpressionLax(tok[1 : len(tok)-1]),
			})
			continue
		}
		_, isCommand := value.CommandOf(tok)
		lookup.steps = append(lookup.steps, LookupStep{Key: tok, Command: isCommand})
	}
	return lookup
}

// scanVariableTokens splits variable markup into bracketed groups and
// barewords. Bracket groups nest and are quote-aware, so a `]` inside a
// quoted literal does not close the group.
func scanVariableTokens(markup string) []string {
	var tokens []string
	for i := 0; i < len(markup); {
		b := markup[i]
		switch {
		case b == '[':
			depth := 0
			start := i
			for i < len(markup) {
				switch markup[i] {
				case '\'', '"':
					i = skipQuoted(markup, i)
					continue
				case '[':
					depth++
				case ']':
					depth--
				}
				i++
				if depth == 0 {
					break
				}
			}
			tokens = append(tokens, markup[start:i])
		case isBarewordChar(b):
			start := i
			for i < len(markup) && isBarewordChar(markup[i]) {
				i++
			}
			if i < len(markup) && markup[i] == '?' {
				i++
			}
			tokens = append(tokens, markup[start:i])
		default:
			i++
		}
	}
	return tokens
}

func isBarewordChar(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// skipQuoted advances past the quoted literal starting at i and returns
// the index just after the closing quote.
func skipQuoted(s string, i int) int {
	quote := s[i]
	i++
	for i < len(s) && s[i] != quote {
		i++
	}
	if i < len(s) {
		i++
	}
	return i
}

// ParseVariableLookupStrict parses a variable path from the tokenizer:
// root is a bare identifier or a bracketed expression, followed by any
// number of `.identifier` and `[expression]` steps.
func ParseVariableLookupStrict(tz *lexer.Tokenizer) (*VariableLookup, error) {
	if tok, ok := tz.ConsumeIf(lexer.TokenIdentifier); ok {
		return parseVariableLookupStrictFromRoot(tz, tok.Value)
	}
	if _, ok := tz.ConsumeIf(lexer.TokenOpenSquare); ok {
		expr, err := parseExpressionStrict(tz)
		if err != nil {
			return nil, err
		}
		if _, err := tz.Consume(lexer.TokenCloseSquare); err != nil {
			return nil, syntaxError(err)
		}
		lookup := &VariableLookup{rootExpr: expr}
		return parseLookupSteps(tz, lookup)
	}
	_, err := tz.Consume(lexer.TokenIdentifier)
	return nil, syntaxError(err)
}

func parseVariableLookupStrictFromRoot(tz *lexer.Tokenizer, root string) (*VariableLookup, error) {
	return parseLookupSteps(tz, &VariableLookup{rootName: root})
}

func parseLookupSteps(tz *lexer.Tokenizer, lookup *VariableLookup) (*VariableLookup, error) {
	for {
		if _, ok := tz.ConsumeIf(lexer.TokenDot); ok {
			tok, err := tz.Consume(lexer.TokenIdentifier)
			if err != nil {
				return nil, syntaxError(err)
			}
			_, isCommand := value.CommandOf(tok.Value)
			lookup.steps = append(lookup.steps, LookupStep{Key: tok.Value, Command: isCommand})
			continue
		}
		if _, ok := tz.ConsumeIf(lexer.TokenOpenSquare); ok {
			expr, err := parseExpressionStrict(tz)
			if err != nil {
				return nil, err
			}
			if _, err := tz.Consume(lexer.TokenCloseSquare); err != nil {
				return nil, syntaxError(err)
			}
			lookup.steps = append(lookup.steps, LookupStep{Expr: expr})
			continue
		}
		return lookup, nil
	}
}

// Evaluate resolves the path against the context.
//
// Each step first tries keyed access (a real key always shadows a command
// of the same name), then command dispatch for flagged steps. A step that
// matches neither resolves the whole path to nil under the lenient policy
// and fails with an undefined-variable error under the strict one.
func (l *VariableLookup) Evaluate(ctx *Context) (value.Value, error) {
	rootKey := l.rootName
	if l.rootExpr != nil {
		key, err := ctx.Evaluate(l.rootExpr)
		if err != nil {
			return value.Nil(), err
		}
		rootKey = key.String()
	}

	cur, found := ctx.findRoot(rootKey)
	if !found {
		if ctx.strictVariables {
			return value.Nil(), NewError(ErrUndefinedVar,
				fmt.Sprintf("undefined variable %s", rootKey))
		}
		return value.Nil(), nil
	}
	ctx.bind(cur)

	for i := range l.steps {
		step := &l.steps[i]

		key := value.FromString(step.Key)
		if step.Expr != nil {
			var err error
			key, err = ctx.Evaluate(step.Expr)
			if err != nil {
				return value.Nil(), err
			}
		}

		_, isInt := key.AsInt()
		switch {
		case cur.SupportsKeyed() && (cur.HasKey(key) || (isInt && cur.SupportsIndex())):
			var err error
			cur, err = ctx.LookupAndForce(cur, key)
			if err != nil {
				return value.Nil(), err
			}

		case step.Command && invokeCommand(&cur, step.Key):
			// cur replaced by the command result.

		default:
			if ctx.strictVariables {
				return value.Nil(), NewError(ErrUndefinedVar,
					fmt.Sprintf("undefined variable %s", key.String()))
			}
			return value.Nil(), nil
		}
		ctx.bind(cur)
	}
	return cur, nil
}

// invokeCommand dispatches the named command against *cur, replacing it
// with the canonicalized result on success.
func invokeCommand(cur *value.Value, name string) bool {
	cmd, ok := value.CommandOf(name)
	if !ok {
		return false
	}
	res, ok := cur.InvokeCommand(cmd)
	if !ok {
		return false
	}
	*cur = value.FromAny(res.Raw())
	return true
}

// String returns the canonical text form: the root followed by each step
// as ['literal'] for string keys or [expr] for computed ones. It is used
// for diagnostics and equality display only, never re-parsed.
func (l *VariableLookup) String() string {
	var sb strings.Builder
	if l.rootExpr != nil {
		sb.WriteString("[" + l.rootExpr.String() + "]")
	} else {
		sb.WriteString(l.rootName)
	}
	for _, step := range l.steps {
		if step.Expr != nil {
			sb.WriteString("[" + step.Expr.String() + "]")
		} else {
			sb.WriteString("['" + step.Key + "']")
		}
	}
	return sb.String()
}

// Equal reports structural equality: same root, same steps in the same
// order with identical command flags.
func (l *VariableLookup) Equal(other *VariableLookup) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.rootName != other.rootName {
		return false
	}
	if (l.rootExpr == nil) != (other.rootExpr == nil) {
		return false
	}
	if l.rootExpr != nil && !exprEqual(l.rootExpr, other.rootExpr) {
		return false
	}
	if len(l.steps) != len(other.steps) {
		return false
	}
	for i := range l.steps {
		a, b := l.steps[i], other.steps[i]
		if a.Key != b.Key || a.Command != b.Command {
			return false
		}
		if (a.Expr == nil) != (b.Expr == nil) {
			return false
		}
		if a.Expr != nil && !exprEqual(a.Expr, b.Expr) {
			return false
		}
	}
	return true
}
