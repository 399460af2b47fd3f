package liquid

import (
	"fmt"
	"strings"

	"github.com/fluentpage/liquid-go/lexer"
)

// conditionRelation is the boolean relation linking a condition to its
// successor in a chain.
type conditionRelation int

const (
	relNone conditionRelation = iota
	relAnd
	relOr
)

// comparisonOps is the closed operator vocabulary. <> is the historical
// alias of !=.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<>": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"contains": true,
}

// Condition is one comparison followed by an ordered sequence of
// (relation, comparison) links. Chains are flat, acyclic and finite; they
// are built at parse time and shared, read-only, across renders.
//
// With no operator the truthiness of the left operand alone decides: only
// nil and false are falsy, everything else (including empty containers) is
// truthy.
type Condition struct {
	Left  Expression
	Op    string // empty when the condition is a bare truthiness check
	Right Expression

	links []conditionLink
}

// conditionLink joins the chain to one more comparison. The linked
// condition carries no links of its own: chains are flattened on
// construction.
type conditionLink struct {
	rel  conditionRelation
	cond *Condition
}

// NewCondition creates a comparison condition. Use an empty operator and a
// nil right operand for a bare truthiness check.
func NewCondition(left Expression, op string, right Expression) *Condition {
	return &Condition{Left: left, Op: op, Right: right}
}

// And returns a new chain: c's comparisons, then other's joined under the
// and-relation. Neither receiver nor argument is modified.
func (c *Condition) And(other *Condition) *Condition {
	return c.join(relAnd, other)
}

// Or returns a new chain joining other under the or-relation.
func (c *Condition) Or(other *Condition) *Condition {
	return c.join(relOr, other)
}

func (c *Condition) join(rel conditionRelation, other *Condition) *Condition {
	out := &Condition{Left: c.Left, Op: c.Op, Right: c.Right}
	out.links = append(out.links, c.links...)
	out.links = append(out.links, conditionLink{rel: rel, cond: other.head()})
	out.links = append(out.links, other.links...)
	return out
}

// head returns this chain's first comparison, stripped of its links.
func (c *Condition) head() *Condition {
	if len(c.links) == 0 {
		return c
	}
	return &Condition{Left: c.Left, Op: c.Op, Right: c.Right}
}

// Evaluate computes the boolean result of the whole chain: the running
// result folds into each link strictly left to right, so `a or b and c`
// groups as `(a or b) and c`. There is no precedence between and and or.
// Short-circuiting is per adjacent relation: a comparison under and is
// not evaluated when the running result is already false, nor under or
// when it is already true, but the walk continues to the end of the
// chain either way.
func (c *Condition) Evaluate(ctx *Context) (bool, error) {
	result, err := c.evaluateSelf(ctx)
	if err != nil {
		return false, err
	}
	for _, link := range c.links {
		switch link.rel {
		case relAnd:
			if !result {
				continue
			}
		case relOr:
			if result {
				continue
			}
		}
		result, err = link.cond.evaluateSelf(ctx)
		if err != nil {
			return false, err
		}
	}
	return result, nil
}

// evaluateSelf computes this node's own comparison, ignoring the chain.
func (c *Condition) evaluateSelf(ctx *Context) (bool, error) {
	left, err := ctx.Evaluate(c.Left)
	if err != nil {
		return false, err
	}
	if c.Op == "" {
		return left.IsTrue(), nil
	}
	right, err := ctx.Evaluate(c.Right)
	if err != nil {
		return false, err
	}

	switch c.Op {
	case "==":
		return left.Equal(right), nil
	case "!=", "<>":
		return !left.Equal(right), nil
	case "contains":
		return left.Contains(right), nil
	case "<", ">", "<=", ">=":
		cmp, ok := left.Compare(right)
		if !ok {
			return false, NewError(ErrInvalidOperation,
				fmt.Sprintf("cannot compare %s with %s", left.Kind(), right.Kind()))
		}
		switch c.Op {
		case "<":
			return cmp < 0, nil
		case ">":
			return cmp > 0, nil
		case "<=":
			return cmp <= 0, nil
		default:
			return cmp >= 0, nil
		}
	default:
		return false, NewError(ErrSyntax, fmt.Sprintf("unknown operator %s", c.Op))
	}
}

// String returns a diagnostic rendering of the chain.
func (c *Condition) String() string {
	var sb strings.Builder
	c.writeComparison(&sb)
	for _, link := range c.links {
		if link.rel == relAnd {
			sb.WriteString(" and ")
		} else {
			sb.WriteString(" or ")
		}
		link.cond.writeComparison(&sb)
	}
	return sb.String()
}

func (c *Condition) writeComparison(sb *strings.Builder) {
	sb.WriteString(c.Left.String())
	if c.Op != "" {
		sb.WriteString(" " + c.Op + " " + c.Right.String())
	}
}

// comparisonEqual compares only the node's own comparison.
func (c *Condition) comparisonEqual(other *Condition) bool {
	if c.Op != other.Op {
		return false
	}
	if !exprEqual(c.Left, other.Left) {
		return false
	}
	if (c.Right == nil) != (other.Right == nil) {
		return false
	}
	return c.Right == nil || exprEqual(c.Right, other.Right)
}

// Equal reports structural equality of two chains: same comparisons, same
// relations, same order.
func (c *Condition) Equal(other *Condition) bool {
	if c == nil || other == nil {
		return c == other
	}
	if !c.comparisonEqual(other) || len(c.links) != len(other.links) {
		return false
	}
	for i := range c.links {
		if c.links[i].rel != other.links[i].rel {
			return false
		}
		if !c.links[i].cond.comparisonEqual(other.links[i].cond) {
			return false
		}
	}
	return true
}

// ParseConditionLax parses a condition chain under the lax grammar.
//
// The markup is scanned into expression clauses separated by bare and/or
// keywords (quote-aware, so keywords inside quoted literals are ignored).
// The rightmost clause is parsed first; the remaining (operator, clause)
// pairs are walked right to left, each building a new condition to the
// left of the current one. The resulting chain starts at the first clause
// in source order and has no operator precedence.
func ParseConditionLax(markup string) (*Condition, error) {
	clauses, relations, err := scanConditionClauses(markup)
	if err != nil {
		return nil, err
	}

	current, err := parseClauseLax(clauses[len(clauses)-1])
	if err != nil {
		return nil, err
	}
	for i := len(relations) - 1; i >= 0; i-- {
		left, err := parseClauseLax(clauses[i])
		if err != nil {
			return nil, err
		}
		if relations[i] == relAnd {
			current = left.And(current)
		} else {
			current = left.Or(current)
		}
	}
	return current, nil
}

// scanConditionClauses splits condition markup into clause strings and the
// relations between them.
func scanConditionClauses(markup string) ([]string, []conditionRelation, error) {
	words := scanConditionWords(markup)

	var clauses []string
	var relations []conditionRelation
	var clause []string

	flush := func() error {
		if len(clause) == 0 {
			return NewError(ErrSyntax, fmt.Sprintf("missing clause in condition %q", strings.TrimSpace(markup)))
		}
		clauses = append(clauses, strings.Join(clause, " "))
		clause = clause[:0]
		return nil
	}

	for _, word := range words {
		switch word {
		case "and", "or":
			if err := flush(); err != nil {
				return nil, nil, err
			}
			if word == "and" {
				relations = append(relations, relAnd)
			} else {
				relations = append(relations, relOr)
			}
		default:
			clause = append(clause, word)
		}
	}
	if err := flush(); err != nil {
		return nil, nil, err
	}
	return clauses, relations, nil
}

// scanConditionWords splits markup on whitespace, keeping quoted literals
// intact so operators inside them are never mistaken for keywords.
func scanConditionWords(markup string) []string {
	var words []string
	for i := 0; i < len(markup); {
		switch markup[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			start := i
			for i < len(markup) && !isSpace(markup[i]) {
				if markup[i] == '\'' || markup[i] == '"' {
					i = skipQuoted(markup, i)
					continue
				}
				i++
			}
			words = append(words, markup[start:i])
		}
	}
	return words
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// parseClauseLax parses one `expr [op expr]` clause.
func parseClauseLax(clause string) (*Condition, error) {
	words := scanConditionWords(clause)
	if len(words) == 0 {
		return nil, NewError(ErrSyntax, "missing clause in condition")
	}

	opIdx := -1
	for i, word := range words {
		if comparisonOps[word] {
			opIdx = i
			break
		}
	}
	if opIdx < 0 {
		return NewCondition(ParseExpressionLax(clause), "", nil), nil
	}
	if opIdx == 0 || opIdx == len(words)-1 {
		return nil, NewError(ErrSyntax, fmt.Sprintf("invalid condition clause %q", clause))
	}
	left := ParseExpressionLax(strings.Join(words[:opIdx], " "))
	right := ParseExpressionLax(strings.Join(words[opIdx+1:], " "))
	return NewCondition(left, words[opIdx], right), nil
}

// ParseConditionStrict parses a condition chain from the tokenizer: one
// comparison, then for every and/or keyword another comparison appended
// to the chain under that relation. The forward scan yields the same
// left-to-right, no-precedence chain as the lax grammar.
func ParseConditionStrict(tz *lexer.Tokenizer) (*Condition, error) {
	chain, err := parseComparisonStrict(tz)
	if err != nil {
		return nil, err
	}
	for {
		var rel conditionRelation
		switch {
		case tz.MatchesIdentifier("and"):
			rel = relAnd
		case tz.MatchesIdentifier("or"):
			rel = relOr
		default:
			return chain, nil
		}
		tz.Consume(lexer.TokenIdentifier)

		next, err := parseComparisonStrict(tz)
		if err != nil {
			return nil, err
		}
		if rel == relAnd {
			chain = chain.And(next)
		} else {
			chain = chain.Or(next)
		}
	}
}

func parseComparisonStrict(tz *lexer.Tokenizer) (*Condition, error) {
	left, err := parseExpressionStrict(tz)
	if err != nil {
		return nil, err
	}
	if tok, ok := tz.ConsumeIf(lexer.TokenComparison); ok {
		right, err := parseExpressionStrict(tz)
		if err != nil {
			return nil, err
		}
		return NewCondition(left, tok.Value, right), nil
	}
	if tz.MatchesIdentifier("contains") {
		tz.Consume(lexer.TokenIdentifier)
		right, err := parseExpressionStrict(tz)
		if err != nil {
			return nil, err
		}
		return NewCondition(left, "contains", right), nil
	}
	return NewCondition(left, "", nil), nil
}
