package liquid

import (
	"fmt"
	"strings"

	"github.com/fluentpage/liquid-go/lexer"
)

// Node is a parsed template fragment that renders into an output buffer.
type Node interface {
	render(ctx *Context, out *strings.Builder) error
}

// Template is a parsed template. It is immutable and safe to render
// concurrently, each render with its own Context.
type Template struct {
	env   *Environment
	name  string
	nodes []Node
}

// Render renders the template against the given assigns.
func (t *Template) Render(assigns map[string]any) (string, error) {
	return t.RenderContext(NewContext(t.env, assigns))
}

// RenderContext renders with a caller-built context.
func (t *Template) RenderContext(ctx *Context) (string, error) {
	var out strings.Builder
	for _, node := range t.nodes {
		if err := node.render(ctx, &out); err != nil {
			if e, ok := err.(*Error); ok && e.Name == "" {
				e.Name = t.name
			}
			return "", err
		}
	}
	return out.String(), nil
}

// textNode is raw template data emitted verbatim.
type textNode struct {
	text string
}

func (n *textNode) render(ctx *Context, out *strings.Builder) error {
	out.WriteString(n.text)
	return nil
}

// outputNode is a {{ expression }} tag.
type outputNode struct {
	expr Expression
}

func (n *outputNode) render(ctx *Context, out *strings.Builder) error {
	val, err := ctx.Evaluate(n.expr)
	if err != nil {
		return err
	}
	out.WriteString(val.String())
	return nil
}

// --- Template scanning ---

type streamTokenKind int

const (
	streamText streamTokenKind = iota
	streamOutput
	streamTag
)

// streamToken is one chunk of template source: raw text, a {{ output }}
// tag, or a {% tag %} with its name and remaining markup split apart.
type streamToken struct {
	kind   streamTokenKind
	text   string // raw text, or full inner markup for output tags
	name   string // tag name for streamTag
	markup string // markup after the tag name
	line   int
}

func scanTemplate(source string) ([]streamToken, error) {
	var tokens []streamToken
	line := 1
	for len(source) > 0 {
		idx := strings.IndexByte(source, '{')
		if idx < 0 || idx+1 >= len(source) ||
			(source[idx+1] != '{' && source[idx+1] != '%') {
			if idx < 0 {
				tokens = append(tokens, streamToken{kind: streamText, text: source, line: line})
				break
			}
			// A lone brace is template data; keep scanning past it.
			next := strings.IndexByte(source[idx+1:], '{')
			if next < 0 {
				tokens = append(tokens, streamToken{kind: streamText, text: source, line: line})
				break
			}
			cut := idx + 1 + next
			tokens = append(tokens, streamToken{kind: streamText, text: source[:cut], line: line})
			line += strings.Count(source[:cut], "\n")
			source = source[cut:]
			continue
		}

		if idx > 0 {
			tokens = append(tokens, streamToken{kind: streamText, text: source[:idx], line: line})
			line += strings.Count(source[:idx], "\n")
			source = source[idx:]
		}

		isOutput := source[1] == '{'
		closer := "%}"
		if isOutput {
			closer = "}}"
		}
		end := strings.Index(source, closer)
		if end < 0 {
			kind := "tag"
			if isOutput {
				kind = "variable"
			}
			return nil, NewError(ErrSyntax,
				fmt.Sprintf("%s was never closed", kind)).WithLine(line)
		}

		inner := strings.TrimSpace(source[2:end])
		tok := streamToken{kind: streamOutput, text: inner, line: line}
		if !isOutput {
			name, markup := splitTagName(inner)
			tok = streamToken{kind: streamTag, name: name, markup: markup, line: line}
		}
		tokens = append(tokens, tok)
		line += strings.Count(source[:end+2], "\n")
		source = source[end+2:]
	}
	return tokens, nil
}

func splitTagName(markup string) (string, string) {
	for i := 0; i < len(markup); i++ {
		if isSpace(markup[i]) {
			return markup[:i], strings.TrimSpace(markup[i:])
		}
	}
	return markup, ""
}

// --- Template parsing ---

type templateParser struct {
	env    *Environment
	name   string
	tokens []streamToken
	pos    int
}

func parseTemplate(env *Environment, name, source string) (*Template, error) {
	tokens, err := scanTemplate(source)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Name = name
		}
		return nil, err
	}
	p := &templateParser{env: env, name: name, tokens: tokens}
	nodes, err := p.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok != nil {
		return nil, p.errorf(tok, "unexpected tag %s", tok.name)
	}
	return &Template{env: env, name: name, nodes: nodes}, nil
}

func (p *templateParser) peek() *streamToken {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *templateParser) next() *streamToken {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *templateParser) errorf(tok *streamToken, format string, args ...any) *Error {
	err := NewError(ErrSyntax, fmt.Sprintf(format, args...)).WithName(p.name)
	if tok != nil {
		err.Line = tok.line
	}
	return err
}

// parseNodes parses until the end of the stream or until stop matches a
// tag name. The stopping tag is left unconsumed for the caller.
func (p *templateParser) parseNodes(stop func(name string) bool) ([]Node, error) {
	var nodes []Node
	for {
		tok := p.peek()
		if tok == nil {
			return nodes, nil
		}
		switch tok.kind {
		case streamText:
			p.next()
			nodes = append(nodes, &textNode{text: tok.text})

		case streamOutput:
			p.next()
			expr, err := p.parseOutputExpression(tok)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &outputNode{expr: expr})

		case streamTag:
			if stop != nil && stop(tok.name) {
				return nodes, nil
			}
			p.next()
			node, err := p.parseTag(tok)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
}

func (p *templateParser) parseTag(tok *streamToken) (Node, error) {
	switch tok.name {
	case "if":
		return parseConditionalBlock(p, tok, false)
	case "unless":
		return parseConditionalBlock(p, tok, true)
	case "elsif", "else", "endif", "endunless":
		return nil, p.errorf(tok, "%s is not attached to a conditional block", tok.name)
	default:
		return nil, p.errorf(tok, "unknown tag %s", tok.name)
	}
}

func (p *templateParser) parseOutputExpression(tok *streamToken) (Expression, error) {
	if p.env.mode == ParseModeStrict {
		tz, err := lexer.NewTokenizer(tok.text)
		if err != nil {
			return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
		}
		expr, err := parseExpressionStrict(tz)
		if err != nil {
			return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
		}
		if _, err := tz.Consume(lexer.TokenEndOfString); err != nil {
			return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
		}
		return expr, nil
	}
	return ParseExpressionLax(tok.text), nil
}

// parseConditionMarkup parses condition markup under the environment's
// grammar. Both grammars yield structurally identical chains for valid
// input.
func (p *templateParser) parseConditionMarkup(tok *streamToken, markup string) (*Condition, error) {
	if p.env.mode == ParseModeStrict {
		tz, err := lexer.NewTokenizer(markup)
		if err != nil {
			return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
		}
		cond, err := ParseConditionStrict(tz)
		if err != nil {
			return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
		}
		if _, err := tz.Consume(lexer.TokenEndOfString); err != nil {
			return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
		}
		return cond, nil
	}
	cond, err := ParseConditionLax(markup)
	if err != nil {
		return nil, syntaxError(err).WithName(p.name).WithLine(tok.line)
	}
	return cond, nil
}
