package liquid

import "strings"

// Branch is one arm of a conditional block: a condition chain with a
// body, or an unconditional else-sentinel (nil condition) with a body.
type Branch struct {
	Cond *Condition // nil for else
	Body []Node
}

// ConditionalBlock is a parsed if/unless tag: an ordered list of branches
// evaluated strictly in source order. The first matching branch renders
// and evaluation stops; later branches' conditions are never evaluated.
type ConditionalBlock struct {
	branches []Branch
	negated  bool // unless: the first branch matches when its condition is false
}

// Branches returns the parsed branches in source order.
func (b *ConditionalBlock) Branches() []Branch {
	return b.branches
}

// parseConditionalBlock parses the remainder of an if or unless tag. The
// opening tag's markup becomes the first branch's condition; the token
// stream is then scanned for elsif/else siblings until the closing tag.
func parseConditionalBlock(p *templateParser, open *streamToken, negated bool) (*ConditionalBlock, error) {
	endTag := "endif"
	if negated {
		endTag = "endunless"
	}

	block := &ConditionalBlock{negated: negated}
	cond, err := p.parseConditionMarkup(open, open.markup)
	if err != nil {
		return nil, err
	}

	seenElse := false
	for {
		body, err := p.parseNodes(func(name string) bool {
			return name == "elsif" || name == "else" || name == endTag
		})
		if err != nil {
			return nil, err
		}
		block.branches = append(block.branches, Branch{Cond: cond, Body: body})

		tok := p.next()
		if tok == nil {
			return nil, p.errorf(open, "%s tag was never closed", open.name)
		}
		switch tok.name {
		case endTag:
			return block, nil
		case "elsif":
			if seenElse {
				return nil, p.errorf(tok, "elsif after else in %s tag", open.name)
			}
			cond, err = p.parseConditionMarkup(tok, tok.markup)
			if err != nil {
				return nil, err
			}
		case "else":
			if seenElse {
				return nil, p.errorf(tok, "duplicate else in %s tag", open.name)
			}
			seenElse = true
			cond = nil
		}
	}
}

func (b *ConditionalBlock) render(ctx *Context, out *strings.Builder) error {
	for i, branch := range b.branches {
		match := true
		if branch.Cond != nil {
			ok, err := branch.Cond.Evaluate(ctx)
			if err != nil {
				return err
			}
			if i == 0 && b.negated {
				ok = !ok
			}
			match = ok
		}
		if !match {
			continue
		}
		for _, node := range branch.Body {
			if err := node.render(ctx, out); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}
