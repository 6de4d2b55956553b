package parser

import (
	"strings"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// parseParagraph parses PARAGRAPH := INLINE+ up to a blank line, EOF, a
// group close, or the start of a new block construct.
func (p *Parser) parseParagraph() *doc.Paragraph {
	start := p.scan.Position()
	content, _ := p.parseInlines("")
	if len(content) == 0 && p.scan.Position() == start {
		// Defensive: never loop without consuming.
		p.scan.AcceptChar()
		return nil
	}
	return &doc.Paragraph{Rng: p.scan.RangeFrom(start), Content: content}
}

// parseInlines parses inline entities. closer is the literal that closes
// the surrounding construct ('[;]' for inline modifiers, a shorthand
// postfix, or empty at paragraph level). It returns the entities and the
// position just before the consumed closer, or -1 if the run ended without
// one (blank line, EOF, or a new block construct).
func (p *Parser) parseInlines(closer string) ([]doc.InlineEntity, int) {
	var out []doc.InlineEntity
	textStart := p.scan.Position()
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			out = append(out, &doc.Text{
				Rng:     p.scan.RangeFrom(textStart),
				Content: text.String(),
			})
			text.Reset()
		}
		textStart = p.scan.Position()
	}

	for !p.scan.IsEOF() {
		if closer != "" && p.scan.Peek(closer) {
			flush()
			at := p.scan.Position()
			p.scan.Accept(closer)
			return out, at
		}
		if p.groupDepth > 0 && p.scan.Peek("--:") {
			break
		}
		if p.scan.Peek("\n") {
			mark := p.scan.Position()
			p.scan.Accept("\n")
			p.skipInlineWhitespace()
			ended := p.scan.IsEOF() || p.scan.Peek("\n") ||
				(p.groupDepth > 0 && p.scan.Peek("--:")) ||
				p.scan.Peek("[.") || p.scan.Peek("[-") || p.scan.Peek(":--")
			p.scan.SetPosition(mark)
			if ended {
				break
			}
			p.scan.Accept("\n")
			text.WriteString("\n")
			continue
		}
		if p.scan.Peek("[/") {
			flush()
			out = append(out, p.parseInlineModifier())
			textStart = p.scan.Position()
			continue
		}
		if p.scan.Peek("\\") {
			flush()
			estart := p.scan.Position()
			p.scan.Accept("\\")
			c := p.scan.AcceptChar()
			out = append(out, &doc.Escaped{
				Rng:     p.scan.RangeFrom(estart),
				Content: c,
			})
			textStart = p.scan.Position()
			continue
		}
		if p.scan.Peek("[.") || p.scan.Peek("[-") || p.scan.Peek(":--") {
			flush()
			p.emit(message.NewBlockShouldBeOnNewline(p.pointRange()))
			break
		}
		if sh, ok := p.matchInlineShorthand(); ok {
			flush()
			out = append(out, p.parseInlineShorthand(sh))
			textStart = p.scan.Position()
			continue
		}
		text.WriteString(p.scan.AcceptChar())
	}
	flush()
	return out, -1
}

// parseInlineModifier parses '[/' NAME ARGS ( ';]' | ']' INLINE* '[;]' ).
func (p *Parser) parseInlineModifier() *doc.InlineModifier {
	start := p.scan.Position()
	p.scan.Accept("[/")

	var def *doc.InlineDefinition
	if name, ok := p.tables().matchName(p.inlineNames); ok {
		def, _ = p.cxt.Config.InlineModifiers.Get(name)
	} else {
		raw := p.acceptUnknownName()
		p.emit(message.UnknownModifier(p.scan.RangeFrom(start), raw))
		def = UnknownInline
	}

	args := p.parseArguments()
	marker := p.closeHead()
	node := &doc.InlineModifier{
		Mod:       def,
		Head:      p.scan.RangeFrom(start),
		Arguments: args,
	}

	if !marker && def.Slot != doc.NoSlot {
		if def.BeforeParseContent != nil {
			p.emitAll(def.BeforeParseContent(node, p.cxt))
		}
		if def.DelayContentExpansion {
			p.cxt.PushDelay()
		}
		var closedAt int
		if def.Slot == doc.PreformattedSlot {
			node.Content, closedAt = p.parsePreformattedInline()
		} else {
			node.Content, closedAt = p.parseInlines("[;]")
		}
		if def.DelayContentExpansion {
			p.cxt.PopDelay()
		}
		if def.AfterParseContent != nil {
			p.emitAll(def.AfterParseContent(node, p.cxt))
		}
		node.Rng = p.scan.RangeFrom(start)
		if closedAt >= 0 {
			node.Rng.ActualEnd = closedAt
		} else {
			m := message.UnclosedInlineModifier(node.Rng, def.Name)
			m.Fixes = append(m.Fixes, insertFix("insert the closing tag [;]", "[;]"))
			p.emit(m)
		}
	} else {
		node.Rng = p.scan.RangeFrom(start)
	}
	p.expandInlineNode(node, 0)
	return node
}

// parsePreformattedInline reads characters with no modifier recognition
// until the inline closing tag; a blank line or EOF leaves the modifier
// unclosed.
func (p *Parser) parsePreformattedInline() ([]doc.InlineEntity, int) {
	start := p.scan.Position()
	var text strings.Builder
	for !p.scan.IsEOF() {
		if p.scan.Peek("[;]") {
			at := p.scan.Position()
			node := &doc.Text{Rng: p.scan.RangeFrom(start), Content: text.String()}
			p.scan.Accept("[;]")
			return []doc.InlineEntity{node}, at
		}
		if p.scan.Peek("\n") {
			mark := p.scan.Position()
			p.scan.Accept("\n")
			p.skipInlineWhitespace()
			blank := p.scan.IsEOF() || p.scan.Peek("\n")
			p.scan.SetPosition(mark)
			if blank {
				break
			}
			p.scan.Accept("\n")
			text.WriteString("\n")
			continue
		}
		text.WriteString(p.scan.AcceptChar())
	}
	if text.Len() == 0 {
		return nil, -1
	}
	return []doc.InlineEntity{
		&doc.Text{Rng: p.scan.RangeFrom(start), Content: text.String()},
	}, -1
}

// matchInlineShorthand tries inline shorthand openers longest-first.
func (p *Parser) matchInlineShorthand() (*doc.InlineShorthand, bool) {
	p.tables()
	for _, name := range p.inlineShorts {
		if p.scan.Peek(name) {
			sh, _ := p.cxt.Config.InlineShorthands.Get(name)
			return sh, true
		}
	}
	return nil, false
}

// parseInlineShorthand parses a matched shorthand occurrence: one argument
// segment per part literal, then the optional content slot delimited by the
// postfix. The match surfaces as a synthetic InlineModifier bound to the
// shorthand's compiled definition.
func (p *Parser) parseInlineShorthand(sh *doc.InlineShorthand) *doc.InlineModifier {
	start := p.scan.Position()
	p.scan.Accept(sh.Name)
	node := &doc.InlineModifier{Mod: sh.Mod}
	for _, part := range sh.Parts {
		node.Arguments = append(node.Arguments, p.parseArgument([]string{part}))
		if !p.scan.Accept(part) {
			p.emit(message.Expected(p.pointRange(), part))
			break
		}
	}
	node.Head = p.scan.RangeFrom(start)
	if sh.HasSlot {
		if sh.Mod.DelayContentExpansion {
			p.cxt.PushDelay()
		}
		content, closedAt := p.parseInlines(sh.Postfix)
		if sh.Mod.DelayContentExpansion {
			p.cxt.PopDelay()
		}
		node.Content = content
		node.Rng = p.scan.RangeFrom(start)
		if closedAt >= 0 {
			node.Rng.ActualEnd = closedAt
		} else if sh.Postfix != "" {
			p.emit(message.Expected(p.pointRange(), sh.Postfix))
		}
	} else {
		node.Rng = p.scan.RangeFrom(start)
	}
	p.expandInlineNode(node, 0)
	return node
}
