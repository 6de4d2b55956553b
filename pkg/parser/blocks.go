package parser

import (
	"strings"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
	"github.com/yaklabco/emmm/pkg/source"
)

// parseBlockModifier parses '[.' NAME ARGS ( ';]' | ']' NL? BLOCK ).
func (p *Parser) parseBlockModifier() *doc.BlockModifier {
	start := p.scan.Position()
	p.scan.Accept("[.")

	var def *doc.BlockDefinition
	if name, ok := p.tables().matchName(p.blockNames); ok {
		def, _ = p.cxt.Config.BlockModifiers.Get(name)
	} else {
		raw := p.acceptUnknownName()
		p.emit(message.UnknownModifier(p.scan.RangeFrom(start), raw))
		def = UnknownBlock
	}

	args := p.parseArguments()
	marker := p.closeHead()
	node := &doc.BlockModifier{
		Mod:       def,
		Head:      p.scan.RangeFrom(start),
		Arguments: args,
	}
	if !marker && def.Slot != doc.NoSlot {
		p.parseBlockBody(node, def)
	}
	node.Rng = p.scan.RangeFrom(start)
	p.expandBlockNode(node, 0)
	return node
}

// parseSystemModifier parses '[-' NAME ARGS ( ';]' | ']' NL? BLOCK ).
func (p *Parser) parseSystemModifier() *doc.SystemModifier {
	start := p.scan.Position()
	p.scan.Accept("[-")

	var def *doc.SystemDefinition
	if name, ok := p.tables().matchName(p.systemNames); ok {
		def, _ = p.cxt.Config.SystemModifiers.Get(name)
	} else {
		raw := p.acceptUnknownName()
		p.emit(message.UnknownModifier(p.scan.RangeFrom(start), raw))
		def = UnknownSystem
	}

	args := p.parseArguments()
	marker := p.closeHead()
	node := &doc.SystemModifier{
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
		p.parseSlotContent(&node.Content, def.Slot)
		if def.DelayContentExpansion {
			p.cxt.PopDelay()
		}
		if def.AfterParseContent != nil {
			p.emitAll(def.AfterParseContent(node, p.cxt))
		}
	}
	node.Rng = p.scan.RangeFrom(start)
	p.expandSystemNode(node, 0)
	return node
}

// parseBlockBody parses the content slot of a block modifier, running the
// content lifecycle hooks and the delay discipline.
func (p *Parser) parseBlockBody(node *doc.BlockModifier, def *doc.BlockDefinition) {
	if def.BeforeParseContent != nil {
		p.emitAll(def.BeforeParseContent(node, p.cxt))
	}
	if def.DelayContentExpansion {
		p.cxt.PushDelay()
	}
	p.parseSlotContent(&node.Content, def.Slot)
	if def.DelayContentExpansion {
		p.cxt.PopDelay()
	}
	if def.AfterParseContent != nil {
		p.emitAll(def.AfterParseContent(node, p.cxt))
	}
}

// parseSlotContent parses the content of a Normal or Preformatted slot
// following a modifier head.
func (p *Parser) parseSlotContent(dest *[]doc.BlockEntity, slot doc.SlotType) {
	if slot == doc.PreformattedSlot {
		mark := p.scan.Position()
		p.skipInlineWhitespace()
		switch {
		case p.scan.IsEOF():
			return
		case p.scan.Accept("\n"):
			// content starts on the next line
		default:
			p.emit(message.ContentShouldBeOnNewline(p.pointRange()))
			p.scan.SetPosition(mark)
			p.skipInlineWhitespace()
		}
		*dest = append(*dest, p.parsePreformattedBlock())
		return
	}

	p.skipInlineWhitespace()
	if p.scan.Accept("\n") {
		mark := p.scan.Position()
		p.skipInlineWhitespace()
		if p.scan.Peek("\n") {
			p.emit(message.UnnecessaryNewline(p.pointRange()))
			p.skipBlankArea()
		} else {
			p.scan.SetPosition(mark)
		}
	}
	if p.scan.IsEOF() {
		return
	}
	if p.groupDepth > 0 && p.scan.Peek("--:") {
		return
	}
	p.parseBlockInto(dest)
}

// parsePreformattedBlock reads verbatim characters until a blank line, the
// end of input, or a group close at the start of a line.
func (p *Parser) parsePreformattedBlock() *doc.Preformatted {
	start := p.scan.Position()
	end := start
	var text strings.Builder
	for !p.scan.IsEOF() {
		if p.scan.Peek("\n") {
			end = p.scan.Position()
			p.scan.Accept("\n")
			save := p.scan.Position()
			p.skipInlineWhitespace()
			if p.scan.IsEOF() || p.scan.Peek("\n") ||
				(p.groupDepth > 0 && p.scan.Peek("--:")) {
				return p.preformatted(start, end, text.String())
			}
			p.scan.SetPosition(save)
			text.WriteString("\n")
			continue
		}
		text.WriteString(p.scan.AcceptChar())
		end = p.scan.Position()
	}
	return p.preformatted(start, end, text.String())
}

func (p *Parser) preformatted(start, end int, text string) *doc.Preformatted {
	return &doc.Preformatted{
		Rng:     source.NewRange(p.scan.Descriptor(), start, end),
		Content: doc.PreText{Start: start, End: end, Text: text},
	}
}

// matchBlockShorthand tries block shorthand openers longest-first.
func (p *Parser) matchBlockShorthand() (*doc.BlockShorthand, bool) {
	p.tables()
	for _, name := range p.blockShorthands {
		if p.scan.Peek(name) {
			sh, _ := p.cxt.Config.BlockShorthands.Get(name)
			return sh, true
		}
	}
	return nil, false
}

// parseBlockShorthand parses a matched block shorthand occurrence and
// surfaces it as a synthetic BlockModifier bound to the compiled
// definition.
func (p *Parser) parseBlockShorthand(sh *doc.BlockShorthand) *doc.BlockModifier {
	start := p.scan.Position()
	p.scan.Accept(sh.Name)
	node := &doc.BlockModifier{
		Mod:  sh.Mod,
		Head: p.scan.RangeFrom(start),
	}
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
		if sh.Postfix != "" {
			cstart := p.scan.Position()
			content, closedAt := p.parseInlines(sh.Postfix)
			para := &doc.Paragraph{Rng: p.scan.RangeFrom(cstart), Content: content}
			if closedAt >= 0 {
				para.Rng.ActualEnd = closedAt
			} else {
				p.emit(message.Expected(p.pointRange(), sh.Postfix))
			}
			node.Content = []doc.BlockEntity{para}
		} else {
			p.parseSlotContent(&node.Content, doc.NormalSlot)
		}
		if sh.Mod.DelayContentExpansion {
			p.cxt.PopDelay()
		}
	}
	node.Rng = p.scan.RangeFrom(start)
	p.expandBlockNode(node, 0)
	return node
}
