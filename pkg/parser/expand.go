package parser

import (
	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// The expansion engine. Expansion is attempted right after a modifier's
// content is parsed; generated entities are walked recursively with a depth
// counter bounded by the configuration's ReparseDepthLimit. Exceeding the
// limit is not an exception: the walk reports failure upward, a single
// ReachedReparseLimit is emitted at the outermost failing node, and the
// tree keeps its unexpanded leaves.

// reparseBlocks walks generated block entities. Leaves succeed trivially;
// paragraphs recurse; modifier nodes expand one level deeper.
func (p *Parser) reparseBlocks(nodes []doc.BlockEntity, depth int) bool {
	ok := true
	for _, n := range nodes {
		switch n := n.(type) {
		case *doc.Paragraph:
			if !p.reparseInlines(n.Content, depth) {
				ok = false
			}
		case *doc.BlockModifier:
			if !p.expandBlockNode(n, depth+1) {
				ok = false
			}
		case *doc.SystemModifier:
			if !p.expandSystemNode(n, depth+1) {
				ok = false
			}
		}
	}
	return ok
}

func (p *Parser) reparseInlines(nodes []doc.InlineEntity, depth int) bool {
	ok := true
	for _, n := range nodes {
		if m, isMod := n.(*doc.InlineModifier); isMod {
			if !p.expandInlineNode(m, depth+1) {
				ok = false
			}
		}
	}
	return ok
}

// expandBlockNode runs the expansion loop of one block modifier node.
func (p *Parser) expandBlockNode(n *doc.BlockModifier, depth int) bool {
	if n.Expanded {
		return true
	}
	def := n.Mod
	if p.cxt.DelayDepth() > 0 && !def.AlwaysTryExpand {
		return true
	}
	if depth >= p.cxt.Config.ReparseDepthLimit {
		return false
	}
	if depth > 0 && len(n.Content) > 0 {
		if def.BeforeParseContent != nil {
			p.emitAll(def.BeforeParseContent(n, p.cxt))
		}
		if def.DelayContentExpansion {
			p.cxt.PushDelay()
		}
		p.reparseBlocks(n.Content, depth)
		if def.DelayContentExpansion {
			p.cxt.PopDelay()
		}
		if def.AfterParseContent != nil {
			p.emitAll(def.AfterParseContent(n, p.cxt))
		}
	}
	p.resolveArgs(n.Arguments)
	if def.PrepareExpand != nil {
		p.emitAll(def.PrepareExpand(n, p.cxt))
	}
	if def.Expand == nil {
		n.Expanded = true
		return true
	}
	exp, rewritten := def.Expand(n, p.cxt, p.cxt.Immediate())
	n.Expanded = true
	if !rewritten {
		return true
	}
	n.Expansion = exp
	if def.BeforeProcessExpansion != nil {
		p.emitAll(def.BeforeProcessExpansion(n, p.cxt))
	}
	p.pushReferral(n.Rng)
	ok := p.reparseBlocks(n.Expansion, depth)
	p.popReferral()
	if def.AfterProcessExpansion != nil {
		p.emitAll(def.AfterProcessExpansion(n, p.cxt))
	}
	if !ok && depth == 0 {
		p.emit(message.ReachedReparseLimit(n.Rng, def.Name))
	}
	return ok
}

// expandInlineNode mirrors expandBlockNode for inline modifiers.
func (p *Parser) expandInlineNode(n *doc.InlineModifier, depth int) bool {
	if n.Expanded {
		return true
	}
	def := n.Mod
	if p.cxt.DelayDepth() > 0 && !def.AlwaysTryExpand {
		return true
	}
	if depth >= p.cxt.Config.ReparseDepthLimit {
		return false
	}
	if depth > 0 && len(n.Content) > 0 {
		if def.BeforeParseContent != nil {
			p.emitAll(def.BeforeParseContent(n, p.cxt))
		}
		if def.DelayContentExpansion {
			p.cxt.PushDelay()
		}
		p.reparseInlines(n.Content, depth)
		if def.DelayContentExpansion {
			p.cxt.PopDelay()
		}
		if def.AfterParseContent != nil {
			p.emitAll(def.AfterParseContent(n, p.cxt))
		}
	}
	p.resolveArgs(n.Arguments)
	if def.PrepareExpand != nil {
		p.emitAll(def.PrepareExpand(n, p.cxt))
	}
	if def.Expand == nil {
		n.Expanded = true
		return true
	}
	exp, rewritten := def.Expand(n, p.cxt, p.cxt.Immediate())
	n.Expanded = true
	if !rewritten {
		return true
	}
	n.Expansion = exp
	if def.BeforeProcessExpansion != nil {
		p.emitAll(def.BeforeProcessExpansion(n, p.cxt))
	}
	p.pushReferral(n.Rng)
	ok := p.reparseInlines(n.Expansion, depth)
	p.popReferral()
	if def.AfterProcessExpansion != nil {
		p.emitAll(def.AfterProcessExpansion(n, p.cxt))
	}
	if !ok && depth == 0 {
		p.emit(message.ReachedReparseLimit(n.Rng, def.Name))
	}
	return ok
}

// expandSystemNode runs a system modifier. System modifiers have no output
// entities; Expand acts on the configuration and context.
func (p *Parser) expandSystemNode(n *doc.SystemModifier, depth int) bool {
	if n.Expanded {
		return true
	}
	def := n.Mod
	if p.cxt.DelayDepth() > 0 && !def.AlwaysTryExpand {
		return true
	}
	if depth >= p.cxt.Config.ReparseDepthLimit {
		return false
	}
	if depth > 0 && len(n.Content) > 0 {
		if def.BeforeParseContent != nil {
			p.emitAll(def.BeforeParseContent(n, p.cxt))
		}
		if def.DelayContentExpansion {
			p.cxt.PushDelay()
		}
		p.reparseBlocks(n.Content, depth)
		if def.DelayContentExpansion {
			p.cxt.PopDelay()
		}
		if def.AfterParseContent != nil {
			p.emitAll(def.AfterParseContent(n, p.cxt))
		}
	}
	p.resolveArgs(n.Arguments)
	if def.PrepareExpand != nil {
		p.emitAll(def.PrepareExpand(n, p.cxt))
	}
	if def.Expand != nil {
		p.emitAll(def.Expand(n, p.cxt, p.cxt.Immediate()))
	}
	n.Expanded = true
	return true
}
