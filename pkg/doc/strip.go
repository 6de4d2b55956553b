package doc

import "github.com/yaklabco/emmm/pkg/message"

// Document is the result of a parse: the root node plus accumulated
// messages. The context that produced it is retained so hosts can read
// collected per-parse state.
type Document struct {
	Root     *Root
	Messages []*message.Message
	Context  *Context
}

// ToStripped returns a copy of the document in which every modifier node
// with an expansion is replaced by that expansion, modifier nodes whose
// expansion stayed undefined keep their (stripped) content, and all
// SystemModifier nodes are removed. The result is the rendering-ready tree.
func (d *Document) ToStripped() *Document {
	root := &Root{Rng: d.Root.Rng, Content: stripBlocks(d.Root.Content)}
	return &Document{Root: root, Messages: d.Messages, Context: d.Context}
}

func stripBlocks(nodes []BlockEntity) []BlockEntity {
	var out []BlockEntity
	for _, n := range nodes {
		switch n := n.(type) {
		case *Paragraph:
			out = append(out, &Paragraph{Rng: n.Rng, Content: stripInlines(n.Content)})
		case *Preformatted:
			out = append(out, &Preformatted{Rng: n.Rng, Content: n.Content})
		case *BlockModifier:
			if n.Expanded && n.Expansion != nil {
				out = append(out, stripBlocks(n.Expansion)...)
				continue
			}
			out = append(out, &BlockModifier{
				Rng:       n.Rng,
				Mod:       n.Mod,
				Head:      n.Head,
				Arguments: n.Arguments,
				State:     n.State,
				Content:   stripBlocks(n.Content),
			})
		case *SystemModifier:
			// System modifiers never render.
		}
	}
	return out
}

func stripInlines(nodes []InlineEntity) []InlineEntity {
	var out []InlineEntity
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			out = append(out, &Text{Rng: n.Rng, Content: n.Content})
		case *Escaped:
			out = append(out, &Escaped{Rng: n.Rng, Content: n.Content})
		case *InlineModifier:
			if n.Expanded && n.Expansion != nil {
				out = append(out, stripInlines(n.Expansion)...)
				continue
			}
			out = append(out, &InlineModifier{
				Rng:       n.Rng,
				Mod:       n.Mod,
				Head:      n.Head,
				Arguments: n.Arguments,
				State:     n.State,
				Content:   stripInlines(n.Content),
			})
		}
	}
	return out
}
