package doc

import "github.com/yaklabco/emmm/pkg/source"

// CloneBlocks deep-copies template entities for use as generated content.
// Every cloned range points back at the template range through Original, and
// all expansion state and argument caches are reset so the clones expand
// afresh in the instantiating context.
func CloneBlocks(nodes []BlockEntity) []BlockEntity {
	out := make([]BlockEntity, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, cloneBlock(n))
	}
	return out
}

// CloneInlines is the inline counterpart of CloneBlocks.
func CloneInlines(nodes []InlineEntity) []InlineEntity {
	out := make([]InlineEntity, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, cloneInline(n))
	}
	return out
}

func cloneRange(r *source.Range) *source.Range {
	if r == nil {
		return nil
	}
	return r.WithOriginal(r)
}

func cloneBlock(n BlockEntity) BlockEntity {
	switch n := n.(type) {
	case *Paragraph:
		return &Paragraph{Rng: cloneRange(n.Rng), Content: CloneInlines(n.Content)}
	case *Preformatted:
		return &Preformatted{Rng: cloneRange(n.Rng), Content: n.Content}
	case *BlockModifier:
		return &BlockModifier{
			Rng:       cloneRange(n.Rng),
			Mod:       n.Mod,
			Head:      cloneRange(n.Head),
			Arguments: cloneArguments(n.Arguments),
			Content:   CloneBlocks(n.Content),
		}
	case *SystemModifier:
		return &SystemModifier{
			Rng:       cloneRange(n.Rng),
			Mod:       n.Mod,
			Head:      cloneRange(n.Head),
			Arguments: cloneArguments(n.Arguments),
			Content:   CloneBlocks(n.Content),
		}
	default:
		panic("doc: unexpected block entity")
	}
}

func cloneInline(n InlineEntity) InlineEntity {
	switch n := n.(type) {
	case *Text:
		return &Text{Rng: cloneRange(n.Rng), Content: n.Content}
	case *Escaped:
		return &Escaped{Rng: cloneRange(n.Rng), Content: n.Content}
	case *InlineModifier:
		return &InlineModifier{
			Rng:       cloneRange(n.Rng),
			Mod:       n.Mod,
			Head:      cloneRange(n.Head),
			Arguments: cloneArguments(n.Arguments),
			Content:   CloneInlines(n.Content),
		}
	default:
		panic("doc: unexpected inline entity")
	}
}

func cloneArguments(args []*Argument) []*Argument {
	out := make([]*Argument, 0, len(args))
	for _, a := range args {
		clone := &Argument{Rng: cloneRange(a.Rng)}
		for _, e := range a.Content {
			switch e := e.(type) {
			case *Text:
				clone.Content = append(clone.Content, &Text{Rng: cloneRange(e.Rng), Content: e.Content})
			case *Escaped:
				clone.Content = append(clone.Content, &Escaped{Rng: cloneRange(e.Rng), Content: e.Content})
			case *Interpolation:
				inner := cloneArguments([]*Argument{e.Arg})
				clone.Content = append(clone.Content, &Interpolation{
					Rng: cloneRange(e.Rng),
					Def: e.Def,
					Arg: inner[0],
				})
			}
		}
		out = append(out, clone)
	}
	return out
}
