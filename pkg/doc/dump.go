package doc

import (
	"fmt"
	"strings"
)

// Dump renders a node tree as indented text, one node per line. Used by
// tests and debug tooling; the format is stable but not part of the API.
func Dump(node Node) string {
	var b strings.Builder
	dumpNode(&b, node, 0)
	return b.String()
}

// DumpBlocks renders a block entity list.
func DumpBlocks(nodes []BlockEntity) string {
	var b strings.Builder
	for _, n := range nodes {
		dumpNode(&b, n, 0)
	}
	return b.String()
}

func dumpNode(b *strings.Builder, node Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := node.(type) {
	case *Root:
		fmt.Fprintf(b, "%sroot\n", indent)
		for _, c := range n.Content {
			dumpNode(b, c, depth+1)
		}
	case *Paragraph:
		fmt.Fprintf(b, "%sparagraph\n", indent)
		for _, c := range n.Content {
			dumpNode(b, c, depth+1)
		}
	case *Preformatted:
		fmt.Fprintf(b, "%spre %q\n", indent, n.Content.Text)
	case *Text:
		fmt.Fprintf(b, "%stext %q\n", indent, n.Content)
	case *Escaped:
		fmt.Fprintf(b, "%sescaped %q\n", indent, n.Content)
	case *BlockModifier:
		fmt.Fprintf(b, "%sblock %s%s\n", indent, n.Mod.Name, dumpArgs(n.Arguments))
		dumpModifierBody(b, blockNodes(n.Content), blockNodes(n.Expansion), n.Expanded, depth)
	case *InlineModifier:
		fmt.Fprintf(b, "%sinline %s%s\n", indent, n.Mod.Name, dumpArgs(n.Arguments))
		dumpModifierBody(b, inlineNodes(n.Content), inlineNodes(n.Expansion), n.Expanded, depth)
	case *SystemModifier:
		fmt.Fprintf(b, "%ssystem %s%s\n", indent, n.Mod.Name, dumpArgs(n.Arguments))
		for _, c := range n.Content {
			dumpNode(b, c, depth+1)
		}
	case *Interpolation:
		fmt.Fprintf(b, "%sinterp %s\n", indent, n.Def.Name)
	default:
		fmt.Fprintf(b, "%s%s\n", indent, node.Type())
	}
}

func dumpModifierBody(b *strings.Builder, content, expansion []Node, expanded bool, depth int) {
	for _, c := range content {
		dumpNode(b, c, depth+1)
	}
	if expanded && expansion != nil {
		fmt.Fprintf(b, "%s=>\n", strings.Repeat("  ", depth+1))
		for _, c := range expansion {
			dumpNode(b, c, depth+2)
		}
	}
}

func dumpArgs(args []*Argument) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a.Resolved {
			parts = append(parts, fmt.Sprintf("%q", a.Expansion))
		} else {
			parts = append(parts, "?")
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func blockNodes(in []BlockEntity) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}

func inlineNodes(in []InlineEntity) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}
