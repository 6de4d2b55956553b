package doc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/source"
)

func rng(start, end int) *source.Range {
	return source.NewRange(source.NewDescriptor("test"), start, end)
}

func text(s string) *doc.Text {
	return &doc.Text{Rng: rng(0, len(s)), Content: s}
}

func para(content ...doc.InlineEntity) *doc.Paragraph {
	return &doc.Paragraph{Rng: rng(0, 1), Content: content}
}

func TestToStripped(t *testing.T) {
	t.Parallel()

	primitive := &doc.BlockDefinition{Name: "quote"}
	userDefined := &doc.BlockDefinition{Name: "box"}
	sys := &doc.SystemDefinition{Name: "define-block"}

	d := &doc.Document{
		Root: &doc.Root{
			Rng: rng(0, 100),
			Content: []doc.BlockEntity{
				// System modifiers disappear entirely.
				&doc.SystemModifier{Rng: rng(0, 10), Mod: sys, Expanded: true},
				// An expanded node is replaced by its (stripped) expansion.
				&doc.BlockModifier{
					Rng: rng(10, 40), Mod: userDefined, Expanded: true,
					Content:   []doc.BlockEntity{para(text("original"))},
					Expansion: []doc.BlockEntity{para(text("generated"))},
				},
				// Expansion left undefined keeps the node and its content.
				&doc.BlockModifier{
					Rng: rng(40, 60), Mod: primitive, Expanded: true,
					Content: []doc.BlockEntity{para(text("kept"))},
				},
			},
		},
	}

	stripped := d.ToStripped()

	want := "" +
		"paragraph\n" +
		"  text \"generated\"\n" +
		"block quote\n" +
		"  paragraph\n" +
		"    text \"kept\"\n"
	if diff := cmp.Diff(want, doc.DumpBlocks(stripped.Root.Content)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}

	// The stripped tree never carries expansion fields.
	for _, n := range stripped.Root.Content {
		if m, ok := n.(*doc.BlockModifier); ok && (m.Expanded || m.Expansion != nil) {
			t.Error("stripped modifier node still carries expansion state")
		}
	}

	// The original document is untouched.
	if len(d.Root.Content) != 3 {
		t.Error("ToStripped must copy, not mutate")
	}
}

func TestToStripped_EmptyExpansionErasesNode(t *testing.T) {
	t.Parallel()

	def := &doc.BlockDefinition{Name: "gone"}
	d := &doc.Document{
		Root: &doc.Root{
			Rng: rng(0, 10),
			Content: []doc.BlockEntity{
				&doc.BlockModifier{
					Rng: rng(0, 10), Mod: def, Expanded: true,
					Expansion: []doc.BlockEntity{},
				},
			},
		},
	}

	stripped := d.ToStripped()
	if len(stripped.Root.Content) != 0 {
		t.Errorf("expected empty root, got %d entities", len(stripped.Root.Content))
	}
}

func TestToStripped_InlineModifiers(t *testing.T) {
	t.Parallel()

	primitive := &doc.InlineDefinition{Name: "emph"}
	expanded := &doc.InlineDefinition{Name: "p"}

	d := &doc.Document{
		Root: &doc.Root{
			Rng: rng(0, 50),
			Content: []doc.BlockEntity{
				para(
					&doc.InlineModifier{
						Rng: rng(0, 5), Mod: expanded, Expanded: true,
						Expansion: []doc.InlineEntity{text("123")},
					},
					&doc.InlineModifier{
						Rng: rng(5, 10), Mod: primitive, Expanded: true,
						Content: []doc.InlineEntity{text("styled")},
					},
				),
			},
		},
	}

	want := "" +
		"paragraph\n" +
		"  text \"123\"\n" +
		"  inline emph\n" +
		"    text \"styled\"\n"
	if diff := cmp.Diff(want, doc.DumpBlocks(d.ToStripped().Root.Content)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}
