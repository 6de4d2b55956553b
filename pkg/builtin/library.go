package builtin

import (
	"strconv"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// The standard library: a small set of primitive modifiers. None of them
// rewrite their content, so renderers dispatch on them directly.

// NotesKey indexes the note counter state in the parse context store.
var NotesKey = doc.NewStoreKey("builtin.notes")

// NoteState tracks note names in document order so renderers can number
// references consistently.
type NoteState struct {
	Order []string
	seen  map[string]bool
}

// Mark records a note name and returns its 1-based position.
func (s *NoteState) Mark(name string) int {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if !s.seen[name] {
		s.seen[name] = true
		s.Order = append(s.Order, name)
	}
	for i, n := range s.Order {
		if n == name {
			return i + 1
		}
	}
	return 0
}

func notesOf(cxt *doc.Context) *NoteState {
	return doc.GetOrInit(cxt, NotesKey, func() *NoteState { return &NoteState{} })
}

func headingModifier() *doc.BlockDefinition {
	return &doc.BlockDefinition{
		Name:     "heading",
		Slot:     doc.NormalSlot,
		RoleHint: "heading",
		PrepareExpand: func(n *doc.BlockModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() || len(n.Arguments) == 0 {
				return nil
			}
			a := n.Arguments[0]
			if !a.Resolved {
				return nil
			}
			if lv, err := strconv.Atoi(a.Expansion); err != nil || lv < 1 || lv > 6 {
				return []*message.Message{
					message.InvalidArgument(a.Rng, "heading level must be 1-6"),
				}
			}
			return nil
		},
	}
}

func quoteModifier() *doc.BlockDefinition {
	return &doc.BlockDefinition{Name: "quote", Slot: doc.NormalSlot, RoleHint: "quotation"}
}

func codeBlockModifier() *doc.BlockDefinition {
	return &doc.BlockDefinition{Name: "code", Slot: doc.PreformattedSlot, RoleHint: "code"}
}

// noteBlockModifier holds the body of a note; [/note name] references it.
// Both sides register with the shared counter so numbering is stable.
func noteBlockModifier() *doc.BlockDefinition {
	return &doc.BlockDefinition{
		Name:     "note",
		Slot:     doc.NormalSlot,
		RoleHint: "note",
		PrepareExpand: func(n *doc.BlockModifier, cxt *doc.Context) []*message.Message {
			if len(n.Arguments) == 1 && n.Arguments[0].Resolved {
				notesOf(cxt).Mark(n.Arguments[0].Expansion)
			}
			return nil
		},
	}
}

func noteInlineModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{
		Name:     "note",
		Slot:     doc.NoSlot,
		RoleHint: "note",
		PrepareExpand: func(n *doc.InlineModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() {
				return nil
			}
			if len(n.Arguments) != 1 || !n.Arguments[0].Resolved {
				return []*message.Message{
					message.ArgumentCountMismatch(n.Head, 1, len(n.Arguments)),
				}
			}
			notesOf(cxt).Mark(n.Arguments[0].Expansion)
			return nil
		},
	}
}

func emphModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{Name: "emph", Slot: doc.NormalSlot, RoleHint: "emphasis"}
}

func boldModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{Name: "bold", Slot: doc.NormalSlot, RoleHint: "emphasis"}
}

func codeInlineModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{Name: "code", Slot: doc.PreformattedSlot, RoleHint: "code"}
}

func linkModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{
		Name:     "link",
		Slot:     doc.NormalSlot,
		RoleHint: "link",
		PrepareExpand: func(n *doc.InlineModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() || len(n.Arguments) == 1 {
				return nil
			}
			return []*message.Message{
				message.ArgumentCountMismatch(n.Head, 1, len(n.Arguments)),
			}
		},
	}
}

func brModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{Name: "br", Slot: doc.NoSlot, RoleHint: "break"}
}

// RegisterLibrary adds the standard modifier library to a configuration.
func RegisterLibrary(cfg *doc.Configuration) {
	cfg.BlockModifiers.Add(headingModifier())
	cfg.BlockModifiers.Add(quoteModifier())
	cfg.BlockModifiers.Add(codeBlockModifier())
	cfg.BlockModifiers.Add(noteBlockModifier())
	cfg.InlineModifiers.Add(emphModifier())
	cfg.InlineModifiers.Add(boldModifier())
	cfg.InlineModifiers.Add(codeInlineModifier())
	cfg.InlineModifiers.Add(linkModifier())
	cfg.InlineModifiers.Add(noteInlineModifier())
	cfg.InlineModifiers.Add(brModifier())
}
