package builtin

import (
	"strings"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// defineKind distinguishes the two delayed stacks: block-producing and
// inline-producing definitions.
type defineKind int

const (
	blockKind defineKind = iota
	inlineKind
)

// defineSpec is the parsed argument list of a define-* or *-shorthand head:
// the new name, parameter names, the optional parenthesised slot name, and
// (for shorthands) the part literals and postfix.
type defineSpec struct {
	name     string
	params   []string
	parts    []string
	slotName string
	postfix  string
	hasSlot  bool
}

// captureState lives in the node State between beforeParseContent and
// afterParseContent: the ephemeral parameter definitions installed for the
// body capture and how to undo them.
type captureState struct {
	spec *defineSpec
	undo []func()
}

// stackKeys index the per-kind delayed stacks in the context store.
var stackKeys = map[defineKind]*doc.StoreKey{
	blockKind:  doc.NewStoreKey("builtin.defineStack.block"),
	inlineKind: doc.NewStoreKey("builtin.defineStack.inline"),
}

func pushCapture(cxt *doc.Context, kind defineKind, st *captureState) {
	stack := doc.GetOrInit(cxt, stackKeys[kind], func() *[]*captureState {
		s := make([]*captureState, 0, 4)
		return &s
	})
	*stack = append(*stack, st)
}

func popCapture(cxt *doc.Context, kind defineKind) *captureState {
	stack, ok := doc.GetAs[*[]*captureState](cxt, stackKeys[kind])
	if !ok || len(*stack) == 0 {
		return nil
	}
	st := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return st
}

// argValues resolves the head arguments into strings. Returns ok=false when
// some argument is not (yet) expandable, which is an error only outside
// delayed captures.
func argValues(args []*doc.Argument) ([]string, bool) {
	vals := make([]string, len(args))
	for i, a := range args {
		if !a.Resolved {
			return nil, false
		}
		vals[i] = a.Expansion
	}
	return vals, true
}

func isSlotArg(v string) bool {
	return len(v) >= 2 && strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")")
}

// parseDefineSpec reads `name param... (slot)?` from a define-* head.
func parseDefineSpec(n *doc.SystemModifier, cxt *doc.Context) (*defineSpec, []*message.Message) {
	vals, ok := argValues(n.Arguments)
	if !ok {
		if cxt.Immediate() {
			return nil, []*message.Message{
				message.InvalidArgument(n.Head, "definition arguments must be expandable"),
			}
		}
		return nil, nil
	}
	if len(vals) == 0 || vals[0] == "" {
		return nil, []*message.Message{
			message.InvalidArgument(n.Head, "a definition needs a name"),
		}
	}
	spec := &defineSpec{name: vals[0]}
	var msgs []*message.Message
	for i, v := range vals[1:] {
		if isSlotArg(v) {
			spec.slotName = v[1 : len(v)-1]
			spec.hasSlot = true
			if i != len(vals[1:])-1 {
				msgs = append(msgs, message.InvalidArgument(
					n.Arguments[i+1].Rng, "the slot must be the last argument"))
			}
			break
		}
		spec.params = append(spec.params, v)
	}
	return spec, msgs
}

// parseShorthandSpec reads `name (param part)... ((slot) postfix?)?` from a
// *-shorthand head.
func parseShorthandSpec(n *doc.SystemModifier, cxt *doc.Context) (*defineSpec, []*message.Message) {
	vals, ok := argValues(n.Arguments)
	if !ok {
		if cxt.Immediate() {
			return nil, []*message.Message{
				message.InvalidArgument(n.Head, "shorthand arguments must be expandable"),
			}
		}
		return nil, nil
	}
	if len(vals) == 0 || vals[0] == "" {
		return nil, []*message.Message{
			message.InvalidArgument(n.Head, "a shorthand needs an opening literal"),
		}
	}
	spec := &defineSpec{name: vals[0]}
	var msgs []*message.Message
	rest := vals[1:]
	for i := 0; i < len(rest); {
		if isSlotArg(rest[i]) {
			spec.slotName = rest[i][1 : len(rest[i])-1]
			spec.hasSlot = true
			if i+1 < len(rest) {
				spec.postfix = rest[i+1]
			}
			if i+2 < len(rest) {
				msgs = append(msgs, message.InvalidArgument(
					n.Arguments[i+3].Rng, "unexpected arguments after the slot"))
			}
			break
		}
		if i+1 >= len(rest) {
			msgs = append(msgs, message.InvalidArgument(
				n.Arguments[i+1].Rng, "shorthand parameter without a terminating part"))
			break
		}
		spec.params = append(spec.params, rest[i])
		spec.parts = append(spec.parts, rest[i+1])
		i += 2
	}
	return spec, msgs
}

// installParams registers the ephemeral definitions that make a definition
// body parse: every parameter p as interpolator $p and modifiers [/$p] and
// [.$p], plus the slot modifier under its declared name. Returns the undo
// list, newest last.
func installParams(cxt *doc.Context, spec *defineSpec, kind defineKind) []func() {
	var undo []func()
	cfg := cxt.Config
	for _, p := range spec.params {
		undo = append(undo,
			shadowInterpolator(cfg, paramInterpolator(p)),
			shadowInline(cfg, paramInline(p)),
			shadowBlock(cfg, paramBlock(p)))
	}
	if spec.hasSlot && spec.slotName != "" {
		if kind == blockKind {
			undo = append(undo, shadowBlock(cfg, slotBlock(spec.slotName)))
		} else {
			undo = append(undo, shadowInline(cfg, slotInline(spec.slotName)))
		}
	}
	return undo
}

func shadowInterpolator(cfg *doc.Configuration, def *doc.InterpolatorDefinition) func() {
	prev, had := cfg.ArgumentInterpolators.Get(def.Name)
	cfg.ArgumentInterpolators.Add(def)
	return func() {
		if had {
			cfg.ArgumentInterpolators.Add(prev)
		} else {
			cfg.ArgumentInterpolators.Remove(def.Name)
		}
	}
}

func shadowInline(cfg *doc.Configuration, def *doc.InlineDefinition) func() {
	prev, had := cfg.InlineModifiers.Get(def.Name)
	cfg.InlineModifiers.Add(def)
	return func() {
		if had {
			cfg.InlineModifiers.Add(prev)
		} else {
			cfg.InlineModifiers.Remove(def.Name)
		}
	}
}

func shadowBlock(cfg *doc.Configuration, def *doc.BlockDefinition) func() {
	prev, had := cfg.BlockModifiers.Get(def.Name)
	cfg.BlockModifiers.Add(def)
	return func() {
		if had {
			cfg.BlockModifiers.Add(prev)
		} else {
			cfg.BlockModifiers.Remove(def.Name)
		}
	}
}

// paramInterpolator makes $p resolve against the instantiation scope.
func paramInterpolator(p string) *doc.InterpolatorDefinition {
	return &doc.InterpolatorDefinition{
		Name: "$" + p,
		Expand: func(_ string, cxt *doc.Context, _ bool) (string, bool) {
			return lookupVar(cxt, p)
		},
	}
}

// paramInline makes [/$p] expand to the parameter's value.
func paramInline(p string) *doc.InlineDefinition {
	return &doc.InlineDefinition{
		Name:     "$" + p,
		Slot:     doc.NoSlot,
		RoleHint: "parameter",
		Expand: func(n *doc.InlineModifier, cxt *doc.Context, _ bool) ([]doc.InlineEntity, bool) {
			v, ok := lookupVar(cxt, p)
			if !ok {
				return nil, false
			}
			return []doc.InlineEntity{&doc.Text{Rng: n.Rng, Content: v}}, true
		},
	}
}

// paramBlock makes [.$p] expand to a paragraph holding the value.
func paramBlock(p string) *doc.BlockDefinition {
	return &doc.BlockDefinition{
		Name:     "$" + p,
		Slot:     doc.NoSlot,
		RoleHint: "parameter",
		Expand: func(n *doc.BlockModifier, cxt *doc.Context, _ bool) ([]doc.BlockEntity, bool) {
			v, ok := lookupVar(cxt, p)
			if !ok {
				return nil, false
			}
			return []doc.BlockEntity{&doc.Paragraph{
				Rng:     n.Rng,
				Content: []doc.InlineEntity{&doc.Text{Rng: n.Rng, Content: v}},
			}}, true
		},
	}
}

// slotBlock is the content-slot reference inside a block definition body.
// It is alwaysTryExpand so slot housekeeping still runs under the delayed
// capture; with no instantiation frame it simply declines.
func slotBlock(name string) *doc.BlockDefinition {
	return &doc.BlockDefinition{
		Name:            name,
		Slot:            doc.NoSlot,
		RoleHint:        "slot",
		AlwaysTryExpand: true,
		Expand: func(n *doc.BlockModifier, cxt *doc.Context, _ bool) ([]doc.BlockEntity, bool) {
			fr := topFrame(cxt)
			if fr == nil || fr.blockSlot == nil {
				return nil, false
			}
			return doc.CloneBlocks(fr.blockSlot), true
		},
	}
}

func slotInline(name string) *doc.InlineDefinition {
	return &doc.InlineDefinition{
		Name:            name,
		Slot:            doc.NoSlot,
		RoleHint:        "slot",
		AlwaysTryExpand: true,
		Expand: func(n *doc.InlineModifier, cxt *doc.Context, _ bool) ([]doc.InlineEntity, bool) {
			fr := topFrame(cxt)
			if fr == nil || fr.inlineSlot == nil {
				return nil, false
			}
			return doc.CloneInlines(fr.inlineSlot), true
		},
	}
}

// bindFrame builds the instantiation scope for an invocation's arguments.
func bindFrame(spec *defineSpec, args []*doc.Argument) *scopeFrame {
	fr := &scopeFrame{vars: make(map[string]string, len(spec.params))}
	for i, p := range spec.params {
		if i < len(args) && args[i].Resolved {
			fr.vars[p] = args[i].Expansion
		}
	}
	return fr
}

// inlineTemplate flattens captured block content into the inline entity
// template of an inline definition: the inline children of its paragraphs.
func inlineTemplate(blocks []doc.BlockEntity) []doc.InlineEntity {
	var out []doc.InlineEntity
	for _, b := range blocks {
		if p, ok := b.(*doc.Paragraph); ok {
			out = append(out, p.Content...)
		}
	}
	return out
}

// compileBlockDefinition turns a captured define-block body into a live
// block modifier definition.
func compileBlockDefinition(spec *defineSpec, template []doc.BlockEntity) *doc.BlockDefinition {
	slot := doc.NoSlot
	if spec.hasSlot {
		slot = doc.NormalSlot
	}
	return &doc.BlockDefinition{
		Name:     spec.name,
		Slot:     slot,
		RoleHint: "user-defined",
		PrepareExpand: func(n *doc.BlockModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() || len(n.Arguments) == len(spec.params) {
				return nil
			}
			return []*message.Message{
				message.ArgumentCountMismatch(n.Head, len(spec.params), len(n.Arguments)),
			}
		},
		Expand: func(n *doc.BlockModifier, cxt *doc.Context, _ bool) ([]doc.BlockEntity, bool) {
			return doc.CloneBlocks(template), true
		},
		BeforeProcessExpansion: func(n *doc.BlockModifier, cxt *doc.Context) []*message.Message {
			fr := bindFrame(spec, n.Arguments)
			fr.blockSlot = n.Content
			pushScope(cxt, fr)
			return nil
		},
		AfterProcessExpansion: func(n *doc.BlockModifier, cxt *doc.Context) []*message.Message {
			popScope(cxt)
			return nil
		},
	}
}

// compileInlineDefinition turns a captured define-inline body into a live
// inline modifier definition.
func compileInlineDefinition(spec *defineSpec, template []doc.InlineEntity) *doc.InlineDefinition {
	slot := doc.NoSlot
	if spec.hasSlot {
		slot = doc.NormalSlot
	}
	return &doc.InlineDefinition{
		Name:     spec.name,
		Slot:     slot,
		RoleHint: "user-defined",
		PrepareExpand: func(n *doc.InlineModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() || len(n.Arguments) == len(spec.params) {
				return nil
			}
			return []*message.Message{
				message.ArgumentCountMismatch(n.Head, len(spec.params), len(n.Arguments)),
			}
		},
		Expand: func(n *doc.InlineModifier, cxt *doc.Context, _ bool) ([]doc.InlineEntity, bool) {
			return doc.CloneInlines(template), true
		},
		BeforeProcessExpansion: func(n *doc.InlineModifier, cxt *doc.Context) []*message.Message {
			fr := bindFrame(spec, n.Arguments)
			fr.inlineSlot = n.Content
			pushScope(cxt, fr)
			return nil
		},
		AfterProcessExpansion: func(n *doc.InlineModifier, cxt *doc.Context) []*message.Message {
			popScope(cxt)
			return nil
		},
	}
}
