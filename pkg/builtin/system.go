package builtin

import (
	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// defineFamily builds one of the four definition-registering system
// modifiers. They share the capture lifecycle: beforeParseContent parses
// the argument list, installs the ephemeral parameter definitions, and
// pushes onto the per-kind delayed stack; afterParseContent pops, asserts
// matching, and uninstalls; prepareExpand reports name collisions; expand
// compiles the captured content and mutates the live configuration.
func defineFamily(
	name string,
	kind defineKind,
	parseSpec func(*doc.SystemModifier, *doc.Context) (*defineSpec, []*message.Message),
	collides func(*doc.Configuration, *defineSpec) bool,
	register func(*doc.Context, *defineSpec, []doc.BlockEntity),
) *doc.SystemDefinition {
	return &doc.SystemDefinition{
		Name:                  name,
		Slot:                  doc.NormalSlot,
		RoleHint:              "definition",
		DelayContentExpansion: true,
		AlwaysTryExpand:       true,
		BeforeParseContent: func(n *doc.SystemModifier, cxt *doc.Context) []*message.Message {
			spec, msgs := parseSpec(n, cxt)
			st := &captureState{spec: spec}
			if spec != nil {
				st.undo = installParams(cxt, spec, kind)
			}
			pushCapture(cxt, kind, st)
			n.State = st
			return msgs
		},
		AfterParseContent: func(n *doc.SystemModifier, cxt *doc.Context) []*message.Message {
			st := popCapture(cxt, kind)
			if st == nil || (n.State != nil && st != n.State) {
				panic("builtin: unbalanced definition capture stack")
			}
			for i := len(st.undo) - 1; i >= 0; i-- {
				st.undo[i]()
			}
			return nil
		},
		PrepareExpand: func(n *doc.SystemModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() {
				return nil
			}
			spec, msgs := parseSpec(n, cxt)
			if spec != nil && collides(cxt.Config, spec) {
				msgs = append(msgs, message.NameAlreadyDefined(n.Head, spec.name))
			}
			return msgs
		},
		Expand: func(n *doc.SystemModifier, cxt *doc.Context, immediate bool) []*message.Message {
			if !immediate {
				return nil
			}
			spec, _ := parseSpec(n, cxt)
			if spec == nil {
				return nil
			}
			register(cxt, spec, n.Content)
			return nil
		},
	}
}

func defineBlockModifier() *doc.SystemDefinition {
	return defineFamily("define-block", blockKind, parseDefineSpec,
		func(cfg *doc.Configuration, spec *defineSpec) bool {
			return cfg.BlockModifiers.Has(spec.name)
		},
		func(cxt *doc.Context, spec *defineSpec, content []doc.BlockEntity) {
			cxt.Config.BlockModifiers.Add(compileBlockDefinition(spec, content))
		})
}

func defineInlineModifier() *doc.SystemDefinition {
	return defineFamily("define-inline", inlineKind, parseDefineSpec,
		func(cfg *doc.Configuration, spec *defineSpec) bool {
			return cfg.InlineModifiers.Has(spec.name)
		},
		func(cxt *doc.Context, spec *defineSpec, content []doc.BlockEntity) {
			cxt.Config.InlineModifiers.Add(
				compileInlineDefinition(spec, inlineTemplate(content)))
		})
}

func blockShorthandModifier() *doc.SystemDefinition {
	return defineFamily("block-shorthand", blockKind, parseShorthandSpec,
		func(cfg *doc.Configuration, spec *defineSpec) bool {
			return cfg.BlockShorthands.Has(spec.name)
		},
		func(cxt *doc.Context, spec *defineSpec, content []doc.BlockEntity) {
			cxt.Config.BlockShorthands.Add(&doc.BlockShorthand{
				Name:    spec.name,
				Parts:   spec.parts,
				Postfix: spec.postfix,
				HasSlot: spec.hasSlot,
				Mod:     compileBlockDefinition(spec, content),
			})
		})
}

func inlineShorthandModifier() *doc.SystemDefinition {
	return defineFamily("inline-shorthand", inlineKind, parseShorthandSpec,
		func(cfg *doc.Configuration, spec *defineSpec) bool {
			return cfg.InlineShorthands.Has(spec.name)
		},
		func(cxt *doc.Context, spec *defineSpec, content []doc.BlockEntity) {
			cxt.Config.InlineShorthands.Add(&doc.InlineShorthand{
				Name:    spec.name,
				Parts:   spec.parts,
				Postfix: spec.postfix,
				HasSlot: spec.hasSlot,
				Mod:     compileInlineDefinition(spec, inlineTemplate(content)),
			})
		})
}

// Register adds the definition machinery to a configuration: the system
// modifier family, the $( ) interpolator, and [/print].
func Register(cfg *doc.Configuration) {
	cfg.SystemModifiers.Add(defineBlockModifier())
	cfg.SystemModifiers.Add(defineInlineModifier())
	cfg.SystemModifiers.Add(blockShorthandModifier())
	cfg.SystemModifiers.Add(inlineShorthandModifier())
	cfg.SystemModifiers.Add(varModifier())
	cfg.ArgumentInterpolators.Add(varInterpolator())
	cfg.InlineModifiers.Add(printModifier())
}

// DefaultConfiguration returns a configuration carrying the definition
// machinery and the standard modifier library.
func DefaultConfiguration() *doc.Configuration {
	cfg := doc.NewConfiguration()
	Register(cfg)
	RegisterLibrary(cfg)
	return cfg
}

// NewContext is the common way to set up a parse: a fresh context over a
// fresh default configuration.
func NewContext() *doc.Context {
	return doc.NewContext(DefaultConfiguration())
}
