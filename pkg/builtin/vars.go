// Package builtin provides the system modifier family (define-block,
// define-inline, block-shorthand, inline-shorthand, var), the standard
// argument interpolators, and a small library of exemplar modifiers.
package builtin

import (
	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// varsKey indexes the variable state in the parse context store.
var varsKey = doc.NewStoreKey("builtin.vars")

// scopeFrame holds the bindings of one user-definition instantiation:
// parameter values and the content bound to the definition's slot.
type scopeFrame struct {
	vars       map[string]string
	blockSlot  []doc.BlockEntity
	inlineSlot []doc.InlineEntity
}

// varState is the per-parse variable store: globals set by [-var ...] plus
// the stack of instantiation scopes.
type varState struct {
	globals map[string]string
	scopes  []*scopeFrame
}

func varsOf(cxt *doc.Context) *varState {
	return doc.GetOrInit(cxt, varsKey, func() *varState {
		return &varState{globals: make(map[string]string)}
	})
}

// lookupVar resolves a name against the instantiation scopes (innermost
// first), falling back to the globals.
func lookupVar(cxt *doc.Context, name string) (string, bool) {
	st := varsOf(cxt)
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if v, ok := st.scopes[i].vars[name]; ok {
			return v, true
		}
	}
	v, ok := st.globals[name]
	return v, ok
}

func pushScope(cxt *doc.Context, fr *scopeFrame) {
	st := varsOf(cxt)
	st.scopes = append(st.scopes, fr)
}

func popScope(cxt *doc.Context) {
	st := varsOf(cxt)
	if len(st.scopes) == 0 {
		panic("builtin: scope stack underflow")
	}
	st.scopes = st.scopes[:len(st.scopes)-1]
}

// topFrame returns the innermost instantiation frame, or nil.
func topFrame(cxt *doc.Context) *scopeFrame {
	st := varsOf(cxt)
	if len(st.scopes) == 0 {
		return nil
	}
	return st.scopes[len(st.scopes)-1]
}

// SetVariable sets a global variable for the given parse context, as
// [-var name:value] would. Hosts use it to preset variables before a parse.
func SetVariable(cxt *doc.Context, name, value string) {
	varsOf(cxt).globals[name] = value
	cxt.Config.ArgumentInterpolators.Add(frozenInterpolator(name, value))
}

// frozenInterpolator is the $name form registered by [-var ...]; it expands
// to the value captured at registration.
func frozenInterpolator(name, value string) *doc.InterpolatorDefinition {
	return &doc.InterpolatorDefinition{
		Name: "$" + name,
		Expand: func(_ string, _ *doc.Context, _ bool) (string, bool) {
			return value, true
		},
	}
}

// varInterpolator is the built-in $( ... ) form: the inner content names a
// variable or parameter resolved at expansion time.
func varInterpolator() *doc.InterpolatorDefinition {
	return &doc.InterpolatorDefinition{
		Name:    "$(",
		Postfix: ")",
		Expand: func(content string, cxt *doc.Context, _ bool) (string, bool) {
			return lookupVar(cxt, content)
		},
	}
}

// varModifier implements [-var name:value].
func varModifier() *doc.SystemDefinition {
	return &doc.SystemDefinition{
		Name:            "var",
		Slot:            doc.NoSlot,
		RoleHint:        "definition",
		AlwaysTryExpand: true,
		PrepareExpand: func(n *doc.SystemModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() {
				return nil
			}
			if len(n.Arguments) != 2 {
				return []*message.Message{
					message.ArgumentCountMismatch(n.Head, 2, len(n.Arguments)),
				}
			}
			name := n.Arguments[0]
			if name.Resolved && cxt.Config.ArgumentInterpolators.Has("$"+name.Expansion) {
				return []*message.Message{
					message.NameAlreadyDefined(name.Rng, name.Expansion),
				}
			}
			return nil
		},
		Expand: func(n *doc.SystemModifier, cxt *doc.Context, immediate bool) []*message.Message {
			if !immediate || len(n.Arguments) != 2 {
				return nil
			}
			name, value := n.Arguments[0], n.Arguments[1]
			if !name.Resolved || !value.Resolved {
				return []*message.Message{
					message.InvalidArgument(n.Head, "variable name and value must be expandable"),
				}
			}
			SetVariable(cxt, name.Expansion, value.Expansion)
			return nil
		},
	}
}

// printModifier implements [/print arg]: it expands to the textual value of
// its argument.
func printModifier() *doc.InlineDefinition {
	return &doc.InlineDefinition{
		Name: "print",
		Slot: doc.NoSlot,
		PrepareExpand: func(n *doc.InlineModifier, cxt *doc.Context) []*message.Message {
			if !cxt.Immediate() {
				return nil
			}
			if len(n.Arguments) != 1 {
				return []*message.Message{
					message.ArgumentCountMismatch(n.Head, 1, len(n.Arguments)),
				}
			}
			return nil
		},
		Expand: func(n *doc.InlineModifier, cxt *doc.Context, _ bool) ([]doc.InlineEntity, bool) {
			if len(n.Arguments) != 1 || !n.Arguments[0].Resolved {
				return nil, false
			}
			return []doc.InlineEntity{
				&doc.Text{Rng: n.Rng, Content: n.Arguments[0].Expansion},
			}, true
		},
	}
}
