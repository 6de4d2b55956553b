package doc

import "github.com/yaklabco/emmm/pkg/message"

// SlotType describes what a modifier's content position accepts.
type SlotType int

const (
	// NormalSlot content is parsed as regular block or inline entities.
	NormalSlot SlotType = iota

	// PreformattedSlot content is read character-by-character with no
	// modifier recognition.
	PreformattedSlot

	// NoSlot modifiers take no content; their head closes the construct.
	NoSlot
)

// String returns the slot type name.
func (t SlotType) String() string {
	switch t {
	case NormalSlot:
		return "normal"
	case PreformattedSlot:
		return "preformatted"
	case NoSlot:
		return "none"
	default:
		return "slot"
	}
}

// BlockDefinition describes a block modifier. All hooks are optional.
type BlockDefinition struct {
	Name string
	Slot SlotType

	// RoleHint is advisory for editors and renderers.
	RoleHint string

	// DelayContentExpansion makes children parsed inside this node register
	// without expanding during their own parse.
	DelayContentExpansion bool

	// AlwaysTryExpand lets nodes of this definition expand even under a
	// delaying ancestor.
	AlwaysTryExpand bool

	BeforeParseContent     func(node *BlockModifier, cxt *Context) []*message.Message
	AfterParseContent      func(node *BlockModifier, cxt *Context) []*message.Message
	BeforeProcessExpansion func(node *BlockModifier, cxt *Context) []*message.Message
	AfterProcessExpansion  func(node *BlockModifier, cxt *Context) []*message.Message
	PrepareExpand          func(node *BlockModifier, cxt *Context) []*message.Message

	// Expand rewrites the node. Returning ok=false means "deliberately not
	// rewritten, keep the content"; an empty non-nil slice erases the node.
	Expand func(node *BlockModifier, cxt *Context, immediate bool) ([]BlockEntity, bool)
}

func (d *BlockDefinition) defName() string { return d.Name }

// InlineDefinition describes an inline modifier. See BlockDefinition for
// field semantics.
type InlineDefinition struct {
	Name     string
	Slot     SlotType
	RoleHint string

	DelayContentExpansion bool
	AlwaysTryExpand       bool

	BeforeParseContent     func(node *InlineModifier, cxt *Context) []*message.Message
	AfterParseContent      func(node *InlineModifier, cxt *Context) []*message.Message
	BeforeProcessExpansion func(node *InlineModifier, cxt *Context) []*message.Message
	AfterProcessExpansion  func(node *InlineModifier, cxt *Context) []*message.Message
	PrepareExpand          func(node *InlineModifier, cxt *Context) []*message.Message

	Expand func(node *InlineModifier, cxt *Context, immediate bool) ([]InlineEntity, bool)
}

func (d *InlineDefinition) defName() string { return d.Name }

// SystemDefinition describes a system modifier. System modifiers produce no
// output entities; Expand performs side effects on the configuration and
// context and may report messages.
type SystemDefinition struct {
	Name     string
	Slot     SlotType
	RoleHint string

	DelayContentExpansion bool
	AlwaysTryExpand       bool

	BeforeParseContent     func(node *SystemModifier, cxt *Context) []*message.Message
	AfterParseContent      func(node *SystemModifier, cxt *Context) []*message.Message
	BeforeProcessExpansion func(node *SystemModifier, cxt *Context) []*message.Message
	AfterProcessExpansion  func(node *SystemModifier, cxt *Context) []*message.Message
	PrepareExpand          func(node *SystemModifier, cxt *Context) []*message.Message

	Expand func(node *SystemModifier, cxt *Context, immediate bool) []*message.Message
}

func (d *SystemDefinition) defName() string { return d.Name }

// InterpolatorDefinition describes a balanced textual construct inside
// arguments, e.g. $( ... ).
type InterpolatorDefinition struct {
	// Name is the opening literal.
	Name string

	// Postfix is the closing literal; empty for bare interpolators that
	// take no content.
	Postfix string

	// Expand maps the expanded inner content to the interpolated value.
	// Returning ok=false leaves the surrounding argument unresolved.
	Expand func(content string, cxt *Context, immediate bool) (string, bool)
}

func (d *InterpolatorDefinition) defName() string { return d.Name }

// BlockShorthand is a textual pattern compiled to a block modifier.
// The pattern is Name arg0 Parts[0] arg1 Parts[1] ... with an optional
// trailing content slot delimited by Postfix.
type BlockShorthand struct {
	Name    string
	Parts   []string
	Postfix string
	HasSlot bool
	Mod     *BlockDefinition
}

func (d *BlockShorthand) defName() string { return d.Name }

// InlineShorthand is a textual pattern compiled to an inline modifier.
type InlineShorthand struct {
	Name    string
	Parts   []string
	Postfix string
	HasSlot bool
	Mod     *InlineDefinition
}

func (d *InlineShorthand) defName() string { return d.Name }
