// Package doc provides the EMMM document tree, modifier and interpolator
// definitions, the configuration registries, and the per-parse context.
package doc

import "github.com/yaklabco/emmm/pkg/source"

// NodeType classifies the type of a document node.
type NodeType int

const (
	RootType NodeType = iota
	ParagraphType
	PreformattedType
	TextType
	EscapedType
	BlockModifierType
	InlineModifierType
	SystemModifierType
	InterpolationType
)

// String returns the node type name.
func (t NodeType) String() string {
	switch t {
	case RootType:
		return "root"
	case ParagraphType:
		return "paragraph"
	case PreformattedType:
		return "pre"
	case TextType:
		return "text"
	case EscapedType:
		return "escaped"
	case BlockModifierType:
		return "block"
	case InlineModifierType:
		return "inline"
	case SystemModifierType:
		return "system"
	case InterpolationType:
		return "interp"
	default:
		return "node"
	}
}

// Node is the common interface of all document nodes.
type Node interface {
	Type() NodeType
	Location() *source.Range
}

// BlockEntity is a node that can appear in block position: Paragraph,
// Preformatted, BlockModifier, or SystemModifier.
type BlockEntity interface {
	Node
	blockEntity()
}

// InlineEntity is a node that can appear in inline position: Text, Escaped,
// or InlineModifier.
type InlineEntity interface {
	Node
	inlineEntity()
}

// ArgumentEntity is a node that can appear inside a modifier argument: Text,
// Escaped, or Interpolation.
type ArgumentEntity interface {
	Node
	argumentEntity()
}

// Root is the document root.
type Root struct {
	Rng     *source.Range
	Content []BlockEntity
}

func (n *Root) Type() NodeType          { return RootType }
func (n *Root) Location() *source.Range { return n.Rng }

// Paragraph is a run of inline entities delimited by blank lines.
type Paragraph struct {
	Rng     *source.Range
	Content []InlineEntity
}

func (n *Paragraph) Type() NodeType          { return ParagraphType }
func (n *Paragraph) Location() *source.Range { return n.Rng }
func (n *Paragraph) blockEntity()            {}

// PreText is the verbatim content of a preformatted region.
type PreText struct {
	// Start and End delimit the text within the source.
	Start int
	End   int
	Text  string
}

// Preformatted is a verbatim block region.
type Preformatted struct {
	Rng     *source.Range
	Content PreText
}

func (n *Preformatted) Type() NodeType          { return PreformattedType }
func (n *Preformatted) Location() *source.Range { return n.Rng }
func (n *Preformatted) blockEntity()            {}

// Text is a run of plain characters.
type Text struct {
	Rng     *source.Range
	Content string
}

func (n *Text) Type() NodeType          { return TextType }
func (n *Text) Location() *source.Range { return n.Rng }
func (n *Text) inlineEntity()           {}
func (n *Text) argumentEntity()         {}

// Escaped is a single backslash-escaped character.
type Escaped struct {
	Rng     *source.Range
	Content string
}

func (n *Escaped) Type() NodeType          { return EscapedType }
func (n *Escaped) Location() *source.Range { return n.Rng }
func (n *Escaped) inlineEntity()           {}
func (n *Escaped) argumentEntity()         {}

// Interpolation is a balanced interpolator construct inside an argument,
// e.g. $(x).
type Interpolation struct {
	Rng *source.Range
	Def *InterpolatorDefinition
	Arg *Argument
}

func (n *Interpolation) Type() NodeType          { return InterpolationType }
func (n *Interpolation) Location() *source.Range { return n.Rng }
func (n *Interpolation) argumentEntity()         {}

// Argument is one ordered argument of a modifier head.
type Argument struct {
	Rng     *source.Range
	Content []ArgumentEntity

	// Expansion is the fully-expanded textual value; meaningful only when
	// Resolved is true.
	Expansion string
	Resolved  bool
}

// BlockModifier is a [.name ...] construct.
type BlockModifier struct {
	Rng       *source.Range
	Mod       *BlockDefinition
	Head      *source.Range
	Arguments []*Argument

	// State is owned by the definition's callbacks; the parser only
	// allocates the node and passes it along.
	State any

	Content []BlockEntity

	// Expansion is valid once Expanded is true. A nil Expansion after
	// expansion ran means "deliberately not rewritten, keep Content".
	Expansion []BlockEntity
	Expanded  bool
}

func (n *BlockModifier) Type() NodeType          { return BlockModifierType }
func (n *BlockModifier) Location() *source.Range { return n.Rng }
func (n *BlockModifier) blockEntity()            {}

// InlineModifier is a [/name ...] construct.
type InlineModifier struct {
	Rng       *source.Range
	Mod       *InlineDefinition
	Head      *source.Range
	Arguments []*Argument
	State     any

	Content []InlineEntity

	Expansion []InlineEntity
	Expanded  bool
}

func (n *InlineModifier) Type() NodeType          { return InlineModifierType }
func (n *InlineModifier) Location() *source.Range { return n.Rng }
func (n *InlineModifier) inlineEntity()           {}

// SystemModifier is a [-name ...] construct. Its expansion is always empty;
// system modifiers act through side effects on the configuration and
// context.
type SystemModifier struct {
	Rng       *source.Range
	Mod       *SystemDefinition
	Head      *source.Range
	Arguments []*Argument
	State     any

	Content []BlockEntity

	Expanded bool
}

func (n *SystemModifier) Type() NodeType          { return SystemModifierType }
func (n *SystemModifier) Location() *source.Range { return n.Rng }
func (n *SystemModifier) blockEntity()            {}
