// Package render provides the pluggable rendering framework: a renderer
// configuration mapping modifier definitions to output fragments, and a
// render state carrying per-render side effects. The core contract is
// dispatch discipline, not any particular output format.
package render

import "github.com/yaklabco/emmm/pkg/doc"

// BlockRenderer produces output for one block modifier node.
type BlockRenderer[T any] func(st *State[T], node *doc.BlockModifier) T

// InlineRenderer produces output for one inline modifier node.
type InlineRenderer[T any] func(st *State[T], node *doc.InlineModifier) T

// Configuration maps node shapes to output fragments. Modifier renderers
// are keyed by definition identity.
type Configuration[T any] struct {
	blockRenderers  map[*doc.BlockDefinition]BlockRenderer[T]
	inlineRenderers map[*doc.InlineDefinition]InlineRenderer[T]

	// Paragraph wraps rendered inline children. Preformatted, Text, and
	// Escaped render the plain node kinds. Join concatenates fragments.
	Paragraph    func(st *State[T], node *doc.Paragraph, children []T) T
	Preformatted func(st *State[T], node *doc.Preformatted) T
	Text         func(st *State[T], node *doc.Text) T
	Escaped      func(st *State[T], node *doc.Escaped) T
	Join         func(parts []T) T

	// InvalidBlock and InvalidInline are the fallbacks for modifier nodes
	// with neither a registered renderer nor an expansion.
	InvalidBlock  func(st *State[T], node *doc.BlockModifier, reason string) T
	InvalidInline func(st *State[T], node *doc.InlineModifier, reason string) T
}

// NewConfiguration creates an empty renderer configuration.
func NewConfiguration[T any]() *Configuration[T] {
	return &Configuration[T]{
		blockRenderers:  make(map[*doc.BlockDefinition]BlockRenderer[T]),
		inlineRenderers: make(map[*doc.InlineDefinition]InlineRenderer[T]),
	}
}

// SetBlockRenderer registers the renderer for a block definition.
func (c *Configuration[T]) SetBlockRenderer(def *doc.BlockDefinition, fn BlockRenderer[T]) {
	c.blockRenderers[def] = fn
}

// SetInlineRenderer registers the renderer for an inline definition.
func (c *Configuration[T]) SetInlineRenderer(def *doc.InlineDefinition, fn InlineRenderer[T]) {
	c.inlineRenderers[def] = fn
}

// State is the mutable side-channel of one render invocation. It is
// exclusively owned by that invocation.
type State[T any] struct {
	Config *Configuration[T]

	store map[*doc.StoreKey]any
}

// NewState creates a render state for one invocation.
func NewState[T any](cfg *Configuration[T]) *State[T] {
	return &State[T]{Config: cfg, store: make(map[*doc.StoreKey]any)}
}

// Init stores a payload under key, replacing any previous value.
func (s *State[T]) Init(key *doc.StoreKey, payload any) {
	s.store[key] = payload
}

// Get retrieves the payload stored under key.
func (s *State[T]) Get(key *doc.StoreKey) (any, bool) {
	v, ok := s.store[key]
	return v, ok
}

// StateGetOrInit retrieves typed state from a render state, initializing it
// with make() on first use.
func StateGetOrInit[P any, T any](s *State[T], key *doc.StoreKey, make func() P) P {
	if v, ok := s.store[key]; ok {
		if p, ok := v.(P); ok {
			return p
		}
	}
	p := make()
	s.store[key] = p
	return p
}

// Render renders a whole document.
func (s *State[T]) Render(d *doc.Document) T {
	return s.RenderBlocks(d.Root.Content)
}

// RenderBlocks renders block entities and joins the fragments.
func (s *State[T]) RenderBlocks(nodes []doc.BlockEntity) T {
	parts := make([]T, 0, len(nodes))
	for _, n := range nodes {
		if out, ok := s.renderBlock(n); ok {
			parts = append(parts, out)
		}
	}
	return s.Config.Join(parts)
}

// RenderInlines renders inline entities and joins the fragments.
func (s *State[T]) RenderInlines(nodes []doc.InlineEntity) T {
	parts := make([]T, 0, len(nodes))
	for _, n := range nodes {
		if out, ok := s.renderInline(n); ok {
			parts = append(parts, out)
		}
	}
	return s.Config.Join(parts)
}

// renderBlock dispatches one block entity: registered renderer first, then
// the node's expansion, then the invalid fallback. System modifiers render
// to nothing.
func (s *State[T]) renderBlock(n doc.BlockEntity) (T, bool) {
	var zero T
	switch n := n.(type) {
	case *doc.Paragraph:
		children := make([]T, 0, len(n.Content))
		for _, c := range n.Content {
			if out, ok := s.renderInline(c); ok {
				children = append(children, out)
			}
		}
		return s.Config.Paragraph(s, n, children), true
	case *doc.Preformatted:
		return s.Config.Preformatted(s, n), true
	case *doc.BlockModifier:
		if fn, ok := s.Config.blockRenderers[n.Mod]; ok {
			return fn(s, n), true
		}
		if n.Expanded && n.Expansion != nil {
			return s.RenderBlocks(n.Expansion), true
		}
		return s.Config.InvalidBlock(s, n, "no renderer for "+n.Mod.Name), true
	case *doc.SystemModifier:
		return zero, false
	default:
		return zero, false
	}
}

func (s *State[T]) renderInline(n doc.InlineEntity) (T, bool) {
	var zero T
	switch n := n.(type) {
	case *doc.Text:
		return s.Config.Text(s, n), true
	case *doc.Escaped:
		return s.Config.Escaped(s, n), true
	case *doc.InlineModifier:
		if fn, ok := s.Config.inlineRenderers[n.Mod]; ok {
			return fn(s, n), true
		}
		if n.Expanded && n.Expansion != nil {
			return s.RenderInlines(n.Expansion), true
		}
		return s.Config.InvalidInline(s, n, "no renderer for "+n.Mod.Name), true
	default:
		return zero, false
	}
}
