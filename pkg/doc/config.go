package doc

// named is implemented by every definition kind held in a registry.
type named interface {
	defName() string
}

// Registry is an ordered, name-unique collection of definitions. Mutations
// fire the owning configuration's change notification so the parser can
// rebuild its lookup prefixes.
type Registry[T named] struct {
	order  []string
	byName map[string]T
	notify func()
}

func newRegistry[T named](notify func()) *Registry[T] {
	return &Registry[T]{byName: make(map[string]T), notify: notify}
}

// Add inserts a definition, replacing any existing one with the same name.
// A replaced definition keeps its position in the order.
func (r *Registry[T]) Add(def T) {
	name := def.defName()
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = def
	if r.notify != nil {
		r.notify()
	}
}

// Remove deletes the definition with the given name. Returns false if no
// such definition exists.
func (r *Registry[T]) Remove(name string) bool {
	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.notify != nil {
		r.notify()
	}
	return true
}

// Has reports whether a definition with the given name exists.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Get retrieves a definition by name.
func (r *Registry[T]) Get(name string) (T, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Entries returns all definitions in insertion order.
func (r *Registry[T]) Entries() []T {
	result := make([]T, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.byName[name])
	}
	return result
}

// Names returns all definition names in insertion order.
func (r *Registry[T]) Names() []string {
	result := make([]string, len(r.order))
	copy(result, r.order)
	return result
}

// clone produces a shallow copy wired to a new notify function.
func (r *Registry[T]) clone(notify func()) *Registry[T] {
	out := &Registry[T]{
		order:  make([]string, len(r.order)),
		byName: make(map[string]T, len(r.byName)),
		notify: notify,
	}
	copy(out.order, r.order)
	for k, v := range r.byName {
		out.byName[k] = v
	}
	return out
}

// DefaultReparseDepthLimit bounds expansion recursion when a configuration
// does not override it.
const DefaultReparseDepthLimit = 10

// Configuration holds the definition registries and shorthand sets consulted
// by a parse. Configurations may be shared read-only between parses; a parse
// that mutates its configuration should be handed a fresh clone (From).
type Configuration struct {
	BlockModifiers        *Registry[*BlockDefinition]
	InlineModifiers       *Registry[*InlineDefinition]
	SystemModifiers       *Registry[*SystemDefinition]
	ArgumentInterpolators *Registry[*InterpolatorDefinition]
	BlockShorthands       *Registry[*BlockShorthand]
	InlineShorthands      *Registry[*InlineShorthand]

	ReparseDepthLimit int

	onChange func()
}

// NewConfiguration creates an empty configuration with the default reparse
// depth limit.
func NewConfiguration() *Configuration {
	c := &Configuration{ReparseDepthLimit: DefaultReparseDepthLimit}
	c.BlockModifiers = newRegistry[*BlockDefinition](c.fireChange)
	c.InlineModifiers = newRegistry[*InlineDefinition](c.fireChange)
	c.SystemModifiers = newRegistry[*SystemDefinition](c.fireChange)
	c.ArgumentInterpolators = newRegistry[*InterpolatorDefinition](c.fireChange)
	c.BlockShorthands = newRegistry[*BlockShorthand](c.fireChange)
	c.InlineShorthands = newRegistry[*InlineShorthand](c.fireChange)
	return c
}

// From clones other: a shallow copy of the registries and shorthand sets.
// Subsequent mutations of either configuration do not affect the other.
// The clone starts with no change observer.
func From(other *Configuration) *Configuration {
	c := &Configuration{ReparseDepthLimit: other.ReparseDepthLimit}
	c.BlockModifiers = other.BlockModifiers.clone(c.fireChange)
	c.InlineModifiers = other.InlineModifiers.clone(c.fireChange)
	c.SystemModifiers = other.SystemModifiers.clone(c.fireChange)
	c.ArgumentInterpolators = other.ArgumentInterpolators.clone(c.fireChange)
	c.BlockShorthands = other.BlockShorthands.clone(c.fireChange)
	c.InlineShorthands = other.InlineShorthands.clone(c.fireChange)
	return c
}

// SetOnChange installs the mutation observer. The owner (typically a parser)
// uses it to invalidate cached lookup tables.
func (c *Configuration) SetOnChange(fn func()) {
	c.onChange = fn
}

func (c *Configuration) fireChange() {
	if c.onChange != nil {
		c.onChange()
	}
}
