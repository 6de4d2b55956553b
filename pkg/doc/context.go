package doc

// StoreKey is an opaque identity token for the context store. Subsystems
// mint their own key once (typically in a package-level var) and hold on to
// it; keys are compared by pointer identity.
type StoreKey struct {
	name string
}

// NewStoreKey mints a new store key. The name is only for debugging.
func NewStoreKey(name string) *StoreKey {
	return &StoreKey{name: name}
}

// String returns the debug name of the key.
func (k *StoreKey) String() string { return k.name }

// Context is the per-parse state: the live configuration, the delay depth,
// and a typed store that lets built-in modifier families keep per-parse
// state without globals. A Context is exclusively owned by one parser
// instance for the lifetime of a parse.
type Context struct {
	Config *Configuration

	delayDepth int
	store      map[*StoreKey]any
}

// NewContext creates a context over the given configuration.
func NewContext(cfg *Configuration) *Context {
	return &Context{Config: cfg, store: make(map[*StoreKey]any)}
}

// Init stores a payload under key, replacing any previous value.
func (c *Context) Init(key *StoreKey, payload any) {
	c.store[key] = payload
}

// Get retrieves the payload stored under key.
func (c *Context) Get(key *StoreKey) (any, bool) {
	v, ok := c.store[key]
	return v, ok
}

// GetAs retrieves the payload stored under key in cxt, typed. A missing key
// or a payload of the wrong type returns the zero value and false.
func GetAs[T any](cxt *Context, key *StoreKey) (T, bool) {
	var zero T
	v, ok := cxt.store[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// GetOrInit retrieves the payload stored under key, initializing it with
// make() on first use.
func GetOrInit[T any](cxt *Context, key *StoreKey, make func() T) T {
	if v, ok := cxt.store[key]; ok {
		if t, ok := v.(T); ok {
			return t
		}
	}
	t := make()
	cxt.store[key] = t
	return t
}

// DelayDepth returns the number of enclosing delayContentExpansion
// modifiers. When positive, only alwaysTryExpand definitions expand
// immediately.
func (c *Context) DelayDepth() int { return c.delayDepth }

// PushDelay enters a delayContentExpansion region.
func (c *Context) PushDelay() { c.delayDepth++ }

// PopDelay leaves a delayContentExpansion region.
func (c *Context) PopDelay() {
	if c.delayDepth == 0 {
		panic("doc: delay depth underflow")
	}
	c.delayDepth--
}

// Immediate reports whether definition side effects should take place now:
// true outside any delayed region.
func (c *Context) Immediate() bool { return c.delayDepth == 0 }
