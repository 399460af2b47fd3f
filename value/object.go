package value

// Converter is implemented by host types that provide their own canonical
// value representation. FromAny consults it before any other conversion
// rule, so a host type can fully control how templates see it.
type Converter interface {
	ToValue() Value
}

// Lazy is a deferred value. The engine forces it when a lookup step fetches
// it out of a container, then canonicalizes the result. Force is called on
// every fetch; memoization is up to the implementation.
type Lazy interface {
	Force() Value
}

// KeyedObject is a host object with keyed access.
//
// HasKey and GetKey are separate on purpose: the lookup algorithm must know
// whether a key exists before fetching, because a real key always shadows a
// command of the same name.
type KeyedObject interface {
	// HasKey reports whether the object has the given key.
	HasKey(key Value) bool
	// GetKey returns the value for the key. Only called after HasKey
	// reported true; returning Nil() for unknown keys is still safe.
	GetKey(key Value) Value
}

// SeqObject is a host object with positional access.
type SeqObject interface {
	// SeqLen returns the number of elements.
	SeqLen() int
	// SeqItem returns the element at index (0-based, already wrapped for
	// negative indices by the engine). Returns Nil() when out of bounds.
	SeqItem(index int) Value
}

// Command is one of the fixed dotted-syntax commands. A command is invoked
// only when the value has no real key of the same name.
type Command int

const (
	CommandSize Command = iota
	CommandFirst
	CommandLast
)

func (c Command) String() string {
	switch c {
	case CommandSize:
		return "size"
	case CommandFirst:
		return "first"
	case CommandLast:
		return "last"
	default:
		return "unknown"
	}
}

// CommandOf maps a bareword to a Command. The vocabulary is closed: only
// size, first and last exist.
func CommandOf(name string) (Command, bool) {
	switch name {
	case "size":
		return CommandSize, true
	case "first":
		return CommandFirst, true
	case "last":
		return CommandLast, true
	default:
		return 0, false
	}
}

// CommandObject is a host object that answers zero-argument commands.
type CommandObject interface {
	// InvokeCommand executes the command. The bool reports whether the
	// object supports it; unsupported commands fall through to the
	// undefined-variable policy.
	InvokeCommand(cmd Command) (Value, bool)
}

// Resolver is the slice of the render context visible to context-aware
// objects: root-variable resolution in the current scope chain.
type Resolver interface {
	// FindRoot resolves a root variable name. Missing names resolve to
	// Nil(); the strict policy is applied by the engine, not here.
	FindRoot(name string) Value
}

// ContextBinder is implemented by host objects that need the active render
// context for further lookups. Whenever a lookup step resolves to such an
// object the engine binds the current context into it before continuing.
type ContextBinder interface {
	BindContext(r Resolver)
}

// HasKey reports whether v exposes key through keyed access. Built-in maps
// answer string keys; custom objects answer through KeyedObject.
func (v Value) HasKey(key Value) bool {
	switch d := v.data.(type) {
	case map[string]Value:
		s, ok := key.AsString()
		if !ok {
			return false
		}
		_, exists := d[s]
		return exists
	case KeyedObject:
		return d.HasKey(key)
	default:
		return false
	}
}

// GetKey fetches the value for key. The bool mirrors HasKey.
func (v Value) GetKey(key Value) (Value, bool) {
	switch d := v.data.(type) {
	case map[string]Value:
		s, ok := key.AsString()
		if !ok {
			return Nil(), false
		}
		val, exists := d[s]
		return val, exists
	case KeyedObject:
		if !d.HasKey(key) {
			return Nil(), false
		}
		return d.GetKey(key), true
	default:
		return Nil(), false
	}
}

// SupportsKeyed reports whether the value exposes keyed or positional
// access at all. Values without it can still answer commands.
func (v Value) SupportsKeyed() bool {
	switch v.data.(type) {
	case map[string]Value, []Value, Range, KeyedObject, SeqObject:
		return true
	default:
		return false
	}
}

// SupportsIndex reports whether the value supports positional fetch.
func (v Value) SupportsIndex() bool {
	switch v.data.(type) {
	case []Value, Range, SeqObject:
		return true
	default:
		return false
	}
}

// Index fetches the element at position i. Negative indices count from the
// end. The bool is false when the value is not indexable or i is out of
// bounds.
func (v Value) Index(i int64) (Value, bool) {
	switch d := v.data.(type) {
	case []Value:
		if i < 0 {
			i += int64(len(d))
		}
		if i < 0 || i >= int64(len(d)) {
			return Nil(), false
		}
		return d[i], true
	case Range:
		n := int64(d.Len())
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return Nil(), false
		}
		return FromInt(d.Lo + i), true
	case SeqObject:
		n := int64(d.SeqLen())
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return Nil(), false
		}
		return d.SeqItem(int(i)), true
	default:
		return Nil(), false
	}
}

// InvokeCommand dispatches a zero-argument command against the value.
// CommandObject hosts answer first; size then routes through Len, and
// first/last through the positional capability table. The bool is false
// when the value does not support the command, which sends the lookup to
// the undefined policy.
func (v Value) InvokeCommand(cmd Command) (Value, bool) {
	if d, ok := v.data.(CommandObject); ok {
		return d.InvokeCommand(cmd)
	}
	if cmd == CommandSize {
		if n, ok := v.Len(); ok {
			return FromInt(int64(n)), true
		}
		return Nil(), false
	}
	switch d := v.data.(type) {
	case []Value:
		if len(d) == 0 {
			return Nil(), true
		}
		if cmd == CommandFirst {
			return d[0], true
		}
		return d[len(d)-1], true
	case Range:
		if cmd == CommandFirst {
			return FromInt(d.Lo), true
		}
		return FromInt(d.Hi), true
	case SeqObject:
		n := d.SeqLen()
		if n == 0 {
			return Nil(), true
		}
		if cmd == CommandFirst {
			return d.SeqItem(0), true
		}
		return d.SeqItem(n - 1), true
	}
	return Nil(), false
}
