package liquid

import (
	"github.com/fluentpage/liquid-go/value"
)

// Context is the per-render binding environment: a scope stack mapping
// names to values, plus the strict/lenient undefined-variable policy.
//
// A Context must not be shared across concurrent renders; parsed templates
// may be.
type Context struct {
	env             *Environment
	scopes          []map[string]value.Value
	strictVariables bool
}

// NewContext creates a render context over the given assigns. The assigns
// are canonicalized eagerly except for capability objects (lazy values,
// context-aware wrappers), which are normalized when a lookup touches
// them.
func NewContext(env *Environment, assigns map[string]any) *Context {
	scope := make(map[string]value.Value, len(assigns))
	for k, v := range assigns {
		scope[k] = value.FromAny(v)
	}
	return &Context{
		env:             env,
		scopes:          []map[string]value.Value{scope},
		strictVariables: env.strictVariables,
	}
}

// Set binds a name in the innermost scope.
func (c *Context) Set(name string, v any) {
	c.scopes[len(c.scopes)-1][name] = value.FromAny(v)
}

// Evaluate resolves an expression. A nil expression resolves to nil,
// which keeps else-sentinel branches trivially truth-checkable.
func (c *Context) Evaluate(expr Expression) (value.Value, error) {
	if expr == nil {
		return value.Nil(), nil
	}
	return expr.Evaluate(c)
}

// findRoot resolves a root variable name through the scope chain (inner
// to outer), then the environment globals. Lazy values are forced and the
// result canonicalized. The bool reports whether the name was bound at
// all; the strict policy is applied by the caller.
func (c *Context) findRoot(name string) (value.Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return c.force(v), true
		}
	}
	if v, ok := c.env.getGlobal(name); ok {
		return c.force(v), true
	}
	return value.Nil(), false
}

// FindRoot is the lenient root lookup exposed to context-aware host
// objects through the value.Resolver interface.
func (c *Context) FindRoot(name string) value.Value {
	v, _ := c.findRoot(name)
	return v
}

// LookupAndForce fetches key out of container, forcing any lazily
// deferred value bound there and normalizing the result to the canonical
// representation. Keys that report as present fetch by key; otherwise
// integer keys fetch positionally.
func (c *Context) LookupAndForce(container, key value.Value) (value.Value, error) {
	var fetched value.Value
	if container.HasKey(key) {
		fetched, _ = container.GetKey(key)
	} else if i, ok := key.AsInt(); ok {
		fetched, _ = container.Index(i)
	}
	return c.force(fetched), nil
}

// force resolves a lazy value and canonicalizes the result.
func (c *Context) force(v value.Value) value.Value {
	if lz, ok := v.Raw().(value.Lazy); ok {
		v = lz.Force()
	}
	return value.FromAny(v.Raw())
}

// bind hands the active context to values that declare the
// context-dependency capability.
func (c *Context) bind(v value.Value) {
	if binder, ok := v.Raw().(value.ContextBinder); ok {
		binder.BindContext(c)
	}
}
