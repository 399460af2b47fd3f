package liquid

import (
	"sync"

	"github.com/fluentpage/liquid-go/value"
)

// ParseMode selects the template-wide tag-markup grammar.
type ParseMode int

const (
	// ParseModeLax is the permissive scanner-based grammar. Unparsable
	// expression markup degrades to variable paths instead of failing.
	ParseModeLax ParseMode = iota

	// ParseModeStrict is the tokenizer-based grammar with strict syntax.
	// Both modes yield identical runtime semantics for valid input.
	ParseModeStrict
)

// Environment holds template-wide configuration: the parse mode, the
// undefined-variable policy and globals shared by every render.
type Environment struct {
	mu              sync.RWMutex
	globals         map[string]value.Value
	mode            ParseMode
	strictVariables bool
}

// NewEnvironment creates an environment with the lax grammar and lenient
// variables.
func NewEnvironment() *Environment {
	return &Environment{globals: make(map[string]value.Value)}
}

// SetParseMode selects the grammar used by subsequent parses.
func (e *Environment) SetParseMode(mode ParseMode) {
	e.mode = mode
}

// SetStrictVariables switches the undefined-variable policy. Under the
// strict policy a lookup step that matches neither a key nor a command
// aborts the render with an undefined-variable error; under the lenient
// policy it resolves to nil.
func (e *Environment) SetStrictVariables(strict bool) {
	e.strictVariables = strict
}

// AddGlobal binds a value visible to every render.
func (e *Environment) AddGlobal(name string, v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globals[name] = value.FromAny(v)
}

func (e *Environment) getGlobal(name string) (value.Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.globals[name]
	return v, ok
}

// TemplateFromString parses template source under the environment's parse
// mode.
func (e *Environment) TemplateFromString(source string) (*Template, error) {
	return parseTemplate(e, "", source)
}

// TemplateFromNamedString parses template source, attaching a name used
// in error messages.
func (e *Environment) TemplateFromNamedString(name, source string) (*Template, error) {
	return parseTemplate(e, name, source)
}
