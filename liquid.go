// Package liquid implements the expression-resolution and
// conditional-control core of a Liquid-style templating language.
//
// The engine resolves dotted and bracketed variable references against a
// hierarchical render context and drives if/elsif/else branching through
// boolean condition chains.
//
// # Quick Start
//
//	env := liquid.NewEnvironment()
//	tmpl, _ := env.TemplateFromString("Hello {{ user.name }}!")
//	result, _ := tmpl.Render(map[string]any{
//	    "user": map[string]any{"name": "Ada"},
//	})
//	fmt.Println(result) // Output: Hello Ada!
//
// # Grammars
//
// Two grammars parse tag markup: a permissive scanner-based lax grammar
// and a tokenizer-based strict grammar, selected per environment with
// SetParseMode. Both produce structurally identical parse results for
// valid input.
//
// Boolean chains deliberately have no operator precedence: `a or b and c`
// evaluates strictly left to right as `(a or b) and c`.
//
// # Undefined Variables
//
// Under the default lenient policy an unresolved path renders empty and
// is falsy in conditions. With SetStrictVariables(true) the first
// unresolved path anywhere aborts the render with an undefined-variable
// error naming the offending key.
//
// # Commands
//
// Dotted paths may invoke one of the fixed commands size, first and last
// when the receiver has no real key of that name; a real key always
// shadows the command.
//
// # Concurrency
//
// Parsed templates are immutable and safe for concurrent renders. Each
// render owns its Context; contexts must not be shared across goroutines.
package liquid

// Version is the library version.
const Version = "0.3.0"

// ParseString parses source with a throwaway default environment: lax
// grammar, lenient variables.
func ParseString(source string) (*Template, error) {
	return NewEnvironment().TemplateFromString(source)
}

// RenderString parses and renders in one step. Parse and render errors
// are returned alike.
func RenderString(source string, assigns map[string]any) (string, error) {
	tmpl, err := ParseString(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(assigns)
}
