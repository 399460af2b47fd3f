package liquid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentpage/liquid-go/lexer"
	"github.com/fluentpage/liquid-go/value"
)

func parseLookupStrictString(t *testing.T, markup string) *VariableLookup {
	t.Helper()
	tz, err := lexer.NewTokenizer(markup)
	require.NoError(t, err)
	lookup, err := ParseVariableLookupStrict(tz)
	require.NoError(t, err)
	_, err = tz.Consume(lexer.TokenEndOfString)
	require.NoError(t, err)
	return lookup
}

func TestLookupGrammarEquivalence(t *testing.T) {
	markups := []string{
		"user",
		"user.name",
		"a.b.c",
		"user['name']",
		`user["first name"]`,
		"arr[0]",
		"arr[-1]",
		"arr[idx]",
		"list.size",
		"products.first.title",
		"[dyn]",
		"[dyn].name",
		"a[b.c]",
		"a['b.c']",
	}
	for _, markup := range markups {
		t.Run(markup, func(t *testing.T) {
			lax := ParseVariableLookupLax(markup)
			strict := parseLookupStrictString(t, markup)
			if diff := cmp.Diff(lax, strict); diff != "" {
				t.Errorf("grammars disagree (-lax +strict):\n%s", diff)
			}
		})
	}
}

func TestLookupCommandFlag(t *testing.T) {
	lookup := ParseVariableLookupLax("items.size.first.other")
	steps := lookup.Steps()
	require.Len(t, steps, 3)
	assert.True(t, steps[0].Command)
	assert.True(t, steps[1].Command)
	assert.False(t, steps[2].Command)

	// Bracketed keys are never command candidates, even for command names.
	lookup = ParseVariableLookupLax("items['size']")
	require.Len(t, lookup.Steps(), 1)
	assert.False(t, lookup.Steps()[0].Command)
}

func TestLookupString(t *testing.T) {
	assert.Equal(t, "a['b'][0]", ParseVariableLookupLax("a.b[0]").String())
	assert.Equal(t, "[dyn]['name']", ParseVariableLookupLax("[dyn].name").String())
}

func evalLookup(t *testing.T, markup string, assigns map[string]any) (value.Value, error) {
	t.Helper()
	ctx := NewContext(NewEnvironment(), assigns)
	return ParseVariableLookupLax(markup).Evaluate(ctx)
}

func TestLookupEvaluate(t *testing.T) {
	assigns := map[string]any{
		"user": map[string]any{
			"name":    "Ada",
			"address": map[string]any{"city": "London"},
		},
		"arr":   []any{"a", "b", "c"},
		"idx":   1,
		"title": "héllo",
		"box":   map[string]any{"size": "XL"},
		"empty": []any{},
		"products": []any{
			map[string]any{"title": "shirt"},
			map[string]any{"title": "hat"},
		},
		"words": []any{"hello", "hi"},
		"key":   "user",
	}

	tests := []struct {
		name   string
		markup string
		want   value.Value
	}{
		{"root", "idx", value.FromInt(1)},
		{"nested map", "user.name", value.FromString("Ada")},
		{"deep nesting", "user.address.city", value.FromString("London")},
		{"bracket literal", "user['name']", value.FromString("Ada")},
		{"positional", "arr[1]", value.FromString("b")},
		{"negative positional", "arr[-1]", value.FromString("c")},
		{"dynamic index", "arr[idx]", value.FromString("b")},
		{"dynamic root", "[key].name", value.FromString("Ada")},
		{"seq size", "arr.size", value.FromInt(3)},
		{"string size counts runes", "title.size", value.FromInt(5)},
		{"map size", "user.size", value.FromInt(2)},
		{"first", "arr.first", value.FromString("a")},
		{"last", "arr.last", value.FromString("c")},
		{"command chain", "products.first.title", value.FromString("shirt")},
		{"command on command result", "words.first.size", value.FromInt(5)},
		{"key shadows command", "box.size", value.FromString("XL")},
		{"first of empty is nil", "empty.first", value.Nil()},
		{"last of empty is nil", "empty.last", value.Nil()},
		{"size of empty", "empty.size", value.FromInt(0)},
		{"out of bounds is nil", "arr[10]", value.Nil()},
		{"missing root is nil", "ghost", value.Nil()},
		{"missing key is nil", "user.age", value.Nil()},
		{"broken path stays nil", "user.age.extra", value.Nil()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalLookup(t, tt.markup, assigns)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got.Repr(), tt.want.Repr())
		})
	}
}

func TestLookupRangeCommands(t *testing.T) {
	assigns := map[string]any{"r": value.FromRange(2, 5)}

	tests := []struct {
		markup string
		want   int64
	}{
		{"r.size", 4},
		{"r.first", 2},
		{"r.last", 5},
		{"r[1]", 3},
	}
	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			got, err := evalLookup(t, tt.markup, assigns)
			require.NoError(t, err)
			n, ok := got.AsInt()
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestLookupStrictVariables(t *testing.T) {
	env := NewEnvironment()
	env.SetStrictVariables(true)
	assigns := map[string]any{
		"user": map[string]any{"name": "Ada"},
		"arr":  []any{"a"},
	}

	t.Run("defined paths still resolve", func(t *testing.T) {
		ctx := NewContext(env, assigns)
		got, err := ParseVariableLookupLax("user.name").Evaluate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.String())
	})

	t.Run("missing root names the root", func(t *testing.T) {
		ctx := NewContext(env, assigns)
		_, err := ParseVariableLookupLax("ghost").Evaluate(ctx)
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, ErrUndefinedVar, lerr.Kind)
		assert.Contains(t, lerr.Message, "ghost")
	})

	t.Run("missing step names the step", func(t *testing.T) {
		ctx := NewContext(env, assigns)
		_, err := ParseVariableLookupLax("user.age").Evaluate(ctx)
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, ErrUndefinedVar, lerr.Kind)
		assert.Contains(t, lerr.Message, "age")
	})

	t.Run("command on unsupported kind fails", func(t *testing.T) {
		ctx := NewContext(env, map[string]any{"n": 7})
		_, err := ParseVariableLookupLax("n.size").Evaluate(ctx)
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, ErrUndefinedVar, lerr.Kind)
	})

	t.Run("commands on empty containers are defined", func(t *testing.T) {
		ctx := NewContext(env, map[string]any{"empty": []any{}})
		got, err := ParseVariableLookupLax("empty.first").Evaluate(ctx)
		require.NoError(t, err)
		assert.True(t, got.IsNil())
	})
}

type lazyString struct {
	s string
}

func (l lazyString) Force() value.Value { return value.FromString(l.s) }

func TestLookupForcesLazyValues(t *testing.T) {
	assigns := map[string]any{
		"root": lazyString{s: "forced root"},
		"box":  map[string]any{"inner": lazyString{s: "forced inner"}},
	}

	got, err := evalLookup(t, "root", assigns)
	require.NoError(t, err)
	assert.Equal(t, "forced root", got.String())

	got, err = evalLookup(t, "box.inner", assigns)
	require.NoError(t, err)
	assert.Equal(t, "forced inner", got.String())

	got, err = evalLookup(t, "root.size", assigns)
	require.NoError(t, err)
	n, ok := got.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(11), n)
}

// greeter resolves its keys against other context variables, exercising
// the context-binding capability.
type greeter struct {
	resolver value.Resolver
}

func (g *greeter) BindContext(r value.Resolver) { g.resolver = r }

func (g *greeter) HasKey(key value.Value) bool {
	s, _ := key.AsString()
	return s == "greeting"
}

func (g *greeter) GetKey(key value.Value) value.Value {
	name := g.resolver.FindRoot("name")
	return value.FromString("hi " + name.String())
}

func TestLookupBindsContextAwareObjects(t *testing.T) {
	assigns := map[string]any{
		"drop": &greeter{},
		"name": "Ada",
	}
	got, err := evalLookup(t, "drop.greeting", assigns)
	require.NoError(t, err)
	assert.Equal(t, "hi Ada", got.String())
}

func TestLookupEqual(t *testing.T) {
	a := ParseVariableLookupLax("user.name")
	b := ParseVariableLookupLax("user.name")
	c := ParseVariableLookupLax("user.title")
	d := ParseVariableLookupLax("user['name']")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	// Dotted keys and bracketed expressions are distinct shapes.
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
}
