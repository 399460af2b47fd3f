package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want bool
	}{
		{"nil", Nil(), false},
		{"false", False(), false},
		{"true", True(), true},
		{"zero", FromInt(0), true},
		{"empty string", FromString(""), true},
		{"empty seq", FromSlice(nil), true},
		{"empty map", FromMap(nil), true},
		{"inverted range", FromRange(3, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.val.IsTrue())
		})
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNil},
		{"bool", true, KindBool},
		{"int", 42, KindNumber},
		{"int64", int64(42), KindNumber},
		{"uint8", uint8(7), KindNumber},
		{"float", 4.5, KindNumber},
		{"string", "hello", KindString},
		{"slice", []any{1, 2}, KindSeq},
		{"string slice", []string{"a"}, KindSeq},
		{"map", map[string]any{"a": 1}, KindMap},
		{"value passthrough", FromInt(1), KindNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, FromAny(tt.in).Kind())
		})
	}
}

func TestFromAnyStruct(t *testing.T) {
	type address struct {
		City string `json:"city"`
		Zip  string `json:"-"`
	}
	v := FromAny(address{City: "Aachen", Zip: "52062"})
	require.Equal(t, KindMap, v.Kind())

	city, ok := v.GetKey(FromString("city"))
	require.True(t, ok)
	assert.Equal(t, "Aachen", city.String())
	_, ok = v.GetKey(FromString("Zip"))
	assert.False(t, ok)
	_, ok = v.GetKey(FromString("zip"))
	assert.False(t, ok)
}

func TestStringRendering(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"nil is empty", Nil(), ""},
		{"bool", True(), "true"},
		{"int", FromInt(7), "7"},
		{"float", FromFloat(1.5), "1.5"},
		{"whole float", FromFloat(2.0), "2.0"},
		{"string", FromString("x"), "x"},
		{"seq concatenates", FromSlice([]Value{FromInt(1), FromString("a"), Nil()}), "1a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.val.String())
		})
	}
}

func TestLen(t *testing.T) {
	seq := FromSlice([]Value{FromInt(1), FromInt(2), FromInt(3)})
	m := FromMap(map[string]Value{"a": FromInt(1)})

	tests := []struct {
		name string
		val  Value
		want int
		ok   bool
	}{
		{"string counts runes", FromString("héllo"), 5, true},
		{"seq", seq, 3, true},
		{"map", m, 1, true},
		{"range", FromRange(1, 3), 3, true},
		{"inverted range", FromRange(3, 1), 0, true},
		{"number has no length", FromInt(5), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := tt.val.Len()
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestIndex(t *testing.T) {
	seq := FromSlice([]Value{FromString("a"), FromString("b"), FromString("c")})

	tests := []struct {
		name string
		idx  int64
		want Value
		ok   bool
	}{
		{"first", 0, FromString("a"), true},
		{"last", 2, FromString("c"), true},
		{"negative wraps", -1, FromString("c"), true},
		{"out of range", 3, Nil(), false},
		{"negative out of range", -4, Nil(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := seq.Index(tt.idx)
			require.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(tt.want), "got %s", got.Repr())
		})
	}
}

func TestRangeAccess(t *testing.T) {
	r := FromRange(2, 5)
	n, ok := r.Len()
	require.True(t, ok)
	assert.Equal(t, 4, n)

	got, ok := r.Index(1)
	require.True(t, ok)
	i, _ := got.AsInt()
	assert.Equal(t, int64(3), i)

	got, ok = r.Index(-1)
	require.True(t, ok)
	i, _ = got.AsInt()
	assert.Equal(t, int64(5), i)
}

func TestGetKey(t *testing.T) {
	m := FromMap(map[string]Value{"name": FromString("Ada")})

	assert.True(t, m.HasKey(FromString("name")))
	assert.False(t, m.HasKey(FromString("missing")))

	got, ok := m.GetKey(FromString("name"))
	require.True(t, ok)
	assert.Equal(t, "Ada", got.String())
	got, ok = m.GetKey(FromString("missing"))
	assert.False(t, ok)
	assert.True(t, got.IsNil())

	seq := FromSlice([]Value{FromString("x")})
	assert.True(t, seq.SupportsKeyed())
	assert.True(t, seq.SupportsIndex())
	assert.False(t, seq.HasKey(FromInt(0)))
	assert.False(t, FromInt(1).SupportsKeyed())
}
