package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil nil", Nil(), Nil(), true},
		{"nil other", Nil(), FromInt(0), false},
		{"bool", True(), True(), true},
		{"bool mismatch", True(), False(), false},
		{"no bool number coercion", True(), FromInt(1), false},
		{"int int", FromInt(3), FromInt(3), true},
		{"int float cross", FromInt(3), FromFloat(3.0), true},
		{"number mismatch", FromInt(3), FromFloat(3.5), false},
		{"string", FromString("a"), FromString("a"), true},
		{"string vs number", FromString("1"), FromInt(1), false},
		{"seq elementwise", FromSlice([]Value{FromInt(1), FromString("x")}), FromSlice([]Value{FromInt(1), FromString("x")}), true},
		{"seq length mismatch", FromSlice([]Value{FromInt(1)}), FromSlice(nil), false},
		{"map", FromMap(map[string]Value{"a": FromInt(1)}), FromMap(map[string]Value{"a": FromInt(1)}), true},
		{"map value mismatch", FromMap(map[string]Value{"a": FromInt(1)}), FromMap(map[string]Value{"a": FromInt(2)}), false},
		{"range", FromRange(1, 3), FromRange(1, 3), true},
		{"range mismatch", FromRange(1, 3), FromRange(1, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Value
		want    int
		ordered bool
	}{
		{"int less", FromInt(1), FromInt(2), -1, true},
		{"int greater", FromInt(2), FromInt(1), 1, true},
		{"int equal", FromInt(2), FromInt(2), 0, true},
		{"int float cross", FromInt(1), FromFloat(1.5), -1, true},
		{"string", FromString("a"), FromString("b"), -1, true},
		{"string vs number unordered", FromString("1"), FromInt(1), 0, false},
		{"nil unordered", Nil(), FromInt(1), 0, false},
		{"bool unordered", True(), False(), 0, false},
		{"seq unordered", FromSlice(nil), FromSlice(nil), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Compare(tt.b)
			require.Equal(t, tt.ordered, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestContains(t *testing.T) {
	seq := FromSlice([]Value{FromString("a"), FromInt(2)})
	m := FromMap(map[string]Value{"key": FromInt(1)})

	tests := []struct {
		name        string
		hay, needle Value
		want        bool
	}{
		{"substring", FromString("hello world"), FromString("lo wo"), true},
		{"substring miss", FromString("hello"), FromString("xyz"), false},
		{"string contains rendered number", FromString("room 101"), FromInt(101), true},
		{"seq element", seq, FromString("a"), true},
		{"seq number element", seq, FromInt(2), true},
		{"seq miss", seq, FromString("b"), false},
		{"map key", m, FromString("key"), true},
		{"map key miss", m, FromString("nope"), false},
		{"range bound", FromRange(1, 5), FromInt(3), true},
		{"range lower edge", FromRange(1, 5), FromInt(1), true},
		{"range miss", FromRange(1, 5), FromInt(9), false},
		{"range float within", FromRange(1, 5), FromFloat(2.5), true},
		{"range non-numeric needle", FromRange(1, 5), FromString("2"), false},
		{"inverted range is empty", FromRange(5, 1), FromInt(3), false},
		{"nil needle", FromString("nil"), Nil(), false},
		{"nil haystack", Nil(), FromString("a"), false},
		{"number haystack", FromInt(101), FromInt(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.hay.Contains(tt.needle))
		})
	}
}

type countedSeq struct {
	items []Value
}

func (c *countedSeq) SeqLen() int         { return len(c.items) }
func (c *countedSeq) SeqItem(i int) Value { return c.items[i] }

func TestSeqObjectDispatch(t *testing.T) {
	obj := FromAny(&countedSeq{items: []Value{FromString("x"), FromString("y")}})
	require.Equal(t, KindObject, obj.Kind())

	assert.True(t, obj.SupportsKeyed())
	assert.True(t, obj.SupportsIndex())

	got, ok := obj.Index(-1)
	require.True(t, ok)
	assert.Equal(t, "y", got.String())

	size, ok := obj.InvokeCommand(CommandSize)
	require.True(t, ok)
	n, _ := size.AsInt()
	assert.Equal(t, int64(2), n)

	first, ok := obj.InvokeCommand(CommandFirst)
	require.True(t, ok)
	assert.Equal(t, "x", first.String())
}

type greetings struct{}

func (greetings) HasKey(key Value) bool {
	s, _ := key.AsString()
	return s == "hello"
}

func (greetings) GetKey(key Value) Value { return FromString("world") }

func TestKeyedObjectDispatch(t *testing.T) {
	obj := FromAny(greetings{})
	require.Equal(t, KindObject, obj.Kind())

	assert.True(t, obj.HasKey(FromString("hello")))
	got, ok := obj.GetKey(FromString("hello"))
	require.True(t, ok)
	assert.Equal(t, "world", got.String())

	_, ok = obj.GetKey(FromString("bye"))
	assert.False(t, ok)
}

type tagList []Value

func (t tagList) SeqLen() int         { return len(t) }
func (t tagList) SeqItem(i int) Value { return t[i] }

func TestEqualHostObjects(t *testing.T) {
	a := FromAny(tagList{FromString("x")})
	b := FromAny(tagList{FromString("x")})
	require.Equal(t, KindObject, a.Kind())

	assert.NotPanics(t, func() {
		assert.False(t, a.Equal(b))
		assert.False(t, a.Equal(a))
	})
	assert.False(t, a.Equal(FromInt(1)))
	assert.False(t, FromInt(1).Equal(a))
}
