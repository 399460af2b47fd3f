// Package value provides the dynamic value representation for the template
// engine.
//
// Values are the canonical form every piece of host data is normalized into
// before templates can see it. A Value can hold nil, booleans, numbers,
// strings, sequences, mappings, integer ranges, or custom host objects that
// opt into template access through the capability interfaces in object.go.
//
// # Truthiness
//
// The engine uses Liquid truthiness: only nil and false are falsy. Every
// other value is truthy, including empty strings, zero and empty containers.
//
// # Creating Values
//
//	name := value.FromString("Ada")
//	nums := value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2)})
//	user := value.FromMap(map[string]value.Value{"name": name})
//
// Arbitrary Go data can be converted with FromAny, which recursively maps
// slices, maps and structs into the canonical representation.
package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind describes the type of a Value.
type Kind int

const (
	// KindNil represents the absence of a value. Unresolved variable
	// lookups produce nil under the lenient policy.
	KindNil Kind = iota

	// KindBool represents true or false.
	KindBool

	// KindNumber represents an integer or floating-point number.
	KindNumber

	// KindString represents UTF-8 text.
	KindString

	// KindSeq represents an ordered sequence.
	KindSeq

	// KindMap represents a string-keyed mapping.
	KindMap

	// KindRange represents an inclusive integer range (lo..hi).
	KindRange

	// KindObject represents a custom host object exposing one or more of
	// the capability interfaces.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "map"
	case KindRange:
		return "range"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a dynamically typed template value.
//
// Values of primitive kinds are immutable. Sequences and maps share the
// underlying Go slice or map, so host-side mutation is visible through the
// Value; parsed templates never mutate resolved values.
type Value struct {
	data any
}

type nilType struct{}

var nilVal = nilType{}

// Nil returns the nil value. It is falsy and renders as the empty string.
func Nil() Value {
	return Value{data: nilVal}
}

// True returns the boolean true value.
func True() Value {
	return Value{data: true}
}

// False returns the boolean false value.
func False() Value {
	return Value{data: false}
}

// FromBool creates a Value from a boolean.
func FromBool(v bool) Value {
	return Value{data: v}
}

// FromInt creates a Value from an int64.
func FromInt(v int64) Value {
	return Value{data: v}
}

// FromFloat creates a Value from a float64.
func FromFloat(v float64) Value {
	return Value{data: v}
}

// FromString creates a Value from a string.
func FromString(v string) Value {
	return Value{data: v}
}

// FromSlice creates a sequence Value. The slice is shared, not copied.
func FromSlice(v []Value) Value {
	return Value{data: v}
}

// FromMap creates a mapping Value. The map is shared, not copied.
func FromMap(v map[string]Value) Value {
	return Value{data: v}
}

// Range is an inclusive integer range, the result of a (lo..hi) literal.
type Range struct {
	Lo, Hi int64
}

// Len returns the number of integers in the range. An inverted range is
// empty, matching Ruby's Range#size.
func (r Range) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(r.Hi - r.Lo + 1)
}

// FromRange creates a Value from an inclusive integer range.
func FromRange(lo, hi int64) Value {
	return Value{data: Range{Lo: lo, Hi: hi}}
}

// FromObject creates a Value wrapping a custom host object. The object
// should implement one or more of the capability interfaces in object.go;
// otherwise templates can render it but not look into it.
func FromObject(o any) Value {
	return Value{data: o}
}

// FromAny converts arbitrary Go data into the canonical representation.
//
// Conversion rules:
//   - nil               -> Nil()
//   - bool              -> FromBool
//   - integer kinds     -> FromInt
//   - float kinds       -> FromFloat
//   - string            -> FromString
//   - slices/arrays     -> FromSlice, elements converted recursively
//   - maps              -> FromMap, values converted recursively
//   - structs           -> FromMap over exported fields (json tags honored)
//   - Converter         -> its ToValue result
//   - capability object -> FromObject
func FromAny(v any) Value {
	if v == nil {
		return Nil()
	}
	if val, ok := v.(Value); ok {
		return val
	}
	if c, ok := v.(Converter); ok {
		return c.ToValue()
	}
	if isCapabilityObject(v) {
		return FromObject(v)
	}
	return fromReflectValue(reflect.ValueOf(v))
}

func isCapabilityObject(v any) bool {
	switch v.(type) {
	case KeyedObject, SeqObject, CommandObject, ContextBinder, Lazy:
		return true
	}
	return false
}

func fromReflectValue(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Nil()
	}
	if rv.CanInterface() {
		iface := rv.Interface()
		if val, ok := iface.(Value); ok {
			return val
		}
		if c, ok := iface.(Converter); ok {
			return c.ToValue()
		}
		if isCapabilityObject(iface) {
			return FromObject(iface)
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return FromBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FromInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return FromFloat(rv.Float())
	case reflect.String:
		return FromString(rv.String())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = fromReflectValue(rv.Index(i))
		}
		return FromSlice(items)
	case reflect.Map:
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			m[key] = fromReflectValue(iter.Value())
		}
		return FromMap(m)
	case reflect.Struct:
		return fromStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Nil()
		}
		return fromReflectValue(rv.Elem())
	default:
		return FromObject(rv.Interface())
	}
}

func fromStruct(rv reflect.Value) Value {
	t := rv.Type()
	m := make(map[string]Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		m[name] = fromReflectValue(rv.Field(i))
	}
	return FromMap(m)
}

// Kind returns the kind of value.
func (v Value) Kind() Kind {
	switch v.data.(type) {
	case nilType, nil:
		return KindNil
	case bool:
		return KindBool
	case int64, float64:
		return KindNumber
	case string:
		return KindString
	case []Value:
		return KindSeq
	case map[string]Value:
		return KindMap
	case Range:
		return KindRange
	default:
		return KindObject
	}
}

// IsNil returns true if the value is nil.
func (v Value) IsNil() bool {
	if v.data == nil {
		return true
	}
	_, ok := v.data.(nilType)
	return ok
}

// IsTrue returns the truthiness of the value. Only nil and false are
// falsy; everything else, including empty containers, is truthy.
func (v Value) IsTrue() bool {
	if v.IsNil() {
		return false
	}
	if b, ok := v.data.(bool); ok {
		return b
	}
	return true
}

// AsBool returns the boolean value if it is one.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.data.(bool)
	return b, ok
}

// AsInt returns the value as an int64 if it is an integral number.
func (v Value) AsInt() (int64, bool) {
	switch d := v.data.(type) {
	case int64:
		return d, true
	case float64:
		if d == math.Trunc(d) && !math.IsInf(d, 0) {
			return int64(d), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsFloat returns the value as a float64 if it is numeric.
func (v Value) AsFloat() (float64, bool) {
	switch d := v.data.(type) {
	case int64:
		return float64(d), true
	case float64:
		return d, true
	default:
		return 0, false
	}
}

// AsString returns the string value if it is one.
func (v Value) AsString() (string, bool) {
	s, ok := v.data.(string)
	return s, ok
}

// AsSlice returns the sequence if it is one.
func (v Value) AsSlice() ([]Value, bool) {
	s, ok := v.data.([]Value)
	return s, ok
}

// AsMap returns the mapping if it is one.
func (v Value) AsMap() (map[string]Value, bool) {
	m, ok := v.data.(map[string]Value)
	return m, ok
}

// AsRange returns the range if it is one.
func (v Value) AsRange() (Range, bool) {
	r, ok := v.data.(Range)
	return r, ok
}

// Len returns the length of the value for kinds that have one.
func (v Value) Len() (int, bool) {
	switch d := v.data.(type) {
	case string:
		return len([]rune(d)), true
	case []Value:
		return len(d), true
	case map[string]Value:
		return len(d), true
	case Range:
		return d.Len(), true
	case SeqObject:
		return d.SeqLen(), true
	default:
		return 0, false
	}
}

// String returns the output rendering of the value. Nil renders empty;
// sequences render their elements concatenated, matching Liquid output.
func (v Value) String() string {
	switch d := v.data.(type) {
	case nilType, nil:
		return ""
	case bool:
		if d {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(d, 10)
	case float64:
		if math.IsInf(d, 1) {
			return "Infinity"
		}
		if math.IsInf(d, -1) {
			return "-Infinity"
		}
		if d == math.Trunc(d) && math.Abs(d) < 1e15 {
			return strconv.FormatFloat(d, 'f', 1, 64)
		}
		return strconv.FormatFloat(d, 'g', -1, 64)
	case string:
		return d
	case []Value:
		var sb strings.Builder
		for _, item := range d {
			sb.WriteString(item.String())
		}
		return sb.String()
	case Range:
		return fmt.Sprintf("%d..%d", d.Lo, d.Hi)
	case map[string]Value:
		return v.Repr()
	case fmt.Stringer:
		return d.String()
	default:
		return fmt.Sprintf("%v", d)
	}
}

// Repr returns a debug representation used in diagnostics.
func (v Value) Repr() string {
	switch d := v.data.(type) {
	case nilType, nil:
		return "nil"
	case string:
		return strconv.Quote(d)
	case []Value:
		parts := make([]string, len(d))
		for i, item := range d {
			parts[i] = item.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]Value:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, d[k].Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.String()
	}
}

// Raw returns the underlying Go value.
func (v Value) Raw() any {
	return v.data
}
