package value

import "strings"

// Equal returns true if two values are equal.
//
// Numbers compare across int/float representation, everything else only
// within its own kind. There is no bool/number coercion: true != 1. Host
// objects never compare equal, not even to themselves.
func (v Value) Equal(other Value) bool {
	if v.IsNil() || other.IsNil() {
		return v.IsNil() && other.IsNil()
	}

	if b1, ok := v.AsBool(); ok {
		b2, ok := other.AsBool()
		return ok && b1 == b2
	}
	if _, ok := other.AsBool(); ok {
		return false
	}

	if f1, ok := v.AsFloat(); ok {
		f2, ok := other.AsFloat()
		return ok && f1 == f2
	}

	if s1, ok := v.AsString(); ok {
		s2, ok := other.AsString()
		return ok && s1 == s2
	}

	if seq1, ok := v.AsSlice(); ok {
		seq2, ok := other.AsSlice()
		if !ok || len(seq1) != len(seq2) {
			return false
		}
		for i := range seq1 {
			if !seq1[i].Equal(seq2[i]) {
				return false
			}
		}
		return true
	}

	if m1, ok := v.AsMap(); ok {
		m2, ok := other.AsMap()
		if !ok || len(m1) != len(m2) {
			return false
		}
		for k, val1 := range m1 {
			val2, exists := m2[k]
			if !exists || !val1.Equal(val2) {
				return false
			}
		}
		return true
	}

	if r1, ok := v.AsRange(); ok {
		r2, ok := other.AsRange()
		return ok && r1 == r2
	}

	// Only host objects remain. Their backing Go types may be slice- or
	// map-based and a == on those panics.
	return false
}

// Compare returns -1, 0 or 1 when the two values are mutually ordered and
// false when they are not. Only numbers order against numbers and strings
// against strings; everything else is unordered and relational operators
// on it fail with a type error upstream.
func (v Value) Compare(other Value) (int, bool) {
	if f1, ok := v.AsFloat(); ok {
		f2, ok := other.AsFloat()
		if !ok {
			return 0, false
		}
		switch {
		case f1 < f2:
			return -1, true
		case f1 > f2:
			return 1, true
		default:
			return 0, true
		}
	}

	if s1, ok := v.AsString(); ok {
		s2, ok := other.AsString()
		if !ok {
			return 0, false
		}
		return strings.Compare(s1, s2), true
	}

	return 0, false
}

// Contains implements the textual containment operator. Strings contain
// substrings, sequences contain equal elements, maps contain keys, ranges
// contain numbers within their bounds. Nil is contained in nothing and
// contains nothing.
func (v Value) Contains(other Value) bool {
	if other.IsNil() {
		return false
	}
	switch d := v.data.(type) {
	case string:
		// Non-string needles compare by their rendered form, so
		// "room 101" contains 101.
		return strings.Contains(d, other.String())
	case []Value:
		for _, item := range d {
			if item.Equal(other) {
				return true
			}
		}
		return false
	case map[string]Value:
		s, ok := other.AsString()
		if !ok {
			return false
		}
		_, exists := d[s]
		return exists
	case Range:
		f, ok := other.AsFloat()
		if !ok {
			return false
		}
		return f >= float64(d.Lo) && f <= float64(d.Hi)
	default:
		return false
	}
}
