package support

import "strings"

// triState is the internal result of the equality helper.
type triState int

const (
	triFalse triState = iota
	triTrue
	triNull
)

func (t triState) value() Value {
	if t == triNull {
		return NullValue()
	}
	return BoolValue(t == triTrue)
}

// eq is the tri-state equality helper behind EQ, NOTEQ and the ordering
// operators.
func (s *Support) eq(a, b Value) triState {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return triNull
	}
	if a.Tag == TagEmpty && b.Tag == TagEmpty {
		return triTrue
	}
	if a.Tag == TagEmpty || b.Tag == TagEmpty {
		other := a
		if a.Tag == TagEmpty {
			other = b
		}
		return boolTri(isDefaultValue(other))
	}
	if a.Tag == TagBool && b.Tag == TagBool {
		return boolTri(a.Bool() == b.Bool())
	}
	if a.Tag == TagBool && b.IsNumericTag() {
		return boolTri(a.Num == b.Num)
	}
	if b.Tag == TagBool && a.IsNumericTag() {
		return boolTri(a.Num == b.Num)
	}
	if a.IsNumericTag() && b.IsNumericTag() {
		return boolTri(a.Num == b.Num)
	}
	if a.Tag == TagString && b.Tag == TagString {
		return boolTri(s.compareStrings(a.Str, b.Str, s.compareMode) == 0)
	}
	if a.Tag == TagDate && b.Tag == TagDate {
		return boolTri(a.Num == b.Num)
	}
	if (a.IsNumericTag() && (b.Tag == TagString || b.Tag == TagDate)) ||
		(b.IsNumericTag() && (a.Tag == TagString || a.Tag == TagDate)) {
		return triFalse
	}
	raise(ErrUnsupportedComparison, "cannot compare %s with %s", TypeName(a), TypeName(b))
	return triFalse
}

func boolTri(b bool) triState {
	if b {
		return triTrue
	}
	return triFalse
}

// isDefaultValue reports whether a primitive is its type's default (numeric
// zero, empty string or false), which Empty compares equal to.
func isDefaultValue(v Value) bool {
	switch {
	case v.Tag == TagString:
		return v.Str == ""
	case v.Tag == TagBool:
		return !v.Bool()
	case v.IsNumericTag():
		return v.Num == 0
	}
	return false
}

// EQ is the source language's equality operator: Boolean-valued with a Null
// sentinel.
func (s *Support) EQ(a, b Value) Value {
	return s.eq(a, b).value()
}

// NOTEQ is EQ's logical complement; Null stays Null.
func (s *Support) NOTEQ(a, b Value) Value {
	switch s.eq(a, b) {
	case triNull:
		return NullValue()
	case triTrue:
		return BoolValue(false)
	}
	return BoolValue(true)
}

// compare orders two primitives: -1, 0 or 1. The bool return flags a Null
// operand.
func (s *Support) compare(a, b Value) (int, bool) {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return 0, true
	}
	if s.eq(a, b) == triTrue {
		return 0, false
	}
	if a.Tag == TagString && b.Tag == TagString {
		return s.compareStrings(a.Str, b.Str, s.compareMode), false
	}
	// Any non-empty string outranks any non-string; an empty string
	// collapses to numeric zero.
	if a.Tag == TagString && b.Tag != TagString {
		if a.Str != "" {
			return 1, false
		}
		a = Int16Value(0)
	}
	if b.Tag == TagString && a.Tag != TagString {
		if b.Str != "" {
			return -1, false
		}
		b = Int16Value(0)
	}
	left, _ := s.toDouble(a)
	right, _ := s.toDouble(b)
	switch {
	case left < right:
		return -1, false
	case left > right:
		return 1, false
	}
	return 0, false
}

// LT is the strict less-than operator.
func (s *Support) LT(a, b Value) Value {
	return s.ordered(a, b, -1, false)
}

// LTE allows equality.
func (s *Support) LTE(a, b Value) Value {
	return s.ordered(a, b, -1, true)
}

// GT is the strict greater-than operator.
func (s *Support) GT(a, b Value) Value {
	return s.ordered(a, b, 1, false)
}

// GTE allows equality.
func (s *Support) GTE(a, b Value) Value {
	return s.ordered(a, b, 1, true)
}

func (s *Support) ordered(a, b Value, want int, allowEquals bool) Value {
	cmp, isNull := s.compare(a, b)
	if isNull {
		return NullValue()
	}
	if cmp == 0 {
		return BoolValue(allowEquals)
	}
	return BoolValue(cmp == want)
}

// IS compares object references for identity. Both sides must be object
// references.
func (s *Support) IS(a, b Value) Value {
	if !a.IsObjectTag() || !b.IsObjectTag() {
		raise(ErrObjectRequired, "Is requires object references")
	}
	if a.Tag == TagNothing || b.Tag == TagNothing {
		return BoolValue(a.Tag == TagNothing && b.Tag == TagNothing)
	}
	return BoolValue(a.Obj == b.Obj)
}

// compareStrings orders two strings in the given mode (binary or text).
func (s *Support) compareStrings(a, b string, mode int) int {
	if mode == CompareText {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	return strings.Compare(a, b)
}
