package support

import "math"

// toLogical reduces a value to its 16-bit integer representation for the
// bitwise logical operators. The bool return flags Null.
func (s *Support) toLogical(v Value) (int16, bool) {
	v = s.VAL(v)
	if v.Tag == TagNull {
		return 0, true
	}
	n := s.toIntegral(v, math.MinInt16, math.MaxInt16, "Integer")
	return int16(n), false
}

// logicalResult keeps Boolean inputs Boolean; everything else comes back as
// Integer.
func logicalResult(n int16, a, b Value) Value {
	if a.Tag == TagBool && (b.Tag == TagBool || b.Tag == TagEmpty) {
		return BoolValue(n != 0)
	}
	return Int16Value(int16(n))
}

// NOT is the bitwise complement; Null propagates.
func (s *Support) NOT(a Value) Value {
	a = s.VAL(a)
	n, isNull := s.toLogical(a)
	if isNull {
		return NullValue()
	}
	return logicalResult(^n, a, a)
}

// AND is bitwise conjunction. A Null side only survives when the other side
// could still decide the result: Null And false is false, Null And true is
// Null.
func (s *Support) AND(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	left, leftNull := s.toLogical(a)
	right, rightNull := s.toLogical(b)
	switch {
	case leftNull && rightNull:
		return NullValue()
	case leftNull:
		if right == 0 {
			return logicalResult(0, b, b)
		}
		return NullValue()
	case rightNull:
		if left == 0 {
			return logicalResult(0, a, a)
		}
		return NullValue()
	}
	return logicalResult(left&right, a, b)
}

// OR is bitwise disjunction; Null Or true is true, Null Or false is Null.
func (s *Support) OR(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	left, leftNull := s.toLogical(a)
	right, rightNull := s.toLogical(b)
	switch {
	case leftNull && rightNull:
		return NullValue()
	case leftNull:
		if right == -1 {
			return logicalResult(-1, b, b)
		}
		return NullValue()
	case rightNull:
		if left == -1 {
			return logicalResult(-1, a, a)
		}
		return NullValue()
	}
	return logicalResult(left|right, a, b)
}

// XOR is bitwise exclusive-or; Null infects.
func (s *Support) XOR(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	left, leftNull := s.toLogical(a)
	right, rightNull := s.toLogical(b)
	if leftNull || rightNull {
		return NullValue()
	}
	return logicalResult(left^right, a, b)
}

// EQV is bitwise equivalence; Null infects.
func (s *Support) EQV(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	left, leftNull := s.toLogical(a)
	right, rightNull := s.toLogical(b)
	if leftNull || rightNull {
		return NullValue()
	}
	return logicalResult(^(left ^ right), a, b)
}

// IMP is bitwise implication (^a | b). A Null side survives only where the
// known side forces the bits.
func (s *Support) IMP(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	left, leftNull := s.toLogical(a)
	right, rightNull := s.toLogical(b)
	switch {
	case leftNull && rightNull:
		return NullValue()
	case leftNull:
		if right == -1 {
			return logicalResult(-1, b, b)
		}
		return NullValue()
	case rightNull:
		if left == 0 {
			return logicalResult(-1, a, a)
		}
		return NullValue()
	}
	return logicalResult(^left|right, a, b)
}
