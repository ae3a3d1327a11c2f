package support

import "math"

// numericRank orders the integer widening ladder used by ADD and its
// siblings.
func numericRank(tag ValueTag) int {
	switch tag {
	case TagByte:
		return 1
	case TagBool, TagInt16:
		return 2
	case TagInt32:
		return 3
	}
	return 0
}

// narrowestIntegerValue picks the smallest integer type at or above the rank
// that can contain the result, widening to Double when the integer ladder is
// exhausted.
func narrowestIntegerValue(n float64, rank int) Value {
	if rank <= 1 && n >= 0 && n <= 255 {
		return ByteValue(uint8(n))
	}
	if rank <= 2 && n >= math.MinInt16 && n <= math.MaxInt16 {
		return Int16Value(int16(n))
	}
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int32Value(int32(n))
	}
	return DoubleValue(n)
}

// arithmeticResult widens a raw result to the common type of the operands,
// widening further when the chosen type cannot contain it.
func arithmeticResult(n float64, a, b Value) Value {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		raise(ErrOverflow, "arithmetic overflow")
	}
	if a.Tag == TagDate || b.Tag == TagDate {
		return DateValue(n)
	}
	if a.Tag == TagCurrency || b.Tag == TagCurrency {
		if a.Tag == TagSingle || a.Tag == TagDouble || b.Tag == TagSingle || b.Tag == TagDouble {
			return DoubleValue(n)
		}
		if math.Abs(n) > MaxCurrency {
			raise(ErrOverflow, "%v does not fit in Currency", n)
		}
		return CurrencyValue(n)
	}
	if a.Tag == TagDouble || b.Tag == TagDouble || a.Tag == TagString || b.Tag == TagString {
		return DoubleValue(n)
	}
	if a.Tag == TagSingle || b.Tag == TagSingle {
		if math.Abs(n) > math.MaxFloat32 {
			return DoubleValue(n)
		}
		return SingleValue(float32(n))
	}
	if n == math.Trunc(n) {
		rank := numericRank(a.Tag)
		if r := numericRank(b.Tag); r > rank {
			rank = r
		}
		return narrowestIntegerValue(n, rank)
	}
	return DoubleValue(n)
}

// ADD implements the addition coercion ladder: Null propagates, Empty is the
// identity, string pairs concatenate, dates shift by days and numerics widen
// to the narrowest containing type.
func (s *Support) ADD(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return NullValue()
	}
	if a.Tag == TagEmpty && b.Tag == TagEmpty {
		return Int16Value(0)
	}
	if a.Tag == TagEmpty {
		return b
	}
	if b.Tag == TagEmpty {
		return a
	}
	if a.Tag == TagString && b.Tag == TagString {
		return StringValue(a.Str + b.Str)
	}
	left, _ := s.toDouble(a)
	right, _ := s.toDouble(b)
	return arithmeticResult(left+right, a, b)
}

// SUBT with one operand negates it; with two it subtracts.
func (s *Support) SUBT(a Value, b ...Value) Value {
	if len(b) == 0 {
		a = s.VAL(a)
		if a.Tag == TagNull {
			return NullValue()
		}
		n, _ := s.toDouble(a)
		return arithmeticResult(-n, a, a)
	}
	a, other := s.VAL(a), s.VAL(b[0])
	if a.Tag == TagNull || other.Tag == TagNull {
		return NullValue()
	}
	left, _ := s.toDouble(a)
	right, _ := s.toDouble(other)
	return arithmeticResult(left-right, a, other)
}

// MULT multiplies.
func (s *Support) MULT(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return NullValue()
	}
	left, _ := s.toDouble(a)
	right, _ := s.toDouble(b)
	return arithmeticResult(left*right, a, b)
}

// DIV always divides in floating point.
func (s *Support) DIV(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return NullValue()
	}
	left, _ := s.toDouble(a)
	right, _ := s.toDouble(b)
	if right == 0 {
		raise(ErrDivisionByZero, "division by zero")
	}
	return DoubleValue(left / right)
}

// INTDIV divides after rounding both operands to integers, truncating the
// quotient toward zero.
func (s *Support) INTDIV(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return NullValue()
	}
	left := int64(s.toIntegral(a, math.MinInt32, math.MaxInt32, "Long"))
	right := int64(s.toIntegral(b, math.MinInt32, math.MaxInt32, "Long"))
	if right == 0 {
		raise(ErrDivisionByZero, "integer division by zero")
	}
	return narrowestIntegerValue(float64(left/right), 2)
}

// MOD applies the integer modulo, keeping the dividend's sign.
func (s *Support) MOD(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return NullValue()
	}
	left := int64(s.toIntegral(a, math.MinInt32, math.MaxInt32, "Long"))
	right := int64(s.toIntegral(b, math.MinInt32, math.MaxInt32, "Long"))
	if right == 0 {
		raise(ErrDivisionByZero, "modulo by zero")
	}
	return narrowestIntegerValue(float64(left%right), 2)
}

// POW raises to a power, always in Double.
func (s *Support) POW(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull || b.Tag == TagNull {
		return NullValue()
	}
	left, _ := s.toDouble(a)
	right, _ := s.toDouble(b)
	result := math.Pow(left, right)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		raise(ErrOverflow, "arithmetic overflow")
	}
	return DoubleValue(result)
}

// CONCAT joins the string forms of both sides. A single Null contributes an
// empty string; two Nulls stay Null.
func (s *Support) CONCAT(a, b Value) Value {
	a, b = s.VAL(a), s.VAL(b)
	if a.Tag == TagNull && b.Tag == TagNull {
		return NullValue()
	}
	return StringValue(s.concatSide(a) + s.concatSide(b))
}

func (s *Support) concatSide(v Value) string {
	if v.Tag == TagNull || v.Tag == TagEmpty {
		return ""
	}
	return s.toString(v)
}
