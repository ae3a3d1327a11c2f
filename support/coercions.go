package support

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// VAL returns the primitive form of a value: host objects collapse to their
// default member, primitives pass through.
func (s *Support) VAL(v Value) Value {
	if v.Tag == TagNothing {
		raise(ErrObjectVariableNotSet, "Nothing has no value")
	}
	if v.Tag != TagObject {
		return v
	}
	if provider, ok := v.Obj.(DefaultMemberProvider); ok {
		return provider.DefaultMember()
	}
	raise(ErrTypeMismatch, "object %s has no default member", TypeName(v))
	return Value{}
}

// OBJ asserts that a value is an object reference.
func (s *Support) OBJ(v Value) Value {
	if !v.IsObjectTag() {
		raise(ErrObjectRequired, "expected an object, got %s", TypeName(v))
	}
	return v
}

// NUM returns the numeric form of a value, defaulting Empty to zero.
func (s *Support) NUM(v Value) Value {
	v = s.VAL(v)
	if v.IsNumericTag() || v.Tag == TagDate {
		return v
	}
	n, isNull := s.toDouble(v)
	if isNull {
		raise(ErrInvalidUseOfNull, "Null is not numeric")
	}
	return DoubleValue(n)
}

// STR converts a value to its string form (CStr semantics).
func (s *Support) STR(v Value) Value {
	return s.CSTR(v)
}

// toDouble reduces a primitive to a float64. The second return flags a Null
// operand; conversion failures raise.
func (s *Support) toDouble(v Value) (float64, bool) {
	v = s.VAL(v)
	switch v.Tag {
	case TagNull:
		return 0, true
	case TagEmpty:
		return 0, false
	case TagBool, TagByte, TagInt16, TagInt32, TagSingle, TagDouble, TagCurrency, TagDate:
		return v.Num, false
	case TagString:
		return parseNumericString(v.Str), false
	}
	raise(ErrTypeMismatch, "%s is not numeric", TypeName(v))
	return 0, false
}

func parseNumericString(str string) float64 {
	trimmed := strings.TrimSpace(str)
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		raise(ErrTypeMismatch, "%q is not numeric", str)
	}
	return n
}

// toString reduces a primitive to its display string; Null raises.
func (s *Support) toString(v Value) string {
	v = s.VAL(v)
	switch v.Tag {
	case TagEmpty:
		return ""
	case TagNull:
		raise(ErrInvalidUseOfNull, "Null has no string form")
	case TagBool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case TagByte, TagInt16, TagInt32, TagSingle, TagDouble, TagCurrency:
		return formatNumber(v.Num)
	case TagDate:
		return formatDate(v)
	case TagString:
		return v.Str
	}
	raise(ErrTypeMismatch, "%s has no string form", TypeName(v))
	return ""
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'G', -1, 64)
}

func formatDate(v Value) string {
	t := TimeFromDate(v)
	if v.Num == math.Trunc(v.Num) {
		return t.Format("02/01/2006")
	}
	if v.Num < 1 && v.Num >= 0 {
		return t.Format("15:04:05")
	}
	return t.Format("02/01/2006 15:04:05")
}

// roundHalfEven applies banker's rounding, as the integer coercions do.
func roundHalfEven(n float64) float64 {
	floor := math.Floor(n)
	diff := n - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	case math.Mod(floor, 2) == 0:
		return floor
	}
	return floor + 1
}

func (s *Support) toIntegral(v Value, min, max float64, kindName string) float64 {
	n, isNull := s.toDouble(v)
	if isNull {
		raise(ErrInvalidUseOfNull, "Null cannot convert to %s", kindName)
	}
	rounded := roundHalfEven(n)
	if rounded < min || rounded > max {
		raise(ErrOverflow, "%v does not fit in %s", n, kindName)
	}
	return rounded
}

// CBYTE converts to Byte.
func (s *Support) CBYTE(v Value) Value {
	return ByteValue(uint8(s.toIntegral(v, 0, 255, "Byte")))
}

// CINT converts to Integer.
func (s *Support) CINT(v Value) Value {
	return Int16Value(int16(s.toIntegral(v, math.MinInt16, math.MaxInt16, "Integer")))
}

// CLNG converts to Long.
func (s *Support) CLNG(v Value) Value {
	return Int32Value(int32(s.toIntegral(v, math.MinInt32, math.MaxInt32, "Long")))
}

// CSNG converts to Single.
func (s *Support) CSNG(v Value) Value {
	n, isNull := s.toDouble(v)
	if isNull {
		raise(ErrInvalidUseOfNull, "Null cannot convert to Single")
	}
	if math.Abs(n) > math.MaxFloat32 {
		raise(ErrOverflow, "%v does not fit in Single", n)
	}
	return SingleValue(float32(n))
}

// CDBL converts to Double.
func (s *Support) CDBL(v Value) Value {
	n, isNull := s.toDouble(v)
	if isNull {
		raise(ErrInvalidUseOfNull, "Null cannot convert to Double")
	}
	return DoubleValue(n)
}

// CCUR converts to Currency.
func (s *Support) CCUR(v Value) Value {
	n, isNull := s.toDouble(v)
	if isNull {
		raise(ErrInvalidUseOfNull, "Null cannot convert to Currency")
	}
	if math.Abs(n) > MaxCurrency {
		raise(ErrOverflow, "%v does not fit in Currency", n)
	}
	return CurrencyValue(n)
}

// CBOOL converts to Boolean. Strings accept True/False words and numeric
// forms.
func (s *Support) CBOOL(v Value) Value {
	v = s.VAL(v)
	switch v.Tag {
	case TagNull:
		raise(ErrInvalidUseOfNull, "Null cannot convert to Boolean")
	case TagEmpty:
		return BoolValue(false)
	case TagBool:
		return v
	case TagString:
		if strings.EqualFold(v.Str, "true") {
			return BoolValue(true)
		}
		if strings.EqualFold(v.Str, "false") {
			return BoolValue(false)
		}
		return BoolValue(parseNumericString(v.Str) != 0)
	}
	if v.IsNumericTag() || v.Tag == TagDate {
		return BoolValue(v.Num != 0)
	}
	raise(ErrTypeMismatch, "%s cannot convert to Boolean", TypeName(v))
	return Value{}
}

// dateLayouts are tried in order when parsing date strings; the locale is
// invariant unless the host configures otherwise.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"15:04:05",
}

// CDATE converts to Date. Empty maps to the epoch.
func (s *Support) CDATE(v Value) Value {
	v = s.VAL(v)
	switch v.Tag {
	case TagNull:
		raise(ErrInvalidUseOfNull, "Null cannot convert to Date")
	case TagEmpty:
		return DateValue(0)
	case TagDate:
		return v
	case TagString:
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, strings.TrimSpace(v.Str), time.UTC); err == nil {
				if layout == "15:04:05" {
					t = dateEpoch.Add(time.Duration(t.Hour())*time.Hour +
						time.Duration(t.Minute())*time.Minute +
						time.Duration(t.Second())*time.Second)
				}
				return DateFromTime(t)
			}
		}
		raise(ErrTypeMismatch, "%q is not a date", v.Str)
	}
	if v.IsNumericTag() {
		return DateValue(v.Num)
	}
	raise(ErrTypeMismatch, "%s cannot convert to Date", TypeName(v))
	return Value{}
}

// CSTR converts to String.
func (s *Support) CSTR(v Value) Value {
	return StringValue(s.toString(v))
}
