package support

import (
	"math"
	"strings"
	"time"
)

// The built-in library used by emitted code. Functions with optional
// parameters are variadic; argument counts are validated at run time.

func requireArgs(name string, args []Value, minCount, maxCount int) {
	if len(args) < minCount || len(args) > maxCount {
		raise(ErrTypeMismatch, "wrong number of arguments to %s", name)
	}
}

// nullIn reports whether any argument is Null, for the builtins that
// propagate Null.
func (s *Support) nullIn(args []Value) bool {
	for _, a := range args {
		if s.VAL(a).Tag == TagNull {
			return true
		}
	}
	return false
}

// LEN returns the character count of the string form of its argument.
func (s *Support) LEN(args ...Value) Value {
	requireArgs("Len", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return Int32Value(int32(len([]rune(s.toString(args[0])))))
}

// MID extracts a substring from a one-based start position with an optional
// length.
func (s *Support) MID(args ...Value) Value {
	requireArgs("Mid", args, 2, 3)
	if s.nullIn(args) {
		return NullValue()
	}
	runes := []rune(s.toString(args[0]))
	start := int(s.toIntegral(args[1], 1, math.MaxInt32, "Long")) - 1
	if start >= len(runes) {
		return StringValue("")
	}
	rest := runes[start:]
	if len(args) == 3 {
		length := int(s.toIntegral(args[2], 0, math.MaxInt32, "Long"))
		if length < len(rest) {
			rest = rest[:length]
		}
	}
	return StringValue(string(rest))
}

// LEFT returns the leading characters of a string.
func (s *Support) LEFT(args ...Value) Value {
	requireArgs("Left", args, 2, 2)
	if s.nullIn(args) {
		return NullValue()
	}
	runes := []rune(s.toString(args[0]))
	length := int(s.toIntegral(args[1], 0, math.MaxInt32, "Long"))
	if length > len(runes) {
		length = len(runes)
	}
	return StringValue(string(runes[:length]))
}

// RIGHT returns the trailing characters of a string.
func (s *Support) RIGHT(args ...Value) Value {
	requireArgs("Right", args, 2, 2)
	if s.nullIn(args) {
		return NullValue()
	}
	runes := []rune(s.toString(args[0]))
	length := int(s.toIntegral(args[1], 0, math.MaxInt32, "Long"))
	if length > len(runes) {
		length = len(runes)
	}
	return StringValue(string(runes[len(runes)-length:]))
}

// TRIM removes leading and trailing spaces.
func (s *Support) TRIM(args ...Value) Value {
	requireArgs("Trim", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.Trim(s.toString(args[0]), " "))
}

// LTRIM removes leading spaces.
func (s *Support) LTRIM(args ...Value) Value {
	requireArgs("LTrim", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.TrimLeft(s.toString(args[0]), " "))
}

// RTRIM removes trailing spaces.
func (s *Support) RTRIM(args ...Value) Value {
	requireArgs("RTrim", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.TrimRight(s.toString(args[0]), " "))
}

// UCASE upper-cases a string.
func (s *Support) UCASE(args ...Value) Value {
	requireArgs("UCase", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.ToUpper(s.toString(args[0])))
}

// LCASE lower-cases a string.
func (s *Support) LCASE(args ...Value) Value {
	requireArgs("LCase", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.ToLower(s.toString(args[0])))
}

// STRCOMP orders two strings: -1, 0 or 1, with an optional explicit mode
// overriding the facade default.
func (s *Support) STRCOMP(args ...Value) Value {
	requireArgs("StrComp", args, 2, 3)
	if s.nullIn(args) {
		return NullValue()
	}
	mode := s.compareMode
	if len(args) == 3 {
		mode = int(s.toIntegral(args[2], 0, 1, "Integer"))
	}
	return Int16Value(int16(s.compareStrings(s.toString(args[0]), s.toString(args[1]), mode)))
}

// INSTR finds a substring, one-based; 0 when absent. The optional leading
// argument is the start position.
func (s *Support) INSTR(args ...Value) Value {
	requireArgs("InStr", args, 2, 3)
	if s.nullIn(args) {
		return NullValue()
	}
	start := 1
	if len(args) == 3 {
		start = int(s.toIntegral(args[0], 1, math.MaxInt32, "Long"))
		args = args[1:]
	}
	haystack := []rune(s.toString(args[0]))
	needle := s.toString(args[1])
	if start > len(haystack)+1 {
		return Int32Value(0)
	}
	idx := strings.Index(string(haystack[start-1:]), needle)
	if idx < 0 {
		return Int32Value(0)
	}
	return Int32Value(int32(start + len([]rune(string(haystack[start-1:])[:idx]))))
}

// INSTRREV finds the last occurrence of a substring, one-based.
func (s *Support) INSTRREV(args ...Value) Value {
	requireArgs("InStrRev", args, 2, 2)
	if s.nullIn(args) {
		return NullValue()
	}
	haystack := s.toString(args[0])
	needle := s.toString(args[1])
	idx := strings.LastIndex(haystack, needle)
	if idx < 0 {
		return Int32Value(0)
	}
	return Int32Value(int32(len([]rune(haystack[:idx])) + 1))
}

// REPLACE substitutes every occurrence of a substring.
func (s *Support) REPLACE(args ...Value) Value {
	requireArgs("Replace", args, 3, 3)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.ReplaceAll(s.toString(args[0]), s.toString(args[1]), s.toString(args[2])))
}

// SPACE builds a string of spaces.
func (s *Support) SPACE(args ...Value) Value {
	requireArgs("Space", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(strings.Repeat(" ", int(s.toIntegral(args[0], 0, math.MaxInt32, "Long"))))
}

// STRING repeats the first character of its second argument.
func (s *Support) STRING(args ...Value) Value {
	requireArgs("String", args, 2, 2)
	if s.nullIn(args) {
		return NullValue()
	}
	count := int(s.toIntegral(args[0], 0, math.MaxInt32, "Long"))
	chars := []rune(s.toString(args[1]))
	if len(chars) == 0 {
		raise(ErrTypeMismatch, "String requires a character")
	}
	return StringValue(strings.Repeat(string(chars[0]), count))
}

// CHR maps a character code to a one-character string.
func (s *Support) CHR(args ...Value) Value {
	requireArgs("Chr", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	return StringValue(string(rune(int(s.toIntegral(args[0], 0, math.MaxInt32, "Long")))))
}

// ASC maps the first character of a string to its code.
func (s *Support) ASC(args ...Value) Value {
	requireArgs("Asc", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	runes := []rune(s.toString(args[0]))
	if len(runes) == 0 {
		raise(ErrTypeMismatch, "Asc requires a non-empty string")
	}
	return Int32Value(int32(runes[0]))
}

// ABS returns the magnitude, preserving the numeric type.
func (s *Support) ABS(args ...Value) Value {
	requireArgs("Abs", args, 1, 1)
	v := s.VAL(args[0])
	if v.Tag == TagNull {
		return NullValue()
	}
	n, _ := s.toDouble(v)
	return arithmeticResult(math.Abs(n), v, v)
}

// SGN returns the sign as an Integer.
func (s *Support) SGN(args ...Value) Value {
	requireArgs("Sgn", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	n, _ := s.toDouble(args[0])
	switch {
	case n > 0:
		return Int16Value(1)
	case n < 0:
		return Int16Value(-1)
	}
	return Int16Value(0)
}

// INT floors toward negative infinity.
func (s *Support) INT(args ...Value) Value {
	requireArgs("Int", args, 1, 1)
	v := s.VAL(args[0])
	if v.Tag == TagNull {
		return NullValue()
	}
	n, _ := s.toDouble(v)
	return arithmeticResult(math.Floor(n), v, v)
}

// FIX truncates toward zero.
func (s *Support) FIX(args ...Value) Value {
	requireArgs("Fix", args, 1, 1)
	v := s.VAL(args[0])
	if v.Tag == TagNull {
		return NullValue()
	}
	n, _ := s.toDouble(v)
	return arithmeticResult(math.Trunc(n), v, v)
}

// SQR is the square root.
func (s *Support) SQR(args ...Value) Value {
	requireArgs("Sqr", args, 1, 1)
	if s.nullIn(args) {
		return NullValue()
	}
	n, _ := s.toDouble(args[0])
	if n < 0 {
		raise(ErrTypeMismatch, "Sqr of a negative number")
	}
	return DoubleValue(math.Sqrt(n))
}

// RND returns the next pseudo-random Single in [0, 1).
func (s *Support) RND(args ...Value) Value {
	requireArgs("Rnd", args, 0, 1)
	return SingleValue(s.rng.Float32())
}

// RANDOMIZE reseeds the generator.
func (s *Support) RANDOMIZE(args ...Value) Value {
	requireArgs("Randomize", args, 0, 1)
	seed := time.Now().UnixNano()
	if len(args) == 1 {
		n, _ := s.toDouble(args[0])
		seed = int64(n)
	}
	s.rng.Seed(seed)
	return EmptyValue()
}

// NOW is the current date and time.
func (s *Support) NOW(args ...Value) Value {
	requireArgs("Now", args, 0, 0)
	return DateFromTime(time.Now().UTC())
}

// DATE is the current date with no time part.
func (s *Support) DATE(args ...Value) Value {
	requireArgs("Date", args, 0, 0)
	return DateValue(math.Floor(s.NOW().Num))
}

// TIME is the current time with no date part.
func (s *Support) TIME(args ...Value) Value {
	requireArgs("Time", args, 0, 0)
	now := s.NOW().Num
	return DateValue(now - math.Floor(now))
}

// ISNULL reports whether the argument is Null.
func (s *Support) ISNULL(args ...Value) Value {
	requireArgs("IsNull", args, 1, 1)
	return BoolValue(args[0].Tag == TagNull)
}

// ISEMPTY reports whether the argument is the unassigned default.
func (s *Support) ISEMPTY(args ...Value) Value {
	requireArgs("IsEmpty", args, 1, 1)
	return BoolValue(args[0].Tag == TagEmpty)
}

// ISOBJECT reports whether the argument is an object reference.
func (s *Support) ISOBJECT(args ...Value) Value {
	requireArgs("IsObject", args, 1, 1)
	return BoolValue(args[0].IsObjectTag())
}

// ISARRAY reports whether the argument is an array.
func (s *Support) ISARRAY(args ...Value) Value {
	requireArgs("IsArray", args, 1, 1)
	return BoolValue(args[0].Tag == TagArray)
}

// ISNUMERIC reports whether the argument converts cleanly to a number.
func (s *Support) ISNUMERIC(args ...Value) Value {
	requireArgs("IsNumeric", args, 1, 1)
	v := s.VAL(args[0])
	if v.IsNumericTag() || v.Tag == TagBool || v.Tag == TagEmpty {
		return BoolValue(true)
	}
	if v.Tag != TagString {
		return BoolValue(false)
	}
	ok := true
	func() {
		defer func() {
			if recover() != nil {
				ok = false
			}
		}()
		parseNumericString(v.Str)
	}()
	return BoolValue(ok)
}

// ISDATE reports whether the argument is (or parses as) a date.
func (s *Support) ISDATE(args ...Value) Value {
	requireArgs("IsDate", args, 1, 1)
	v := s.VAL(args[0])
	if v.Tag == TagDate {
		return BoolValue(true)
	}
	if v.Tag != TagString {
		return BoolValue(false)
	}
	ok := true
	func() {
		defer func() {
			if recover() != nil {
				ok = false
			}
		}()
		s.CDATE(v)
	}()
	return BoolValue(ok)
}

// TYPENAME reports the source-language style type name.
func (s *Support) TYPENAME(args ...Value) Value {
	requireArgs("TypeName", args, 1, 1)
	return StringValue(TypeName(args[0]))
}

// ARRAY builds a one-dimensional array from its arguments.
func (s *Support) ARRAY(args ...Value) Value {
	if len(args) == 0 {
		return Value{Tag: TagArray, Obj: &Array{Bounds: []int{-1}}}
	}
	arr := newArray([]int{len(args) - 1})
	copy(arr.Elems, args)
	return Value{Tag: TagArray, Obj: arr}
}

// UBOUND is the inclusive upper bound of an array dimension (one-based
// dimension argument, defaulting to the first).
func (s *Support) UBOUND(args ...Value) Value {
	requireArgs("UBound", args, 1, 2)
	if args[0].Tag != TagArray {
		raise(ErrTypeMismatch, "UBound requires an array")
	}
	dim := 1
	if len(args) == 2 {
		dim = int(s.toIntegral(args[1], 1, math.MaxInt32, "Long"))
	}
	bounds := args[0].Obj.(*Array).Bounds
	if dim > len(bounds) {
		raise(ErrOutOfRange, "array has no dimension %d", dim)
	}
	return Int32Value(int32(bounds[dim-1]))
}

// LBOUND is always zero for source-language arrays.
func (s *Support) LBOUND(args ...Value) Value {
	requireArgs("LBound", args, 1, 2)
	if args[0].Tag != TagArray {
		raise(ErrTypeMismatch, "LBound requires an array")
	}
	return Int32Value(0)
}

// CREATEOBJECT instantiates a registered host object.
func (s *Support) CREATEOBJECT(args ...Value) Value {
	requireArgs("CreateObject", args, 1, 1)
	progID := s.toString(args[0])
	factory, ok := s.factories[foldName(progID)]
	if !ok {
		raise(ErrTypeMismatch, "no registered object %q", progID)
	}
	return s.NEW(factory())
}

// errObject exposes the trapped-error slot as the Err object.
type errObject struct {
	support *Support
}

func (e *errObject) SourceClassName() string { return "ErrObject" }

func (e *errObject) DefaultMember() Value {
	return e.InvokeMember("number", nil)
}

func (e *errObject) InvokeMember(name string, args []Value) Value {
	trapped := e.support.TrappedError()
	switch name {
	case "number":
		if trapped == nil {
			return Int32Value(0)
		}
		if trapped.Number != 0 {
			return Int32Value(int32(trapped.Number))
		}
		return Int32Value(int32(trapped.Kind) + 1)
	case "description":
		if trapped == nil {
			return StringValue("")
		}
		return StringValue(trapped.Error())
	case "clear":
		e.support.CLEARANYERROR()
		return EmptyValue()
	case "raise":
		if len(args) == 0 {
			raise(ErrTypeMismatch, "Err.Raise requires a number")
		}
		e.support.RAISEERROR(args[0], args[1:]...)
	}
	raise(ErrTypeMismatch, "Err does not support member %q", name)
	return Value{}
}

// ERR returns the per-request Err object.
func (s *Support) ERR(args ...Value) Value {
	requireArgs("Err", args, 0, 0)
	return ObjectValue(&errObject{support: s})
}

// VARTYPE returns the numeric type code of a value.
func (s *Support) VARTYPE(args ...Value) Value {
	requireArgs("VarType", args, 1, 1)
	codes := map[ValueTag]int16{
		TagEmpty: 0, TagNull: 1, TagInt16: 2, TagInt32: 3, TagSingle: 4,
		TagDouble: 5, TagCurrency: 6, TagDate: 7, TagString: 8,
		TagObject: 9, TagBool: 11, TagByte: 17,
	}
	if code, ok := codes[args[0].Tag]; ok {
		return Int16Value(code)
	}
	if args[0].Tag == TagArray {
		return Int16Value(8204)
	}
	return Int16Value(9)
}
