package support_test

import (
	"testing"
	"time"

	"github.com/Magicianred/vbscripttranslator/support"
	"github.com/stretchr/testify/assert"
)

func TestIntegerCoercionsUseBankersRounding(t *testing.T) {
	s := support.New()
	tests := []struct {
		input    float64
		expected int16
	}{
		{input: 2.5, expected: 2},
		{input: 3.5, expected: 4},
		{input: -2.5, expected: -2},
		{input: 2.4, expected: 2},
		{input: 2.6, expected: 3},
	}
	for _, tt := range tests {
		assert.Equal(t, support.Int16Value(tt.expected), s.CINT(support.DoubleValue(tt.input)), "CInt(%v)", tt.input)
	}
}

func TestCoercionConversions(t *testing.T) {
	s := support.New()
	tests := []struct {
		name     string
		actual   support.Value
		expected support.Value
	}{
		{name: "CInt parses strings", actual: s.CINT(support.StringValue("3")), expected: support.Int16Value(3)},
		{name: "CInt of Empty is zero", actual: s.CINT(support.EmptyValue()), expected: support.Int16Value(0)},
		{name: "CLng widens", actual: s.CLNG(support.DoubleValue(70000)), expected: support.Int32Value(70000)},
		{name: "CByte", actual: s.CBYTE(support.Int16Value(255)), expected: support.ByteValue(255)},
		{name: "CDbl", actual: s.CDBL(support.StringValue("1.5")), expected: support.DoubleValue(1.5)},
		{name: "CSng", actual: s.CSNG(support.Int16Value(2)), expected: support.SingleValue(2)},
		{name: "CCur", actual: s.CCUR(support.DoubleValue(1.25)), expected: support.CurrencyValue(1.25)},
		{name: "CBool of word", actual: s.CBOOL(support.StringValue("True")), expected: support.BoolValue(true)},
		{name: "CBool of numeric", actual: s.CBOOL(support.Int16Value(2)), expected: support.BoolValue(true)},
		{name: "CBool of zero", actual: s.CBOOL(support.Int16Value(0)), expected: support.BoolValue(false)},
		{name: "CBool of Empty", actual: s.CBOOL(support.EmptyValue()), expected: support.BoolValue(false)},
		{name: "CStr of boolean", actual: s.CSTR(support.BoolValue(true)), expected: support.StringValue("True")},
		{name: "CStr of integer", actual: s.CSTR(support.Int16Value(42)), expected: support.StringValue("42")},
		{name: "CStr of double", actual: s.CSTR(support.DoubleValue(1.5)), expected: support.StringValue("1.5")},
		{name: "CStr of Empty", actual: s.CSTR(support.EmptyValue()), expected: support.StringValue("")},
		{name: "CDate of Empty is the epoch", actual: s.CDATE(support.EmptyValue()), expected: support.DateValue(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}

func TestCoercionFailures(t *testing.T) {
	s := support.New()
	tests := []struct {
		name string
		kind support.ErrorKind
		fn   func()
	}{
		{name: "CInt overflow", kind: support.ErrOverflow, fn: func() { s.CINT(support.DoubleValue(40000)) }},
		{name: "CByte range", kind: support.ErrOverflow, fn: func() { s.CBYTE(support.Int16Value(-1)) }},
		{name: "CCur range", kind: support.ErrOverflow, fn: func() { s.CCUR(support.DoubleValue(1e16)) }},
		{name: "unparseable number", kind: support.ErrTypeMismatch, fn: func() { s.CINT(support.StringValue("abc")) }},
		{name: "null to integer", kind: support.ErrInvalidUseOfNull, fn: func() { s.CINT(support.NullValue()) }},
		{name: "null to string", kind: support.ErrInvalidUseOfNull, fn: func() { s.CSTR(support.NullValue()) }},
		{name: "unparseable date", kind: support.ErrTypeMismatch, fn: func() { s.CDATE(support.StringValue("not a date")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRuntimeError(t, tt.kind, tt.fn)
		})
	}
}

func TestDateEpochAndParsing(t *testing.T) {
	s := support.New()

	// Day zero of the serial representation is 1899-12-30.
	assert.Equal(t, time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC),
		support.TimeFromDate(support.DateValue(0)))

	parsed := s.CDATE(support.StringValue("2020-01-02"))
	assert.Equal(t, support.TagDate, parsed.Tag)
	assert.Equal(t, time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC),
		support.TimeFromDate(parsed))

	withTime := s.CDATE(support.StringValue("2020-01-02 03:04:05"))
	assert.Equal(t, time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC),
		support.TimeFromDate(withTime))
}

func TestValCollapsesDefaultMembers(t *testing.T) {
	s := support.New()
	obj := support.ObjectValue(&defaulted{value: support.Int16Value(7)})
	assert.Equal(t, support.Int16Value(7), s.VAL(obj))
	assert.Equal(t, support.Int16Value(7), s.NUM(obj))

	plain := support.ObjectValue(&disposableProbe{})
	expectRuntimeError(t, support.ErrTypeMismatch, func() { s.VAL(plain) })
	expectRuntimeError(t, support.ErrObjectVariableNotSet, func() { s.VAL(support.NothingValue()) })
}

type defaulted struct {
	value support.Value
}

func (d *defaulted) DefaultMember() support.Value { return d.value }

func TestObj(t *testing.T) {
	s := support.New()
	obj := support.ObjectValue(&disposableProbe{})
	assert.Equal(t, obj, s.OBJ(obj))
	assert.Equal(t, support.TagNothing, s.OBJ(support.NothingValue()).Tag)
	expectRuntimeError(t, support.ErrObjectRequired, func() { s.OBJ(support.Int16Value(1)) })
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name     string
		value    support.Value
		expected string
	}{
		{name: "integer", value: support.Int16Value(1), expected: "Integer"},
		{name: "long", value: support.Int32Value(1), expected: "Long"},
		{name: "double", value: support.DoubleValue(1), expected: "Double"},
		{name: "currency", value: support.CurrencyValue(1), expected: "Currency"},
		{name: "date", value: support.DateValue(1), expected: "Date"},
		{name: "boolean", value: support.BoolValue(true), expected: "Boolean"},
		{name: "byte", value: support.ByteValue(1), expected: "Byte"},
		{name: "string", value: support.StringValue("x"), expected: "String"},
		{name: "null", value: support.NullValue(), expected: "Null"},
		{name: "empty", value: support.EmptyValue(), expected: "Empty"},
		{name: "nothing", value: support.NothingValue(), expected: "Nothing"},
		{name: "runtime type name", value: support.ObjectValue(&disposableProbe{}), expected: "disposableProbe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, support.TypeName(tt.value))
		})
	}
}

func TestTypeNameUsesSourceClassName(t *testing.T) {
	assert.Equal(t, "Widget", support.TypeName(support.ObjectValue(&classNamed{})))
}

type classNamed struct{}

func (c *classNamed) SourceClassName() string { return "Widget" }
