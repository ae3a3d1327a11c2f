package support_test

import (
	"fmt"
	"testing"

	"github.com/Magicianred/vbscripttranslator/support"
	"github.com/stretchr/testify/assert"
)

func TestEq(t *testing.T) {
	s := support.New()
	tests := []struct {
		name     string
		a, b     support.Value
		expected support.Value
	}{
		{name: "empty equals zero", a: support.EmptyValue(), b: support.Int16Value(0), expected: support.BoolValue(true)},
		{name: "empty equals empty string", a: support.EmptyValue(), b: support.StringValue(""), expected: support.BoolValue(true)},
		{name: "empty equals false", a: support.EmptyValue(), b: support.BoolValue(false), expected: support.BoolValue(true)},
		{name: "empty does not equal one", a: support.EmptyValue(), b: support.Int16Value(1), expected: support.BoolValue(false)},
		{name: "null infects", a: support.NullValue(), b: support.Int16Value(0), expected: support.NullValue()},
		{name: "true equals minus one", a: support.BoolValue(true), b: support.Int16Value(-1), expected: support.BoolValue(true)},
		{name: "true does not equal one", a: support.BoolValue(true), b: support.Int16Value(1), expected: support.BoolValue(false)},
		{name: "false equals zero", a: support.BoolValue(false), b: support.Int16Value(0), expected: support.BoolValue(true)},
		{name: "numerics compare as doubles", a: support.Int16Value(1), b: support.DoubleValue(1), expected: support.BoolValue(true)},
		{name: "strings compare ordinally", a: support.StringValue("a"), b: support.StringValue("A"), expected: support.BoolValue(false)},
		{name: "equal strings", a: support.StringValue("a"), b: support.StringValue("a"), expected: support.BoolValue(true)},
		{name: "number and string do not match", a: support.Int16Value(1), b: support.StringValue("1"), expected: support.BoolValue(false)},
		{name: "dates compare by value", a: support.DateValue(10), b: support.DateValue(10), expected: support.BoolValue(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.EQ(tt.a, tt.b))
		})
	}
}

func TestEqUnsupportedComparison(t *testing.T) {
	s := support.New()
	expectRuntimeError(t, support.ErrUnsupportedComparison, func() {
		s.EQ(support.BoolValue(true), support.StringValue("True"))
	})
}

// evalEQ captures EQ's result or its raised error kind, so symmetry can be
// compared even for raising pairs.
func evalEQ(s *support.Support, a, b support.Value) (result support.Value, raised *support.ErrorKind) {
	defer func() {
		if r := recover(); r != nil {
			kind := r.(*support.RuntimeError).Kind
			raised = &kind
		}
	}()
	result = s.EQ(a, b)
	return
}

func comparisonSamples() []support.Value {
	return []support.Value{
		support.NullValue(),
		support.EmptyValue(),
		support.Int16Value(0),
		support.Int16Value(1),
		support.Int16Value(-1),
		support.DoubleValue(1.5),
		support.BoolValue(true),
		support.BoolValue(false),
		support.StringValue(""),
		support.StringValue("a"),
		support.DateValue(10),
	}
}

func TestEqSymmetry(t *testing.T) {
	s := support.New()
	samples := comparisonSamples()
	for i, a := range samples {
		for j, b := range samples {
			t.Run(fmt.Sprintf("pair_%d_%d", i, j), func(t *testing.T) {
				forward, forwardRaised := evalEQ(s, a, b)
				backward, backwardRaised := evalEQ(s, b, a)
				if forwardRaised != nil || backwardRaised != nil {
					assert.NotNil(t, forwardRaised)
					assert.NotNil(t, backwardRaised)
					return
				}
				assert.Equal(t, forward, backward)
			})
		}
	}
}

func TestNotEqComplementsEq(t *testing.T) {
	s := support.New()
	samples := comparisonSamples()
	for i, a := range samples {
		for j, b := range samples {
			t.Run(fmt.Sprintf("pair_%d_%d", i, j), func(t *testing.T) {
				eq, raised := evalEQ(s, a, b)
				if raised != nil {
					return
				}
				notEq := s.NOTEQ(a, b)
				if eq.Tag == support.TagNull {
					assert.Equal(t, support.TagNull, notEq.Tag)
					return
				}
				assert.Equal(t, eq.Bool(), !notEq.Bool())
			})
		}
	}
}

func TestOrderingTrichotomy(t *testing.T) {
	s := support.New()
	pairs := []struct{ a, b support.Value }{
		{support.Int16Value(1), support.Int16Value(2)},
		{support.Int16Value(2), support.Int16Value(1)},
		{support.Int16Value(1), support.Int16Value(1)},
		{support.StringValue("a"), support.StringValue("b")},
		{support.StringValue("b"), support.StringValue("a")},
		{support.EmptyValue(), support.Int16Value(0)},
		{support.BoolValue(true), support.Int16Value(-1)},
		{support.DateValue(1), support.DateValue(2)},
		{support.StringValue("a"), support.Int16Value(100)},
		{support.StringValue(""), support.Int16Value(-1)},
	}
	for i, pair := range pairs {
		t.Run(fmt.Sprintf("pair_%d", i), func(t *testing.T) {
			lt := s.LT(pair.a, pair.b)
			eq := s.EQ(pair.a, pair.b)
			gt := s.GT(pair.a, pair.b)
			count := 0
			for _, v := range []support.Value{lt, eq, gt} {
				if v.Tag == support.TagBool && v.Bool() {
					count++
				}
			}
			assert.Equal(t, 1, count, "exactly one of LT, EQ, GT must hold")
		})
	}
}

func TestOrderingRules(t *testing.T) {
	s := support.New()
	tests := []struct {
		name     string
		actual   support.Value
		expected support.Value
	}{
		{name: "null short-circuits", actual: s.LT(support.NullValue(), support.Int16Value(1)), expected: support.NullValue()},
		{name: "lte allows equality", actual: s.LTE(support.Int16Value(1), support.Int16Value(1)), expected: support.BoolValue(true)},
		{name: "gte allows equality", actual: s.GTE(support.StringValue("a"), support.StringValue("a")), expected: support.BoolValue(true)},
		{name: "non-empty string outranks any number", actual: s.GT(support.StringValue("1"), support.Int32Value(999999)), expected: support.BoolValue(true)},
		{name: "empty string collapses to zero", actual: s.LT(support.StringValue(""), support.Int16Value(1)), expected: support.BoolValue(true)},
		{name: "true compares as minus one", actual: s.LT(support.BoolValue(true), support.Int16Value(0)), expected: support.BoolValue(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}

func TestIs(t *testing.T) {
	s := support.New()
	first := support.ObjectValue(&disposableProbe{})
	second := support.ObjectValue(&disposableProbe{})

	assert.Equal(t, support.BoolValue(true), s.IS(first, first))
	assert.Equal(t, support.BoolValue(false), s.IS(first, second))
	assert.Equal(t, support.BoolValue(true), s.IS(support.NothingValue(), support.NothingValue()))
	assert.Equal(t, support.BoolValue(false), s.IS(first, support.NothingValue()))
	expectRuntimeError(t, support.ErrObjectRequired, func() {
		s.IS(support.Int16Value(1), first)
	})
}
