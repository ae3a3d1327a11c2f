package support_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/support"
	"github.com/stretchr/testify/assert"
)

func TestLogicalBitwise(t *testing.T) {
	s := support.New()
	tests := []struct {
		name     string
		actual   support.Value
		expected support.Value
	}{
		{name: "and on booleans stays boolean", actual: s.AND(support.BoolValue(true), support.BoolValue(false)), expected: support.BoolValue(false)},
		{name: "and on integers is bitwise", actual: s.AND(support.Int16Value(6), support.Int16Value(3)), expected: support.Int16Value(2)},
		{name: "or on integers is bitwise", actual: s.OR(support.Int16Value(6), support.Int16Value(3)), expected: support.Int16Value(7)},
		{name: "xor on integers is bitwise", actual: s.XOR(support.Int16Value(6), support.Int16Value(3)), expected: support.Int16Value(5)},
		{name: "not on booleans stays boolean", actual: s.NOT(support.BoolValue(true)), expected: support.BoolValue(false)},
		{name: "not on integers is bitwise complement", actual: s.NOT(support.Int16Value(0)), expected: support.Int16Value(-1)},
		{name: "eqv is bitwise equivalence", actual: s.EQV(support.Int16Value(6), support.Int16Value(3)), expected: support.Int16Value(-6)},
		{name: "imp is bitwise implication", actual: s.IMP(support.BoolValue(false), support.BoolValue(false)), expected: support.BoolValue(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}

func TestLogicalNullPropagation(t *testing.T) {
	s := support.New()
	null := support.NullValue()
	tests := []struct {
		name     string
		actual   support.Value
		expected support.Value
	}{
		{name: "null and false is false", actual: s.AND(null, support.BoolValue(false)), expected: support.BoolValue(false)},
		{name: "null and true is null", actual: s.AND(null, support.BoolValue(true)), expected: null},
		{name: "null or true is true", actual: s.OR(null, support.BoolValue(true)), expected: support.BoolValue(true)},
		{name: "null or false is null", actual: s.OR(null, support.BoolValue(false)), expected: null},
		{name: "null xor infects", actual: s.XOR(null, support.BoolValue(true)), expected: null},
		{name: "null eqv infects", actual: s.EQV(null, support.BoolValue(true)), expected: null},
		{name: "not null is null", actual: s.NOT(null), expected: null},
		{name: "null imp true is true", actual: s.IMP(null, support.BoolValue(true)), expected: support.BoolValue(true)},
		{name: "false imp null is true", actual: s.IMP(support.BoolValue(false), null), expected: support.BoolValue(true)},
		{name: "true imp null is null", actual: s.IMP(support.BoolValue(true), null), expected: null},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}
