package expressions_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/internal/expressions"
	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexRun(t *testing.T, source string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Lex(source)
	require.NoError(t, err)
	return tokens
}

func describe(tokens []lexer.Token) []string {
	var out []string
	for _, token := range tokens {
		out = append(out, token.Content)
	}
	return out
}

func TestCombineTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "binary plus with unary minus folds to subtraction",
			input:    "1 + - 1",
			expected: []string{"1", "-", "1"},
		},
		{
			name:     "double minus folds to addition",
			input:    "1 - - 1",
			expected: []string{"1", "+", "1"},
		},
		{
			name:     "minus plus folds to subtraction",
			input:    "1 - + 1",
			expected: []string{"1", "-", "1"},
		},
		{
			name:     "double plus folds to plus",
			input:    "1 + + 1",
			expected: []string{"1", "+", "1"},
		},
		{
			name:     "broken greater-or-equal merges",
			input:    "2 > = 1",
			expected: []string{"2", ">=", "1"},
		},
		{
			name:     "broken less-or-equal merges",
			input:    "2 < = 1",
			expected: []string{"2", "<=", "1"},
		},
		{
			name:     "broken inequality merges",
			input:    "2 < > 1",
			expected: []string{"2", "<>", "1"},
		},
		{
			name:     "elided unary plus wraps the literal",
			input:    "1 * + 1",
			expected: []string{"1", "*", "CSng", "(", "1", ")"},
		},
		{
			name:     "unary plus on a variable just disappears",
			input:    "1 * + x",
			expected: []string{"1", "*", "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combined := expressions.CombineTokens(lexRun(t, tt.input))
			assert.Equal(t, tt.expected, describe(combined))
		})
	}
}

func TestCombineTokensIdempotent(t *testing.T) {
	inputs := []string{
		"1 + - 1",
		"1 * + 1",
		"2 > = 1",
		"a - - b * + 3",
		"Not a < > b",
	}
	for _, input := range inputs {
		once := expressions.CombineTokens(lexRun(t, input))
		twice := expressions.CombineTokens(once)
		assert.Equal(t, once, twice, "combine must be idempotent for %q", input)
	}
}

func TestCombineTokensWrappedLiteralKind(t *testing.T) {
	combined := expressions.CombineTokens(lexRun(t, "1 * + 1"))
	require.Len(t, combined, 6)
	assert.Equal(t, lexer.BuiltInFunction, combined[2].Type)
	assert.Equal(t, lexer.OpenBrace, combined[3].Type)
	assert.Equal(t, lexer.NumericLiteral, combined[4].Type)
	assert.Equal(t, lexer.CloseBrace, combined[5].Type)
}
