package lexer_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/vberr"
	"github.com/stretchr/testify/assert"
)

func tok(tt lexer.TokenType, content string, line int) lexer.Token {
	return lexer.Token{Type: tt, Content: content, Line: line}
}

func TestLexStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []lexer.Token
	}{
		{
			name:  "declaration and assignment split by colon",
			input: "Dim x: x = 1",
			expected: []lexer.Token{
				tok(lexer.KeyWord, "Dim", 1),
				tok(lexer.Name, "x", 1),
				tok(lexer.EndOfStatement, ":", 1),
				tok(lexer.Name, "x", 1),
				tok(lexer.ComparisonOperator, "=", 1),
				tok(lexer.NumericLiteral, "1", 1),
			},
		},
		{
			name:  "string literal with embedded quote",
			input: `s = "a""b"`,
			expected: []lexer.Token{
				tok(lexer.Name, "s", 1),
				tok(lexer.ComparisonOperator, "=", 1),
				tok(lexer.StringLiteral, `a"b`, 1),
			},
		},
		{
			name:  "member access",
			input: "a.b",
			expected: []lexer.Token{
				tok(lexer.Name, "a", 1),
				tok(lexer.MemberAccessorOrDecimalPoint, ".", 1),
				tok(lexer.Name, "b", 1),
			},
		},
		{
			name:  "decimal literals",
			input: "x = 1.5 + .5",
			expected: []lexer.Token{
				tok(lexer.Name, "x", 1),
				tok(lexer.ComparisonOperator, "=", 1),
				tok(lexer.NumericLiteral, "1.5", 1),
				tok(lexer.Operator, "+", 1),
				tok(lexer.NumericLiteral, ".5", 1),
			},
		},
		{
			name:  "hex and octal literals",
			input: "x = &H1F & &O17",
			expected: []lexer.Token{
				tok(lexer.Name, "x", 1),
				tok(lexer.ComparisonOperator, "=", 1),
				tok(lexer.NumericLiteral, "&H1F", 1),
				tok(lexer.Operator, "&", 1),
				tok(lexer.NumericLiteral, "&O17", 1),
			},
		},
		{
			name:  "comparison operators",
			input: "a <= b <> c",
			expected: []lexer.Token{
				tok(lexer.Name, "a", 1),
				tok(lexer.ComparisonOperator, "<=", 1),
				tok(lexer.Name, "b", 1),
				tok(lexer.ComparisonOperator, "<>", 1),
				tok(lexer.Name, "c", 1),
			},
		},
		{
			name:  "keyword operators are case-insensitive",
			input: "a MOD b AND NOT c",
			expected: []lexer.Token{
				tok(lexer.Name, "a", 1),
				tok(lexer.Operator, "MOD", 1),
				tok(lexer.Name, "b", 1),
				tok(lexer.LogicalOperator, "AND", 1),
				tok(lexer.LogicalOperator, "NOT", 1),
				tok(lexer.Name, "c", 1),
			},
		},
		{
			name:  "line continuation elides the break",
			input: "x = 1 + _\n2",
			expected: []lexer.Token{
				tok(lexer.Name, "x", 1),
				tok(lexer.ComparisonOperator, "=", 1),
				tok(lexer.NumericLiteral, "1", 1),
				tok(lexer.Operator, "+", 1),
				tok(lexer.NumericLiteral, "2", 2),
			},
		},
		{
			name:  "newlines inside brackets do not split statements",
			input: "f(1,\n2)",
			expected: []lexer.Token{
				tok(lexer.Name, "f", 1),
				tok(lexer.OpenBrace, "(", 1),
				tok(lexer.NumericLiteral, "1", 1),
				tok(lexer.ArgumentSeparator, ",", 1),
				tok(lexer.NumericLiteral, "2", 2),
				tok(lexer.CloseBrace, ")", 2),
			},
		},
		{
			name:  "builtin classification",
			input: "x = Len(Empty)",
			expected: []lexer.Token{
				tok(lexer.Name, "x", 1),
				tok(lexer.ComparisonOperator, "=", 1),
				tok(lexer.BuiltInFunction, "Len", 1),
				tok(lexer.OpenBrace, "(", 1),
				tok(lexer.BuiltInValue, "Empty", 1),
				tok(lexer.CloseBrace, ")", 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.Lex(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestLexComments(t *testing.T) {
	tokens, err := lexer.Lex("' full line\nx = 1 ' trailing\nREM another")
	assert.NoError(t, err)

	var kinds []lexer.TokenType
	for _, token := range tokens {
		kinds = append(kinds, token.Type)
	}
	assert.Equal(t, []lexer.TokenType{
		lexer.Comment,
		lexer.EndOfStatement,
		lexer.Name,
		lexer.ComparisonOperator,
		lexer.NumericLiteral,
		lexer.InlineComment,
		lexer.EndOfStatement,
		lexer.Comment,
	}, kinds)
	assert.Equal(t, " full line", tokens[0].Content)
	assert.Equal(t, " trailing", tokens[5].Content)
	assert.Equal(t, " another", tokens[7].Content)
}

func TestLexMultiLineTracksLines(t *testing.T) {
	tokens, err := lexer.Lex("a = 1\nb = 2")
	assert.NoError(t, err)
	assert.Equal(t, 1, tokens[0].Line)
	last := tokens[len(tokens)-1]
	assert.Equal(t, 2, last.Line)
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "unterminated string", input: "x = \"abc", line: 1},
		{name: "unterminated string at line break", input: "x = \"abc\ny = 1", line: 1},
		{name: "malformed hex literal", input: "x = &HZZ", line: 1},
		{name: "malformed decimal literal", input: "x = 1.", line: 1},
		{name: "unexpected character", input: "x = 1\ny = #", line: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexer.Lex(tt.input)
			assert.Error(t, err)
			lexErr, ok := err.(*vberr.LexError)
			assert.True(t, ok)
			assert.Equal(t, tt.line, lexErr.Line)
		})
	}
}
