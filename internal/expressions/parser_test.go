package expressions_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/internal/expressions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExpr(t *testing.T, source string) expressions.Expression {
	t.Helper()
	expr, err := expressions.Parse(lexRun(t, source))
	require.NoError(t, err)
	return expr
}

func operatorOf(t *testing.T, e expressions.Expression) string {
	t.Helper()
	require.Len(t, e.Segments, 3)
	op, ok := e.Segments[1].(expressions.OperationSegment)
	require.True(t, ok)
	return op.Token.Content
}

func TestParseLiterals(t *testing.T) {
	numeric := parseExpr(t, "1.5")
	require.Len(t, numeric.Segments, 1)
	n, ok := numeric.Segments[0].(expressions.NumericValueSegment)
	require.True(t, ok)
	assert.Equal(t, 1.5, n.Value)

	str := parseExpr(t, `"abc"`)
	s, ok := str.Segments[0].(expressions.StringValueSegment)
	require.True(t, ok)
	assert.Equal(t, "abc", s.Token.Content)

	builtin := parseExpr(t, "Null")
	_, ok = builtin.Segments[0].(expressions.BuiltinValueSegment)
	assert.True(t, ok)
}

func TestParseHexLiteralValue(t *testing.T) {
	expr := parseExpr(t, "&H1F")
	n, ok := expr.Segments[0].(expressions.NumericValueSegment)
	require.True(t, ok)
	assert.Equal(t, float64(31), n.Value)
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		topOperator   string
		rightIsNested bool
	}{
		{name: "multiplication binds tighter than addition", input: "1 + 2 * 3", topOperator: "+", rightIsNested: true},
		{name: "concatenation binds looser than addition", input: "a & b + c", topOperator: "&", rightIsNested: true},
		{name: "comparison binds looser than concatenation", input: "a & b = c", topOperator: "=", rightIsNested: false},
		{name: "and binds looser than comparison", input: "a = b And c = d", topOperator: "And", rightIsNested: true},
		{name: "or binds looser than and", input: "a And b Or c", topOperator: "Or", rightIsNested: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			assert.Equal(t, tt.topOperator, operatorOf(t, expr))
			if tt.rightIsNested {
				_, nested := expr.Segments[2].(expressions.BracketedSegment)
				assert.True(t, nested)
			}
		})
	}
}

func TestLeftAssociativity(t *testing.T) {
	expr := parseExpr(t, "1 - 2 - 3")
	assert.Equal(t, "-", operatorOf(t, expr))
	left, ok := expr.Segments[0].(expressions.BracketedSegment)
	require.True(t, ok)
	assert.Equal(t, "-", operatorOf(t, left.Expression))
}

func TestCaretRightAssociativity(t *testing.T) {
	expr := parseExpr(t, "2 ^ 3 ^ 2")
	assert.Equal(t, "^", operatorOf(t, expr))
	right, ok := expr.Segments[2].(expressions.BracketedSegment)
	require.True(t, ok)
	assert.Equal(t, "^", operatorOf(t, right.Expression))
}

func TestUnaryOperators(t *testing.T) {
	not := parseExpr(t, "Not a = b")
	require.Len(t, not.Segments, 2)
	op, ok := not.Segments[0].(expressions.OperationSegment)
	require.True(t, ok)
	assert.Equal(t, "Not", op.Token.Content)
	operand, ok := not.Segments[1].(expressions.BracketedSegment)
	require.True(t, ok)
	assert.Equal(t, "=", operatorOf(t, operand.Expression))

	neg := parseExpr(t, "- x")
	require.Len(t, neg.Segments, 2)
	op, ok = neg.Segments[0].(expressions.OperationSegment)
	require.True(t, ok)
	assert.Equal(t, "-", op.Token.Content)
}

func TestNotAsRightOperand(t *testing.T) {
	expr := parseExpr(t, "a = Not b")
	assert.Equal(t, "=", operatorOf(t, expr))
	right, ok := expr.Segments[2].(expressions.BracketedSegment)
	require.True(t, ok)
	require.Len(t, right.Expression.Segments, 2)
}

func TestOperandPrecedenceTotalOrder(t *testing.T) {
	// After parenthesisation, the top operator of every three-segment
	// expression binds no tighter than any operator in its operands.
	ranks := map[string]int{
		"imp": 0, "eqv": 1, "xor": 2, "or": 3, "and": 4,
		"=": 6, "<>": 6, "<": 6, ">": 6, "<=": 6, ">=": 6, "is": 6,
		"&": 7, "+": 8, "-": 8, "mod": 9, "\\": 10, "*": 11, "/": 11, "^": 13,
	}
	var check func(e expressions.Expression)
	check = func(e expressions.Expression) {
		if len(e.Segments) != 3 {
			return
		}
		op := e.Segments[1].(expressions.OperationSegment)
		for _, seg := range []expressions.Segment{e.Segments[0], e.Segments[2]} {
			nested, ok := seg.(expressions.BracketedSegment)
			if !ok || len(nested.Expression.Segments) != 3 {
				continue
			}
			inner := nested.Expression.Segments[1].(expressions.OperationSegment)
			assert.LessOrEqual(t,
				ranks[lowered(op.Token.Content)],
				ranks[lowered(inner.Token.Content)])
			check(nested.Expression)
		}
	}
	for _, input := range []string{
		"1 + 2 * 3 - 4 / 5",
		"a And b = c Or d <> e",
		"x & y + z * 2 ^ 3",
	} {
		check(parseExpr(t, input))
	}
}

func lowered(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func TestParseCallChains(t *testing.T) {
	expr := parseExpr(t, "a.b(1).c")
	require.Len(t, expr.Segments, 1)
	call, ok := expr.Segments[0].(expressions.CallSegment)
	require.True(t, ok)
	require.Len(t, call.Items, 2)

	first := call.Items[0]
	require.Len(t, first.MemberAccessTokens, 2)
	assert.Equal(t, "a", first.MemberAccessTokens[0].Content)
	assert.Equal(t, "b", first.MemberAccessTokens[1].Content)
	require.Len(t, first.Arguments, 1)

	second := call.Items[1]
	require.Len(t, second.MemberAccessTokens, 1)
	assert.Equal(t, "c", second.MemberAccessTokens[0].Content)
	assert.Empty(t, second.Arguments)
}

func TestZeroArgBracketsAreSignificant(t *testing.T) {
	withBrackets := parseExpr(t, "f()")
	bare := parseExpr(t, "f")

	call := withBrackets.Segments[0].(expressions.CallSegment)
	assert.True(t, call.Items[0].ZeroArgBrackets)
	assert.True(t, call.Items[0].HasArguments)

	bareCall := bare.Segments[0].(expressions.CallSegment)
	assert.False(t, bareCall.Items[0].ZeroArgBrackets)
	assert.False(t, bareCall.Items[0].HasArguments)
}

func TestLeadingAccessor(t *testing.T) {
	expr := parseExpr(t, ".b(1)")
	call := expr.Segments[0].(expressions.CallSegment)
	assert.True(t, call.LeadingAccessor)
	require.Len(t, call.Items, 1)
	assert.Equal(t, "b", call.Items[0].MemberAccessTokens[0].Content)
}

func TestNewExpression(t *testing.T) {
	expr := parseExpr(t, "New Foo")
	call := expr.Segments[0].(expressions.CallSegment)
	assert.True(t, call.IsNew)
	assert.Equal(t, "Foo", call.Items[0].MemberAccessTokens[0].Content)
}

func TestBracketedGrouping(t *testing.T) {
	expr := parseExpr(t, "(1 + 2) * 3")
	assert.Equal(t, "*", operatorOf(t, expr))
	left, ok := expr.Segments[0].(expressions.BracketedSegment)
	require.True(t, ok)
	assert.Equal(t, "+", operatorOf(t, left.Expression))
}

func TestParseAllSplitsArguments(t *testing.T) {
	exprs, err := expressions.ParseAll(lexRun(t, "1, a + 2, \"x\""))
	require.NoError(t, err)
	assert.Len(t, exprs, 3)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "trailing operator", input: "1 +"},
		{name: "lone operator", input: "*"},
		{name: "mismatched brackets", input: "(1 + 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expressions.Parse(lexRun(t, tt.input))
			assert.Error(t, err)
		})
	}
}
