package expressions

import "github.com/Magicianred/vbscripttranslator/internal/lexer"

// CombineTokens folds adjacent signs ("+ -" becomes "-", "- -" becomes "+")
// and merges comparisons broken across tokens ("> =" becomes ">="). An
// elided unary "+" in front of a numeric literal wraps the literal in a
// CSng call so it is no longer mistaken for a hard-typed literal downstream.
// The rewrite runs to a fixed point, so applying it twice changes nothing.
func CombineTokens(run []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, len(run))
	copy(out, run)
	for {
		combined, changed := combineOnce(out)
		if !changed {
			return combined
		}
		out = combined
	}
}

func combineOnce(run []lexer.Token) ([]lexer.Token, bool) {
	for i := 0; i < len(run); i++ {
		t := run[i]
		if isSign(t) && i+1 < len(run) && isSign(run[i+1]) {
			folded := "-"
			if t.Content == run[i+1].Content {
				folded = "+"
			}
			merged := append(append([]lexer.Token{}, run[:i]...),
				lexer.Token{Type: lexer.Operator, Content: folded, Line: t.Line})
			return append(merged, run[i+2:]...), true
		}
		if t.Is(lexer.Operator) && t.Content == "+" && isUnaryPosition(run, i) {
			return elideUnaryPlus(run, i), true
		}
		if merged, ok := mergeComparison(run, i); ok {
			return merged, true
		}
	}
	return run, false
}

func isSign(t lexer.Token) bool {
	return t.Is(lexer.Operator) && (t.Content == "+" || t.Content == "-")
}

// isUnaryPosition reports whether an operator at index i has no left operand.
func isUnaryPosition(run []lexer.Token, i int) bool {
	if i == 0 {
		return true
	}
	prev := run[i-1]
	return prev.IsAnyOperator() || prev.Is(lexer.OpenBrace) || prev.Is(lexer.ArgumentSeparator)
}

// elideUnaryPlus drops a unary "+". When it fronted a numeric literal, the
// literal loses its hard-typed status, so it is wrapped in a single-value
// preserving CSng call.
func elideUnaryPlus(run []lexer.Token, i int) []lexer.Token {
	out := append([]lexer.Token{}, run[:i]...)
	if i+1 < len(run) && run[i+1].Is(lexer.NumericLiteral) {
		lit := run[i+1]
		out = append(out,
			lexer.Token{Type: lexer.BuiltInFunction, Content: "CSng", Line: lit.Line},
			lexer.Token{Type: lexer.OpenBrace, Content: "(", Line: lit.Line},
			lit,
			lexer.Token{Type: lexer.CloseBrace, Content: ")", Line: lit.Line})
		return append(out, run[i+2:]...)
	}
	return append(out, run[i+1:]...)
}

var comparisonMerges = map[string]string{
	">=": ">=",
	"<=": "<=",
	"<>": "<>",
}

func mergeComparison(run []lexer.Token, i int) ([]lexer.Token, bool) {
	if !run[i].Is(lexer.ComparisonOperator) || i+1 >= len(run) || !run[i+1].Is(lexer.ComparisonOperator) {
		return nil, false
	}
	merged, ok := comparisonMerges[run[i].Content+run[i+1].Content]
	if !ok {
		return nil, false
	}
	out := append(append([]lexer.Token{}, run[:i]...),
		lexer.Token{Type: lexer.ComparisonOperator, Content: merged, Line: run[i].Line})
	return append(out, run[i+2:]...), true
}
