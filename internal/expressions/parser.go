package expressions

import (
	"strconv"
	"strings"

	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

// Binding levels, lowest first. Each entry is one precedence rung of the
// published ladder; unary levels are interleaved where the ladder places
// them.
var binaryLevels = [][]string{
	{"imp"},
	{"eqv"},
	{"xor"},
	{"or"},
	{"and"},
	// Not (unary) sits here
	{"=", "<>", "<", ">", "<=", ">=", "is"},
	{"&"},
	{"+", "-"},
	{"mod"},
	{"\\"},
	{"*", "/"},
	// unary - and + sit here
	{"^"},
}

const (
	notLevel       = 5
	unarySignLevel = 11
	caretLevel     = 11
)

// Parse builds one expression tree from a bracket-standardised token run.
// The operator combiner runs first.
func Parse(run []lexer.Token) (Expression, error) {
	run = CombineTokens(run)
	if len(run) == 0 {
		return Expression{}, vberr.NewTranslationError("empty expression")
	}
	return parseAtLevel(run, 0)
}

// ParseAll splits a run on top-level argument separators and parses each
// part.
func ParseAll(run []lexer.Token) ([]Expression, error) {
	parts := splitOnSeparators(CombineTokens(run))
	exprs := make([]Expression, 0, len(parts))
	for _, part := range parts {
		e, err := parseAtLevel(part, 0)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func splitOnSeparators(run []lexer.Token) [][]lexer.Token {
	var parts [][]lexer.Token
	depth := 0
	start := 0
	for i, t := range run {
		switch {
		case t.Is(lexer.OpenBrace):
			depth++
		case t.Is(lexer.CloseBrace):
			depth--
		case depth == 0 && t.Is(lexer.ArgumentSeparator):
			parts = append(parts, run[start:i])
			start = i + 1
		}
	}
	return append(parts, run[start:])
}

func parseAtLevel(run []lexer.Token, level int) (Expression, error) {
	if len(run) == 0 {
		return Expression{}, vberr.NewTranslationError("empty expression")
	}
	// Unary Not binds between And and the comparison operators, but must
	// stay reachable when it appears as a tighter level's operand (a = Not b).
	if run[0].IsOperatorContent("not") && level >= notLevel {
		operand, err := parseAtLevel(run[1:], notLevel)
		if err != nil {
			return Expression{}, err
		}
		return Expression{Segments: []Segment{
			OperationSegment{Token: run[0]},
			asSegment(operand),
		}}, nil
	}

	if level >= len(binaryLevels) {
		return parseValue(run)
	}

	// Unary signs bind just below exponentiation.
	if level == unarySignLevel && isSign(run[0]) {
		operand, err := parseAtLevel(run[1:], level)
		if err != nil {
			return Expression{}, err
		}
		return Expression{Segments: []Segment{
			OperationSegment{Token: run[0]},
			asSegment(operand),
		}}, nil
	}

	split := findSplit(run, level)
	if split < 0 {
		return parseAtLevel(run, level+1)
	}
	// ^ is right-associative, every other level associates left.
	leftLevel, rightLevel := level, level+1
	if level == caretLevel {
		leftLevel, rightLevel = level+1, level
	}
	left, err := parseAtLevel(run[:split], leftLevel)
	if err != nil {
		return Expression{}, err
	}
	right, err := parseAtLevel(run[split+1:], rightLevel)
	if err != nil {
		return Expression{}, err
	}
	return Expression{Segments: []Segment{
		asSegment(left),
		OperationSegment{Token: run[split]},
		asSegment(right),
	}}, nil
}

// findSplit locates the operator to split at for a level: the last top-level
// occurrence for left-associative levels, the first for right-associative ^.
func findSplit(run []lexer.Token, level int) int {
	symbols := binaryLevels[level]
	depth := 0
	best := -1
	for i, t := range run {
		switch {
		case t.Is(lexer.OpenBrace):
			depth++
			continue
		case t.Is(lexer.CloseBrace):
			depth--
			continue
		}
		if depth != 0 || !t.IsAnyOperator() {
			continue
		}
		matches := false
		for _, s := range symbols {
			if t.ContentIs(s) {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		if isSign(t) && isUnaryPosition(run, i) {
			continue
		}
		if i == 0 {
			// No left operand at this level; a lower level owns this token.
			continue
		}
		if level == caretLevel {
			return i
		}
		best = i
	}
	return best
}

// asSegment embeds a parsed sub-expression as a single segment, nesting
// multi-segment expressions inside a BracketedSegment.
func asSegment(e Expression) Segment {
	if len(e.Segments) == 1 {
		return e.Segments[0]
	}
	return BracketedSegment{Expression: e}
}

// parseValue handles the tightest level: literals, bracketed groups and
// member access / call chains.
func parseValue(run []lexer.Token) (Expression, error) {
	first := run[0]
	if len(run) == 1 {
		switch first.Type {
		case lexer.NumericLiteral:
			value, err := parseNumericContent(first)
			if err != nil {
				return Expression{}, err
			}
			return Expression{Segments: []Segment{NumericValueSegment{Token: first, Value: value}}}, nil
		case lexer.StringLiteral:
			return Expression{Segments: []Segment{StringValueSegment{Token: first}}}, nil
		case lexer.BuiltInValue:
			return Expression{Segments: []Segment{BuiltinValueSegment{Token: first}}}, nil
		}
	}
	if first.IsKeyWord("new") && len(run) > 1 {
		chain, err := parseCallChain(run[1:])
		if err != nil {
			return Expression{}, err
		}
		segment := chain.Segments[0].(CallSegment)
		segment.IsNew = true
		return Expression{Segments: []Segment{segment}}, nil
	}
	if first.Is(lexer.OpenBrace) {
		if matchingBrace(run, 0) != len(run)-1 {
			return Expression{}, vberr.NewParseError(first.Line, "mismatched brackets in expression")
		}
		inner, err := parseAtLevel(run[1:len(run)-1], 0)
		if err != nil {
			return Expression{}, err
		}
		return Expression{Segments: []Segment{BracketedSegment{Expression: inner}}}, nil
	}
	return parseCallChain(run)
}

func parseCallChain(run []lexer.Token) (Expression, error) {
	segment := CallSegment{}
	i := 0
	if run[0].IsMemberAccessorToken() {
		segment.LeadingAccessor = true
		i = 1
	}
	for i < len(run) {
		item := CallItem{}
		if !run[i].IsNameLike() {
			return Expression{}, vberr.NewParseError(run[i].Line, "unexpected token in expression: "+run[i].Content)
		}
		item.MemberAccessTokens = append(item.MemberAccessTokens, run[i])
		i++
		for i+1 < len(run) && run[i].IsMemberAccessorToken() && run[i+1].IsNameLike() {
			item.MemberAccessTokens = append(item.MemberAccessTokens, run[i+1])
			i += 2
		}
		if i < len(run) && run[i].Is(lexer.OpenBrace) {
			closeIdx := matchingBrace(run, i)
			if closeIdx < 0 {
				return Expression{}, vberr.NewParseError(run[i].Line, "mismatched brackets in expression")
			}
			inner := run[i+1 : closeIdx]
			item.HasArguments = true
			if len(inner) == 0 {
				item.ZeroArgBrackets = true
			} else {
				args, err := ParseAll(inner)
				if err != nil {
					return Expression{}, err
				}
				item.Arguments = args
			}
			i = closeIdx + 1
		}
		segment.Items = append(segment.Items, item)
		if i < len(run) {
			if !run[i].IsMemberAccessorToken() {
				return Expression{}, vberr.NewParseError(run[i].Line, "unexpected token in expression: "+run[i].Content)
			}
			i++
			if i >= len(run) {
				return Expression{}, vberr.NewParseError(run[i-1].Line, "trailing member accessor in expression")
			}
		}
	}
	return Expression{Segments: []Segment{segment}}, nil
}

func matchingBrace(run []lexer.Token, open int) int {
	depth := 0
	for i := open; i < len(run); i++ {
		switch {
		case run[i].Is(lexer.OpenBrace):
			depth++
		case run[i].Is(lexer.CloseBrace):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseNumericContent(t lexer.Token) (float64, error) {
	content := t.Content
	if strings.HasPrefix(content, "&") && len(content) > 2 {
		base := 16
		if content[1] == 'O' || content[1] == 'o' {
			base = 8
		}
		n, err := strconv.ParseInt(content[2:], base, 64)
		if err != nil {
			return 0, vberr.NewParseError(t.Line, "malformed numeric literal "+content)
		}
		return float64(n), nil
	}
	value, err := strconv.ParseFloat(content, 64)
	if err != nil {
		return 0, vberr.NewParseError(t.Line, "malformed numeric literal "+content)
	}
	return value, nil
}
