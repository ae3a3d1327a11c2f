package expressions

import "github.com/Magicianred/vbscripttranslator/internal/lexer"

// Expression is an ordered run of segments. A well-formed expression has one
// segment (a value), two segments (unary operation and operand) or three
// segments (operand, binary operation, operand); deeper trees nest inside
// BracketedSegment values.
type Expression struct {
	Segments []Segment
}

// Segment is one element of an expression.
type Segment interface {
	segment()
}

// NumericValueSegment is a numeric literal with its parsed value.
type NumericValueSegment struct {
	Token lexer.Token
	Value float64
}

// StringValueSegment is a string literal.
type StringValueSegment struct {
	Token lexer.Token
}

// BuiltinValueSegment is a literal built-in value (Nothing, Null, Empty,
// True, False, vbCrLf, ...).
type BuiltinValueSegment struct {
	Token lexer.Token
}

// OperationSegment is a single operator token.
type OperationSegment struct {
	Token lexer.Token
}

// BracketedSegment contains one nested expression.
type BracketedSegment struct {
	Expression Expression
}

// CallItem is one link of a dotted access chain: member tokens plus any
// argument list. ZeroArgBrackets records an empty "()" pair, which forces a
// call where bare access may denote a value read.
type CallItem struct {
	MemberAccessTokens []lexer.Token
	Arguments          []Expression
	HasArguments       bool
	ZeroArgBrackets    bool
}

// CallSegment is a member access or call chain such as a.b(1).c. The dots
// between member tokens are implicit and never materialised. LeadingAccessor
// marks a chain that began with "." (a With-target reference).
type CallSegment struct {
	Items           []CallItem
	LeadingAccessor bool
	IsNew           bool
}

func (NumericValueSegment) segment() {}
func (StringValueSegment) segment()  {}
func (BuiltinValueSegment) segment() {}
func (OperationSegment) segment()    {}
func (BracketedSegment) segment()    {}
func (CallSegment) segment()         {}

// FirstToken returns a representative source token for error reporting.
func (e Expression) FirstToken() (lexer.Token, bool) {
	if len(e.Segments) == 0 {
		return lexer.Token{}, false
	}
	switch s := e.Segments[0].(type) {
	case NumericValueSegment:
		return s.Token, true
	case StringValueSegment:
		return s.Token, true
	case BuiltinValueSegment:
		return s.Token, true
	case OperationSegment:
		return s.Token, true
	case BracketedSegment:
		return s.Expression.FirstToken()
	case CallSegment:
		if len(s.Items) > 0 && len(s.Items[0].MemberAccessTokens) > 0 {
			return s.Items[0].MemberAccessTokens[0], true
		}
	}
	return lexer.Token{}, false
}
