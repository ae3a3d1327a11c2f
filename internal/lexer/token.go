package lexer

import "strings"

// TokenType represents the kind of token.
type TokenType int

const (
	Name TokenType = iota
	BuiltInFunction
	BuiltInValue
	KeyWord
	NumericLiteral
	StringLiteral
	Operator
	ComparisonOperator
	LogicalOperator
	MemberAccessorOrDecimalPoint
	MemberAccessor
	OpenBrace
	CloseBrace
	ArgumentSeparator
	EndOfStatement
	InlineComment
	Comment
	Whitespace
)

// Token is a lexical token. Content keeps the original casing of the source;
// comparisons between name-like tokens are always case-insensitive.
type Token struct {
	Type    TokenType
	Content string
	Line    int
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

// ContentIs compares the token content case-insensitively.
func (t Token) ContentIs(s string) bool {
	return strings.EqualFold(t.Content, s)
}

// IsMemberAccessorToken reports whether the token is a member accessor,
// resolved or not yet disambiguated.
func (t Token) IsMemberAccessorToken() bool {
	return t.Type == MemberAccessor || t.Type == MemberAccessorOrDecimalPoint
}

// IsNameLike reports whether the token can appear in a member access chain.
func (t Token) IsNameLike() bool {
	switch t.Type {
	case Name, BuiltInFunction, BuiltInValue, KeyWord:
		return true
	}
	return false
}

// IsKeyWord reports whether the token is the given keyword (case-insensitive).
func (t Token) IsKeyWord(word string) bool {
	return t.Type == KeyWord && t.ContentIs(word)
}

// IsOperatorContent reports whether the token is an operator-class token with
// the given symbol or word.
func (t Token) IsOperatorContent(s string) bool {
	switch t.Type {
	case Operator, ComparisonOperator, LogicalOperator:
		return t.ContentIs(s)
	}
	return false
}

// IsAnyOperator reports whether the token belongs to one of the operator
// classes (arithmetic, comparison or logical).
func (t Token) IsAnyOperator() bool {
	switch t.Type {
	case Operator, ComparisonOperator, LogicalOperator:
		return true
	}
	return false
}

// keyWords are the reserved statement words. Operator words (Mod, And, Is,
// ...) are classified separately.
var keyWords = map[string]bool{
	"dim": true, "redim": true, "preserve": true, "const": true,
	"if": true, "then": true, "else": true, "elseif": true, "end": true,
	"for": true, "to": true, "step": true, "next": true, "each": true, "in": true,
	"do": true, "loop": true, "while": true, "until": true, "wend": true,
	"select": true, "case": true,
	"sub": true, "function": true, "property": true, "get": true, "let": true, "set": true,
	"class": true, "new": true, "exit": true, "call": true, "with": true,
	"on": true, "error": true, "resume": true, "goto": true,
	"public": true, "private": true, "default": true,
	"byref": true, "byval": true,
	"option": true, "explicit": true, "randomize": true, "erase": true, "stop": true,
}

var logicalOperators = map[string]bool{
	"not": true, "and": true, "or": true, "xor": true, "eqv": true, "imp": true,
}

// builtInFunctions are the names the runtime support library exposes to
// emitted code. The set mirrors the support package.
var builtInFunctions = map[string]bool{
	"len": true, "mid": true, "left": true, "right": true,
	"trim": true, "ltrim": true, "rtrim": true,
	"ucase": true, "lcase": true, "strcomp": true,
	"instr": true, "instrrev": true, "replace": true, "space": true, "string": true,
	"chr": true, "asc": true,
	"cbyte": true, "cint": true, "clng": true, "csng": true, "cdbl": true,
	"ccur": true, "cbool": true, "cdate": true, "cstr": true,
	"abs": true, "sgn": true, "int": true, "fix": true, "rnd": true, "sqr": true,
	"isnull": true, "isempty": true, "isnumeric": true, "isobject": true, "isdate": true, "isarray": true,
	"typename": true, "vartype": true,
	"now": true, "date": true, "time": true,
	"array": true, "ubound": true, "lbound": true,
	"createobject": true,
	"err": true,
}

var builtInValues = map[string]bool{
	"empty": true, "null": true, "nothing": true, "true": true, "false": true,
	"vbcrlf": true, "vbcr": true, "vblf": true, "vbtab": true,
	"vbnullstring": true, "vbobjecterror": true,
}

func classifyWord(word string) TokenType {
	lower := strings.ToLower(word)
	switch {
	case lower == "mod":
		return Operator
	case lower == "is":
		return ComparisonOperator
	case logicalOperators[lower]:
		return LogicalOperator
	case keyWords[lower]:
		return KeyWord
	case builtInFunctions[lower]:
		return BuiltInFunction
	case builtInValues[lower]:
		return BuiltInValue
	}
	return Name
}
