package parser

import "github.com/Magicianred/vbscripttranslator/internal/lexer"

// CodeBlock is a block-structured statement produced by stage one.
type CodeBlock interface {
	block()
	StartLine() int
}

type lineRange struct {
	Start int
	End   int
}

func (r lineRange) StartLine() int { return r.Start }
func (r lineRange) EndLine() int   { return r.End }

// Statement is a raw token run with no recognised block structure, bracket
// standardised so every call-argument position is explicitly parenthesised.
type Statement struct {
	lineRange
	Tokens []lexer.Token
}

// ValueSettingKind distinguishes Let and Set assignments.
type ValueSettingKind int

const (
	LetSetting ValueSettingKind = iota
	SetSetting
)

// ValueSettingStatement is an assignment: target tokens, value tokens and the
// Let/Set kind.
type ValueSettingStatement struct {
	lineRange
	Target []lexer.Token
	Value  []lexer.Token
	Kind   ValueSettingKind
}

// ConditionalClause is one If/ElseIf arm.
type ConditionalClause struct {
	Condition []lexer.Token
	Body      []CodeBlock
	Line      int
}

// IfBlock covers both single-line and block conditionals.
type IfBlock struct {
	lineRange
	Clauses  []ConditionalClause
	ElseBody []CodeBlock
	HasElse  bool
}

// ForBlock is a counted For loop.
type ForBlock struct {
	lineRange
	Counter lexer.Token
	From    []lexer.Token
	To      []lexer.Token
	Step    []lexer.Token
	HasStep bool
	Body    []CodeBlock
}

// ForEachBlock enumerates a collection.
type ForEachBlock struct {
	lineRange
	Variable lexer.Token
	In       []lexer.Token
	Body     []CodeBlock
}

// DoConditionPosition records where a Do loop's condition sits.
type DoConditionPosition int

const (
	NoCondition DoConditionPosition = iota
	PreCondition
	PostCondition
)

// DoBlock is a Do ... Loop construct.
type DoBlock struct {
	lineRange
	ConditionPosition DoConditionPosition
	IsUntil           bool
	Condition         []lexer.Token
	Body              []CodeBlock
}

// WhileBlock is a While ... Wend loop.
type WhileBlock struct {
	lineRange
	Condition []lexer.Token
	Body      []CodeBlock
}

// SelectCase is one Case arm of a Select block.
type SelectCase struct {
	Values [][]lexer.Token
	Body   []CodeBlock
	IsElse bool
	Line   int
}

// SelectBlock is a Select Case construct.
type SelectBlock struct {
	lineRange
	Target []lexer.Token
	Cases  []SelectCase
}

// Parameter is a procedure parameter. Parameters default to by-ref.
type Parameter struct {
	Name  lexer.Token
	ByVal bool
}

// PropertyKind distinguishes Get, Let and Set properties.
type PropertyKind int

const (
	PropertyGet PropertyKind = iota
	PropertyLet
	PropertySet
)

// SubBlock is a Sub procedure.
type SubBlock struct {
	lineRange
	Name       lexer.Token
	Parameters []Parameter
	Body       []CodeBlock
	IsPublic   bool
	IsDefault  bool
}

// FunctionBlock is a Function procedure.
type FunctionBlock struct {
	lineRange
	Name       lexer.Token
	Parameters []Parameter
	Body       []CodeBlock
	IsPublic   bool
	IsDefault  bool
}

// PropertyBlock is a Property Get/Let/Set procedure.
type PropertyBlock struct {
	lineRange
	Kind       PropertyKind
	Name       lexer.Token
	Parameters []Parameter
	Body       []CodeBlock
	IsPublic   bool
	IsDefault  bool
}

// DimVariable is one declared variable. Dimensions is nil for a scalar, empty
// for an uninitialised array and non-empty for a sized array.
type DimVariable struct {
	Name        lexer.Token
	Dimensions  [][]lexer.Token
	HasBrackets bool
}

// DimStatement declares variables (Dim / Public / Private).
type DimStatement struct {
	lineRange
	Variables []DimVariable
	IsPublic  bool
}

// ReDimStatement re-dimensions arrays, optionally preserving contents.
type ReDimStatement struct {
	lineRange
	Preserve  bool
	Variables []DimVariable
}

// OnErrorResumeNext activates the error trap for the enclosing scope.
type OnErrorResumeNext struct {
	lineRange
}

// OnErrorGoto0 deactivates the error trap.
type OnErrorGoto0 struct {
	lineRange
}

// CommentStatement carries a comment through to annotated emission.
type CommentStatement struct {
	lineRange
	Text     string
	IsInline bool
}

// ExitKind identifies what an Exit statement leaves.
type ExitKind int

const (
	ExitDo ExitKind = iota
	ExitFor
	ExitSub
	ExitFunction
	ExitProperty
)

// ExitStatement is Exit Do/For/Sub/Function/Property.
type ExitStatement struct {
	lineRange
	Kind ExitKind
}

// ClassBlock is a Class ... End Class definition.
type ClassBlock struct {
	lineRange
	Name    lexer.Token
	Members []CodeBlock
}

// WithBlock is a With ... End With construct.
type WithBlock struct {
	lineRange
	Target []lexer.Token
	Body   []CodeBlock
}

func (*Statement) block()             {}
func (*ValueSettingStatement) block() {}
func (*IfBlock) block()               {}
func (*ForBlock) block()              {}
func (*ForEachBlock) block()          {}
func (*DoBlock) block()               {}
func (*WhileBlock) block()            {}
func (*SelectBlock) block()           {}
func (*SubBlock) block()              {}
func (*FunctionBlock) block()         {}
func (*PropertyBlock) block()         {}
func (*DimStatement) block()          {}
func (*ReDimStatement) block()        {}
func (*OnErrorResumeNext) block()     {}
func (*OnErrorGoto0) block()          {}
func (*CommentStatement) block()      {}
func (*ExitStatement) block()         {}
func (*ClassBlock) block()            {}
func (*WithBlock) block()             {}
