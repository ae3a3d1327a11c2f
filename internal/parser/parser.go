package parser

import (
	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

// Parse builds the block tree from a flat token run.
func Parse(tokens []lexer.Token) ([]CodeBlock, error) {
	p := &blockParser{tokens: tokens}
	blocks, term, termLine, err := p.parseBlocks(nil)
	if err != nil {
		return nil, err
	}
	if term != nil {
		return nil, vberr.NewParseError(termLine, "unexpected keyword "+term[0].Content)
	}
	return blocks, nil
}

type blockParser struct {
	tokens []lexer.Token
	pos    int
}

// nextStatement returns the next logical statement run (tokens between
// EndOfStatement markers) with member accessors resolved, or nil at the end
// of the source.
func (p *blockParser) nextStatement() ([]lexer.Token, int) {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Is(lexer.EndOfStatement) {
		p.pos++
	}
	if p.pos >= len(p.tokens) {
		return nil, 0
	}
	start := p.pos
	for p.pos < len(p.tokens) && !p.tokens[p.pos].Is(lexer.EndOfStatement) {
		p.pos++
	}
	run := make([]lexer.Token, p.pos-start)
	copy(run, p.tokens[start:p.pos])
	for i := range run {
		if run[i].Is(lexer.MemberAccessorOrDecimalPoint) {
			run[i].Type = lexer.MemberAccessor
		}
	}
	return run, run[0].Line
}

// parseBlocks reads statements until the terminator matcher accepts one (the
// terminating run is returned to the caller) or the source ends.
func (p *blockParser) parseBlocks(isTerminator func([]lexer.Token) bool) ([]CodeBlock, []lexer.Token, int, error) {
	blocks := make([]CodeBlock, 0)
	for {
		run, line := p.nextStatement()
		if run == nil {
			return blocks, nil, 0, nil
		}
		if isTerminator != nil && isTerminator(run) {
			return blocks, run, line, nil
		}
		parsed, err := p.parseOne(run, line)
		if err != nil {
			return nil, nil, 0, err
		}
		blocks = append(blocks, parsed...)
	}
}

func runStartsWith(run []lexer.Token, words ...string) bool {
	if len(run) < len(words) {
		return false
	}
	for i, w := range words {
		if !run[i].IsNameLike() || !run[i].ContentIs(w) {
			return false
		}
	}
	return true
}

func terminatedBy(sequences ...[]string) func([]lexer.Token) bool {
	return func(run []lexer.Token) bool {
		for _, words := range sequences {
			if runStartsWith(run, words...) {
				return true
			}
		}
		return false
	}
}

func (p *blockParser) parseOne(run []lexer.Token, line int) ([]CodeBlock, error) {
	// Comments travel as blocks so annotated emission can replay them.
	if run[0].Is(lexer.Comment) || run[0].Is(lexer.InlineComment) {
		return []CodeBlock{&CommentStatement{
			lineRange: lineRange{line, line},
			Text:      run[0].Content,
			IsInline:  run[0].Is(lexer.InlineComment),
		}}, nil
	}
	var trailing []CodeBlock
	if last := run[len(run)-1]; last.Is(lexer.InlineComment) {
		trailing = append(trailing, &CommentStatement{
			lineRange: lineRange{last.Line, last.Line},
			Text:      last.Content,
			IsInline:  true,
		})
		run = run[:len(run)-1]
		if len(run) == 0 {
			return trailing, nil
		}
	}

	blocks, err := p.dispatch(run, line)
	if err != nil {
		return nil, err
	}
	return append(blocks, trailing...), nil
}

func (p *blockParser) dispatch(run []lexer.Token, line int) ([]CodeBlock, error) {
	switch {
	case runStartsWith(run, "option", "explicit"):
		return nil, nil
	case runStartsWith(run, "dim"):
		return p.parseDim(run[1:], line, false)
	case runStartsWith(run, "const"):
		return p.parseConst(run[1:], line)
	case runStartsWith(run, "redim"):
		return p.parseReDim(run[1:], line)
	case runStartsWith(run, "public") || runStartsWith(run, "private"):
		isPublic := run[0].ContentIs("public")
		rest := run[1:]
		isDefault := false
		if len(rest) > 0 && rest[0].IsKeyWord("default") {
			isDefault = true
			rest = rest[1:]
		}
		if len(rest) > 0 && (rest[0].IsKeyWord("sub") || rest[0].IsKeyWord("function") || rest[0].IsKeyWord("property")) {
			return p.parseProcedure(rest, line, isPublic, isDefault)
		}
		if isDefault {
			return nil, vberr.NewParseError(line, "Default may only appear on a class member")
		}
		return p.parseDim(rest, line, isPublic)
	case runStartsWith(run, "sub") || runStartsWith(run, "function") || runStartsWith(run, "property"):
		return p.parseProcedure(run, line, true, false)
	case runStartsWith(run, "if"):
		return p.parseIf(run, line)
	case runStartsWith(run, "for"):
		return p.parseFor(run, line)
	case runStartsWith(run, "do"):
		return p.parseDo(run, line)
	case runStartsWith(run, "while"):
		return p.parseWhile(run, line)
	case runStartsWith(run, "select"):
		return p.parseSelect(run, line)
	case runStartsWith(run, "class"):
		return p.parseClass(run, line)
	case runStartsWith(run, "with"):
		return p.parseWith(run, line)
	case runStartsWith(run, "on"):
		return p.parseOnError(run, line)
	case runStartsWith(run, "exit"):
		return p.parseExit(run, line)
	case runStartsWith(run, "then") || runStartsWith(run, "else") || runStartsWith(run, "elseif") ||
		runStartsWith(run, "end") || runStartsWith(run, "next") || runStartsWith(run, "loop") ||
		runStartsWith(run, "wend") || runStartsWith(run, "case") || runStartsWith(run, "to") ||
		runStartsWith(run, "step"):
		return nil, vberr.NewParseError(line, "unexpected keyword "+run[0].Content)
	case runStartsWith(run, "call"):
		if len(run) < 2 {
			return nil, vberr.NewParseError(line, "Call requires a target")
		}
		return []CodeBlock{&Statement{
			lineRange: lineRange{line, line},
			Tokens:    standardiseBrackets(run[1:]),
		}}, nil
	}
	return p.parseStatement(run, line)
}

// parseStatement produces a ValueSettingStatement when the run has a
// top-level assignment shape, a raw Statement otherwise.
func (p *blockParser) parseStatement(run []lexer.Token, line int) ([]CodeBlock, error) {
	kind := LetSetting
	rest := run
	if rest[0].IsKeyWord("set") {
		kind = SetSetting
		rest = rest[1:]
		if len(rest) == 0 {
			return nil, vberr.NewParseError(line, "Set requires a target")
		}
	}
	if eq := indexOfTopLevel(rest, "="); eq > 0 {
		return []CodeBlock{&ValueSettingStatement{
			lineRange: lineRange{line, line},
			Target:    rest[:eq],
			Value:     rest[eq+1:],
			Kind:      kind,
		}}, nil
	}
	if kind == SetSetting {
		return nil, vberr.NewParseError(line, "malformed Set statement")
	}
	return []CodeBlock{&Statement{
		lineRange: lineRange{line, line},
		Tokens:    standardiseBrackets(run),
	}}, nil
}

// indexOfTopLevel returns the index of the first operator token with the
// given symbol outside any brackets, or -1.
func indexOfTopLevel(run []lexer.Token, symbol string) int {
	depth := 0
	for i, t := range run {
		switch {
		case t.Is(lexer.OpenBrace):
			depth++
		case t.Is(lexer.CloseBrace):
			depth--
		case depth == 0 && t.IsOperatorContent(symbol):
			return i
		}
	}
	return -1
}

func splitTopLevel(run []lexer.Token, match func(lexer.Token) bool) [][]lexer.Token {
	var parts [][]lexer.Token
	depth := 0
	start := 0
	for i, t := range run {
		switch {
		case t.Is(lexer.OpenBrace):
			depth++
		case t.Is(lexer.CloseBrace):
			depth--
		case depth == 0 && match(t):
			parts = append(parts, run[start:i])
			start = i + 1
		}
	}
	return append(parts, run[start:])
}

// SplitOnSeparators splits a run on top-level argument separators.
func SplitOnSeparators(run []lexer.Token) [][]lexer.Token {
	return splitTopLevel(run, func(t lexer.Token) bool { return t.Is(lexer.ArgumentSeparator) })
}

func (p *blockParser) parseDim(rest []lexer.Token, line int, isPublic bool) ([]CodeBlock, error) {
	if len(rest) == 0 {
		return nil, vberr.NewParseError(line, "declaration requires at least one variable")
	}
	vars, err := parseDimVariables(rest, line)
	if err != nil {
		return nil, err
	}
	return []CodeBlock{&DimStatement{
		lineRange: lineRange{line, line},
		Variables: vars,
		IsPublic:  isPublic,
	}}, nil
}

func parseDimVariables(rest []lexer.Token, line int) ([]DimVariable, error) {
	var vars []DimVariable
	for _, part := range SplitOnSeparators(rest) {
		if len(part) == 0 || !part[0].IsNameLike() {
			return nil, vberr.NewParseError(line, "malformed variable declaration")
		}
		v := DimVariable{Name: part[0]}
		if len(part) > 1 {
			if !part[1].Is(lexer.OpenBrace) || !part[len(part)-1].Is(lexer.CloseBrace) {
				return nil, vberr.NewParseError(line, "malformed array declaration for "+part[0].Content)
			}
			v.HasBrackets = true
			inner := part[2 : len(part)-1]
			if len(inner) > 0 {
				v.Dimensions = SplitOnSeparators(inner)
			} else {
				v.Dimensions = [][]lexer.Token{}
			}
		}
		vars = append(vars, v)
	}
	return vars, nil
}

// parseConst lowers Const into a declaration plus an assignment.
func (p *blockParser) parseConst(rest []lexer.Token, line int) ([]CodeBlock, error) {
	eq := indexOfTopLevel(rest, "=")
	if eq != 1 || !rest[0].IsNameLike() || len(rest) < 3 {
		return nil, vberr.NewParseError(line, "malformed Const statement")
	}
	return []CodeBlock{
		&DimStatement{
			lineRange: lineRange{line, line},
			Variables: []DimVariable{{Name: rest[0]}},
		},
		&ValueSettingStatement{
			lineRange: lineRange{line, line},
			Target:    rest[:1],
			Value:     rest[2:],
			Kind:      LetSetting,
		},
	}, nil
}

func (p *blockParser) parseReDim(rest []lexer.Token, line int) ([]CodeBlock, error) {
	preserve := false
	if len(rest) > 0 && rest[0].IsKeyWord("preserve") {
		preserve = true
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, vberr.NewParseError(line, "ReDim requires at least one variable")
	}
	vars, err := parseDimVariables(rest, line)
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		if !v.HasBrackets || len(v.Dimensions) == 0 {
			return nil, vberr.NewParseError(line, "ReDim requires dimensions for "+v.Name.Content)
		}
	}
	return []CodeBlock{&ReDimStatement{
		lineRange: lineRange{line, line},
		Preserve:  preserve,
		Variables: vars,
	}}, nil
}

func (p *blockParser) parseOnError(run []lexer.Token, line int) ([]CodeBlock, error) {
	if runStartsWith(run, "on", "error", "resume") && len(run) == 4 && run[3].ContentIs("next") {
		return []CodeBlock{&OnErrorResumeNext{lineRange{line, line}}}, nil
	}
	if runStartsWith(run, "on", "error", "goto") && len(run) == 4 && run[3].Is(lexer.NumericLiteral) && run[3].Content == "0" {
		return []CodeBlock{&OnErrorGoto0{lineRange{line, line}}}, nil
	}
	return nil, vberr.NewParseError(line, "malformed On Error statement")
}

func (p *blockParser) parseExit(run []lexer.Token, line int) ([]CodeBlock, error) {
	if len(run) != 2 {
		return nil, vberr.NewParseError(line, "malformed Exit statement")
	}
	var kind ExitKind
	switch {
	case run[1].ContentIs("do"):
		kind = ExitDo
	case run[1].ContentIs("for"):
		kind = ExitFor
	case run[1].ContentIs("sub"):
		kind = ExitSub
	case run[1].ContentIs("function"):
		kind = ExitFunction
	case run[1].ContentIs("property"):
		kind = ExitProperty
	default:
		return nil, vberr.NewParseError(line, "Exit must name Do, For, Sub, Function or Property")
	}
	return []CodeBlock{&ExitStatement{lineRange{line, line}, kind}}, nil
}

func (p *blockParser) parseIf(run []lexer.Token, line int) ([]CodeBlock, error) {
	thenIdx := indexOfKeyWordTopLevel(run, "then")
	if thenIdx < 0 {
		return nil, vberr.NewParseError(line, "If without Then")
	}
	condition := run[1:thenIdx]
	if len(condition) == 0 {
		return nil, vberr.NewParseError(line, "If requires a condition")
	}
	rest := run[thenIdx+1:]
	if len(rest) > 0 {
		return p.parseSingleLineIf(condition, rest, line)
	}

	ifBlock := &IfBlock{lineRange: lineRange{line, line}}
	cond := condition
	condLine := line
	for {
		body, term, termLine, err := p.parseBlocks(terminatedBy(
			[]string{"elseif"}, []string{"else"}, []string{"end", "if"},
		))
		if err != nil {
			return nil, err
		}
		if term == nil {
			return nil, vberr.NewParseError(line, "unterminated If block")
		}
		ifBlock.Clauses = append(ifBlock.Clauses, ConditionalClause{Condition: cond, Body: body, Line: condLine})
		if runStartsWith(term, "elseif") {
			innerThen := indexOfKeyWordTopLevel(term, "then")
			if innerThen != len(term)-1 || innerThen < 2 {
				return nil, vberr.NewParseError(termLine, "malformed ElseIf")
			}
			cond = term[1:innerThen]
			condLine = termLine
			continue
		}
		if runStartsWith(term, "else") {
			elseBody, endTerm, endLine, err := p.parseBlocks(terminatedBy([]string{"end", "if"}))
			if err != nil {
				return nil, err
			}
			if endTerm == nil {
				return nil, vberr.NewParseError(line, "unterminated If block")
			}
			ifBlock.HasElse = true
			ifBlock.ElseBody = elseBody
			ifBlock.End = endLine
			return []CodeBlock{ifBlock}, nil
		}
		ifBlock.End = termLine
		return []CodeBlock{ifBlock}, nil
	}
}

// parseSingleLineIf normalises "If c Then x [Else y]" to the same IfBlock
// shape as the block form.
func (p *blockParser) parseSingleLineIf(condition, rest []lexer.Token, line int) ([]CodeBlock, error) {
	elseIdx := indexOfKeyWordTopLevel(rest, "else")
	var thenTokens, elseTokens []lexer.Token
	if elseIdx >= 0 {
		thenTokens = rest[:elseIdx]
		elseTokens = rest[elseIdx+1:]
	} else {
		thenTokens = rest
	}
	if len(thenTokens) == 0 {
		return nil, vberr.NewParseError(line, "If requires a statement after Then")
	}
	body, err := p.parseOne(thenTokens, line)
	if err != nil {
		return nil, err
	}
	ifBlock := &IfBlock{
		lineRange: lineRange{line, line},
		Clauses:   []ConditionalClause{{Condition: condition, Body: body, Line: line}},
	}
	if elseIdx >= 0 {
		if len(elseTokens) == 0 {
			return nil, vberr.NewParseError(line, "If requires a statement after Else")
		}
		elseBody, err := p.parseOne(elseTokens, line)
		if err != nil {
			return nil, err
		}
		ifBlock.HasElse = true
		ifBlock.ElseBody = elseBody
	}
	return []CodeBlock{ifBlock}, nil
}

func indexOfKeyWordTopLevel(run []lexer.Token, word string) int {
	depth := 0
	for i, t := range run {
		switch {
		case t.Is(lexer.OpenBrace):
			depth++
		case t.Is(lexer.CloseBrace):
			depth--
		case depth == 0 && t.IsKeyWord(word):
			return i
		}
	}
	return -1
}

func (p *blockParser) parseFor(run []lexer.Token, line int) ([]CodeBlock, error) {
	if runStartsWith(run, "for", "each") {
		if len(run) < 5 || !run[2].IsNameLike() || !run[3].IsKeyWord("in") {
			return nil, vberr.NewParseError(line, "malformed For Each statement")
		}
		body, term, termLine, err := p.parseBlocks(terminatedBy([]string{"next"}))
		if err != nil {
			return nil, err
		}
		if term == nil {
			return nil, vberr.NewParseError(line, "unterminated For Each block")
		}
		return []CodeBlock{&ForEachBlock{
			lineRange: lineRange{line, termLine},
			Variable:  run[2],
			In:        run[4:],
			Body:      body,
		}}, nil
	}

	if len(run) < 6 || !run[1].IsNameLike() || !run[2].IsOperatorContent("=") {
		return nil, vberr.NewParseError(line, "malformed For statement")
	}
	bounds := run[3:]
	toIdx := indexOfKeyWordTopLevel(bounds, "to")
	if toIdx <= 0 {
		return nil, vberr.NewParseError(line, "For without To")
	}
	from := bounds[:toIdx]
	toAndStep := bounds[toIdx+1:]
	stepIdx := indexOfKeyWordTopLevel(toAndStep, "step")
	forBlock := &ForBlock{
		lineRange: lineRange{line, line},
		Counter:   run[1],
		From:      from,
	}
	if stepIdx >= 0 {
		forBlock.To = toAndStep[:stepIdx]
		forBlock.Step = toAndStep[stepIdx+1:]
		forBlock.HasStep = true
	} else {
		forBlock.To = toAndStep
	}
	if len(forBlock.To) == 0 || (forBlock.HasStep && len(forBlock.Step) == 0) {
		return nil, vberr.NewParseError(line, "malformed For statement")
	}
	body, term, termLine, err := p.parseBlocks(terminatedBy([]string{"next"}))
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated For block")
	}
	forBlock.Body = body
	forBlock.End = termLine
	return []CodeBlock{forBlock}, nil
}

func (p *blockParser) parseDo(run []lexer.Token, line int) ([]CodeBlock, error) {
	doBlock := &DoBlock{lineRange: lineRange{line, line}}
	if len(run) > 1 {
		isUntil := run[1].IsKeyWord("until")
		if !isUntil && !run[1].IsKeyWord("while") {
			return nil, vberr.NewParseError(line, "malformed Do statement")
		}
		if len(run) < 3 {
			return nil, vberr.NewParseError(line, "Do While/Until requires a condition")
		}
		doBlock.ConditionPosition = PreCondition
		doBlock.IsUntil = isUntil
		doBlock.Condition = run[2:]
	}
	body, term, termLine, err := p.parseBlocks(terminatedBy([]string{"loop"}))
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated Do block")
	}
	if len(term) > 1 {
		if doBlock.ConditionPosition != NoCondition {
			return nil, vberr.NewParseError(termLine, "Do block may only have one condition")
		}
		isUntil := term[1].IsKeyWord("until")
		if !isUntil && !term[1].IsKeyWord("while") {
			return nil, vberr.NewParseError(termLine, "malformed Loop statement")
		}
		if len(term) < 3 {
			return nil, vberr.NewParseError(termLine, "Loop While/Until requires a condition")
		}
		doBlock.ConditionPosition = PostCondition
		doBlock.IsUntil = isUntil
		doBlock.Condition = term[2:]
	}
	doBlock.Body = body
	doBlock.End = termLine
	return []CodeBlock{doBlock}, nil
}

func (p *blockParser) parseWhile(run []lexer.Token, line int) ([]CodeBlock, error) {
	if len(run) < 2 {
		return nil, vberr.NewParseError(line, "While requires a condition")
	}
	body, term, termLine, err := p.parseBlocks(terminatedBy([]string{"wend"}))
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated While block")
	}
	return []CodeBlock{&WhileBlock{
		lineRange: lineRange{line, termLine},
		Condition: run[1:],
		Body:      body,
	}}, nil
}

func (p *blockParser) parseSelect(run []lexer.Token, line int) ([]CodeBlock, error) {
	if len(run) < 3 || !run[1].IsKeyWord("case") {
		return nil, vberr.NewParseError(line, "malformed Select Case statement")
	}
	selectBlock := &SelectBlock{
		lineRange: lineRange{line, line},
		Target:    run[2:],
	}
	// Nothing but comments may precede the first Case.
	leading, term, termLine, err := p.parseBlocks(terminatedBy([]string{"case"}, []string{"end", "select"}))
	if err != nil {
		return nil, err
	}
	for _, b := range leading {
		if _, ok := b.(*CommentStatement); !ok {
			return nil, vberr.NewParseError(line, "statements are not allowed before the first Case")
		}
	}
	for term != nil && runStartsWith(term, "case") {
		caseLine := termLine
		sc := SelectCase{Line: caseLine}
		if len(term) > 1 && term[1].IsKeyWord("else") {
			sc.IsElse = true
		} else {
			if len(term) < 2 {
				return nil, vberr.NewParseError(caseLine, "Case requires at least one value")
			}
			sc.Values = SplitOnSeparators(term[1:])
		}
		sc.Body, term, termLine, err = p.parseBlocks(terminatedBy([]string{"case"}, []string{"end", "select"}))
		if err != nil {
			return nil, err
		}
		selectBlock.Cases = append(selectBlock.Cases, sc)
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated Select block")
	}
	selectBlock.End = termLine
	return []CodeBlock{selectBlock}, nil
}

func (p *blockParser) parseClass(run []lexer.Token, line int) ([]CodeBlock, error) {
	if len(run) != 2 || !run[1].IsNameLike() {
		return nil, vberr.NewParseError(line, "malformed Class statement")
	}
	members, term, termLine, err := p.parseBlocks(terminatedBy([]string{"end", "class"}))
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated Class block")
	}
	return []CodeBlock{&ClassBlock{
		lineRange: lineRange{line, termLine},
		Name:      run[1],
		Members:   members,
	}}, nil
}

func (p *blockParser) parseWith(run []lexer.Token, line int) ([]CodeBlock, error) {
	if len(run) < 2 {
		return nil, vberr.NewParseError(line, "With requires a target")
	}
	body, term, termLine, err := p.parseBlocks(terminatedBy([]string{"end", "with"}))
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated With block")
	}
	return []CodeBlock{&WithBlock{
		lineRange: lineRange{line, termLine},
		Target:    run[1:],
		Body:      body,
	}}, nil
}

func (p *blockParser) parseProcedure(run []lexer.Token, line int, isPublic, isDefault bool) ([]CodeBlock, error) {
	kindWord := run[0]
	rest := run[1:]
	propertyKind := PropertyGet
	if kindWord.IsKeyWord("property") {
		if len(rest) == 0 {
			return nil, vberr.NewParseError(line, "Property requires Get, Let or Set")
		}
		switch {
		case rest[0].IsKeyWord("get"):
			propertyKind = PropertyGet
		case rest[0].IsKeyWord("let"):
			propertyKind = PropertyLet
		case rest[0].IsKeyWord("set"):
			propertyKind = PropertySet
		default:
			return nil, vberr.NewParseError(line, "Property requires Get, Let or Set")
		}
		rest = rest[1:]
	}
	if len(rest) == 0 || !rest[0].IsNameLike() {
		return nil, vberr.NewParseError(line, "procedure requires a name")
	}
	name := rest[0]
	params, err := parseParameters(rest[1:], line)
	if err != nil {
		return nil, err
	}
	terminatorWord := "sub"
	if kindWord.IsKeyWord("function") {
		terminatorWord = "function"
	} else if kindWord.IsKeyWord("property") {
		terminatorWord = "property"
	}
	body, term, termLine, err := p.parseBlocks(terminatedBy([]string{"end", terminatorWord}))
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, vberr.NewParseError(line, "unterminated "+kindWord.Content+" block")
	}
	switch terminatorWord {
	case "sub":
		return []CodeBlock{&SubBlock{
			lineRange: lineRange{line, termLine},
			Name:      name, Parameters: params, Body: body,
			IsPublic: isPublic, IsDefault: isDefault,
		}}, nil
	case "function":
		return []CodeBlock{&FunctionBlock{
			lineRange: lineRange{line, termLine},
			Name:      name, Parameters: params, Body: body,
			IsPublic: isPublic, IsDefault: isDefault,
		}}, nil
	default:
		return []CodeBlock{&PropertyBlock{
			lineRange: lineRange{line, termLine},
			Kind:      propertyKind,
			Name:      name, Parameters: params, Body: body,
			IsPublic: isPublic, IsDefault: isDefault,
		}}, nil
	}
}

func parseParameters(rest []lexer.Token, line int) ([]Parameter, error) {
	if len(rest) == 0 {
		return nil, nil
	}
	if !rest[0].Is(lexer.OpenBrace) || !rest[len(rest)-1].Is(lexer.CloseBrace) {
		return nil, vberr.NewParseError(line, "malformed parameter list")
	}
	inner := rest[1 : len(rest)-1]
	if len(inner) == 0 {
		return nil, nil
	}
	var params []Parameter
	for _, part := range SplitOnSeparators(inner) {
		byVal := false
		if len(part) > 0 && (part[0].IsKeyWord("byval") || part[0].IsKeyWord("byref")) {
			byVal = part[0].ContentIs("byval")
			part = part[1:]
		}
		if len(part) != 1 || !part[0].IsNameLike() {
			return nil, vberr.NewParseError(line, "malformed parameter list")
		}
		params = append(params, Parameter{Name: part[0], ByVal: byVal})
	}
	return params, nil
}
