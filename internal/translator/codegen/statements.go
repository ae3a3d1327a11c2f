package codegen

import (
	"fmt"
	"strings"

	"github.com/Magicianred/vbscripttranslator/internal/expressions"
	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/internal/parser"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

func (g *generator) emitStatements(blocks []parser.CodeBlock, sc *scopeAccess, indent int) error {
	for _, block := range blocks {
		if err := g.emitStatement(block, sc, indent); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) emitStatement(block parser.CodeBlock, sc *scopeAccess, indent int) error {
	switch b := block.(type) {
	case *parser.CommentStatement:
		text := strings.TrimRight(b.Text, " \t")
		switch {
		case text == "":
			g.emit(indent, "//")
		case strings.HasPrefix(text, " "):
			g.emitf(indent, "//%s", text)
		default:
			g.emitf(indent, "// %s", text)
		}
		return nil
	case *parser.OnErrorResumeNext:
		g.emitf(indent, "%s.STARTERRORTRAPPINGANDCLEARANYERROR(%s)", g.sup(), sc.errorToken)
		return nil
	case *parser.OnErrorGoto0:
		g.emitf(indent, "%s.STOPERRORTRAPPINGANDCLEARANYERROR(%s)", g.sup(), sc.errorToken)
		return nil
	case *parser.DimStatement:
		return g.emitDim(b, sc, indent)
	case *parser.ReDimStatement:
		return g.emitReDim(b, sc, indent)
	case *parser.ExitStatement:
		return g.emitExit(b, sc, indent)
	case *parser.Statement:
		return g.emitCallStatement(b, sc, indent)
	case *parser.ValueSettingStatement:
		return g.emitValueSetting(b, sc, indent)
	case *parser.IfBlock:
		return g.emitIf(b, sc, indent)
	case *parser.ForBlock:
		return g.emitFor(b, sc, indent)
	case *parser.ForEachBlock:
		return g.emitForEach(b, sc, indent)
	case *parser.DoBlock:
		return g.emitDo(b, sc, indent)
	case *parser.WhileBlock:
		return g.emitWhile(b, sc, indent)
	case *parser.SelectBlock:
		return g.emitSelect(b, sc, indent)
	case *parser.WithBlock:
		return g.emitWith(b, sc, indent)
	case *parser.SubBlock, *parser.FunctionBlock, *parser.PropertyBlock, *parser.ClassBlock:
		return vberr.NewTranslationErrorAt(block.StartLine(), "nested procedure definitions are not supported")
	}
	return vberr.NewTranslationErrorAt(block.StartLine(), "unsupported statement")
}

// guarded emits one statement line, wrapping it in the error-trap handler
// when the surrounding block may run under an active trap.
func (g *generator) guarded(sc *scopeAccess, indent int, stmt string) {
	if sc.mayBeTrapped && sc.errorToken != "" {
		g.emitf(indent, "%s.HANDLEERROR(%s, func() {", g.sup(), sc.errorToken)
		g.emit(indent+1, stmt)
		g.emitf(indent, "})")
		return
	}
	g.emit(indent, stmt)
}

func (g *generator) emitDim(b *parser.DimStatement, sc *scopeAccess, indent int) error {
	for _, v := range b.Variables {
		key := g.rw(v.Name.Content)
		if !sc.declared[key] {
			sc.declare(key)
			g.emitf(indent, "var %s support.Value", key)
			g.emitf(indent, "_ = %s", key)
		}
		if v.HasBrackets && len(v.Dimensions) > 0 {
			bounds, err := g.translateBounds(v.Dimensions, sc, b.StartLine())
			if err != nil {
				return err
			}
			g.guarded(sc, indent, fmt.Sprintf("%s = %s.NEWARRAY(%s)", key, g.sup(), bounds))
		}
	}
	return nil
}

func (g *generator) translateBounds(dimensions [][]lexer.Token, sc *scopeAccess, line int) (string, error) {
	parts := make([]string, 0, len(dimensions))
	for _, dim := range dimensions {
		expr, err := expressions.Parse(dim)
		if err != nil {
			return "", err
		}
		text, kind, err := g.translateExpression(expr, sc, line)
		if err != nil {
			return "", err
		}
		if kind == kindVoid {
			return "", vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a value")
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", "), nil
}

func (g *generator) emitReDim(b *parser.ReDimStatement, sc *scopeAccess, indent int) error {
	for _, v := range b.Variables {
		key := g.rw(v.Name.Content)
		ref := g.resolveVariable(key, sc, b.StartLine())
		bounds, err := g.translateBounds(v.Dimensions, sc, b.StartLine())
		if err != nil {
			return err
		}
		g.guarded(sc, indent, fmt.Sprintf("%s = %s.RESIZEARRAY(%s, %t, %s)",
			ref.assign, g.sup(), ref.read, b.Preserve, bounds))
	}
	return nil
}

func (g *generator) emitExit(b *parser.ExitStatement, sc *scopeAccess, indent int) error {
	switch b.Kind {
	case parser.ExitSub, parser.ExitFunction, parser.ExitProperty:
		g.emit(indent, "return")
		return nil
	}
	for i := len(sc.loops) - 1; i >= 0; i-- {
		frame := sc.loops[i]
		if frame.kind != b.Kind {
			continue
		}
		if i == len(sc.loops)-1 {
			g.emit(indent, "break")
			return nil
		}
		if frame.label == "" {
			return vberr.NewTranslationErrorAt(b.StartLine(), "cannot resolve the loop this Exit leaves")
		}
		g.emitf(indent, "break %s", frame.label)
		return nil
	}
	return vberr.NewTranslationErrorAt(b.StartLine(), "Exit used outside a matching loop")
}

func (g *generator) emitCallStatement(b *parser.Statement, sc *scopeAccess, indent int) error {
	if len(b.Tokens) == 0 {
		return nil
	}
	first := b.Tokens[0]
	if first.IsKeyWord("erase") || first.IsKeyWord("stop") || first.IsKeyWord("option") {
		return vberr.NewTranslationErrorAt(b.StartLine(), "unsupported construct "+first.Content)
	}
	expr, err := expressions.Parse(b.Tokens)
	if err != nil {
		return err
	}
	mappings := g.detectMappings([]expressions.Expression{expr}, sc)
	rewritten := g.openMappings(mappings, sc, indent)
	text, kind, err := g.translateExpression(expr, rewritten, b.StartLine())
	if err != nil {
		return err
	}
	if kind == kindValue {
		text = "_ = " + text
	}
	g.guarded(sc, indent, text)
	g.closeMappings(mappings, indent)
	return nil
}

func (g *generator) emitValueSetting(b *parser.ValueSettingStatement, sc *scopeAccess, indent int) error {
	line := b.StartLine()
	targetExpr, err := expressions.Parse(b.Target)
	if err != nil {
		return err
	}
	valueExpr, err := expressions.Parse(b.Value)
	if err != nil {
		return err
	}
	mappings := g.detectMappings([]expressions.Expression{targetExpr, valueExpr}, sc)
	rewritten := g.openMappings(mappings, sc, indent)

	valueText, valueKind, err := g.translateExpression(valueExpr, rewritten, line)
	if err != nil {
		return err
	}
	if valueKind == kindVoid {
		return vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a value")
	}
	wrap := "VAL"
	if b.Kind == parser.SetSetting {
		wrap = "OBJ"
	}
	rhs := fmt.Sprintf("%s.%s(%s)", g.sup(), wrap, valueText)

	stmt, err := g.assignmentFor(targetExpr, rhs, rewritten, line)
	if err != nil {
		return err
	}
	g.guarded(sc, indent, stmt)
	g.closeMappings(mappings, indent)
	return nil
}

// assignmentFor builds the assignment statement for a translated target:
// plain variables and the enclosing function's return slot assign directly,
// member and index targets route through SET.
func (g *generator) assignmentFor(target expressions.Expression, rhs string, sc *scopeAccess, line int) (string, error) {
	if key, ok := bareNameKey(g, target); ok && sc.function != nil && key == sc.funcKey && sc.function.HasReturn {
		return "retVal = " + rhs, nil
	}
	if key, ok := g.simpleVariableKey(target, sc); ok {
		ref := g.resolveVariable(key, sc, line)
		return ref.assign + " = " + rhs, nil
	}
	if len(target.Segments) != 1 {
		return "", vberr.NewTranslationErrorAt(line, "malformed assignment target")
	}
	cs, ok := target.Segments[0].(expressions.CallSegment)
	if !ok {
		return "", vberr.NewTranslationErrorAt(line, "malformed assignment target")
	}

	last := cs.Items[len(cs.Items)-1]
	args, err := g.plainArgs(last.Arguments, sc, line)
	if err != nil {
		return "", err
	}

	// a(1) = v with a single member: index assignment into a variable.
	if len(cs.Items) == 1 && len(last.MemberAccessTokens) == 1 && !cs.LeadingAccessor {
		if last.HasArguments {
			key := g.rw(last.MemberAccessTokens[0].Content)
			ref := g.resolveVariable(key, sc, line)
			return fmt.Sprintf("%s.SET(%s, %s, \"\"%s)", g.sup(), rhs, ref.read, args), nil
		}
		return "", vberr.NewTranslationErrorAt(line, "malformed assignment target")
	}

	// Member assignment: split off the final member; its arguments become
	// the SET arguments.
	member := last.MemberAccessTokens[len(last.MemberAccessTokens)-1]
	base := cs
	trimmed := last
	trimmed.MemberAccessTokens = last.MemberAccessTokens[:len(last.MemberAccessTokens)-1]
	trimmed.Arguments = nil
	trimmed.HasArguments = false
	trimmed.ZeroArgBrackets = false
	if len(trimmed.MemberAccessTokens) == 0 {
		base.Items = append([]expressions.CallItem{}, cs.Items[:len(cs.Items)-1]...)
	} else {
		base.Items = append(append([]expressions.CallItem{}, cs.Items[:len(cs.Items)-1]...), trimmed)
	}

	var baseText string
	if len(base.Items) == 0 {
		if !cs.LeadingAccessor {
			return "", vberr.NewTranslationErrorAt(line, "malformed assignment target")
		}
		if sc.withTarget == "" {
			return "", vberr.NewTranslationErrorAt(line, "member accessor used outside a With block")
		}
		baseText = sc.withTarget
	} else {
		text, _, err := g.translateCall(base, sc, line)
		if err != nil {
			return "", err
		}
		baseText = text
	}
	return fmt.Sprintf("%s.SET(%s, %s, %q%s)", g.sup(), rhs, baseText, g.rw(member.Content), args), nil
}
