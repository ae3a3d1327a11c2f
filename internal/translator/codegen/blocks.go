package codegen

import (
	"fmt"
	"strings"

	"github.com/Magicianred/vbscripttranslator/internal/expressions"
	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/internal/parser"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

// emitCondition lowers a boolean-test position through the three-form
// cascade: by-ref rewriting with a result temporary, trap-aware closure
// evaluation, or a plain value test. The returned text is the condition
// expression; needsPre reports that supporting statements were emitted
// before it.
func (g *generator) emitCondition(tokens []lexer.Token, sc *scopeAccess, indent int) (string, bool, error) {
	expr, err := expressions.Parse(tokens)
	if err != nil {
		return "", false, err
	}
	line := 0
	if t, ok := expr.FirstToken(); ok {
		line = t.Line
	}
	mappings := g.detectMappings([]expressions.Expression{expr}, sc)
	if len(mappings) > 0 {
		rewritten := g.openMappings(mappings, sc, indent)
		text, kind, err := g.translateExpression(expr, rewritten, line)
		if err != nil {
			return "", false, err
		}
		if kind == kindVoid {
			return "", false, vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a condition")
		}
		result := g.temp("ifres")
		if sc.errorToken != "" {
			g.emitf(indent, "%s := %s.IFERR(func() support.Value { return %s }, %s)",
				result, g.sup(), text, sc.errorToken)
		} else {
			g.emitf(indent, "%s := %s.IF(%s)", result, g.sup(), text)
		}
		g.closeMappings(mappings, indent)
		return result, true, nil
	}
	text, kind, err := g.translateExpression(expr, sc, line)
	if err != nil {
		return "", false, err
	}
	if kind == kindVoid {
		return "", false, vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a condition")
	}
	if sc.mayBeTrapped && sc.errorToken != "" {
		return fmt.Sprintf("%s.IFERR(func() support.Value { return %s }, %s)", g.sup(), text, sc.errorToken), false, nil
	}
	return fmt.Sprintf("%s.IF(%s)", g.sup(), text), false, nil
}

// conditionNeedsPre reports whether a condition will need supporting
// statements, deciding between else-if chaining and else nesting before
// anything is emitted.
func (g *generator) conditionNeedsPre(tokens []lexer.Token, sc *scopeAccess) bool {
	expr, err := expressions.Parse(tokens)
	if err != nil {
		return false
	}
	return len(g.detectMappings([]expressions.Expression{expr}, sc)) > 0
}

// emitIf renders an If/ElseIf/Else chain. Clauses stay an else-if chain
// until a predecessor needed by-ref rewriting; from then on each subsequent
// clause nests inside an else block so its alias open/evaluate/close runs
// only when control reaches it.
func (g *generator) emitIf(b *parser.IfBlock, sc *scopeAccess, indent int) error {
	nesting := 0
	anyPre := false
	for i, clause := range b.Clauses {
		needsPre := g.conditionNeedsPre(clause.Condition, sc)
		switch {
		case i == 0:
			cond, _, err := g.emitCondition(clause.Condition, sc, indent)
			if err != nil {
				return err
			}
			g.emitf(indent, "if %s {", cond)
		case !anyPre && !needsPre:
			cond, _, err := g.emitCondition(clause.Condition, sc, indent+nesting)
			if err != nil {
				return err
			}
			g.emitf(indent+nesting, "} else if %s {", cond)
		default:
			g.emitf(indent+nesting, "} else {")
			nesting++
			cond, _, err := g.emitCondition(clause.Condition, sc, indent+nesting)
			if err != nil {
				return err
			}
			g.emitf(indent+nesting, "if %s {", cond)
		}
		if needsPre {
			anyPre = true
		}
		if err := g.emitStatements(clause.Body, sc.child(), indent+nesting+1); err != nil {
			return err
		}
	}
	if b.HasElse {
		g.emitf(indent+nesting, "} else {")
		if err := g.emitStatements(b.ElseBody, sc.child(), indent+nesting+1); err != nil {
			return err
		}
	}
	for n := nesting; n >= 0; n-- {
		g.emit(indent+n, "}")
	}
	return nil
}

// loopBound evaluates one For bound into a temporary, trap-wrapped when
// needed.
func (g *generator) loopBound(kind string, tokens []lexer.Token, sc *scopeAccess, indent int, line int) (string, error) {
	name := g.temp(kind)
	var text string
	if tokens == nil {
		text = "support.Int16Value(1)"
	} else {
		expr, err := expressions.Parse(tokens)
		if err != nil {
			return "", err
		}
		inner, exprKind, err := g.translateExpression(expr, sc, line)
		if err != nil {
			return "", err
		}
		if exprKind == kindVoid {
			return "", vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a value")
		}
		text = fmt.Sprintf("%s.NUM(%s)", g.sup(), inner)
	}
	if sc.mayBeTrapped && sc.errorToken != "" {
		g.emitf(indent, "var %s support.Value", name)
		g.guarded(sc, indent, fmt.Sprintf("%s = %s", name, text))
		return name, nil
	}
	g.emitf(indent, "%s := %s", name, text)
	return name, nil
}

func (g *generator) emitFor(b *parser.ForBlock, sc *scopeAccess, indent int) error {
	line := b.StartLine()
	key := g.rw(b.Counter.Content)
	ref := g.resolveVariable(key, sc, line)

	from, err := g.loopBound("from", b.From, sc, indent, line)
	if err != nil {
		return err
	}
	to, err := g.loopBound("to", b.To, sc, indent, line)
	if err != nil {
		return err
	}
	var step []lexer.Token
	if b.HasStep {
		step = b.Step
	}
	stepName, err := g.loopBound("step", step, sc, indent, line)
	if err != nil {
		return err
	}

	label := g.labelFor(b.Body, parser.ExitFor, indent)
	g.emitf(indent, "for %s = %s; %s.FORCONTINUE(%s, %s, %s); %s = %s.ADD(%s, %s) {",
		ref.assign, from, g.sup(), ref.read, to, stepName, ref.assign, g.sup(), ref.read, stepName)
	body := sc.child()
	body.loops = append(append([]loopFrame{}, sc.loops...), loopFrame{kind: parser.ExitFor, label: label})
	if err := g.emitStatements(b.Body, body, indent+1); err != nil {
		return err
	}
	g.emit(indent, "}")
	return nil
}

func (g *generator) emitForEach(b *parser.ForEachBlock, sc *scopeAccess, indent int) error {
	line := b.StartLine()
	key := g.rw(b.Variable.Content)
	ref := g.resolveVariable(key, sc, line)

	expr, err := expressions.Parse(b.In)
	if err != nil {
		return err
	}
	collection, kind, err := g.translateExpression(expr, sc, line)
	if err != nil {
		return err
	}
	if kind == kindVoid {
		return vberr.NewTranslationErrorAt(line, "a Sub call cannot be enumerated")
	}
	items := g.temp("items")
	enumerate := fmt.Sprintf("%s.ENUMERATE(%s)", g.sup(), collection)
	if sc.mayBeTrapped && sc.errorToken != "" {
		g.emitf(indent, "var %s []support.Value", items)
		g.guarded(sc, indent, fmt.Sprintf("%s = %s", items, enumerate))
	} else {
		g.emitf(indent, "%s := %s", items, enumerate)
	}

	label := g.labelFor(b.Body, parser.ExitFor, indent)
	element := g.temp("item")
	g.emitf(indent, "for _, %s := range %s {", element, items)
	g.emitf(indent+1, "%s = %s", ref.assign, element)
	body := sc.child()
	body.loops = append(append([]loopFrame{}, sc.loops...), loopFrame{kind: parser.ExitFor, label: label})
	if err := g.emitStatements(b.Body, body, indent+1); err != nil {
		return err
	}
	g.emit(indent, "}")
	return nil
}

// noExit is the loop-frame kind for loops the source language cannot exit
// (While ... Wend).
const noExit parser.ExitKind = -1

func (g *generator) emitDo(b *parser.DoBlock, sc *scopeAccess, indent int) error {
	label := g.labelFor(b.Body, parser.ExitDo, indent)
	body := sc.child()
	body.loops = append(append([]loopFrame{}, sc.loops...), loopFrame{kind: parser.ExitDo, label: label})

	switch b.ConditionPosition {
	case parser.PreCondition:
		needsPre := g.conditionNeedsPre(b.Condition, sc)
		if needsPre {
			g.emit(indent, "for {")
			cond, _, err := g.emitCondition(b.Condition, sc, indent+1)
			if err != nil {
				return err
			}
			g.emitf(indent+1, "if %s {", negateIf(!b.IsUntil, cond))
			g.emit(indent+2, "break")
			g.emit(indent+1, "}")
		} else {
			cond, _, err := g.emitCondition(b.Condition, sc, indent)
			if err != nil {
				return err
			}
			g.emitf(indent, "for %s {", negateIf(b.IsUntil, cond))
		}
		if err := g.emitStatements(b.Body, body, indent+1); err != nil {
			return err
		}
		g.emit(indent, "}")
	case parser.PostCondition:
		g.emit(indent, "for {")
		if err := g.emitStatements(b.Body, body, indent+1); err != nil {
			return err
		}
		cond, _, err := g.emitCondition(b.Condition, sc, indent+1)
		if err != nil {
			return err
		}
		g.emitf(indent+1, "if %s {", negateIf(!b.IsUntil, cond))
		g.emit(indent+2, "break")
		g.emit(indent+1, "}")
		g.emit(indent, "}")
	default:
		g.emit(indent, "for {")
		if err := g.emitStatements(b.Body, body, indent+1); err != nil {
			return err
		}
		g.emit(indent, "}")
	}
	return nil
}

// negateIf wraps a boolean expression in a negation when required.
func negateIf(negate bool, cond string) string {
	if !negate {
		return cond
	}
	return "!" + cond
}

func (g *generator) emitWhile(b *parser.WhileBlock, sc *scopeAccess, indent int) error {
	needsPre := g.conditionNeedsPre(b.Condition, sc)
	body := sc.child()
	body.loops = append(append([]loopFrame{}, sc.loops...), loopFrame{kind: noExit})
	if needsPre {
		g.emit(indent, "for {")
		cond, _, err := g.emitCondition(b.Condition, sc, indent+1)
		if err != nil {
			return err
		}
		g.emitf(indent+1, "if !%s {", cond)
		g.emit(indent+2, "break")
		g.emit(indent+1, "}")
		if err := g.emitStatements(b.Body, body, indent+1); err != nil {
			return err
		}
		g.emit(indent, "}")
		return nil
	}
	cond, _, err := g.emitCondition(b.Condition, sc, indent)
	if err != nil {
		return err
	}
	g.emitf(indent, "for %s {", cond)
	if err := g.emitStatements(b.Body, body, indent+1); err != nil {
		return err
	}
	g.emit(indent, "}")
	return nil
}

func (g *generator) emitSelect(b *parser.SelectBlock, sc *scopeAccess, indent int) error {
	line := b.StartLine()
	expr, err := expressions.Parse(b.Target)
	if err != nil {
		return err
	}
	target, kind, err := g.translateExpression(expr, sc, line)
	if err != nil {
		return err
	}
	if kind == kindVoid {
		return vberr.NewTranslationErrorAt(line, "a Sub call cannot be selected on")
	}
	selected := g.temp("sel")
	evaluate := fmt.Sprintf("%s.VAL(%s)", g.sup(), target)
	if sc.mayBeTrapped && sc.errorToken != "" {
		g.emitf(indent, "var %s support.Value", selected)
		g.guarded(sc, indent, fmt.Sprintf("%s = %s", selected, evaluate))
	} else {
		g.emitf(indent, "%s := %s", selected, evaluate)
	}

	opened := false
	for _, c := range b.Cases {
		if c.IsElse {
			if opened {
				g.emitf(indent, "} else {")
			} else {
				g.emit(indent, "{")
			}
		} else {
			tests := make([]string, 0, len(c.Values))
			for _, valueTokens := range c.Values {
				valueExpr, err := expressions.Parse(valueTokens)
				if err != nil {
					return err
				}
				text, vKind, err := g.translateExpression(valueExpr, sc, c.Line)
				if err != nil {
					return err
				}
				if vKind == kindVoid {
					return vberr.NewTranslationErrorAt(c.Line, "a Sub call cannot be used as a Case value")
				}
				tests = append(tests, fmt.Sprintf("%s.IF(%s.EQ(%s, %s))", g.sup(), g.sup(), selected, text))
			}
			condition := strings.Join(tests, " || ")
			if opened {
				g.emitf(indent, "} else if %s {", condition)
			} else {
				g.emitf(indent, "if %s {", condition)
			}
		}
		opened = true
		if err := g.emitStatements(c.Body, sc.child(), indent+1); err != nil {
			return err
		}
	}
	if opened {
		g.emit(indent, "}")
	}
	return nil
}

func (g *generator) emitWith(b *parser.WithBlock, sc *scopeAccess, indent int) error {
	line := b.StartLine()
	expr, err := expressions.Parse(b.Target)
	if err != nil {
		return err
	}
	target, kind, err := g.translateExpression(expr, sc, line)
	if err != nil {
		return err
	}
	if kind == kindVoid {
		return vberr.NewTranslationErrorAt(line, "a Sub call cannot be a With target")
	}
	name := g.temp("with")
	if sc.mayBeTrapped && sc.errorToken != "" {
		g.emitf(indent, "var %s support.Value", name)
		g.guarded(sc, indent, fmt.Sprintf("%s = %s", name, target))
	} else {
		g.emitf(indent, "%s := %s", name, target)
	}
	g.emitf(indent, "_ = %s", name)
	body := sc.child()
	body.withTarget = name
	return g.emitStatements(b.Body, body, indent)
}

// labelFor labels a loop when its body contains an Exit that a nested loop
// of another kind would otherwise capture.
func (g *generator) labelFor(body []parser.CodeBlock, kind parser.ExitKind, indent int) string {
	if !bodyNeedsLabel(body, kind) {
		return ""
	}
	label := g.temp("loop")
	g.emitf(indent, "%s:", label)
	return label
}

// bodyNeedsLabel walks the body looking for an Exit of the given kind that
// sits beneath an intervening loop of a different kind.
func bodyNeedsLabel(blocks []parser.CodeBlock, kind parser.ExitKind) bool {
	var walk func(blocks []parser.CodeBlock, depth int) bool
	walk = func(blocks []parser.CodeBlock, depth int) bool {
		for _, block := range blocks {
			switch b := block.(type) {
			case *parser.ExitStatement:
				if b.Kind == kind && depth > 0 {
					return true
				}
			case *parser.ForBlock:
				if kind != parser.ExitFor && walk(b.Body, depth+1) {
					return true
				}
			case *parser.ForEachBlock:
				if kind != parser.ExitFor && walk(b.Body, depth+1) {
					return true
				}
			case *parser.DoBlock:
				if kind != parser.ExitDo && walk(b.Body, depth+1) {
					return true
				}
			case *parser.WhileBlock:
				if walk(b.Body, depth+1) {
					return true
				}
			case *parser.IfBlock:
				for _, clause := range b.Clauses {
					if walk(clause.Body, depth) {
						return true
					}
				}
				if walk(b.ElseBody, depth) {
					return true
				}
			case *parser.SelectBlock:
				for _, c := range b.Cases {
					if walk(c.Body, depth) {
						return true
					}
				}
			case *parser.WithBlock:
				if walk(b.Body, depth) {
					return true
				}
			}
		}
		return false
	}
	return walk(blocks, 0)
}
