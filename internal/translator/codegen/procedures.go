package codegen

import (
	"fmt"
	"strings"

	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/internal/parser"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

// procedure is the common shape of Sub, Function and Property blocks.
type procedure struct {
	name      lexer.Token
	params    []parser.Parameter
	body      []parser.CodeBlock
	hasReturn bool
	kind      parser.PropertyKind
	line      int
}

func asProcedure(block parser.CodeBlock) (procedure, error) {
	switch b := block.(type) {
	case *parser.SubBlock:
		return procedure{name: b.Name, params: b.Parameters, body: b.Body, line: b.StartLine()}, nil
	case *parser.FunctionBlock:
		return procedure{name: b.Name, params: b.Parameters, body: b.Body, hasReturn: true, line: b.StartLine()}, nil
	case *parser.PropertyBlock:
		return procedure{
			name: b.Name, params: b.Parameters, body: b.Body,
			hasReturn: b.Kind == parser.PropertyGet, kind: b.Kind, line: b.StartLine(),
		}, nil
	}
	return procedure{}, vberr.NewTranslationErrorAt(block.StartLine(), "not a procedure block")
}

func (g *generator) emitProcedure(block parser.CodeBlock, class *classInfo) error {
	proc, err := asProcedure(block)
	if err != nil {
		return err
	}
	key := g.rw(proc.name.Content)
	var info *functionInfo
	if class != nil {
		emitName := exported(key)
		if proc.kind == parser.PropertyLet || proc.kind == parser.PropertySet {
			emitName = "Set" + emitName
		}
		info = class.Methods[emitName]
	} else {
		info = g.functions[key]
	}
	if info == nil {
		return vberr.NewTranslationErrorAt(proc.line, "unresolved procedure "+proc.name.Content)
	}

	var sig strings.Builder
	for _, p := range info.Params {
		if p.ByVal {
			fmt.Fprintf(&sig, ", %s support.Value", p.EmitName)
		} else {
			fmt.Fprintf(&sig, ", %s *support.Value", p.EmitName)
		}
	}
	receiver := ""
	if class != nil {
		receiver = fmt.Sprintf("(o *%s) ", class.EmitName)
	}
	result := ""
	if proc.hasReturn {
		result = " (retVal support.Value)"
	}
	g.emitf(0, "func %s%s(%s *support.Support%s)%s {", receiver, info.EmitName, g.sup(), sig.String(), result)

	sc := newScope(class, info)
	sc.funcKey = key
	for _, p := range info.Params {
		if p.ByVal {
			sc.declare(p.EmitName)
		} else {
			sc.byRefParams[p.EmitName] = true
		}
	}
	if containsOnError(proc.body) {
		sc.errorToken = g.temp("err")
		sc.mayBeTrapped = true
		g.emitf(1, "%s := %s.GETERRORTRAPPINGTOKEN()", sc.errorToken, g.sup())
		g.emitf(1, "defer %s.RELEASEERRORTRAPPINGTOKEN(%s)", g.sup(), sc.errorToken)
	}
	sc.implicit.insertAt = len(g.out)
	if err := g.emitStatements(proc.body, sc, 1); err != nil {
		return err
	}
	g.spliceImplicitDecls(sc, 1)
	if proc.hasReturn {
		g.emit(1, "return")
	}
	g.emit(0, "}")
	return nil
}

func (g *generator) emitClass(block *parser.ClassBlock) error {
	class := g.classes[g.rw(block.Name.Content)]
	if class == nil {
		return vberr.NewTranslationErrorAt(block.StartLine(), "unresolved class "+block.Name.Content)
	}

	g.emitf(0, "type %s struct {", class.EmitName)
	g.emitf(1, "env *support.Support")
	for _, field := range class.FieldOrder {
		g.emitf(1, "%s support.Value", field)
	}
	g.emit(0, "}")

	g.emit(0, "")
	g.emitf(0, "func new%s(%s *support.Support) support.Value {", exported(class.EmitName), g.sup())
	g.emitf(1, "o := &%s{env: %s}", class.EmitName, g.sup())
	g.emitf(1, "v := %s.NEW(o)", g.sup())
	if class.InitName != "" {
		g.emitf(1, "o.%s(%s)", class.InitName, g.sup())
	}
	g.emit(1, "return v")
	g.emit(0, "}")

	g.emit(0, "")
	g.emitf(0, "func (o *%s) SourceClassName() string { return %q }", class.EmitName, class.SourceName)
	if class.DefaultMember != "" {
		g.emit(0, "")
		g.emitf(0, "func (o *%s) DefaultMember() support.Value { return o.%s(o.env) }", class.EmitName, class.DefaultMember)
	}
	if class.TermName != "" {
		g.emit(0, "")
		g.emitf(0, "func (o *%s) Dispose() { o.%s(o.env) }", class.EmitName, class.TermName)
	}

	for _, member := range block.Members {
		switch member.(type) {
		case *parser.SubBlock, *parser.FunctionBlock, *parser.PropertyBlock:
			g.emit(0, "")
			if err := g.emitProcedure(member, class); err != nil {
				return err
			}
		}
	}
	return nil
}
