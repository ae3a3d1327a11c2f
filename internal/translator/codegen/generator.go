package codegen

import (
	"fmt"
	"strings"

	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/internal/parser"
	"github.com/Magicianred/vbscripttranslator/internal/translator"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

// ProgramName is the function wrapping the outermost translated statements.
const ProgramName = "TranslatedProgram"

type generator struct {
	opts      translator.Options
	out       []translator.TranslatedStatement
	tempCount int
	functions map[string]*functionInfo
	classes   map[string]*classInfo
}

type functionInfo struct {
	EmitName  string
	Params    []paramInfo
	HasReturn bool
	OnClass   *classInfo
}

type paramInfo struct {
	EmitName string
	ByVal    bool
}

type classInfo struct {
	EmitName      string
	SourceName    string
	Fields        map[string]string
	FieldOrder    []string
	Methods       map[string]*functionInfo
	DefaultMember string
	InitName      string
	TermName      string
}

// NewGenerator creates a CodeGenerator for the given options.
func NewGenerator(opts translator.Options) translator.CodeGenerator {
	return &generator{opts: opts}
}

func (g *generator) Generate(blocks []parser.CodeBlock) ([]translator.TranslatedStatement, error) {
	if err := g.opts.Validate(); err != nil {
		return nil, err
	}
	g.out = nil
	g.tempCount = 0
	g.functions = make(map[string]*functionInfo)
	g.classes = make(map[string]*classInfo)

	if err := g.collectMetadata(blocks); err != nil {
		return nil, err
	}

	var outer []parser.CodeBlock
	var procedures []parser.CodeBlock
	var classes []*parser.ClassBlock
	for _, block := range blocks {
		switch b := block.(type) {
		case *parser.SubBlock, *parser.FunctionBlock, *parser.PropertyBlock:
			procedures = append(procedures, b)
		case *parser.ClassBlock:
			classes = append(classes, b)
		default:
			outer = append(outer, block)
		}
	}

	if err := g.emitProgram(outer); err != nil {
		return nil, err
	}
	for _, block := range procedures {
		g.emit(0, "")
		if err := g.emitProcedure(block, nil); err != nil {
			return nil, err
		}
	}
	for _, class := range classes {
		g.emit(0, "")
		if err := g.emitClass(class); err != nil {
			return nil, err
		}
	}
	return g.out, nil
}

func (g *generator) emit(indent int, text string) {
	g.out = append(g.out, translator.TranslatedStatement{Indent: indent, Text: text})
}

func (g *generator) emitf(indent int, format string, args ...any) {
	g.emit(indent, fmt.Sprintf(format, args...))
}

func (g *generator) warnf(format string, args ...any) {
	g.opts.Warn(fmt.Sprintf(format, args...))
}

// sup is the facade reference name in emitted code.
func (g *generator) sup() string {
	return g.opts.SupportClassName
}

func (g *generator) temp(kind string) string {
	g.tempCount++
	return fmt.Sprintf("_%s_%d", kind, g.tempCount)
}

// goReserved guards rewritten names against the target language's keywords
// and the identifiers the emitted scaffolding claims for itself.
var goReserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
	"retVal": true, "support": true, "o": true, "env": true,
}

// rw applies the host name rewriter. The rewritten form is the identity used
// for every comparison.
func (g *generator) rw(name string) string {
	rewritten := g.opts.NameRewriter(name)
	if goReserved[rewritten] || rewritten == g.sup() {
		return rewritten + "_"
	}
	return rewritten
}

// exported upper-cases the first rune so the name is reachable through the
// reflection-based member dispatch.
func exported(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// collectMetadata records every top-level procedure and class so call sites
// can resolve callees and their by-ref parameter positions.
func (g *generator) collectMetadata(blocks []parser.CodeBlock) error {
	for _, block := range blocks {
		switch b := block.(type) {
		case *parser.SubBlock:
			g.addFunction(b.Name, b.Parameters, false, nil, parser.PropertyGet, false)
		case *parser.FunctionBlock:
			g.addFunction(b.Name, b.Parameters, true, nil, parser.PropertyGet, false)
		case *parser.PropertyBlock:
			return vberr.NewParseError(b.StartLine(), "Property may only appear inside a class")
		case *parser.ClassBlock:
			if err := g.collectClass(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) addFunction(name lexer.Token, params []parser.Parameter, hasReturn bool, class *classInfo, kind parser.PropertyKind, isDefault bool) *functionInfo {
	emitName := g.rw(name.Content)
	if class != nil {
		emitName = exported(emitName)
		if kind == parser.PropertyLet || kind == parser.PropertySet {
			emitName = "Set" + emitName
		}
	}
	info := &functionInfo{
		EmitName:  emitName,
		HasReturn: hasReturn,
		OnClass:   class,
	}
	for _, p := range params {
		info.Params = append(info.Params, paramInfo{EmitName: g.rw(p.Name.Content), ByVal: p.ByVal})
	}
	if class != nil {
		class.Methods[emitName] = info
		if isDefault && kind == parser.PropertyGet && len(params) == 0 {
			class.DefaultMember = emitName
		}
	} else {
		g.functions[g.rw(name.Content)] = info
	}
	return info
}

func (g *generator) collectClass(block *parser.ClassBlock) error {
	class := &classInfo{
		EmitName:   g.rw(block.Name.Content),
		SourceName: block.Name.Content,
		Fields:     make(map[string]string),
		Methods:    make(map[string]*functionInfo),
	}
	for _, member := range block.Members {
		switch m := member.(type) {
		case *parser.DimStatement:
			for _, v := range m.Variables {
				if v.HasBrackets {
					return vberr.NewParseError(m.StartLine(), "array members must be dimensioned in Class_Initialize")
				}
				key := g.rw(v.Name.Content)
				if _, exists := class.Fields[key]; !exists {
					class.Fields[key] = key
					class.FieldOrder = append(class.FieldOrder, key)
				}
			}
		case *parser.SubBlock:
			info := g.addFunction(m.Name, m.Parameters, false, class, parser.PropertyGet, m.IsDefault)
			switch strings.ToLower(m.Name.Content) {
			case "class_initialize":
				class.InitName = info.EmitName
			case "class_terminate":
				class.TermName = info.EmitName
			}
		case *parser.FunctionBlock:
			g.addFunction(m.Name, m.Parameters, true, class, parser.PropertyGet, m.IsDefault)
		case *parser.PropertyBlock:
			g.addFunction(m.Name, m.Parameters, m.Kind == parser.PropertyGet, class, m.Kind, m.IsDefault)
		case *parser.CommentStatement:
		default:
			return vberr.NewParseError(member.StartLine(), "unsupported statement inside a class body")
		}
	}
	g.classes[g.rw(block.Name.Content)] = class
	return nil
}

// containsOnError reports whether a body (not descending into nested
// procedures) registers an error trap, deciding whether the scope needs a
// trapping token.
func containsOnError(blocks []parser.CodeBlock) bool {
	for _, block := range blocks {
		switch b := block.(type) {
		case *parser.OnErrorResumeNext, *parser.OnErrorGoto0:
			return true
		case *parser.IfBlock:
			for _, clause := range b.Clauses {
				if containsOnError(clause.Body) {
					return true
				}
			}
			if containsOnError(b.ElseBody) {
				return true
			}
		case *parser.ForBlock:
			if containsOnError(b.Body) {
				return true
			}
		case *parser.ForEachBlock:
			if containsOnError(b.Body) {
				return true
			}
		case *parser.DoBlock:
			if containsOnError(b.Body) {
				return true
			}
		case *parser.WhileBlock:
			if containsOnError(b.Body) {
				return true
			}
		case *parser.SelectBlock:
			for _, c := range b.Cases {
				if containsOnError(c.Body) {
					return true
				}
			}
		case *parser.WithBlock:
			if containsOnError(b.Body) {
				return true
			}
		}
	}
	return false
}

func (g *generator) emitProgram(outer []parser.CodeBlock) error {
	g.emitf(0, "func %s(%s *support.Support) {", ProgramName, g.sup())
	sc := newScope(nil, nil)
	if containsOnError(outer) {
		sc.errorToken = g.temp("err")
		sc.mayBeTrapped = true
		g.emitf(1, "%s := %s.GETERRORTRAPPINGTOKEN()", sc.errorToken, g.sup())
		g.emitf(1, "defer %s.RELEASEERRORTRAPPINGTOKEN(%s)", g.sup(), sc.errorToken)
	}
	sc.implicit.insertAt = len(g.out)
	if err := g.emitStatements(outer, sc, 1); err != nil {
		return err
	}
	g.spliceImplicitDecls(sc, 1)
	g.emit(0, "}")
	return nil
}

// spliceImplicitDecls inserts declarations for names that were referenced
// without ever being declared; the references were warned about as they were
// found.
func (g *generator) spliceImplicitDecls(sc *scopeAccess, indent int) {
	if len(sc.implicit.names) == 0 {
		return
	}
	decls := make([]translator.TranslatedStatement, 0, len(sc.implicit.names)*2)
	for _, name := range sc.implicit.names {
		decls = append(decls,
			translator.TranslatedStatement{Indent: indent, Text: fmt.Sprintf("var %s support.Value", name)},
			translator.TranslatedStatement{Indent: indent, Text: fmt.Sprintf("_ = %s", name)})
	}
	at := sc.implicit.insertAt
	g.out = append(g.out[:at], append(decls, g.out[at:]...)...)
}
