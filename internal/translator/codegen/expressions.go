package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Magicianred/vbscripttranslator/internal/expressions"
	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/vberr"
)

// exprKind describes what shape the emitted expression text has, so
// statement emission knows whether it may stand alone.
type exprKind int

const (
	kindValue exprKind = iota // a variable or literal read
	kindCall                  // a call expression
	kindVoid                  // a Sub call that yields nothing
)

// binaryOps maps source operators to runtime facade operations.
var binaryOps = map[string]string{
	"^": "POW", "/": "DIV", "*": "MULT", "\\": "INTDIV", "mod": "MOD",
	"+": "ADD", "-": "SUBT", "&": "CONCAT",
	"=": "EQ", "<>": "NOTEQ", "<": "LT", ">": "GT", "<=": "LTE", ">=": "GTE",
	"is": "IS",
	"and": "AND", "or": "OR", "xor": "XOR", "eqv": "EQV", "imp": "IMP",
}

// builtinEmit maps folded built-in names to facade methods.
var builtinEmit = map[string]string{
	"len": "LEN", "mid": "MID", "left": "LEFT", "right": "RIGHT",
	"trim": "TRIM", "ltrim": "LTRIM", "rtrim": "RTRIM",
	"ucase": "UCASE", "lcase": "LCASE", "strcomp": "STRCOMP",
	"instr": "INSTR", "instrrev": "INSTRREV", "replace": "REPLACE",
	"space": "SPACE", "string": "STRING", "chr": "CHR", "asc": "ASC",
	"cbyte": "CBYTE", "cint": "CINT", "clng": "CLNG", "csng": "CSNG",
	"cdbl": "CDBL", "ccur": "CCUR", "cbool": "CBOOL", "cdate": "CDATE",
	"cstr": "CSTR",
	"abs": "ABS", "sgn": "SGN", "int": "INT", "fix": "FIX", "rnd": "RND",
	"sqr": "SQR", "randomize": "RANDOMIZE",
	"isnull": "ISNULL", "isempty": "ISEMPTY", "isnumeric": "ISNUMERIC",
	"isobject": "ISOBJECT", "isdate": "ISDATE", "isarray": "ISARRAY",
	"typename": "TYPENAME", "vartype": "VARTYPE",
	"now": "NOW", "date": "DATE", "time": "TIME",
	"array": "ARRAY", "ubound": "UBOUND", "lbound": "LBOUND",
	"createobject": "CREATEOBJECT", "err": "ERR",
}

// builtinValueEmit maps folded built-in value names to emitted literals.
var builtinValueEmit = map[string]string{
	"true":          "support.BoolValue(true)",
	"false":         "support.BoolValue(false)",
	"null":          "support.NullValue()",
	"empty":         "support.EmptyValue()",
	"nothing":       "support.NothingValue()",
	"vbcrlf":        `support.StringValue("\r\n")`,
	"vbcr":          `support.StringValue("\r")`,
	"vblf":          `support.StringValue("\n")`,
	"vbtab":         `support.StringValue("\t")`,
	"vbnullstring":  `support.StringValue("")`,
	"vbobjecterror": "support.Int32Value(-2147221504)",
}

func (g *generator) translateExpression(e expressions.Expression, sc *scopeAccess, line int) (string, exprKind, error) {
	switch len(e.Segments) {
	case 1:
		return g.translateSegment(e.Segments[0], sc, line)
	case 2:
		op, ok := e.Segments[0].(expressions.OperationSegment)
		if !ok {
			return "", 0, vberr.NewTranslationErrorAt(line, "malformed unary expression")
		}
		operand, _, err := g.translateSegment(e.Segments[1], sc, line)
		if err != nil {
			return "", 0, err
		}
		switch {
		case op.Token.ContentIs("not"):
			return fmt.Sprintf("%s.NOT(%s)", g.sup(), operand), kindCall, nil
		case op.Token.Content == "-":
			return fmt.Sprintf("%s.SUBT(%s)", g.sup(), operand), kindCall, nil
		case op.Token.Content == "+":
			return operand, kindCall, nil
		}
		return "", 0, vberr.NewTranslationErrorAt(line, "unsupported unary operator "+op.Token.Content)
	case 3:
		op, ok := e.Segments[1].(expressions.OperationSegment)
		if !ok {
			return "", 0, vberr.NewTranslationErrorAt(line, "malformed binary expression")
		}
		runtimeOp, known := binaryOps[strings.ToLower(op.Token.Content)]
		if !known {
			return "", 0, vberr.NewTranslationErrorAt(line, "unsupported operator "+op.Token.Content)
		}
		left, _, err := g.translateSegment(e.Segments[0], sc, line)
		if err != nil {
			return "", 0, err
		}
		right, _, err := g.translateSegment(e.Segments[2], sc, line)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("%s.%s(%s, %s)", g.sup(), runtimeOp, left, right), kindCall, nil
	}
	return "", 0, vberr.NewTranslationErrorAt(line, "malformed expression")
}

func (g *generator) translateSegment(seg expressions.Segment, sc *scopeAccess, line int) (string, exprKind, error) {
	switch s := seg.(type) {
	case expressions.NumericValueSegment:
		return renderNumericLiteral(s), kindValue, nil
	case expressions.StringValueSegment:
		return fmt.Sprintf("support.StringValue(%s)", strconv.Quote(s.Token.Content)), kindValue, nil
	case expressions.BuiltinValueSegment:
		text, ok := builtinValueEmit[strings.ToLower(s.Token.Content)]
		if !ok {
			return "", 0, vberr.NewTranslationErrorAt(line, "unsupported built-in value "+s.Token.Content)
		}
		return text, kindValue, nil
	case expressions.BracketedSegment:
		inner, kind, err := g.translateExpression(s.Expression, sc, line)
		if err != nil {
			return "", 0, err
		}
		if kind == kindCall {
			// Calls already parenthesise themselves.
			return inner, kindCall, nil
		}
		return "(" + inner + ")", kindCall, nil
	case expressions.OperationSegment:
		return "", 0, vberr.NewTranslationErrorAt(line, "misplaced operator "+s.Token.Content)
	case expressions.CallSegment:
		return g.translateCall(s, sc, line)
	}
	return "", 0, vberr.NewTranslationErrorAt(line, "unsupported expression segment")
}

// renderNumericLiteral picks the hard type the source language assigns to a
// literal: Integer when it fits, Long next, Double for anything fractional
// or larger.
func renderNumericLiteral(s expressions.NumericValueSegment) string {
	content := s.Token.Content
	isIntegral := !strings.Contains(content, ".")
	if isIntegral && s.Value >= -32768 && s.Value <= 32767 {
		return fmt.Sprintf("support.Int16Value(%d)", int64(s.Value))
	}
	if isIntegral && s.Value >= -2147483648 && s.Value <= 2147483647 {
		return fmt.Sprintf("support.Int32Value(%d)", int64(s.Value))
	}
	return fmt.Sprintf("support.DoubleValue(%s)", strconv.FormatFloat(s.Value, 'g', -1, 64))
}

func (g *generator) memberNames(tokens []lexer.Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = strconv.Quote(g.rw(t.Content))
	}
	return "[]string{" + strings.Join(parts, ", ") + "}"
}

// plainArgs translates an argument list where every argument is passed by
// value (member calls through the facade).
func (g *generator) plainArgs(args []expressions.Expression, sc *scopeAccess, line int) (string, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		text, kind, err := g.translateExpression(arg, sc, line)
		if err != nil {
			return "", err
		}
		if kind == kindVoid {
			return "", vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a value")
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return ", " + strings.Join(parts, ", "), nil
}

func (g *generator) translateCall(cs expressions.CallSegment, sc *scopeAccess, line int) (string, exprKind, error) {
	items := cs.Items
	var current string
	kind := kindValue
	startIdx := 0

	switch {
	case cs.IsNew:
		if len(items) != 1 || len(items[0].MemberAccessTokens) != 1 || items[0].HasArguments {
			return "", 0, vberr.NewTranslationErrorAt(line, "malformed New expression")
		}
		className := g.rw(items[0].MemberAccessTokens[0].Content)
		class, ok := g.classes[className]
		if !ok {
			return "", 0, vberr.NewTranslationErrorAt(line, "unknown class "+items[0].MemberAccessTokens[0].Content)
		}
		return fmt.Sprintf("new%s(%s)", exported(class.EmitName), g.sup()), kindCall, nil

	case cs.LeadingAccessor:
		if sc.withTarget == "" {
			return "", 0, vberr.NewTranslationErrorAt(line, "member accessor used outside a With block")
		}
		current = sc.withTarget
		kind = kindValue

	default:
		first := items[0]
		nameToken := first.MemberAccessTokens[0]
		key := g.rw(nameToken.Content)
		restMembers := first.MemberAccessTokens[1:]

		if sc.isDeclared(key) || sc.aliases[key] != "" {
			ref := g.resolveVariable(key, sc, line)
			text, textKind, err := g.variableAccess(ref, first, restMembers, sc, line)
			if err != nil {
				return "", 0, err
			}
			current, kind = text, textKind
			startIdx = 1
			break
		}
		if fn, ok := g.lookupFunction(key, sc); ok && len(restMembers) == 0 {
			argText, err := g.translateCallArgs(fn, first.Arguments, sc, line)
			if err != nil {
				return "", 0, err
			}
			receiver := ""
			if fn.OnClass != nil {
				receiver = "o."
			}
			current = fmt.Sprintf("%s%s(%s%s)", receiver, fn.EmitName, g.sup(), argText)
			kind = kindCall
			if !fn.HasReturn {
				kind = kindVoid
			}
			startIdx = 1
			break
		}
		if facadeOp, ok := builtinEmit[strings.ToLower(nameToken.Content)]; ok {
			if len(restMembers) > 0 {
				// Err.Number and friends: resolve the base builtin first,
				// then walk the members through CALL.
				base := fmt.Sprintf("%s.%s()", g.sup(), facadeOp)
				args, err := g.plainArgs(first.Arguments, sc, line)
				if err != nil {
					return "", 0, err
				}
				current = fmt.Sprintf("%s.CALL(%s, %s%s)", g.sup(), base, g.memberNames(restMembers), args)
				kind = kindCall
				startIdx = 1
				break
			}
			args, err := g.plainArgs(first.Arguments, sc, line)
			if err != nil {
				return "", 0, err
			}
			current = fmt.Sprintf("%s.%s(%s)", g.sup(), facadeOp, strings.TrimPrefix(args, ", "))
			kind = kindCall
			startIdx = 1
			break
		}
		// Undeclared: treat as an implicit local.
		ref := g.resolveVariable(key, sc, line)
		text, textKind, err := g.variableAccess(ref, first, restMembers, sc, line)
		if err != nil {
			return "", 0, err
		}
		current, kind = text, textKind
		startIdx = 1
	}

	for _, item := range items[startIdx:] {
		args, err := g.plainArgs(item.Arguments, sc, line)
		if err != nil {
			return "", 0, err
		}
		current = fmt.Sprintf("%s.CALL(%s, %s%s)", g.sup(), current, g.memberNames(item.MemberAccessTokens), args)
		kind = kindCall
	}
	return current, kind, nil
}

// variableAccess emits the read of a resolved variable, including member
// walks and argument applications rooted at it.
func (g *generator) variableAccess(ref variableRef, first expressions.CallItem, restMembers []lexer.Token, sc *scopeAccess, line int) (string, exprKind, error) {
	if len(restMembers) == 0 && !first.HasArguments {
		return ref.read, kindValue, nil
	}
	if len(restMembers) == 0 && first.ZeroArgBrackets {
		return fmt.Sprintf("%s.VAL(%s)", g.sup(), ref.read), kindCall, nil
	}
	args, err := g.plainArgs(first.Arguments, sc, line)
	if err != nil {
		return "", 0, err
	}
	members := "nil"
	if len(restMembers) > 0 {
		members = g.memberNames(restMembers)
	}
	return fmt.Sprintf("%s.CALL(%s, %s%s)", g.sup(), ref.read, members, args), kindCall, nil
}

// translateCallArgs renders a direct call's argument list, honouring the
// callee's by-ref slots.
func (g *generator) translateCallArgs(fn *functionInfo, args []expressions.Expression, sc *scopeAccess, line int) (string, error) {
	if len(args) != len(fn.Params) {
		return "", vberr.NewTranslationErrorAt(line,
			fmt.Sprintf("%s expects %d argument(s), got %d", fn.EmitName, len(fn.Params), len(args)))
	}
	var sb strings.Builder
	for i, param := range fn.Params {
		sb.WriteString(", ")
		if param.ByVal {
			text, kind, err := g.translateExpression(args[i], sc, line)
			if err != nil {
				return "", err
			}
			if kind == kindVoid {
				return "", vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a value")
			}
			sb.WriteString(text)
			continue
		}
		if key, ok := g.simpleVariableKey(args[i], sc); ok {
			ref := g.resolveVariable(key, sc, line)
			sb.WriteString(ref.addr)
			continue
		}
		text, kind, err := g.translateExpression(args[i], sc, line)
		if err != nil {
			return "", err
		}
		if kind == kindVoid {
			return "", vberr.NewTranslationErrorAt(line, "a Sub call cannot be used as a value")
		}
		sb.WriteString(fmt.Sprintf("%s.REF(%s)", g.sup(), text))
	}
	return sb.String(), nil
}

// bareNameKey extracts the rewritten name of a bare single-name reference,
// regardless of what the name resolves to.
func bareNameKey(g *generator, e expressions.Expression) (string, bool) {
	if len(e.Segments) != 1 {
		return "", false
	}
	cs, ok := e.Segments[0].(expressions.CallSegment)
	if !ok || cs.LeadingAccessor || cs.IsNew || len(cs.Items) != 1 {
		return "", false
	}
	item := cs.Items[0]
	if len(item.MemberAccessTokens) != 1 || item.HasArguments {
		return "", false
	}
	return g.rw(item.MemberAccessTokens[0].Content), true
}

// simpleVariableKey reports the rewritten name when the expression is a bare
// variable reference: one call segment, one item, one member token, no
// brackets, and not a known procedure or built-in.
func (g *generator) simpleVariableKey(e expressions.Expression, sc *scopeAccess) (string, bool) {
	if len(e.Segments) != 1 {
		return "", false
	}
	cs, ok := e.Segments[0].(expressions.CallSegment)
	if !ok || cs.LeadingAccessor || cs.IsNew || len(cs.Items) != 1 {
		return "", false
	}
	item := cs.Items[0]
	if len(item.MemberAccessTokens) != 1 || item.HasArguments {
		return "", false
	}
	token := item.MemberAccessTokens[0]
	key := g.rw(token.Content)
	if sc.isDeclared(key) || sc.aliases[key] != "" {
		return key, true
	}
	if _, ok := g.lookupFunction(key, sc); ok {
		return "", false
	}
	if _, ok := builtinEmit[strings.ToLower(token.Content)]; ok {
		return "", false
	}
	if token.Is(lexer.BuiltInValue) {
		return "", false
	}
	return key, true
}

// byRefMapping plans one alias rewrite: the enclosing procedure's by-ref
// parameter and the local standing in for it.
type byRefMapping struct {
	From string
	To   string
}

// detectMappings finds every by-ref parameter of the enclosing procedure
// that the expression would pass on into a by-ref slot, allocating one alias
// per name per expression.
func (g *generator) detectMappings(exprs []expressions.Expression, sc *scopeAccess) []byRefMapping {
	var mappings []byRefMapping
	seen := make(map[string]bool)
	var walkExpr func(e expressions.Expression)
	walkSegment := func(seg expressions.Segment) {
		switch s := seg.(type) {
		case expressions.BracketedSegment:
			walkExpr(s.Expression)
		case expressions.CallSegment:
			if !s.LeadingAccessor && !s.IsNew && len(s.Items) > 0 && len(s.Items[0].MemberAccessTokens) == 1 {
				key := g.rw(s.Items[0].MemberAccessTokens[0].Content)
				if fn, ok := g.lookupFunction(key, sc); ok && !sc.isDeclared(key) {
					for i, param := range fn.Params {
						if param.ByVal || i >= len(s.Items[0].Arguments) {
							continue
						}
						argKey, isVar := g.simpleVariableKey(s.Items[0].Arguments[i], sc)
						if isVar && sc.byRefParams[argKey] && !seen[argKey] {
							seen[argKey] = true
							mappings = append(mappings, byRefMapping{From: argKey})
						}
					}
				}
			}
			for _, item := range s.Items {
				for _, arg := range item.Arguments {
					walkExpr(arg)
				}
			}
		}
	}
	walkExpr = func(e expressions.Expression) {
		for _, seg := range e.Segments {
			walkSegment(seg)
		}
	}
	for _, e := range exprs {
		walkExpr(e)
	}
	return mappings
}

// openMappings allocates the aliases, declares them and copies the
// parameters in, returning the scope in which the rewritten expression must
// be evaluated.
func (g *generator) openMappings(mappings []byRefMapping, sc *scopeAccess, indent int) *scopeAccess {
	if len(mappings) == 0 {
		return sc
	}
	rewritten := sc.child()
	rewritten.aliases = make(map[string]string, len(sc.aliases)+len(mappings))
	for k, v := range sc.aliases {
		rewritten.aliases[k] = v
	}
	for i := range mappings {
		mappings[i].To = g.temp("tmp")
		g.emitf(indent, "%s := *%s", mappings[i].To, mappings[i].From)
		rewritten.aliases[mappings[i].From] = mappings[i].To
	}
	return rewritten
}

// closeMappings copies the aliases back into the parameters, preserving the
// by-ref write-back after the call has returned.
func (g *generator) closeMappings(mappings []byRefMapping, indent int) {
	for _, m := range mappings {
		g.emitf(indent, "*%s = %s", m.From, m.To)
	}
}
