package codegen

import "github.com/Magicianred/vbscripttranslator/internal/parser"

// scopeAccess is the immutable-by-descent record of everything visible at a
// point of translation: the enclosing class and procedure, declared names,
// the active error-trapping token and the enclosing procedure's by-ref
// parameter names. Child blocks receive copies; maps are shared within one
// procedure scope.
type scopeAccess struct {
	class    *classInfo
	function *functionInfo
	funcKey  string

	declared    map[string]bool
	byRefParams map[string]bool
	aliases     map[string]string

	errorToken   string
	mayBeTrapped bool
	withTarget   string
	loops        []loopFrame
	implicit     *implicitDecls
}

type loopFrame struct {
	kind  parser.ExitKind
	label string
}

type implicitDecls struct {
	names    []string
	seen     map[string]bool
	insertAt int
}

func newScope(class *classInfo, function *functionInfo) *scopeAccess {
	return &scopeAccess{
		class:       class,
		function:    function,
		declared:    make(map[string]bool),
		byRefParams: make(map[string]bool),
		aliases:     make(map[string]string),
		implicit:    &implicitDecls{seen: make(map[string]bool)},
	}
}

// child copies the scope for a nested block. Declared-name and alias maps
// stay shared: a declaration inside an If arm is visible to the rest of the
// procedure, as in the source language.
func (sc *scopeAccess) child() *scopeAccess {
	copied := *sc
	return &copied
}

// declare records a local name.
func (sc *scopeAccess) declare(key string) {
	sc.declared[key] = true
}

// isDeclared reports whether a rewritten name is visible as a variable.
func (sc *scopeAccess) isDeclared(key string) bool {
	if sc.declared[key] || sc.byRefParams[key] {
		return true
	}
	if sc.class != nil {
		if _, ok := sc.class.Fields[key]; ok {
			return true
		}
	}
	return false
}

// implicitDeclare registers an undeclared reference for prologue declaration.
func (sc *scopeAccess) implicitDeclare(key string) {
	if sc.implicit.seen[key] {
		return
	}
	sc.implicit.seen[key] = true
	sc.implicit.names = append(sc.implicit.names, key)
	sc.declared[key] = true
}

// variableRef kinds describe how a resolved name must be read and written.
type variableRef struct {
	// read is the expression that yields the value.
	read string
	// addr is the expression passed to a by-ref slot.
	addr string
	// assign is the lvalue expression for writes.
	assign string
}

// resolveVariable maps a rewritten name to its emitted forms, creating an
// implicit local (with a warning) when the name was never declared.
func (g *generator) resolveVariable(key string, sc *scopeAccess, line int) variableRef {
	if alias, ok := sc.aliases[key]; ok {
		return variableRef{read: alias, addr: "&" + alias, assign: alias}
	}
	if sc.byRefParams[key] {
		return variableRef{read: "*" + key, addr: key, assign: "*" + key}
	}
	if sc.declared[key] {
		return variableRef{read: key, addr: "&" + key, assign: key}
	}
	if sc.class != nil {
		if field, ok := sc.class.Fields[key]; ok {
			return variableRef{read: "o." + field, addr: "&o." + field, assign: "o." + field}
		}
	}
	g.warnf("line %d: undeclared variable %q treated as a local", line, key)
	sc.implicitDeclare(key)
	return variableRef{read: key, addr: "&" + key, assign: key}
}

// resolveFunction finds a callable procedure visible from the scope: class
// methods shadow top-level procedures.
func (sc *scopeAccess) resolveFunction(key string) (*functionInfo, bool) {
	if sc.class != nil {
		if m, ok := sc.class.Methods[exported(key)]; ok {
			return m, true
		}
	}
	return nil, false
}

func (g *generator) lookupFunction(key string, sc *scopeAccess) (*functionInfo, bool) {
	if fn, ok := sc.resolveFunction(key); ok {
		return fn, true
	}
	fn, ok := g.functions[key]
	return fn, ok
}
