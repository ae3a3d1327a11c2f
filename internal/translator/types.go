package translator

import (
	"strconv"
	"strings"

	"github.com/Magicianred/vbscripttranslator/vberr"
)

// TranslatedStatement is one emitted line: an indentation depth plus its
// text. Consumers join statements with the line terminator of their choice.
type TranslatedStatement struct {
	Indent int
	Text   string
}

// Options configures a translation session.
type Options struct {
	// NameRewriter is the host's identifier normalisation policy. Two source
	// names refer to the same thing iff their rewritten forms are equal.
	NameRewriter func(string) string

	// SupportClassName is the name of the runtime facade reference in
	// emitted code.
	SupportClassName string

	// ErrorTrappingEnabled is passed through to the generated program setup;
	// when false the facade rethrows everything.
	ErrorTrappingEnabled bool

	// StringCompareMode is the default STRCOMP mode (0 binary, 1 text).
	StringCompareMode int

	// WarningSink receives non-fatal findings such as undeclared variable
	// references. Optional.
	WarningSink func(string)
}

// Validate reports a configuration error before any translation work starts.
func (o Options) Validate() error {
	if o.NameRewriter == nil {
		return vberr.NewTranslationError("a name rewriter must be configured")
	}
	if o.SupportClassName == "" {
		return vberr.NewTranslationError("a support class name must be configured")
	}
	return nil
}

// Warn forwards a message to the warning sink, if any.
func (o Options) Warn(msg string) {
	if o.WarningSink != nil {
		o.WarningSink(msg)
	}
}

// Render joins translated statements into source text with tab indentation.
func Render(statements []TranslatedStatement) string {
	var sb strings.Builder
	for i, stmt := range statements {
		if i > 0 {
			sb.WriteString("\n")
		}
		if stmt.Text != "" {
			sb.WriteString(strings.Repeat("\t", stmt.Indent))
			sb.WriteString(stmt.Text)
		}
	}
	return sb.String()
}

// RenderProgram wraps translated statements in a complete target-language
// source file: package clause, support import and an entry point that
// constructs, configures and disposes the facade.
func (o Options) RenderProgram(statements []TranslatedStatement) string {
	name := o.SupportClassName
	var sb strings.Builder
	sb.WriteString("package main\n\n")
	sb.WriteString("import \"github.com/Magicianred/vbscripttranslator/support\"\n\n")
	sb.WriteString(Render(statements))
	sb.WriteString("\n\nfunc main() {\n")
	sb.WriteString("\t" + name + " := support.New()\n")
	if !o.ErrorTrappingEnabled {
		sb.WriteString("\t" + name + ".SetErrorTrappingEnabled(false)\n")
	}
	if o.StringCompareMode != 0 {
		sb.WriteString("\t" + name + ".SetStringCompareMode(" + strconv.Itoa(o.StringCompareMode) + ")\n")
	}
	sb.WriteString("\tdefer " + name + ".Dispose()\n")
	sb.WriteString("\tTranslatedProgram(" + name + ")\n")
	sb.WriteString("}\n")
	return sb.String()
}
