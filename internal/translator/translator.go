package translator

import (
	"github.com/Magicianred/vbscripttranslator/internal/lexer"
	"github.com/Magicianred/vbscripttranslator/internal/parser"
)

// CodeGenerator walks the block tree and emits translated statements.
type CodeGenerator interface {
	Generate(blocks []parser.CodeBlock) ([]TranslatedStatement, error)
}

// Translator defines the high-level interface for the source conversion.
type Translator interface {
	Translate(source string) ([]TranslatedStatement, error)
}

// SourceTranslator orchestrates the pipeline: lexing, block parsing and code
// generation. Stage outputs flow one way; nothing later mutates earlier
// data.
type SourceTranslator struct {
	generator CodeGenerator
}

// NewSourceTranslator creates a translator around a code generator.
func NewSourceTranslator(generator CodeGenerator) *SourceTranslator {
	return &SourceTranslator{generator: generator}
}

// Translate runs the full pipeline over one source text.
func (t *SourceTranslator) Translate(source string) ([]TranslatedStatement, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	blocks, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return t.generator.Generate(blocks)
}

var _ Translator = (*SourceTranslator)(nil)
