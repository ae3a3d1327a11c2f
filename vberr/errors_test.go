package vberr_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/vberr"
	"github.com/stretchr/testify/assert"
)

func TestLexError(t *testing.T) {
	err := vberr.NewLexError(3, "unterminated string literal")
	assert.Equal(t, vberr.TypeLex, err.Type())
	assert.Equal(t, 3, err.Line)
	assert.Equal(t, "[LexError] line 3: unterminated string literal", err.Error())
}

func TestParseError(t *testing.T) {
	err := vberr.NewParseError(7, "unterminated If block")
	assert.Equal(t, vberr.TypeParse, err.Type())
	assert.Equal(t, 7, err.Line)
	assert.Equal(t, "[ParseError] line 7: unterminated If block", err.Error())
}

func TestTranslationError(t *testing.T) {
	err := vberr.NewTranslationError("a name rewriter must be configured")
	assert.Equal(t, vberr.TypeTranslation, err.Type())
	assert.Equal(t, "[TranslationError] a name rewriter must be configured", err.Error())
}

func TestTranslationErrorAt(t *testing.T) {
	err := vberr.NewTranslationErrorAt(12, "unsupported construct Stop")
	assert.Equal(t, 12, err.Line)
	assert.Equal(t, "[TranslationError] line 12: unsupported construct Stop", err.Error())
}

func TestMultiError(t *testing.T) {
	e1 := vberr.NewLexError(1, "error 1")
	e2 := vberr.NewLexError(2, "error 2")
	multi := &vberr.MultiError{Errors: []error{e1, e2}}

	assert.Equal(t, vberr.TypeLex, multi.Type())
	errMsg := multi.Error()
	assert.Contains(t, errMsg, "2 error(s) occurred:")
	assert.Contains(t, errMsg, "- [LexError] line 1: error 1")
	assert.Contains(t, errMsg, "- [LexError] line 2: error 2")
}
