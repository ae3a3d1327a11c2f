package translator_test

import (
	"strings"
	"testing"

	"github.com/Magicianred/vbscripttranslator/internal/translator"
	"github.com/stretchr/testify/assert"
)

func TestRenderIndentsWithTabs(t *testing.T) {
	rendered := translator.Render([]translator.TranslatedStatement{
		{Indent: 0, Text: "func x() {"},
		{Indent: 1, Text: "call()"},
		{Indent: 0, Text: ""},
		{Indent: 0, Text: "}"},
	})
	assert.Equal(t, "func x() {\n\tcall()\n\n}", rendered)
}

func TestOptionsValidate(t *testing.T) {
	assert.Error(t, translator.Options{}.Validate())
	assert.Error(t, translator.Options{NameRewriter: strings.ToLower}.Validate())
	assert.NoError(t, translator.Options{
		NameRewriter:     strings.ToLower,
		SupportClassName: "env",
	}.Validate())
}

func TestWarnIsOptional(t *testing.T) {
	translator.Options{}.Warn("dropped")

	var got string
	translator.Options{WarningSink: func(msg string) { got = msg }}.Warn("kept")
	assert.Equal(t, "kept", got)
}
