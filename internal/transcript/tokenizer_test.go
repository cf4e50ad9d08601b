package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_PlainText(t *testing.T) {
	r := Tokenize([]byte("the quick  brown\nfox"))
	require.Equal(t, 4, r.Count())
	assert.Equal(t, "fox", r.Units[3])
}

func TestTokenize_DropsPunctuationOnly(t *testing.T) {
	r := Tokenize([]byte("well — I mean ... yes!"))
	assert.Equal(t, []string{"well", "I", "mean", "yes!"}, r.Units)
}

func TestTokenize_Frontmatter(t *testing.T) {
	r := Tokenize([]byte("---\ntitle: Interview\nlanguage: en\n---\nhello there\n"))
	assert.Equal(t, Meta{Title: "Interview", Language: "en"}, r.Meta)
	assert.Equal(t, "hello there\n", r.Body)
	assert.Equal(t, 2, r.Count())
}

func TestTokenize_InvalidYAMLFallback(t *testing.T) {
	r := Tokenize([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	assert.Equal(t, Meta{}, r.Meta)
	assert.Equal(t, 3, r.Count(), "units = %v", r.Units)
}

func TestTokenize_UnclosedFrontmatterIsBody(t *testing.T) {
	r := Tokenize([]byte("---\ntitle: x\nno close"))
	assert.Equal(t, 4, r.Count(), "units = %v", r.Units)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Zero(t, Tokenize(nil).Count())
	assert.Zero(t, Tokenize([]byte("  \n\t ")).Count())
}
