// Package transcript splits a submitted transcription into word units.
package transcript

import (
	"bytes"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Meta is the optional YAML frontmatter of a transcription.
type Meta struct {
	Title    string `yaml:"title"`
	Language string `yaml:"language"`
}

// Result holds the output of tokenizing a transcription.
type Result struct {
	Meta  Meta
	Body  string
	Units []string
}

// Count returns the number of units.
func (r *Result) Count() int { return len(r.Units) }

// Tokenize strips frontmatter and splits the body into word units. Tokens
// made only of punctuation are dropped.
func Tokenize(data []byte) *Result {
	meta, body := splitFrontmatter(data)
	return &Result{Meta: meta, Body: body, Units: words(body)}
}

// splitFrontmatter separates a leading "---" YAML block from the body. A
// missing closing delimiter or invalid YAML leaves the whole input as body.
func splitFrontmatter(data []byte) (Meta, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return Meta{}, string(data)
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return Meta{}, string(data)
	}

	var meta Meta
	if err := yaml.Unmarshal(rest[:idx], &meta); err != nil {
		return Meta{}, string(data)
	}
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return meta, body
}

func words(body string) []string {
	var out []string
	for _, f := range strings.Fields(body) {
		if strings.IndexFunc(f, isWordRune) < 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
