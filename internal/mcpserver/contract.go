package mcpserver

// TranscriptFormatContract describes the transcription text accepted by
// submit_transcription.
const TranscriptFormatContract = `# Wavemark Transcript Format

A transcription is plain UTF-8 text. Every word becomes one marker; the
markers are spread evenly over the loaded audio, one per word, in order.

## Structure

` + "```" + `markdown
---
title: Interview take 1      # OPTIONAL
language: en                 # OPTIONAL
---

the quick brown fox jumps over the lazy dog
` + "```" + `

## Rules

1. **Frontmatter is optional.** When present, the ` + "`" + `---` + "`" + ` fences must open the
   text. Invalid YAML is treated as part of the body.
2. **Words are split on whitespace.** Line breaks and repeated spaces do not matter.
3. **Punctuation-only tokens are ignored** (e.g. ` + "`" + `--` + "`" + `, ` + "`" + `...` + "`" + `). Punctuation attached
   to a word stays with it and does not add a marker.
4. **Submitting again replaces all markers.** Marker ids keep increasing; they are never reused.
5. **An empty transcription changes nothing.**
6. Audio must be loaded first (` + "`" + `load_audio` + "`" + `), otherwise the call fails.

## Example

Submitting ` + "`" + `one two three four` + "`" + ` against a 20 s file places markers at
2500, 7500, 12500 and 17500 ms.
`
