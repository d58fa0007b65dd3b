// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document parses source text into the paragraph and sentence
// units the citation engine works on.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tweakr/citation-engine/pkg/types"
)

// headingMaxWords bounds how long a punctuation-free paragraph can be
// and still count as a heading rather than prose.
const headingMaxWords = 8

// Document is parsed source text ready for citation processing.
type Document struct {
	ID         string
	Paragraphs []string
}

// Load reads a plain-text or Markdown file and parses it. The document
// ID is the file name without its extension.
func Load(path string, maxParagraphs int) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return Parse(id, string(content), maxParagraphs), nil
}

// Parse splits content into paragraphs on blank lines. Paragraphs past
// maxParagraphs are dropped; a non-positive cap keeps everything.
func Parse(id, content string, maxParagraphs int) *Document {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(current, " "))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimSpace(line))
	}
	flush()

	if maxParagraphs > 0 && len(paragraphs) > maxParagraphs {
		paragraphs = paragraphs[:maxParagraphs]
	}

	return &Document{ID: id, Paragraphs: paragraphs}
}

// IsHeading reports whether a paragraph is a section heading rather
// than prose. Markdown headings are always headings; otherwise a short
// run of words with no sentence punctuation is treated as one.
func IsHeading(paragraph string) bool {
	p := strings.TrimSpace(paragraph)
	if p == "" {
		return false
	}
	if strings.HasPrefix(p, "#") {
		return true
	}
	if len(strings.Fields(p)) >= headingMaxWords {
		return false
	}
	return !strings.ContainsAny(p, ".?!;:")
}

// Sentences segments one paragraph into sentence units. Boundaries are
// terminal punctuation followed by whitespace; sentence indexes start
// at 1 within the paragraph.
func Sentences(paragraph string, paragraphIndex int) []types.SentenceUnit {
	var units []types.SentenceUnit
	for i, text := range splitSentences(paragraph) {
		units = append(units, types.SentenceUnit{
			Text:      text,
			Paragraph: paragraphIndex,
			Index:     i + 1,
		})
	}
	return units
}

// splitSentences cuts text after '.', '!', or '?' when followed by
// whitespace. Trailing text without terminal punctuation is kept as a
// final sentence.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume any run of terminal punctuation ("?!", "...").
		end := i
		for end+1 < len(runes) && isTerminal(runes[end+1]) {
			end++
		}
		if end+1 < len(runes) && !isSpace(runes[end+1]) {
			i = end
			continue
		}
		if s := strings.TrimSpace(string(runes[start : end+1])); s != "" {
			out = append(out, s)
		}
		start = end + 1
		i = end
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
