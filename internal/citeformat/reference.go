// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeformat

import (
	"fmt"
	"strings"

	"github.com/tweakr/citation-engine/pkg/types"
)

// Reference is one formatted reference-list entry.
type Reference struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// FormatReference renders the full reference-list entry for a paper.
// An unsupported style is an error.
func FormatReference(paper types.PaperRecord, style string) (Reference, error) {
	year := yearString(paper.Year)

	switch strings.ToLower(style) {
	case StyleAPA:
		text := fmt.Sprintf("%s (%s). %q.", apaAuthorList(paper.Authors), year, capitalize(paper.Title))
		return Reference{Text: text, URL: paper.URL}, nil
	case StyleMLA:
		text := fmt.Sprintf("%s. %q, %s.", mlaAuthorList(paper.Authors), paper.Title+".", year)
		return Reference{Text: text, URL: paper.URL}, nil
	case StyleChicago:
		text := fmt.Sprintf("%s. %q., %s.", strings.Join(nonEmpty(paper.Authors), ", "), paper.Title, year)
		return Reference{Text: text, URL: paper.URL}, nil
	default:
		return Reference{}, fmt.Errorf("unsupported citation style %q", style)
	}
}

// apaAuthorList renders "Surname, F. M." per author, joined with an
// ampersand before the last author.
func apaAuthorList(authors []string) string {
	names := nonEmpty(authors)
	if len(names) == 0 {
		return unknownAuthor
	}

	formatted := make([]string, len(names))
	for i, a := range names {
		parts := strings.Fields(a)
		surname := parts[len(parts)-1]
		if len(parts) == 1 {
			formatted[i] = surname
			continue
		}
		initials := make([]string, len(parts)-1)
		for j, p := range parts[:len(parts)-1] {
			initials[j] = string([]rune(p)[0]) + "."
		}
		formatted[i] = surname + ", " + strings.Join(initials, " ")
	}

	if len(formatted) == 1 {
		return formatted[0]
	}
	return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
}

// mlaAuthorList renders the full first author, "and" for two authors,
// "et al." for three or more.
func mlaAuthorList(authors []string) string {
	names := nonEmpty(authors)
	switch len(names) {
	case 0:
		return unknownAuthor
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return names[0] + " et al."
	}
}

func nonEmpty(authors []string) []string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if s := strings.TrimSpace(a); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// capitalize upper-cases the first rune only, matching APA title
// casing of the established reference output.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
