// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citeformat renders in-text citations and reference-list
// entries in APA, MLA, and Chicago styles.
package citeformat

import (
	"fmt"
	"strings"

	"github.com/tweakr/citation-engine/pkg/types"
)

// Supported citation styles.
const (
	StyleAPA     = "apa"
	StyleMLA     = "mla"
	StyleChicago = "chicago"
)

// Fallbacks for incomplete metadata.
const (
	noDate        = "n.d."
	unknownAuthor = "Unknown"
)

// ValidStyle reports whether style names a supported citation style.
// Style names are case-insensitive.
func ValidStyle(style string) bool {
	switch strings.ToLower(style) {
	case StyleAPA, StyleMLA, StyleChicago:
		return true
	}
	return false
}

// InText renders the parenthetical in-text citation for a paper. The
// author label is the first space-delimited token of the first author
// name, so "Jane Smith" cites as "(Jane, 2023)" in APA; this matches
// the established output and downstream documents depend on it.
// A missing year renders as "n.d.", missing authors as "Unknown".
// An unsupported style is an error.
func InText(paper types.PaperRecord, style string) (string, error) {
	label := authorLabel(paper.Authors)
	etAl := countNonEmpty(paper.Authors) > 1
	year := yearString(paper.Year)

	switch strings.ToLower(style) {
	case StyleAPA:
		if etAl {
			return fmt.Sprintf("(%s et al., %s)", label, year), nil
		}
		return fmt.Sprintf("(%s, %s)", label, year), nil
	case StyleMLA, StyleChicago:
		if etAl {
			return fmt.Sprintf("(%s et al. %s)", label, year), nil
		}
		return fmt.Sprintf("(%s %s)", label, year), nil
	default:
		return "", fmt.Errorf("unsupported citation style %q", style)
	}
}

// authorLabel returns the first token of the first non-empty author
// name, or the unknown-author fallback.
func authorLabel(authors []string) string {
	for _, a := range authors {
		fields := strings.Fields(a)
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return unknownAuthor
}

func countNonEmpty(authors []string) int {
	n := 0
	for _, a := range authors {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}

func yearString(year int) string {
	if year <= 0 {
		return noDate
	}
	return fmt.Sprintf("%d", year)
}
