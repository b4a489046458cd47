// Package segment splits extracted regulation text into discrete "madde" articles.
//
// The grammar has two levels: the document is partitioned into blocks, each
// starting at a "MADDE <number>" token and running up to the next such token
// (or end of text), and each block optionally carries a structured header
// "MADDE <number> - (<sub>)" from which the article identifier is derived.
// Text before the first block start is preamble and is discarded.
package segment

import (
	"regexp"
	"strings"

	"github.com/openmevzuat/mevzuat/internal/models"
)

var (
	// Regulation PDFs wrap article bodies across lines; segmentation operates
	// on a flattened stream, so newline runs collapse to single spaces first.
	newlineRuns = regexp.MustCompile(`\n+`)

	// blockStart marks the beginning of an article block.
	blockStart = regexp.MustCompile(`MADDE\s+\d+`)

	// header extracts the main number and sub identifier, e.g. "MADDE 5 - (1)"
	// or "MADDE 7 - (b)". The sub identifier is digits or a single letter.
	header = regexp.MustCompile(`MADDE\s+(\d+)\s*-\s*\((\d+|[a-zA-Z])\)`)
)

// Segment parses the raw extracted text of one document into articles.
// Each article carries the document name as its source and an identifier of
// the form "<main> (<sub>)", or "?" when the header does not match the
// structured pattern. A document with no MADDE occurrences yields nil.
func Segment(text, docName string) []models.Article {
	flat := newlineRuns.ReplaceAllString(text, " ")

	starts := blockStart.FindAllStringIndex(flat, -1)
	if len(starts) == 0 {
		return nil
	}

	articles := make([]models.Article, 0, len(starts))
	for i, start := range starts {
		end := len(flat)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := flat[start[0]:end]
		articles = append(articles, models.Article{
			Content:     strings.TrimSpace(block),
			Source:      docName,
			MaddeNumber: identifier(block),
		})
	}
	return articles
}

// identifier derives the article identifier from a block. Malformed or
// missing headers never fail; they degrade to the "?" sentinel.
func identifier(block string) string {
	m := header.FindStringSubmatch(block)
	if m == nil {
		return models.UnknownMaddeNumber
	}
	return m[1] + " (" + m[2] + ")"
}
