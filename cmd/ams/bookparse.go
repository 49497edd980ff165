package main

import (
	"os"
	"strings"

	"github.com/encryptabit/ams/internal/bookindex"
	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/pipeline"
)

// parsePlainTextBook is the minimal book-parser shim bridging the
// out-of-scope external collaborator of spec §1 (the real book parser:
// ePub/PDF/DOCX ingestion, style/heading classification) to
// bookindex.Build's Paragraph input. It recognizes one convention: blank
// lines separate paragraphs, and a line beginning with one or more '#'
// characters (markdown-style) is a heading, its level the run of '#'s.
// Anything more elaborate (footnotes, inline markup, multi-column layout)
// is squarely the external parser's job, never this CLI's.
func parsePlainTextBook(path string) ([]bookindex.Paragraph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var paragraphs []bookindex.Paragraph
	for _, block := range strings.Split(string(raw), "\n\n") {
		text := strings.TrimSpace(block)
		if text == "" {
			continue
		}
		text = strings.Join(strings.Fields(text), " ")

		if level, heading := headingLevel(text); heading {
			paragraphs = append(paragraphs, bookindex.Paragraph{
				Text:  strings.TrimSpace(strings.TrimLeft(text, "# ")),
				Kind:  "Heading",
				Level: level,
			})
			continue
		}
		paragraphs = append(paragraphs, bookindex.Paragraph{Text: text})
	}
	return paragraphs, nil
}

func headingLevel(line string) (int, bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n >= len(line) || line[n] != ' ' {
		return 0, false
	}
	return n, true
}

// newBookIndexBuilder wires the plain-text parser shim into a
// pipeline.BookIndexBuilder and stamps the avgWpm duration estimate from
// config, per bookindex.EstimateDuration.
func newBookIndexBuilder(sourceFile string, avgWpm float64) pipeline.BookIndexBuilder {
	return func() (*model.BookIndex, error) {
		paragraphs, err := parsePlainTextBook(sourceFile)
		if err != nil {
			return nil, err
		}
		idx, err := bookindex.Build(paragraphs, sourceFile)
		if err != nil {
			return nil, err
		}
		bookindex.EstimateDuration(idx, avgWpm)
		return idx, nil
	}
}
