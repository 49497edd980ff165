// Package bookindex builds the canonical BookIndex from a parsed paragraph
// sequence (the book indexer, C3).
package bookindex

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/encryptabit/ams/internal/model"
)

// Paragraph is the indexer's input shape: a single paragraph of raw text
// plus the style/kind metadata the book parser (an external collaborator,
// out of scope per the spec) attaches to it.
type Paragraph struct {
	Text  string
	Style string
	Kind  string // "Heading" or "" (body)
	Level int
}

var headingRe = regexp.MustCompile(`(?i)^(chapter|prologue|epilogue|prelude|foreword|introduction|afterword|appendix|part|book)\b`)

var terminalPunct = "." + "!" + "?" + "…"

// Build produces a canonical BookIndex from a paragraph sequence and the
// path to the source file the paragraphs were parsed from (used only to
// compute the content hash).
func Build(paragraphs []Paragraph, sourceFile string) (*model.BookIndex, error) {
	hash, err := hashFile(sourceFile)
	if err != nil {
		return nil, err
	}

	idx := &model.BookIndex{
		SourceFile:     sourceFile,
		SourceFileHash: hash,
		IndexedAt:      time.Now().UTC(),
	}

	sentenceIdx := 0
	sentenceStart := 0
	var openSection *model.SectionRange
	var sectionCount int

	flushSentence := func(endWord int) {
		if endWord < sentenceStart {
			return
		}
		idx.Sentences = append(idx.Sentences, model.SentenceRange{
			Index: sentenceIdx,
			Start: sentenceStart,
			End:   endWord,
		})
		sentenceIdx++
		sentenceStart = endWord + 1
	}

	for paraIdx, p := range paragraphs {
		paraStart := len(idx.Words)

		if p.Kind == "Heading" && p.Level >= 1 && headingRe.MatchString(strings.TrimSpace(p.Text)) {
			if openSection != nil {
				openSection.EndWord = paraStart - 1
				openSection.EndParagraph = paraIdx - 1
			}
			openSection = &model.SectionRange{
				ID:             sectionID(sectionCount),
				Title:          strings.TrimSpace(p.Text),
				Level:          p.Level,
				Kind:           classifyHeading(p.Text),
				StartWord:      paraStart,
				StartParagraph: paraIdx,
			}
			idx.Sections = append(idx.Sections, *openSection)
			sectionCount++
		}

		tokens := strings.Fields(p.Text)
		for _, tok := range tokens {
			w := model.BookWord{
				Text:           tok,
				WordIndex:      len(idx.Words),
				ParagraphIndex: paraIdx,
			}
			idx.Words = append(idx.Words, w)
			if hasTerminal(tok) {
				idx.Words[len(idx.Words)-1].SentenceIndex = sentenceIdx
				flushSentence(w.WordIndex)
			} else {
				idx.Words[len(idx.Words)-1].SentenceIndex = sentenceIdx
			}
		}

		paraEnd := len(idx.Words) - 1
		if paraEnd >= paraStart {
			// Paragraph ended mid-sentence: close it anyway so every word
			// belongs to some sentence.
			if sentenceStart <= paraEnd {
				for i := sentenceStart; i <= paraEnd; i++ {
					idx.Words[i].SentenceIndex = sentenceIdx
				}
				flushSentence(paraEnd)
			}
			idx.Paragraphs = append(idx.Paragraphs, model.ParagraphRange{
				Index: paraIdx,
				Start: paraStart,
				End:   paraEnd,
				Kind:  p.Kind,
				Style: p.Style,
			})
		} else {
			idx.Paragraphs = append(idx.Paragraphs, model.ParagraphRange{
				Index: paraIdx,
				Start: paraStart,
				End:   paraStart - 1,
				Kind:  p.Kind,
				Style: p.Style,
			})
		}
	}

	if openSection != nil {
		openSection.EndWord = len(idx.Words) - 1
		openSection.EndParagraph = len(paragraphs) - 1
		idx.Sections[len(idx.Sections)-1] = *openSection
	}

	idx.Totals = model.Totals{
		Words:      len(idx.Words),
		Sentences:  len(idx.Sentences),
		Paragraphs: len(idx.Paragraphs),
	}

	return idx, nil
}

// EstimateDuration fills Totals.EstimatedDurationSec from a words-per-minute
// rate (bookIndex.avgWpm, default 200 per the config defaults).
func EstimateDuration(idx *model.BookIndex, avgWpm float64) {
	if avgWpm <= 0 {
		avgWpm = 200
	}
	idx.Totals.EstimatedDurationSec = float64(idx.Totals.Words) / avgWpm * 60.0
}

func hasTerminal(tok string) bool {
	t := strings.TrimRight(tok, `"')]}`)
	if t == "" {
		return false
	}
	last := t[len(t)-1:]
	return strings.Contains(terminalPunct, last) || strings.HasSuffix(t, "...")
}

func classifyHeading(text string) model.SectionKind {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(lower, "prologue"):
		return model.SectionPrologue
	case strings.HasPrefix(lower, "epilogue"):
		return model.SectionEpilogue
	case strings.HasPrefix(lower, "prelude"):
		return model.SectionPrelude
	case strings.HasPrefix(lower, "foreword"):
		return model.SectionForeword
	case strings.HasPrefix(lower, "introduction"):
		return model.SectionIntroduction
	case strings.HasPrefix(lower, "afterword"):
		return model.SectionAfterword
	case strings.HasPrefix(lower, "acknowledg"):
		return model.SectionAcknowledgments
	case strings.HasPrefix(lower, "appendix"):
		return model.SectionAppendix
	default:
		return model.SectionChapter
	}
}

func sectionID(n int) string {
	return "section-" + strconv.Itoa(n)
}

func hashFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
