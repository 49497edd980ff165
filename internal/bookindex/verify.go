package bookindex

import (
	"fmt"

	"github.com/encryptabit/ams/internal/model"
)

// Verify checks the invariants the book indexer guarantees: totals match
// actual counts, sentence/paragraph ranges are contiguous and cover every
// word, word indices are dense, and each word's sentence index matches its
// containing sentence.
func Verify(idx *model.BookIndex) error {
	if idx.Totals.Words != len(idx.Words) {
		return fmt.Errorf("bookindex: totals.words=%d but len(words)=%d", idx.Totals.Words, len(idx.Words))
	}
	if idx.Totals.Sentences != len(idx.Sentences) {
		return fmt.Errorf("bookindex: totals.sentences=%d but len(sentences)=%d", idx.Totals.Sentences, len(idx.Sentences))
	}
	if idx.Totals.Paragraphs != len(idx.Paragraphs) {
		return fmt.Errorf("bookindex: totals.paragraphs=%d but len(paragraphs)=%d", idx.Totals.Paragraphs, len(idx.Paragraphs))
	}

	for i, w := range idx.Words {
		if w.WordIndex != i {
			return fmt.Errorf("bookindex: words[%d].wordIndex = %d", i, w.WordIndex)
		}
	}

	if len(idx.Sentences) > 0 {
		if idx.Sentences[0].Start != 0 {
			return fmt.Errorf("bookindex: first sentence.start = %d, want 0", idx.Sentences[0].Start)
		}
		last := idx.Sentences[len(idx.Sentences)-1]
		if last.End != len(idx.Words)-1 {
			return fmt.Errorf("bookindex: last sentence.end = %d, want %d", last.End, len(idx.Words)-1)
		}
		for i := 1; i < len(idx.Sentences); i++ {
			if idx.Sentences[i].Start != idx.Sentences[i-1].End+1 {
				return fmt.Errorf("bookindex: sentence %d not contiguous with %d", i, i-1)
			}
		}
	}

	if len(idx.Paragraphs) > 0 {
		if idx.Paragraphs[0].Start != 0 && len(idx.Words) > 0 {
			return fmt.Errorf("bookindex: first paragraph.start = %d, want 0", idx.Paragraphs[0].Start)
		}
		last := idx.Paragraphs[len(idx.Paragraphs)-1]
		if last.End != len(idx.Words)-1 {
			return fmt.Errorf("bookindex: last paragraph.end = %d, want %d", last.End, len(idx.Words)-1)
		}
		for i := 1; i < len(idx.Paragraphs); i++ {
			if idx.Paragraphs[i].Start != idx.Paragraphs[i-1].End+1 {
				return fmt.Errorf("bookindex: paragraph %d not contiguous with %d", i, i-1)
			}
		}
	}

	for _, s := range idx.Sentences {
		for w := s.Start; w <= s.End; w++ {
			if idx.Words[w].SentenceIndex != s.Index {
				return fmt.Errorf("bookindex: words[%d].sentenceIndex = %d, want %d", w, idx.Words[w].SentenceIndex, s.Index)
			}
		}
	}

	return nil
}
