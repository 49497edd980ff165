// Package anchor implements the anchor preprocessor (C4) and anchor
// selector (C6): building filtered/normalized token views over the book and
// ASR streams, and selecting monotonic, uniquely-matching n-gram anchors
// between them.
package anchor

import (
	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

// StopwordMode selects which stopword set the preprocessor filters with.
type StopwordMode string

const (
	StopwordsNone   StopwordMode = "none"
	StopwordsDomain StopwordMode = "domain"
)

// View is a filtered, normalized token stream plus the index maps needed to
// translate back to the original (book or ASR) coordinate space.
type View struct {
	Filtered             []string // normalized, filtered tokens
	FilteredToOriginal   []int    // index into the original word/token slice
	SentenceIndex        []int    // per-filtered-token sentence id (BookView only; nil for AsrView)
}

// BuildBookView filters and normalizes a BookIndex's words, retaining the
// back-reference to each filtered token's original word index and
// containing sentence.
func BuildBookView(words []model.BookWord, mode StopwordMode, stop Stopwords, opts normalize.Options) *View {
	v := &View{}
	for i, w := range words {
		n := normalize.Canonical(w.Text, opts)
		if n == "" || (mode == StopwordsDomain && stop.Is(n)) {
			continue
		}
		v.Filtered = append(v.Filtered, n)
		v.FilteredToOriginal = append(v.FilteredToOriginal, i)
		v.SentenceIndex = append(v.SentenceIndex, w.SentenceIndex)
	}
	return v
}

// BuildAsrView filters and normalizes an ASR token stream the same way.
func BuildAsrView(tokens []model.AsrToken, mode StopwordMode, stop Stopwords, opts normalize.Options) *View {
	v := &View{}
	for i, tok := range tokens {
		n := normalize.Canonical(tok.Text, opts)
		if n == "" || (mode == StopwordsDomain && stop.Is(n)) {
			continue
		}
		v.Filtered = append(v.Filtered, n)
		v.FilteredToOriginal = append(v.FilteredToOriginal, i)
	}
	return v
}

// Stopwords is a filter set: English stopwords plus audiobook-specific
// fillers/interjections, configurable.
type Stopwords struct {
	set map[string]bool
}

// NewStopwords builds a Stopwords set from a word list.
func NewStopwords(words []string) Stopwords {
	s := Stopwords{set: make(map[string]bool, len(words))}
	for _, w := range words {
		s.set[w] = true
	}
	return s
}

// Is reports whether a normalized token is a stopword.
func (s Stopwords) Is(normalized string) bool {
	return s.set[normalized]
}

// DefaultDomainStopwords is the built-in English-stopwords-plus-filler set
// used when no config override is supplied.
var DefaultDomainStopwords = NewStopwords([]string{
	"a", "an", "the", "and", "or", "but", "of", "to", "in", "on", "at", "by",
	"for", "with", "as", "is", "was", "were", "are", "be", "been", "being",
	"um", "uh", "umm", "uhh", "er", "ah", "hmm", "like", "you know",
})
