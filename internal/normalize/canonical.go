package normalize

import (
	"strings"
	"unicode"
)

// contractions is the fixed expansion table. Entries are matched against a
// whole normalized token, after casefolding and after the punctuation strip
// (which keeps intra-word apostrophes).
var contractions = map[string]string{
	"don't":     "do not",
	"doesn't":   "does not",
	"didn't":    "did not",
	"isn't":     "is not",
	"aren't":    "are not",
	"wasn't":    "was not",
	"weren't":   "were not",
	"haven't":   "have not",
	"hasn't":    "has not",
	"hadn't":    "had not",
	"won't":     "will not",
	"wouldn't":  "would not",
	"shan't":    "shall not",
	"shouldn't": "should not",
	"can't":     "cannot",
	"couldn't":  "could not",
	"mustn't":   "must not",
	"it's":      "it is",
	"that's":    "that is",
	"there's":   "there is",
	"here's":    "here is",
	"what's":    "what is",
	"who's":     "who is",
	"he's":      "he is",
	"she's":     "she is",
	"i'm":       "i am",
	"i've":      "i have",
	"i'll":      "i will",
	"i'd":       "i would",
	"you're":    "you are",
	"you've":    "you have",
	"you'll":    "you will",
	"you'd":     "you would",
	"we're":     "we are",
	"we've":     "we have",
	"we'll":     "we will",
	"we'd":      "we would",
	"they're":   "they are",
	"they've":   "they have",
	"they'll":   "they will",
	"they'd":    "they would",
	"let's":     "let us",
	"y'all":     "you all",
}

// Options controls the optional behaviors of canonical normalization.
type Options struct {
	// SpellOutNumbers, if true, converts a purely-numeric token into its
	// compact English spelling (e.g. "123" -> "one hundred twenty-three").
	SpellOutNumbers bool
}

// Canonical normalizes a single token: casefold, strip punctuation except
// intra-word apostrophes, expand contractions, optionally spell out
// integers, and collapse whitespace. The input should already have had
// Typography applied by the caller for multi-token text; Canonical itself
// also applies Typography defensively so it is safe to call directly on raw
// tokens.
func Canonical(token string, opts Options) string {
	t := Typography(token)
	t = strings.ToLower(t)
	t = stripPunctuationKeepApostrophe(t)
	t = collapseWhitespace(t)
	if expanded, ok := contractions[t]; ok {
		t = expanded
	}
	if opts.SpellOutNumbers && isAllDigits(t) {
		if spelled, ok := spellOutInt(t); ok {
			t = spelled
		}
	}
	return collapseWhitespace(t)
}

// CanonicalText normalizes a run of whitespace-separated text by applying
// Canonical to each token and rejoining with single spaces.
func CanonicalText(s string, opts Options) string {
	fields := strings.Fields(Typography(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		c := Canonical(f, opts)
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

func stripPunctuationKeepApostrophe(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '\'' {
			// Keep an apostrophe only when it sits between two letters
			// (intra-word), e.g. "don't", "book's".
			if i > 0 && i < len(runes)-1 &&
				unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1]) {
				b.WriteRune(r)
			}
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
