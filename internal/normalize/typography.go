// Package normalize implements the text normalizer (C1) and the
// Levenshtein/phoneme comparer (C2): typography and canonical normalization,
// token equivalence, and character-level similarity.
package normalize

import "strings"

var typographyReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", // single curly quotes
	"“", `"`, "”", `"`, // double curly quotes
	"–", "-", "—", "-", // en/em dash
	"…", "...", // ellipsis
)

// Typography maps smart quotes, dashes, and ellipses to their ASCII
// equivalents. It is idempotent: Typography(Typography(s)) == Typography(s).
func Typography(s string) string {
	return typographyReplacer.Replace(s)
}
