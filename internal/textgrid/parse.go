// Package textgrid implements the TextGrid parser & merger (C10): parsing
// Praat .TextGrid files and merging their word-interval timings into a
// HydratedTranscript/TranscriptIndex.
package textgrid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/encryptabit/ams/internal/model"
)

// Parse streams a Praat long-format TextGrid and extracts the "words" tier
// as an ordered, locale-invariant interval list. Empty-text intervals are
// retained (they denote silence).
func Parse(r io.Reader) (*model.TextGridDocument, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	doc := &model.TextGridDocument{}
	var curTier *model.Tier
	inWordsTier := false
	var pendingXmin, pendingXmax float64
	seenItem := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "xmin = ") && !seenItem && curTier == nil:
			if v, ok := parseNum(line, "xmin ="); ok {
				doc.Xmin = v
			}
		case strings.HasPrefix(line, "xmax = ") && !seenItem && curTier == nil:
			if v, ok := parseNum(line, "xmax ="); ok {
				doc.Xmax = v
			}
		case strings.HasPrefix(line, "item ["):
			seenItem = true
			if curTier != nil {
				doc.Tiers = append(doc.Tiers, *curTier)
			}
			curTier = &model.Tier{}
			inWordsTier = false
		case strings.HasPrefix(line, "name = "):
			name := parseQuoted(line)
			if curTier != nil {
				curTier.Name = name
			}
			inWordsTier = strings.EqualFold(name, "words")
		case curTier != nil && strings.HasPrefix(line, "xmin = "):
			if v, ok := parseNum(line, "xmin ="); ok {
				if curTier.Xmin == 0 {
					curTier.Xmin = v
				}
				pendingXmin = v
			}
		case curTier != nil && strings.HasPrefix(line, "xmax = "):
			if v, ok := parseNum(line, "xmax ="); ok {
				curTier.Xmax = v
				pendingXmax = v
			}
		case strings.HasPrefix(line, "text = "):
			if inWordsTier {
				curTier.Intervals = append(curTier.Intervals, model.Interval{
					Xmin: pendingXmin,
					Xmax: pendingXmax,
					Text: parseQuoted(line),
				})
			}
		}
	}
	if curTier != nil {
		doc.Tiers = append(doc.Tiers, *curTier)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("textgrid: scan: %w", err)
	}
	return doc, nil
}

// WordsTier returns the parsed document's "words" tier intervals, or nil if
// absent.
func WordsTier(doc *model.TextGridDocument) []model.Interval {
	for _, t := range doc.Tiers {
		if strings.EqualFold(t.Name, "words") {
			return t.Intervals
		}
	}
	return nil
}

func parseNum(line, prefix string) (float64, bool) {
	idx := strings.Index(line, prefix)
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSpace(line[idx+len(prefix):])
	// Locale-invariant: Praat always writes '.' as the decimal point
	// regardless of host locale, so ParseFloat is safe without further
	// normalization.
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseQuoted(line string) string {
	first := strings.Index(line, `"`)
	last := strings.LastIndex(line, `"`)
	if first < 0 || last <= first {
		return ""
	}
	return line[first+1 : last]
}
