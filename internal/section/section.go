// Package section implements the section locator (C5): resolving which
// SectionRange of the book a chapter's audio corresponds to.
package section

import (
	"strconv"
	"strings"

	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

// Resolver runs the override -> labels -> auto-detect strategy chain.
type Resolver struct {
	AsrPrefixTokens int
	Labels          *Labels
	Opts            normalize.Options
}

// NewResolver builds a Resolver with the given ASR-prefix window size.
func NewResolver(asrPrefixTokens int) *Resolver {
	if asrPrefixTokens <= 0 {
		asrPrefixTokens = 8
	}
	return &Resolver{AsrPrefixTokens: asrPrefixTokens}
}

// Resolve picks a SectionRange for a chapter. override, if non-nil, always
// wins. Otherwise label, if non-empty, is looked up in r.Labels. Otherwise
// auto-detection scans sections against the ASR prefix.
func (r *Resolver) Resolve(sections []model.SectionRange, override *model.SectionRange, label string, asrPrefixWords []string) (*model.SectionRange, string) {
	if override != nil {
		return override, "override"
	}
	if label != "" && r.Labels != nil {
		if sec := r.Labels.Lookup(label, sections); sec != nil {
			return sec, "labels"
		}
	}
	if sec := r.autoDetect(sections, asrPrefixWords); sec != nil {
		return sec, "auto"
	}
	return nil, ""
}

func (r *Resolver) autoDetect(sections []model.SectionRange, asrPrefixWords []string) *model.SectionRange {
	n := r.AsrPrefixTokens
	if n > len(asrPrefixWords) {
		n = len(asrPrefixWords)
	}
	prefixTokens := make([]string, 0, n)
	for _, w := range asrPrefixWords[:n] {
		c := normalize.Canonical(w, r.Opts)
		if c != "" {
			prefixTokens = append(prefixTokens, c)
		}
	}
	asrPrefix := strings.Join(prefixTokens, " ")

	for i := range sections {
		headingNorm := normalize.CanonicalText(sections[i].Title, r.Opts)
		if headingNorm == "" {
			continue
		}
		if strings.HasPrefix(asrPrefix, headingNorm) || strings.HasPrefix(headingNorm, asrPrefix) {
			return &sections[i]
		}
	}
	return nil
}

// Labels is a sidecar lookup mapping chapter labels (numeric, e.g.
// "Chapter 03", or textual, matched against section titles) to a book's
// SectionRange. This is a supplemented feature (see SPEC_FULL.md) enabling
// pre-resolution without running auto-detect against ASR text at all.
type Labels struct {
	byNumber map[int]string
}

// ParseLabels builds a Labels table from lines of the form
// "<label> -> <section-id-or-title>" (one mapping per line), the sidecar
// format a caller writes next to a chapter's audio directory.
func ParseLabels(lines []string) *Labels {
	l := &Labels{byNumber: make(map[int]string)}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "->", 2)
		if len(parts) != 2 {
			continue
		}
		label := strings.TrimSpace(parts[0])
		target := strings.TrimSpace(parts[1])
		if n, ok := extractNumber(label); ok {
			l.byNumber[n] = target
		}
	}
	return l
}

// Lookup resolves a label against the labels table and section list. Numeric
// labels ("Chapter 03") match by number; textual labels match by title.
func (l *Labels) Lookup(label string, sections []model.SectionRange) *model.SectionRange {
	if n, ok := extractNumber(label); ok {
		if target, ok := l.byNumber[n]; ok {
			for i := range sections {
				if sections[i].ID == target || strings.EqualFold(sections[i].Title, target) {
					return &sections[i]
				}
			}
		}
		// No sidecar entry: fall back to positional match by ordinal
		// among all sections, whatever their kind (1-indexed).
		count := 0
		for i := range sections {
			count++
			if count == n {
				return &sections[i]
			}
		}
		return nil
	}
	for i := range sections {
		if strings.EqualFold(sections[i].Title, label) {
			return &sections[i]
		}
	}
	return nil
}

func extractNumber(s string) (int, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
