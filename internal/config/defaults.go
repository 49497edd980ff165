package config

// Entry is a single documented configuration key with its default value
// and a one-line description.
type Entry struct {
	Key         string
	Value       any
	Description string
}

// DefaultEntries returns the complete, documented list of recognized
// options from spec §4.13.
func DefaultEntries() []Entry {
	return []Entry{
		{Key: "anchors.nGram", Value: 3, Description: "n-gram size for anchor candidate generation"},
		{Key: "anchors.targetPerTokens", Value: 50, Description: "target anchor density, one per N filtered tokens"},
		{Key: "anchors.minSeparation", Value: 100, Description: "minimum filtered-token separation between accepted anchors"},
		{Key: "anchors.allowBoundaryCross", Value: false, Description: "allow an anchor n-gram to span more than one sentence"},
		{Key: "anchors.useDomainStopwords", Value: true, Description: "filter English stopwords and audiobook fillers before anchor selection"},
		{Key: "anchors.detectSection", Value: true, Description: "auto-detect the chapter's section via ASR-prefix matching"},
		{Key: "anchors.asrPrefixTokens", Value: 8, Description: "number of leading ASR tokens used for section detection"},
		{Key: "anchors.emitWindows", Value: true, Description: "emit the tightened anchor window alongside the anchor document"},
		{Key: "anchors.tryResolveSectionFromLabels", Value: true, Description: "prefer a sidecar labels file over auto-detection"},
		{Key: "anchors.sectionOverride", Value: "", Description: "explicit section id/title override, bypassing detection"},
		{Key: "align.phonemeSoftThreshold", Value: 0.8, Description: "character-similarity threshold for a 0.3 substitution cost"},
		{Key: "align.maxRun", Value: 8, Description: "run length above which a pane is flagged for review"},
		{Key: "align.maxAvg", Value: 0.6, Description: "average op cost above which a pane is flagged for review"},
		{Key: "bookIndex.avgWpm", Value: 200, Description: "words-per-minute rate used to estimate chapter duration"},
		{Key: "pipeline.startStage", Value: 1, Description: "first stage (1-7) to run"},
		{Key: "pipeline.endStage", Value: 7, Description: "last stage (1-7) to run"},
		{Key: "pipeline.force", Value: false, Description: "rebuild artifacts even if already present"},
		{Key: "pipeline.asrConcurrency", Value: 2, Description: "maximum concurrent ASR stage executions"},
		{Key: "pipeline.mfaConcurrency", Value: 1, Description: "maximum concurrent forced-aligner executions"},
		{Key: "pipeline.mfaWorkspacePool", Value: 2, Description: "number of pre-created MFA workspace directories"},
		{Key: "pipeline.retry.maxAttempts", Value: 5, Description: "maximum retry attempts for ExternalTransient failures"},
		{Key: "pipeline.retry.baseBackoffMs", Value: 500, Description: "base backoff, doubled per retry attempt"},
	}
}

// GetDefault returns the default entry for a config key, or nil if unknown.
func GetDefault(key string) *Entry {
	for _, e := range DefaultEntries() {
		if e.Key == key {
			return &e
		}
	}
	return nil
}
