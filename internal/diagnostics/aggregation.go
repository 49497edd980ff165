package diagnostics

// Summary mirrors the teacher's metrics.Summary shape (counts, totals,
// averages) over a set of Events instead of a DefraDB Filter query.
type Summary struct {
	Count           int     `json:"count"`
	SuccessCount    int     `json:"successCount"`
	SkippedCount    int     `json:"skippedCount"`
	FailureCount    int     `json:"failureCount"`
	TotalDurationMs int64   `json:"totalDurationMs"`
	TotalBytes      int64   `json:"totalBytes"`
	AvgDurationMs   float64 `json:"avgDurationMs"`
}

// Summarize builds a Summary over events.
func Summarize(events []Event) Summary {
	s := Summary{Count: len(events)}
	for _, ev := range events {
		s.TotalDurationMs += ev.DurationMs
		s.TotalBytes += ev.BytesWritten
		switch ev.Outcome {
		case OutcomeSuccess:
			s.SuccessCount++
		case OutcomeSkipped:
			s.SkippedCount++
		case OutcomeFailure:
			s.FailureCount++
		}
	}
	if s.Count > 0 {
		s.AvgDurationMs = float64(s.TotalDurationMs) / float64(s.Count)
	}
	return s
}

// ByChapter groups events by chapter and summarizes each group, mirroring
// the teacher's StageDetailedStats grouped-by-stage breakdown.
func ByChapter(events []Event) map[string]Summary {
	grouped := make(map[string][]Event)
	for _, ev := range events {
		grouped[ev.Chapter] = append(grouped[ev.Chapter], ev)
	}
	result := make(map[string]Summary, len(grouped))
	for chapter, evs := range grouped {
		result[chapter] = Summarize(evs)
	}
	return result
}

// ByStage groups events by stage and summarizes each group.
func ByStage(events []Event) map[string]Summary {
	grouped := make(map[string][]Event)
	for _, ev := range events {
		grouped[ev.Stage] = append(grouped[ev.Stage], ev)
	}
	result := make(map[string]Summary, len(grouped))
	for stage, evs := range grouped {
		result[stage] = Summarize(evs)
	}
	return result
}

// RunSummary is the top-level per-run report: an overall Summary plus the
// per-chapter and per-stage breakdowns.
type RunSummary struct {
	Overall   Summary            `json:"overall"`
	ByChapter map[string]Summary `json:"byChapter"`
	ByStage   map[string]Summary `json:"byStage"`
}

// Aggregate builds the full RunSummary for a Recorder's events.
func Aggregate(r *Recorder) RunSummary {
	events := r.Events()
	return RunSummary{
		Overall:   Summarize(events),
		ByChapter: ByChapter(events),
		ByStage:   ByStage(events),
	}
}
