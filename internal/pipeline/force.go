package pipeline

import "sync"

// forceClaims tracks which (chapter, stage) pairs have already consumed
// their one-shot force re-run within a single orchestrator invocation, so
// that --force invalidates a stage's cached output exactly once even though
// Done is consulted repeatedly (once before Run, and again by any
// downstream stage checking whether its input is fresh).
type forceClaims struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func newForceClaims() *forceClaims {
	return &forceClaims{claimed: make(map[string]bool)}
}

// claim reports whether this is the first call for (chapterID, stageName)
// in this orchestrator run. Subsequent calls for the same pair return
// false, so Done() reverts to its normal skip-if-present check.
func (f *forceClaims) claim(chapterID, stageName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := chapterID + "/" + stageName
	if f.claimed[key] {
		return false
	}
	f.claimed[key] = true
	return true
}
