// Package pipeline implements the orchestrator (C12): the seven per-chapter
// stages of spec §4.11 run in strict order under three concurrency gates
// and an MFA workspace pool, with skip-if-present resumption and bounded
// retry of transient external failures.
package pipeline

import "context"

// GateKind names which of RunContext.Gates a stage acquires while running,
// purely for status/listing purposes — each stage acquires its own gate
// directly from the RunContext inside Run.
type GateKind string

const (
	GateNone      GateKind = "-"
	GateBookIndex GateKind = "book-index"
	GateAsr       GateKind = "asr"
	GateMfa       GateKind = "mfa"
)

// Stage is one of the seven ordered per-chapter steps. Adapted from the
// teacher's pipeline.Stage (this same file, originally a DAG node resolved
// against DefraDB-backed book stages): AMS stages are a fixed 1..7
// sequence with no branching, so Stage carries its fixed Number and a
// GateKind label instead of a Dependencies list and DefraDB status query.
type Stage interface {
	// Number is the stage's position, 1..7, per spec §4.11's table.
	Number() int
	// Name is the stage verb, e.g. "asr", "anchors", "mfa".
	Name() string
	// Gate names the concurrency gate this stage holds while running, or
	// GateNone for a CPU-only stage (3, 4, 5, 7).
	Gate() GateKind
	// Done reports whether the stage's output artifact already exists for
	// chapterID, backing skip-if-present resumption.
	Done(rc *RunContext, chapterID string) (bool, error)
	// Run executes the stage for chapterID.
	Run(ctx context.Context, rc *RunContext, chapterID string) error
}
