package pipeline

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/encryptabit/ams/internal/amserr"
	"github.com/encryptabit/ams/internal/config"
)

// withRetry wraps fn with bounded exponential backoff, retrying only
// amserr.ExternalTransient failures per spec §7. Adapted from the teacher's
// waitForReady (internal/defra/docker.go), which drives retry.Do with a
// fixed attempts/delay pair; here the bound comes from RetryConfig and the
// retry predicate is amserr.Retryable instead of an unconditional retry.
func withRetry(ctx context.Context, cfg config.RetryConfig, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(uint(cfg.MaxAttempts)),
		retry.Delay(time.Duration(cfg.BaseBackoffMs)*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(amserr.Retryable),
		retry.LastErrorOnly(true),
	)
}
