package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hireloop/interviewd/internal/jobs"
	"github.com/hireloop/interviewd/pkg/models"
)

// ErrorReporter surfaces a scoring failure on the live session's error
// channel without disturbing its completed status.
type ErrorReporter interface {
	ReportScoringError(ctx context.Context, msg string)
}

// FinalizeHandler returns the job handler for jobs.TypeFinalize. The payload
// is a completed session snapshot; a handler error makes the worker retry
// with backoff, and the per-candidate guard in Finalize keeps those retries
// idempotent once one attempt lands.
func FinalizeHandler(arch *Service, reporter ErrorReporter) jobs.Handler {
	return func(ctx context.Context, j *jobs.Job) error {
		var sess models.Session
		if err := json.Unmarshal(j.Payload, &sess); err != nil {
			return fmt.Errorf("decode finalize payload: %w", err)
		}

		if _, err := arch.Finalize(ctx, sess); err != nil {
			if reporter != nil {
				reporter.ReportScoringError(ctx, fmt.Sprintf("Scoring failed: %v", err))
			}
			return err
		}
		return nil
	}
}

// EnqueueFinalize posts a completed session snapshot onto the job queue.
func EnqueueFinalize(ctx context.Context, repo *jobs.Repository, sess models.Session) (int64, error) {
	b, err := json.Marshal(sess)
	if err != nil {
		return 0, fmt.Errorf("encode finalize payload: %w", err)
	}
	j := &jobs.Job{Type: jobs.TypeFinalize, Payload: b, Priority: 100, MaxAttempts: 5}
	return repo.Enqueue(ctx, j)
}
