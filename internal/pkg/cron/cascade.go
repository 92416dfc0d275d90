package cron

import (
	"context"
	"time"
)

const cascadeRetryBatch = 50

// CascadeRetrier is the part of the leave service the retry job needs.
type CascadeRetrier interface {
	RetryFailedCascades(ctx context.Context, limit int) (int, error)
}

// RegisterCascadeRetry schedules the re-run of failed attendance cascades.
// A non-positive interval disables the job.
func RegisterCascadeRetry(scheduler *Scheduler, retrier CascadeRetrier, interval time.Duration) {
	if interval <= 0 {
		return
	}
	scheduler.AddJob("retry_failed_cascades", interval, func(ctx context.Context) error {
		_, err := retrier.RetryFailedCascades(ctx, cascadeRetryBatch)
		return err
	})
}
