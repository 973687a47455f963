// AngelaMos | 2026
// cleanup.go

package draft

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor is satisfied by *sql.DB, *sqlx.DB and their transactions.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CleanupJob sweeps drafts of every user that have not been saved within
// Retention. Deleting is idempotent, so overlapping runs are harmless.
type CleanupJob struct {
	db        Executor
	logger    *slog.Logger
	recorder  Recorder
	Retention time.Duration
	now       func() time.Time
}

func NewCleanupJob(db Executor, recorder Recorder, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:        db,
		logger:    logger,
		recorder:  recorder,
		Retention: DefaultRetention,
		now:       time.Now,
	}
}

func (j *CleanupJob) Run(ctx context.Context) (int, error) {
	start := time.Now()
	cutoff := j.now().Add(-j.Retention)

	query := `DELETE FROM drafts WHERE last_saved_at < $1`
	result, err := j.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		j.logger.Error("draft cleanup failed",
			"error", err,
			"retention", j.Retention.String(),
		)
		return 0, fmt.Errorf("draft cleanup: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("draft cleanup rows affected: %w", err)
	}

	if j.recorder != nil && deleted > 0 {
		j.recorder.DraftsCleaned(int(deleted))
	}

	j.logger.Info("draft cleanup completed",
		"deleted_count", deleted,
		"retention", j.Retention.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return int(deleted), nil
}

// Start runs the job immediately and then every interval until ctx is
// cancelled. Failures are logged by Run and do not stop the loop.
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		//nolint:errcheck // Run logs its own failures
		_, _ = j.Run(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
