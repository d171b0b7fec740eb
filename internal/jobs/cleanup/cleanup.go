package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultBatchSize = 200

type dueDeleter interface {
	DeleteDue(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// Job removes bot-sent messages whose scheduled deletion time has passed.
// Announcements and warning notices are scheduled with a TTL when sent; this
// job sweeps them in batches so a backlog cannot stall one pass forever.
type Job struct {
	messages  dueDeleter
	batchSize int
	now       func() time.Time
	logger    *zap.Logger
}

func New(messages dueDeleter, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		messages:  messages,
		batchSize: defaultBatchSize,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.messages == nil {
		return nil
	}

	cutoff := j.now().UTC()
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		deleted, err := j.messages.DeleteDue(ctx, cutoff, j.batchSize)
		if err != nil {
			return fmt.Errorf("delete due messages: %w", err)
		}
		total += deleted
		if deleted < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.Info("cleanup expired messages completed", zap.Int("deleted", total))
	}
	return nil
}
