package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

const trainingQueueKey = "training:samples"

var ErrTrainingQueueEmpty = errors.New("training queue is empty")

// TrainingQueueRepo is the hand-off list between the moderation engine and
// the classifier training pipeline, which drains it out of process.
type TrainingQueueRepo struct {
	client *goredis.Client
}

func NewTrainingQueueRepo(client *goredis.Client) *TrainingQueueRepo {
	return &TrainingQueueRepo{client: client}
}

func (r *TrainingQueueRepo) Push(ctx context.Context, sample model.TrainingSample) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if sample.UserTGID <= 0 {
		return fmt.Errorf("invalid training sample user")
	}

	raw, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode training sample: %w", err)
	}
	if err := r.client.LPush(ctx, trainingQueueKey, raw).Err(); err != nil {
		return fmt.Errorf("push training sample: %w", err)
	}
	return nil
}

func (r *TrainingQueueRepo) Pop(ctx context.Context) (model.TrainingSample, error) {
	if r.client == nil {
		return model.TrainingSample{}, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.RPop(ctx, trainingQueueKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.TrainingSample{}, ErrTrainingQueueEmpty
		}
		return model.TrainingSample{}, fmt.Errorf("pop training sample: %w", err)
	}

	var sample model.TrainingSample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return model.TrainingSample{}, fmt.Errorf("decode training sample: %w", err)
	}
	return sample, nil
}

func (r *TrainingQueueRepo) Len(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	n, err := r.client.LLen(ctx, trainingQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("training queue length: %w", err)
	}
	return n, nil
}
