package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

func TestTrainingQueueFIFO(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewTrainingQueueRepo(client)
	ctx := context.Background()

	first := model.TrainingSample{ID: "a", UserTGID: 1, ChatID: -1, MessageID: 10, Text: "spam one", CapturedAt: time.Now().UTC()}
	second := model.TrainingSample{ID: "b", UserTGID: 2, ChatID: -1, MessageID: 11, Text: "spam two", CapturedAt: time.Now().UTC()}

	if err := repo.Push(ctx, first); err != nil {
		t.Fatalf("push first: %v", err)
	}
	if err := repo.Push(ctx, second); err != nil {
		t.Fatalf("push second: %v", err)
	}

	if n, err := repo.Len(ctx); err != nil || n != 2 {
		t.Fatalf("len = (%d, %v), want (2, nil)", n, err)
	}

	got, err := repo.Pop(ctx)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if got.ID != "a" {
		t.Fatalf("popped %q first, want %q", got.ID, "a")
	}

	got, err = repo.Pop(ctx)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if got.ID != "b" {
		t.Fatalf("popped %q second, want %q", got.ID, "b")
	}
}

func TestTrainingQueueEmptyPop(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewTrainingQueueRepo(client)

	if _, err := repo.Pop(context.Background()); !errors.Is(err, ErrTrainingQueueEmpty) {
		t.Fatalf("err = %v, want ErrTrainingQueueEmpty", err)
	}
}

func TestTrainingQueueRejectsInvalidSample(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewTrainingQueueRepo(client)

	if err := repo.Push(context.Background(), model.TrainingSample{ID: "x"}); err == nil {
		t.Fatalf("expected rejection of a sample without a user")
	}
}
