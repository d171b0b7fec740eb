package messages

import (
	"context"
	"testing"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

type repoStub struct {
	messages map[int]model.TrackedMessage
	deleted  []int
}

func newRepoStub() *repoStub {
	return &repoStub{messages: make(map[int]model.TrackedMessage)}
}

func (r *repoStub) Upsert(_ context.Context, msg model.TrackedMessage) error {
	r.messages[msg.MessageID] = msg
	return nil
}

func (r *repoStub) Get(_ context.Context, _ int64, messageID int) (model.TrackedMessage, error) {
	return r.messages[messageID], nil
}

func (r *repoStub) MarkDeleted(_ context.Context, _ int64, messageID int) error {
	r.deleted = append(r.deleted, messageID)
	return nil
}

func (r *repoStub) ScheduleDelete(_ context.Context, chatID int64, messageID int, at time.Time) error {
	msg := r.messages[messageID]
	msg.ChatID = chatID
	msg.MessageID = messageID
	msg.DeleteAt = &at
	r.messages[messageID] = msg
	return nil
}

func (r *repoStub) ListDue(_ context.Context, cutoff time.Time, limit int) ([]model.TrackedMessage, error) {
	var due []model.TrackedMessage
	for _, msg := range r.messages {
		if msg.DeleteAt != nil && !msg.DeleteAt.After(cutoff) {
			due = append(due, msg)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

type deleterStub struct {
	deleted []int
}

func (d *deleterStub) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	d.deleted = append(d.deleted, messageID)
	return nil
}

func TestScheduledMessageBecomesDueAndIsDeleted(t *testing.T) {
	repo := newRepoStub()
	deleter := &deleterStub{}
	svc := NewService(repo, deleter)

	if err := svc.ScheduleCleanup(context.Background(), -100200, 7, time.Hour); err != nil {
		t.Fatalf("schedule cleanup: %v", err)
	}
	stored := repo.messages[7]
	if stored.DeleteAt == nil {
		t.Fatal("schedule cleanup did not set a due time")
	}

	// Before the TTL elapses nothing is due.
	deleted, err := svc.DeleteDue(context.Background(), time.Now().UTC(), 100)
	if err != nil {
		t.Fatalf("delete due before ttl: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted = %d before the message was due", deleted)
	}

	deleted, err = svc.DeleteDue(context.Background(), stored.DeleteAt.Add(time.Minute), 100)
	if err != nil {
		t.Fatalf("delete due after ttl: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if len(deleter.deleted) != 1 || deleter.deleted[0] != 7 {
		t.Fatalf("platform deletions = %v, want [7]", deleter.deleted)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 7 {
		t.Fatalf("marked deleted = %v, want [7]", repo.deleted)
	}
}

func TestScheduleCleanupDefaultsZeroTTL(t *testing.T) {
	repo := newRepoStub()
	svc := NewService(repo, &deleterStub{})

	before := time.Now().UTC()
	if err := svc.ScheduleCleanup(context.Background(), -100200, 9, 0); err != nil {
		t.Fatalf("schedule cleanup: %v", err)
	}
	stored := repo.messages[9]
	if stored.DeleteAt == nil {
		t.Fatal("no due time set")
	}
	if stored.DeleteAt.Before(before.Add(30 * time.Minute)) {
		t.Fatalf("due time %s is not pushed out by the default ttl", stored.DeleteAt)
	}
}
