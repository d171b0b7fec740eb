package celebrate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

func TestDrawExhaustsPoolBeforeRepeating(t *testing.T) {
	bag := NewBag()
	candidates := indexes(5)

	for cycle := 0; cycle < 3; cycle++ {
		seen := make(map[int]bool, len(candidates))
		for i := 0; i < len(candidates); i++ {
			id, ok := bag.Draw(candidates)
			if !ok {
				t.Fatalf("cycle %d draw %d: bag reported empty with candidates", cycle, i)
			}
			if seen[id] {
				t.Fatalf("cycle %d: id %d repeated before exhaustion", cycle, id)
			}
			seen[id] = true
		}
	}
}

func TestDrawWithNoCandidates(t *testing.T) {
	bag := NewBag()
	if _, ok := bag.Draw(nil); ok {
		t.Fatalf("draw from empty candidate set succeeded")
	}
}

func TestNextOnDrainedBag(t *testing.T) {
	bag := NewBag()
	if _, ok := bag.Next(); ok {
		t.Fatalf("next on a fresh bag should report empty")
	}

	bag.Repopulate([]int{7})
	if id, ok := bag.Next(); !ok || id != 7 {
		t.Fatalf("next = (%d, %v), want (7, true)", id, ok)
	}
	if !bag.IsEmpty() {
		t.Fatalf("bag should be drained")
	}
}

func TestConcurrentDrawsNeverDuplicateWithinCycle(t *testing.T) {
	bag := NewBag()
	const n = 64
	candidates := indexes(n)

	var mu sync.Mutex
	counts := make(map[int]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ok := bag.Draw(candidates)
			if !ok {
				t.Errorf("draw failed")
				return
			}
			mu.Lock()
			counts[id]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	for id, c := range counts {
		if c != 1 {
			t.Fatalf("id %d drawn %d times within one cycle", id, c)
		}
	}
}

type senderStub struct {
	texts      []string
	stickers   []string
	animations []string
	nextID     int
}

func (s *senderStub) send() int {
	s.nextID++
	return s.nextID
}

func (s *senderStub) SendText(_ context.Context, _ int64, text string) (int, error) {
	s.texts = append(s.texts, text)
	return s.send(), nil
}

func (s *senderStub) SendSticker(_ context.Context, _ int64, fileID string) (int, error) {
	s.stickers = append(s.stickers, fileID)
	return s.send(), nil
}

func (s *senderStub) SendAnimation(_ context.Context, _ int64, fileID string) (int, error) {
	s.animations = append(s.animations, fileID)
	return s.send(), nil
}

type schedulerStub struct {
	scheduled []int
	ttls      []time.Duration
}

func (s *schedulerStub) ScheduleCleanup(_ context.Context, _ int64, messageID int, ttl time.Duration) error {
	s.scheduled = append(s.scheduled, messageID)
	s.ttls = append(s.ttls, ttl)
	return nil
}

func TestAnnounceBanDistinguishesAutomatedBans(t *testing.T) {
	sender := &senderStub{}
	svc := NewService(sender, []string{"sticker-1"}, nil)

	if err := svc.AnnounceBan(context.Background(), -1, 42, model.ActorFromUser(9, "mod")); err != nil {
		t.Fatalf("announce manual ban: %v", err)
	}
	if err := svc.AnnounceBan(context.Background(), -1, 43, model.ActorFromSystem(model.SystemIDAutoBan)); err != nil {
		t.Fatalf("announce auto ban: %v", err)
	}

	if len(sender.texts) != 2 {
		t.Fatalf("texts sent = %d, want 2", len(sender.texts))
	}
	if sender.texts[0] != "Spammer 42 banned by mod." {
		t.Fatalf("manual announcement = %q", sender.texts[0])
	}
	if sender.texts[1] != "Spammer 43 banned automatically." {
		t.Fatalf("auto announcement = %q", sender.texts[1])
	}
	if len(sender.stickers) != 2 {
		t.Fatalf("stickers sent = %d, want 2", len(sender.stickers))
	}
}

func TestAnnounceBanWithEmptyPoolsSendsTextOnly(t *testing.T) {
	sender := &senderStub{}
	svc := NewService(sender, nil, nil)

	if err := svc.AnnounceBan(context.Background(), -1, 42, model.ActorFromUser(9, "mod")); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if len(sender.stickers) != 0 || len(sender.animations) != 0 {
		t.Fatalf("media sent with empty pools")
	}
}

func TestAnnounceBanRejectsNonGroupChat(t *testing.T) {
	sender := &senderStub{}
	svc := NewService(sender, nil, nil)

	for _, chatID := range []int64{0, 1, 555001} {
		if err := svc.AnnounceBan(context.Background(), chatID, 42, model.ActorFromUser(9, "mod")); err == nil {
			t.Fatalf("announce into chat %d accepted", chatID)
		}
	}
	if len(sender.texts) != 0 {
		t.Fatalf("texts sent = %d, want 0", len(sender.texts))
	}
}

func TestAnnounceBanSchedulesMessagesForCleanup(t *testing.T) {
	sender := &senderStub{}
	scheduler := &schedulerStub{}
	svc := NewService(sender, []string{"sticker-1"}, nil)
	svc.AttachCleanup(scheduler, 45*time.Minute)

	if err := svc.AnnounceBan(context.Background(), -1, 42, model.ActorFromUser(9, "mod")); err != nil {
		t.Fatalf("announce: %v", err)
	}

	// One text plus one sticker, both marked for expiry.
	if len(scheduler.scheduled) != 2 {
		t.Fatalf("scheduled = %v, want two messages", scheduler.scheduled)
	}
	for _, ttl := range scheduler.ttls {
		if ttl != 45*time.Minute {
			t.Fatalf("ttl = %s, want 45m", ttl)
		}
	}
}
