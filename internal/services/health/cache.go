package health

import (
	"sort"
	"sync"

	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/enums"
	"github.com/musicislife08/TelegramGroupsAdmin-sub012/internal/domain/model"
)

// ChangeEvent is published on every cache write so a live UI can follow
// health transitions.
type ChangeEvent struct {
	ChatID  int64
	Removed bool
	Status  model.ChatHealth
}

// Cache is the process-wide snapshot of per-chat bot capability. It is
// fail-closed: a chat is actionable only while its cached state is exactly
// Healthy, so before the first health check completes nothing is actionable
// and cross-chat actions are skipped instead of failing against chats of
// unknown capability.
//
// Many orchestrator invocations read concurrently; the health-check job is
// the occasional writer. Reads copy out under RLock and never hold the lock
// past the snapshot.
type Cache struct {
	mu          sync.RWMutex
	byChatID    map[int64]model.ChatHealth
	subscribers []chan ChangeEvent
}

func NewCache() *Cache {
	return &Cache{
		byChatID: make(map[int64]model.ChatHealth),
	}
}

// Healthy returns the ids of all chats whose cached state is Healthy, sorted
// for deterministic fan-out order.
func (c *Cache) Healthy() []int64 {
	c.mu.RLock()
	ids := make([]int64, 0, len(c.byChatID))
	for id, status := range c.byChatID {
		if status.State == enums.ChatHealthHealthy {
			ids = append(ids, id)
		}
	}
	c.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Cache) Set(status model.ChatHealth) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byChatID[status.ChatID] = status
	c.publish(ChangeEvent{ChatID: status.ChatID, Status: status})
}

func (c *Cache) Remove(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.byChatID[chatID]; !existed {
		return
	}
	delete(c.byChatID, chatID)
	c.publish(ChangeEvent{ChatID: chatID, Removed: true})
}

func (c *Cache) Cached(chatID int64) (model.ChatHealth, bool) {
	c.mu.RLock()
	status, ok := c.byChatID[chatID]
	c.mu.RUnlock()
	return status, ok
}

// Snapshot copies the full cache, for the admin API.
func (c *Cache) Snapshot() []model.ChatHealth {
	c.mu.RLock()
	all := make([]model.ChatHealth, 0, len(c.byChatID))
	for _, status := range c.byChatID {
		all = append(all, status)
	}
	c.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ChatID < all[j].ChatID })
	return all
}

// Subscribe registers a buffered change-event channel. Events are dropped
// rather than blocking a writer when a subscriber falls behind.
func (c *Cache) Subscribe() <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 16)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

func (c *Cache) Unsubscribe(ch <-chan ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// publish requires c.mu held, which keeps sends ordered against Unsubscribe
// closing a channel.
func (c *Cache) publish(evt ChangeEvent) {
	for _, sub := range c.subscribers {
		select {
		case sub <- evt:
		default:
		}
	}
}
