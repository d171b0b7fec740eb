package celebrate

import (
	"math/rand"
	"sync"
)

// Bag is a without-replacement random selector: every id is drawn exactly
// once, in shuffled order, before any id can repeat. Each bag serializes its
// own check-and-dequeue and clear-and-refill sequences; independent bags use
// independent locks and never serialize against each other.
type Bag struct {
	mu    sync.Mutex
	queue []int
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) == 0
}

// Next dequeues one id; ok is false when the bag is drained.
func (b *Bag) Next() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return 0, false
	}
	id := b.queue[0]
	b.queue = b.queue[1:]
	return id, true
}

// Repopulate replaces the bag contents with a Fisher-Yates shuffle of ids.
func (b *Bag) Repopulate(ids []int) {
	shuffled := make([]int, len(ids))
	copy(shuffled, ids)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	b.mu.Lock()
	b.queue = shuffled
	b.mu.Unlock()
}

// Draw combines the check-refill-dequeue cycle under one critical section so
// two concurrent callers cannot both observe empty and both trigger a refill.
func (b *Bag) Draw(candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		shuffled := make([]int, len(candidates))
		copy(shuffled, candidates)
		for i := len(shuffled) - 1; i > 0; i-- {
			j := rand.Intn(i + 1)
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}
		b.queue = shuffled
	}

	id := b.queue[0]
	b.queue = b.queue[1:]
	return id, true
}
