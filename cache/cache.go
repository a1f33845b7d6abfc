// The cache package holds normalized tablebase evaluations. Tablebase truth
// is immutable per position, so entries never go stale; the cache only
// bounds memory, with strict least-recently-used eviction at a fixed
// capacity. It is shared by every session in the process and safe for
// concurrent use.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
)

type entry struct {
	key            string
	evaluation     eval.Evaluation
	lastAccessedAt time.Time
}

// EvalCache is a bounded LRU map from canonical position key to Evaluation.
type EvalCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently accessed
	items    map[string]*list.Element
	now      func() time.Time
}

// New creates a cache holding at most capacity entries. Capacities below 1
// are clamped to 1.
func New(capacity int) *EvalCache {
	if capacity < 1 {
		capacity = 1
	}
	return &EvalCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the evaluation stored under key, updating its recency. The
// cache is passive: a miss returns ok=false and triggers no lookup.
func (c *EvalCache) Get(key string) (eval.Evaluation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return eval.Evaluation{}, false
	}
	c.order.MoveToFront(el)
	ent := el.Value.(*entry)
	ent.lastAccessedAt = c.now()
	return ent.evaluation, true
}

// Put inserts or replaces the evaluation under key. If the insert pushes the
// cache over capacity, the least-recently-accessed entry is evicted.
func (c *EvalCache) Put(key string, evaluation eval.Evaluation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		ent := el.Value.(*entry)
		ent.evaluation = evaluation
		ent.lastAccessedAt = c.now()
		return
	}
	el := c.order.PushFront(&entry{
		key:            key,
		evaluation:     evaluation,
		lastAccessedAt: c.now(),
	})
	c.items[key] = el
	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// evictOldest removes the back of the recency list. Caller holds the lock.
func (c *EvalCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	ent := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, ent.key)
	log.Debug().Str("key", ent.key).Msg("evicted from eval cache")
}

// Len returns the current number of entries.
func (c *EvalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the fixed capacity set at construction.
func (c *EvalCache) Capacity() int {
	return c.capacity
}

// Clear drops every entry.
func (c *EvalCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}
