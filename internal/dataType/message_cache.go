package dataType

import (
	"container/list"
)

// MessageCache remembers which (source, sequence) pairs were already processed.
// Size is bounded: once capacity is exceeded the earliest inserted entry is
// evicted (FIFO, lookups do not refresh an entry). Sweep removes aged entries
// independently of the size bound.
type MessageCache struct {
	capacity int
	order    *list.List // of CacheEntry, oldest first
	entries  map[CacheKey]*list.Element
}

func NewMessageCache(capacity int) *MessageCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &MessageCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[CacheKey]*list.Element),
	}
}

func (c *MessageCache) Contains(key CacheKey) bool {
	_, ok := c.entries[key]
	return ok
}

// IsDuplicate reports whether msg was already cached.
func (c *MessageCache) IsDuplicate(msg *ProtocolMessage) bool {
	return c.Contains(msg.Key())
}

// Add inserts the message key at time now. It returns the evicted key, if any.
func (c *MessageCache) Add(msg *ProtocolMessage, now SimTime) (CacheKey, bool) {
	return c.Insert(msg.Key(), now)
}

func (c *MessageCache) Insert(key CacheKey, now SimTime) (CacheKey, bool) {
	if _, exists := c.entries[key]; exists {
		return CacheKey{}, false
	}
	c.entries[key] = c.order.PushBack(CacheEntry{Key: key, Inserted: now})

	if c.order.Len() <= c.capacity {
		return CacheKey{}, false
	}
	oldest := c.order.Front()
	entry := c.order.Remove(oldest).(CacheEntry)
	delete(c.entries, entry.Key)
	return entry.Key, true
}

// Sweep removes every entry older than maxAge at time now.
func (c *MessageCache) Sweep(now, maxAge SimTime) int {
	removed := 0
	for e := c.order.Front(); e != nil; {
		next := e.Next()
		entry := e.Value.(CacheEntry)
		if now-entry.Inserted > maxAge {
			c.order.Remove(e)
			delete(c.entries, entry.Key)
			removed++
		}
		e = next
	}
	return removed
}

func (c *MessageCache) Len() int {
	return c.order.Len()
}

func (c *MessageCache) Capacity() int {
	return c.capacity
}

// Entries returns the cached keys in insertion order.
func (c *MessageCache) Entries() []CacheEntry {
	out := make([]CacheEntry, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(CacheEntry))
	}
	return out
}
