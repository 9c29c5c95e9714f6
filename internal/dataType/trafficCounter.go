package dataType

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// TrafficCounter counts events per key over a sliding window of logical
// seconds. Keys are spread over buckets by xxhash so sinks shared between
// goroutines do not contend on a single lock.

type timeSegment struct {
	second int64
	count  int64
}

type counterElement struct {
	segments    []timeSegment
	segSize     int64
	total       int64
	lastUpdated int64
}

func newCounterElement(segments int64) *counterElement {
	return &counterElement{
		segments: make([]timeSegment, segments),
		segSize:  segments,
	}
}

func (c *counterElement) add(sec int64, value int64) {
	idx := sec % c.segSize
	if c.segments[idx].second != sec {
		c.segments[idx].second = sec
		c.segments[idx].count = value
	} else {
		c.segments[idx].count += value
	}
	c.total += value
	c.lastUpdated = sec
}

func (c *counterElement) query(lastN int64, now int64) int64 {
	if lastN > c.segSize {
		lastN = c.segSize
	}
	var sum int64
	for i := int64(0); i < lastN; i++ {
		sec := now - lastN + 1 + i
		if sec < 0 {
			continue
		}
		idx := sec % c.segSize
		if c.segments[idx].second == sec {
			sum += c.segments[idx].count
		}
	}
	return sum
}

type counterBucket struct {
	mu       sync.RWMutex
	counters map[uint64]*counterElement
	keys     map[uint64]string
}

type TrafficCounter struct {
	buckets     []*counterBucket
	bucketCount uint64
	segSize     int64
}

func NewTrafficCounter(bucketCount int, window int64) *TrafficCounter {
	if bucketCount <= 0 {
		bucketCount = 1
	}
	if window <= 0 {
		window = 60
	}
	tc := &TrafficCounter{
		buckets:     make([]*counterBucket, bucketCount),
		bucketCount: uint64(bucketCount),
		segSize:     window,
	}
	for i := range tc.buckets {
		tc.buckets[i] = &counterBucket{
			counters: make(map[uint64]*counterElement),
			keys:     make(map[uint64]string),
		}
	}
	return tc
}

func (tc *TrafficCounter) bucket(hashKey uint64) *counterBucket {
	return tc.buckets[hashKey%tc.bucketCount]
}

func (tc *TrafficCounter) Add(key string, now SimTime, value int64) {
	hashKey := xxhash.Sum64String(key)
	b := tc.bucket(hashKey)
	b.mu.Lock()
	defer b.mu.Unlock()
	counter, exists := b.counters[hashKey]
	if !exists {
		counter = newCounterElement(tc.segSize)
		b.counters[hashKey] = counter
		b.keys[hashKey] = key
	}
	counter.add(int64(now), value)
}

// Query returns the count for key over the last lastN seconds ending at now.
func (tc *TrafficCounter) Query(key string, now SimTime, lastN int64) int64 {
	hashKey := xxhash.Sum64String(key)
	b := tc.bucket(hashKey)
	b.mu.RLock()
	defer b.mu.RUnlock()
	if counter, exists := b.counters[hashKey]; exists {
		return counter.query(lastN, int64(now))
	}
	return 0
}

// Totals returns the all-time count for every key.
func (tc *TrafficCounter) Totals() map[string]int64 {
	out := make(map[string]int64)
	for _, b := range tc.buckets {
		b.mu.RLock()
		for h, counter := range b.counters {
			out[b.keys[h]] = counter.total
		}
		b.mu.RUnlock()
	}
	return out
}

// GC drops keys that saw no traffic within the window.
func (tc *TrafficCounter) GC(now SimTime) int {
	expireThreshold := int64(now) - tc.segSize
	removed := 0
	for _, b := range tc.buckets {
		b.mu.Lock()
		for h, counter := range b.counters {
			if counter.lastUpdated < expireThreshold {
				delete(b.counters, h)
				delete(b.keys, h)
				removed++
			}
		}
		b.mu.Unlock()
	}
	return removed
}
