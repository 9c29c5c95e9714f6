package sim

import (
	"container/heap"
	"context"

	"mesh_flood/internal/dataType"
	"mesh_flood/internal/protocol"
)

type event struct {
	at        dataType.SimTime
	order     uint64 // FIFO among events due at the same time
	fire      func(dataType.SimTime)
	cancelled bool
	index     int
}

func (e *event) Cancel() {
	e.cancelled = true
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].order < q[j].order
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	e := x.(*event)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler is a single-threaded discrete-event loop over logical time.
// Events run one at a time in time order; callbacks may schedule more events.
type Scheduler struct {
	now    dataType.SimTime
	queue  eventQueue
	nextID uint64
	fired  uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Now() dataType.SimTime {
	return s.now
}

// Fired returns how many events have run so far.
func (s *Scheduler) Fired() uint64 {
	return s.fired
}

// ScheduleAt registers fire to run at time at. Times in the past run at Now.
func (s *Scheduler) ScheduleAt(at dataType.SimTime, fire func(dataType.SimTime)) protocol.Timer {
	if at < s.now {
		at = s.now
	}
	e := &event{at: at, order: s.nextID, fire: fire}
	s.nextID++
	heap.Push(&s.queue, e)
	return e
}

// Step runs the next live event due no later than horizon.
func (s *Scheduler) Step(horizon dataType.SimTime) bool {
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.cancelled {
			heap.Pop(&s.queue)
			continue
		}
		if next.at > horizon {
			return false
		}
		heap.Pop(&s.queue)
		s.now = next.at
		s.fired++
		next.fire(s.now)
		return true
	}
	return false
}

// RunUntil drains every event due up to horizon and leaves the clock there.
func (s *Scheduler) RunUntil(horizon dataType.SimTime) uint64 {
	n, _ := s.RunUntilContext(context.Background(), horizon)
	return n
}

// RunUntilContext is RunUntil that stops between two events once ctx is
// done. An interrupted run leaves the clock at the last fired event.
func (s *Scheduler) RunUntilContext(ctx context.Context, horizon dataType.SimTime) (uint64, error) {
	start := s.fired
	for {
		if err := ctx.Err(); err != nil {
			return s.fired - start, err
		}
		if !s.Step(horizon) {
			break
		}
	}
	if s.now < horizon {
		s.now = horizon
	}
	return s.fired - start, nil
}

// Pending counts events that are still due to fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.queue {
		if !e.cancelled {
			n++
		}
	}
	return n
}
