package protocol

import (
	"math/rand"
	"sort"
	"testing"

	"mesh_flood/internal/dataType"
)

type dispatched struct {
	from  dataType.Address
	msg   *dataType.ProtocolMessage
	delay dataType.SimTime
}

type recordingTransport struct {
	sent []dispatched
}

func (r *recordingTransport) Dispatch(from dataType.Address, msg *dataType.ProtocolMessage, delay dataType.SimTime) {
	r.sent = append(r.sent, dispatched{from: from, msg: msg, delay: delay})
}

func (r *recordingTransport) last(t *testing.T) *dataType.ProtocolMessage {
	t.Helper()
	if len(r.sent) == 0 {
		t.Fatal("Expected a dispatched message, got none")
	}
	return r.sent[len(r.sent)-1].msg
}

type fakeTimer struct {
	at        dataType.SimTime
	fire      func(dataType.SimTime)
	cancelled bool
}

func (f *fakeTimer) Cancel() { f.cancelled = true }

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) ScheduleAt(at dataType.SimTime, fire func(dataType.SimTime)) Timer {
	t := &fakeTimer{at: at, fire: fire}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out
}

// fireNext pops and runs the earliest live timer.
func (s *fakeScheduler) fireNext(t *testing.T) dataType.SimTime {
	t.Helper()
	p := s.pending()
	if len(p) == 0 {
		t.Fatal("Expected a pending timer")
	}
	next := p[0]
	next.cancelled = true
	next.fire(next.at)
	return next.at
}

type countingTelemetry struct {
	sent, received, relayed, duplicates, malformed int
	routeUpdates                                   int
}

func (c *countingTelemetry) MessageSent(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {
	c.sent++
}
func (c *countingTelemetry) MessageReceived(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {
	c.received++
}
func (c *countingTelemetry) MessageRelayed(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {
	c.relayed++
}
func (c *countingTelemetry) DuplicateDropped(dataType.Address, *dataType.ProtocolMessage, dataType.SimTime) {
	c.duplicates++
}
func (c *countingTelemetry) MalformedDropped(dataType.Address, dataType.SimTime) { c.malformed++ }
func (c *countingTelemetry) RoutingTableSize(dataType.Address, int) { c.routeUpdates++ }

func testParams() dataType.ProtocolParams {
	return dataType.ProtocolParams{
		MaxTTL:           3,
		RelayProbability: 1.0,
		BeaconInterval:   5,
		RouteTimeout:     60,
		CacheCapacity:    dataType.DefaultCacheCapacity,
	}
}

type testNode struct {
	*Node
	transport *recordingTransport
	scheduler *fakeScheduler
	telemetry *countingTelemetry
}

func newTestNode(t *testing.T, addr dataType.Address, params dataType.ProtocolParams) *testNode {
	t.Helper()
	tn := &testNode{
		transport: &recordingTransport{},
		scheduler: &fakeScheduler{},
		telemetry: &countingTelemetry{},
	}
	n, err := NewNode(addr, params, Options{
		Scheduler: tn.scheduler,
		Transport: tn.transport,
		Telemetry: tn.telemetry,
		Rand:      rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatalf("NewNode(%s): %v", addr, err)
	}
	tn.Node = n
	return tn
}
