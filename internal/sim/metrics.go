package sim

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"mesh_flood/internal/dataType"
)

type nodeCounters struct {
	sent       atomic.Uint64
	received   atomic.Uint64
	relayed    atomic.Uint64
	duplicates atomic.Uint64
	malformed  atomic.Uint64
	routes     atomic.Int64
}

type NodeMetrics struct {
	Address    dataType.Address `json:"address"`
	Sent       uint64           `json:"sent"`
	Received   uint64           `json:"received"`
	Relayed    uint64           `json:"relayed"`
	Duplicates uint64           `json:"duplicates"`
	Malformed  uint64           `json:"malformed"`
	Routes     int64            `json:"routes"`
}

type Snapshot struct {
	Nodes      []NodeMetrics              `json:"nodes"`
	Totals     NodeMetrics                `json:"totals"`
	BySource   map[dataType.Address]int64 `json:"received_by_source"`
	LastWindow map[dataType.Address]int64 `json:"received_last_window"`
	Dispatched uint64                     `json:"dispatched"`
	Deliveries uint64                     `json:"deliveries"`
}

// trafficWindow is the span, in seconds, of Snapshot.LastWindow.
const trafficWindow = 60

// Metrics is a Telemetry sink shared by every node of a simulation.
type Metrics struct {
	mu      sync.RWMutex
	nodes   map[dataType.Address]*nodeCounters
	traffic *dataType.TrafficCounter
}

func NewMetrics() *Metrics {
	return &Metrics{
		nodes:   make(map[dataType.Address]*nodeCounters),
		traffic: dataType.NewTrafficCounter(16, trafficWindow),
	}
}

func (m *Metrics) node(addr dataType.Address) *nodeCounters {
	m.mu.RLock()
	c, ok := m.nodes[addr]
	m.mu.RUnlock()
	if ok {
		return c
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.nodes[addr]; !ok {
		c = &nodeCounters{}
		m.nodes[addr] = c
	}
	return c
}

func (m *Metrics) MessageSent(node dataType.Address, _ *dataType.ProtocolMessage, _ dataType.SimTime) {
	m.node(node).sent.Add(1)
}

func (m *Metrics) MessageReceived(node dataType.Address, msg *dataType.ProtocolMessage, now dataType.SimTime) {
	m.node(node).received.Add(1)
	m.traffic.Add(string(msg.Source), now, 1)
}

func (m *Metrics) MessageRelayed(node dataType.Address, _ *dataType.ProtocolMessage, _ dataType.SimTime) {
	m.node(node).relayed.Add(1)
}

func (m *Metrics) DuplicateDropped(node dataType.Address, _ *dataType.ProtocolMessage, _ dataType.SimTime) {
	m.node(node).duplicates.Add(1)
}

func (m *Metrics) MalformedDropped(node dataType.Address, _ dataType.SimTime) {
	m.node(node).malformed.Add(1)
}

func (m *Metrics) RoutingTableSize(node dataType.Address, size int) {
	m.node(node).routes.Store(int64(size))
}

// ReceivedFrom returns how many copies originated by source arrived anywhere
// during the last lastN seconds before now.
func (m *Metrics) ReceivedFrom(source dataType.Address, now dataType.SimTime, lastN int64) int64 {
	return m.traffic.Query(string(source), now, lastN)
}

// GC drops per-source segments that fell out of the window at now.
func (m *Metrics) GC(now dataType.SimTime) int {
	return m.traffic.GC(now)
}

// Snapshot copies every counter. LastWindow holds the arrivals per source in
// the trafficWindow seconds before now.
func (m *Metrics) Snapshot(now dataType.SimTime) Snapshot {
	m.mu.RLock()
	snap := Snapshot{Nodes: make([]NodeMetrics, 0, len(m.nodes))}
	for addr, c := range m.nodes {
		nm := NodeMetrics{
			Address:    addr,
			Sent:       c.sent.Load(),
			Received:   c.received.Load(),
			Relayed:    c.relayed.Load(),
			Duplicates: c.duplicates.Load(),
			Malformed:  c.malformed.Load(),
			Routes:     c.routes.Load(),
		}
		snap.Nodes = append(snap.Nodes, nm)
		snap.Totals.Sent += nm.Sent
		snap.Totals.Received += nm.Received
		snap.Totals.Relayed += nm.Relayed
		snap.Totals.Duplicates += nm.Duplicates
		snap.Totals.Malformed += nm.Malformed
		snap.Totals.Routes += nm.Routes
	}
	m.mu.RUnlock()

	sort.Slice(snap.Nodes, func(i, j int) bool {
		return snap.Nodes[i].Address < snap.Nodes[j].Address
	})

	snap.BySource = make(map[dataType.Address]int64)
	snap.LastWindow = make(map[dataType.Address]int64)
	for src, count := range m.traffic.Totals() {
		addr := dataType.Address(src)
		snap.BySource[addr] = count
		snap.LastWindow[addr] = m.ReceivedFrom(addr, now, trafficWindow)
	}
	return snap
}

// WriteSnapshot writes snap as indented JSON. An empty path is a no-op.
func WriteSnapshot(path string, snap Snapshot) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
