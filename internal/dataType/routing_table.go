package dataType

import (
	"sort"
)

// RoutingTable keeps at most one entry per destination, learned from
// overheard traffic. An entry is replaced only by a strictly shorter route.
type RoutingTable struct {
	entries map[Address]RoutingEntry
}

func NewRoutingTable() *RoutingTable {
	return &RoutingTable{entries: make(map[Address]RoutingEntry)}
}

// UpdateFrom learns a route to msg.Source. It returns true when the table changed.
func (rt *RoutingTable) UpdateFrom(msg *ProtocolMessage, self Address, now SimTime) bool {
	if msg == nil || msg.Source == "" || msg.Source == self {
		return false
	}

	candidate := RoutingEntry{
		Destination: msg.Source,
		NextHop:     msg.Source,
		HopCount:    msg.HopCount,
		LastUpdated: now,
		Reliability: 1.0,
	}

	if existing, ok := rt.entries[candidate.Destination]; ok && existing.HopCount <= candidate.HopCount {
		return false
	}
	rt.entries[candidate.Destination] = candidate
	return true
}

func (rt *RoutingTable) Lookup(dest Address) (RoutingEntry, bool) {
	e, ok := rt.entries[dest]
	return e, ok
}

// Sweep removes entries not refreshed within timeout.
func (rt *RoutingTable) Sweep(now, timeout SimTime) int {
	removed := 0
	for dest, e := range rt.entries {
		if now-e.LastUpdated > timeout {
			delete(rt.entries, dest)
			removed++
		}
	}
	return removed
}

func (rt *RoutingTable) Len() int {
	return len(rt.entries)
}

// Snapshot returns a copy of the table ordered by destination.
func (rt *RoutingTable) Snapshot() []RoutingEntry {
	out := make([]RoutingEntry, 0, len(rt.entries))
	for _, e := range rt.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Destination < out[j].Destination
	})
	return out
}
