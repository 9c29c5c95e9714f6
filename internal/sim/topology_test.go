package sim

import (
	"testing"

	"mesh_flood/internal/dataType"
)

func degree(adj map[dataType.Address][]dataType.Address) map[dataType.Address]int {
	out := make(map[dataType.Address]int, len(adj))
	for a, ns := range adj {
		out[a] = len(ns)
	}
	return out
}

func TestBuildTopology(t *testing.T) {
	addrs := NodeAddresses(9)
	tests := []struct {
		kind  string
		edges int
	}{
		{TopologyLine, 8},
		{TopologyRing, 9},
		{TopologyGrid, 12},
		{TopologyFull, 36},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			adj, err := BuildTopology(tt.kind, addrs)
			if err != nil {
				t.Fatalf("BuildTopology: %v", err)
			}
			total := 0
			for _, d := range degree(adj) {
				total += d
			}
			if total/2 != tt.edges {
				t.Errorf("Expected %d edges, got %d", tt.edges, total/2)
			}
			for a, ns := range adj {
				for _, b := range ns {
					if a == b {
						t.Errorf("Self link on %s", a)
					}
				}
			}
		})
	}

	if _, err := BuildTopology("star", addrs); err == nil {
		t.Error("Expected error for unknown topology")
	}
}

func TestBuildTopology_Grid(t *testing.T) {
	adj, _ := BuildTopology(TopologyGrid, NodeAddresses(9))
	d := degree(adj)
	if d["node-4"] != 4 || d["node-0"] != 2 || d["node-2"] != 2 {
		t.Errorf("Unexpected grid degrees %v", d)
	}
}
