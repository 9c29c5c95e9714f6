package sim

import (
	"fmt"
	"math"

	"mesh_flood/internal/dataType"
)

const (
	TopologyLine = "line"
	TopologyRing = "ring"
	TopologyGrid = "grid"
	TopologyFull = "full"
)

// NodeAddresses names n nodes "node-0" .. "node-(n-1)".
func NodeAddresses(n int) []dataType.Address {
	out := make([]dataType.Address, n)
	for i := range out {
		out[i] = dataType.Address(fmt.Sprintf("node-%d", i))
	}
	return out
}

// BuildTopology returns the symmetric neighbor lists for the given layout.
func BuildTopology(kind string, addrs []dataType.Address) (map[dataType.Address][]dataType.Address, error) {
	adj := make(map[dataType.Address][]dataType.Address, len(addrs))
	for _, a := range addrs {
		adj[a] = nil
	}
	link := func(i, j int) {
		if i == j {
			return
		}
		adj[addrs[i]] = append(adj[addrs[i]], addrs[j])
		adj[addrs[j]] = append(adj[addrs[j]], addrs[i])
	}

	n := len(addrs)
	switch kind {
	case TopologyLine:
		for i := 0; i+1 < n; i++ {
			link(i, i+1)
		}
	case TopologyRing:
		for i := 0; i+1 < n; i++ {
			link(i, i+1)
		}
		if n > 2 {
			link(n-1, 0)
		}
	case TopologyGrid:
		width := int(math.Ceil(math.Sqrt(float64(n))))
		for i := 0; i < n; i++ {
			if (i+1)%width != 0 && i+1 < n {
				link(i, i+1)
			}
			if i+width < n {
				link(i, i+width)
			}
		}
	case TopologyFull:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				link(i, j)
			}
		}
	default:
		return nil, fmt.Errorf("unknown topology %q", kind)
	}
	return adj, nil
}
