package protocol

import (
	"mesh_flood/internal/dataType"

	"go.uber.org/zap"
)

// Sweep evicts routing and cache entries older than the route timeout. This
// is the only place routes are ever removed.
func (n *Node) Sweep(now dataType.SimTime) (routes int, cached int) {
	routes = n.routes.Sweep(now, n.params.RouteTimeout)
	cached = n.cache.Sweep(now, n.params.RouteTimeout)
	if routes > 0 {
		n.telemetry.RoutingTableSize(n.address, n.routes.Len())
	}
	n.logger.Info("maintenance sweep",
		zap.Float64("now", float64(now)),
		zap.Int("routes_removed", routes),
		zap.Int("cache_removed", cached),
		zap.Int("routes_left", n.routes.Len()),
		zap.Int("cache_left", n.cache.Len()),
	)
	return routes, cached
}
