package protocol

import (
	"mesh_flood/internal/dataType"

	"go.uber.org/zap"
)

const (
	heartbeatPeriod      = dataType.SimTime(10)
	heartbeatJitter      = dataType.SimTime(2)
	firstHeartbeatMin    = dataType.SimTime(1)
	firstHeartbeatMax    = dataType.SimTime(5)
	dataOnHeartbeatRatio = 0.3
)

// Start schedules the first beacon, heartbeat and cleanup firings. Every
// firing schedules the next one itself.
func (n *Node) Start(now dataType.SimTime) error {
	if n.closed {
		return ErrNodeClosed
	}
	if n.scheduler == nil {
		return ErrSchedulerRequired
	}

	n.schedule(timerBeacon, now+n.uniform(0, n.params.BeaconInterval), n.onBeacon)
	n.schedule(timerHeartbeat, now+n.uniform(firstHeartbeatMin, firstHeartbeatMax), n.onHeartbeat)
	n.schedule(timerCleanup, now+n.params.RouteTimeout, n.onCleanup)

	n.logger.Info("node started",
		zap.Int("max_ttl", n.params.MaxTTL),
		zap.Float64("relay_probability", n.params.RelayProbability),
		zap.Float64("beacon_interval", float64(n.params.BeaconInterval)),
		zap.Float64("route_timeout", float64(n.params.RouteTimeout)),
	)
	return nil
}

func (n *Node) schedule(kind timerKind, at dataType.SimTime, fire func(dataType.SimTime)) {
	if n.closed {
		return
	}
	n.timers[kind] = n.scheduler.ScheduleAt(at, fire)
}

func (n *Node) uniform(lo, hi dataType.SimTime) dataType.SimTime {
	return lo + dataType.SimTime(n.rng.Float64())*(hi-lo)
}

func (n *Node) onBeacon(now dataType.SimTime) {
	if n.closed {
		return
	}
	n.SendMessage(n.CreateMessage(dataType.KindBeacon, now), now)
	n.schedule(timerBeacon, now+n.params.BeaconInterval, n.onBeacon)
}

func (n *Node) onHeartbeat(now dataType.SimTime) {
	if n.closed {
		return
	}
	n.SendMessage(n.CreateMessage(dataType.KindHeartbeat, now), now)
	if n.rng.Float64() < dataOnHeartbeatRatio {
		n.SendMessage(n.CreateMessage(dataType.KindData, now), now)
	}
	next := now + heartbeatPeriod + n.uniform(-heartbeatJitter, heartbeatJitter)
	n.schedule(timerHeartbeat, next, n.onHeartbeat)
}

func (n *Node) onCleanup(now dataType.SimTime) {
	if n.closed {
		return
	}
	n.Sweep(now)
	n.schedule(timerCleanup, now+n.params.RouteTimeout, n.onCleanup)
}
