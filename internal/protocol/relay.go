package protocol

import (
	"mesh_flood/internal/dataType"

	"go.uber.org/zap"
)

// maxTransmissionDelay bounds the random medium-access latency added to every send.
const maxTransmissionDelay = dataType.SimTime(0.01)

// ShouldRelay decides whether a message that passed duplicate suppression is
// re-broadcast by this node.
func (n *Node) ShouldRelay(msg *dataType.ProtocolMessage) bool {
	if msg.TTL <= 0 {
		n.logger.Debug("ttl exhausted", zap.Stringer("msg", msg))
		return false
	}
	// beacons are single-hop discovery
	if msg.Kind == dataType.KindBeacon {
		return false
	}
	if msg.Source == n.address {
		return false
	}
	// path holds every node that already forwarded the message
	if msg.InPath(n.address) {
		return false
	}
	return n.rng.Float64() < n.params.RelayProbability
}

// relayMessage sends a copy one hop further. The original is left untouched.
func (n *Node) relayMessage(msg *dataType.ProtocolMessage, now dataType.SimTime) {
	if msg.TTL <= 0 || msg.InPath(n.address) {
		return
	}

	relay := msg.Clone()
	relay.TTL--
	relay.HopCount++
	relay.IsRelay = true

	n.stats.Relayed++
	n.telemetry.MessageRelayed(n.address, relay, now)
	n.logger.Debug("relaying", zap.Stringer("msg", relay), zap.String("trace", relay.TraceID))

	n.SendMessage(relay, now)
}

// SendMessage stamps this node onto the path and hands the message to the
// transport after a small random delay.
func (n *Node) SendMessage(msg *dataType.ProtocolMessage, now dataType.SimTime) {
	if msg == nil {
		n.logger.Warn("refusing to send nil message")
		return
	}
	if msg.Source == "" {
		msg.Source = n.address
	}
	msg.AddToPath(n.address)

	delay := dataType.SimTime(n.rng.Float64()) * maxTransmissionDelay
	n.stats.Sent++
	n.telemetry.MessageSent(n.address, msg, now)
	n.transport.Dispatch(n.address, msg, delay)
}
