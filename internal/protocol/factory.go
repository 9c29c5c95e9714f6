package protocol

import (
	"fmt"
	"strings"

	"mesh_flood/internal/dataType"

	"github.com/google/uuid"
)

const (
	BeaconMarker = "MESH_BEACON"

	minDataSize  = 50
	maxDataSize  = 200
	maxPriority  = 2
	dataDeadline = dataType.SimTime(30)
)

// nextSequence never reuses or decreases a value; the first one issued is 1.
func (n *Node) nextSequence() int64 {
	n.sequence++
	return n.sequence
}

// CreateMessage builds an outgoing message originated by this node. The path
// stays empty until the message goes through SendMessage.
func (n *Node) CreateMessage(kind dataType.Kind, now dataType.SimTime) *dataType.ProtocolMessage {
	msg := &dataType.ProtocolMessage{
		Kind:        kind,
		TraceID:     uuid.NewString(),
		Source:      n.address,
		Sequence:    n.nextSequence(),
		TTL:         n.params.MaxTTL,
		Timestamp:   now,
		Reliability: 1.0,
	}

	switch kind {
	case dataType.KindBeacon:
		msg.Payload = []byte(BeaconMarker)
		msg.TTL = 1
	case dataType.KindHeartbeat:
		msg.Payload = []byte(fmt.Sprintf("HEARTBEAT %s t=%.3f", n.address, float64(now)))
	case dataType.KindData:
		msg.DataSize = minDataSize + n.rng.Intn(maxDataSize-minDataSize+1)
		msg.Payload = make([]byte, msg.DataSize)
		msg.Priority = n.rng.Intn(maxPriority + 1)
		if msg.Priority > 0 {
			msg.Deadline = now + dataDeadline
		}
	case dataType.KindAdvertisement:
		msg.Payload = []byte(n.advertisement())
	case dataType.KindControl:
		msg.Payload = []byte("CONTROL")
	}
	return msg
}

// advertisement lists the known routes as "dest:hops" pairs.
func (n *Node) advertisement() string {
	routes := n.routes.Snapshot()
	parts := make([]string, 0, len(routes))
	for _, r := range routes {
		parts = append(parts, fmt.Sprintf("%s:%d", r.Destination, r.HopCount))
	}
	return strings.Join(parts, ",")
}

// Originate creates a message of the given kind and sends it.
func (n *Node) Originate(kind dataType.Kind, now dataType.SimTime) (*dataType.ProtocolMessage, error) {
	if n.closed {
		return nil, ErrNodeClosed
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("cannot originate %s", kind)
	}
	msg := n.CreateMessage(kind, now)
	n.SendMessage(msg, now)
	return msg, nil
}
