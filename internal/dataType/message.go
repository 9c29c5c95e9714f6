package dataType

import (
	"fmt"
)

// Address identifies a node for its whole lifetime.
type Address string

// SimTime is logical time in seconds, supplied by the scheduler.
type SimTime float64

// Kind is the closed set of message variants.
type Kind int

const (
	KindData Kind = iota
	KindControl
	KindBeacon
	KindHeartbeat
	KindAdvertisement
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "DATA"
	case KindControl:
		return "CONTROL"
	case KindBeacon:
		return "BEACON"
	case KindHeartbeat:
		return "HEARTBEAT"
	case KindAdvertisement:
		return "ADVERTISEMENT"
	default:
		return fmt.Sprintf("KIND(%d)", int(k))
	}
}

// Valid reports whether k is one of the known variants.
func (k Kind) Valid() bool {
	return k >= KindData && k <= KindAdvertisement
}

// ProtocolMessage is the unit exchanged between nodes.
type ProtocolMessage struct {
	Kind        Kind      `json:"kind"`
	TraceID     string    `json:"trace_id"` // informational, preserved across relays
	Source      Address   `json:"source"`
	Sequence    int64     `json:"sequence"`
	TTL         int       `json:"ttl"`
	HopCount    int       `json:"hop_count"`
	Timestamp   SimTime   `json:"timestamp"`
	Path        []Address `json:"path"`
	Payload     []byte    `json:"payload"`
	DataSize    int       `json:"data_size,omitempty"` // Data only
	Priority    int       `json:"priority"`
	Deadline    SimTime   `json:"deadline,omitempty"` // zero unless Priority > 0
	Reliability float64   `json:"reliability"`
	IsRelay     bool      `json:"is_relay"`
}

// Key returns the duplicate suppression key of the message.
func (m *ProtocolMessage) Key() CacheKey {
	return CacheKey{Source: m.Source, Sequence: m.Sequence}
}

// Valid reports whether the message can be processed at all.
func (m *ProtocolMessage) Valid() bool {
	return m != nil && m.Source != "" && m.Kind.Valid()
}

// HasDeadline reports whether Deadline carries a value.
func (m *ProtocolMessage) HasDeadline() bool {
	return m.Priority > 0
}

func (m *ProtocolMessage) InPath(addr Address) bool {
	for _, a := range m.Path {
		if a == addr {
			return true
		}
	}
	return false
}

// AddToPath appends addr unless it is already present.
func (m *ProtocolMessage) AddToPath(addr Address) bool {
	if m.InPath(addr) {
		return false
	}
	m.Path = append(m.Path, addr)
	return true
}

// Clone returns a deep copy; Path and Payload are not shared.
func (m *ProtocolMessage) Clone() *ProtocolMessage {
	if m == nil {
		return nil
	}
	c := *m
	if m.Path != nil {
		c.Path = append([]Address(nil), m.Path...)
	}
	if m.Payload != nil {
		c.Payload = append([]byte(nil), m.Payload...)
	}
	return &c
}

func (m *ProtocolMessage) String() string {
	return fmt.Sprintf("%s %s#%d ttl=%d hops=%d path=%v", m.Kind, m.Source, m.Sequence, m.TTL, m.HopCount, m.Path)
}

// RoutingEntry is the best known route to one destination.
type RoutingEntry struct {
	Destination Address `json:"destination"`
	NextHop     Address `json:"next_hop"`
	HopCount    int     `json:"hop_count"`
	LastUpdated SimTime `json:"last_updated"`
	Reliability float64 `json:"reliability"`
}

// CacheKey identifies one originated message.
type CacheKey struct {
	Source   Address
	Sequence int64
}

type CacheEntry struct {
	Key      CacheKey
	Inserted SimTime
}
