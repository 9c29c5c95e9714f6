package protocol

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"mesh_flood/internal/dataType"

	"go.uber.org/zap"
)

var (
	ErrAddressRequired   = errors.New("node address is required")
	ErrTransportRequired = errors.New("transport is required")
	ErrSchedulerRequired = errors.New("scheduler is required to start timers")
	ErrNodeClosed        = errors.New("node is closed")
)

type timerKind int

const (
	timerBeacon timerKind = iota
	timerHeartbeat
	timerCleanup
)

// Options wires a node to its collaborators. Transport is mandatory,
// Scheduler is only needed for Start.
type Options struct {
	Scheduler Scheduler
	Transport Transport
	Telemetry Telemetry
	Logger    *zap.Logger
	Rand      *rand.Rand
}

// Stats are the node-local totals reported at shutdown.
type Stats struct {
	Sent       int64 `json:"sent"`
	Received   int64 `json:"received"`
	Relayed    int64 `json:"relayed"`
	Duplicates int64 `json:"duplicates"`
	Malformed  int64 `json:"malformed"`
	Routes     int   `json:"routes"`
	Cached     int   `json:"cached"`
}

// Node holds the state of one mesh node. It is an actor: all methods must be
// called from the goroutine that delivers its events, never concurrently.
type Node struct {
	address dataType.Address
	params  dataType.ProtocolParams

	sequence int64

	routes *dataType.RoutingTable
	cache  *dataType.MessageCache

	scheduler Scheduler
	transport Transport
	telemetry Telemetry
	logger    *zap.Logger
	rng       *rand.Rand

	timers map[timerKind]Timer
	closed bool
	stats  Stats
}

func NewNode(address dataType.Address, params dataType.ProtocolParams, opts Options) (*Node, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}
	if params.CacheCapacity == 0 {
		params.CacheCapacity = dataType.DefaultCacheCapacity
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid protocol params for %s: %w", address, err)
	}
	if opts.Transport == nil {
		return nil, ErrTransportRequired
	}

	n := &Node{
		address:   address,
		params:    params,
		routes:    dataType.NewRoutingTable(),
		cache:     dataType.NewMessageCache(params.CacheCapacity),
		scheduler: opts.Scheduler,
		transport: opts.Transport,
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
		rng:       opts.Rand,
		timers:    make(map[timerKind]Timer),
	}
	if n.telemetry == nil {
		n.telemetry = nopTelemetry{}
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	n.logger = n.logger.With(zap.String("node", string(address)))
	return n, nil
}

func (n *Node) Address() dataType.Address {
	return n.address
}

func (n *Node) Params() dataType.ProtocolParams {
	return n.params
}

// Routes returns a copy of the routing table.
func (n *Node) Routes() []dataType.RoutingEntry {
	return n.routes.Snapshot()
}

func (n *Node) Route(dest dataType.Address) (dataType.RoutingEntry, bool) {
	return n.routes.Lookup(dest)
}

// Seen reports whether the (source, sequence) pair is in the duplicate cache.
func (n *Node) Seen(source dataType.Address, sequence int64) bool {
	return n.cache.Contains(dataType.CacheKey{Source: source, Sequence: sequence})
}

func (n *Node) CacheLen() int {
	return n.cache.Len()
}

func (n *Node) Stats() Stats {
	s := n.stats
	s.Routes = n.routes.Len()
	s.Cached = n.cache.Len()
	return s
}

// OnMessageArrival handles one inbound copy delivered by the transport.
func (n *Node) OnMessageArrival(msg *dataType.ProtocolMessage, now dataType.SimTime) {
	if n.closed {
		return
	}
	if !msg.Valid() {
		n.stats.Malformed++
		n.telemetry.MalformedDropped(n.address, now)
		if msg == nil {
			n.logger.Warn("dropped nil message")
		} else {
			n.logger.Warn("dropped malformed message",
				zap.String("source", string(msg.Source)),
				zap.Stringer("kind", msg.Kind),
			)
		}
		return
	}

	n.stats.Received++
	n.telemetry.MessageReceived(n.address, msg, now)

	if n.cache.IsDuplicate(msg) {
		n.stats.Duplicates++
		n.telemetry.DuplicateDropped(n.address, msg, now)
		n.logger.Debug("dropped duplicate", zap.Stringer("msg", msg))
		return
	}
	n.cache.Add(msg, now)

	if n.routes.UpdateFrom(msg, n.address, now) {
		n.telemetry.RoutingTableSize(n.address, n.routes.Len())
	}

	n.deliver(msg, now)

	if n.ShouldRelay(msg) {
		n.relayMessage(msg, now)
	}
}

func (n *Node) deliver(msg *dataType.ProtocolMessage, now dataType.SimTime) {
	switch msg.Kind {
	case dataType.KindBeacon:
		n.logger.Debug("beacon heard", zap.String("from", string(msg.Source)), zap.Int("hops", msg.HopCount))
	case dataType.KindHeartbeat:
		n.logger.Debug("heartbeat", zap.ByteString("payload", msg.Payload))
	case dataType.KindData:
		if msg.HasDeadline() && now > msg.Deadline {
			n.logger.Debug("late data message",
				zap.Stringer("msg", msg),
				zap.Float64("deadline", float64(msg.Deadline)),
			)
			// not delivered, but OnMessageArrival still relays it
			return
		}
		n.logger.Debug("data message",
			zap.Stringer("msg", msg),
			zap.Int("size", msg.DataSize),
			zap.Int("priority", msg.Priority),
		)
	case dataType.KindControl, dataType.KindAdvertisement:
		n.logger.Debug("control traffic", zap.Stringer("msg", msg), zap.ByteString("payload", msg.Payload))
	}
}

// Close cancels every pending timer and reports final counts. It is safe to
// call more than once.
func (n *Node) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	for kind, t := range n.timers {
		t.Cancel()
		delete(n.timers, kind)
	}
	s := n.Stats()
	n.telemetry.RoutingTableSize(n.address, s.Routes)
	n.logger.Info("node finished",
		zap.Int64("sent", s.Sent),
		zap.Int64("received", s.Received),
		zap.Int64("relayed", s.Relayed),
		zap.Int64("duplicates", s.Duplicates),
		zap.Int("routes", s.Routes),
	)
	return nil
}
