package sim

import (
	"mesh_flood/internal/dataType"
)

// Receiver is the inbound side of a node.
type Receiver interface {
	OnMessageArrival(msg *dataType.ProtocolMessage, now dataType.SimTime)
}

// Network is an in-process broadcast medium: a dispatched message reaches
// every neighbor of the sender after the requested delay, each neighbor
// getting its own copy.
type Network struct {
	scheduler *Scheduler
	neighbors map[dataType.Address][]dataType.Address
	nodes     map[dataType.Address]Receiver

	dispatched uint64
	deliveries uint64
}

func NewNetwork(scheduler *Scheduler, neighbors map[dataType.Address][]dataType.Address) *Network {
	return &Network{
		scheduler: scheduler,
		neighbors: neighbors,
		nodes:     make(map[dataType.Address]Receiver),
	}
}

func (n *Network) Attach(addr dataType.Address, r Receiver) {
	n.nodes[addr] = r
}

func (n *Network) Detach(addr dataType.Address) {
	delete(n.nodes, addr)
}

func (n *Network) Neighbors(addr dataType.Address) []dataType.Address {
	return n.neighbors[addr]
}

func (n *Network) Dispatch(from dataType.Address, msg *dataType.ProtocolMessage, delay dataType.SimTime) {
	if msg == nil {
		return
	}
	n.dispatched++
	at := n.scheduler.Now() + delay
	for _, to := range n.neighbors[from] {
		to := to
		copied := msg.Clone()
		n.scheduler.ScheduleAt(at, func(now dataType.SimTime) {
			// a detached node simply misses the message
			r, ok := n.nodes[to]
			if !ok {
				return
			}
			n.deliveries++
			r.OnMessageArrival(copied, now)
		})
	}
}

// Counts returns the number of broadcasts and of per-neighbor deliveries.
func (n *Network) Counts() (dispatched, deliveries uint64) {
	return n.dispatched, n.deliveries
}
