package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"mesh_flood/internal/config"
	"mesh_flood/internal/dataType"
	"mesh_flood/internal/protocol"
	"mesh_flood/internal/utils"

	"go.uber.org/zap"
)

// Simulation wires a set of protocol nodes to one scheduler and one network.
type Simulation struct {
	cfg       *config.MainConfig
	horizon   dataType.SimTime
	scheduler *Scheduler
	network   *Network
	metrics   *Metrics
	nodes     []*protocol.Node
	closed    bool
}

func New(cfg *config.MainConfig, logs *utils.LogxManager) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	horizon, err := cfg.Horizon()
	if err != nil {
		return nil, err
	}

	addrs := NodeAddresses(cfg.NodeCount)
	neighbors, err := BuildTopology(cfg.Topology, addrs)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:       cfg,
		horizon:   horizon,
		scheduler: NewScheduler(),
		metrics:   NewMetrics(),
	}
	s.network = NewNetwork(s.scheduler, neighbors)

	for i, addr := range addrs {
		var logger *zap.Logger
		if logs != nil {
			logger = logs.Logger(string(addr))
			logger.Info("attached", zap.Int("neighbors", len(s.network.Neighbors(addr))))
		}
		node, err := protocol.NewNode(addr, params, protocol.Options{
			Scheduler: s.scheduler,
			Transport: s.network,
			Telemetry: s.metrics,
			Logger:    logger,
			Rand:      rand.New(rand.NewSource(cfg.Seed + int64(i))),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", addr, err)
		}
		s.network.Attach(addr, node)
		s.nodes = append(s.nodes, node)
	}
	return s, nil
}

func (s *Simulation) Nodes() []*protocol.Node {
	return s.nodes
}

func (s *Simulation) Scheduler() *Scheduler {
	return s.scheduler
}

func (s *Simulation) Metrics() *Metrics {
	return s.metrics
}

// Start arms the timers of every node at the current logical time.
func (s *Simulation) Start() error {
	for _, n := range s.nodes {
		if err := n.Start(s.scheduler.Now()); err != nil {
			return fmt.Errorf("failed to start %s: %w", n.Address(), err)
		}
	}
	return nil
}

// Run starts every node and processes events up to the configured horizon,
// or until ctx is done. The simulation stays usable for Close either way.
func (s *Simulation) Run(ctx context.Context) (uint64, error) {
	if err := s.Start(); err != nil {
		return 0, err
	}
	return s.scheduler.RunUntilContext(ctx, s.horizon)
}

// Close shuts every node down, then returns the final snapshot and writes
// it to the configured metrics path.
func (s *Simulation) Close() (Snapshot, error) {
	var errs []error
	if !s.closed {
		s.closed = true
		for _, n := range s.nodes {
			s.network.Detach(n.Address())
			if err := n.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	now := s.scheduler.Now()
	snap := s.metrics.Snapshot(now)
	snap.Dispatched, snap.Deliveries = s.network.Counts()
	if err := WriteSnapshot(s.cfg.MetricsPath, snap); err != nil {
		errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
	}
	s.metrics.GC(now)
	return snap, errors.Join(errs...)
}
