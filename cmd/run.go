package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mesh_flood/internal/config"
	"mesh_flood/internal/sim"
	"mesh_flood/internal/utils"
)

var (
	basePath    string
	nodeCount   int
	topology    string
	duration    string
	seed        int64
	metricsPath string
	debugLogs   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a flooding simulation",
	Long: `Run a flooding simulation until the configured duration of logical time.

Configuration is read from <prefix>/config/mesh.yml; flags override it.

Examples:
  # Run with config/mesh.yml next to the binary
  mesh_flood run

  # Ten nodes on a ring for one hour of logical time
  mesh_flood run --nodes=10 --topology=ring --duration=1h`,
	RunE: runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&basePath, "prefix", "", "Config file base path")
	runCmd.Flags().IntVar(&nodeCount, "nodes", 0, "Number of nodes (overrides config)")
	runCmd.Flags().StringVar(&topology, "topology", "", "line, ring, grid or full (overrides config)")
	runCmd.Flags().StringVar(&duration, "duration", "", "Logical run time, e.g. 10m (overrides config)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (overrides config)")
	runCmd.Flags().StringVar(&metricsPath, "metrics", "", "Write a JSON metrics snapshot here")
	runCmd.Flags().BoolVar(&debugLogs, "debug", false, "Enable per-message debug logging")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadMainConfig(basePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cfg == nil {
			return fmt.Errorf("load config failed: %w", err)
		}
		log.Printf("[WARNING] %v, using defaults", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logs := utils.NewManager(cfg.LogPath, cfg.LogDebug)
	defer logs.Close()

	s, err := sim.New(cfg, logs)
	if err != nil {
		return err
	}

	log.Printf("Running %d nodes on a %s topology for %s of logical time", cfg.NodeCount, cfg.Topology, cfg.Duration)

	if _, err := s.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		// report what ran so far
		log.Printf("Interrupted at t=%.3f, closing nodes", s.Scheduler().Now())
	}

	snap, err := s.Close()
	printReport(cmd, snap)
	return err
}

func applyFlags(cmd *cobra.Command, cfg *config.MainConfig) {
	flags := cmd.Flags()
	if flags.Changed("nodes") {
		cfg.NodeCount = nodeCount
	}
	if flags.Changed("topology") {
		cfg.Topology = topology
	}
	if flags.Changed("duration") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("metrics") {
		cfg.MetricsPath = metricsPath
	}
	if flags.Changed("debug") {
		cfg.LogDebug = debugLogs
	}
}

func printReport(cmd *cobra.Command, snap sim.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %8s %8s %8s %10s %7s\n", "NODE", "SENT", "RECV", "RELAYED", "DUPLICATE", "ROUTES")
	for _, n := range snap.Nodes {
		fmt.Fprintf(out, "%-10s %8d %8d %8d %10d %7d\n", n.Address, n.Sent, n.Received, n.Relayed, n.Duplicates, n.Routes)
	}
	t := snap.Totals
	fmt.Fprintf(out, "%-10s %8d %8d %8d %10d %7d\n", "TOTAL", t.Sent, t.Received, t.Relayed, t.Duplicates, t.Routes)
	fmt.Fprintf(out, "broadcasts: %d, deliveries: %d\n", snap.Dispatched, snap.Deliveries)
}
