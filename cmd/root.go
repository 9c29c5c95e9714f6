package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mesh_flood",
	Short: "Flooding mesh protocol simulator",
	Long: `Runs a set of mesh nodes that flood beacons, heartbeats and data
through a simulated radio topology, with duplicate suppression, TTL-bounded
probabilistic relay and hop-count routing tables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
