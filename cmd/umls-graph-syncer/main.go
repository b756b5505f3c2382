// Command umls-graph-syncer bootstraps a biomedical knowledge graph from a
// UMLS RRF distribution and keeps it current across quarterly releases.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "umls-graph-syncer",
		Short:         "Sync a UMLS RRF distribution into a Neo4j knowledge graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", "", "optional .env file to load before reading the environment")
	root.PersistentFlags().String("log-mode", "dev", "logger mode: dev or prod")

	root.AddCommand(newFullImportCmd())
	root.AddCommand(newIncrementalSyncCmd())
	return root
}
