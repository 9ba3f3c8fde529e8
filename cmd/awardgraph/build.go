package awardgraph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awardgraph/awardgraph"
	"github.com/awardgraph/awardgraph/pkg/stats"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the graph from an award export",
	Long: `Build the knowledge graph from a tabular award export, write a GraphML
snapshot, and emit a statistics summary alongside it.`,
	RunE: runBuild,
}

var (
	buildDataFile     string
	buildSnapshotFile string
	buildStatsFile    string
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildDataFile, "data", "", "Award export CSV to ingest")
	buildCmd.Flags().StringVar(&buildSnapshotFile, "snapshot", "", "GraphML snapshot to write")
	buildCmd.Flags().StringVar(&buildStatsFile, "stats", "", "Statistics JSON to write")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if buildDataFile != "" {
		cfg.Graph.DataFile = buildDataFile
	}
	if buildSnapshotFile != "" {
		cfg.Graph.SnapshotFile = buildSnapshotFile
	}
	if buildStatsFile != "" {
		cfg.Graph.StatsFile = buildStatsFile
	}

	log.Info("building graph", "data", cfg.Graph.DataFile)
	result, err := awardgraph.BuildFromCSV(cfg.Graph.DataFile, log)
	if err != nil {
		return err
	}

	if err := awardgraph.Save(result.Store, cfg.Graph.SnapshotFile); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	log.Info("snapshot written", "file", cfg.Graph.SnapshotFile)

	summary := stats.Summarize(result.Store)
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}
	if err := os.WriteFile(cfg.Graph.StatsFile, payload, 0o644); err != nil {
		return fmt.Errorf("writing statistics: %w", err)
	}
	log.Info("statistics written", "file", cfg.Graph.StatsFile)

	fmt.Printf("Built graph: %d nodes, %d edges (%d rows, %d skipped)\n",
		result.Store.NodeCount(), result.Store.EdgeCount(), result.Processed, result.Skipped)
	return nil
}
