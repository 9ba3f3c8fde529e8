package awardgraph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awardgraph/awardgraph"
	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/query"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a graph snapshot from the command line",
}

var (
	querySnapshot string
	queryType     string
	queryLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search nodes by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		engine := query.NewEngine(store)
		hits := engine.Search(args[0], types.NodeType(queryType), queryLimit)
		return printJSON(hits)
	},
}

var nodeCmd = &cobra.Command{
	Use:   "node <id>",
	Short: "Show a node with its connections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		details, err := query.NewEngine(store).NodeDetails(args[0])
		if err != nil {
			return err
		}
		return printJSON(details)
	},
}

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Rank organizations by total funding",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		orgs := stats.Organizations(store)
		if queryLimit > 0 && len(orgs) > queryLimit {
			orgs = orgs[:queryLimit]
		}
		return printJSON(orgs)
	},
}

var techsCmd = &cobra.Command{
	Use:   "techs",
	Short: "Rank technology areas by award count",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		return printJSON(stats.Technologies(store))
	},
}

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Rank states by organizations, awards and funding",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		return printJSON(stats.States(store))
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank nodes by degree",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		by, _ := cmd.Flags().GetString("by")
		ranked := query.NewEngine(store).MostConnected(types.NodeType(queryType), queryLimit, by)
		return printJSON(ranked)
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths <source> <target>",
	Short: "List directed paths between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		maxLen, _ := cmd.Flags().GetInt("max-length")
		paths := query.NewEngine(store).FindPaths(args[0], args[1], maxLen)
		return printJSON(paths)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print graph-wide statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadSnapshot()
		if err != nil {
			return err
		}
		return printJSON(stats.Summarize(store))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(searchCmd, nodeCmd, orgsCmd, techsCmd, statesCmd, topCmd, pathsCmd, summaryCmd)

	queryCmd.PersistentFlags().StringVar(&querySnapshot, "snapshot", "", "GraphML snapshot to load")
	queryCmd.PersistentFlags().StringVar(&queryType, "type", "", "Restrict to one node type")
	queryCmd.PersistentFlags().IntVar(&queryLimit, "limit", 0, "Maximum results")

	topCmd.Flags().String("by", "total", "Degree selector: in, out or total")
	pathsCmd.Flags().Int("max-length", 3, "Maximum path length in edges")
}

func loadSnapshot() (*graph.Store, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if querySnapshot != "" {
		cfg.Graph.SnapshotFile = querySnapshot
	}
	return awardgraph.Load(cfg.Graph.SnapshotFile)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
