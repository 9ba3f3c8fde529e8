// Package awardgraph builds and queries a knowledge graph of grant
// awards. A tabular award export is parsed into a directed multigraph
// of awards, people, organizations, places, programs and technology
// areas, which can then be searched, aggregated, visualized and
// snapshotted to GraphML.
package awardgraph

import (
	"fmt"
	"log/slog"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/graphml"
	"github.com/awardgraph/awardgraph/pkg/ingest"
	"github.com/awardgraph/awardgraph/pkg/stats"
)

// BuildResult pairs a freshly built store with its ingestion counters.
type BuildResult struct {
	Store     *graph.Store
	Processed int
	Skipped   int
}

// BuildFromCSV ingests the award export at path into a new store.
func BuildFromCSV(path string, log *slog.Logger) (*BuildResult, error) {
	src, closeFn, err := ingest.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening award data: %w", err)
	}
	defer closeFn()

	store := graph.NewStore()
	builder := graph.NewBuilder(store, log)
	if err := builder.Build(src); err != nil {
		return nil, err
	}
	return &BuildResult{
		Store:     store,
		Processed: builder.Processed(),
		Skipped:   builder.Skipped(),
	}, nil
}

// Save writes the store to a GraphML snapshot at path.
func Save(store *graph.Store, path string) error {
	return graphml.Save(store, path)
}

// Load restores a store from the GraphML snapshot at path.
func Load(path string) (*graph.Store, error) {
	return graphml.Load(path)
}

// Subgraph extracts the neighborhood of center out to depth, applying
// the store's geography traversal stop.
func Subgraph(store *graph.Store, center string, depth int) (*graph.Subgraph, error) {
	return store.Subgraph(center, depth)
}

// Summarize returns graph-wide statistics for the store.
func Summarize(store *graph.Store) *stats.Summary {
	return stats.Summarize(store)
}
