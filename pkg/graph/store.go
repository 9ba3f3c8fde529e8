package graph

import (
	"errors"
	"sort"

	"github.com/awardgraph/awardgraph/pkg/types"
)

// ErrNodeNotFound is returned by read operations that reference a node
// identifier absent from the store.
var ErrNodeNotFound = errors.New("node not found")

// labelSet holds the relationship labels present between one ordered
// node pair. Traversal treats the pair as a single adjacency; each
// label stays independently inspectable.
type labelSet map[types.RelLabel]struct{}

// Store is the in-memory directed multigraph. Nodes are keyed by their
// canonical identifier, edges by the (source, target, label) triple.
// The builder is the only writer; once construction finishes the store
// is read-mostly and its read methods are safe to call concurrently.
type Store struct {
	nodes map[string]*types.Node
	out   map[string]map[string]labelSet
	in    map[string]map[string]labelSet

	nodeCounts map[types.NodeType]int
	edgeCounts map[types.RelLabel]int
	edgeTotal  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nodes:      make(map[string]*types.Node),
		out:        make(map[string]map[string]labelSet),
		in:         make(map[string]map[string]labelSet),
		nodeCounts: make(map[types.NodeType]int),
		edgeCounts: make(map[types.RelLabel]int),
	}
}

// UpsertNode inserts the node if its ID is not yet present and reports
// whether an insert happened. An existing node is left untouched:
// first-seen attributes win, re-ingestion of the same identifier is a
// no-op.
func (s *Store) UpsertNode(n *types.Node) bool {
	if _, ok := s.nodes[n.ID]; ok {
		return false
	}
	s.nodes[n.ID] = n
	s.nodeCounts[n.Type]++
	return true
}

// UpsertEdge inserts a directed labeled edge and reports whether an
// insert happened. Inserting a (source, target, label) triple that
// already exists is a no-op; the same pair may carry several edges as
// long as the labels differ.
func (s *Store) UpsertEdge(source, target string, label types.RelLabel) bool {
	targets, ok := s.out[source]
	if !ok {
		targets = make(map[string]labelSet)
		s.out[source] = targets
	}
	labels, ok := targets[target]
	if !ok {
		labels = make(labelSet)
		targets[target] = labels
	}
	if _, ok := labels[label]; ok {
		return false
	}
	labels[label] = struct{}{}

	sources, ok := s.in[target]
	if !ok {
		sources = make(map[string]labelSet)
		s.in[target] = sources
	}
	rev, ok := sources[source]
	if !ok {
		rev = make(labelSet)
		sources[source] = rev
	}
	rev[label] = struct{}{}

	s.edgeCounts[label]++
	s.edgeTotal++
	return true
}

// HasNode reports whether the identifier is present.
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns the node for the identifier.
func (s *Store) Node(id string) (*types.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// NodeType returns the type tag of a node, or the empty string when
// the node is absent.
func (s *Store) NodeType(id string) types.NodeType {
	if n, ok := s.nodes[id]; ok {
		return n.Type
	}
	return ""
}

// HasEdge reports whether the exact (source, target, label) triple
// exists.
func (s *Store) HasEdge(source, target string, label types.RelLabel) bool {
	if targets, ok := s.out[source]; ok {
		if labels, ok := targets[target]; ok {
			_, ok := labels[label]
			return ok
		}
	}
	return false
}

// EdgeLabels returns the labels present between the ordered pair,
// sorted for stable output.
func (s *Store) EdgeLabels(source, target string) []types.RelLabel {
	targets, ok := s.out[source]
	if !ok {
		return nil
	}
	labels, ok := targets[target]
	if !ok {
		return nil
	}
	out := make([]types.RelLabel, 0, len(labels))
	for l := range labels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Successors returns the targets of the node's outgoing edges, sorted.
func (s *Store) Successors(id string) []string {
	return sortedKeys(s.out[id])
}

// Predecessors returns the sources of the node's incoming edges,
// sorted.
func (s *Store) Predecessors(id string) []string {
	return sortedKeys(s.in[id])
}

// InDegree counts incoming edges of the node across all labels.
func (s *Store) InDegree(id string) int {
	n := 0
	for _, labels := range s.in[id] {
		n += len(labels)
	}
	return n
}

// OutDegree counts outgoing edges of the node across all labels.
func (s *Store) OutDegree(id string) int {
	n := 0
	for _, labels := range s.out[id] {
		n += len(labels)
	}
	return n
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges counting label multiplicity.
func (s *Store) EdgeCount() int { return s.edgeTotal }

// NodeCounts returns a copy of the per-type node counters maintained
// during construction.
func (s *Store) NodeCounts() map[types.NodeType]int {
	out := make(map[types.NodeType]int, len(s.nodeCounts))
	for k, v := range s.nodeCounts {
		out[k] = v
	}
	return out
}

// EdgeCounts returns a copy of the per-label edge counters.
func (s *Store) EdgeCounts() map[types.RelLabel]int {
	out := make(map[types.RelLabel]int, len(s.edgeCounts))
	for k, v := range s.edgeCounts {
		out[k] = v
	}
	return out
}

// Density returns the graph density for a directed graph, zero for
// graphs with fewer than two nodes.
func (s *Store) Density() float64 {
	n := len(s.nodes)
	if n < 2 {
		return 0
	}
	return float64(s.edgeTotal) / float64(n*(n-1))
}

// NodeIDs returns all node identifiers, sorted.
func (s *Store) NodeIDs() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForEachNode calls fn for every node. Iteration order is not
// deterministic; use NodeIDs when order matters.
func (s *Store) ForEachNode(fn func(*types.Node)) {
	for _, n := range s.nodes {
		fn(n)
	}
}

// ForEachEdge calls fn for every (source, target, label) edge.
func (s *Store) ForEachEdge(fn func(source, target string, label types.RelLabel)) {
	for source, targets := range s.out {
		for target, labels := range targets {
			for label := range labels {
				fn(source, target, label)
			}
		}
	}
}

// Edges returns every edge sorted by (source, target, label), mainly
// for serialization and tests.
func (s *Store) Edges() []types.Edge {
	edges := make([]types.Edge, 0, s.edgeTotal)
	s.ForEachEdge(func(source, target string, label types.RelLabel) {
		edges = append(edges, types.Edge{Source: source, Target: target, Label: label})
	})
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Label < b.Label
	})
	return edges
}

func sortedKeys(m map[string]labelSet) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
