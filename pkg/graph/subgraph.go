package graph

import (
	"github.com/awardgraph/awardgraph/pkg/types"
)

// Subgraph is the induced neighborhood around a center node: the node
// set discovered by bounded breadth-first expansion plus every edge of
// the original graph whose endpoints both lie in that set.
type Subgraph struct {
	Center string
	Nodes  map[string]*types.Node
	Edges  []types.Edge
}

// NodeCount returns the number of nodes in the subgraph.
func (sg *Subgraph) NodeCount() int { return len(sg.Nodes) }

// EdgeCount returns the number of edges in the subgraph.
func (sg *Subgraph) EdgeCount() int { return len(sg.Edges) }

// Subgraph extracts the neighborhood of center out to the given depth.
//
// Expansion ignores edge direction and label: each round unions the
// predecessors and successors of the frontier. State and County
// neighbors are kept in the result so they stay visible, but they are
// never placed on the next frontier; a shared state is not a research
// connection, and traversing through it would pull in every co-located
// organization.
func (s *Store) Subgraph(center string, depth int) (*Subgraph, error) {
	if _, ok := s.nodes[center]; !ok {
		return nil, ErrNodeNotFound
	}

	inSet := map[string]struct{}{center: {}}
	frontier := []string{center}

	for round := 0; round < depth; round++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range s.neighbors(id) {
				if _, seen := inSet[neighbor]; seen {
					continue
				}
				inSet[neighbor] = struct{}{}
				switch s.NodeType(neighbor) {
				case types.StateNode, types.CountyNode:
					// Visible in the result, excluded from expansion.
				default:
					next = append(next, neighbor)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	sub := &Subgraph{
		Center: center,
		Nodes:  make(map[string]*types.Node, len(inSet)),
	}
	for id := range inSet {
		sub.Nodes[id] = s.nodes[id]
	}
	for _, e := range s.Edges() {
		if _, ok := inSet[e.Source]; !ok {
			continue
		}
		if _, ok := inSet[e.Target]; !ok {
			continue
		}
		sub.Edges = append(sub.Edges, e)
	}
	return sub, nil
}

// neighbors returns the union of a node's predecessors and successors.
func (s *Store) neighbors(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	for target := range s.out[id] {
		if _, ok := seen[target]; !ok {
			seen[target] = struct{}{}
			out = append(out, target)
		}
	}
	for source := range s.in[id] {
		if _, ok := seen[source]; !ok {
			seen[source] = struct{}{}
			out = append(out, source)
		}
	}
	return out
}
