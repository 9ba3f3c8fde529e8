// Package query exposes the read-only lookup surface consumed by the
// HTTP API and the agent tool layer: substring search, node detail
// expansion, connection listing, degree ranking, funding filters and
// path finding.
package query

import (
	"sort"
	"strings"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// Engine wraps a store with query operations. All methods are pure
// reads and safe to call concurrently once the graph is built.
type Engine struct {
	store *graph.Store
}

// NewEngine returns a query engine over store.
func NewEngine(store *graph.Store) *Engine {
	return &Engine{store: store}
}

// Hit is one search result.
type Hit struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type types.NodeType `json:"type"`
}

// Connection describes one edge incident to a node, annotated with the
// peer's identifier and type.
type Connection struct {
	Peer         string         `json:"peer"`
	Relationship types.RelLabel `json:"relationship"`
	PeerType     types.NodeType `json:"type"`
}

// Details is the full view of a single node.
type Details struct {
	ID       string       `json:"id"`
	Node     *types.Node  `json:"attributes"`
	Incoming []Connection `json:"incoming_connections"`
	Outgoing []Connection `json:"outgoing_connections"`
}

// AwardHit is one award matched by a funding-range query.
type AwardHit struct {
	AwardID string  `json:"award_id"`
	Amount  float64 `json:"amount"`
	Title   string  `json:"title"`
}

// Ranked is one entry of a degree ranking.
type Ranked struct {
	ID        string         `json:"id"`
	Type      types.NodeType `json:"type"`
	Degree    int            `json:"degree"`
	InDegree  int            `json:"in_degree"`
	OutDegree int            `json:"out_degree"`
}

// Search returns up to limit nodes whose identifier contains term,
// case-insensitively, optionally restricted to one node type. Results
// are in identifier order so repeated queries page stably.
func (e *Engine) Search(term string, nodeType types.NodeType, limit int) []Hit {
	if limit <= 0 {
		limit = 20
	}
	needle := strings.ToLower(term)
	var hits []Hit
	for _, id := range e.store.NodeIDs() {
		if !strings.Contains(strings.ToLower(id), needle) {
			continue
		}
		n, _ := e.store.Node(id)
		if nodeType != "" && n.Type != nodeType {
			continue
		}
		hits = append(hits, Hit{ID: id, Name: id, Type: n.Type})
		if len(hits) >= limit {
			break
		}
	}
	return hits
}

// NodeDetails returns a node's attributes plus its incoming and
// outgoing connections with relationship labels and peer types.
func (e *Engine) NodeDetails(id string) (*Details, error) {
	n, ok := e.store.Node(id)
	if !ok {
		return nil, graph.ErrNodeNotFound
	}
	d := &Details{ID: id, Node: n}
	for _, pred := range e.store.Predecessors(id) {
		for _, label := range e.store.EdgeLabels(pred, id) {
			d.Incoming = append(d.Incoming, Connection{
				Peer:         pred,
				Relationship: label,
				PeerType:     e.store.NodeType(pred),
			})
		}
	}
	for _, succ := range e.store.Successors(id) {
		for _, label := range e.store.EdgeLabels(id, succ) {
			d.Outgoing = append(d.Outgoing, Connection{
				Peer:         succ,
				Relationship: label,
				PeerType:     e.store.NodeType(succ),
			})
		}
	}
	return d, nil
}

// FindConnections lists edges out of source. With a target it checks
// that specific pair; without one it lists every outgoing connection.
// A non-empty label restricts the result to that relationship.
func (e *Engine) FindConnections(source, target string, label types.RelLabel) ([]types.Edge, error) {
	if !e.store.HasNode(source) {
		return nil, graph.ErrNodeNotFound
	}
	targets := []string{target}
	if target == "" {
		targets = e.store.Successors(source)
	}
	var out []types.Edge
	for _, t := range targets {
		for _, l := range e.store.EdgeLabels(source, t) {
			if label != "" && l != label {
				continue
			}
			out = append(out, types.Edge{Source: source, Target: t, Label: l})
		}
	}
	return out, nil
}

// MostConnected ranks nodes by degree. by selects "in", "out" or
// "total" (the default); nodeType optionally restricts the ranking.
func (e *Engine) MostConnected(nodeType types.NodeType, topN int, by string) []Ranked {
	if topN <= 0 {
		topN = 10
	}
	var ranked []Ranked
	e.store.ForEachNode(func(n *types.Node) {
		if nodeType != "" && n.Type != nodeType {
			return
		}
		in, out := e.store.InDegree(n.ID), e.store.OutDegree(n.ID)
		r := Ranked{ID: n.ID, Type: n.Type, InDegree: in, OutDegree: out}
		switch by {
		case "in":
			r.Degree = in
		case "out":
			r.Degree = out
		default:
			r.Degree = in + out
		}
		ranked = append(ranked, r)
	})
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Degree != ranked[j].Degree {
			return ranked[i].Degree > ranked[j].Degree
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// AwardsByFundingRange returns awards whose parseable amount lies in
// [min, max], sorted by amount descending. Awards with unparseable
// amounts never match a positive range because they parse to zero.
func (e *Engine) AwardsByFundingRange(min, max float64, limit int) []AwardHit {
	if limit <= 0 {
		limit = 50
	}
	var hits []AwardHit
	e.store.ForEachNode(func(n *types.Node) {
		if n.Type != types.AwardNode {
			return
		}
		amount := n.FundingAmount()
		if amount < min || amount > max {
			return
		}
		hits = append(hits, AwardHit{AwardID: n.ID, Amount: amount, Title: n.Title})
	})
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Amount != hits[j].Amount {
			return hits[i].Amount > hits[j].Amount
		}
		return hits[i].AwardID < hits[j].AwardID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// FindPaths enumerates simple directed paths from source to target up
// to maxLen edges. Unknown endpoints yield an empty result, matching
// the not-found-is-empty contract of the query surface.
func (e *Engine) FindPaths(source, target string, maxLen int) [][]string {
	if maxLen <= 0 {
		maxLen = 3
	}
	if !e.store.HasNode(source) || !e.store.HasNode(target) {
		return nil
	}
	var paths [][]string
	onPath := map[string]bool{source: true}
	path := []string{source}

	var walk func(node string)
	walk = func(node string) {
		if len(path)-1 >= maxLen {
			return
		}
		for _, next := range e.store.Successors(node) {
			if onPath[next] {
				continue
			}
			path = append(path, next)
			if next == target {
				paths = append(paths, append([]string(nil), path...))
			} else {
				onPath[next] = true
				walk(next)
				delete(onPath, next)
			}
			path = path[:len(path)-1]
		}
	}
	walk(source)
	return paths
}
