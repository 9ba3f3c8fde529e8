// Package stats computes read-only aggregate summaries over the award
// graph by walking its fixed relationship patterns.
package stats

import (
	"sort"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// OrgStat summarizes one organization's funded work.
type OrgStat struct {
	Name         string  `json:"name"`
	Awards       int     `json:"awards"`
	TotalFunding float64 `json:"total_funding"`
	Researchers  int     `json:"researchers"`
}

// TechStat summarizes one technology area.
type TechStat struct {
	Name         string  `json:"name"`
	Awards       int     `json:"awards"`
	TotalFunding float64 `json:"total_funding"`
	AvgFunding   float64 `json:"avg_funding"`
}

// StateStat summarizes one state. Award and funding totals aggregate
// transitively through the state's organizations; an award with
// co-located organizations is counted once per organization. That
// double counting matches the observed source behavior and is kept as
// a known approximation.
type StateStat struct {
	Name          string  `json:"name"`
	Organizations int     `json:"organizations"`
	Awards        int     `json:"awards"`
	TotalFunding  float64 `json:"total_funding"`
}

// Summary is the graph-wide histogram of node and edge types.
type Summary struct {
	TotalNodes int                    `json:"total_nodes"`
	TotalEdges int                    `json:"total_edges"`
	NodeTypes  map[types.NodeType]int `json:"node_types"`
	EdgeTypes  map[types.RelLabel]int `json:"edge_types"`
	Density    float64                `json:"density"`
}

// Organizations computes per-organization statistics: distinct awards
// connected via AWARDED_TO, their summed funding, and the deduplicated
// set of people leading any of those awards. Results are sorted by
// total funding, descending.
func Organizations(s *graph.Store) []OrgStat {
	var out []OrgStat
	s.ForEachNode(func(n *types.Node) {
		if n.Type != types.OrganizationNode {
			return
		}
		stat := OrgStat{Name: n.ID}
		people := make(map[string]struct{})
		for _, pred := range s.Predecessors(n.ID) {
			award, ok := s.Node(pred)
			if !ok || award.Type != types.AwardNode || !s.HasEdge(pred, n.ID, types.AwardedTo) {
				continue
			}
			stat.Awards++
			stat.TotalFunding += award.FundingAmount()
			for _, p := range s.Predecessors(pred) {
				if s.NodeType(p) == types.PersonNode {
					people[p] = struct{}{}
				}
			}
		}
		stat.Researchers = len(people)
		out = append(out, stat)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFunding != out[j].TotalFunding {
			return out[i].TotalFunding > out[j].TotalFunding
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Technologies computes per-technology-area award counts and funding,
// sorted by award count descending.
func Technologies(s *graph.Store) []TechStat {
	var out []TechStat
	s.ForEachNode(func(n *types.Node) {
		if n.Type != types.TechnologyAreaNode {
			return
		}
		stat := TechStat{Name: n.ID}
		for _, pred := range s.Predecessors(n.ID) {
			award, ok := s.Node(pred)
			if !ok || award.Type != types.AwardNode || !s.HasEdge(pred, n.ID, types.InvolvesTech) {
				continue
			}
			stat.Awards++
			stat.TotalFunding += award.FundingAmount()
		}
		if stat.Awards > 0 {
			stat.AvgFunding = stat.TotalFunding / float64(stat.Awards)
		}
		out = append(out, stat)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Awards != out[j].Awards {
			return out[i].Awards > out[j].Awards
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// States aggregates organization, award and funding counts per state,
// sorted by funding descending.
func States(s *graph.Store) []StateStat {
	var out []StateStat
	s.ForEachNode(func(n *types.Node) {
		if n.Type != types.StateNode {
			return
		}
		stat := StateStat{Name: n.ID}
		for _, org := range s.Predecessors(n.ID) {
			if s.NodeType(org) != types.OrganizationNode || !s.HasEdge(org, n.ID, types.LocatedInState) {
				continue
			}
			stat.Organizations++
			for _, pred := range s.Predecessors(org) {
				award, ok := s.Node(pred)
				if !ok || award.Type != types.AwardNode || !s.HasEdge(pred, org, types.AwardedTo) {
					continue
				}
				stat.Awards++
				stat.TotalFunding += award.FundingAmount()
			}
		}
		out = append(out, stat)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFunding != out[j].TotalFunding {
			return out[i].TotalFunding > out[j].TotalFunding
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Collaborators returns every other person who leads or co-leads an
// award that the given person also leads, sorted by name. The person
// is excluded from their own result. Returns graph.ErrNodeNotFound for
// unknown identifiers.
func Collaborators(s *graph.Store, personID string) ([]string, error) {
	person, ok := s.Node(personID)
	if !ok || person.Type != types.PersonNode {
		return nil, graph.ErrNodeNotFound
	}

	set := make(map[string]struct{})
	for _, award := range s.Successors(personID) {
		if s.NodeType(award) != types.AwardNode {
			continue
		}
		for _, p := range s.Predecessors(award) {
			if p != personID && s.NodeType(p) == types.PersonNode {
				set[p] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Summarize computes the node/edge type histograms from the counters
// the builder maintained during ingestion.
func Summarize(s *graph.Store) *Summary {
	return &Summary{
		TotalNodes: s.NodeCount(),
		TotalEdges: s.EdgeCount(),
		NodeTypes:  s.NodeCounts(),
		EdgeTypes:  s.EdgeCounts(),
		Density:    s.Density(),
	}
}
