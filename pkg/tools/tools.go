// Package tools exposes the graph's read-only query surface as a
// registry of callable tools: JSON-schema definitions for the language
// model plus a dispatcher that executes a named tool against the
// graph.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/query"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// Definition describes one callable tool: its name, what it does, and
// a JSON schema for its parameters.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Registry binds the tool set to one graph. Every tool is a pure read.
type Registry struct {
	store *graph.Store
	query *query.Engine
}

// NewRegistry returns the tool registry for store.
func NewRegistry(store *graph.Store) *Registry {
	return &Registry{store: store, query: query.NewEngine(store)}
}

var nodeTypeEnum = []string{
	"Award", "Organization", "Person", "State", "County", "Program", "Technology_Area", "",
}

var relationshipEnum = []string{
	"LEADS", "CO_LEADS", "AWARDED_TO", "LOCATED_IN_STATE", "LOCATED_IN_COUNTY", "FUNDED_BY", "INVOLVES_TECH", "",
}

// Definitions lists every available tool.
func (r *Registry) Definitions() []Definition {
	return []Definition{
		{
			Name:        "search_nodes",
			Description: "Search for nodes in the knowledge graph by name or type. Returns matching nodes with their properties.",
			Parameters: objectSchema(map[string]any{
				"query":     prop("string", "Search query (partial match on node name)"),
				"node_type": enumProp("Filter by node type (optional)", nodeTypeEnum),
				"limit":     prop("integer", "Maximum number of results (default: 20)"),
			}, "query"),
		},
		{
			Name:        "get_node_details",
			Description: "Get detailed information about a specific node including all its connections and properties.",
			Parameters: objectSchema(map[string]any{
				"node_id": prop("string", "The exact node ID/name"),
			}, "node_id"),
		},
		{
			Name:        "find_connections",
			Description: "Find all connections (edges) between nodes, optionally filtered by relationship type.",
			Parameters: objectSchema(map[string]any{
				"source_node":       prop("string", "Source node ID"),
				"target_node":       prop("string", "Target node ID (optional - if not provided, shows all connections from source)"),
				"relationship_type": enumProp("Filter by relationship type (optional)", relationshipEnum),
			}, "source_node"),
		},
		{
			Name:        "get_organization_stats",
			Description: "Get statistics for all organizations including awards, funding, and researchers. Can filter by minimum thresholds.",
			Parameters: objectSchema(map[string]any{
				"min_awards":  prop("integer", "Minimum number of awards (optional)"),
				"min_funding": prop("number", "Minimum total funding in USD (optional)"),
				"limit":       prop("integer", "Maximum number of results"),
			}),
		},
		{
			Name:        "get_technology_stats",
			Description: "Get statistics for all technology areas including award counts and total funding.",
			Parameters: objectSchema(map[string]any{
				"min_awards": prop("integer", "Minimum number of awards"),
			}),
		},
		{
			Name:        "get_state_stats",
			Description: "Get statistics for all states including organizations, awards, and funding.",
			Parameters: objectSchema(map[string]any{
				"limit": prop("integer", "Maximum number of results"),
			}),
		},
		{
			Name:        "find_collaborations",
			Description: "Find people who collaborate with a specific person (share awards).",
			Parameters: objectSchema(map[string]any{
				"person_name": prop("string", "Name of the person"),
			}, "person_name"),
		},
		{
			Name:        "query_by_funding_range",
			Description: "Find awards within a specific funding range.",
			Parameters: objectSchema(map[string]any{
				"min_amount": prop("number", "Minimum funding amount in USD"),
				"max_amount": prop("number", "Maximum funding amount in USD"),
				"limit":      prop("integer", "Maximum number of results"),
			}, "min_amount", "max_amount"),
		},
		{
			Name:        "get_graph_summary",
			Description: "Get overall statistics about the knowledge graph.",
			Parameters:  objectSchema(map[string]any{}),
		},
	}
}

// Execute runs the named tool with JSON-encoded arguments. Domain
// failures ("not found") come back as result payloads with an error
// field so the model can react; only unknown tools and undecodable
// arguments are Go errors.
func (r *Registry) Execute(name string, args json.RawMessage) (any, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	case "search_nodes":
		return r.searchNodes(args)
	case "get_node_details":
		return r.getNodeDetails(args)
	case "find_connections":
		return r.findConnections(args)
	case "get_organization_stats":
		return r.getOrganizationStats(args)
	case "get_technology_stats":
		return r.getTechnologyStats(args)
	case "get_state_stats":
		return r.getStateStats(args)
	case "find_collaborations":
		return r.findCollaborations(args)
	case "query_by_funding_range":
		return r.queryByFundingRange(args)
	case "get_graph_summary":
		return stats.Summarize(r.store), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type errorResult struct {
	Error string `json:"error"`
}

func (r *Registry) searchNodes(args json.RawMessage) (any, error) {
	var in struct {
		Query    string `json:"query"`
		NodeType string `json:"node_type"`
		Limit    int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("search_nodes arguments: %w", err)
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}
	hits := r.query.Search(in.Query, types.NodeType(in.NodeType), in.Limit)
	return map[string]any{"count": len(hits), "results": hits}, nil
}

func (r *Registry) getNodeDetails(args json.RawMessage) (any, error) {
	var in struct {
		NodeID string `json:"node_id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("get_node_details arguments: %w", err)
	}
	details, err := r.query.NodeDetails(in.NodeID)
	if errors.Is(err, graph.ErrNodeNotFound) {
		return errorResult{Error: fmt.Sprintf("Node '%s' not found", in.NodeID)}, nil
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *Registry) findConnections(args json.RawMessage) (any, error) {
	var in struct {
		SourceNode       string `json:"source_node"`
		TargetNode       string `json:"target_node"`
		RelationshipType string `json:"relationship_type"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("find_connections arguments: %w", err)
	}
	conns, err := r.query.FindConnections(in.SourceNode, in.TargetNode, types.RelLabel(in.RelationshipType))
	if errors.Is(err, graph.ErrNodeNotFound) {
		return errorResult{Error: fmt.Sprintf("Source node '%s' not found", in.SourceNode)}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(conns) > 100 {
		conns = conns[:100]
	}
	return map[string]any{"count": len(conns), "connections": conns}, nil
}

func (r *Registry) getOrganizationStats(args json.RawMessage) (any, error) {
	var in struct {
		MinAwards  int     `json:"min_awards"`
		MinFunding float64 `json:"min_funding"`
		Limit      int     `json:"limit"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("get_organization_stats arguments: %w", err)
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}
	var filtered []stats.OrgStat
	for _, org := range stats.Organizations(r.store) {
		if org.Awards >= in.MinAwards && org.TotalFunding >= in.MinFunding {
			filtered = append(filtered, org)
		}
	}
	count := len(filtered)
	if len(filtered) > in.Limit {
		filtered = filtered[:in.Limit]
	}
	return map[string]any{"count": count, "organizations": filtered}, nil
}

func (r *Registry) getTechnologyStats(args json.RawMessage) (any, error) {
	var in struct {
		MinAwards int `json:"min_awards"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("get_technology_stats arguments: %w", err)
	}
	var filtered []stats.TechStat
	for _, tech := range stats.Technologies(r.store) {
		if tech.Awards >= in.MinAwards {
			filtered = append(filtered, tech)
		}
	}
	return map[string]any{"count": len(filtered), "technologies": filtered}, nil
}

func (r *Registry) getStateStats(args json.RawMessage) (any, error) {
	var in struct {
		Limit int `json:"limit"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("get_state_stats arguments: %w", err)
	}
	if in.Limit <= 0 {
		in.Limit = 55
	}
	all := stats.States(r.store)
	count := len(all)
	if len(all) > in.Limit {
		all = all[:in.Limit]
	}
	return map[string]any{"count": count, "states": all}, nil
}

func (r *Registry) findCollaborations(args json.RawMessage) (any, error) {
	var in struct {
		PersonName string `json:"person_name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("find_collaborations arguments: %w", err)
	}
	person := in.PersonName
	if !r.store.HasNode(person) {
		// Fall back to substring search so near-miss names still work.
		hits := r.query.Search(person, types.PersonNode, 1)
		if len(hits) == 0 {
			return errorResult{Error: fmt.Sprintf("Person '%s' not found", in.PersonName)}, nil
		}
		person = hits[0].ID
	}
	collaborators, err := stats.Collaborators(r.store, person)
	if errors.Is(err, graph.ErrNodeNotFound) {
		return errorResult{Error: fmt.Sprintf("Person '%s' not found", in.PersonName)}, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"person":        person,
		"count":         len(collaborators),
		"collaborators": collaborators,
	}, nil
}

func (r *Registry) queryByFundingRange(args json.RawMessage) (any, error) {
	var in struct {
		MinAmount float64 `json:"min_amount"`
		MaxAmount float64 `json:"max_amount"`
		Limit     int     `json:"limit"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("query_by_funding_range arguments: %w", err)
	}
	hits := r.query.AwardsByFundingRange(in.MinAmount, in.MaxAmount, in.Limit)
	return map[string]any{"count": len(hits), "awards": hits}, nil
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func enumProp(description string, values []string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}
