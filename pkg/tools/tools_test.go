package tools_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/query"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/tools"
	"github.com/awardgraph/awardgraph/pkg/types"
)

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	s := graph.NewStore()
	b := graph.NewBuilder(s, nil)
	for _, rec := range []*types.AwardRecord{
		{
			AwardID:       "AWD-1",
			Title:         "Quantum Sensing",
			Amount:        "500000",
			Investigators: "Jane Doe (PI); John Smith (CoPI)",
			Organization:  "Acme University",
			State:         "California",
			TechAreas:     "Quantum Information Science",
		},
		{
			AwardID:       "AWD-2",
			Amount:        "250000",
			Investigators: "Jane Doe (PI)",
			Organization:  "Beta Labs",
			State:         "Texas",
		},
	} {
		b.AddRecord(rec)
	}
	return tools.NewRegistry(s)
}

func TestDefinitionsCoverEveryTool(t *testing.T) {
	r := testRegistry(t)
	defs := r.Definitions()
	require.Len(t, defs, 9)

	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.Name] = true
		assert.NotEmpty(t, d.Description)
		assert.Equal(t, "object", d.Parameters["type"])
		// Every definition must be dispatchable.
		_, err := r.Execute(d.Name, json.RawMessage(`{"query":"x","node_id":"x","source_node":"AWD-1","person_name":"Jane Doe","min_amount":0,"max_amount":1}`))
		assert.NoError(t, err, d.Name)
	}
	assert.True(t, names["search_nodes"])
	assert.True(t, names["get_graph_summary"])
	assert.True(t, names["query_by_funding_range"])
}

func TestExecuteUnknownTool(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Execute("drop_tables", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestExecuteBadArguments(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Execute("search_nodes", json.RawMessage(`{"limit":"twenty"}`))
	assert.Error(t, err)
}

func TestSearchNodes(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Execute("search_nodes", json.RawMessage(`{"query":"jane"}`))
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.Equal(t, 1, m["count"])
	hits := m["results"].([]query.Hit)
	assert.Equal(t, "Jane Doe", hits[0].ID)
}

func TestGetNodeDetailsNotFoundIsPayload(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Execute("get_node_details", json.RawMessage(`{"node_id":"nobody"}`))
	require.NoError(t, err)

	payload, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "not found")
}

func TestFindConnections(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Execute("find_connections", json.RawMessage(`{"source_node":"AWD-1","relationship_type":"AWARDED_TO"}`))
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.Equal(t, 1, m["count"])
	conns := m["connections"].([]types.Edge)
	assert.Equal(t, "Acme University", conns[0].Target)
}

func TestGetOrganizationStatsFilters(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Execute("get_organization_stats", json.RawMessage(`{"min_funding":400000}`))
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.Equal(t, 1, m["count"])
	orgs := m["organizations"].([]stats.OrgStat)
	assert.Equal(t, "Acme University", orgs[0].Name)
}

func TestFindCollaborationsSubstringFallback(t *testing.T) {
	r := testRegistry(t)

	out, err := r.Execute("find_collaborations", json.RawMessage(`{"person_name":"jane"}`))
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, "Jane Doe", m["person"])
	assert.Equal(t, []string{"John Smith"}, m["collaborators"])

	out, err = r.Execute("find_collaborations", json.RawMessage(`{"person_name":"nobody at all"}`))
	require.NoError(t, err)
	payload, _ := json.Marshal(out)
	assert.Contains(t, string(payload), "not found")
}

func TestQueryByFundingRange(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Execute("query_by_funding_range", json.RawMessage(`{"min_amount":300000,"max_amount":600000}`))
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.Equal(t, 1, m["count"])
	awards := m["awards"].([]query.AwardHit)
	assert.Equal(t, "AWD-1", awards[0].AwardID)
}

func TestGetGraphSummary(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Execute("get_graph_summary", nil)
	require.NoError(t, err)

	summary := out.(*stats.Summary)
	assert.Equal(t, 2, summary.NodeTypes[types.AwardNode])
	assert.Greater(t, summary.TotalEdges, 0)
}
