package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// Two organizations in the same state, each with one award. The state
// must stay visible in a neighborhood without bridging the two
// organizations.
func testStateGraph(t *testing.T) *graph.Store {
	t.Helper()
	return buildRecords(t,
		&types.AwardRecord{
			AwardID:       "AWD-1",
			Investigators: "Jane Doe (PI)",
			Organization:  "Acme University",
			State:         "California",
			County:        "Alameda",
		},
		&types.AwardRecord{
			AwardID:      "AWD-2",
			Organization: "Beta Labs",
			State:        "California",
		},
	)
}

func TestSubgraphUnknownCenter(t *testing.T) {
	s := testStateGraph(t)
	_, err := s.Subgraph("nobody", 1)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestSubgraphDepthOne(t *testing.T) {
	s := testStateGraph(t)
	sub, err := s.Subgraph("AWD-1", 1)
	require.NoError(t, err)

	assert.Equal(t, "AWD-1", sub.Center)
	assert.Contains(t, sub.Nodes, "AWD-1")
	assert.Contains(t, sub.Nodes, "Jane Doe")
	assert.Contains(t, sub.Nodes, "Acme University")
	assert.NotContains(t, sub.Nodes, "California")
	assert.NotContains(t, sub.Nodes, "Beta Labs")
}

// Investigators sit two hops from an organization (through the award),
// so a depth-1 neighborhood of the organization excludes them.
func TestSubgraphOrgDepthOneExcludesPeople(t *testing.T) {
	s := testStateGraph(t)
	sub, err := s.Subgraph("Acme University", 1)
	require.NoError(t, err)

	assert.Contains(t, sub.Nodes, "AWD-1")
	assert.Contains(t, sub.Nodes, "California")
	assert.NotContains(t, sub.Nodes, "Jane Doe")
}

// Expansion stops at State and County nodes: they appear in the result
// but their other neighbors are never pulled in.
func TestSubgraphStopsAtGeography(t *testing.T) {
	s := testStateGraph(t)
	sub, err := s.Subgraph("Acme University", 2)
	require.NoError(t, err)

	assert.Contains(t, sub.Nodes, "California")
	assert.Contains(t, sub.Nodes, "Alameda, California")
	assert.Contains(t, sub.Nodes, "Jane Doe") // via AWD-1 at depth 2
	assert.NotContains(t, sub.Nodes, "Beta Labs")

	sub, err = s.Subgraph("Acme University", 5)
	require.NoError(t, err)
	assert.NotContains(t, sub.Nodes, "Beta Labs")
	assert.NotContains(t, sub.Nodes, "AWD-2")
}

func TestSubgraphDepthMonotonicity(t *testing.T) {
	s := testStateGraph(t)
	shallow, err := s.Subgraph("Jane Doe", 1)
	require.NoError(t, err)
	deep, err := s.Subgraph("Jane Doe", 2)
	require.NoError(t, err)

	for id := range shallow.Nodes {
		assert.Contains(t, deep.Nodes, id)
	}
	assert.GreaterOrEqual(t, deep.NodeCount(), shallow.NodeCount())
}

// Every edge of the original graph between included nodes is carried
// into the subgraph, including edges between non-center nodes.
func TestSubgraphInducedEdges(t *testing.T) {
	s := testStateGraph(t)
	sub, err := s.Subgraph("AWD-1", 2)
	require.NoError(t, err)

	want := map[types.Edge]bool{}
	for _, e := range sub.Edges {
		want[e] = true
	}
	assert.True(t, want[types.Edge{Source: "Jane Doe", Target: "AWD-1", Label: types.Leads}])
	assert.True(t, want[types.Edge{Source: "AWD-1", Target: "Acme University", Label: types.AwardedTo}])
	assert.True(t, want[types.Edge{Source: "Acme University", Target: "California", Label: types.LocatedInState}])
}

func TestSubgraphIsolatedCenter(t *testing.T) {
	s := graph.NewStore()
	s.UpsertNode(&types.Node{ID: "lonely", Type: types.ProgramNode})

	sub, err := s.Subgraph("lonely", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.NodeCount())
	assert.Equal(t, 0, sub.EdgeCount())
}
