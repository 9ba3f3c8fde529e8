package graphml_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/graphml"
	"github.com/awardgraph/awardgraph/pkg/types"
)

func sampleStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	b := graph.NewBuilder(s, nil)
	b.AddRecord(&types.AwardRecord{
		AwardID:       "AWD-1",
		Title:         "Quantum Sensing",
		Amount:        "500000",
		AwardDate:     "2024-01-15",
		Active:        "Yes",
		URL:           "https://example.org/awd-1",
		Investigators: "Jane Doe (PI); John Smith (CoPI)",
		Organization:  "Acme University",
		State:         "California",
		County:        "Alameda",
		Programs:      "Regional Innovation",
		TechAreas:     "Quantum Information Science",
	})
	return s
}

func TestRoundTrip(t *testing.T) {
	original := sampleStore(t)

	var buf bytes.Buffer
	require.NoError(t, graphml.Encode(original, &buf))

	restored, err := graphml.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.NodeCount(), restored.NodeCount())
	assert.Equal(t, original.EdgeCount(), restored.EdgeCount())
	assert.Equal(t, original.NodeCounts(), restored.NodeCounts())
	assert.Equal(t, original.EdgeCounts(), restored.EdgeCounts())
	assert.Equal(t, original.Edges(), restored.Edges())

	award, ok := restored.Node("AWD-1")
	require.True(t, ok)
	assert.Equal(t, types.AwardNode, award.Type)
	assert.Equal(t, "Quantum Sensing", award.Title)
	assert.Equal(t, "500000", award.Amount)
	assert.Equal(t, "2024-01-15", award.AwardDate)
	assert.Equal(t, "https://example.org/awd-1", award.URL)

	jane, ok := restored.Node("Jane Doe")
	require.True(t, ok)
	assert.Equal(t, types.RolePI, jane.Role)

	county, ok := restored.Node("Alameda, California")
	require.True(t, ok)
	assert.Equal(t, "California", county.State)
}

func TestEncodeDeterministic(t *testing.T) {
	s := sampleStore(t)

	var a, b bytes.Buffer
	require.NoError(t, graphml.Encode(s, &a))
	require.NoError(t, graphml.Encode(s, &b))
	assert.Equal(t, a.String(), b.String())
	assert.Contains(t, a.String(), `edgedefault="directed"`)
}

func TestDecodeRejectsNodeWithoutType(t *testing.T) {
	doc := `<?xml version="1.0"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="title" attr.type="string"></key>
  <graph edgedefault="directed">
    <node id="n1"><data key="d0">untyped</data></node>
  </graph>
</graphml>`
	_, err := graphml.Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no type attribute")
}

func TestDecodeRejectsEdgeWithoutRelationship(t *testing.T) {
	doc := `<?xml version="1.0"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="type" attr.type="string"></key>
  <graph edgedefault="directed">
    <node id="a"><data key="d0">Award</data></node>
    <node id="b"><data key="d0">Organization</data></node>
    <edge source="a" target="b"></edge>
  </graph>
</graphml>`
	_, err := graphml.Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no relationship attribute")
}

func TestDecodeRejectsDanglingEdge(t *testing.T) {
	doc := `<?xml version="1.0"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="type" attr.type="string"></key>
  <key id="d1" for="edge" attr.name="relationship" attr.type="string"></key>
  <graph edgedefault="directed">
    <node id="a"><data key="d0">Award</data></node>
    <edge source="a" target="ghost"><data key="d1">AWARDED_TO</data></edge>
  </graph>
</graphml>`
	_, err := graphml.Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared node")
}

func TestSaveLoad(t *testing.T) {
	s := sampleStore(t)
	path := filepath.Join(t.TempDir(), "snapshot.graphml")

	require.NoError(t, graphml.Save(s, path))
	restored, err := graphml.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.NodeCount(), restored.NodeCount())
	assert.Equal(t, s.Edges(), restored.Edges())
}
