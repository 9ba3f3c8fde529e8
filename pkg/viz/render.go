package viz

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// nodeColors maps node types to their display colors.
var nodeColors = map[types.NodeType]string{
	types.AwardNode:          "#FF6B6B",
	types.PersonNode:         "#4ECDC4",
	types.OrganizationNode:   "#45B7D1",
	types.StateNode:          "#96CEB4",
	types.CountyNode:         "#FFEAA7",
	types.ProgramNode:        "#DFE6E9",
	types.TechnologyAreaNode: "#A29BFE",
}

const defaultColor = "#95A5A6"

// RenderOptions carries the header text of a rendered subgraph.
type RenderOptions struct {
	Title       string
	Description string
}

type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Color string `json:"color"`
	Size  int    `json:"size"`
}

type visEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

type legendEntry struct {
	Label string
	Color string
	Count int
}

type pageData struct {
	Title       string
	Description string
	NodeCount   int
	EdgeCount   int
	Center      string
	Legend      []legendEntry
	NodesJSON   template.JS
	EdgesJSON   template.JS
}

// Render produces a self-contained interactive HTML document for the
// subgraph: a header panel with totals and a type legend, then a
// physics-layout network of the node and edge sets.
func Render(sub *graph.Subgraph, opts RenderOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = "Knowledge Graph: " + sub.Center
	}
	if opts.Description == "" {
		centerType := types.NodeType("Unknown")
		if n, ok := sub.Nodes[sub.Center]; ok {
			centerType = n.Type
		}
		opts.Description = fmt.Sprintf("Interactive network visualization centered on %s: %s", centerType, sub.Center)
	}

	typeCounts := make(map[types.NodeType]int)
	nodes := make([]visNode, 0, len(sub.Nodes))
	ids := make([]string, 0, len(sub.Nodes))
	for id := range sub.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := sub.Nodes[id]
		typeCounts[n.Type]++
		nodes = append(nodes, buildVisNode(n, id == sub.Center))
	}

	edges := make([]visEdge, 0, len(sub.Edges))
	for _, e := range sub.Edges {
		edges = append(edges, visEdge{From: e.Source, To: e.Target, Label: string(e.Label)})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return "", fmt.Errorf("marshal edges: %w", err)
	}

	data := pageData{
		Title:       opts.Title,
		Description: opts.Description,
		NodeCount:   len(sub.Nodes),
		EdgeCount:   len(sub.Edges),
		Center:      truncate(sub.Center, 40),
		Legend:      buildLegend(typeCounts),
		NodesJSON:   template.JS(nodesJSON),
		EdgesJSON:   template.JS(edgesJSON),
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render visualization: %w", err)
	}
	return b.String(), nil
}

func buildVisNode(n *types.Node, isCenter bool) visNode {
	v := visNode{
		ID:    n.ID,
		Color: defaultColor,
		Size:  15,
	}
	if c, ok := nodeColors[n.Type]; ok {
		v.Color = c
	}
	if n.Type == types.AwardNode {
		v.Size = 20
		v.Label = "Award: " + truncate(n.ID, 15)
		v.Title = fmt.Sprintf("<b>Award ID:</b> %s<br><b>Title:</b> %s<br><b>Amount:</b> $%.2f",
			n.ID, truncate(n.Title, 100), n.FundingAmount())
	} else {
		v.Label = truncate(n.ID, 30)
		v.Title = fmt.Sprintf("<b>%s:</b> %s", n.Type, n.ID)
	}
	if isCenter {
		v.Size = 30
	}
	return v
}

func buildLegend(counts map[types.NodeType]int) []legendEntry {
	var legend []legendEntry
	for _, t := range types.NodeTypes() {
		legend = append(legend, legendEntry{
			Label: strings.ReplaceAll(string(t), "_", " "),
			Color: nodeColors[t],
			Count: counts[t],
		})
	}
	return legend
}

// truncate shortens s to max characters, counting runes so multibyte
// names are never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

var pageTemplate = template.Must(template.New("viz").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
<style>
  body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; }
  #network { width: 100%; height: 750px; border-top: 1px solid #dee2e6; }
  .info-panel { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px 30px; }
  .info-panel h1 { margin: 0 0 10px 0; font-size: 28px; font-weight: 600; }
  .info-panel p { margin: 5px 0; font-size: 14px; opacity: 0.95; }
  .stats { display: flex; gap: 15px; margin-top: 15px; padding-top: 15px; border-top: 1px solid rgba(255,255,255,0.3); }
  .stat-box { background: rgba(255,255,255,0.15); padding: 12px; border-radius: 8px; min-width: 140px; }
  .stat-label { font-size: 11px; text-transform: uppercase; letter-spacing: 1px; opacity: 0.8; }
  .stat-value { font-size: 20px; font-weight: 700; }
  .legend { background: #f8f9fa; padding: 15px 30px; border-bottom: 1px solid #dee2e6; font-size: 13px; display: flex; flex-wrap: wrap; gap: 15px; }
  .legend-item { display: flex; align-items: center; gap: 8px; }
  .legend-color { width: 16px; height: 16px; border-radius: 50%; border: 2px solid #dee2e6; }
</style>
</head>
<body>
<div class="info-panel">
  <h1>{{.Title}}</h1>
  <p>{{.Description}}</p>
  <div class="stats">
    <div class="stat-box"><div class="stat-label">Total Nodes</div><div class="stat-value">{{.NodeCount}}</div></div>
    <div class="stat-box"><div class="stat-label">Total Connections</div><div class="stat-value">{{.EdgeCount}}</div></div>
    <div class="stat-box"><div class="stat-label">Center Node</div><div class="stat-value" style="font-size:14px">{{.Center}}</div></div>
  </div>
</div>
<div class="legend">
{{- range .Legend}}
  <div class="legend-item"><div class="legend-color" style="background-color: {{.Color}};"></div><span><strong>{{.Label}}</strong> ({{.Count}})</span></div>
{{- end}}
</div>
<div id="network"></div>
<script>
  var nodes = new vis.DataSet({{.NodesJSON}});
  var edges = new vis.DataSet({{.EdgesJSON}});
  var container = document.getElementById('network');
  var network = new vis.Network(container, {nodes: nodes, edges: edges}, {
    physics: {
      barnesHut: { gravitationalConstant: -8000, centralGravity: 0.3, springLength: 100 }
    },
    edges: { arrows: 'to', font: { size: 10, align: 'middle' } },
    nodes: { shape: 'dot' }
  });
</script>
</body>
</html>
`))
