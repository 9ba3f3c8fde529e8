// Package graphml serializes the award graph to the GraphML
// attributed-graph interchange format and loads it back. A round trip
// preserves the node set, the edge multiset by relationship label, and
// every attribute value; numbers travel as text and are reparsed on
// use.
package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/types"
)

const xmlns = "http://graphml.graphdrawing.org/xmlns"

// Attribute keys in declaration order. "type" on nodes and
// "relationship" on edges are mandatory for every consumer; the rest
// are emitted only when non-empty.
var nodeAttrs = []string{
	"type", "title", "amount", "award_date", "start_date",
	"end_date", "active", "url", "role", "state",
}

const edgeAttrRelationship = "relationship"

type xmlDocument struct {
	XMLName xml.Name `xml:"graphml"`
	Xmlns   string   `xml:"xmlns,attr"`
	Keys    []xmlKey `xml:"key"`
	Graph   xmlGraph `xml:"graph"`
}

type xmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type xmlGraph struct {
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Encode writes the store as GraphML. Nodes and edges are emitted in
// sorted order so output is deterministic.
func Encode(s *graph.Store, w io.Writer) error {
	doc := xmlDocument{
		Xmlns: xmlns,
		Graph: xmlGraph{EdgeDefault: "directed"},
	}

	keyIDs := make(map[string]string, len(nodeAttrs)+1)
	for i, name := range nodeAttrs {
		id := fmt.Sprintf("d%d", i)
		keyIDs[name] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: "node", AttrName: name, AttrType: "string"})
	}
	relKey := fmt.Sprintf("d%d", len(nodeAttrs))
	doc.Keys = append(doc.Keys, xmlKey{ID: relKey, For: "edge", AttrName: edgeAttrRelationship, AttrType: "string"})

	for _, id := range s.NodeIDs() {
		n, _ := s.Node(id)
		xn := xmlNode{ID: id}
		for _, name := range nodeAttrs {
			if v := nodeAttr(n, name); v != "" {
				xn.Data = append(xn.Data, xmlData{Key: keyIDs[name], Value: v})
			}
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, xn)
	}

	for _, e := range s.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, xmlEdge{
			Source: e.Source,
			Target: e.Target,
			Data:   []xmlData{{Key: relKey, Value: string(e.Label)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	return enc.Close()
}

// Decode rebuilds a store from GraphML. A node without a type
// attribute or an edge without a relationship attribute means the file
// was written by a foreign schema; that is a load failure, not
// something to repair.
func Decode(r io.Reader) (*graph.Store, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graphml: %w", err)
	}

	attrByKey := make(map[string]string, len(doc.Keys))
	for _, k := range doc.Keys {
		attrByKey[k.ID] = k.AttrName
	}

	s := graph.NewStore()
	for _, xn := range doc.Graph.Nodes {
		n := &types.Node{ID: xn.ID}
		for _, d := range xn.Data {
			setNodeAttr(n, attrByKey[d.Key], d.Value)
		}
		if n.Type == "" {
			return nil, fmt.Errorf("node %q has no type attribute", xn.ID)
		}
		s.UpsertNode(n)
	}
	for _, xe := range doc.Graph.Edges {
		var label types.RelLabel
		for _, d := range xe.Data {
			if attrByKey[d.Key] == edgeAttrRelationship {
				label = types.RelLabel(d.Value)
			}
		}
		if label == "" {
			return nil, fmt.Errorf("edge %q -> %q has no relationship attribute", xe.Source, xe.Target)
		}
		if !s.HasNode(xe.Source) || !s.HasNode(xe.Target) {
			return nil, fmt.Errorf("edge %q -> %q references an undeclared node", xe.Source, xe.Target)
		}
		s.UpsertEdge(xe.Source, xe.Target, label)
	}
	return s, nil
}

// Save writes the store to path.
func Save(s *graph.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a store from path.
func Load(path string) (*graph.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func nodeAttr(n *types.Node, name string) string {
	switch name {
	case "type":
		return string(n.Type)
	case "title":
		return n.Title
	case "amount":
		return n.Amount
	case "award_date":
		return n.AwardDate
	case "start_date":
		return n.StartDate
	case "end_date":
		return n.EndDate
	case "active":
		return n.Active
	case "url":
		return n.URL
	case "role":
		return string(n.Role)
	case "state":
		return n.State
	}
	return ""
}

func setNodeAttr(n *types.Node, name, value string) {
	switch name {
	case "type":
		n.Type = types.NodeType(value)
	case "title":
		n.Title = value
	case "amount":
		n.Amount = value
	case "award_date":
		n.AwardDate = value
	case "start_date":
		n.StartDate = value
	case "end_date":
		n.EndDate = value
	case "active":
		n.Active = value
	case "url":
		n.URL = value
	case "role":
		n.Role = types.Role(value)
	case "state":
		n.State = value
	}
}
