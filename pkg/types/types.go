package types

import (
	"strconv"
	"strings"
)

// NodeType tags every node in the award graph with the kind of entity
// it represents. The vocabulary is fixed; the builder never creates a
// node outside it.
type NodeType string

const (
	AwardNode          NodeType = "Award"
	PersonNode         NodeType = "Person"
	OrganizationNode   NodeType = "Organization"
	StateNode          NodeType = "State"
	CountyNode         NodeType = "County"
	ProgramNode        NodeType = "Program"
	TechnologyAreaNode NodeType = "Technology_Area"
)

// NodeTypes lists the full node type vocabulary in display order.
func NodeTypes() []NodeType {
	return []NodeType{
		AwardNode,
		PersonNode,
		OrganizationNode,
		StateNode,
		CountyNode,
		ProgramNode,
		TechnologyAreaNode,
	}
}

// RelLabel is the fixed relationship vocabulary. Two nodes may be
// connected by several edges as long as their labels differ.
type RelLabel string

const (
	Leads           RelLabel = "LEADS"
	CoLeads         RelLabel = "CO_LEADS"
	AwardedTo       RelLabel = "AWARDED_TO"
	LocatedInState  RelLabel = "LOCATED_IN_STATE"
	LocatedInCounty RelLabel = "LOCATED_IN_COUNTY"
	FundedBy        RelLabel = "FUNDED_BY"
	InvolvesTech    RelLabel = "INVOLVES_TECH"
)

// RelLabels lists the full relationship vocabulary.
func RelLabels() []RelLabel {
	return []RelLabel{
		Leads,
		CoLeads,
		AwardedTo,
		LocatedInState,
		LocatedInCounty,
		FundedBy,
		InvolvesTech,
	}
}

// Role distinguishes principal investigators from co-investigators.
type Role string

const (
	RolePI   Role = "PI"
	RoleCoPI Role = "CoPI"
)

// Node is a single entity in the graph. The ID doubles as the display
// name and is the deduplication key: upserting an existing ID is a
// no-op on the stored node. Fields beyond ID and Type are populated
// per type; unused fields stay zero.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`

	// Award fields. Amount keeps the raw source text; callers parse it
	// permissively with FundingAmount.
	Title     string `json:"title,omitempty"`
	Amount    string `json:"amount,omitempty"`
	AwardDate string `json:"award_date,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Active    string `json:"active,omitempty"`
	URL       string `json:"url,omitempty"`

	// Person fields.
	Role Role `json:"role,omitempty"`

	// County fields. State holds the owning state's name so that
	// same-named counties in different states stay distinct.
	State string `json:"state,omitempty"`
}

// FundingAmount parses the award's amount field. Unparseable or empty
// values yield zero; aggregations never fail on bad source data.
func (n *Node) FundingAmount() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Amount), 64)
	if err != nil {
		return 0
	}
	return v
}

// Edge is a directed, labeled connection between two nodes. The
// (Source, Target, Label) triple is unique within a store.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  RelLabel `json:"relationship"`
}

// AwardRecord is one row of the tabular award export. String fields
// hold raw cell text; empty means the cell was absent. Programs and
// TechAreas keep their semicolon-delimited form until the builder
// splits them.
type AwardRecord struct {
	AwardID       string
	Title         string
	Amount        string
	AwardDate     string
	StartDate     string
	EndDate       string
	Active        string
	URL           string
	Investigators string
	Organization  string
	State         string
	County        string
	Programs      string
	TechAreas     string
}
