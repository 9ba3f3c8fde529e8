package ingest

import (
	"strings"

	"github.com/awardgraph/awardgraph/pkg/types"
)

// Investigator is one parsed entry of a PI/CoPI field: a canonical
// person name and the role the marker indicated.
type Investigator struct {
	Name string
	Role types.Role
}

// ParseInvestigators splits a semicolon-delimited PI/CoPI field into
// (name, role) pairs. Role markers "(PI)", "(CoPI)" and "(Co-PI)" are
// matched as exact substrings and stripped from the name; entries
// without a marker default to PI. Entries that are empty after
// trimming are dropped. Malformed entries pass through with the
// default role rather than being rejected.
func ParseInvestigators(field string) []Investigator {
	var people []Investigator
	for _, entry := range strings.Split(field, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		role := types.RolePI
		if strings.Contains(entry, "(CoPI)") || strings.Contains(entry, "(Co-PI)") {
			role = types.RoleCoPI
			entry = strings.ReplaceAll(entry, "(CoPI)", "")
			entry = strings.ReplaceAll(entry, "(Co-PI)", "")
			entry = strings.TrimSpace(entry)
		} else if strings.Contains(entry, "(PI)") {
			entry = strings.ReplaceAll(entry, "(PI)", "")
			entry = strings.TrimSpace(entry)
		}
		if entry == "" {
			continue
		}
		people = append(people, Investigator{Name: entry, Role: role})
	}
	return people
}

// SplitList splits a semicolon-delimited multi-value field, trimming
// whitespace and dropping empty entries. Program and technology-area
// lists share this shape.
func SplitList(field string) []string {
	var out []string
	for _, item := range strings.Split(field, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
