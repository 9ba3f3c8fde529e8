package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awardgraph/awardgraph/pkg/ingest"
	"github.com/awardgraph/awardgraph/pkg/types"
)

func TestParseInvestigators(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []ingest.Investigator
	}{
		{
			name:  "pi and copi",
			field: "Jane Doe (PI); John Smith (CoPI)",
			want: []ingest.Investigator{
				{Name: "Jane Doe", Role: types.RolePI},
				{Name: "John Smith", Role: types.RoleCoPI},
			},
		},
		{
			name:  "hyphenated copi marker",
			field: "Ada Lovelace (Co-PI)",
			want: []ingest.Investigator{
				{Name: "Ada Lovelace", Role: types.RoleCoPI},
			},
		},
		{
			name:  "missing marker defaults to pi",
			field: "Grace Hopper",
			want: []ingest.Investigator{
				{Name: "Grace Hopper", Role: types.RolePI},
			},
		},
		{
			name:  "empty entries dropped",
			field: " ; Jane Doe (PI); ;",
			want: []ingest.Investigator{
				{Name: "Jane Doe", Role: types.RolePI},
			},
		},
		{
			name:  "whitespace trimmed around names",
			field: "  Jane Doe  (PI)  ;  John Smith  ",
			want: []ingest.Investigator{
				{Name: "Jane Doe", Role: types.RolePI},
				{Name: "John Smith", Role: types.RolePI},
			},
		},
		{
			name:  "marker only entry dropped",
			field: "(PI)",
			want:  nil,
		},
		{
			name:  "empty field",
			field: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ingest.ParseInvestigators(tt.field)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{
			name:  "two entries",
			field: "Advanced Manufacturing; Artificial Intelligence",
			want:  []string{"Advanced Manufacturing", "Artificial Intelligence"},
		},
		{
			name:  "empty entries dropped",
			field: "; Biotech ;;",
			want:  []string{"Biotech"},
		},
		{
			name:  "empty field",
			field: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ingest.SplitList(tt.field))
		})
	}
}
