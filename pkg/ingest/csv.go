package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awardgraph/awardgraph/pkg/types"
)

// Column headers of the award export. Header matching is
// case-insensitive and whitespace-trimmed; only the award identifier
// column is required to be present.
const (
	colAwardID       = "Award ID"
	colTitle         = "Award Title"
	colAmount        = "Total Intended Amount (USD)"
	colAwardDate     = "Award Date"
	colStartDate     = "Start Date"
	colEndDate       = "End Date"
	colActive        = "Active"
	colURL           = "Award URL"
	colInvestigators = "PI/CoPI"
	colOrganization  = "Award Organization"
	colState         = "State"
	colCounty        = "County"
	colPrograms      = "TIP Programs"
	colTechAreas     = "Key Technology Areas"
)

// Reader streams AwardRecords from a CSV export. It implements the
// record source consumed by the graph builder.
type Reader struct {
	csv   *csv.Reader
	index map[string]int
}

// NewReader wraps r, reading the header row immediately. It fails when
// the header is unreadable or lacks the award identifier column; all
// other columns are optional and read as empty when absent.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeHeader(name)] = i
	}
	if _, ok := index[normalizeHeader(colAwardID)]; !ok {
		return nil, fmt.Errorf("missing required column %q", colAwardID)
	}
	return &Reader{csv: cr, index: index}, nil
}

// Open opens a CSV file and returns a Reader plus a close function.
func Open(path string) (*Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f.Close, nil
}

// Next returns the next record, or io.EOF when the source is
// exhausted. Rows shorter than the header simply yield empty fields.
func (r *Reader) Next() (*types.AwardRecord, error) {
	row, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	return &types.AwardRecord{
		AwardID:       r.field(row, colAwardID),
		Title:         r.field(row, colTitle),
		Amount:        r.field(row, colAmount),
		AwardDate:     r.field(row, colAwardDate),
		StartDate:     r.field(row, colStartDate),
		EndDate:       r.field(row, colEndDate),
		Active:        r.field(row, colActive),
		URL:           r.field(row, colURL),
		Investigators: r.field(row, colInvestigators),
		Organization:  r.field(row, colOrganization),
		State:         r.field(row, colState),
		County:        r.field(row, colCounty),
		Programs:      r.field(row, colPrograms),
		TechAreas:     r.field(row, colTechAreas),
	}, nil
}

func (r *Reader) field(row []string, column string) string {
	i, ok := r.index[normalizeHeader(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
