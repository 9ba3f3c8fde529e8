package graph

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/awardgraph/awardgraph/pkg/ingest"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// RecordSource yields award records one at a time, returning io.EOF
// when the source is exhausted. ingest.Reader implements it.
type RecordSource interface {
	Next() (*types.AwardRecord, error)
}

// Builder drives the single ingestion pass that populates a store.
// Writes happen only here; after Build returns, the store is treated
// as read-only.
type Builder struct {
	store *Store
	log   *slog.Logger

	processed int
	skipped   int
}

// NewBuilder returns a builder writing into store.
func NewBuilder(store *Store, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{store: store, log: log}
}

// Processed returns the number of rows turned into graph content.
func (b *Builder) Processed() int { return b.processed }

// Skipped returns the number of rows dropped for a missing award ID.
func (b *Builder) Skipped() int { return b.skipped }

// Build consumes the source to exhaustion. Malformed rows are skipped
// and logged, never fatal; source read errors abort the pass.
func (b *Builder) Build(src RecordSource) error {
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		b.AddRecord(rec)
		if b.processed > 0 && b.processed%500 == 0 {
			b.log.Info("building graph",
				"rows", b.processed,
				"nodes", b.store.NodeCount(),
				"edges", b.store.EdgeCount())
		}
	}
	b.log.Info("graph construction complete",
		"rows", b.processed,
		"skipped", b.skipped,
		"nodes", b.store.NodeCount(),
		"edges", b.store.EdgeCount())
	return nil
}

// AddRecord upserts the award and its connected entities. Each
// connection step is guarded by its own presence check so a missing
// county (say) never suppresses the program or technology links of the
// same row.
func (b *Builder) AddRecord(rec *types.AwardRecord) {
	if rec.AwardID == "" {
		b.skipped++
		b.log.Debug("skipping row with missing award ID")
		return
	}
	b.processed++

	b.store.UpsertNode(&types.Node{
		ID:        rec.AwardID,
		Type:      types.AwardNode,
		Title:     orNA(rec.Title),
		Amount:    rec.Amount,
		AwardDate: orNA(rec.AwardDate),
		StartDate: orNA(rec.StartDate),
		EndDate:   orNA(rec.EndDate),
		Active:    orNA(rec.Active),
		URL:       rec.URL,
	})

	if rec.Investigators != "" {
		for _, inv := range ingest.ParseInvestigators(rec.Investigators) {
			b.store.UpsertNode(&types.Node{
				ID:   inv.Name,
				Type: types.PersonNode,
				Role: inv.Role,
			})
			label := types.Leads
			if inv.Role == types.RoleCoPI {
				label = types.CoLeads
			}
			b.store.UpsertEdge(inv.Name, rec.AwardID, label)
		}
	}

	if rec.Organization != "" {
		b.store.UpsertNode(&types.Node{
			ID:   rec.Organization,
			Type: types.OrganizationNode,
		})
		b.store.UpsertEdge(rec.AwardID, rec.Organization, types.AwardedTo)

		if rec.State != "" {
			b.store.UpsertNode(&types.Node{
				ID:   rec.State,
				Type: types.StateNode,
			})
			b.store.UpsertEdge(rec.Organization, rec.State, types.LocatedInState)
		}

		if rec.County != "" {
			// County IDs carry the state name so that same-named
			// counties across states stay distinct.
			countyID := rec.County
			if rec.State != "" {
				countyID = rec.County + ", " + rec.State
			}
			b.store.UpsertNode(&types.Node{
				ID:    countyID,
				Type:  types.CountyNode,
				State: orNA(rec.State),
			})
			b.store.UpsertEdge(rec.Organization, countyID, types.LocatedInCounty)
		}
	}

	for _, program := range ingest.SplitList(rec.Programs) {
		b.store.UpsertNode(&types.Node{ID: program, Type: types.ProgramNode})
		b.store.UpsertEdge(rec.AwardID, program, types.FundedBy)
	}

	for _, tech := range ingest.SplitList(rec.TechAreas) {
		b.store.UpsertNode(&types.Node{ID: tech, Type: types.TechnologyAreaNode})
		b.store.UpsertEdge(rec.AwardID, tech, types.InvolvesTech)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
