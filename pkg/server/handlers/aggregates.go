package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/awardgraph/awardgraph/pkg/cache"
	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/stats"
)

// AggregateHandler serves the organization, technology and state
// statistics lists. Results are cached with a TTL: these walk the
// whole graph and the dashboards poll them.
type AggregateHandler struct {
	store *graph.Store
	cache cache.Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewAggregateHandler creates the handler. cache may be nil to disable
// caching.
func NewAggregateHandler(store *graph.Store, c cache.Cache, ttl time.Duration, log *slog.Logger) *AggregateHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AggregateHandler{store: store, cache: c, ttl: ttl, log: log}
}

// Organizations handles GET /api/organizations.
func (h *AggregateHandler) Organizations(c *gin.Context) {
	var cached []stats.OrgStat
	if h.lookup(c, "aggregates:organizations", &cached) {
		return
	}
	orgs := stats.Organizations(h.store)
	// Organizations without awards carry no signal on the dashboard.
	filtered := orgs[:0]
	for _, org := range orgs {
		if org.Awards > 0 {
			filtered = append(filtered, org)
		}
	}
	if len(filtered) > 100 {
		filtered = filtered[:100]
	}
	h.respond(c, "aggregates:organizations", filtered)
}

// Technologies handles GET /api/technologies.
func (h *AggregateHandler) Technologies(c *gin.Context) {
	var cached []stats.TechStat
	if h.lookup(c, "aggregates:technologies", &cached) {
		return
	}
	h.respond(c, "aggregates:technologies", stats.Technologies(h.store))
}

// States handles GET /api/states.
func (h *AggregateHandler) States(c *gin.Context) {
	var cached []stats.StateStat
	if h.lookup(c, "aggregates:states", &cached) {
		return
	}
	h.respond(c, "aggregates:states", stats.States(h.store))
}

// lookup serves a cached payload when present, reporting whether it
// responded.
func (h *AggregateHandler) lookup(c *gin.Context, key string, out any) bool {
	if h.cache == nil {
		return false
	}
	err := cache.GetJSON(h.cache, key, out)
	if err == nil {
		c.JSON(http.StatusOK, out)
		return true
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		h.log.Warn("aggregate cache read failed", "key", key, "error", err)
	}
	return false
}

func (h *AggregateHandler) respond(c *gin.Context, key string, payload any) {
	if h.cache != nil {
		if err := cache.SetJSON(h.cache, key, payload, h.ttl); err != nil {
			h.log.Warn("aggregate cache write failed", "key", key, "error", err)
		}
	}
	c.JSON(http.StatusOK, payload)
}
