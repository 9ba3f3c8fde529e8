package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awardgraph/awardgraph/pkg/graph"
)

// HealthHandler reports liveness plus basic graph dimensions.
type HealthHandler struct {
	store *graph.Store
}

// NewHealthHandler creates the handler over store.
func NewHealthHandler(store *graph.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"nodes":  h.store.NodeCount(),
		"edges":  h.store.EdgeCount(),
	})
}
