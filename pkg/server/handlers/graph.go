package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/query"
	"github.com/awardgraph/awardgraph/pkg/server/dto"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// GraphHandler serves the core read-only lookups: summary, search and
// node details.
type GraphHandler struct {
	store *graph.Store
	query *query.Engine
}

// NewGraphHandler creates a graph handler over store.
func NewGraphHandler(store *graph.Store) *GraphHandler {
	return &GraphHandler{store: store, query: query.NewEngine(store)}
}

// Stats handles GET /api/stats.
func (h *GraphHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Summarize(h.store))
}

// Search handles GET /api/search?q=&type=&limit=.
func (h *GraphHandler) Search(c *gin.Context) {
	term := c.Query("q")
	nodeType := types.NodeType(c.Query("type"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "limit must be an integer",
		})
		return
	}
	c.JSON(http.StatusOK, h.query.Search(term, nodeType, limit))
}

// Node handles GET /api/node/*id.
func (h *GraphHandler) Node(c *gin.Context) {
	id := c.Param("id")
	if len(id) > 0 && id[0] == '/' {
		id = id[1:]
	}
	details, err := h.query.NodeDetails(id)
	if errors.Is(err, graph.ErrNodeNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Node not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}
