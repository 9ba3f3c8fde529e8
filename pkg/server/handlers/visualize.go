package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/server/dto"
	"github.com/awardgraph/awardgraph/pkg/viz"
)

// pollInterval is how often the progress stream re-reads the job
// registry.
const pollInterval = 100 * time.Millisecond

// VisualizeHandler submits visualization jobs and streams their
// progress as server-sent events.
type VisualizeHandler struct {
	manager *viz.Manager
}

// NewVisualizeHandler creates the handler over a job manager.
func NewVisualizeHandler(manager *viz.Manager) *VisualizeHandler {
	return &VisualizeHandler{manager: manager}
}

// Create handles POST /api/visualize.
func (h *VisualizeHandler) Create(c *gin.Context) {
	var req dto.VisualizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}
	if req.Depth <= 0 {
		req.Depth = 1
	}

	jobID, url, err := h.manager.Submit(req.Node, req.Depth)
	if errors.Is(err, graph.ErrNodeNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Node not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.VisualizeResponse{Success: true, JobID: jobID, URL: url})
}

// Progress handles GET /api/visualize/progress/:job_id as an SSE
// stream terminating on the job's complete or error state.
func (h *VisualizeHandler) Progress(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := h.manager.Progress(jobID); errors.Is(err, viz.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Job not found"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		p, err := h.manager.Progress(jobID)
		if err != nil {
			return false
		}
		c.SSEvent("message", p)
		if p.Terminal() {
			return false
		}
		time.Sleep(pollInterval)
		return true
	})
}
