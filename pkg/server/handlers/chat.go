package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awardgraph/awardgraph/pkg/agent"
	"github.com/awardgraph/awardgraph/pkg/server/dto"
)

// ChatHandler routes natural-language queries to the agent layer.
// conversations is nil when no API key was configured, in which case
// the endpoints report the feature as unavailable.
type ChatHandler struct {
	conversations *agent.Conversations
}

// NewChatHandler creates the handler. conversations may be nil.
func NewChatHandler(conversations *agent.Conversations) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

// Query handles POST /api/chat/query.
func (h *ChatHandler) Query(c *gin.Context) {
	if h.conversations == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "chat is not configured: no API key",
		})
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	handler, convID := h.conversations.Get(req.ConversationID)
	result, err := handler.Query(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Success:        true,
		ConversationID: convID,
		Response:       result.Response,
		ToolUses:       result.ToolUses,
	})
}

// Reset handles POST /api/chat/reset.
func (h *ChatHandler) Reset(c *gin.Context) {
	if h.conversations == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "chat is not configured: no API key",
		})
		return
	}

	var req dto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	h.conversations.Reset(req.ConversationID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
