// Package dto holds the request and response shapes of the HTTP API.
package dto

import "github.com/awardgraph/awardgraph/pkg/agent"

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// VisualizeRequest asks for a rendering of the neighborhood around a
// node.
type VisualizeRequest struct {
	Node  string `json:"node" binding:"required"`
	Depth int    `json:"depth"`
}

// VisualizeResponse acknowledges a submitted visualization job.
type VisualizeResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	URL     string `json:"url"`
}

// ChatRequest is one natural-language query against the graph.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse carries the agent's answer and the tools it used.
type ChatResponse struct {
	Success        bool            `json:"success"`
	ConversationID string          `json:"conversation_id"`
	Response       string          `json:"response"`
	ToolUses       []agent.ToolUse `json:"tool_uses"`
}

// ResetRequest clears one conversation's history.
type ResetRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}
