// Package agent mediates natural-language questions against the award
// graph: it runs an OpenAI tool-calling loop over the read-only tool
// registry and keeps per-conversation message history.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/tools"
)

// maxToolRounds bounds how many times one user query may go back to
// the model with tool results.
const maxToolRounds = 8

const systemPromptFormat = `You are an AI assistant helping users explore a knowledge graph of grant awards.

The graph currently contains %d nodes and %d edges.

Node Types:
- Award: grant awards with amount, title, dates
- Organization: institutions receiving awards
- Person: PIs and Co-PIs leading research
- State: US states
- County: geographic regions
- Program: funding programs
- Technology_Area: technology focus areas

Relationships:
- LEADS / CO_LEADS: Person -> Award
- AWARDED_TO: Award -> Organization
- LOCATED_IN_STATE: Organization -> State
- LOCATED_IN_COUNTY: Organization -> County
- FUNDED_BY: Award -> Program
- INVOLVES_TECH: Award -> Technology_Area

You have access to tools that can query this graph. When users ask questions:
1. Use the appropriate tools to fetch data
2. Analyze the results
3. Provide clear, insightful answers
4. Format numbers with proper units (e.g., $1.2M instead of 1200000)

Be conversational and helpful. If data is ambiguous, ask clarifying questions.`

// ToolUse records one tool invocation made while answering a query.
type ToolUse struct {
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input"`
	Result any             `json:"result"`
}

// Result is the outcome of one user query.
type Result struct {
	Response string    `json:"response"`
	ToolUses []ToolUse `json:"tool_uses"`
}

// Handler answers queries for one conversation. It is safe for
// concurrent use, though requests within a conversation serialize on
// the shared history.
type Handler struct {
	client    ChatClient
	registry  *tools.Registry
	model     string
	maxTokens int
	log       *slog.Logger
	toolDefs  []openai.Tool

	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

// NewHandler creates a conversation handler. The system prompt embeds
// the live graph summary so the model knows the data's scale.
func NewHandler(client ChatClient, registry *tools.Registry, summary *stats.Summary, model string, maxTokens int, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	h := &Handler{
		client:    client,
		registry:  registry,
		model:     model,
		maxTokens: maxTokens,
		log:       log,
	}
	for _, def := range registry.Definitions() {
		h.toolDefs = append(h.toolDefs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	h.history = []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(systemPromptFormat, summary.TotalNodes, summary.TotalEdges),
	}}
	return h
}

// Query sends one user message through the tool loop and returns the
// model's final answer plus the tools it used along the way.
func (h *Handler) Query(ctx context.Context, message string) (*Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	result := &Result{}
	for round := 0; ; round++ {
		resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     h.model,
			Messages:  h.history,
			Tools:     h.toolDefs,
			MaxTokens: h.maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}
		msg := resp.Choices[0].Message
		h.history = append(h.history, msg)

		if len(msg.ToolCalls) == 0 {
			result.Response += msg.Content
			return result, nil
		}
		if round >= maxToolRounds {
			return nil, fmt.Errorf("tool loop exceeded %d rounds", maxToolRounds)
		}
		if msg.Content != "" {
			result.Response += msg.Content
		}

		for _, call := range msg.ToolCalls {
			payload, use := h.executeToolCall(call)
			result.ToolUses = append(result.ToolUses, use)
			h.history = append(h.history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    payload,
			})
		}
	}
}

// executeToolCall runs one tool call and serializes the result for the
// model. Model-produced JSON is repaired before decoding; execution
// failures become error payloads so the model can recover instead of
// the request dying.
func (h *Handler) executeToolCall(call openai.ToolCall) (string, ToolUse) {
	name := call.Function.Name
	args := call.Function.Arguments
	if repaired, err := jsonrepair.JSONRepair(args); err == nil {
		args = repaired
	}

	h.log.Debug("executing tool", "tool", name, "args", args)
	use := ToolUse{Name: name, Input: json.RawMessage(args)}

	out, err := h.registry.Execute(name, json.RawMessage(args))
	if err != nil {
		h.log.Warn("tool execution failed", "tool", name, "error", err)
		out = map[string]string{"error": err.Error()}
	}
	use.Result = out

	payload, err := json.Marshal(out)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return string(payload), use
}

// Reset clears the conversation history back to the system prompt.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = h.history[:1]
}
