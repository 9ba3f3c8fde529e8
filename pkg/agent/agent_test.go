package agent_test

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardgraph/awardgraph/pkg/agent"
	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/tools"
	"github.com/awardgraph/awardgraph/pkg/types"
)

// scriptedClient replays a fixed sequence of responses and records the
// requests it received.
type scriptedClient struct {
	responses []openai.ChatCompletionResponse
	requests  []openai.ChatCompletionRequest
}

func (c *scriptedClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return openai.ChatCompletionResponse{}, assert.AnError
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			},
		}},
	}
}

func toolCallResponse(id, name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   id,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      name,
						Arguments: args,
					},
				}},
			},
		}},
	}
}

func newTestHandler(t *testing.T, client agent.ChatClient) *agent.Handler {
	t.Helper()
	s := graph.NewStore()
	b := graph.NewBuilder(s, nil)
	b.AddRecord(&types.AwardRecord{
		AwardID:       "AWD-1",
		Title:         "Quantum Sensing",
		Amount:        "500000",
		Investigators: "Jane Doe (PI)",
		Organization:  "Acme University",
	})
	registry := tools.NewRegistry(s)
	return agent.NewHandler(client, registry, stats.Summarize(s), "test-model", 1024, nil)
}

func TestQueryPlainAnswer(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		textResponse("The graph has one award."),
	}}
	h := newTestHandler(t, client)

	result, err := h.Query(context.Background(), "how many awards?")
	require.NoError(t, err)
	assert.Equal(t, "The graph has one award.", result.Response)
	assert.Empty(t, result.ToolUses)

	// system + user + assistant
	require.Len(t, client.requests, 1)
	assert.Len(t, client.requests[0].Messages, 2)
	assert.Equal(t, "test-model", client.requests[0].Model)
	assert.Len(t, client.requests[0].Tools, 9)
}

func TestQueryToolLoop(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallResponse("call-1", "search_nodes", `{"query":"jane"}`),
		textResponse("Jane Doe leads AWD-1."),
	}}
	h := newTestHandler(t, client)

	result, err := h.Query(context.Background(), "who is jane?")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe leads AWD-1.", result.Response)

	require.Len(t, result.ToolUses, 1)
	assert.Equal(t, "search_nodes", result.ToolUses[0].Name)

	// The second request must carry the tool result back to the model.
	require.Len(t, client.requests, 2)
	msgs := client.requests[1].Messages
	last := msgs[len(msgs)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Contains(t, last.Content, "Jane Doe")
}

// Malformed tool arguments from the model are repaired rather than
// failing the query.
func TestQueryRepairsToolArguments(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallResponse("call-1", "search_nodes", `{"query": "jane",}`),
		textResponse("done"),
	}}
	h := newTestHandler(t, client)

	result, err := h.Query(context.Background(), "who is jane?")
	require.NoError(t, err)
	require.Len(t, result.ToolUses, 1)

	msgs := client.requests[1].Messages
	assert.Contains(t, msgs[len(msgs)-1].Content, "Jane Doe")
}

// Tool execution failures become error payloads the model can react to,
// not request failures.
func TestQueryToolErrorBecomesPayload(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallResponse("call-1", "no_such_tool", `{}`),
		textResponse("that tool does not exist"),
	}}
	h := newTestHandler(t, client)

	result, err := h.Query(context.Background(), "break please")
	require.NoError(t, err)
	assert.Equal(t, "that tool does not exist", result.Response)

	msgs := client.requests[1].Messages
	assert.Contains(t, msgs[len(msgs)-1].Content, "error")
}

func TestQueryClientError(t *testing.T) {
	client := &scriptedClient{}
	h := newTestHandler(t, client)

	_, err := h.Query(context.Background(), "hello")
	assert.Error(t, err)
}

func TestResetKeepsSystemPrompt(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		textResponse("first"),
		textResponse("second"),
	}}
	h := newTestHandler(t, client)

	_, err := h.Query(context.Background(), "one")
	require.NoError(t, err)
	h.Reset()

	_, err = h.Query(context.Background(), "two")
	require.NoError(t, err)

	// After reset, the second request carries only system + new user.
	msgs := client.requests[1].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "two", msgs[1].Content)
}
