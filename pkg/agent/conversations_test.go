package agent_test

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardgraph/awardgraph/pkg/agent"
	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/stats"
	"github.com/awardgraph/awardgraph/pkg/tools"
)

func testConversations(t *testing.T) *agent.Conversations {
	t.Helper()
	s := graph.NewStore()
	registry := tools.NewRegistry(s)
	summary := stats.Summarize(s)
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{}}
	return agent.NewConversations(func() *agent.Handler {
		return agent.NewHandler(client, registry, summary, "test-model", 0, nil)
	})
}

func TestGetAssignsID(t *testing.T) {
	c := testConversations(t)

	h1, id1 := c.Get("")
	require.NotNil(t, h1)
	assert.NotEmpty(t, id1)

	// Same ID returns the same handler.
	h2, id2 := c.Get(id1)
	assert.Equal(t, id1, id2)
	assert.Same(t, h1, h2)

	// Different ID gets a fresh handler.
	h3, id3 := c.Get("other")
	assert.Equal(t, "other", id3)
	assert.NotSame(t, h1, h3)
}

func TestResetEvicts(t *testing.T) {
	c := testConversations(t)
	_, id := c.Get("")

	assert.True(t, c.Reset(id))
	assert.False(t, c.Reset(id))
	assert.False(t, c.Reset("never-existed"))
}
