package agent

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// ChatClient is the slice of the OpenAI client the agent needs. The
// real client satisfies it; tests substitute a scripted fake.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a chat client for the given API key and
// optional OpenAI-compatible base URL, wrapped in a circuit breaker so
// a flapping upstream fails fast instead of stalling every chat
// request behind timeouts.
func NewOpenAIClient(apiKey, baseURL string) ChatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &breakerClient{
		inner: openai.NewClientWithConfig(cfg),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "openai-chat",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

type breakerClient struct {
	inner *openai.Client
	cb    *gobreaker.CircuitBreaker
}

func (c *breakerClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.inner.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return resp.(openai.ChatCompletionResponse), nil
}
