package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"market-summary-bot/internal/api"
	"market-summary-bot/internal/types"
)

// chatClient talks to an OpenAI-compatible chat-completions endpoint.
// Both the Hugging Face router and the OpenAI API speak this wire shape.
type chatClient struct {
	client      *api.Client
	endpoint    string
	token       string
	model       string
	system      string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	policy      RetryPolicy
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// summarize sends the prompt, retrying per policy, and wraps the trimmed
// response text into a Summary.
func (c *chatClient) summarize(ctx context.Context, prompt types.Prompt) (types.Summary, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.system},
			{Role: "user", Content: prompt.Text},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var text string
	err := c.policy.doWithRetry(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.POST(attemptCtx, c.endpoint, body, map[string]string{
			"Authorization": "Bearer " + c.token,
		})
		if err != nil {
			return err
		}

		var r chatResponse
		if err := resp.ParseJSON(&r); err != nil {
			return err
		}
		if len(r.Choices) == 0 {
			return errors.New("no choices in response")
		}

		text = strings.TrimSpace(r.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return types.Summary{}, err
	}

	return types.Summary{
		Text:        text,
		ModelID:     c.model,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
