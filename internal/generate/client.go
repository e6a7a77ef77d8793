package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client calls the hosted model to produce proposal text. The underlying
// OpenAI client also serves as the embedding backend for the vector
// store.
type Client struct {
	llm   *openai.LLM
	model string

	// Stats tracks recent call latencies for the stats endpoint.
	Stats *LLMStats
}

func NewClient(apiKey, model, embeddingModel string) (*Client, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithEmbeddingModel(embeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return &Client{
		llm:   llm,
		model: model,
		Stats: NewLLMStats(time.Hour),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// LLM exposes the underlying client for embedding construction.
func (c *Client) LLM() *openai.LLM {
	return c.llm
}

// GenerateProposal builds the prompt and asks the model for proposal
// text following the plain-text conventions in SystemPrompt.
func (c *Client) GenerateProposal(ctx context.Context, req ProposalRequest, snippets []string) (string, error) {
	prompt, err := BuildProposalPrompt(req, snippets)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(2048),
	)
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return "", classifyErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}

// RetryableError indicates a transient model failure worth retrying.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable model error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// classifyErr wraps transient provider failures (rate limits, upstream
// 5xx, timeouts) so the caller can retry them.
func classifyErr(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "500", "502", "503", "timeout", "connection refused"} {
		if strings.Contains(msg, marker) {
			return &RetryableError{Err: err}
		}
	}
	return fmt.Errorf("model call: %w", err)
}
