package gpt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/fedutinova/docgen/internal/common"
)

const DefaultMaxTokens = 1000

type Client struct {
	openAI    *openai.Client
	model     string
	maxTokens int
	variant   string
}

type Options struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	PromptVariant string
}

type ProcessResult struct {
	Content          string
	Model            string
	TokensUsed       int
	ProcessingTimeMs int
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Model == "" {
		opts.Model = openai.GPT4
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.PromptVariant == "" {
		opts.PromptVariant = VariantRefined
	}

	return &Client{
		openAI:    openai.NewClientWithConfig(cfg),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		variant:   opts.PromptVariant,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate asks the completion API for the document body and returns the
// trimmed text of the first choice. There is no retry.
func (c *Client) Generate(ctx context.Context, documentType, userInput string) (*ProcessResult, error) {
	start := time.Now()
	messages := BuildMessages(c.variant, documentType, userInput)

	slog.Info("sending request to OpenAI",
		"model", c.model,
		"variant", c.variant,
		"document_type", documentType,
		"user_input_length", len(userInput),
		"max_tokens", c.maxTokens)

	resp, err := c.openAI.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		slog.Error("OpenAI API error", "error", err, "model", c.model)
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenAI response: %w", common.ErrEmptyOutput)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("finish reason %q: %w", resp.Choices[0].FinishReason, common.ErrEmptyOutput)
	}

	preview := content
	if r := []rune(content); len(r) > 200 {
		preview = string(r[:200]) + "..."
	}
	slog.Info("received response from OpenAI",
		"model", resp.Model,
		"tokens_used", resp.Usage.TotalTokens,
		"finish_reason", resp.Choices[0].FinishReason,
		"response_length", len(content),
		"response_preview", preview)

	return &ProcessResult{
		Content:          content,
		Model:            resp.Model,
		TokensUsed:       resp.Usage.TotalTokens,
		ProcessingTimeMs: int(time.Since(start).Milliseconds()),
	}, nil
}
