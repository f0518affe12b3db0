// Package openai provides a chat-completions client for the OpenAI API
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

const (
	ProviderName = "openai"
	DefaultModel = openai.GPT4o
)

// Client implements the LLMClient interface with chat completions
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each request; zero leaves requests unbounded
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new OpenAI client. baseURL overrides the API endpoint
// when non-empty.
func NewClient(apiKey, baseURL string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	c := &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Provider names the backing service
func (c *Client) Provider() string { return ProviderName }

// Complete sends the instructions as the system message and the prompt as the
// user message. Chat completions carry no citations.
func (c *Client) Complete(ctx context.Context, req interfaces.CompletionRequest) (*models.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.Instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.Instructions,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	c.logger.Debug().Str("model", c.model).Msg("Requesting chat completion")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: req.MaxOutputTokens,
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &models.CompletionError{Provider: ProviderName, Reason: models.ReasonNoData, Err: fmt.Errorf("no choices returned")}
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, &models.CompletionError{Provider: ProviderName, Reason: models.ReasonNoData, Err: fmt.Errorf("empty response text")}
	}

	return &models.Completion{Text: text}, nil
}

// classify maps a go-openai error onto a failure reason
func classify(err error) error {
	reason := models.ReasonUpstream
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		reason = models.ReasonMalformed
	}

	switch status {
	case http.StatusTooManyRequests:
		reason = models.ReasonRateLimited
	case http.StatusServiceUnavailable:
		reason = models.ReasonUnavailable
	}

	return &models.CompletionError{Provider: ProviderName, Reason: reason, Err: err}
}

// Ensure Client implements LLMClient
var _ interfaces.LLMClient = (*Client)(nil)
