// Package anthropic provides a Messages API client for Claude models
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

const (
	ProviderName     = "anthropic"
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 4096
)

// Client implements the LLMClient interface with the Messages API
type Client struct {
	client  anthropic.Client
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

// NewClient creates a new Anthropic client. baseURL overrides the API endpoint
// when non-empty. SDK retries are disabled: one request per report.
func NewClient(apiKey, baseURL string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	c := &Client{
		client: anthropic.NewClient(reqOpts...),
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

// Complete sends the instructions as the system prompt and joins the text
// blocks of the reply. Messages carry no citations.
func (c *Client) Complete(ctx context.Context, req interfaces.CompletionRequest) (*models.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
	}

	c.logger.Debug().Str("model", c.model).Msg("Requesting message")

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classify(err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, &models.CompletionError{Provider: ProviderName, Reason: models.ReasonNoData, Err: fmt.Errorf("empty response text")}
	}

	return &models.Completion{Text: text}, nil
}

// classify maps an SDK error onto a failure reason
func classify(err error) error {
	reason := models.ReasonUpstream

	var apiErr *anthropic.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			reason = models.ReasonRateLimited
		case http.StatusServiceUnavailable, 529: // 529 = overloaded
			reason = models.ReasonUnavailable
		}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		reason = models.ReasonMalformed
	}

	return &models.CompletionError{Provider: ProviderName, Reason: reason, Err: err}
}

// Ensure Client implements LLMClient
var _ interfaces.LLMClient = (*Client)(nil)
