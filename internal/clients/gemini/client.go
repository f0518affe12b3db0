// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

const (
	ProviderName = "gemini"
	DefaultModel = "gemini-2.5-flash"
)

// Client implements the LLMClient interface on top of genai
type Client struct {
	client  *genai.Client
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

// NewClient creates a new Gemini client. baseURL overrides the API endpoint
// when non-empty.
func NewClient(ctx context.Context, apiKey, baseURL string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	genaiClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
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

// Complete sends one generateContent request. With WebSearch set the request
// carries the Google Search tool and grounded segments are marked "[n]".
func (c *Client) Complete(ctx context.Context, req interfaces.CompletionRequest) (*models.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{}
	if req.Instructions != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.Instructions}}}
	}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	if req.WebSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	c.logger.Debug().Str("model", c.model).Bool("web_search", req.WebSearch).Msg("Generating content")

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, classify(err)
	}

	return extractCompletion(result)
}

// classify maps a genai error onto a failure reason
func classify(err error) error {
	reason := models.ReasonUpstream

	var apiErr genai.APIError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			reason = models.ReasonRateLimited
		case http.StatusServiceUnavailable:
			reason = models.ReasonUnavailable
		}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		reason = models.ReasonMalformed
	}

	return &models.CompletionError{Provider: ProviderName, Reason: reason, Err: err}
}

// extractCompletion joins the text parts of the first candidate and turns
// grounding metadata into citations.
func extractCompletion(result *genai.GenerateContentResponse) (*models.Completion, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, &models.CompletionError{Provider: ProviderName, Reason: models.ReasonNoData, Err: fmt.Errorf("no content generated")}
	}

	candidate := result.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, &models.CompletionError{Provider: ProviderName, Reason: models.ReasonNoData, Err: fmt.Errorf("empty response text")}
	}

	completion := &models.Completion{Text: text}
	if gm := candidate.GroundingMetadata; gm != nil {
		completion.Citations = groundingCitations(gm)
		completion.Text = insertMarkers(text, gm)
	}

	return completion, nil
}

// Ensure Client implements LLMClient
var _ interfaces.LLMClient = (*Client)(nil)
