// Package allocator fetches model portfolio compositions from a remote
// allocation service.
package allocator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

const (
	DefaultTimeout     = 60 * time.Second
	DefaultRowsPath    = "$.data[*]"
	DefaultCodeField   = "isuSrtCd"
	DefaultWeightField = "weight"
)

// Client implements AllocationSource against an HTTP endpoint
type Client struct {
	url         string
	rowsPath    string
	codeField   string
	weightField string
	httpClient  *http.Client
	logger      *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithRowsPath sets the JSONPath that selects the allocation rows
func WithRowsPath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.rowsPath = path
		}
	}
}

// WithFields sets the row field names holding the code and the weight
func WithFields(code, weight string) ClientOption {
	return func(c *Client) {
		if code != "" {
			c.codeField = code
		}
		if weight != "" {
			c.weightField = weight
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new allocation client for url
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:         url,
		rowsPath:    DefaultRowsPath,
		codeField:   DefaultCodeField,
		weightField: DefaultWeightField,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-200 response from the allocation service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("allocation API error: %s (status: %d)", e.Message, e.StatusCode)
}

type allocationPayload struct {
	Model     string  `json:"model"`
	RiskLevel int     `json:"risk_level"`
	Amount    float64 `json:"amount,omitempty"`
}

// Allocations posts the request and extracts the rows with the configured JSONPath
func (c *Client) Allocations(ctx context.Context, req models.AllocationRequest) ([]models.AllocationRow, error) {
	req = req.WithDefaults()

	body, err := json.Marshal(allocationPayload{Model: req.Model, RiskLevel: req.RiskLevel, Amount: req.Amount})
	if err != nil {
		return nil, fmt.Errorf("failed to encode allocation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("model", req.Model).Int("risk_level", req.RiskLevel).Msg("Allocation API request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return c.extractRows(doc)
}

func (c *Client) extractRows(doc any) ([]models.AllocationRow, error) {
	selected, err := jsonpath.Get(c.rowsPath, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to select rows with %q: %w", c.rowsPath, err)
	}

	list, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("rows path %q did not select a list", c.rowsPath)
	}

	rows := make([]models.AllocationRow, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an object", i)
		}
		code, err := stringField(obj, c.codeField)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		weight, err := decimalField(obj, c.weightField)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, models.AllocationRow{Code: code, Weight: weight.InexactFloat64()})
	}

	return rows, nil
}

func stringField(obj map[string]any, name string) (string, error) {
	switch v := obj[name].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		// numeric KRX codes lose their leading zeros
		return fmt.Sprintf("%06d", int64(v)), nil
	case nil:
		return "", fmt.Errorf("missing field %q", name)
	default:
		return "", fmt.Errorf("field %q has unexpected type %T", name, v)
	}
}

func decimalField(obj map[string]any, name string) (decimal.Decimal, error) {
	switch v := obj[name].(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q: %w", name, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing field %q", name)
	default:
		return decimal.Zero, fmt.Errorf("field %q has unexpected type %T", name, v)
	}
}

// Ensure Client implements AllocationSource
var _ interfaces.AllocationSource = (*Client)(nil)
