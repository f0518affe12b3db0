// Package interfaces defines service contracts for stockbrief
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// EODHDClient provides access to the EODHD end-of-day API
type EODHDClient interface {
	// GetEOD retrieves end-of-day price data
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) (*models.EODResponse, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   time.Time
	To     time.Time
	Period string // d=daily, w=weekly, m=monthly
	Order  string // a=ascending, d=descending
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// CompletionRequest is a single instructions-plus-prompt exchange with a language model.
type CompletionRequest struct {
	Instructions    string
	Prompt          string
	MaxOutputTokens int
	WebSearch       bool // ask the provider to ground the answer in web search results
}

// LLMClient generates narrative text. Failures are returned as *models.CompletionError.
type LLMClient interface {
	// Complete sends one request and returns the text with any citations
	Complete(ctx context.Context, req CompletionRequest) (*models.Completion, error)

	// Provider names the backing service
	Provider() string
}

// AllocationSource returns the raw composition for a model portfolio.
type AllocationSource interface {
	Allocations(ctx context.Context, req models.AllocationRequest) ([]models.AllocationRow, error)
}
