package models

import (
	"time"
)

// Citation substantiates a claim in a report. Index matches a "[n]" marker in
// the report text.
type Citation struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Completion is a successful language-model response.
type Completion struct {
	Text      string
	Citations []Citation
}

// StockQuery identifies an instrument to analyse together with its latest price.
type StockQuery struct {
	Name       string
	Ticker     string
	Price      Price
	Technicals *Technicals // optional indicator snapshot
}

// StockReport is the narrative analysis of one instrument. On failure Content
// holds a visible placeholder and Failure the typed reason.
type StockReport struct {
	Name        string     `json:"stock_name"`
	Ticker      string     `json:"stock_ticker"`
	LatestPrice Price      `json:"latest_price"`
	Content     string     `json:"report"`
	Citations   []Citation `json:"citations"`
	Failure     *Failure   `json:"failure,omitempty"`
}

// PortfolioSummary is the portfolio-level narrative.
type PortfolioSummary struct {
	Text    string   `json:"summary"`
	Failure *Failure `json:"failure,omitempty"`
}

// PortfolioOverview is a composed portfolio plus its summary.
type PortfolioOverview struct {
	Request AllocationRequest
	Entries []PortfolioEntry
	Summary PortfolioSummary
}

// PortfolioReport is the outcome of a full report run.
type PortfolioReport struct {
	Request     AllocationRequest
	Entries     []PortfolioEntry
	Summary     PortfolioSummary
	Reports     []StockReport
	Filename    string
	Path        string
	GeneratedAt time.Time
}
