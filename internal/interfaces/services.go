// Package interfaces defines service contracts for stockbrief
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// QuoteService resolves the latest known close for a ticker
type QuoteService interface {
	// LatestPrice never fails; it returns the N/A sentinel when no close is found
	LatestPrice(ctx context.Context, ticker string, ref time.Time) models.Price

	// Technicals returns the indicator snapshot as of ref, or nil when history is unavailable
	Technicals(ctx context.Context, ticker string, ref time.Time) *models.Technicals
}

// AnalystService requests narrative reports from a language model
type AnalystService interface {
	// AnalyzeStock produces one report; failures become a placeholder report
	AnalyzeStock(ctx context.Context, q models.StockQuery) models.StockReport

	// AnalyzeStocks processes queries sequentially in input order
	AnalyzeStocks(ctx context.Context, qs []models.StockQuery) []models.StockReport

	// SummarizePortfolio produces the portfolio-level narrative
	SummarizePortfolio(ctx context.Context, entries []models.PortfolioEntry) models.PortfolioSummary
}

// PortfolioService composes model portfolios
type PortfolioService interface {
	// Compose fetches the allocation, drops cash, resolves names and sorts by weight
	Compose(ctx context.Context, req models.AllocationRequest) ([]models.PortfolioEntry, error)
}

// ReportService runs the end-to-end workflows
type ReportService interface {
	// Analyze prices and analyses a single instrument
	Analyze(ctx context.Context, name, ticker string) models.StockReport

	// Overview composes a portfolio and summarises it
	Overview(ctx context.Context, req models.AllocationRequest) (*models.PortfolioOverview, error)

	// Generate runs the full pipeline and stores the PDF under filename
	Generate(ctx context.Context, req models.AllocationRequest, filename string) (*models.PortfolioReport, error)

	// GenerateFile runs the full pipeline and writes the PDF to path
	GenerateFile(ctx context.Context, req models.AllocationRequest, path string) (*models.PortfolioReport, error)
}
