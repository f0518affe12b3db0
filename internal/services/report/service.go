// Package report runs the end-to-end analysis workflows
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/document"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

// FilenamePrefix prefixes stored report names, followed by the YYYYMMDD date.
const FilenamePrefix = "portfolio_report_"

// Renderer turns a document model into PDF output
type Renderer interface {
	Render(doc document.Document) ([]byte, error)
	WriteFile(doc document.Document, path string) error
}

// Service implements ReportService
type Service struct {
	quotes    interfaces.QuoteService
	analyst   interfaces.AnalystService
	portfolio interfaces.PortfolioService
	store     interfaces.ReportStore
	renderer  Renderer
	clock     common.Clock
	logger    *common.Logger
}

// NewService creates a new report service
func NewService(
	quotes interfaces.QuoteService,
	analyst interfaces.AnalystService,
	portfolio interfaces.PortfolioService,
	store interfaces.ReportStore,
	renderer Renderer,
	clock common.Clock,
	logger *common.Logger,
) *Service {
	return &Service{
		quotes:    quotes,
		analyst:   analyst,
		portfolio: portfolio,
		store:     store,
		renderer:  renderer,
		clock:     clock,
		logger:    logger,
	}
}

// Filename is the stored report name for the given day.
func Filename(day common.Clock) string {
	return FilenamePrefix + common.FormatDate(day.Today()) + ".pdf"
}

// Analyze prices one instrument and requests its report.
func (s *Service) Analyze(ctx context.Context, name, ticker string) models.StockReport {
	return s.analyst.AnalyzeStock(ctx, s.query(ctx, name, ticker, s.clock()))
}

// query gathers the market data sent along with a report request.
func (s *Service) query(ctx context.Context, name, ticker string, now time.Time) models.StockQuery {
	return models.StockQuery{
		Name:       name,
		Ticker:     ticker,
		Price:      s.quotes.LatestPrice(ctx, ticker, now),
		Technicals: s.quotes.Technicals(ctx, ticker, now),
	}
}

// Overview composes the portfolio and requests its summary.
func (s *Service) Overview(ctx context.Context, req models.AllocationRequest) (*models.PortfolioOverview, error) {
	req = req.WithDefaults()
	entries, err := s.portfolio.Compose(ctx, req)
	if err != nil {
		return nil, err
	}

	return &models.PortfolioOverview{
		Request: req,
		Entries: entries,
		Summary: s.analyst.SummarizePortfolio(ctx, entries),
	}, nil
}

// Generate runs the full pipeline and saves the PDF to the report store.
// An empty filename selects the dated default.
func (s *Service) Generate(ctx context.Context, req models.AllocationRequest, filename string) (*models.PortfolioReport, error) {
	if filename == "" {
		filename = Filename(s.clock)
	}

	report, doc, err := s.collect(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := s.store.Save(ctx, filename, data); err != nil {
		s.logger.Error().Str("filename", filename).Err(err).Msg("Failed to save report")
		return nil, fmt.Errorf("save report: %w", err)
	}

	report.Filename = filename
	report.Path = s.store.Location(filename)
	s.logger.Info().Str("path", report.Path).Int("pages", len(doc.Pages)+1).Msg("Report generated and stored")
	return report, nil
}

// GenerateFile runs the full pipeline and writes the PDF to path.
func (s *Service) GenerateFile(ctx context.Context, req models.AllocationRequest, path string) (*models.PortfolioReport, error) {
	report, doc, err := s.collect(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.renderer.WriteFile(doc, path); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	report.Filename = filepath.Base(path)
	report.Path = path
	s.logger.Info().Str("path", path).Int("pages", len(doc.Pages)+1).Msg("Report written")
	return report, nil
}

// collect composes the portfolio, prices and analyses every holding in order,
// then requests the summary.
func (s *Service) collect(ctx context.Context, req models.AllocationRequest) (*models.PortfolioReport, document.Document, error) {
	req = req.WithDefaults()
	s.logger.Info().Str("model", req.Model).Int("risk_level", req.RiskLevel).Msg("Generating portfolio report")

	entries, err := s.portfolio.Compose(ctx, req)
	if err != nil {
		return nil, document.Document{}, fmt.Errorf("compose portfolio: %w", err)
	}

	now := s.clock()
	queries := make([]models.StockQuery, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, s.query(ctx, e.Name, e.Ticker, now))
	}

	reports := s.analyst.AnalyzeStocks(ctx, queries)
	summary := s.analyst.SummarizePortfolio(ctx, entries)

	doc := document.Compose(entries, summary, reports)
	for _, name := range doc.Skipped {
		s.logger.Warn().Str("stock", name).Msg("Report content empty, page skipped")
	}

	return &models.PortfolioReport{
		Request:     req,
		Entries:     entries,
		Summary:     summary,
		Reports:     reports,
		GeneratedAt: now,
	}, doc, nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
