// Package analyst requests narrative reports from a language model
package analyst

import (
	"context"
	"time"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
	"github.com/bobmcallan/stockbrief/internal/services/prompt"
)

// Placeholders shown in place of text the model failed to produce.
const (
	ReportFailurePrefix = "AI API 호출 중 오류 발생: "
	SummaryFailureText  = "포트폴리오 종합 평가 생성 중 오류가 발생했습니다."
)

// Default output budgets.
const (
	DefaultReportMaxTokens  = 4096
	DefaultSummaryMaxTokens = 2048
)

// Observer is notified after every completion attempt. Metrics hook in here.
type Observer func(kind string, failure *models.Failure, elapsed time.Duration)

// Service implements AnalystService. Requests are issued one at a time with no retries.
type Service struct {
	llm              interfaces.LLMClient
	logger           *common.Logger
	clock            common.Clock
	reportMaxTokens  int
	summaryMaxTokens int
	observe          Observer
}

// Option configures the service
type Option func(*Service)

// WithMaxTokens sets the report and summary output budgets; non-positive values keep the defaults
func WithMaxTokens(report, summary int) Option {
	return func(s *Service) {
		if report > 0 {
			s.reportMaxTokens = report
		}
		if summary > 0 {
			s.summaryMaxTokens = summary
		}
	}
}

// WithClock sets the clock used to date prompts
func WithClock(clock common.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithObserver registers a completion observer
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observe = o
	}
}

// NewService creates a new analyst service. llm may be nil, in which case
// every request fails as unavailable.
func NewService(llm interfaces.LLMClient, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		llm:              llm,
		logger:           logger,
		clock:            common.SystemClock(time.Local),
		reportMaxTokens:  DefaultReportMaxTokens,
		summaryMaxTokens: DefaultSummaryMaxTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) complete(ctx context.Context, kind string, req interfaces.CompletionRequest) (*models.Completion, error) {
	start := time.Now()

	var (
		completion *models.Completion
		err        error
	)
	if s.llm == nil {
		err = models.ErrClientUnavailable
	} else {
		completion, err = s.llm.Complete(ctx, req)
	}

	var failure *models.Failure
	if err != nil {
		failure = models.NewFailure(err)
	}
	if s.observe != nil {
		s.observe(kind, failure, time.Since(start))
	}
	return completion, err
}

// AnalyzeStock requests one instrument report. A failed request yields the
// placeholder content and a typed failure instead of an error.
func (s *Service) AnalyzeStock(ctx context.Context, q models.StockQuery) models.StockReport {
	report := models.StockReport{
		Name:        q.Name,
		Ticker:      q.Ticker,
		LatestPrice: q.Price,
		Citations:   []models.Citation{},
	}

	s.logger.Info().Str("stock", q.Name).Str("ticker", q.Ticker).Str("latest_price", q.Price.String()).Msg("Requesting stock report")

	completion, err := s.complete(ctx, "report", interfaces.CompletionRequest{
		Instructions:    prompt.StockInstructions(q.Name),
		Prompt:          prompt.StockPrompt(q, s.clock.Today()),
		MaxOutputTokens: s.reportMaxTokens,
		WebSearch:       true,
	})
	if err != nil {
		report.Content = ReportFailurePrefix + err.Error()
		report.Failure = models.NewFailure(err)
		s.logger.Warn().Str("stock", q.Name).Str("reason", string(report.Failure.Reason)).Err(err).Msg("Stock report failed")
		return report
	}

	report.Content = completion.Text
	if completion.Citations != nil {
		report.Citations = completion.Citations
	}
	s.logger.Info().Str("stock", q.Name).Int("citations", len(report.Citations)).Msg("Stock report complete")
	return report
}

// AnalyzeStocks processes queries strictly in order; a failure never stops the batch.
func (s *Service) AnalyzeStocks(ctx context.Context, qs []models.StockQuery) []models.StockReport {
	reports := make([]models.StockReport, 0, len(qs))
	for _, q := range qs {
		reports = append(reports, s.AnalyzeStock(ctx, q))
	}
	return reports
}

// SummarizePortfolio requests the portfolio-level evaluation.
func (s *Service) SummarizePortfolio(ctx context.Context, entries []models.PortfolioEntry) models.PortfolioSummary {
	s.logger.Info().Int("holdings", len(entries)).Msg("Requesting portfolio summary")

	completion, err := s.complete(ctx, "summary", interfaces.CompletionRequest{
		Instructions:    prompt.PortfolioInstructions(),
		Prompt:          prompt.PortfolioPrompt(entries),
		MaxOutputTokens: s.summaryMaxTokens,
	})
	if err != nil {
		failure := models.NewFailure(err)
		s.logger.Warn().Str("reason", string(failure.Reason)).Err(err).Msg("Portfolio summary failed")
		return models.PortfolioSummary{Text: SummaryFailureText, Failure: failure}
	}

	return models.PortfolioSummary{Text: completion.Text}
}

// Ensure Service implements AnalystService
var _ interfaces.AnalystService = (*Service)(nil)
