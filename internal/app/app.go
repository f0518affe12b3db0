// Package app wires configuration, clients and services into the shared core
// used by cmd/stockbrief-server and cmd/stockbrief.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/stockbrief/internal/clients/allocator"
	"github.com/bobmcallan/stockbrief/internal/clients/anthropic"
	"github.com/bobmcallan/stockbrief/internal/clients/eodhd"
	"github.com/bobmcallan/stockbrief/internal/clients/gemini"
	"github.com/bobmcallan/stockbrief/internal/clients/openai"
	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/document"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/metrics"
	"github.com/bobmcallan/stockbrief/internal/services/analyst"
	"github.com/bobmcallan/stockbrief/internal/services/portfolio"
	"github.com/bobmcallan/stockbrief/internal/services/quote"
	"github.com/bobmcallan/stockbrief/internal/services/report"
	"github.com/bobmcallan/stockbrief/internal/storage"
	"github.com/bobmcallan/stockbrief/internal/storage/modelbook"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Metrics          *metrics.Collector
	Clock            common.Clock
	EODHDClient      interfaces.EODHDClient
	LLMClient        interfaces.LLMClient
	QuoteService     interfaces.QuoteService
	AnalystService   interfaces.AnalystService
	PortfolioService interfaces.PortfolioService
	ReportService    interfaces.ReportService
	ReportStore      interfaces.ReportStore
	Renderer         *document.Renderer
	MCPServer        *server.MCPServer
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, STOCKBRIEF_CONFIG,
// stockbrief.toml next to the binary, then config/stockbrief.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("STOCKBRIEF_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "stockbrief.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stockbrief.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initializes the App.
// configPath may be empty, in which case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return New(config, common.NewLoggerFromConfig(config.Logging))
}

// New initializes all clients and services from an already loaded config.
func New(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	ctx := context.Background()

	collector, err := metrics.NewCollector()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	clock := common.SystemClock(config.Location())

	// Market data
	var eodhdClient interfaces.EODHDClient
	eodhdKey, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		logger.Warn().Msg("EODHD API key not configured - prices will read N/A")
	} else {
		eodhdClient = eodhd.NewClient(eodhdKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	}

	// Language model
	provider := config.Clients.LLM.Provider
	llmClient := newLLMClient(ctx, config, logger)

	// Portfolio composition
	source, directory, err := newAllocationSource(config, logger)
	if err != nil {
		return nil, err
	}

	// Report output
	reportStore, err := storage.NewReportStore(logger, config.Document.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report store: %w", err)
	}
	renderer := document.NewRenderer(logger,
		document.WithFontFiles(config.Document.RegularFont, config.Document.BoldFont),
		document.WithChart(config.Document.IncludeChart),
	)

	// Services
	quoteService := quote.NewService(eodhdClient, config.Clients.EODHD.Exchange, logger)
	analystService := analyst.NewService(llmClient, logger,
		analyst.WithMaxTokens(config.Clients.LLM.ReportMaxTokens, config.Clients.LLM.SummaryMaxTokens),
		analyst.WithClock(clock),
		analyst.WithObserver(collector.CompletionObserver(provider)),
	)
	portfolioService := portfolio.NewService(source, directory, logger)
	reportService := report.NewService(quoteService, analystService, portfolioService, reportStore, renderer, clock, logger)

	mcpServer := server.NewMCPServer(
		"stockbrief",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Metrics:          collector,
		Clock:            clock,
		EODHDClient:      eodhdClient,
		LLMClient:        llmClient,
		QuoteService:     quoteService,
		AnalystService:   analystService,
		PortfolioService: portfolioService,
		ReportService:    reportService,
		ReportStore:      reportStore,
		Renderer:         renderer,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("llm_provider", provider).
		Bool("llm_configured", llmClient != nil).
		Str("portfolio_source", config.Portfolio.Source).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newLLMClient builds the configured provider's client. A missing key or a
// failed construction leaves the analyst without a client, so every request
// reports the unavailable failure instead of aborting startup.
func newLLMClient(ctx context.Context, config *common.Config, logger *common.Logger) interfaces.LLMClient {
	timeout := config.Clients.LLM.GetTimeout()

	switch config.Clients.LLM.Provider {
	case openai.ProviderName:
		key, err := common.ResolveAPIKey("openai_api_key", config.Clients.OpenAI.APIKey)
		if err != nil {
			logger.Warn().Msg("OpenAI API key not configured - AI analysis will be unavailable")
			return nil
		}
		c, err := openai.NewClient(key, config.Clients.OpenAI.BaseURL,
			openai.WithModel(config.Clients.OpenAI.Model),
			openai.WithTimeout(timeout),
			openai.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize OpenAI client")
			return nil
		}
		return c

	case anthropic.ProviderName:
		key, err := common.ResolveAPIKey("anthropic_api_key", config.Clients.Anthropic.APIKey)
		if err != nil {
			logger.Warn().Msg("Anthropic API key not configured - AI analysis will be unavailable")
			return nil
		}
		c, err := anthropic.NewClient(key, config.Clients.Anthropic.BaseURL,
			anthropic.WithModel(config.Clients.Anthropic.Model),
			anthropic.WithTimeout(timeout),
			anthropic.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Anthropic client")
			return nil
		}
		return c

	default:
		key, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
		if err != nil {
			logger.Warn().Msg("Gemini API key not configured - AI analysis will be unavailable")
			return nil
		}
		c, err := gemini.NewClient(ctx, key, "",
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithTimeout(timeout),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
			return nil
		}
		return c
	}
}

// newAllocationSource selects the model book or the remote allocation service.
// The model book doubles as the stock directory for both sources.
func newAllocationSource(config *common.Config, logger *common.Logger) (interfaces.AllocationSource, interfaces.StockDirectory, error) {
	cfg := config.Portfolio

	book, bookErr := modelbook.Load(logger, cfg.BookPath)

	switch cfg.Source {
	case "remote":
		if cfg.RemoteURL == "" {
			return nil, nil, fmt.Errorf("portfolio source is remote but remote_url is empty")
		}
		if bookErr != nil {
			logger.Warn().Err(bookErr).Msg("Model book unavailable - stock names fall back to codes")
			book, _ = modelbook.Parse(logger, nil)
		}
		remote := allocator.NewClient(cfg.RemoteURL,
			allocator.WithRowsPath(cfg.RowsPath),
			allocator.WithFields(cfg.CodeField, cfg.WeightField),
			allocator.WithTimeout(cfg.GetTimeout()),
			allocator.WithLogger(logger),
		)
		return remote, book, nil

	default:
		if bookErr != nil {
			return nil, nil, fmt.Errorf("failed to load model book: %w", bookErr)
		}
		return book, book, nil
	}
}

// Close releases resources held by the App.
func (a *App) Close() {
	a.Logger.Debug().Msg("App closed")
}
