package app

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createAnalyzeStockTool(), handleAnalyzeStock(a.ReportService, a.Logger))
	s.AddTool(createGeneratePortfolioTool(), handleGeneratePortfolio(a.ReportService, a.Logger))
	s.AddTool(createGeneratePortfolioReportTool(), handleGeneratePortfolioReport(a.ReportService, a.Logger))
	s.AddTool(createSearchStocksTool(), handleSearchStocks())
}

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the stockbrief server version and status. Use this to verify connectivity."),
	)
}

// createAnalyzeStockTool returns the analyze_stock tool definition
func createAnalyzeStockTool() mcp.Tool {
	return mcp.NewTool("analyze_stock",
		mcp.WithDescription("Write a research report for one Korean-listed instrument: latest close, fundamentals, technicals, news, risks and an investment opinion, with web citations."),
		mcp.WithString("stock_name",
			mcp.Required(),
			mcp.Description("Instrument name (e.g., '삼성전자')"),
		),
		mcp.WithString("stock_ticker",
			mcp.Required(),
			mcp.Description("Six digit KRX code (e.g., '005930'), optionally with an exchange suffix"),
		),
	)
}

// createGeneratePortfolioTool returns the generate_portfolio tool definition
func createGeneratePortfolioTool() mcp.Tool {
	return mcp.NewTool("generate_portfolio",
		mcp.WithDescription("Compose a model portfolio for a risk level and summarise it. Cash is excluded and holdings are sorted by weight."),
		mcp.WithString("model",
			mcp.Description("Portfolio model (default: "+models.DefaultModel+")"),
			mcp.Enum(models.KnownModels...),
		),
		mcp.WithNumber("risk_level",
			mcp.Description("Risk level 1-10 (default: 6)"),
		),
	)
}

// createGeneratePortfolioReportTool returns the generate_portfolio_report tool definition
func createGeneratePortfolioReportTool() mcp.Tool {
	return mcp.NewTool("generate_portfolio_report",
		mcp.WithDescription("Compose a model portfolio, analyse every holding and write the PDF report. Slow: one language-model request per holding."),
		mcp.WithString("model",
			mcp.Description("Portfolio model (default: "+models.DefaultModel+")"),
			mcp.Enum(models.KnownModels...),
		),
		mcp.WithNumber("risk_level",
			mcp.Description("Risk level 1-10 (default: 6)"),
		),
	)
}

// createSearchStocksTool returns the search_stocks tool definition
func createSearchStocksTool() mcp.Tool {
	return mcp.NewTool("search_stocks",
		mcp.WithDescription("Search the sample instrument list by name (case-insensitive substring). An empty query returns every entry."),
		mcp.WithString("query",
			mcp.Description("Name fragment (e.g., '삼성')"),
		),
	)
}
