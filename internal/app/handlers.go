package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("stockbrief MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleAnalyzeStock implements the analyze_stock tool
func handleAnalyzeStock(reports interfaces.ReportService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("stock_name")
		if err != nil || strings.TrimSpace(name) == "" {
			return errorResult("Error: stock_name parameter is required"), nil
		}
		ticker, err := request.RequireString("stock_ticker")
		if err != nil || strings.TrimSpace(ticker) == "" {
			return errorResult("Error: stock_ticker parameter is required"), nil
		}

		report := reports.Analyze(ctx, strings.TrimSpace(name), strings.TrimSpace(ticker))
		if report.Failure != nil {
			logger.Warn().Str("stock", name).Str("reason", string(report.Failure.Reason)).Msg("analyze_stock returned a placeholder")
		}
		return textResult(FormatStockReport(report)), nil
	}
}

// handleGeneratePortfolio implements the generate_portfolio tool
func handleGeneratePortfolio(reports interfaces.ReportService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := allocationRequest(request)

		overview, err := reports.Overview(ctx, req)
		if err != nil {
			logger.Error().Err(err).Str("model", req.Model).Msg("Portfolio composition failed")
			return errorResult(fmt.Sprintf("Portfolio error: %v", err)), nil
		}
		return textResult(FormatOverview(overview)), nil
	}
}

// handleGeneratePortfolioReport implements the generate_portfolio_report tool
func handleGeneratePortfolioReport(reports interfaces.ReportService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := allocationRequest(request)

		report, err := reports.Generate(ctx, req, "")
		if err != nil {
			logger.Error().Err(err).Str("model", req.Model).Msg("Report generation failed")
			return errorResult(fmt.Sprintf("Report generation error: %v", err)), nil
		}
		return textResult(FormatGeneratedReport(report)), nil
	}
}

// handleSearchStocks implements the search_stocks tool
func handleSearchStocks() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		matches := models.SearchStocks(models.SampleStocks, request.GetString("query", ""))
		if len(matches) == 0 {
			return textResult("No matching stocks."), nil
		}

		var sb strings.Builder
		for _, s := range matches {
			fmt.Fprintf(&sb, "%s (%s)\n", s.Name, s.Ticker)
		}
		return textResult(sb.String()), nil
	}
}

// allocationRequest reads model and risk_level, applying the defaults.
func allocationRequest(request mcp.CallToolRequest) models.AllocationRequest {
	req := models.AllocationRequest{
		Model:     strings.TrimSpace(request.GetString("model", "")),
		RiskLevel: request.GetInt("risk_level", 0),
	}
	return req.WithDefaults()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
