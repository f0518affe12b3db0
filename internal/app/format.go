package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/models"
)

// FormatStockReport renders a stock report as markdown for MCP and terminal output.
func FormatStockReport(r models.StockReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (%s)\n\n", r.Name, r.Ticker)
	if r.LatestPrice.Available {
		fmt.Fprintf(&sb, "**최신 종가:** %s (%s)\n\n", common.FormatWon(r.LatestPrice.Value), r.LatestPrice.Date)
	} else {
		fmt.Fprintf(&sb, "**최신 종가:** %s\n\n", models.PriceUnavailable)
	}

	sb.WriteString(strings.TrimSpace(r.Content))
	sb.WriteString("\n")

	if len(r.Citations) > 0 {
		sb.WriteString("\n## 참고 자료\n\n")
		for _, c := range r.Citations {
			if c.URL != "" {
				fmt.Fprintf(&sb, "%d. [%s](%s)\n", c.Index, c.Title, c.URL)
			} else {
				fmt.Fprintf(&sb, "%d. %s\n", c.Index, c.Title)
			}
		}
	}

	if r.Failure != nil {
		fmt.Fprintf(&sb, "\n_failure: %s_\n", r.Failure.Reason)
	}
	return sb.String()
}

// FormatPortfolio renders portfolio entries as a markdown table.
func FormatPortfolio(req models.AllocationRequest, entries []models.PortfolioEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# 포트폴리오 구성 (%s, 위험 %d)\n\n", req.Model, req.RiskLevel)
	sb.WriteString("| 종목 이름 | 종목 코드 | 구성 비율 | 분류 |\n")
	sb.WriteString("|---|---|---:|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", e.Name, e.Ticker, common.FormatWeight(e.Weight), e.Sector)
	}
	fmt.Fprintf(&sb, "\n**합계:** %s\n", common.FormatWeight(models.TotalWeight(entries)))
	return sb.String()
}

// FormatOverview renders a portfolio with its summary.
func FormatOverview(o *models.PortfolioOverview) string {
	var sb strings.Builder
	sb.WriteString(FormatPortfolio(o.Request, o.Entries))
	sb.WriteString("\n## 포트폴리오 종합 평가\n\n")
	sb.WriteString(strings.TrimSpace(o.Summary.Text))
	sb.WriteString("\n")
	return sb.String()
}

// FormatGeneratedReport describes a finished report run.
func FormatGeneratedReport(r *models.PortfolioReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Report generated: %s\n\n", r.Filename)
	fmt.Fprintf(&sb, "Location: %s\n", r.Path)
	fmt.Fprintf(&sb, "Generated at: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Holdings: %d\n", len(r.Entries))

	var failed []string
	for _, s := range r.Reports {
		if s.Failure != nil {
			failed = append(failed, fmt.Sprintf("%s (%s)", s.Name, s.Failure.Reason))
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&sb, "Failed analyses: %s\n", strings.Join(failed, ", "))
	}
	return sb.String()
}
