package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/models"
)

func TestCompose_SkipsBlankReports(t *testing.T) {
	entries := []models.PortfolioEntry{{Name: "A", Ticker: "000001", Weight: 0.6}}
	reports := []models.StockReport{
		{Name: "A", Ticker: "000001", Content: "lead [1]\n\n## Section\nbody", Citations: []models.Citation{
			{Index: 1, Title: "source", URL: "http://x"},
			{Index: 2},
		}},
		{Name: "B", Ticker: "000002", Content: "  \n\t"},
		{Name: "C", Ticker: "000003", Content: ""},
	}

	doc := Compose(entries, models.PortfolioSummary{Text: " summary \n"}, reports)

	assert.Equal(t, "summary", doc.Summary)
	assert.Equal(t, []string{"B", "C"}, doc.Skipped)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, "A", page.Name)
	require.Len(t, page.Sections, 2)
	assert.Equal(t, "lead [[1](http://x)]", page.Sections[0].Body)
	assert.Equal(t, []models.Citation{{Index: 1, Title: "source", URL: "http://x"}}, page.Citations)
}

func TestCompose_PageCountMatchesNonBlankReports(t *testing.T) {
	contents := []string{"a", "", "b", " ", "c"}
	var reports []models.StockReport
	for _, c := range contents {
		reports = append(reports, models.StockReport{Name: c, Content: c})
	}

	doc := Compose(nil, models.PortfolioSummary{}, reports)
	assert.Len(t, doc.Pages, 3)
	assert.Len(t, doc.Skipped, 2)
}

func TestLabels_MergeAndTitle(t *testing.T) {
	l := Labels{ReportTitle: "Portfolio"}.merge(DefaultLabels())

	assert.Equal(t, "Portfolio", l.ReportTitle)
	assert.Equal(t, DefaultLabels().ColumnName, l.ColumnName)
	assert.Equal(t, "삼성전자 상세 주식 분석 보고서", l.StockTitle("삼성전자"))
}
