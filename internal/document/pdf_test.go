package document

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/models"
)

var englishLabels = Labels{
	ReportTitle:        "Portfolio Summary",
	CompositionHeading: "Composition",
	ColumnName:         "Name",
	ColumnTicker:       "Ticker",
	ColumnWeight:       "Weight",
	ColumnSector:       "Sector",
	SummaryHeading:     "Evaluation",
	StockTitleFormat:   "%s Analysis",
	CitationsHeading:   "Citations",
}

func testEntries() []models.PortfolioEntry {
	return []models.PortfolioEntry{
		{Name: "Alpha", Ticker: "000001", Weight: 0.6, Sector: "Tech"},
		{Name: "Beta", Ticker: "000002", Weight: 0.3, Sector: "Auto"},
	}
}

func testReports() []models.StockReport {
	return []models.StockReport{
		{
			Name:    "Alpha",
			Ticker:  "000001",
			Content: "Alpha leads memory [1].\n\n## Fundamentals\n\nRevenue **grew** strongly.\n\n- margin up\n- debt down\n\n## Risks\nCurrency [2].",
			Citations: []models.Citation{
				{Index: 1, Title: "news.example", URL: "https://news.example/a"},
				{Index: 2, Title: "offline source"},
			},
		},
		{Name: "Beta", Ticker: "000002", Content: "   "},
	}
}

func newTestRenderer(opts ...RendererOption) *Renderer {
	base := []RendererOption{
		WithFonts(goregular.TTF, gobold.TTF),
		WithLabels(englishLabels),
		WithChart(false),
	}
	return NewRenderer(common.NewSilentLogger(), append(base, opts...)...)
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return r.NumPage()
}

func TestRender_BlankReportAddsNoPage(t *testing.T) {
	doc := Compose(testEntries(), models.PortfolioSummary{Text: "A balanced portfolio."}, testReports())

	data, err := newTestRenderer().Render(doc)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, 2, pageCount(t, data))
}

func TestRender_WithChart(t *testing.T) {
	doc := Compose(testEntries(), models.PortfolioSummary{Text: "summary"}, testReports()[:1])

	data, err := newTestRenderer(WithChart(true)).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount(t, data))
}

func TestRender_OnlyTitlePage(t *testing.T) {
	doc := Compose(testEntries(), models.PortfolioSummary{Text: "summary"}, nil)

	data, err := newTestRenderer().Render(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, data))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpt-report.pdf")
	doc := Compose(testEntries(), models.PortfolioSummary{Text: "summary"}, testReports())

	require.NoError(t, newTestRenderer().WriteFile(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount(t, data))
}

func TestWriteFile_FontMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	r := NewRenderer(common.NewSilentLogger(),
		WithFontFiles(filepath.Join(dir, "missing-regular.ttf"), filepath.Join(dir, "missing-bold.ttf")),
		WithChart(false),
	)

	err := r.WriteFile(Compose(testEntries(), models.PortfolioSummary{}, testReports()), path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFontMissing))
	assert.True(t, strings.Contains(err.Error(), "missing-regular.ttf"))
	assert.NoFileExists(t, path)
}

func TestWriteFile_FontFiles(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	bold := filepath.Join(dir, "bold.ttf")
	require.NoError(t, os.WriteFile(regular, goregular.TTF, 0644))
	require.NoError(t, os.WriteFile(bold, gobold.TTF, 0644))

	r := NewRenderer(common.NewSilentLogger(), WithFontFiles(regular, bold), WithLabels(englishLabels), WithChart(false))
	path := filepath.Join(dir, "out.pdf")
	require.NoError(t, r.WriteFile(Compose(testEntries(), models.PortfolioSummary{Text: "s"}, nil), path))
	assert.FileExists(t, path)
}

func TestWeightChart(t *testing.T) {
	png, err := WeightChart(testEntries(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = WeightChart([]models.PortfolioEntry{{Name: "zero", Weight: 0}}, nil)
	assert.Error(t, err)
}
