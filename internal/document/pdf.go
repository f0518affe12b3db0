package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/bobmcallan/stockbrief/internal/common"
)

// Default font locations, relative to the working directory.
const (
	DefaultRegularFont = "./Nanum_Gothic/NanumGothic-Regular.ttf"
	DefaultBoldFont    = "./Nanum_Gothic/NanumGothic-Bold.ttf"
)

// ErrFontMissing is returned when a configured font file cannot be found.
// No output is produced for that document.
var ErrFontMissing = errors.New("font file not found")

const (
	fontFamily = "report"
	chartImage = "weights"
)

var (
	linkColor  = [3]int{40, 89, 168}
	columnSize = [4]float64{80, 40, 30, 40}
)

// Renderer writes Documents as PDF.
type Renderer struct {
	regularPath  string
	boldPath     string
	regular      []byte
	bold         []byte
	labels       Labels
	includeChart bool
	logger       *common.Logger
}

// RendererOption configures the renderer
type RendererOption func(*Renderer)

// WithFontFiles sets the TTF paths read on every render
func WithFontFiles(regular, bold string) RendererOption {
	return func(r *Renderer) {
		if regular != "" {
			r.regularPath = regular
		}
		if bold != "" {
			r.boldPath = bold
		}
	}
}

// WithFonts supplies TTF data directly, bypassing the font files
func WithFonts(regular, bold []byte) RendererOption {
	return func(r *Renderer) {
		r.regular = regular
		r.bold = bold
	}
}

// WithLabels overrides the printed labels; empty fields keep the defaults
func WithLabels(labels Labels) RendererOption {
	return func(r *Renderer) {
		r.labels = labels.merge(DefaultLabels())
	}
}

// WithChart toggles the weight chart on the first page
func WithChart(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.includeChart = enabled
	}
}

// NewRenderer creates a renderer using the default font paths and labels
func NewRenderer(logger *common.Logger, opts ...RendererOption) *Renderer {
	r := &Renderer{
		regularPath:  DefaultRegularFont,
		boldPath:     DefaultBoldFont,
		labels:       DefaultLabels(),
		includeChart: true,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WriteFile renders doc to path. On failure nothing is written.
func (r *Renderer) WriteFile(doc Document, path string) error {
	data, err := r.Render(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		r.logger.Error().Str("path", path).Err(err).Msg("Failed to write report")
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	r.logger.Info().Str("path", path).Int("pages", 1+len(doc.Pages)).Msg("Report written")
	return nil
}

// Render produces the PDF bytes for doc.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	regular, bold, err := r.fonts()
	if err != nil {
		r.logger.Error().Err(err).Msg("Report aborted")
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(r.labels.ReportTitle, true)
	pdf.SetCreator("stockbrief", false)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", bold)
	if pdf.Err() {
		err := fmt.Errorf("failed to load fonts: %w", pdf.Error())
		r.logger.Error().Err(err).Msg("Report aborted")
		return nil, err
	}

	r.titlePage(pdf, doc, regular)
	for _, page := range doc.Pages {
		r.stockPage(pdf, page)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error().Err(err).Msg("Failed to render report")
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fonts() ([]byte, []byte, error) {
	regular, bold := r.regular, r.bold
	var err error
	if regular == nil {
		if regular, err = readFont(r.regularPath); err != nil {
			return nil, nil, err
		}
	}
	if bold == nil {
		if bold, err = readFont(r.boldPath); err != nil {
			return nil, nil, err
		}
	}
	return regular, bold, nil
}

func readFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFontMissing, path)
		}
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	return data, nil
}

func (r *Renderer) titlePage(pdf *fpdf.Fpdf, doc Document, regularTTF []byte) {
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 15, r.labels.ReportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 10, r.labels.CompositionHeading, "", 1, "", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "B", 11)
	headers := []string{r.labels.ColumnName, r.labels.ColumnTicker, r.labels.ColumnWeight, r.labels.ColumnSector}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(columnSize[i], 8, h, "1", ln, "C", false, 0, "")
	}

	pdf.SetFont(fontFamily, "", 10)
	for _, e := range doc.Entries {
		pdf.CellFormat(columnSize[0], 8, e.Name, "1", 0, "", false, 0, "")
		pdf.CellFormat(columnSize[1], 8, e.Ticker, "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnSize[2], 8, common.FormatWeight(e.Weight), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnSize[3], 8, e.Sector, "1", 1, "C", false, 0, "")
	}

	if r.includeChart && len(doc.Entries) > 0 {
		r.weightChart(pdf, doc, regularTTF)
	}

	pdf.Ln(10)
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 10, r.labels.SummaryHeading, "", 1, "", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, 7, doc.Summary, "", "", false)
}

func (r *Renderer) weightChart(pdf *fpdf.Fpdf, doc Document, regularTTF []byte) {
	png, err := WeightChart(doc.Entries, regularTTF)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Skipping weight chart")
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(chartImage, opts, bytes.NewReader(png))
	if pdf.Err() {
		r.logger.Warn().Err(pdf.Error()).Msg("Skipping weight chart")
		pdf.ClearError()
		return
	}

	const size = 80.0
	pageW, _ := pdf.GetPageSize()
	pdf.Ln(6)
	pdf.ImageOptions(chartImage, (pageW-size)/2, pdf.GetY(), size, size, true, opts, 0, "")
}

func (r *Renderer) stockPage(pdf *fpdf.Fpdf, page Page) {
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 15, r.labels.StockTitle(page.Name), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, s := range page.Sections {
		if !s.Lead {
			pdf.Ln(4)
			pdf.SetFont(fontFamily, "B", 14)
			pdf.MultiCell(0, 8, s.Title, "", "", false)
			pdf.Ln(2)
		}
		r.writeBody(pdf, s.Body)
		pdf.Ln(3)
	}

	if len(page.Citations) == 0 {
		return
	}

	pdf.Ln(8)
	pdf.SetFont(fontFamily, "B", 14)
	pdf.MultiCell(0, 8, r.labels.CitationsHeading, "", "", false)
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "", 10)
	for _, c := range page.Citations {
		label := fmt.Sprintf("[%d] %s", c.Index, c.Title)
		if c.URL != "" {
			pdf.SetTextColor(linkColor[0], linkColor[1], linkColor[2])
			pdf.WriteLinkString(6, label, c.URL)
			pdf.SetTextColor(0, 0, 0)
		} else {
			pdf.Write(6, label)
		}
		pdf.Ln(6)
	}
}

// writeBody renders a markdown section body with bold and link runs.
func (r *Renderer) writeBody(pdf *fpdf.Fpdf, body string) {
	const lineH = 7.0
	left, _, _, _ := pdf.GetMargins()

	for _, b := range ParseBlocks(body) {
		size := 11.0
		baseStyle := ""
		switch b.Kind {
		case BlockHeading:
			size = 12
			baseStyle = "B"
			pdf.Ln(1)
		case BlockListItem:
			pdf.SetX(left + 5*float64(b.Depth))
			pdf.SetFont(fontFamily, "", size)
			pdf.Write(lineH, b.Bullet+" ")
		case BlockCode:
			size = 10
		}

		if b.Kind == BlockParagraph && b.Depth > 0 {
			pdf.SetX(left + 5*float64(b.Depth))
		}

		for _, run := range b.Runs {
			style := baseStyle
			if run.Bold {
				style = "B"
			}
			pdf.SetFont(fontFamily, style, size)
			if run.URL != "" {
				pdf.SetTextColor(linkColor[0], linkColor[1], linkColor[2])
				pdf.WriteLinkString(lineH, run.Text, run.URL)
				pdf.SetTextColor(0, 0, 0)
				continue
			}
			pdf.Write(lineH, run.Text)
		}

		pdf.Ln(lineH)
		if b.Kind == BlockParagraph || b.Kind == BlockCode {
			pdf.Ln(1.5)
		}
	}

	pdf.SetFont(fontFamily, "", 11)
}
