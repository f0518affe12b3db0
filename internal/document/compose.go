package document

import (
	"strings"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// Document is the full report, independent of any output format.
type Document struct {
	Entries []models.PortfolioEntry
	Summary string
	Pages   []Page
	Skipped []string // instruments left out for lack of content
}

// Page is the analysis of one instrument.
type Page struct {
	Name      string
	Ticker    string
	Sections  []Section
	Citations []models.Citation
}

// Compose builds the document model. Reports whose content is blank add no
// page and are listed in Skipped instead.
func Compose(entries []models.PortfolioEntry, summary models.PortfolioSummary, reports []models.StockReport) Document {
	doc := Document{
		Entries: entries,
		Summary: strings.TrimSpace(summary.Text),
	}

	for _, r := range reports {
		if strings.TrimSpace(r.Content) == "" {
			doc.Skipped = append(doc.Skipped, r.Name)
			continue
		}
		doc.Pages = append(doc.Pages, Page{
			Name:      r.Name,
			Ticker:    r.Ticker,
			Sections:  ParseSections(LinkCitations(r.Content, r.Citations)),
			Citations: CitationList(r.Citations),
		})
	}

	return doc
}
