package document

import "fmt"

// Labels holds the fixed strings printed in the report.
type Labels struct {
	ReportTitle        string `toml:"report_title"`
	CompositionHeading string `toml:"composition_heading"`
	ColumnName         string `toml:"column_name"`
	ColumnTicker       string `toml:"column_ticker"`
	ColumnWeight       string `toml:"column_weight"`
	ColumnSector       string `toml:"column_sector"`
	SummaryHeading     string `toml:"summary_heading"`
	StockTitleFormat   string `toml:"stock_title_format"` // %s is the instrument name
	CitationsHeading   string `toml:"citations_heading"`
}

// DefaultLabels are the Korean labels.
func DefaultLabels() Labels {
	return Labels{
		ReportTitle:        "포트폴리오 요약 및 분석",
		CompositionHeading: "포트폴리오 구성",
		ColumnName:         "종목 이름",
		ColumnTicker:       "종목 코드",
		ColumnWeight:       "구성 비율",
		ColumnSector:       "분류",
		SummaryHeading:     "포트폴리오 종합 평가",
		StockTitleFormat:   "%s 상세 주식 분석 보고서",
		CitationsHeading:   "참고 자료 (Citations)",
	}
}

// merge fills empty fields from the defaults.
func (l Labels) merge(def Labels) Labels {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&l.ReportTitle, def.ReportTitle)
	fill(&l.CompositionHeading, def.CompositionHeading)
	fill(&l.ColumnName, def.ColumnName)
	fill(&l.ColumnTicker, def.ColumnTicker)
	fill(&l.ColumnWeight, def.ColumnWeight)
	fill(&l.ColumnSector, def.ColumnSector)
	fill(&l.SummaryHeading, def.SummaryHeading)
	fill(&l.StockTitleFormat, def.StockTitleFormat)
	fill(&l.CitationsHeading, def.CitationsHeading)
	return l
}

// StockTitle is the page heading for an instrument.
func (l Labels) StockTitle(name string) string {
	return fmt.Sprintf(l.StockTitleFormat, name)
}
