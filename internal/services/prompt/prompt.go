// Package prompt builds the Korean prompts sent to the language model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/models"
	"github.com/bobmcallan/stockbrief/internal/signals"
)

// PriceClause is the sentence that tells the model the latest close, or that none is known.
func PriceClause(price models.Price) string {
	if !price.Available {
		return "최신 가격 정보는 제공되지 않았다."
	}
	return fmt.Sprintf("참고로 이 종목의 가장 최근 종가는 '%s'이다.", common.FormatWon(price.Value))
}

var trendLabels = map[models.Trend]string{
	models.TrendUp:       "상승",
	models.TrendDown:     "하락",
	models.TrendSideways: "횡보",
}

var rsiLabels = map[string]string{
	"overbought": "과매수",
	"oversold":   "과매도",
	"neutral":    "중립",
}

var crossLabels = map[string]string{
	"golden_cross": "최근 20일 이동평균이 60일 이동평균을 상향 돌파했다(골든크로스).",
	"death_cross":  "최근 20일 이동평균이 60일 이동평균을 하향 돌파했다(데드크로스).",
}

// TechnicalClause summarises the indicator snapshot, or is empty without one.
// Averages that could not be computed are left out.
func TechnicalClause(t *models.Technicals) string {
	if t == nil {
		return ""
	}

	parts := make([]string, 0, 6)
	for _, ma := range []struct {
		days  int
		value float64
	}{{20, t.SMA20}, {60, t.SMA60}, {120, t.SMA120}} {
		if ma.value > 0 {
			parts = append(parts, fmt.Sprintf("%d일 이동평균 %s", ma.days, common.FormatWon(ma.value)))
		}
	}
	parts = append(parts, fmt.Sprintf("RSI(14) %.1f(%s)", t.RSI14, rsiLabels[signals.ClassifyRSI(t.RSI14)]))
	if t.High52W > 0 && t.Low52W > 0 {
		parts = append(parts, fmt.Sprintf("52주 최고 %s / 최저 %s", common.FormatWon(t.High52W), common.FormatWon(t.Low52W)))
	}
	if label, ok := trendLabels[t.Trend]; ok {
		parts = append(parts, "추세 "+label)
	}

	clause := fmt.Sprintf("참고 기술 지표(%s 종가 기준): %s.", common.FormatDate(t.AsOf), strings.Join(parts, ", "))
	if cross, ok := crossLabels[t.Cross]; ok {
		clause += " " + cross
	}
	return clause
}

// StockPrompt is the per-instrument report request.
func StockPrompt(q models.StockQuery, today time.Time) string {
	day := common.FormatDate(today)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(티커: %s)에 대한 상세 주식 분석 보고서를 900자 내외로 제공해 줘. 말투는 ~이다 를 사용해\n\n", q.Name, q.Ticker)
	fmt.Fprintf(&sb, "**%s** 이 가격 정보를 반드시 리포트에 반영해줘.\n\n", PriceClause(q.Price))
	if clause := TechnicalClause(q.Technicals); clause != "" {
		fmt.Fprintf(&sb, "%s 기술적 흐름은 '기본적 분석'과 '가치 평가 요약'에서 짧게 참고만 해줘.\n\n", clause)
	}
	sb.WriteString("분석 시에는 '네이버 증권', '연합인포맥스', 'DART 공시'의 정보를 우선적으로 참고해 줘.\n\n")
	sb.WriteString("보고서는 다음 섹션에 따라 한국어로 구성하고 마크다운 형식으로 제공해 주고 각 섹션의 타이틀은 h2크기로 제공해. 타이틀 뒤에는 항상 계행이 들어가야돼.\n\n")
	sb.WriteString("다음 섹션을 제외한 내용은 넣지말고 표도 사용하지마.\n\n")
	sb.WriteString("종목에 대한 한문장 요약을 하돼, 타이틀을 넣지마\n\n")
	fmt.Fprintf(&sb, "모든 분석은 현재 시점(%s)까지 발표된 가장 최신 정보를 바탕으로 해야 한다. ", day)
	fmt.Fprintf(&sb, "특히 '최근 실적 및 뉴스' 섹션은 %s을 포함한 최근 시장 동향, 공시, 뉴스 기사를 최대한 반영하여 작성해 줘.\n\n", day)
	sb.WriteString("[답변]\n\n")
	for i, section := range ReportSections {
		fmt.Fprintf(&sb, "%d. **%s**\n\n[답변]\n\n", i+1, section)
	}
	return sb.String()
}

// ReportSections are the h2 sections every instrument report must contain.
var ReportSections = []string{
	"기본적 분석(Fundamental Analysis)",
	"최근 실적 및 뉴스(Recent Performance & News)",
	"성장 동력 및 미래 전망(Growth Drivers & Future Outlook)",
	"리스크 요인(Risk Factors)",
	"가치 평가 요약(Valuation Summary)",
}

// StockInstructions are the fund-manager system instructions for an instrument report.
func StockInstructions(name string) string {
	return fmt.Sprintf(`넌 지금부터 분기별로 투자포트폴리오를 구상하는 ai펀드 매니저야.
우선 한국 주식시장에서 거래중인 %s을 기별 포트폴리오에 편입시키기 위한 분석을 진행해줘.
기준은 다음과 같아:
    - 재무 건전성
    - 전반적인 시장 흐름
    - 향후 전망
이를 위해 해당 종목의 구성 및 해당 구성종목에 영향을 미치는 지수 혹은 시장성, 구성종목들의 1년치 재무분석을 포함해서 해당 종목 투자 전망을 제시해줘.
답변할 때는 반드시 단계별로 논리적으로 생각해줘.`, name)
}

// Composition renders entries as "name(12.34%)" joined by ", ".
func Composition(entries []models.PortfolioEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s(%s)", e.Name, common.FormatWeight(e.Weight))
	}
	return strings.Join(parts, ", ")
}

// PortfolioPrompt is the portfolio summary request.
func PortfolioPrompt(entries []models.PortfolioEntry) string {
	return "당신은 시니어 포트폴리오 매니저입니다.\n" +
		"다음과 같이 구성된 주식 포트폴리오에 대한 간결한 종합 평가를 작성해 주세요.\n\n" +
		"포트폴리오 구성: " + Composition(entries) + "\n\n" +
		"평가는 다음 내용을 포함해야 합니다:\n" +
		"1. 포트폴리오의 전반적인 특징 (예: 특정 섹터 집중도, 안정성, 성장 가능성 등)\n" +
		"2. 긍정적인 측면과 잠재적 리스크 (단, 최대한 긍정적으로 나오지만 리스크도 짧게나마 나오게)\n" +
		"3. 전체 내용을 3~4개의 문단으로 요약하고, 말투는 '~로 보입니다.' 또는 '~입니다.'와 같이 전문적인 분석가 톤을 사용해 주세요."
}

// PortfolioInstructions are the system instructions for the summary.
func PortfolioInstructions() string {
	return "당신은 시니어 포트폴리오 매니저입니다. 제공된 포트폴리오 구성에 대해 객관적인 시각으로 평가해주세요."
}
