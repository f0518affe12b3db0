package signals

import (
	"sort"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// MinBars is the shortest history a snapshot is computed from.
const MinBars = 20

// Snapshot computes the indicator set for bars. Zero-close bars are dropped
// and the rest sorted newest first; nil is returned below MinBars.
func Snapshot(bars []models.EODBar) *models.Technicals {
	clean := make([]models.EODBar, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 {
			clean = append(clean, b)
		}
	}
	if len(clean) < MinBars {
		return nil
	}
	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.After(clean[j].Date)
	})

	t := &models.Technicals{
		AsOf:    clean[0].Date,
		Bars:    len(clean),
		Close:   clean[0].Close,
		SMA20:   SMA(clean, 20),
		SMA60:   SMA(clean, 60),
		SMA120:  SMA(clean, 120),
		RSI14:   RSI(clean, 14),
		High52W: High52Week(clean),
		Low52W:  Low52Week(clean),
		Cross:   DetectCrossover(clean, 20, 60),
	}
	t.Trend = DetermineTrend(t.Close, t.SMA20, t.SMA60, t.SMA120)
	return t
}
