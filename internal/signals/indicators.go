// Package signals computes technical indicators over daily bars. Bars are
// ordered newest first, matching the EODHD default.
package signals

import (
	"math"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// TradingDaysPerYear bounds the 52-week range.
const TradingDaysPerYear = 252

// SMA calculates the simple moving average of the newest period closes.
func SMA(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// RSI calculates the Relative Strength Index over period day-to-day changes.
func RSI(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 50 // Neutral default
	}

	var gains, losses float64
	for i := 0; i < period; i++ {
		change := bars[i].Close - bars[i+1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if gains == 0 && losses == 0 {
		return 50
	}
	if losses == 0 {
		return 100
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - (100 / (1 + rs))
}

// High52Week returns the highest high of the last year of bars. Bars without
// a high contribute their close.
func High52Week(bars []models.EODBar) float64 {
	period := min(len(bars), TradingDaysPerYear)

	high := 0.0
	for i := 0; i < period; i++ {
		if v := barHigh(bars[i]); v > high {
			high = v
		}
	}
	return high
}

// Low52Week returns the lowest low of the last year of bars, or zero for none.
func Low52Week(bars []models.EODBar) float64 {
	period := min(len(bars), TradingDaysPerYear)

	low := math.MaxFloat64
	for i := 0; i < period; i++ {
		if v := barLow(bars[i]); v > 0 && v < low {
			low = v
		}
	}
	if low == math.MaxFloat64 {
		return 0
	}
	return low
}

func barHigh(b models.EODBar) float64 {
	if b.High > 0 {
		return b.High
	}
	return b.Close
}

func barLow(b models.EODBar) float64 {
	if b.Low > 0 {
		return b.Low
	}
	return b.Close
}

// DetectCrossover reports whether the short average crossed the long one on
// the newest bar: "golden_cross", "death_cross" or "none".
func DetectCrossover(bars []models.EODBar, shortPeriod, longPeriod int) string {
	if len(bars) < longPeriod+1 {
		return "none"
	}

	shortSMA := SMA(bars, shortPeriod)
	longSMA := SMA(bars, longPeriod)
	prevShortSMA := SMA(bars[1:], shortPeriod)
	prevLongSMA := SMA(bars[1:], longPeriod)

	if prevShortSMA <= prevLongSMA && shortSMA > longSMA {
		return "golden_cross"
	}
	if prevShortSMA >= prevLongSMA && shortSMA < longSMA {
		return "death_cross"
	}
	return "none"
}

// ClassifyRSI classifies an RSI value.
func ClassifyRSI(rsi float64) string {
	if rsi >= 70 {
		return "overbought"
	}
	if rsi <= 30 {
		return "oversold"
	}
	return "neutral"
}

// DetermineTrend classifies the trend from the price and three averages of
// increasing length. A missing average reads as sideways.
func DetermineTrend(price, short, mid, long float64) models.Trend {
	if short == 0 || mid == 0 || long == 0 {
		return models.TrendSideways
	}
	if price > long && short > mid {
		return models.TrendUp
	}
	if price < long && short < mid {
		return models.TrendDown
	}
	return models.TrendSideways
}
