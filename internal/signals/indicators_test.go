package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/models"
)

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		bars     []models.EODBar
		period   int
		expected float64
	}{
		{
			name:     "simple 3-day SMA",
			bars:     generateBars([]float64{10, 20, 30}),
			period:   3,
			expected: 20.0,
		},
		{
			name:     "uses the newest bars only",
			bars:     generateBars([]float64{10, 20, 30, 40, 50}),
			period:   2,
			expected: 15.0,
		},
		{
			name:     "insufficient data",
			bars:     generateBars([]float64{10, 20}),
			period:   5,
			expected: 0.0,
		},
		{
			name:     "zero period",
			bars:     generateBars([]float64{10, 20}),
			period:   0,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SMA(tt.bars, tt.period)
			assert.InDelta(t, tt.expected, result, 0.01)
		})
	}
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		bars   []models.EODBar
		period int
		minRSI float64
		maxRSI float64
	}{
		{
			name:   "uptrend should have high RSI",
			bars:   generateTrendBars(50, 1.0, 20),
			period: 14,
			minRSI: 60,
			maxRSI: 100,
		},
		{
			name:   "downtrend should have low RSI",
			bars:   generateTrendBars(50, -1.0, 20),
			period: 14,
			minRSI: 0,
			maxRSI: 40,
		},
		{
			name:   "flat market is neutral",
			bars:   generateBars([]float64{50, 50, 50, 50, 50}),
			period: 3,
			minRSI: 50,
			maxRSI: 50,
		},
		{
			name:   "insufficient data is neutral",
			bars:   generateBars([]float64{50}),
			period: 14,
			minRSI: 50,
			maxRSI: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RSI(tt.bars, tt.period)
			assert.GreaterOrEqual(t, result, tt.minRSI)
			assert.LessOrEqual(t, result, tt.maxRSI)
		})
	}
}

func TestClassifyRSI(t *testing.T) {
	tests := []struct {
		rsi      float64
		expected string
	}{
		{75, "overbought"},
		{70, "overbought"},
		{50, "neutral"},
		{30, "oversold"},
		{25, "oversold"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := ClassifyRSI(tt.rsi)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectCrossover(t *testing.T) {
	tests := []struct {
		name     string
		bars     []models.EODBar
		short    int
		long     int
		expected string
	}{
		{
			name:     "no crossover in flat market",
			bars:     generateBars([]float64{50, 50, 50, 50, 50, 50, 50, 50, 50, 50}),
			short:    3,
			long:     5,
			expected: "none",
		},
		{
			name:     "golden cross on the newest bar",
			bars:     generateBars([]float64{20, 5, 5, 5}),
			short:    2,
			long:     3,
			expected: "golden_cross",
		},
		{
			name:     "death cross on the newest bar",
			bars:     generateBars([]float64{1, 5, 5, 5}),
			short:    2,
			long:     3,
			expected: "death_cross",
		},
		{
			name:     "insufficient data",
			bars:     generateBars([]float64{20, 5, 5}),
			short:    2,
			long:     3,
			expected: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectCrossover(tt.bars, tt.short, tt.long)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetermineTrend(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		short    float64
		mid      float64
		long     float64
		expected models.Trend
	}{
		{
			name:     "up - price above long and short above mid",
			price:    110,
			short:    105,
			mid:      100,
			long:     90,
			expected: models.TrendUp,
		},
		{
			name:     "down - price below long and short below mid",
			price:    80,
			short:    85,
			mid:      90,
			long:     100,
			expected: models.TrendDown,
		},
		{
			name:     "sideways - mixed signals",
			price:    95,
			short:    90,
			mid:      100,
			long:     90,
			expected: models.TrendSideways,
		},
		{
			name:     "sideways - long average missing",
			price:    110,
			short:    105,
			mid:      100,
			long:     0,
			expected: models.TrendSideways,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetermineTrend(tt.price, tt.short, tt.mid, tt.long)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHigh52Week_Low52Week(t *testing.T) {
	assert.Equal(t, 0.0, High52Week(nil))
	assert.Equal(t, 0.0, Low52Week(nil))

	bars := generateBars([]float64{100, 120, 90})
	assert.Equal(t, 120.5, High52Week(bars))
	assert.Equal(t, 89.5, Low52Week(bars))

	// bars without high/low fall back to the close
	bars = generateTrendBars(100, 1, 5)
	assert.Equal(t, 100.0, High52Week(bars))
	assert.Equal(t, 96.0, Low52Week(bars))
}

func TestHigh52Week_IgnoresBarsOlderThanAYear(t *testing.T) {
	bars := generateTrendBars(100, 0, TradingDaysPerYear+10)
	bars[len(bars)-1].Close = 500

	assert.Equal(t, 100.0, High52Week(bars))
}

func TestSnapshot_Uptrend(t *testing.T) {
	bars := generateTrendBars(200, 1, 130)

	s := Snapshot(bars)
	require.NotNil(t, s)

	assert.Equal(t, 130, s.Bars)
	assert.Equal(t, 200.0, s.Close)
	assert.InDelta(t, 190.5, s.SMA20, 0.001)
	assert.InDelta(t, 170.5, s.SMA60, 0.001)
	assert.InDelta(t, 140.5, s.SMA120, 0.001)
	assert.Equal(t, 100.0, s.RSI14)
	assert.Equal(t, 200.0, s.High52W)
	assert.Equal(t, 71.0, s.Low52W)
	assert.Equal(t, models.TrendUp, s.Trend)
	assert.Equal(t, "none", s.Cross)
	assert.Equal(t, bars[0].Date, s.AsOf)
}

func TestSnapshot_SortsAscendingInput(t *testing.T) {
	bars := generateTrendBars(200, 1, 130)
	asc := make([]models.EODBar, len(bars))
	for i, b := range bars {
		asc[len(bars)-1-i] = b
	}

	assert.Equal(t, Snapshot(bars), Snapshot(asc))
}

func TestSnapshot_ShortHistory(t *testing.T) {
	assert.Nil(t, Snapshot(generateTrendBars(100, 1, MinBars-1)))

	// zero closes do not count towards the minimum
	bars := generateTrendBars(100, 1, MinBars)
	bars[5].Close = 0
	assert.Nil(t, Snapshot(bars))

	s := Snapshot(generateTrendBars(100, 1, 30))
	require.NotNil(t, s)
	assert.Zero(t, s.SMA60)
	assert.Zero(t, s.SMA120)
	assert.Equal(t, models.TrendSideways, s.Trend)
}

// Helper functions

var baseDate = time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)

func generateBars(closes []float64) []models.EODBar {
	bars := make([]models.EODBar, len(closes))
	for i, close := range closes {
		bars[i] = models.EODBar{
			Date:     baseDate.AddDate(0, 0, -i),
			Open:     close - 0.5,
			High:     close + 0.5,
			Low:      close - 0.5,
			Close:    close,
			AdjClose: close,
			Volume:   1000000,
		}
	}
	return bars
}

func generateTrendBars(startPrice, dailyChange float64, days int) []models.EODBar {
	bars := make([]models.EODBar, days)
	price := startPrice
	for i := 0; i < days; i++ {
		bars[i] = models.EODBar{
			Date:     baseDate.AddDate(0, 0, -i),
			Close:    price,
			AdjClose: price,
			Volume:   1000000,
		}
		price -= dailyChange // Going back in time
	}
	return bars
}
