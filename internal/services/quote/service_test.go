package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

// mockEODHDClient answers single-day range queries from a date-keyed table
type mockEODHDClient struct {
	closes  map[string]float64
	errs    map[string]error
	symbols []string
	probes  []string
	cancel  func() // invoked after the first probe when set
}

func (m *mockEODHDClient) GetEOD(_ context.Context, ticker string, opts ...interfaces.EODOption) (*models.EODResponse, error) {
	params := &interfaces.EODParams{}
	for _, opt := range opts {
		opt(params)
	}
	key := params.From.Format("2006-01-02")
	m.symbols = append(m.symbols, ticker)
	m.probes = append(m.probes, key)
	if m.cancel != nil {
		m.cancel()
	}

	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if c, ok := m.closes[key]; ok {
		return &models.EODResponse{Data: []models.EODBar{{Date: params.From, Close: c}}}, nil
	}
	return &models.EODResponse{}, nil
}

var kst = time.FixedZone("KST", 9*60*60)

func TestLatestPrice_SameDay(t *testing.T) {
	m := &mockEODHDClient{closes: map[string]float64{"2025-03-28": 71000}}
	svc := NewService(m, "KO", common.NewSilentLogger())

	p := svc.LatestPrice(context.Background(), "005930", time.Date(2025, 3, 28, 15, 45, 0, 0, kst))

	assert.True(t, p.Available)
	assert.Equal(t, 71000.0, p.Value)
	assert.Equal(t, "005930", p.Ticker)
	assert.Equal(t, []string{"005930.KO"}, m.symbols)
}

func TestLatestPrice_SkipsWeekendAndErrors(t *testing.T) {
	m := &mockEODHDClient{
		closes: map[string]float64{"2025-03-27": 70500},
		errs:   map[string]error{"2025-03-28": errors.New("boom")},
	}
	svc := NewService(m, "KO", common.NewSilentLogger())

	// Sunday 2025-03-30 back to Thursday
	p := svc.LatestPrice(context.Background(), "005930", time.Date(2025, 3, 30, 9, 0, 0, 0, kst))

	assert.True(t, p.Available)
	assert.Equal(t, 70500.0, p.Value)
	assert.Equal(t, []string{"2025-03-30", "2025-03-29", "2025-03-28", "2025-03-27"}, m.probes)
}

func TestLatestPrice_NoDataWithinWindow(t *testing.T) {
	m := &mockEODHDClient{closes: map[string]float64{"2025-03-18": 69000}}
	svc := NewService(m, "KO", common.NewSilentLogger())

	p := svc.LatestPrice(context.Background(), "005930", time.Date(2025, 3, 28, 0, 0, 0, 0, kst))

	assert.False(t, p.Available)
	assert.Equal(t, models.PriceUnavailable, p.String())
	assert.Len(t, m.probes, LookbackDays)
	assert.Equal(t, "2025-03-19", m.probes[LookbackDays-1])
}

func TestLatestPrice_AllErrors(t *testing.T) {
	m := &mockEODHDClient{errs: map[string]error{}}
	for i := 0; i < LookbackDays; i++ {
		d := time.Date(2025, 3, 28-i, 0, 0, 0, 0, kst)
		m.errs[d.Format("2006-01-02")] = errors.New("unavailable")
	}
	svc := NewService(m, "KO", common.NewSilentLogger())

	p := svc.LatestPrice(context.Background(), "005930", time.Date(2025, 3, 28, 0, 0, 0, 0, kst))
	assert.False(t, p.Available)
}

func TestLatestPrice_CancelledStopsProbing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &mockEODHDClient{cancel: cancel}
	svc := NewService(m, "KO", common.NewSilentLogger())

	p := svc.LatestPrice(ctx, "005930", time.Date(2025, 3, 28, 0, 0, 0, 0, kst))

	assert.False(t, p.Available)
	assert.Len(t, m.probes, 1)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "005930.KO", Symbol("005930", "KO"))
	assert.Equal(t, "035720.KQ", Symbol("035720.KQ", "KO"))
	assert.Equal(t, "005930", Symbol(" 005930 ", ""))
}

func TestLatestPrice_NoClient(t *testing.T) {
	svc := NewService(nil, "KO", common.NewSilentLogger())

	p := svc.LatestPrice(context.Background(), "005930", time.Date(2025, 3, 28, 0, 0, 0, 0, kst))
	assert.Equal(t, models.PriceUnavailable, p.String())
}

// historyClient returns a fixed series for any range query
type historyClient struct {
	bars   []models.EODBar
	err    error
	params interfaces.EODParams
}

func (h *historyClient) GetEOD(_ context.Context, _ string, opts ...interfaces.EODOption) (*models.EODResponse, error) {
	for _, opt := range opts {
		opt(&h.params)
	}
	if h.err != nil {
		return nil, h.err
	}
	return &models.EODResponse{Data: h.bars}, nil
}

func risingBars(n int, newest time.Time) []models.EODBar {
	bars := make([]models.EODBar, n)
	for i := range bars {
		bars[i] = models.EODBar{Date: newest.AddDate(0, 0, -i), Close: float64(70000 - i*100)}
	}
	return bars
}

func TestTechnicals_Snapshot(t *testing.T) {
	ref := time.Date(2025, 3, 28, 15, 45, 0, 0, kst)
	h := &historyClient{bars: risingBars(150, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC))}
	svc := NewService(h, "KO", common.NewSilentLogger())

	tech := svc.Technicals(context.Background(), "005930", ref)

	if assert.NotNil(t, tech) {
		assert.Equal(t, 150, tech.Bars)
		assert.Equal(t, 70000.0, tech.Close)
		assert.Equal(t, models.TrendUp, tech.Trend)
	}
	assert.Equal(t, "2025-03-28", h.params.To.Format("2006-01-02"))
	assert.Equal(t, time.Date(2025, 3, 28, 0, 0, 0, 0, kst).AddDate(0, 0, -HistoryDays), h.params.From)
}

func TestTechnicals_Unavailable(t *testing.T) {
	ref := time.Date(2025, 3, 28, 0, 0, 0, 0, kst)

	assert.Nil(t, NewService(nil, "KO", common.NewSilentLogger()).Technicals(context.Background(), "005930", ref))

	failing := &historyClient{err: errors.New("timeout")}
	assert.Nil(t, NewService(failing, "KO", common.NewSilentLogger()).Technicals(context.Background(), "005930", ref))

	short := &historyClient{bars: risingBars(5, ref)}
	assert.Nil(t, NewService(short, "KO", common.NewSilentLogger()).Technicals(context.Background(), "005930", ref))
}
