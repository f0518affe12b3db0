package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/models"
)

type stubSource struct {
	rows []models.AllocationRow
	err  error
	got  models.AllocationRequest
}

func (s *stubSource) Allocations(_ context.Context, req models.AllocationRequest) ([]models.AllocationRow, error) {
	s.got = req
	return s.rows, s.err
}

type stubDirectory map[string][2]string

func (d stubDirectory) Lookup(code string) (string, string, bool) {
	v, ok := d[code]
	return v[0], v[1], ok
}

func TestCompose_FiltersCashAndSorts(t *testing.T) {
	src := &stubSource{rows: []models.AllocationRow{
		{Code: "035420", Weight: 0.1},
		{Code: "현금", Weight: 0.05},
		{Code: "005930", Weight: 0.35},
		{Code: "CASH", Weight: 0.02},
		{Code: "000660", Weight: 0.2},
	}}
	dir := stubDirectory{
		"005930": {"삼성전자", "반도체"},
		"000660": {"SK하이닉스", "반도체"},
	}
	svc := NewService(src, dir, common.NewSilentLogger())

	entries, err := svc.Compose(context.Background(), models.AllocationRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultModel, src.got.Model)
	assert.Equal(t, models.DefaultRiskLevel, src.got.RiskLevel)

	require.Len(t, entries, 3)
	assert.Equal(t, models.PortfolioEntry{Name: "삼성전자", Ticker: "005930", Weight: 0.35, Sector: "반도체"}, entries[0])
	assert.Equal(t, "SK하이닉스", entries[1].Name)
	assert.Equal(t, models.PortfolioEntry{Name: "035420", Ticker: "035420", Weight: 0.1}, entries[2])
	for _, e := range entries {
		assert.NotEqual(t, "현금", e.Ticker)
	}
	assert.InDelta(t, 0.65, models.TotalWeight(entries), 1e-9)
}

func TestCompose_NilDirectory(t *testing.T) {
	src := &stubSource{rows: []models.AllocationRow{{Code: "005930", Weight: 1}}}
	svc := NewService(src, nil, common.NewSilentLogger())

	entries, err := svc.Compose(context.Background(), models.AllocationRequest{Model: "ETF", RiskLevel: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "005930", entries[0].Name)
	assert.Equal(t, "ETF", src.got.Model)
}

func TestCompose_SourceError(t *testing.T) {
	src := &stubSource{err: errors.New("upstream down")}
	svc := NewService(src, nil, common.NewSilentLogger())

	_, err := svc.Compose(context.Background(), models.AllocationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}
