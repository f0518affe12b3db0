package modelbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/models"
)

const testBook = `
[[stocks]]
code = "005930"
name = "삼성전자"
sector = "반도체"

[[stocks]]
code = "000660"
name = "SK하이닉스"
sector = "반도체"

[[portfolios]]
model = "STOCK_ETF"
risk_level = 6

  [[portfolios.holdings]]
  code = "005930"
  weight = 0.4

  [[portfolios.holdings]]
  code = "현금"
  weight = 0.1

[[portfolios]]
model = "ETF"
risk_level = 3

  [[portfolios.holdings]]
  code = "000660"
  weight = 1.0
`

func TestParse_AllocationsDefaults(t *testing.T) {
	book, err := Parse(common.NewSilentLogger(), []byte(testBook))
	require.NoError(t, err)

	rows, err := book.Allocations(context.Background(), models.AllocationRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "005930", rows[0].Code)
	assert.True(t, rows[1].IsCash())
}

func TestAllocations_ModelCaseInsensitive(t *testing.T) {
	book, err := Parse(common.NewSilentLogger(), []byte(testBook))
	require.NoError(t, err)

	rows, err := book.Allocations(context.Background(), models.AllocationRequest{Model: "etf", RiskLevel: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Weight)
}

func TestAllocations_Unknown(t *testing.T) {
	book, err := Parse(common.NewSilentLogger(), []byte(testBook))
	require.NoError(t, err)

	_, err = book.Allocations(context.Background(), models.AllocationRequest{Model: "ETF_TQ", RiskLevel: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ETF_TQ")
}

func TestAllocations_ReturnsCopy(t *testing.T) {
	book, err := Parse(common.NewSilentLogger(), []byte(testBook))
	require.NoError(t, err)

	rows, err := book.Allocations(context.Background(), models.AllocationRequest{})
	require.NoError(t, err)
	rows[0].Weight = 99

	again, err := book.Allocations(context.Background(), models.AllocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0.4, again[0].Weight)
}

func TestLookup(t *testing.T) {
	book, err := Parse(common.NewSilentLogger(), []byte(testBook))
	require.NoError(t, err)

	name, sector, ok := book.Lookup("000660")
	assert.True(t, ok)
	assert.Equal(t, "SK하이닉스", name)
	assert.Equal(t, "반도체", sector)

	_, _, ok = book.Lookup("999999")
	assert.False(t, ok)
}

func TestParse_RejectsStockWithoutCode(t *testing.T) {
	_, err := Parse(common.NewSilentLogger(), []byte("[[stocks]]\nname = \"x\"\n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.toml")
	require.NoError(t, os.WriteFile(path, []byte(testBook), 0644))

	book, err := Load(common.NewSilentLogger(), path)
	require.NoError(t, err)
	_, _, ok := book.Lookup("005930")
	assert.True(t, ok)

	_, err = Load(common.NewSilentLogger(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
