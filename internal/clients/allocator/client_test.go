package allocator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockbrief/internal/models"
)

func TestAllocations_ExtractsRows(t *testing.T) {
	var got allocationPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"isuSrtCd":"005930","weight":0.35},
			{"isuSrtCd":"현금","weight":"0.05"},
			{"isuSrtCd":660,"weight":"0.2"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	rows, err := c.Allocations(context.Background(), models.AllocationRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultModel, got.Model)
	assert.Equal(t, models.DefaultRiskLevel, got.RiskLevel)

	require.Len(t, rows, 3)
	assert.Equal(t, models.AllocationRow{Code: "005930", Weight: 0.35}, rows[0])
	assert.True(t, rows[1].IsCash())
	assert.Equal(t, "000660", rows[2].Code)
	assert.InDelta(t, 0.2, rows[2].Weight, 1e-9)
}

func TestAllocations_CustomPathAndFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"holdings":[{"code":"035420","w":0.1}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRowsPath("$.result.holdings[*]"), WithFields("code", "w"))
	rows, err := c.Allocations(context.Background(), models.AllocationRequest{Model: "ETF", RiskLevel: 3})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "035420", rows[0].Code)
}

func TestAllocations_MissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"isuSrtCd":"005930"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Allocations(context.Background(), models.AllocationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestAllocations_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Allocations(context.Background(), models.AllocationRequest{Model: "NOPE"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "model not found", apiErr.Message)
}
