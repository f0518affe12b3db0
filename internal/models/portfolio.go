package models

import (
	"strings"
)

// Defaults applied when a portfolio request omits its parameters.
const (
	DefaultModel     = "STOCK_ETF"
	DefaultRiskLevel = 6
)

// Model variants understood by the allocation source.
var KnownModels = []string{
	"ETF",            // retirement pension
	"ETF_TQ",         // retirement pension, quant tilt
	"STOCK_ETF",      // domestic listed
	"STOCK_ETF_TQ",   // domestic listed, quant tilt
	"STOCK_ETF_TEST", // testbed, domestic listed
	"ETF_TEST",       // testbed, ETF only
}

// AllocationRequest asks the allocation source for a composition.
type AllocationRequest struct {
	Model     string  `json:"model"`
	RiskLevel int     `json:"risk_level"`
	Amount    float64 `json:"amount,omitempty"` // zero means unspecified
}

// WithDefaults fills in the default model and risk level.
func (r AllocationRequest) WithDefaults() AllocationRequest {
	if strings.TrimSpace(r.Model) == "" {
		r.Model = DefaultModel
	}
	if r.RiskLevel == 0 {
		r.RiskLevel = DefaultRiskLevel
	}
	return r
}

// AllocationRow is one raw row returned by the allocation source.
type AllocationRow struct {
	Code   string  `json:"code" toml:"code"`
	Weight float64 `json:"weight" toml:"weight"`
}

// IsCash reports whether the row is the synthetic cash holding.
func (r AllocationRow) IsCash() bool {
	code := strings.TrimSpace(r.Code)
	return code == "현금" || strings.EqualFold(code, "CASH")
}

// PortfolioEntry is one instrument of a composed portfolio. Weights are
// fractions and are not renormalised after cash is removed.
type PortfolioEntry struct {
	Name   string  `json:"name"`
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
	Sector string  `json:"sector"`
}

// TotalWeight returns the sum of entry weights
func TotalWeight(entries []PortfolioEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Weight
	}
	return total
}
