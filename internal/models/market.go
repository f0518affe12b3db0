// Package models defines data structures for stockbrief
package models

import (
	"encoding/json"
	"time"
)

// PriceUnavailable is the sentinel reported when no recent close could be found.
const PriceUnavailable = "N/A"

// EODBar represents a single day's price data
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// EODResponse represents the EODHD API response
type EODResponse struct {
	Data []EODBar `json:"data"`
}

// Price is the latest known close for a ticker. When Available is false the
// value is unknown, not zero.
type Price struct {
	Ticker    string
	Value     float64
	Date      time.Time
	Available bool
}

// UnavailablePrice returns the sentinel price for ticker.
func UnavailablePrice(ticker string) Price {
	return Price{Ticker: ticker}
}

// String renders the close, or the N/A sentinel.
func (p Price) String() string {
	if !p.Available {
		return PriceUnavailable
	}
	b, _ := json.Marshal(p.Value)
	return string(b)
}

// MarshalJSON encodes the price as a bare number, or "N/A" when unavailable.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Available {
		return json.Marshal(PriceUnavailable)
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts either a number or the "N/A" sentinel.
func (p *Price) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		p.Value = num
		p.Available = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p.Value = 0
	p.Available = false
	return nil
}

// Trend classifies the moving-average structure of a daily series.
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

// Technicals is an indicator snapshot over recent daily bars. Averages that
// need more history than was available are zero.
type Technicals struct {
	AsOf    time.Time
	Bars    int
	Close   float64
	SMA20   float64
	SMA60   float64
	SMA120  float64
	RSI14   float64
	High52W float64
	Low52W  float64
	Trend   Trend
	Cross   string // golden_cross, death_cross or none, for SMA20 over SMA60
}
