package models

import (
	"strings"
)

// StockListing is a searchable instrument.
type StockListing struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// SampleStocks is the static list served by the search endpoint.
var SampleStocks = []StockListing{
	{Name: "삼성전자", Ticker: "005930"},
	{Name: "SK하이닉스", Ticker: "000660"},
	{Name: "LG전자", Ticker: "066570"},
	{Name: "현대차", Ticker: "005380"},
	{Name: "NAVER", Ticker: "035420"},
	{Name: "카카오", Ticker: "035720"},
}

// SearchStocks returns the listings whose name contains query, case-insensitively.
// An empty query returns every listing.
func SearchStocks(listings []StockListing, query string) []StockListing {
	if query == "" {
		out := make([]StockListing, len(listings))
		copy(out, listings)
		return out
	}
	q := strings.ToLower(query)
	out := make([]StockListing, 0)
	for _, s := range listings {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}
