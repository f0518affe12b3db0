// Package quote resolves the most recent close for an instrument
package quote

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
	"github.com/bobmcallan/stockbrief/internal/signals"
)

// LookbackDays is how many calendar days, starting at the reference date,
// are probed for a close.
const LookbackDays = 10

// HistoryDays is the calendar window fetched for the indicator snapshot,
// enough for a 120-day average and the 52-week range.
const HistoryDays = 400

// Service implements QuoteService on top of the EODHD end-of-day API.
type Service struct {
	eodhd    interfaces.EODHDClient
	exchange string
	logger   *common.Logger
}

// NewService creates a new quote service. Bare tickers are suffixed with exchange.
func NewService(eodhd interfaces.EODHDClient, exchange string, logger *common.Logger) *Service {
	return &Service{
		eodhd:    eodhd,
		exchange: exchange,
		logger:   logger,
	}
}

// Symbol maps a ticker onto the provider symbol ("005930" -> "005930.KO").
func Symbol(ticker, exchange string) string {
	ticker = strings.TrimSpace(ticker)
	if exchange == "" || strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + "." + exchange
}

// LatestPrice walks back one day at a time from ref and returns the first
// close found. Weekends, holidays and provider errors all read as "no data
// for that day"; after LookbackDays misses the N/A sentinel is returned.
func (s *Service) LatestPrice(ctx context.Context, ticker string, ref time.Time) models.Price {
	if s.eodhd == nil {
		s.logger.Warn().Str("ticker", ticker).Msg("Market data client not configured")
		return models.UnavailablePrice(ticker)
	}

	symbol := Symbol(ticker, s.exchange)
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	for offset := 0; offset < LookbackDays; offset++ {
		if ctx.Err() != nil {
			s.logger.Debug().Str("ticker", ticker).Msg("Price lookup cancelled")
			break
		}

		probe := day.AddDate(0, 0, -offset)
		resp, err := s.eodhd.GetEOD(ctx, symbol, interfaces.WithDateRange(probe, probe))
		if err != nil {
			s.logger.Debug().Str("ticker", ticker).Str("date", common.FormatDate(probe)).Err(err).Msg("Price probe failed")
			continue
		}
		if resp == nil || len(resp.Data) == 0 {
			continue
		}

		bar := resp.Data[0]
		if bar.Close == 0 {
			continue
		}
		return models.Price{
			Ticker:    ticker,
			Value:     bar.Close,
			Date:      bar.Date,
			Available: true,
		}
	}

	s.logger.Info().Str("ticker", ticker).Int("lookback_days", LookbackDays).Msg("No recent close found")
	return models.UnavailablePrice(ticker)
}

// Technicals fetches a year of daily bars ending at ref and computes the
// indicator snapshot. It returns nil when the history is unavailable or short.
func (s *Service) Technicals(ctx context.Context, ticker string, ref time.Time) *models.Technicals {
	if s.eodhd == nil {
		return nil
	}

	symbol := Symbol(ticker, s.exchange)
	to := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	from := to.AddDate(0, 0, -HistoryDays)

	resp, err := s.eodhd.GetEOD(ctx, symbol, interfaces.WithDateRange(from, to))
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price history unavailable")
		return nil
	}
	if resp == nil {
		return nil
	}

	snap := signals.Snapshot(resp.Data)
	if snap == nil {
		s.logger.Debug().Str("ticker", ticker).Int("bars", len(resp.Data)).Msg("Price history too short for indicators")
		return nil
	}
	return snap
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
