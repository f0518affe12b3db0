// Package portfolio composes model portfolios from the allocation source
package portfolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

// Service implements PortfolioService
type Service struct {
	source    interfaces.AllocationSource
	directory interfaces.StockDirectory
	logger    *common.Logger
}

// NewService creates a new portfolio service. directory may be nil, in which
// case codes stand in for names and sectors are left empty.
func NewService(source interfaces.AllocationSource, directory interfaces.StockDirectory, logger *common.Logger) *Service {
	return &Service{
		source:    source,
		directory: directory,
		logger:    logger,
	}
}

// Compose fetches the allocation, drops the cash row, resolves names and
// sectors, and orders entries by weight descending. Weights are kept as
// returned by the source.
func (s *Service) Compose(ctx context.Context, req models.AllocationRequest) ([]models.PortfolioEntry, error) {
	req = req.WithDefaults()
	s.logger.Info().Str("model", req.Model).Int("risk_level", req.RiskLevel).Msg("Composing portfolio")

	rows, err := s.source.Allocations(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation for %s: %w", req.Model, err)
	}

	entries := make([]models.PortfolioEntry, 0, len(rows))
	for _, row := range rows {
		if row.IsCash() {
			continue
		}
		entries = append(entries, s.resolve(row))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})

	s.logger.Info().Int("holdings", len(entries)).Str("total_weight", fmt.Sprintf("%.4f", models.TotalWeight(entries))).Msg("Portfolio composed")
	return entries, nil
}

func (s *Service) resolve(row models.AllocationRow) models.PortfolioEntry {
	entry := models.PortfolioEntry{
		Name:   row.Code,
		Ticker: row.Code,
		Weight: row.Weight,
	}
	if s.directory == nil {
		return entry
	}
	if name, sector, ok := s.directory.Lookup(row.Code); ok {
		if name != "" {
			entry.Name = name
		}
		entry.Sector = sector
	} else {
		s.logger.Debug().Str("code", row.Code).Msg("Code not in stock directory")
	}
	return entry
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
