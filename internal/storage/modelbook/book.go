// Package modelbook loads model portfolio allocations and the instrument
// directory from a TOML file.
package modelbook

import (
	"context"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/interfaces"
	"github.com/bobmcallan/stockbrief/internal/models"
)

// Stock is one directory entry.
type Stock struct {
	Code   string `toml:"code"`
	Name   string `toml:"name"`
	Sector string `toml:"sector"`
}

// Portfolio is the allocation of one model at one risk level.
type Portfolio struct {
	Model     string                 `toml:"model"`
	RiskLevel int                    `toml:"risk_level"`
	Holdings  []models.AllocationRow `toml:"holdings"`
}

// document mirrors the file layout.
type document struct {
	Stocks     []Stock     `toml:"stocks"`
	Portfolios []Portfolio `toml:"portfolios"`
}

// Book serves allocations and instrument metadata from memory.
type Book struct {
	stocks     map[string]Stock
	portfolios []Portfolio
	logger     *common.Logger
}

// Load reads the book at path.
func Load(logger *common.Logger, path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model book %s: %w", path, err)
	}

	b, err := Parse(logger, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model book %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Int("stocks", len(b.stocks)).Int("portfolios", len(b.portfolios)).Msg("Model book loaded")
	return b, nil
}

// Parse decodes a book from TOML bytes.
func Parse(logger *common.Logger, data []byte) (*Book, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	b := &Book{
		stocks:     make(map[string]Stock, len(doc.Stocks)),
		portfolios: doc.Portfolios,
		logger:     logger,
	}
	for _, s := range doc.Stocks {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			return nil, fmt.Errorf("stock %q has no code", s.Name)
		}
		b.stocks[code] = s
	}

	for i, p := range b.portfolios {
		if strings.TrimSpace(p.Model) == "" {
			return nil, fmt.Errorf("portfolio %d has no model", i)
		}
	}

	return b, nil
}

// Allocations returns the holdings for the requested model and risk level.
// The amount is accepted but does not change the composition.
func (b *Book) Allocations(ctx context.Context, req models.AllocationRequest) ([]models.AllocationRow, error) {
	req = req.WithDefaults()

	for _, p := range b.portfolios {
		if strings.EqualFold(p.Model, req.Model) && p.RiskLevel == req.RiskLevel {
			rows := make([]models.AllocationRow, len(p.Holdings))
			copy(rows, p.Holdings)
			return rows, nil
		}
	}

	return nil, fmt.Errorf("no allocation for model %s at risk level %d", req.Model, req.RiskLevel)
}

// Lookup returns the name and sector for code
func (b *Book) Lookup(code string) (string, string, bool) {
	s, ok := b.stocks[strings.TrimSpace(code)]
	if !ok {
		return "", "", false
	}
	return s.Name, s.Sector, true
}

// Ensure Book implements the allocation and directory contracts
var (
	_ interfaces.AllocationSource = (*Book)(nil)
	_ interfaces.StockDirectory   = (*Book)(nil)
)
