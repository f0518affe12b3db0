package document

import (
	"bytes"
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/stockbrief/internal/common"
	"github.com/bobmcallan/stockbrief/internal/models"
)

var slicePalette = []drawing.Color{
	drawing.ColorFromHex("2563eb"),
	drawing.ColorFromHex("16a34a"),
	drawing.ColorFromHex("ea580c"),
	drawing.ColorFromHex("9333ea"),
	drawing.ColorFromHex("0891b2"),
	drawing.ColorFromHex("ca8a04"),
	drawing.ColorFromHex("dc2626"),
	drawing.ColorFromHex("4b5563"),
}

// WeightChart renders a PNG pie chart of the portfolio weights. ttf, when
// given, is used for the slice labels so that instrument names render;
// otherwise the chart falls back to tickers and the built-in font.
func WeightChart(entries []models.PortfolioEntry, ttf []byte) ([]byte, error) {
	var font *truetype.Font
	if len(ttf) > 0 {
		if f, err := truetype.Parse(ttf); err == nil {
			font = f
		}
	}

	values := make([]chart.Value, 0, len(entries))
	for i, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		label := e.Ticker
		if font != nil {
			label = e.Name
		}
		values = append(values, chart.Value{
			Value: e.Weight,
			Label: fmt.Sprintf("%s %s", label, common.FormatWeight(e.Weight)),
			Style: chart.Style{
				FillColor:   slicePalette[i%len(slicePalette)],
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
				FontColor:   drawing.ColorWhite,
			},
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no positive weights to chart")
	}

	pie := chart.PieChart{
		Width:  640,
		Height: 640,
		Values: values,
	}
	if font != nil {
		pie.Font = font
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
