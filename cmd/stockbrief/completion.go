package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// completion is the shell completion tree. Enable it with
// COMP_INSTALL=1 stockbrief.
func completion() *complete.Command {
	allocation := map[string]complete.Predictor{
		"model":  predict.Set(models.KnownModels),
		"risk":   predict.Set{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
		"amount": predict.Something,
	}

	report := map[string]complete.Predictor{"o": predict.Files("*.pdf")}
	for k, v := range allocation {
		report[k] = v
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"raw":    predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"report":    {Flags: report},
			"portfolio": {Flags: allocation},
			"analyze":   {Args: predict.Something},
			"search":    {Args: predict.Something},
			"mcp":       {},
			"help":      {},
			"flags":     {},
		},
	}
}
