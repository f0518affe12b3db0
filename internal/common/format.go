package common

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// wonFormatter renders whole won with thousands separators: 71000 -> "71,000원".
var wonFormatter = money.NewFormatter(0, ".", ",", "원", "1$")

// FormatWon formats a price in won, rounded half-to-even to a whole unit.
func FormatWon(value float64) string {
	return wonFormatter.Format(decimal.NewFromFloat(value).RoundBank(0).IntPart())
}

// FormatWeight renders a fractional weight as a percentage with two decimals.
func FormatWeight(weight float64) string {
	return decimal.NewFromFloat(weight).Shift(2).StringFixedBank(2) + "%"
}
