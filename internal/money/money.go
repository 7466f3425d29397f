// Package money renders amounts for display.
package money

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultSymbol is the Ghana cedi sign the organisation reports in.
const DefaultSymbol = "GH₵"

type Formatter struct {
	Symbol string
}

func NewFormatter(symbol string) Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Formatter{Symbol: symbol}
}

// Format renders amount as "GH₵ 1,234.50": symbol, a space, comma thousands
// separators and exactly two decimals, rounded half away from zero. Negative
// amounts get a leading minus before the symbol. Non-finite input renders as zero.
func (f Formatter) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return f.FormatDecimal(decimal.Zero)
	}
	return f.FormatDecimal(decimal.NewFromFloat(amount))
}

func (f Formatter) FormatDecimal(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).StringFixed(2) // "0.xx"
	return sign + f.Symbol + " " + humanize.Comma(whole.IntPart()) + cents[1:]
}

// Format formats amount with the default symbol.
func Format(amount float64) string {
	return NewFormatter(DefaultSymbol).Format(amount)
}
