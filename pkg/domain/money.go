package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a backend float amount with the currency's
// symbol and grouping, e.g. FormatAmount(6500000, "TRY") -> "₺6,500,000.00".
// Unknown currency codes fall back to go-money's default formatting.
func FormatAmount(v float64, cur string) string {
	// The Money constructor is the only way to get a never-nil currency.
	c := *money.New(0, cur).Currency()
	minor := decimal.NewFromFloat(v).Shift(int32(c.Fraction))
	return c.Formatter().Format(minor.IntPart())
}
