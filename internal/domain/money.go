package domain

import "github.com/shopspring/decimal"

// FormatDelta renders a price delta the way modifier summaries show it:
// "+1.50", "-0.25" or "0".
func FormatDelta(d decimal.Decimal) string {
	switch d.Sign() {
	case 0:
		return "0"
	case 1:
		return "+" + d.StringFixed(2)
	default:
		return d.StringFixed(2)
	}
}
