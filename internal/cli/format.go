// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// currencySymbols maps ISO codes to display symbols. Unknown codes fall
// back to the code itself with a space.
var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"MXN": "$",
	"ARS": "$",
	"COP": "$",
}

// FormatMoney formats an amount in the given currency.
// e.g., 1234.5 EUR -> "€1,234.50", -20 -> "-€20.00"
func FormatMoney(amount float64, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = currency + " "
	}
	if amount < 0 {
		return "-" + symbol + formatGrouped(-amount)
	}
	return symbol + formatGrouped(amount)
}

func formatGrouped(amount float64) string {
	whole := int64(math.Floor(amount))
	cents := int(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s.%02d", FormatNumber(whole), cents)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats an already-scaled percentage value.
// e.g., 66.7 -> "66.7%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTrend formats a month-over-month percentage change with sign.
// e.g., 20 -> "↑ 20.0%", -5 -> "↓ 5.0%"
func FormatTrend(pct float64) string {
	switch {
	case pct > 0:
		return fmt.Sprintf("↑ %.1f%%", pct)
	case pct < 0:
		return fmt.Sprintf("↓ %.1f%%", -pct)
	default:
		return "→ 0.0%"
	}
}

// FormatDay formats a date as its calendar day.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("Jan 2, 2006")
}

// FormatStreak formats a day count with its unit.
func FormatStreak(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatDaysLeft formats a nilable days-until figure.
func FormatDaysLeft(days *int) string {
	if days == nil {
		return "safe"
	}
	if *days <= 0 {
		return "now"
	}
	return FormatStreak(*days)
}
