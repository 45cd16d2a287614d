package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatBRL formats an amount as Brazilian Real, e.g. R$ 1.234,56 and
// -R$ 10,00. The result always has exactly 2 decimal places.
func FormatBRL(amount float64) string {
	negative := amount < 0
	amount = math.Abs(math.Round(amount*100) / 100)

	result := "R$ " + humanize.FormatFloat("#.###,##", amount)
	if negative && amount != 0 {
		result = "-" + result
	}
	return result
}

// FormatNumberBR formats a number with pt-BR separators and the given number
// of decimals (0, 1 or 2).
func FormatNumberBR(v float64, decimals int) string {
	format := "#.###."
	switch decimals {
	case 1:
		format = "#.###,#"
	case 2:
		format = "#.###,##"
	}
	return humanize.FormatFloat(format, v)
}

// FormatPercent formats a percentage with one decimal, e.g. 40,0%.
func FormatPercent(v float64) string {
	return FormatNumberBR(v, 1) + "%"
}

// FormatHours renders rounded hours, e.g. 120h.
func FormatHours(h float64) string {
	return strconv.FormatFloat(math.Round(h), 'f', 0, 64) + "h"
}

// FormatRate renders a plain decimal for form inputs (dot separator, up to 2
// decimals, no trailing zeros).
func FormatRate(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseDecimal reads a number typed the Brazilian or the plain way: 1234.56,
// 1234,56, 1.234,56 and R$ 1.234,56 all parse. Blank input is zero. NaN and
// infinities are rejected.
func ParseDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, invalid("Número inválido: %q", strings.TrimSpace(raw))
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
