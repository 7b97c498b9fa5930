package main

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money renders an amount with thousands grouping and two decimals. Only the
// whole part goes through the printer so large totals stay exact.
func money(currency string, d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	if n, err := strconv.ParseUint(whole, 10, 64); err == nil {
		whole = printer.Sprintf("%d", n)
	}
	return currency + sign + whole + "." + frac
}

func count(n int) string {
	return printer.Sprintf("%d", n)
}
