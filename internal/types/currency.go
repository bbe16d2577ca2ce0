package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyConfig describes how amounts in a currency are displayed.
type CurrencyConfig struct {
	Symbol    string
	Precision int32
}

var currencyConfigs = map[string]CurrencyConfig{
	"USD": {Symbol: "$", Precision: 2},
	"EUR": {Symbol: "€", Precision: 2},
	"GBP": {Symbol: "£", Precision: 2},
	"JPY": {Symbol: "¥", Precision: 0},
	"CAD": {Symbol: "C$", Precision: 2},
	"AUD": {Symbol: "A$", Precision: 2},
	"INR": {Symbol: "₹", Precision: 2},
	"SAR": {Symbol: "SAR ", Precision: 2},
	"CNY": {Symbol: "¥", Precision: 2},
	"CHF": {Symbol: "CHF ", Precision: 2},
	"BRL": {Symbol: "R$", Precision: 2},
}

const defaultCurrencyPrecision = 2

// GetCurrencyConfig returns the display config for a currency, defaulting
// to a bare two-decimal format for unknown codes.
func GetCurrencyConfig(currency string) CurrencyConfig {
	if cfg, ok := currencyConfigs[strings.ToUpper(currency)]; ok {
		return cfg
	}
	return CurrencyConfig{Symbol: strings.ToUpper(currency) + " ", Precision: defaultCurrencyPrecision}
}

// GetCurrencyPrecision returns the number of decimal places for a currency.
// Zero-decimal currencies such as JPY have no minor unit.
func GetCurrencyPrecision(currency string) int32 {
	return GetCurrencyConfig(currency).Precision
}

// GetCurrencySymbol returns the display symbol for a currency.
func GetCurrencySymbol(currency string) string {
	return GetCurrencyConfig(currency).Symbol
}

// IsValidCurrency reports whether the code looks like an ISO 4217 code.
func IsValidCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, r := range currency {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// FormatAmount renders an amount as "{symbol}{amount}" with thousands
// separators, using the currency's precision (no decimals for JPY).
func FormatAmount(amount decimal.Decimal, currency string) string {
	cfg := GetCurrencyConfig(currency)
	fixed := amount.Abs().StringFixed(cfg.Precision)

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart = fixed[:idx]
		fracPart = fixed[idx:]
	}

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(cfg.Symbol)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}
