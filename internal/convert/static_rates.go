package convert

import "currconv/internal/domain"

// BaseCurrency anchors every rate in the static and persisted tables:
// rates are expressed as units of currency per 1 USD.
const BaseCurrency = "USD"

// baseUnitRates is the built-in fallback table used when the live provider is
// unreachable. Values are deliberately coarse; the provider tier supplies the
// fresh ones.
var baseUnitRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 150.0,
	"CAD": 1.35,
	"AUD": 1.52,
	"INR": 83.0,
	"PHP": 58.0,
	"THB": 34.5,
	"VND": 25400.0,
}

// SupportedCurrencies lists the codes the service advertises. It mirrors the
// keys of baseUnitRates so every advertised pair has at least a static rate.
var SupportedCurrencies = []domain.Currency{
	{Code: "USD", Name: "United States Dollar"},
	{Code: "EUR", Name: "Euro"},
	{Code: "GBP", Name: "British Pound Sterling"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "CAD", Name: "Canadian Dollar"},
	{Code: "AUD", Name: "Australian Dollar"},
	{Code: "INR", Name: "Indian Rupee"},
	{Code: "PHP", Name: "Philippine Peso"},
	{Code: "THB", Name: "Thai Baht"},
	{Code: "VND", Name: "Vietnamese Dong"},
}

// SupportedCodes returns just the codes, in the advertised order.
func SupportedCodes() []string {
	codes := make([]string, 0, len(SupportedCurrencies))
	for _, c := range SupportedCurrencies {
		codes = append(codes, c.Code)
	}
	return codes
}
