package config

import "strings"

// Market describes a Bing image market: the region code sent to the API and
// a display name for UI listings.
type Market struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var markets = []Market{
	{Code: "en-AU", Name: "Australia"},
	{Code: "pt-BR", Name: "Brazil"},
	{Code: "en-CA", Name: "Canada"},
	{Code: "zh-CN", Name: "China"},
	{Code: "da-DK", Name: "Denmark"},
	{Code: "fi-FI", Name: "Finland"},
	{Code: "fr-FR", Name: "France"},
	{Code: "de-DE", Name: "Germany"},
	{Code: "en-IN", Name: "India"},
	{Code: "it-IT", Name: "Italy"},
	{Code: "ja-JP", Name: "Japan"},
	{Code: "nl-NL", Name: "Netherlands"},
	{Code: "en-NZ", Name: "New Zealand"},
	{Code: "nb-NO", Name: "Norway"},
	{Code: "pl-PL", Name: "Poland"},
	{Code: "ru-RU", Name: "Russia"},
	{Code: "ko-KR", Name: "South Korea"},
	{Code: "es-ES", Name: "Spain"},
	{Code: "sv-SE", Name: "Sweden"},
	{Code: "en-GB", Name: "United Kingdom"},
	{Code: "en-US", Name: "United States"},
}

// Markets returns the built-in market table, ordered by country name.
func Markets() []Market {
	out := make([]Market, len(markets))
	copy(out, markets)
	return out
}

// MarketName resolves the display name for a market code.
func MarketName(code string) (string, bool) {
	code = strings.TrimSpace(code)
	for _, m := range markets {
		if strings.EqualFold(m.Code, code) {
			return m.Name, true
		}
	}
	return "", false
}

// IsKnownMarket reports whether code appears in the built-in market table.
func IsKnownMarket(code string) bool {
	_, ok := MarketName(code)
	return ok
}

// CanonicalMarket returns the built-in casing for known codes and the input
// unchanged otherwise.
func CanonicalMarket(code string) string {
	code = strings.TrimSpace(code)
	for _, m := range markets {
		if strings.EqualFold(m.Code, code) {
			return m.Code
		}
	}
	return code
}
