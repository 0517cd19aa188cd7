// Package money holds currency metadata and the amount rules every expense
// passes through before it reaches the split and balance math.
package money

import "strings"

// Currency describes a supported ISO 4217 currency.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won"},
	{Code: "VND", Symbol: "₫", Name: "Vietnamese Dong"},
	{Code: "IDR", Symbol: "Rp", Name: "Indonesian Rupiah"},
}

// zeroDecimal lists currencies without a fractional minor unit.
var zeroDecimal = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"IDR": true,
}

// Currencies returns a copy of the supported currency table.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// Lookup finds a currency by code, case-insensitively.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// IsSupported reports whether code is in the currency table.
func IsSupported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Symbol returns the display symbol for code, falling back to the code itself.
func Symbol(code string) string {
	if c, ok := Lookup(code); ok {
		return c.Symbol
	}
	return code
}

// IsZeroDecimal reports whether the currency has no fractional sub-unit.
func IsZeroDecimal(code string) bool {
	return zeroDecimal[strings.ToUpper(strings.TrimSpace(code))]
}

// Precision is the number of decimal places of the currency's minor unit.
func Precision(code string) int32 {
	if IsZeroDecimal(code) {
		return 0
	}
	return 2
}
