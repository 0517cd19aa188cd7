// Package rates looks up exchange rates and converts expense amounts into a
// group's master currency.
package rates

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRateNotFound is returned when a provider has no rate for a pair.
var ErrRateNotFound = errors.New("exchange rate not found")

// Provider returns how many units of to one unit of from buys.
type Provider interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// usdRates are units per US dollar.
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"JPY": 157.0,
	"GBP": 0.78,
	"AUD": 1.5,
	"CAD": 1.37,
	"CHF": 0.89,
	"CNY": 7.25,
	"INR": 83.5,
	"BRL": 5.4,
	"VND": 25000,
}

// StaticProvider serves rates from a fixed table quoted against a base
// currency.
type StaticProvider struct {
	perBase map[string]float64
}

// NewStaticProvider returns a provider over the built-in USD table.
func NewStaticProvider() *StaticProvider {
	return NewStaticProviderFrom(usdRates)
}

// NewStaticProviderFrom returns a provider over perBase, which maps currency
// codes to units per one unit of a common base currency.
func NewStaticProviderFrom(perBase map[string]float64) *StaticProvider {
	table := make(map[string]float64, len(perBase))
	for code, r := range perBase {
		table[strings.ToUpper(code)] = r
	}
	return &StaticProvider{perBase: table}
}

// Rate converts through the base: (1/from)*to.
func (p *StaticProvider) Rate(ctx context.Context, from, to string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fromRate, ok := p.perBase[strings.ToUpper(from)]
	if !ok || fromRate <= 0 {
		return 0, fmt.Errorf("%s: %w", from, ErrRateNotFound)
	}
	toRate, ok := p.perBase[strings.ToUpper(to)]
	if !ok || toRate <= 0 {
		return 0, fmt.Errorf("%s: %w", to, ErrRateNotFound)
	}
	return (1 / fromRate) * toRate, nil
}
