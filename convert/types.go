package convert

import (
	"context"
	"time"

	"github.com/sig-0/fxconvert/currency"
)

type RateType string

const (
	RateTypeMID  RateType = "MID"
	RateTypeBUY  RateType = "BUY"
	RateTypeSELL RateType = "SELL"
)

func (r RateType) String() string {
	return string(r)
}

// ExchangeRate is a single base -> term conversion factor
type ExchangeRate struct {
	AsOf     time.Time     `json:"as_of"`
	Base     currency.Unit `json:"base"`
	Term     currency.Unit `json:"term"`
	RateType RateType      `json:"rate_type"`
	Provider string        `json:"provider"`
	Factor   float64       `json:"factor"`
}

// Inverse returns the term -> base rate
func (r *ExchangeRate) Inverse() *ExchangeRate {
	inv := *r

	inv.Base, inv.Term = r.Term, r.Base

	if r.Factor != 0 {
		inv.Factor = 1 / r.Factor
	}

	return &inv
}

// ExchangeRateProvider is a named source of exchange rates
type ExchangeRateProvider interface {
	// Name returns the unique provider name
	Name() string

	// ExchangeRate fetches the base -> term rate
	ExchangeRate(ctx context.Context, base, term currency.Unit) (*ExchangeRate, error)

	// CurrencyConversion returns a conversion into the term currency,
	// using this provider for rates
	CurrencyConversion(term currency.Unit) CurrencyConversion
}

// CurrencyConversion converts monetary amounts into a fixed term currency
type CurrencyConversion interface {
	// Currency returns the term currency
	Currency() currency.Unit

	// ExchangeRate fetches the rate for converting from base into the term currency
	ExchangeRate(ctx context.Context, base currency.Unit) (*ExchangeRate, error)

	// Apply converts the amount into the term currency
	Apply(ctx context.Context, amount currency.Amount) (currency.Amount, error)
}
