package chain

import (
	"context"
	"fmt"
	"slices"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
)

// Conversion converts amounts into a fixed term currency,
// using a single (possibly compound) rate provider
type Conversion struct {
	provider  convert.ExchangeRateProvider
	term      currency.Unit
	rateTypes []convert.RateType
}

// NewConversion creates a new conversion into term.
// If rate types are given, rates of any other type are rejected
func NewConversion(
	term currency.Unit,
	provider convert.ExchangeRateProvider,
	rateTypes ...convert.RateType,
) *Conversion {
	return &Conversion{
		provider:  provider,
		term:      term,
		rateTypes: rateTypes,
	}
}

func (c *Conversion) Currency() currency.Unit {
	return c.term
}

// Provider returns the provider backing the conversion
func (c *Conversion) Provider() convert.ExchangeRateProvider {
	return c.provider
}

func (c *Conversion) ExchangeRate(ctx context.Context, base currency.Unit) (*convert.ExchangeRate, error) {
	if base.IsZero() {
		return nil, fmt.Errorf("%w: base currency is not set", convert.ErrInvalidArgument)
	}

	// Identity
	if base == c.term {
		return &convert.ExchangeRate{
			Base:     base,
			Term:     c.term,
			RateType: convert.RateTypeMID,
			Provider: c.provider.Name(),
			Factor:   1,
		}, nil
	}

	rate, err := c.provider.ExchangeRate(ctx, base, c.term)
	if err != nil {
		return nil, err
	}

	if rate == nil {
		return nil, fmt.Errorf(
			"%w: %s returned no %s/%s rate",
			convert.ErrRateNotFound,
			c.provider.Name(),
			base,
			c.term,
		)
	}

	if len(c.rateTypes) > 0 && !slices.Contains(c.rateTypes, rate.RateType) {
		return nil, fmt.Errorf(
			"%w: %s/%s rate type %s not accepted",
			convert.ErrRateNotFound,
			base,
			c.term,
			rate.RateType,
		)
	}

	return rate, nil
}

func (c *Conversion) Apply(ctx context.Context, amount currency.Amount) (currency.Amount, error) {
	rate, err := c.ExchangeRate(ctx, amount.Currency)
	if err != nil {
		return currency.Amount{}, err
	}

	return currency.NewAmount(amount.Number*rate.Factor, c.term), nil
}
