package chain

import (
	"context"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
)

type rateDelegate func(context.Context, currency.Unit, currency.Unit) (*convert.ExchangeRate, error)

type mockProvider struct {
	rateFn rateDelegate
	name   string
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) ExchangeRate(
	ctx context.Context,
	base,
	term currency.Unit,
) (*convert.ExchangeRate, error) {
	if m.rateFn != nil {
		return m.rateFn(ctx, base, term)
	}

	return nil, convert.ErrRateNotFound
}

func (m *mockProvider) CurrencyConversion(term currency.Unit) convert.CurrencyConversion {
	return NewConversion(term, m)
}

// fixedRate returns a delegate yielding the given factor for every pair
func fixedRate(provider string, factor float64) rateDelegate {
	return func(_ context.Context, base, term currency.Unit) (*convert.ExchangeRate, error) {
		return &convert.ExchangeRate{
			Base:     base,
			Term:     term,
			RateType: convert.RateTypeMID,
			Provider: provider,
			Factor:   factor,
		}, nil
	}
}
