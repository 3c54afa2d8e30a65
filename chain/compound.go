package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
)

// compoundProvider queries its members in order, the first rate wins
type compoundProvider struct {
	name    string
	members []convert.ExchangeRateProvider
}

func newCompoundProvider(members []convert.ExchangeRateProvider) *compoundProvider {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name())
	}

	return &compoundProvider{
		name:    "compound(" + strings.Join(names, ",") + ")",
		members: members,
	}
}

func (c *compoundProvider) Name() string {
	return c.name
}

func (c *compoundProvider) ExchangeRate(
	ctx context.Context,
	base,
	term currency.Unit,
) (*convert.ExchangeRate, error) {
	errs := make([]error, 0, len(c.members))

	for _, m := range c.members {
		rate, err := m.ExchangeRate(ctx, base, term)
		if err == nil && rate != nil {
			return rate, nil
		}

		if err == nil {
			err = convert.ErrRateNotFound
		}

		errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))

		// Don't keep trying if the caller gave up
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	return nil, fmt.Errorf(
		"%w for %s/%s: %w",
		convert.ErrRateNotFound,
		base,
		term,
		errors.Join(errs...),
	)
}

func (c *compoundProvider) CurrencyConversion(term currency.Unit) convert.CurrencyConversion {
	return NewConversion(term, c)
}
