// Package store provides exchange rate providers backed by
// ingested rate data. Each rate source is exposed as its own provider
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sig-0/fxconvert/chain"
	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/storage"
	"github.com/sig-0/fxconvert/storage/types"
)

// Provider serves the latest stored rates of a single source
type Provider struct {
	storage  storage.Storage
	now      func() time.Time
	source   types.Source
	rateType types.RateType
}

// NewProvider creates a new provider for the given source.
// Only rates of the given type are served
func NewProvider(s storage.Storage, source types.Source, rateType types.RateType) *Provider {
	return &Provider{
		storage:  s,
		now:      time.Now,
		source:   source,
		rateType: rateType,
	}
}

// Name returns the source name
func (p *Provider) Name() string {
	return p.source.String()
}

// ExchangeRate returns the latest stored base -> term rate.
// If only the term -> base rate is stored, its inverse is returned
func (p *Provider) ExchangeRate(
	ctx context.Context,
	base,
	term currency.Unit,
) (*convert.ExchangeRate, error) {
	rate, err := p.latest(ctx, base, term)
	if err != nil {
		return nil, err
	}

	if rate != nil {
		return rate, nil
	}

	reverse, err := p.latest(ctx, term, base)
	if err != nil {
		return nil, err
	}

	if reverse != nil && reverse.Factor != 0 {
		return reverse.Inverse(), nil
	}

	return nil, fmt.Errorf(
		"%w: %s has no %s/%s rate",
		convert.ErrRateNotFound,
		p.source,
		base,
		term,
	)
}

func (p *Provider) CurrencyConversion(term currency.Unit) convert.CurrencyConversion {
	return chain.NewConversion(term, p)
}

// latest fetches the latest stored base -> term rate, if any
func (p *Provider) latest(
	ctx context.Context,
	base,
	term currency.Unit,
) (*convert.ExchangeRate, error) {
	var (
		target   = types.CurrencyOf(term)
		source   = p.source
		rateType = p.rateType
	)

	page, err := p.storage.RateAsOf(
		ctx,
		&types.RateQuery{
			Base:     types.CurrencyOf(base),
			Target:   &target,
			Source:   &source,
			RateType: &rateType,
			Limit:    1,
		},
		p.now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s rate: %w", p.source, err)
	}

	if page == nil || len(page.Results) == 0 || page.Results[0] == nil {
		return nil, nil //nolint:nilnil // valid case
	}

	stored := page.Results[0]

	return &convert.ExchangeRate{
		AsOf:     stored.AsOf,
		Base:     base,
		Term:     term,
		RateType: stored.RateType,
		Provider: p.Name(),
		Factor:   stored.Rate,
	}, nil
}
