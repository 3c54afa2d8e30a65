// Package fixed provides an exchange rate provider over a static rate table
package fixed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sig-0/fxconvert/chain"
	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
)

// DefaultName is the provider name used when none is configured
const DefaultName = "FIXED"

var errInvalidRate = errors.New("invalid rate")

type pair struct {
	base, term string
}

// Rate is a single static base -> term rate
type Rate struct {
	Base   currency.Unit
	Term   currency.Unit
	Factor float64
}

// Provider serves a fixed set of rates, and their inverses
type Provider struct {
	rates map[pair]float64
	asOf  time.Time
	name  string
}

// NewProvider creates a new fixed rate provider
func NewProvider(name string, rates ...Rate) (*Provider, error) {
	if name == "" {
		name = DefaultName
	}

	p := &Provider{
		rates: make(map[pair]float64, len(rates)),
		asOf:  time.Now().UTC(),
		name:  name,
	}

	for _, r := range rates {
		if r.Base.IsZero() || r.Term.IsZero() || r.Factor <= 0 {
			return nil, fmt.Errorf("%w: %s/%s %f", errInvalidRate, r.Base, r.Term, r.Factor)
		}

		p.rates[pair{base: r.Base.Code(), term: r.Term.Code()}] = r.Factor
	}

	return p, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) ExchangeRate(
	_ context.Context,
	base,
	term currency.Unit,
) (*convert.ExchangeRate, error) {
	rate := &convert.ExchangeRate{
		AsOf:     p.asOf,
		Base:     base,
		Term:     term,
		RateType: convert.RateTypeMID,
		Provider: p.name,
	}

	if factor, ok := p.rates[pair{base: base.Code(), term: term.Code()}]; ok {
		rate.Factor = factor

		return rate, nil
	}

	if factor, ok := p.rates[pair{base: term.Code(), term: base.Code()}]; ok {
		rate.Factor = 1 / factor

		return rate, nil
	}

	return nil, fmt.Errorf("%w: %s has no %s/%s rate", convert.ErrRateNotFound, p.name, base, term)
}

func (p *Provider) CurrencyConversion(term currency.Unit) convert.CurrencyConversion {
	return chain.NewConversion(term, p)
}
