package graph

import (
	"context"
	"math"
	"strings"

	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/server/graph/model"
	"github.com/sig-0/fxconvert/storage/types"
)

func (r *queryResolver) Providers(_ context.Context) (*model.Providers, error) {
	names, err := r.Conversions.ProviderNames()
	if err != nil {
		return nil, err
	}

	chain, err := r.Conversions.DefaultProviderChain()
	if err != nil {
		return nil, err
	}

	return &model.Providers{
		Names:        names,
		DefaultChain: chain,
	}, nil
}

func (r *queryResolver) Rate(
	ctx context.Context,
	base, target string,
	providers []string,
) (*model.ExchangeRate, error) {
	baseUnit, err := r.Resolver.Currencies.Resolve(base)
	if err != nil {
		return nil, err
	}

	targetUnit, err := r.Resolver.Currencies.Resolve(target)
	if err != nil {
		return nil, err
	}

	provider, err := r.Conversions.ExchangeRateProvider(providers...)
	if err != nil {
		return nil, err
	}

	rate, err := provider.CurrencyConversion(targetUnit).ExchangeRate(ctx, baseUnit)
	if err != nil {
		return nil, err
	}

	return toModelExchangeRate(rate), nil
}

func (r *queryResolver) Convert(
	ctx context.Context,
	base, target string,
	amount float64,
	providers []string,
) (*model.Conversion, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, errInvalidAmount
	}

	baseUnit, err := r.Resolver.Currencies.Resolve(base)
	if err != nil {
		return nil, err
	}

	conversion, err := r.Conversions.ConversionByCode(target, providers...)
	if err != nil {
		return nil, err
	}

	from := currency.NewAmount(amount, baseUnit)

	to, err := conversion.Apply(ctx, from)
	if err != nil {
		return nil, err
	}

	if math.IsInf(to.Number, 0) {
		return nil, errAmountOutOfRange
	}

	return &model.Conversion{
		From: toModelAmount(from),
		To:   toModelAmount(to),
	}, nil
}

func (r *queryResolver) ConversionAvailable(
	_ context.Context,
	target string,
	providers []string,
) (*model.Availability, error) {
	available, err := r.Conversions.IsConversionAvailableByCode(target, providers...)
	if err != nil {
		return nil, err
	}

	if len(providers) == 0 {
		if providers, err = r.Conversions.DefaultProviderChain(); err != nil {
			return nil, err
		}
	}

	return &model.Availability{
		Target:    strings.ToUpper(strings.TrimSpace(target)),
		Providers: providers,
		Available: available,
	}, nil
}

func (r *queryResolver) Rates(ctx context.Context, args RatesArgs) (*model.RatePage, error) {
	if r.Storage == nil {
		return nil, errStorageNotConfigured
	}

	base, err := r.storedCurrency(args.Base)
	if err != nil {
		return nil, err
	}

	var target *types.Currency

	if args.Target != nil {
		c, err := r.storedCurrency(*args.Target)
		if err != nil {
			return nil, err
		}

		target = &c
	}

	limit, offset, err := parseLimitOffset(args.Limit, args.Offset)
	if err != nil {
		return nil, err
	}

	source, rateType, err := parseSourceAndType(args.Source, args.RateType)
	if err != nil {
		return nil, err
	}

	page, err := r.Storage.RateAsOf(
		ctx,
		&types.RateQuery{
			Base:     base,
			Target:   target,
			Source:   source,
			RateType: rateType,
			Limit:    limit,
			Offset:   offset,
		},
		parseAsOf(args.AsOf),
	)
	if err != nil {
		return nil, err
	}

	results := make([]*model.StoredRate, 0, len(page.Results))
	for _, rate := range page.Results {
		results = append(results, toModelStoredRate(rate))
	}

	return &model.RatePage{
		Results: results,
		Total:   clampTotalToInt32(page.Total),
	}, nil
}

func (r *queryResolver) Sources(ctx context.Context) ([]string, error) {
	if r.Storage == nil {
		return nil, errStorageNotConfigured
	}

	items, err := r.Storage.ListSources(ctx)
	if err != nil {
		return nil, err
	}

	return toStrings(items), nil
}

func (r *queryResolver) Currencies(ctx context.Context) ([]string, error) {
	if r.Storage == nil {
		return nil, errStorageNotConfigured
	}

	items, err := r.Storage.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	return toStrings(items), nil
}

// storedCurrency resolves the code into its stored form
func (r *queryResolver) storedCurrency(code string) (types.Currency, error) {
	u, err := r.Resolver.Currencies.Resolve(code)
	if err != nil {
		return "", err
	}

	return types.CurrencyOf(u), nil
}
