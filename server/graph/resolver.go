package graph

import (
	"context"
	"io"
	"log/slog"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/server/graph/model"
	"github.com/sig-0/fxconvert/storage"
)

// Conversions is the conversion facade surface served over GraphQL
type Conversions interface {
	ConversionByCode(termCode string, providers ...string) (convert.CurrencyConversion, error)
	IsConversionAvailableByCode(termCode string, providers ...string) (bool, error)
	ExchangeRateProvider(providers ...string) (convert.ExchangeRateProvider, error)
	ProviderNames() ([]string, error)
	DefaultProviderChain() ([]string, error)
}

// QueryResolver resolves the root Query fields
type QueryResolver interface {
	Providers(ctx context.Context) (*model.Providers, error)
	Rate(ctx context.Context, base, target string, providers []string) (*model.ExchangeRate, error)
	Convert(
		ctx context.Context,
		base, target string,
		amount float64,
		providers []string,
	) (*model.Conversion, error)
	ConversionAvailable(ctx context.Context, target string, providers []string) (*model.Availability, error)
	Rates(ctx context.Context, args RatesArgs) (*model.RatePage, error)
	Sources(ctx context.Context) ([]string, error)
	Currencies(ctx context.Context) ([]string, error)
}

// RatesArgs are the arguments of the rates query
type RatesArgs struct {
	Target   *string
	AsOf     *model.Time
	Source   *string
	RateType *model.RateType
	Limit    *int32
	Offset   *int32
	Base     string
}

// Resolver holds the query dependencies.
// Storage is optional, and backs the stored rate queries
type Resolver struct {
	Conversions Conversions
	Currencies  currency.Resolver
	Storage     storage.Storage

	logger *slog.Logger
}

type Option func(r *Resolver)

// WithLogger specifies the logger for unexpected resolver errors
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithStorage enables the stored rate queries
func WithStorage(s storage.Storage) Option {
	return func(r *Resolver) {
		r.Storage = s
	}
}

func NewResolver(conversions Conversions, currencies currency.Resolver, opts ...Option) *Resolver {
	r := &Resolver{
		Conversions: conversions,
		Currencies:  currencies,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Query returns the root Query resolver
func (r *Resolver) Query() QueryResolver {
	return &queryResolver{r}
}

type queryResolver struct{ *Resolver }
