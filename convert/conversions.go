// Package convert is the access point for currency conversion services.
//
// Conversions does not implement any conversion logic. It discovers a single
// SPI implementation through a bootstrap locator, normalizes caller input into
// queries and delegates. If no SPI is discoverable, every operation fails with
// ErrNotConfigured.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sig-0/fxconvert/bootstrap"
	"github.com/sig-0/fxconvert/currency"
)

// Conversions is the conversion services facade.
// It is safe for concurrent use once constructed
type Conversions struct {
	spi      SPI
	initErr  error
	logger   *slog.Logger
	resolver currency.Resolver
}

// New creates a new facade, binding the SPI registered with the locator.
// Discovery happens exactly once
func New(locator bootstrap.Locator, opts ...Option) *Conversions {
	c := &Conversions{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		resolver: currency.DefaultRegistry(),
	}

	for _, opt := range opts {
		opt(c)
	}

	var (
		spi SPI
		ok  bool
	)

	if locator != nil {
		spi, ok = bootstrap.Lookup[SPI](locator)
	}

	if !ok {
		c.initErr = fmt.Errorf("unable to bind conversion SPI: %w", ErrNotConfigured)

		c.logger.Error(
			"conversion SPI not available",
			"err", c.initErr,
		)

		return c
	}

	c.spi = spi

	c.logger.Debug(
		"bound conversion SPI",
		"spi", fmt.Sprintf("%T", spi),
	)

	return c
}

var (
	defaultConversions *Conversions
	defaultOnce        sync.Once
)

// Default returns the process-wide facade, bound to the SPI registered
// with bootstrap.Default(). The SPI must be registered before the first call
func Default() *Conversions {
	defaultOnce.Do(func() {
		defaultConversions = New(bootstrap.Default())
	})

	return defaultConversions
}

// Conversion returns the conversion into term, using the given provider chain.
// The default provider chain is used if no providers are given
func (c *Conversions) Conversion(term currency.Unit, providers ...string) (CurrencyConversion, error) {
	q, err := c.termQuery(term, providers)
	if err != nil {
		return nil, err
	}

	return c.ConversionFor(q)
}

// ConversionByCode resolves the term currency code and returns the conversion into it
func (c *Conversions) ConversionByCode(termCode string, providers ...string) (CurrencyConversion, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	term, err := c.resolver.Resolve(termCode)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve term currency: %w", err)
	}

	return c.Conversion(term, providers...)
}

// ConversionFor returns the conversion matching the query
func (c *Conversions) ConversionFor(q *Query) (CurrencyConversion, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	if q == nil {
		return nil, fmt.Errorf("%w: nil conversion query", ErrInvalidArgument)
	}

	conversion, err := c.spi.Conversion(q)
	if err != nil {
		return nil, err
	}

	if conversion == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchProvider, q)
	}

	return conversion, nil
}

// IsConversionAvailable checks if a conversion is available for the query.
// An unavailable conversion is not an error
func (c *Conversions) IsConversionAvailable(q *Query) (bool, error) {
	if c.initErr != nil {
		return false, c.initErr
	}

	if q == nil {
		return false, fmt.Errorf("%w: nil conversion query", ErrInvalidArgument)
	}

	return c.spi.IsConversionAvailable(q), nil
}

// IsConversionAvailableFor checks if a conversion into term is available
func (c *Conversions) IsConversionAvailableFor(term currency.Unit, providers ...string) (bool, error) {
	q, err := c.termQuery(term, providers)
	if err != nil {
		return false, err
	}

	return c.IsConversionAvailable(q)
}

// IsConversionAvailableByCode resolves the term currency code and checks
// if a conversion into it is available
func (c *Conversions) IsConversionAvailableByCode(termCode string, providers ...string) (bool, error) {
	if c.initErr != nil {
		return false, c.initErr
	}

	term, err := c.resolver.Resolve(termCode)
	if err != nil {
		return false, fmt.Errorf("unable to resolve term currency: %w", err)
	}

	return c.IsConversionAvailableFor(term, providers...)
}

// ExchangeRateProvider returns the provider for the given chain.
// The default provider chain is used if no providers are given
func (c *Conversions) ExchangeRateProvider(providers ...string) (ExchangeRateProvider, error) {
	chain, err := c.providerChain(providers)
	if err != nil {
		return nil, err
	}

	q := NewQueryBuilder().
		SetProviderNames(chain...).
		Build()

	provider, err := c.ExchangeRateProviderFor(q)
	if err != nil {
		return nil, err
	}

	if provider == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchProvider, chain)
	}

	return provider, nil
}

// ExchangeRateProviderFrom returns the provider for the chain
// made up of the supplied names, in argument order.
// Nil suppliers and empty names are rejected
func (c *Conversions) ExchangeRateProviderFrom(
	first ProviderSupplier,
	rest ...ProviderSupplier,
) (ExchangeRateProvider, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	suppliers := make([]ProviderSupplier, 0, len(rest)+1)
	suppliers = append(suppliers, first)
	suppliers = append(suppliers, rest...)

	names := make([]string, 0, len(suppliers))

	for i, supplier := range suppliers {
		if supplier == nil {
			return nil, fmt.Errorf("%w: nil provider supplier at position %d", ErrInvalidArgument, i)
		}

		name := supplier.ProviderName()
		if name == "" {
			return nil, fmt.Errorf("%w: empty provider name at position %d", ErrInvalidArgument, i)
		}

		names = append(names, name)
	}

	return c.ExchangeRateProvider(names...)
}

// ExchangeRateProviderFor returns the provider matching the query
func (c *Conversions) ExchangeRateProviderFor(q *Query) (ExchangeRateProvider, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	if q == nil {
		return nil, fmt.Errorf("%w: nil conversion query", ErrInvalidArgument)
	}

	return c.spi.ExchangeRateProvider(q)
}

// IsExchangeRateProviderAvailable checks if a provider is available for the query
func (c *Conversions) IsExchangeRateProviderAvailable(q *Query) (bool, error) {
	if c.initErr != nil {
		return false, c.initErr
	}

	if q == nil {
		return false, fmt.Errorf("%w: nil conversion query", ErrInvalidArgument)
	}

	return c.spi.IsExchangeRateProviderAvailable(q), nil
}

// ProviderNames returns the names of all registered providers
func (c *Conversions) ProviderNames() ([]string, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	return c.spi.ProviderNames(), nil
}

// DefaultProviderChain returns the provider chain used
// when callers specify no providers
func (c *Conversions) DefaultProviderChain() ([]string, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	chain := c.spi.DefaultProviderChain()
	if chain == nil {
		return nil, fmt.Errorf(
			"%w: no default provider chain provided by %T",
			ErrInconsistentSPI,
			c.spi,
		)
	}

	return chain, nil
}

// termQuery builds the query for converting into term with the given providers
func (c *Conversions) termQuery(term currency.Unit, providers []string) (*Query, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	if term.IsZero() {
		return nil, fmt.Errorf("%w: term currency is not set", ErrInvalidArgument)
	}

	chain, err := c.providerChain(providers)
	if err != nil {
		return nil, err
	}

	return NewQueryBuilder().
		SetTermCurrency(term).
		SetProviderNames(chain...).
		Build(), nil
}

// providerChain returns the given providers, or the default chain if there are none
func (c *Conversions) providerChain(providers []string) ([]string, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}

	if len(providers) > 0 {
		return providers, nil
	}

	return c.DefaultProviderChain()
}
