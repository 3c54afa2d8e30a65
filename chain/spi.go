// Package chain is a conversion SPI that resolves provider chains
// over a set of registered, named exchange rate providers
package chain

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/sig-0/fxconvert/convert"
)

var (
	errInvalidProvider   = errors.New("invalid provider")
	errDuplicateProvider = errors.New("provider already registered")
)

// SPI is the provider chain conversion SPI
type SPI struct {
	logger *slog.Logger

	providers    map[string]convert.ExchangeRateProvider
	defaultChain []string

	mu sync.RWMutex
}

var _ convert.SPI = (*SPI)(nil)

// New creates a new chain SPI with no registered providers
func New(opts ...Option) *SPI {
	s := &SPI{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		providers:    make(map[string]convert.ExchangeRateProvider),
		defaultChain: []string{},
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register registers a new rate provider under its name
func (s *SPI) Register(p convert.ExchangeRateProvider) error {
	if p == nil || p.Name() == "" {
		return errInvalidProvider
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.providers[p.Name()]; exists {
		return fmt.Errorf("%w: %s", errDuplicateProvider, p.Name())
	}

	s.providers[p.Name()] = p

	s.logger.Info(
		"registered rate provider",
		"name", p.Name(),
	)

	return nil
}

// Conversion implements convert.SPI
func (s *SPI) Conversion(q *convert.Query) (convert.CurrencyConversion, error) {
	if q.TermCurrency().IsZero() {
		return nil, fmt.Errorf("%w: term currency is not set", convert.ErrInvalidArgument)
	}

	provider, err := s.ExchangeRateProvider(q)
	if err != nil {
		return nil, err
	}

	return NewConversion(q.TermCurrency(), provider, q.RateTypes()...), nil
}

// IsConversionAvailable implements convert.SPI
func (s *SPI) IsConversionAvailable(q *convert.Query) bool {
	_, err := s.Conversion(q)

	return err == nil
}

// ExchangeRateProvider implements convert.SPI.
// Unknown chain members are skipped, the call fails only
// if none of them are registered
func (s *SPI) ExchangeRateProvider(q *convert.Query) (convert.ExchangeRateProvider, error) {
	names := q.ProviderNames()
	if len(names) == 0 {
		names = s.DefaultProviderChain()
	}

	s.mu.RLock()

	resolved := make([]convert.ExchangeRateProvider, 0, len(names))

	for _, name := range names {
		p, ok := s.providers[name]
		if !ok {
			s.logger.Debug(
				"skipping unknown provider",
				"name", name,
			)

			continue
		}

		resolved = append(resolved, p)
	}

	s.mu.RUnlock()

	switch len(resolved) {
	case 0:
		return nil, fmt.Errorf("%w: %v", convert.ErrNoSuchProvider, names)
	case 1:
		return resolved[0], nil
	default:
		return newCompoundProvider(resolved), nil
	}
}

// IsExchangeRateProviderAvailable implements convert.SPI
func (s *SPI) IsExchangeRateProviderAvailable(q *convert.Query) bool {
	_, err := s.ExchangeRateProvider(q)

	return err == nil
}

// ProviderNames implements convert.SPI
func (s *SPI) ProviderNames() []string {
	s.mu.RLock()

	out := make([]string, 0, len(s.providers))
	for name := range s.providers {
		out = append(out, name)
	}

	s.mu.RUnlock()

	sort.Strings(out)

	return out
}

// DefaultProviderChain implements convert.SPI
func (s *SPI) DefaultProviderChain() []string {
	return slices.Clone(s.defaultChain)
}
