// Package mock provides a delegate based storage.Storage for tests
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/sig-0/fxconvert/storage"
	"github.com/sig-0/fxconvert/storage/types"
)

var _ storage.Storage = (*Storage)(nil)

type (
	saveDelegate       func(context.Context, *types.ExchangeRate) error
	rateAsOfDelegate   func(context.Context, *types.RateQuery, time.Time) (*types.Page[*types.ExchangeRate], error)
	sourcesDelegate    func(context.Context) ([]types.Source, error)
	currenciesDelegate func(context.Context) ([]types.Currency, error)
)

// Storage routes each call to its delegate, when set.
// Accepted saves are recorded, and are available through Saved
type Storage struct {
	SaveExchangeRateFn saveDelegate
	RateAsOfFn         rateAsOfDelegate
	ListSourcesFn      sourcesDelegate
	ListCurrenciesFn   currenciesDelegate

	saved []types.ExchangeRate
	mu    sync.Mutex
}

func (m *Storage) SaveExchangeRate(ctx context.Context, rate *types.ExchangeRate) error {
	if m.SaveExchangeRateFn != nil {
		if err := m.SaveExchangeRateFn(ctx, rate); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.saved = append(m.saved, *rate)

	return nil
}

// Saved returns copies of the accepted rates, in save order
func (m *Storage) Saved() []types.ExchangeRate {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.ExchangeRate, len(m.saved))
	copy(out, m.saved)

	return out
}

func (m *Storage) RateAsOf(
	ctx context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Page[*types.ExchangeRate], error) {
	if m.RateAsOfFn == nil {
		return &types.Page[*types.ExchangeRate]{}, nil
	}

	return m.RateAsOfFn(ctx, query, asOf)
}

func (m *Storage) ListSources(ctx context.Context) ([]types.Source, error) {
	if m.ListSourcesFn == nil {
		return []types.Source{}, nil
	}

	return m.ListSourcesFn(ctx)
}

func (m *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	if m.ListCurrenciesFn == nil {
		return []types.Currency{}, nil
	}

	return m.ListCurrenciesFn(ctx)
}
