package ingest

import (
	"context"
	"time"

	"github.com/sig-0/fxconvert/storage/types"
)

type fetchDelegate func(context.Context) ([]*types.ExchangeRate, error)

// mockProvider is a static ingestion provider, with a configurable fetch
type mockProvider struct {
	fetchFn  fetchDelegate
	name     string
	interval time.Duration
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Interval() time.Duration {
	return m.interval
}

func (m *mockProvider) Fetch(ctx context.Context) ([]*types.ExchangeRate, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}

	return nil, nil
}
