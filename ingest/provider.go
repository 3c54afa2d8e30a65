package ingest

import (
	"context"
	"time"

	"github.com/sig-0/fxconvert/storage/types"
)

// Provider is a single rate ingestion source.
// Its name is the storage source, which is also the name the
// stored rates are served under as an exchange rate provider
type Provider interface {
	// Name returns the source name
	Name() string

	// Interval returns the interval at which the provider should be called
	Interval() time.Duration

	// Fetch is the provider's main fetch job, yielding exchange rate data points
	Fetch(context.Context) ([]*types.ExchangeRate, error)
}
