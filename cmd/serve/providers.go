package serve

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/ingest"
	"github.com/sig-0/fxconvert/provider/bcv"
	"github.com/sig-0/fxconvert/provider/ecb"
	"github.com/sig-0/fxconvert/provider/fixed"
	"github.com/sig-0/fxconvert/server/config"
)

// ingestProviders returns the configured ingestion providers
func ingestProviders(cfg *config.Config, logger *slog.Logger) []ingest.Provider {
	providers := make([]ingest.Provider, 0, 2)

	// Official ECB reference rates
	if cfg.ECBURL != "" {
		providers = append(providers, ecb.NewProvider(cfg.ECBURL, time.Second*30))
	}

	// Official BCV (VES) rates
	if cfg.BCVURL != "" {
		providers = append(providers, bcv.NewProvider(cfg.BCVURL, time.Second*30, bcv.WithLogger(logger)))
	}

	return providers
}

// fixedProvider creates the provider for the statically configured rates
func fixedProvider(cfg *config.Config, resolver currency.Resolver) (*fixed.Provider, error) {
	rates := make([]fixed.Rate, 0, len(cfg.FixedRates))

	for _, r := range cfg.FixedRates {
		base, err := resolver.Resolve(r.Base)
		if err != nil {
			return nil, fmt.Errorf("invalid fixed rate base: %w", err)
		}

		term, err := resolver.Resolve(r.Target)
		if err != nil {
			return nil, fmt.Errorf("invalid fixed rate target: %w", err)
		}

		rates = append(rates, fixed.Rate{
			Base:   base,
			Term:   term,
			Factor: r.Rate,
		})
	}

	return fixed.NewProvider(fixed.DefaultName, rates...)
}
