package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxconvert/bootstrap"
	"github.com/sig-0/fxconvert/chain"
	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/ingest"
	storeprovider "github.com/sig-0/fxconvert/provider/store"
	"github.com/sig-0/fxconvert/server"
	"github.com/sig-0/fxconvert/storage"
	"github.com/sig-0/fxconvert/storage/types"
)

// run wires up the ingestion service, the conversion provider chain
// and the HTTP server over the given store, and runs them
// until the context is cancelled or a signal is received
func (c *serveCfg) run(ctx context.Context, logger *slog.Logger, store storage.Storage) error {
	resolver := currency.DefaultRegistry()

	// Create the ingestion service, and the conversion provider chain.
	// Every ingested source is served as its own rate provider
	var (
		orchestrator = ingest.New(store, ingest.WithLogger(logger))
		spi          = chain.New(
			chain.WithLogger(logger),
			chain.WithDefaultChain(c.config.DefaultProviderChain...),
		)
	)

	providers := ingestProviders(c.config, logger)

	for _, provider := range providers {
		if err := orchestrator.Register(provider); err != nil {
			return fmt.Errorf("unable to register ingestion provider: %w", err)
		}

		rateProvider := storeprovider.NewProvider(
			store,
			types.Source(provider.Name()),
			types.RateTypeMID,
		)

		if err := spi.Register(rateProvider); err != nil {
			return fmt.Errorf("unable to register rate provider: %w", err)
		}
	}

	// Register the statically configured rates
	fixedRates, err := fixedProvider(c.config, resolver)
	if err != nil {
		return fmt.Errorf("unable to create fixed rate provider: %w", err)
	}

	if err = spi.Register(fixedRates); err != nil {
		return fmt.Errorf("unable to register rate provider: %w", err)
	}

	// Make the chain discoverable by the conversion facade
	if err = bootstrap.Register[convert.SPI](bootstrap.Default(), spi); err != nil {
		return fmt.Errorf("unable to register conversion SPI: %w", err)
	}

	// Create the server instance
	s, err := server.New(
		convert.Default(),
		server.WithLogger(logger),
		server.WithConfig(c.config),
		server.WithResolver(resolver),
		server.WithStorage(store),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the ingestion service
	if len(providers) > 0 {
		group.Go(func() error {
			return orchestrator.Start(gCtx)
		})
	}

	return group.Wait()
}
