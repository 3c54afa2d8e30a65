package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/server/config"
	"github.com/sig-0/fxconvert/server/graph"
	"github.com/sig-0/fxconvert/storage"
)

// RoutesFn is a callback that receives a router for registering routes
type RoutesFn func(router chi.Router)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Conversions is the conversion facade surface served over HTTP
type Conversions interface {
	ConversionByCode(termCode string, providers ...string) (convert.CurrencyConversion, error)
	IsConversionAvailableByCode(termCode string, providers ...string) (bool, error)
	ExchangeRateProvider(providers ...string) (convert.ExchangeRateProvider, error)
	ProviderNames() ([]string, error)
	DefaultProviderChain() ([]string, error)
}

type Server struct {
	logger   *slog.Logger
	config   *config.Config
	resolver currency.Resolver
	registry *prometheus.Registry
	metrics  *metrics

	conversions Conversions
	storage     storage.Storage // optional, serves the rate history

	mux *chi.Mux
}

// New creates a new server instance
func New(conversions Conversions, opts ...Option) (*Server, error) {
	s := &Server{
		logger:      noopLogger,
		config:      config.DefaultConfig(),
		resolver:    currency.DefaultRegistry(),
		registry:    prometheus.NewRegistry(),
		conversions: conversions,
		mux:         chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	s.metrics = newMetrics(s.registry)

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(r *http.Request, respStatus int) bool {
			return respStatus == 404 ||
				respStatus == 405 ||
				r.URL.Path == "/health" ||
				r.URL.Path == "/metrics"
		},
	}))

	s.mux.Use(s.metrics.middleware)

	// Register the health check handler
	s.mux.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	// Register the metrics handler
	s.mux.Method(
		http.MethodGet,
		"/metrics",
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}),
	)

	// Register the API description handlers
	s.mux.Get("/openapi.yaml", s.OpenAPI)
	s.mux.Get("/docs", s.Docs)

	// Register the GraphQL handlers
	graphOpts := []graph.Option{graph.WithLogger(s.logger)}
	if s.storage != nil {
		graphOpts = append(graphOpts, graph.WithStorage(s.storage))
	}

	graph.Setup(graph.NewResolver(s.conversions, s.resolver, graphOpts...), s.mux)

	// Register the conversion handlers
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/providers", s.Providers)
		r.Get("/rates/{base}/{target}", s.Rate)
		r.Get("/convert/{base}/{target}", s.Convert)
		r.Get("/conversions/{target}", s.Availability)

		if s.storage == nil {
			return
		}

		// Register the stored rate history handlers
		r.Get("/history/{base}", s.HistoryForBase)
		r.Get("/history/{base}/{target}", s.HistoryForPair)
		r.Get("/sources", s.Sources)
		r.Get("/currencies", s.Currencies)
	})

	return s, nil
}

// Routes calls fn with the server mux so callers can add endpoints
func (s *Server) Routes(fn RoutesFn) {
	if fn == nil {
		return
	}

	fn(s.mux)
}

// ServeHTTP serves a single request using the server mux
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve serves the fxconvert API, until the context is cancelled
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			"server started",
			"address", ln.Addr().String(),
		)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}
