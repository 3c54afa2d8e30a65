package server

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/server/config"
	"github.com/sig-0/fxconvert/storage"
)

type Option func(s *Server)

// WithLogger specifies the logger for the server
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithConfig specifies the config for the server
func WithConfig(c *config.Config) Option {
	return func(s *Server) {
		s.config = c
	}
}

// WithResolver specifies the currency resolver used for path parameters
func WithResolver(r currency.Resolver) Option {
	return func(s *Server) {
		s.resolver = r
	}
}

// WithStorage enables the stored rate history endpoints
func WithStorage(st storage.Storage) Option {
	return func(s *Server) {
		s.storage = st
	}
}

// WithRegistry specifies the Prometheus registry the server
// registers its collectors with, and serves on /metrics
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}
