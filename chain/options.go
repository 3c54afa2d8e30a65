package chain

import (
	"log/slog"
	"slices"
)

type Option func(s *SPI)

// WithLogger specifies the logger for the SPI
func WithLogger(l *slog.Logger) Option {
	return func(s *SPI) {
		s.logger = l
	}
}

// WithDefaultChain specifies the provider chain used
// when a query names no providers
func WithDefaultChain(names ...string) Option {
	return func(s *SPI) {
		s.defaultChain = slices.Clone(names)
		if s.defaultChain == nil {
			s.defaultChain = []string{}
		}
	}
}
