package convert

import (
	"log/slog"

	"github.com/sig-0/fxconvert/currency"
)

type Option func(c *Conversions)

// WithLogger specifies the logger for the facade
func WithLogger(l *slog.Logger) Option {
	return func(c *Conversions) {
		c.logger = l
	}
}

// WithResolver specifies the currency code resolver.
// Defaults to the process-wide currency registry
func WithResolver(r currency.Resolver) Option {
	return func(c *Conversions) {
		c.resolver = r
	}
}
