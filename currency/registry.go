package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidCode     = errors.New("invalid currency code (must be 3-4 letters A-Z)")
)

// Resolver resolves currency codes into units
type Resolver interface {
	// Resolve returns the unit for the given code
	Resolve(code string) (Unit, error)
}

// Registry is a thread-safe set of known currency units, keyed by code
type Registry struct {
	units map[string]Unit

	mu sync.RWMutex
}

// NewRegistry creates a new registry with the given units.
// Codes are normalized as in Register, and units with invalid codes are skipped
func NewRegistry(units ...Unit) *Registry {
	r := &Registry{
		units: make(map[string]Unit, len(units)),
	}

	for _, u := range units {
		_ = r.Register(u) //nolint:errcheck // Invalid units are skipped
	}

	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry,
// pre-populated with the common ISO-4217 currencies
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(isoUnits...)
	})

	return defaultRegistry
}

// Register adds the unit to the registry, replacing any unit with the same code
func (r *Registry) Register(u Unit) error {
	code, err := normalizeCode(u.code)
	if err != nil {
		return err
	}

	u.code = code

	r.mu.Lock()
	r.units[code] = u
	r.mu.Unlock()

	return nil
}

// Resolve returns the unit for the given code (case-insensitive)
func (r *Registry) Resolve(code string) (Unit, error) {
	normalized, err := normalizeCode(code)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: %q", err, code)
	}

	r.mu.RLock()
	u, ok := r.units[normalized]
	r.mu.RUnlock()

	if !ok {
		return Unit{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, normalized)
	}

	return u, nil
}

// Units returns all registered units, sorted by code
func (r *Registry) Units() []Unit {
	r.mu.RLock()

	out := make([]Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}

	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].code < out[j].code
	})

	return out
}

// normalizeCode upper-cases and validates the currency code
func normalizeCode(v string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) < 3 || len(s) > 4 {
		return "", ErrInvalidCode
	}

	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", ErrInvalidCode
		}
	}

	return s, nil
}
