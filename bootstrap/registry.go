// Package bootstrap is the service discovery mechanism used by the
// conversion facade. Implementations are registered explicitly, per
// capability type, and at most one implementation can be bound
// to a capability.
package bootstrap

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrNilService        = errors.New("nil service implementation")
	ErrAlreadyRegistered = errors.New("capability already has a registered implementation")
)

// Locator looks up the implementation bound to a capability type
type Locator interface {
	// Service returns the implementation for the capability, if any
	Service(capability reflect.Type) (any, bool)
}

// Registry is a capability type -> implementation binding
type Registry struct {
	services map[reflect.Type]any

	mu sync.RWMutex
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[reflect.Type]any),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// Service implements Locator
func (r *Registry) Service(capability reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	impl, ok := r.services[capability]

	return impl, ok
}

func (r *Registry) bind(capability reflect.Type, impl any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[capability]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, capability)
	}

	r.services[capability] = impl

	return nil
}

// Register binds impl as the sole implementation of capability T
func Register[T any](r *Registry, impl T) error {
	if isNil(impl) {
		return ErrNilService
	}

	return r.bind(reflect.TypeFor[T](), impl)
}

// Lookup returns the implementation bound to capability T, if any
func Lookup[T any](l Locator) (T, bool) {
	var zero T

	raw, ok := l.Service(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}

	impl, ok := raw.(T)
	if !ok {
		return zero, false
	}

	return impl, true
}

// isNil checks for both untyped and typed nil values
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
