package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (e *englishGreeter) Greet() string {
	return "hello"
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil implementation", func(t *testing.T) {
		t.Parallel()

		var (
			r    = NewRegistry()
			impl *englishGreeter
		)

		assert.ErrorIs(t, Register[greeter](r, nil), ErrNilService)
		assert.ErrorIs(t, Register[greeter](r, impl), ErrNilService)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		require.NoError(t, Register[greeter](r, &englishGreeter{}))
		assert.ErrorIs(t, Register[greeter](r, &englishGreeter{}), ErrAlreadyRegistered)
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("nothing registered", func(t *testing.T) {
		t.Parallel()

		impl, ok := Lookup[greeter](NewRegistry())

		assert.False(t, ok)
		assert.Nil(t, impl)
	})

	t.Run("registered implementation", func(t *testing.T) {
		t.Parallel()

		var (
			r        = NewRegistry()
			expected = &englishGreeter{}
		)

		require.NoError(t, Register[greeter](r, expected))

		impl, ok := Lookup[greeter](r)

		require.True(t, ok)
		assert.Same(t, expected, impl)
		assert.Equal(t, "hello", impl.Greet())
	})

	t.Run("capability is keyed by type", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		require.NoError(t, Register[*englishGreeter](r, &englishGreeter{}))

		_, ok := Lookup[greeter](r)
		assert.False(t, ok)

		_, ok = Lookup[*englishGreeter](r)
		assert.True(t, ok)
	})
}
