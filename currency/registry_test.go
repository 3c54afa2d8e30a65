package currency

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("known code", func(t *testing.T) {
		t.Parallel()

		u, err := DefaultRegistry().Resolve("USD")

		require.NoError(t, err)
		assert.Equal(t, USD, u)
		assert.Equal(t, 840, u.NumericCode())
		assert.Equal(t, 2, u.DefaultFractionDigits())
	})

	t.Run("normalizes input", func(t *testing.T) {
		t.Parallel()

		u, err := DefaultRegistry().Resolve("  eur ")

		require.NoError(t, err)
		assert.Equal(t, EUR, u)
	})

	t.Run("4 letter code", func(t *testing.T) {
		t.Parallel()

		u, err := DefaultRegistry().Resolve("usdt")

		require.NoError(t, err)
		assert.Equal(t, USDT, u)
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()

		_, err := DefaultRegistry().Resolve("ZZZ")

		assert.ErrorIs(t, err, ErrUnknownCurrency)
	})

	t.Run("invalid code", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{"", "US", "USDTT", "US$"} {
			_, err := DefaultRegistry().Resolve(code)

			assert.ErrorIs(t, err, ErrInvalidCode, code)
		}
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("invalid code", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()

		assert.ErrorIs(t, r.Register(NewUnit("1BC", -1, 2)), ErrInvalidCode)
	})

	t.Run("custom unit", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(USD)

		require.NoError(t, r.Register(NewUnit("xbt", -1, 8)))

		u, err := r.Resolve("XBT")
		require.NoError(t, err)

		assert.Equal(t, "XBT", u.Code())
		assert.Equal(t, 8, u.DefaultFractionDigits())
		assert.Equal(t, []Unit{USD, u}, r.Units())
	})

	t.Run("constructor normalizes codes", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(NewUnit(" xbt", -1, 8), NewUnit("1BC", -1, 2))

		u, err := r.Resolve("XBT")
		require.NoError(t, err)

		assert.Equal(t, "XBT", u.Code())

		// Invalid codes are left out
		assert.Len(t, r.Units(), 1)
	})
}

func TestAmount(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "USD 10.50", NewAmount(10.5, USD).String())
		assert.Equal(t, "JPY 1500", NewAmount(1500, JPY).String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(NewAmount(1.25, EUR))

		require.NoError(t, err)
		assert.JSONEq(t, `{"currency":"EUR","number":1.25}`, string(raw))
	})

	t.Run("zero unit", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Unit{}.IsZero())
		assert.False(t, USD.IsZero())
	})
}
