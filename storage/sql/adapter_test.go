package sql

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxconvert/storage/types"
)

func TestNumeric_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, value := range []float64{0, 1, 1.0834, 0.00012345, 157.42, 36.5872} {
		assert.InDelta(t, value, numericToFloat(floatToNumeric(value)), 1e-8)
	}
}

func TestNumeric_PositiveExponent(t *testing.T) {
	t.Parallel()

	n := pgtype.Numeric{Int: big.NewInt(15), Exp: 2, Valid: true}

	assert.InDelta(t, 1500, numericToFloat(n), 1e-9)
}

func TestParseExchangeRate(t *testing.T) {
	t.Parallel()

	t.Run("invalid rate", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, parseExchangeRate(&rateRow{}))
	})

	t.Run("valid row", func(t *testing.T) {
		t.Parallel()

		asOf := time.Date(2026, time.January, 10, 16, 0, 0, 0, time.UTC)

		rate := parseExchangeRate(&rateRow{
			AsOf:      timeToTimestampz(asOf),
			FetchedAt: pgtype.Timestamptz{},
			Rate:      floatToNumeric(1.0834),
			Base:      "EUR",
			Target:    "USD",
			RateType:  "MID",
			Source:    "ECB",
		})

		require.NotNil(t, rate)

		assert.Equal(t, types.Currency("EUR"), rate.Base)
		assert.Equal(t, types.Currency("USD"), rate.Target)
		assert.Equal(t, types.RateTypeMID, rate.RateType)
		assert.Equal(t, types.Source("ECB"), rate.Source)
		assert.InDelta(t, 1.0834, rate.Rate, 1e-9)
		assert.Equal(t, asOf, rate.AsOf)
		assert.True(t, rate.FetchedAt.IsZero())
	})
}

func TestOptional(t *testing.T) {
	t.Parallel()

	assert.Nil(t, optional[types.Source](nil))

	src := types.Source("ECB")
	out := optional(&src)

	require.NotNil(t, out)
	assert.Equal(t, "ECB", *out)
}
