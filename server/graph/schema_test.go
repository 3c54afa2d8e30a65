package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxconvert/bootstrap"
	"github.com/sig-0/fxconvert/chain"
	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/provider/fixed"
	"github.com/sig-0/fxconvert/storage/mock"
	"github.com/sig-0/fxconvert/storage/types"
)

type gqlError struct {
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
	Message string `json:"message"`
	Path    []any  `json:"path"`
}

type gqlResponse[T any] struct {
	Data   T          `json:"data"`
	Errors []gqlError `json:"errors"`
}

// newTestConversions creates a facade over a chain with two fixed providers:
// FIXED (USD -> EUR 0.5) and BACKUP (USD -> GBP 0.25), FIXED being the default
func newTestConversions(t *testing.T) *convert.Conversions {
	t.Helper()

	primary, err := fixed.NewProvider(fixed.DefaultName, fixed.Rate{
		Base:   currency.USD,
		Term:   currency.EUR,
		Factor: 0.5,
	})
	require.NoError(t, err)

	backup, err := fixed.NewProvider("BACKUP", fixed.Rate{
		Base:   currency.USD,
		Term:   currency.GBP,
		Factor: 0.25,
	})
	require.NoError(t, err)

	spi := chain.New(chain.WithDefaultChain(fixed.DefaultName))

	require.NoError(t, spi.Register(primary))
	require.NoError(t, spi.Register(backup))

	registry := bootstrap.NewRegistry()
	require.NoError(t, bootstrap.Register[convert.SPI](registry, spi))

	return convert.New(registry)
}

func newTestRouter(t *testing.T, opts ...Option) *chi.Mux {
	t.Helper()

	m := chi.NewMux()

	Setup(NewResolver(newTestConversions(t), currency.DefaultRegistry(), opts...), m)

	return m
}

// query posts the query to the router, and decodes the response
func query[T any](
	t *testing.T,
	m http.Handler,
	q string,
	variables map[string]any,
) gqlResponse[T] {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"query":     q,
		"variables": variables,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, QueryPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	m.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp gqlResponse[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	return resp
}

func TestQuery_Providers(t *testing.T) {
	t.Parallel()

	resp := query[struct {
		Typename  string `json:"__typename"`
		Providers struct {
			Names        []string `json:"names"`
			DefaultChain []string `json:"defaultChain"`
		} `json:"all"`
	}](t, newTestRouter(t), `{ __typename all: providers { names defaultChain } }`, nil)

	require.Empty(t, resp.Errors)

	assert.Equal(t, "Query", resp.Data.Typename)
	assert.Equal(t, []string{"BACKUP", "FIXED"}, resp.Data.Providers.Names)
	assert.Equal(t, []string{"FIXED"}, resp.Data.Providers.DefaultChain)
}

func TestQuery_Rate(t *testing.T) {
	t.Parallel()

	type rateData struct {
		Rate *struct {
			AsOf     *string `json:"asOf"`
			Base     string  `json:"base"`
			Term     string  `json:"term"`
			Provider string  `json:"provider"`
			RateType string  `json:"rateType"`
			Factor   float64 `json:"factor"`
		} `json:"rate"`
	}

	const rateQuery = `query($base: String!, $target: String!, $providers: [String!]) {
		rate(base: $base, target: $target, providers: $providers) {
			base term factor provider rateType asOf
		}
	}`

	t.Run("default chain", func(t *testing.T) {
		t.Parallel()

		resp := query[rateData](t, newTestRouter(t), rateQuery, map[string]any{
			"base":   "usd",
			"target": "EUR",
		})

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Data.Rate)

		assert.Equal(t, "USD", resp.Data.Rate.Base)
		assert.Equal(t, "EUR", resp.Data.Rate.Term)
		assert.Equal(t, 0.5, resp.Data.Rate.Factor)
		assert.Equal(t, "MID", resp.Data.Rate.RateType)
		assert.NotEmpty(t, resp.Data.Rate.Provider)
	})

	t.Run("explicit chain falls back", func(t *testing.T) {
		t.Parallel()

		resp := query[rateData](t, newTestRouter(t), rateQuery, map[string]any{
			"base":      "USD",
			"target":    "GBP",
			"providers": []string{"FIXED", "BACKUP"},
		})

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Data.Rate)

		assert.Equal(t, 0.25, resp.Data.Rate.Factor)
	})

	t.Run("identity rate", func(t *testing.T) {
		t.Parallel()

		resp := query[rateData](t, newTestRouter(t), rateQuery, map[string]any{
			"base":   "JPY",
			"target": "jpy",
		})

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Data.Rate)

		assert.Equal(t, float64(1), resp.Data.Rate.Factor)
		assert.Nil(t, resp.Data.Rate.AsOf)
	})

	testTable := []struct {
		variables map[string]any
		name      string
		code      string
	}{
		{
			name:      "unknown currency",
			variables: map[string]any{"base": "USD", "target": "XXX"},
			code:      codeBadRequest,
		},
		{
			name:      "unknown provider",
			variables: map[string]any{"base": "USD", "target": "EUR", "providers": []string{"IMF"}},
			code:      codeNotFound,
		},
		{
			name:      "rate not in default chain",
			variables: map[string]any{"base": "USD", "target": "GBP"},
			code:      codeNotFound,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			resp := query[rateData](t, newTestRouter(t), rateQuery, testCase.variables)

			assert.Nil(t, resp.Data.Rate)

			require.Len(t, resp.Errors, 1)
			assert.Equal(t, testCase.code, resp.Errors[0].Extensions.Code)
			assert.Equal(t, []any{"rate"}, resp.Errors[0].Path)
		})
	}
}

func TestQuery_Convert(t *testing.T) {
	t.Parallel()

	type amount struct {
		Currency string  `json:"currency"`
		Number   float64 `json:"number"`
	}

	type convertData struct {
		Convert *struct {
			From amount `json:"from"`
			To   amount `json:"to"`
		} `json:"convert"`
	}

	t.Run("converts the amount", func(t *testing.T) {
		t.Parallel()

		resp := query[convertData](
			t,
			newTestRouter(t),
			`query($amount: Float!) {
				convert(base: "USD", target: "EUR", amount: $amount) {
					from { currency number }
					to { currency number }
				}
			}`,
			map[string]any{"amount": 10},
		)

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Data.Convert)

		assert.Equal(t, amount{Currency: "USD", Number: 10}, resp.Data.Convert.From)
		assert.Equal(t, amount{Currency: "EUR", Number: 5}, resp.Data.Convert.To)
	})

	t.Run("overflowing result", func(t *testing.T) {
		t.Parallel()

		resp := query[convertData](
			t,
			newTestRouter(t),
			`{ convert(base: "EUR", target: "USD", amount: 1e308) { to { number } } }`,
			nil,
		)

		assert.Nil(t, resp.Data.Convert)

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, codeBadRequest, resp.Errors[0].Extensions.Code)
	})
}

func TestQuery_ConversionAvailable(t *testing.T) {
	t.Parallel()

	resp := query[struct {
		Default struct {
			Target    string   `json:"target"`
			Providers []string `json:"providers"`
			Available bool     `json:"available"`
		} `json:"default"`
		Explicit struct {
			Available bool `json:"available"`
		} `json:"explicit"`
	}](
		t,
		newTestRouter(t),
		`{
			default: conversionAvailable(target: "eur") { target providers available }
			explicit: conversionAvailable(target: "EUR", providers: ["IMF"]) { available }
		}`,
		nil,
	)

	require.Empty(t, resp.Errors)

	assert.Equal(t, "EUR", resp.Data.Default.Target)
	assert.Equal(t, []string{fixed.DefaultName}, resp.Data.Default.Providers)
	assert.True(t, resp.Data.Default.Available)
	assert.False(t, resp.Data.Explicit.Available)
}

func TestQuery_Rates(t *testing.T) {
	t.Parallel()

	type ratesData struct {
		Rates *struct {
			Results []struct {
				AsOf   string  `json:"asOf"`
				Base   string  `json:"base"`
				Target string  `json:"target"`
				Source string  `json:"source"`
				Rate   float64 `json:"rate"`
			} `json:"results"`
			Total int `json:"total"`
		} `json:"rates"`
	}

	t.Run("stored rates", func(t *testing.T) {
		t.Parallel()

		var (
			capturedQuery *types.RateQuery
			capturedAsOf  time.Time

			asOf = time.Date(2026, time.January, 13, 0, 0, 0, 0, time.UTC)
		)

		storage := &mock.Storage{
			RateAsOfFn: func(
				_ context.Context,
				q *types.RateQuery,
				at time.Time,
			) (*types.Page[*types.ExchangeRate], error) {
				capturedQuery = q
				capturedAsOf = at

				return &types.Page[*types.ExchangeRate]{
					Results: []*types.ExchangeRate{
						{
							AsOf:     asOf,
							Base:     "EUR",
							Target:   "USD",
							RateType: types.RateTypeMID,
							Source:   "ECB",
							Rate:     1.1,
						},
					},
					Total: 1,
				}, nil
			},
		}

		resp := query[ratesData](
			t,
			newTestRouter(t, WithStorage(storage)),
			`{
				rates(base: "eur", target: "usd", source: "ecb", type: MID, asOf: "2026-01-14T00:00:00Z") {
					results { asOf base target source rate }
					total
				}
			}`,
			nil,
		)

		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Data.Rates)
		require.Len(t, resp.Data.Rates.Results, 1)

		assert.Equal(t, 1, resp.Data.Rates.Total)
		assert.Equal(t, 1.1, resp.Data.Rates.Results[0].Rate)
		assert.Equal(t, "ECB", resp.Data.Rates.Results[0].Source)

		parsedAsOf, err := time.Parse(time.RFC3339, resp.Data.Rates.Results[0].AsOf)
		require.NoError(t, err)
		assert.True(t, asOf.Equal(parsedAsOf))

		require.NotNil(t, capturedQuery)

		assert.Equal(t, types.Currency("EUR"), capturedQuery.Base)
		require.NotNil(t, capturedQuery.Target)
		assert.Equal(t, types.Currency("USD"), *capturedQuery.Target)
		require.NotNil(t, capturedQuery.Source)
		assert.Equal(t, types.Source("ECB"), *capturedQuery.Source)
		require.NotNil(t, capturedQuery.RateType)
		assert.Equal(t, types.RateTypeMID, *capturedQuery.RateType)
		assert.Equal(t, defaultLimit, capturedQuery.Limit)
		assert.Equal(t, int64(0), capturedQuery.Offset)
		assert.Equal(t, time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC), capturedAsOf)
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()

		resp := query[ratesData](
			t,
			newTestRouter(t, WithStorage(&mock.Storage{})),
			`{ rates(base: "EUR", limit: -1) { total } }`,
			nil,
		)

		assert.Nil(t, resp.Data.Rates)

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, codeBadRequest, resp.Errors[0].Extensions.Code)
	})

	t.Run("storage not configured", func(t *testing.T) {
		t.Parallel()

		resp := query[ratesData](t, newTestRouter(t), `{ rates(base: "EUR") { total } }`, nil)

		assert.Nil(t, resp.Data.Rates)

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, codeNotConfigured, resp.Errors[0].Extensions.Code)
	})
}

func TestQuery_SourcesAndCurrencies(t *testing.T) {
	t.Parallel()

	type listData struct {
		Sources    []string `json:"sources"`
		Currencies []string `json:"currencies"`
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListSourcesFn: func(_ context.Context) ([]types.Source, error) {
				return []types.Source{"BCV", "ECB"}, nil
			},
			ListCurrenciesFn: func(_ context.Context) ([]types.Currency, error) {
				return []types.Currency{"EUR", "USD"}, nil
			},
		}

		resp := query[listData](
			t,
			newTestRouter(t, WithStorage(storage)),
			`{ sources currencies }`,
			nil,
		)

		require.Empty(t, resp.Errors)

		assert.Equal(t, []string{"BCV", "ECB"}, resp.Data.Sources)
		assert.Equal(t, []string{"EUR", "USD"}, resp.Data.Currencies)
	})

	t.Run("storage error is not exposed", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListSourcesFn: func(_ context.Context) ([]types.Source, error) {
				return nil, errors.New("connection refused")
			},
		}

		resp := query[listData](
			t,
			newTestRouter(t, WithStorage(storage)),
			`{ sources currencies }`,
			nil,
		)

		assert.Nil(t, resp.Data.Sources)
		assert.Empty(t, resp.Data.Currencies)

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, codeInternal, resp.Errors[0].Extensions.Code)
		assert.Equal(t, errUnableToResolve.Error(), resp.Errors[0].Message)
		assert.Equal(t, []any{"sources"}, resp.Errors[0].Path)
	})
}

func TestSetup_Playground(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, PlaygroundPath, http.NoBody)
	w := httptest.NewRecorder()

	newTestRouter(t).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fxconvert: GraphQL playground")
}
