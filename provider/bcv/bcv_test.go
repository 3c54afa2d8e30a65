package bcv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxconvert/storage/types"
)

const ratesPage = `<!doctype html>
<html>
<body>
	<div id="dolar">
		<div class="field-content">
			<div class="col-sm-6 col-xs-6"><span>USD</span></div>
			<div class="col-sm-6 col-xs-6 centrado"><strong> 52,43210000 </strong></div>
		</div>
	</div>
	<div id="euro">
		<div class="field-content">
			<div class="centrado"><strong>1.061,2345</strong></div>
		</div>
	</div>
	<div id="yuan">
		<div class="col-sm-6 col-xs-6 centrado"><strong>n/d</strong></div>
	</div>
	<div class="pull-right dinpro center">
		Fecha Valor:
		<span class="date-display-single" property="dc:date" content="2026-01-13T00:00:00-04:00">Martes, 13 Enero 2026</span>
	</div>
</body>
</html>`

func newDocument(t *testing.T, raw string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	require.NoError(t, err)

	return doc
}

func TestProvider_ParseRates(t *testing.T) {
	t.Parallel()

	t.Run("rates page", func(t *testing.T) {
		t.Parallel()

		var (
			fetchTime = time.Date(2026, time.January, 13, 12, 0, 0, 0, time.UTC)
			asOf      = time.Date(2026, time.January, 13, 4, 0, 0, 0, time.UTC)
		)

		rates, err := NewProvider(DefaultURL, time.Second).parseRates(newDocument(t, ratesPage), fetchTime)
		require.NoError(t, err)

		// The unparsable and missing sections are skipped
		require.Len(t, rates, 2)

		expected := map[types.Currency]float64{
			"USD": 52.4321,
			"EUR": 1061.2345,
		}

		for _, rate := range rates {
			assert.Equal(t, types.Currency("VES"), rate.Target)
			assert.Equal(t, Source, rate.Source)
			assert.Equal(t, types.RateTypeMID, rate.RateType)
			assert.True(t, asOf.Equal(rate.AsOf))
			assert.Equal(t, fetchTime, rate.FetchedAt)
			assert.InDelta(t, expected[rate.Base], rate.Rate, 1e-9)
		}
	})

	t.Run("no rates", func(t *testing.T) {
		t.Parallel()

		_, err := NewProvider(DefaultURL, time.Second).parseRates(
			newDocument(t, "<html><body></body></html>"),
			time.Now(),
		)

		assert.ErrorIs(t, err, errNoRates)
	})

	t.Run("missing date uses the fetch time", func(t *testing.T) {
		t.Parallel()

		fetchTime := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

		rates, err := NewProvider(DefaultURL, time.Second).parseRates(
			newDocument(t, `<div id="dolar"><div class="centrado">40,5</div></div>`),
			fetchTime,
		)
		require.NoError(t, err)
		require.Len(t, rates, 1)

		assert.Equal(t, fetchTime, rates[0].AsOf)
	})
}

func TestParseEffectiveDate(t *testing.T) {
	t.Parallel()

	t.Run("rendered text fallback", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `<span class="date-display-single">Lunes, 2 Septiembre 2024</span>`)

		asOf, ok := parseEffectiveDate(doc)
		require.True(t, ok)

		assert.Equal(t, time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC), asOf)
	})

	t.Run("missing date", func(t *testing.T) {
		t.Parallel()

		_, ok := parseEffectiveDate(newDocument(t, `<p>nothing</p>`))

		assert.False(t, ok)
	})
}

func TestParseSpanishDate(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected time.Time
		valid    bool
	}{
		{
			name:     "with weekday",
			input:    "Martes, 13 Enero 2026",
			expected: time.Date(2026, time.January, 13, 0, 0, 0, 0, time.UTC),
			valid:    true,
		},
		{
			name:     "without weekday",
			input:    "1 setiembre 2025",
			expected: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			valid:    true,
		},
		{
			name:  "unknown month",
			input: "13 January 2026",
		},
		{
			name:  "too short",
			input: "13 Enero",
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			parsed, err := parseSpanishDate(testCase.input)

			if !testCase.valid {
				assert.ErrorIs(t, err, errInvalidDate)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, parsed)
		})
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	v, err := parseNumber(" 1.234,56 ")
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, v, 1e-9)

	_, err = parseNumber("")
	assert.ErrorIs(t, err, errInvalidRate)

	_, err = parseNumber("0,00")
	assert.ErrorIs(t, err, errInvalidRate)

	_, err = parseNumber("n/d")
	assert.Error(t, err)
}

func TestProvider_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(ratesPage))
		}))
		defer srv.Close()

		p := NewProvider(srv.URL, time.Second*5)

		assert.Equal(t, "BCV", p.Name())
		assert.Equal(t, time.Hour*24, p.Interval())

		rates, err := p.Fetch(context.Background())
		require.NoError(t, err)
		assert.Len(t, rates, 2)
	})

	t.Run("bad status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewProvider(srv.URL, time.Second*5).Fetch(context.Background())

		assert.Error(t, err)
	})
}
