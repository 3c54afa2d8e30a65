// Package ecb provides the European Central Bank reference rate
// ingestion provider.
//
// Source: "ECB"
// URL: https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml
// Interval: 6 hours
//
// The ECB publishes EUR based MID rates once per working day, around 16:00 CET.
// The effective date (AsOf) is parsed from the "time" attribute of the
// enclosing Cube element.
package ecb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/storage/types"
)

// DailyURL is the ECB daily reference rates document
const DailyURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

var (
	errInvalidRate = errors.New("invalid rate")
	errNoRates     = errors.New("no rates found in document")
)

var Source types.Source = "ECB"

// Provider is the ECB reference rate provider
type Provider struct {
	client *http.Client
	url    string
}

// NewProvider creates a new instance of the ECB provider
func NewProvider(url string, timeout time.Duration) *Provider {
	return &Provider{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

func (p *Provider) Name() string {
	return Source.String()
}

func (p *Provider) Interval() time.Duration {
	return time.Hour * 6 // published once per working day
}

func (p *Provider) Fetch(ctx context.Context) ([]*types.ExchangeRate, error) {
	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	// Execute the request
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	// Construct document for parsing
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	return parseRates(doc, time.Now().UTC())
}

// parseRates extracts the EUR based rates from the reference rate document.
// Element names are lower-cased by the parser
func parseRates(doc *goquery.Document, fetchTime time.Time) ([]*types.ExchangeRate, error) {
	effectiveDate := fetchTime

	if raw, ok := doc.Find("cube[time]").First().Attr("time"); ok {
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("unable to parse effective date %q: %w", raw, err)
		}

		effectiveDate = t.UTC()
	}

	var (
		base          = types.CurrencyOf(currency.EUR)
		exchangeRates = make([]*types.ExchangeRate, 0)
	)

	doc.Find("cube[currency][rate]").Each(func(_ int, sel *goquery.Selection) {
		code, _ := sel.Attr("currency")
		rawRate, _ := sel.Attr("rate")

		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return
		}

		rate, err := parseRate(rawRate)
		if err != nil {
			return
		}

		exchangeRates = append(exchangeRates, &types.ExchangeRate{
			AsOf:      effectiveDate,
			FetchedAt: fetchTime,
			Base:      base,
			Target:    types.Currency(code),
			RateType:  types.RateTypeMID,
			Source:    Source,
			Rate:      rate,
		})
	})

	if len(exchangeRates) == 0 {
		return nil, errNoRates
	}

	return exchangeRates, nil
}

// parseRate parses a dot-decimal rate value
func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errInvalidRate
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse rate %q: %w", s, err)
	}

	if f <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidRate, s)
	}

	return f, nil
}
