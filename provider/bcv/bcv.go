// Package bcv provides the Banco Central de Venezuela official rate
// ingestion provider.
//
// Source: "BCV"
// URL: https://www.bcv.org.ve/
// Interval: 24 hours
//
// The BCV publishes VES denominated MID rates for a handful of currencies
// on its home page. Rates are stored as <currency> -> VES. The effective
// date (AsOf) is the "Fecha Valor" shown on the page.
package bcv

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/storage/types"
)

// DefaultURL is the BCV home page, which carries the official rates
const DefaultURL = "https://www.bcv.org.ve/"

var (
	errInvalidRate = errors.New("invalid rate")
	errInvalidDate = errors.New("invalid date")
	errNoRates     = errors.New("no rates found in page")
)

var Source types.Source = "BCV"

// section is a single currency block on the rates page
type section struct {
	id   string
	unit currency.Unit
}

var sections = []section{
	{id: "dolar", unit: currency.USD},
	{id: "euro", unit: currency.EUR},
	{id: "yuan", unit: currency.CNY},
	{id: "lira", unit: currency.TRY},
	{id: "rublo", unit: currency.RUB},
}

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// Provider is the BCV website scraping provider
type Provider struct {
	logger *slog.Logger
	client *http.Client
	url    string
}

type Option func(p *Provider)

// WithLogger specifies the logger for the provider
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// NewProvider creates a new instance of the BCV provider
func NewProvider(url string, timeout time.Duration, opts ...Option) *Provider {
	// The BCV site does not serve its full certificate chain
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // Fine to ignore
	}

	p := &Provider{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		client: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		url: url,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Provider) Name() string {
	return Source.String()
}

func (p *Provider) Interval() time.Duration {
	return time.Hour * 24 // the rate is updated daily
}

func (p *Provider) Fetch(ctx context.Context) ([]*types.ExchangeRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	return p.parseRates(doc, time.Now().UTC())
}

// parseRates extracts the <currency> -> VES rates from the page.
// Sections that are missing or unparsable are skipped
func (p *Provider) parseRates(doc *goquery.Document, fetchTime time.Time) ([]*types.ExchangeRate, error) {
	asOf := fetchTime
	if t, ok := parseEffectiveDate(doc); ok {
		asOf = t
	}

	var (
		target        = types.CurrencyOf(currency.VES)
		exchangeRates = make([]*types.ExchangeRate, 0, len(sections))
	)

	for _, s := range sections {
		rate, err := sectionRate(doc, s.id)
		if err != nil {
			p.logger.Warn(
				"skipping BCV rate section",
				"section", s.id,
				"err", err,
			)

			continue
		}

		exchangeRates = append(exchangeRates, &types.ExchangeRate{
			AsOf:      asOf,
			FetchedAt: fetchTime,
			Base:      types.CurrencyOf(s.unit),
			Target:    target,
			RateType:  types.RateTypeMID,
			Source:    Source,
			Rate:      rate,
		})
	}

	if len(exchangeRates) == 0 {
		return nil, errNoRates
	}

	return exchangeRates, nil
}

// sectionRate reads the rate value in the #id section, rounded to 4 decimals
func sectionRate(doc *goquery.Document, id string) (float64, error) {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return 0, fmt.Errorf("missing element #%s", id)
	}

	raw := strings.TrimSpace(sel.Find(".col-sm-6.col-xs-6.centrado").First().Text())
	if raw == "" {
		raw = strings.TrimSpace(sel.Find(".centrado").First().Text())
	}

	v, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}

	return math.Round(v*1e4) / 1e4, nil
}

// parseNumber parses a comma-decimal number ("1.234,56")
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errInvalidRate
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse rate %q: %w", s, err)
	}

	if f <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidRate, s)
	}

	return f, nil
}

// parseEffectiveDate reads the "Fecha Valor" date, preferring
// the machine-readable content attribute over the rendered text
func parseEffectiveDate(doc *goquery.Document) (time.Time, bool) {
	sel := doc.Find(`span.date-display-single[property="dc:date"]`).First()
	if sel.Length() == 0 {
		sel = doc.Find("span.date-display-single").First()
	}

	if sel.Length() == 0 {
		return time.Time{}, false
	}

	if content, ok := sel.Attr("content"); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(content)); err == nil {
			return t.UTC(), true
		}
	}

	t, err := parseSpanishDate(sel.Text())
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseSpanishDate parses dates like "Martes, 13 Enero 2026".
// The day of the week is optional
func parseSpanishDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); i != -1 {
		s = s[i+1:]
	}

	parts := strings.Fields(s)
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDate, s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", errInvalidDate, parts[0])
	}

	month, ok := spanishMonths[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: month %q", errInvalidDate, parts[1])
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year %q", errInvalidDate, parts[2])
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
