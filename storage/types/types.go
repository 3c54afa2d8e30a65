package types

import (
	"time"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
)

// Currency is a stored currency code
type Currency string

// CurrencyOf returns the stored code for the unit
func CurrencyOf(u currency.Unit) Currency {
	return Currency(u.Code())
}

func (c Currency) String() string {
	return string(c)
}

// RateType is the stored rate type, one of the convert.RateType values
type RateType = convert.RateType

const (
	RateTypeMID  = convert.RateTypeMID
	RateTypeBUY  = convert.RateTypeBUY
	RateTypeSELL = convert.RateTypeSELL
)

// Source is the name of the rate source.
// Sources double as exchange rate provider names
type Source string

func (s Source) String() string {
	return string(s)
}

type ExchangeRate struct {
	AsOf      time.Time `json:"as_of"`
	FetchedAt time.Time `json:"fetched_at"`
	Base      Currency  `json:"base"`
	Target    Currency  `json:"target"`
	RateType  RateType  `json:"rate_type"`
	Source    Source    `json:"source"`
	Rate      float64   `json:"rate"`
}

type RateQuery struct {
	Target   *Currency `json:"target"`
	RateType *RateType `json:"rate_type"`
	Source   *Source   `json:"source"`
	Base     Currency  `json:"base"`
	Offset   int64     `json:"offset"`
	Limit    int32     `json:"limit"`
}

// Page wraps the results for pagination
type Page[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}
