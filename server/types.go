package server

import (
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/storage/types"
)

type ProvidersResponse struct {
	Results      []string `json:"results"`
	DefaultChain []string `json:"default_chain"`
}

type ConvertResponse struct {
	From currency.Amount `json:"from"`
	To   currency.Amount `json:"to"`
}

type AvailabilityResponse struct {
	Target    string   `json:"target"`
	Providers []string `json:"providers"`
	Available bool     `json:"available"`
}

type SourcesResponse struct {
	Results []types.Source `json:"results"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
