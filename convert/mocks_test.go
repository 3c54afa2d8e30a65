package convert

import (
	"context"

	"github.com/sig-0/fxconvert/currency"
)

type (
	conversionDelegate              func(*Query) (CurrencyConversion, error)
	isConversionAvailableDelegate   func(*Query) bool
	rateProviderDelegate            func(*Query) (ExchangeRateProvider, error)
	isRateProviderAvailableDelegate func(*Query) bool
	providerNamesDelegate           func() []string
	defaultChainDelegate            func() []string
)

type mockSPI struct {
	conversionFn              conversionDelegate
	isConversionAvailableFn   isConversionAvailableDelegate
	rateProviderFn            rateProviderDelegate
	isRateProviderAvailableFn isRateProviderAvailableDelegate
	providerNamesFn           providerNamesDelegate
	defaultChainFn            defaultChainDelegate
}

func (m *mockSPI) Conversion(q *Query) (CurrencyConversion, error) {
	if m.conversionFn != nil {
		return m.conversionFn(q)
	}

	return nil, nil
}

func (m *mockSPI) IsConversionAvailable(q *Query) bool {
	if m.isConversionAvailableFn != nil {
		return m.isConversionAvailableFn(q)
	}

	return false
}

func (m *mockSPI) ExchangeRateProvider(q *Query) (ExchangeRateProvider, error) {
	if m.rateProviderFn != nil {
		return m.rateProviderFn(q)
	}

	return nil, nil
}

func (m *mockSPI) IsExchangeRateProviderAvailable(q *Query) bool {
	if m.isRateProviderAvailableFn != nil {
		return m.isRateProviderAvailableFn(q)
	}

	return false
}

func (m *mockSPI) ProviderNames() []string {
	if m.providerNamesFn != nil {
		return m.providerNamesFn()
	}

	return nil
}

func (m *mockSPI) DefaultProviderChain() []string {
	if m.defaultChainFn != nil {
		return m.defaultChainFn()
	}

	return nil
}

// mockConversion is an opaque conversion handle
type mockConversion struct {
	term currency.Unit
}

func (m *mockConversion) Currency() currency.Unit {
	return m.term
}

func (m *mockConversion) ExchangeRate(_ context.Context, _ currency.Unit) (*ExchangeRate, error) {
	return nil, ErrRateNotFound
}

func (m *mockConversion) Apply(_ context.Context, amount currency.Amount) (currency.Amount, error) {
	return amount, nil
}

// mockProvider is an opaque rate provider handle
type mockProvider struct {
	name string
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) ExchangeRate(_ context.Context, _, _ currency.Unit) (*ExchangeRate, error) {
	return nil, ErrRateNotFound
}

func (m *mockProvider) CurrencyConversion(term currency.Unit) CurrencyConversion {
	return &mockConversion{term: term}
}
