package convert

// SPI is the backend the Conversions facade delegates to.
// Implementations are required to be safe for concurrent use
type SPI interface {
	// Conversion returns the conversion matching the query
	Conversion(*Query) (CurrencyConversion, error)

	// IsConversionAvailable checks if Conversion would succeed for the query
	IsConversionAvailable(*Query) bool

	// ExchangeRateProvider returns the (possibly compound) provider
	// for the query's provider chain
	ExchangeRateProvider(*Query) (ExchangeRateProvider, error)

	// IsExchangeRateProviderAvailable checks if ExchangeRateProvider
	// would succeed for the query
	IsExchangeRateProviderAvailable(*Query) bool

	// ProviderNames returns the names of all registered providers
	ProviderNames() []string

	// DefaultProviderChain returns the chain used when the caller
	// specifies no providers. Must never be nil
	DefaultProviderChain() []string
}

// ProviderSupplier supplies a single provider name
type ProviderSupplier interface {
	ProviderName() string
}

// ProviderSupplierFunc adapts a function to a ProviderSupplier
type ProviderSupplierFunc func() string

func (f ProviderSupplierFunc) ProviderName() string {
	return f()
}

// ProviderName is a constant ProviderSupplier
type ProviderName string

func (n ProviderName) ProviderName() string {
	return string(n)
}
