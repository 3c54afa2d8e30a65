package currency

var (
	USD = NewUnit("USD", 840, 2)
	EUR = NewUnit("EUR", 978, 2)
	GBP = NewUnit("GBP", 826, 2)
	JPY = NewUnit("JPY", 392, 0)
	CHF = NewUnit("CHF", 756, 2)
	CNY = NewUnit("CNY", 156, 2)
	INR = NewUnit("INR", 356, 2)
	TRY = NewUnit("TRY", 949, 2)
	RUB = NewUnit("RUB", 643, 2)
	VES = NewUnit("VES", 928, 2)

	// USDT is not an ISO-4217 currency
	USDT = NewUnit("USDT", -1, 2)
)

// isoUnits are the units known to the default registry.
// ECB reference rate currencies are all included
var isoUnits = []Unit{
	USD, EUR, GBP, JPY, CHF, CNY, INR, TRY, RUB, VES, USDT,
	NewUnit("AUD", 36, 2),
	NewUnit("BGN", 975, 2),
	NewUnit("BRL", 986, 2),
	NewUnit("CAD", 124, 2),
	NewUnit("CZK", 203, 2),
	NewUnit("DKK", 208, 2),
	NewUnit("HKD", 344, 2),
	NewUnit("HUF", 348, 2),
	NewUnit("IDR", 360, 2),
	NewUnit("ILS", 376, 2),
	NewUnit("ISK", 352, 0),
	NewUnit("KRW", 410, 0),
	NewUnit("MXN", 484, 2),
	NewUnit("MYR", 458, 2),
	NewUnit("NOK", 578, 2),
	NewUnit("NZD", 554, 2),
	NewUnit("PHP", 608, 2),
	NewUnit("PLN", 985, 2),
	NewUnit("RON", 946, 2),
	NewUnit("SEK", 752, 2),
	NewUnit("SGD", 702, 2),
	NewUnit("THB", 764, 2),
	NewUnit("ZAR", 710, 2),
}
