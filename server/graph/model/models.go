package model

type RateType string

const (
	RateTypeMid  RateType = "MID"
	RateTypeBuy  RateType = "BUY"
	RateTypeSell RateType = "SELL"
)

func (r RateType) IsValid() bool {
	switch r {
	case RateTypeMid, RateTypeBuy, RateTypeSell:
		return true
	default:
		return false
	}
}

type ExchangeRate struct {
	AsOf     *Time
	Base     string
	Term     string
	Provider string
	RateType RateType
	Factor   float64
}

type Amount struct {
	Currency string
	Number   float64
}

type Conversion struct {
	From *Amount
	To   *Amount
}

type Providers struct {
	Names        []string
	DefaultChain []string
}

type Availability struct {
	Target    string
	Providers []string
	Available bool
}

type StoredRate struct {
	AsOf      Time
	FetchedAt Time
	Base      string
	Target    string
	RateType  RateType
	Source    string
	Rate      float64
}

type RatePage struct {
	Results []*StoredRate
	Total   int32
}
