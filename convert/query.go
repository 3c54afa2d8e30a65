package convert

import (
	"slices"
	"strings"

	"github.com/sig-0/fxconvert/currency"
)

// Query describes a requested conversion or rate provider.
// Query values are immutable, use a QueryBuilder to create them
type Query struct {
	base      currency.Unit
	term      currency.Unit
	providers []string
	rateTypes []RateType
}

// TermCurrency returns the target currency, if set
func (q *Query) TermCurrency() currency.Unit {
	return q.term
}

// BaseCurrency returns the source currency, if set
func (q *Query) BaseCurrency() currency.Unit {
	return q.base
}

// ProviderNames returns the provider chain, in priority order
func (q *Query) ProviderNames() []string {
	return slices.Clone(q.providers)
}

// RateTypes returns the acceptable rate types.
// An empty result means any rate type is acceptable
func (q *Query) RateTypes() []RateType {
	return slices.Clone(q.rateTypes)
}

// ToBuilder returns a builder pre-populated with the query values
func (q *Query) ToBuilder() *QueryBuilder {
	return &QueryBuilder{
		q: Query{
			base:      q.base,
			term:      q.term,
			providers: slices.Clone(q.providers),
			rateTypes: slices.Clone(q.rateTypes),
		},
	}
}

func (q *Query) String() string {
	var b strings.Builder

	b.WriteString("Query{")

	if !q.base.IsZero() {
		b.WriteString("base=" + q.base.Code() + ", ")
	}

	if !q.term.IsZero() {
		b.WriteString("term=" + q.term.Code() + ", ")
	}

	b.WriteString("providers=[" + strings.Join(q.providers, ",") + "]}")

	return b.String()
}

// QueryBuilder accumulates query values
type QueryBuilder struct {
	q Query
}

// NewQueryBuilder creates a new empty query builder
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// SetTermCurrency sets the target currency
func (b *QueryBuilder) SetTermCurrency(u currency.Unit) *QueryBuilder {
	b.q.term = u

	return b
}

// SetBaseCurrency sets the source currency
func (b *QueryBuilder) SetBaseCurrency(u currency.Unit) *QueryBuilder {
	b.q.base = u

	return b
}

// SetProviderNames sets the provider chain, replacing any previous one
func (b *QueryBuilder) SetProviderNames(names ...string) *QueryBuilder {
	b.q.providers = slices.Clone(names)

	return b
}

// SetRateTypes sets the acceptable rate types
func (b *QueryBuilder) SetRateTypes(types ...RateType) *QueryBuilder {
	b.q.rateTypes = slices.Clone(types)

	return b
}

// Build creates the query. The builder can be reused afterwards
func (b *QueryBuilder) Build() *Query {
	return &Query{
		base:      b.q.base,
		term:      b.q.term,
		providers: slices.Clone(b.q.providers),
		rateTypes: slices.Clone(b.q.rateTypes),
	}
}
