package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sig-0/fxconvert/storage/types"
)

const (
	defaultLimit = int32(100)
	maxLimit     = int32(500)
)

// key uniquely identifies a stored data point
type key struct {
	base, target, source, rateType string
	asOf                           int64 // unix nanos
}

// bucket groups data points that compete for the "latest" spot
type bucket struct {
	target, source, rateType string
}

// Storage is the in-memory rate store
type Storage struct {
	data map[key]types.ExchangeRate

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[key]types.ExchangeRate),
	}
}

func (s *Storage) SaveExchangeRate(_ context.Context, r *types.ExchangeRate) error {
	elem := *r
	elem.AsOf = elem.AsOf.UTC()
	elem.FetchedAt = elem.FetchedAt.UTC()

	k := key{
		base:     elem.Base.String(),
		target:   elem.Target.String(),
		source:   elem.Source.String(),
		rateType: elem.RateType.String(),
		asOf:     elem.AsOf.UnixNano(),
	}

	s.mu.Lock()
	s.data[k] = elem // re-ingesting the same point overwrites it
	s.mu.Unlock()

	return nil
}

func (s *Storage) RateAsOf(
	_ context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Page[*types.ExchangeRate], error) {
	cutoff := asOf.UTC()

	s.mu.RLock()

	latest := make(map[bucket]types.ExchangeRate)

	for _, v := range s.data {
		if !matches(query, &v) || v.AsOf.After(cutoff) {
			continue
		}

		b := bucket{
			target:   v.Target.String(),
			source:   v.Source.String(),
			rateType: v.RateType.String(),
		}

		cur, ok := latest[b]
		if !ok ||
			v.AsOf.After(cur.AsOf) ||
			(v.AsOf.Equal(cur.AsOf) && v.FetchedAt.After(cur.FetchedAt)) {
			latest[b] = v
		}
	}

	s.mu.RUnlock()

	out := make([]*types.ExchangeRate, 0, len(latest))
	for _, v := range latest {
		cp := v
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Target != out[j].Target {
			return out[i].Target < out[j].Target
		}

		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}

		return out[i].RateType < out[j].RateType
	})

	return paginate(out, query.Limit, query.Offset), nil
}

func (s *Storage) ListSources(_ context.Context) ([]types.Source, error) {
	s.mu.RLock()

	seen := make(map[types.Source]struct{})
	for k := range s.data {
		seen[types.Source(k.source)] = struct{}{}
	}

	s.mu.RUnlock()

	return sortedKeys(seen), nil
}

func (s *Storage) ListCurrencies(_ context.Context) ([]types.Currency, error) {
	s.mu.RLock()

	seen := make(map[types.Currency]struct{})
	for k := range s.data {
		seen[types.Currency(k.base)] = struct{}{}
		seen[types.Currency(k.target)] = struct{}{}
	}

	s.mu.RUnlock()

	return sortedKeys(seen), nil
}

// matches checks the rate against the query filters (as-of excluded)
func matches(query *types.RateQuery, v *types.ExchangeRate) bool {
	if v.Base != query.Base {
		return false
	}

	if query.Target != nil && v.Target != *query.Target {
		return false
	}

	if query.Source != nil && v.Source != *query.Source {
		return false
	}

	if query.RateType != nil && v.RateType != *query.RateType {
		return false
	}

	return true
}

// paginate applies the (clamped) limit and offset to the sorted results
func paginate(out []*types.ExchangeRate, limit int32, offset int64) *types.Page[*types.ExchangeRate] {
	total := int64(len(out))
	if total == 0 || offset >= total || offset < 0 {
		return &types.Page[*types.ExchangeRate]{
			Results: nil,
			Total:   total,
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	start := int(offset)
	end := min(start+int(limit), len(out))

	return &types.Page[*types.ExchangeRate]{
		Results: out[start:end],
		Total:   total,
	}
}

func sortedKeys[T ~string](seen map[T]struct{}) []T {
	out := make([]T, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out
}
